package tfdiags

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
)

func TestLexError(t *testing.T) {
	err := &LexError{Pos: hcl.Pos{Line: 3, Column: 5}, Char: '@'}
	assert.Equal(t, KindLex, err.Kind())
	assert.Contains(t, err.Error(), "3:5")
	assert.Contains(t, err.Error(), "@")
}

func TestConfigf(t *testing.T) {
	err := Configf("module %q has no source", "app")
	assert.Equal(t, KindConfig, err.Kind())
	assert.Equal(t, `module "app" has no source`, err.Error())
}

func TestCycleError(t *testing.T) {
	err := &CycleError{Remaining: []string{"a", "b"}}
	assert.Equal(t, KindCycle, err.Kind())
	assert.Contains(t, err.Error(), "Dependency Cycle Detected")
}

func TestProviderErrorUnwrap(t *testing.T) {
	inner := Planf("bad schema")
	err := &ProviderError{ResourceType: "local_file", Operation: "create", Err: inner}
	assert.ErrorIs(t, err, inner)
}

func TestLockErrorMessage(t *testing.T) {
	err := &LockError{Info: &LockInfo{ID: "abc", Who: "alice@host"}, Err: Statef(nil, "exists")}
	assert.Contains(t, err.Error(), "alice@host")
	assert.Contains(t, err.Error(), "abc")
}
