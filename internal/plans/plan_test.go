package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/farukkavlak/miniform/internal/addrs"
	"github.com/farukkavlak/miniform/internal/ast"
	"github.com/farukkavlak/miniform/internal/lang"
	"github.com/farukkavlak/miniform/internal/providers"
	"github.com/farukkavlak/miniform/internal/states"
)

func attrs(kv map[string]ast.Value) ast.Attributes {
	a := ast.NewAttributes()
	for k, v := range kv {
		a.Set(k, v)
	}
	return a
}

func newResolver(t *testing.T, state *states.State) *lang.Resolver {
	t.Helper()
	sm := lang.NewScopeManager()
	return lang.NewResolver(sm, lang.NewDataCache(), state)
}

func TestPlanCreatesWhenAbsentFromState(t *testing.T) {
	resources := []Resource{{
		Address: addrs.Root("local_file", "a"),
		Attrs:   attrs(map[string]ast.Value{"content": ast.String{Val: "hi"}}),
	}}
	state := states.New()

	actions, err := Plan(resources, state, nil, newResolver(t, state))
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, Create, actions[0].Action)
	assert.Equal(t, "local_file", actions[0].ResourceType)
	v, ok := actions[0].Attributes.Get("content")
	require.True(t, ok)
	assert.Equal(t, "hi", v.(ast.String).Val)
}

func TestPlanNoOpWhenUnchanged(t *testing.T) {
	addr := addrs.Root("local_file", "a")
	state := states.New()
	state.Put(addr, states.Resource{
		ID:         "/tmp/a",
		Attributes: map[string]states.AttrValue{"content": states.NewAttrValue(cty.StringVal("hi"))},
	})

	resources := []Resource{{Address: addr, Attrs: attrs(map[string]ast.Value{"content": ast.String{Val: "hi"}})}}

	actions, err := Plan(resources, state, nil, newResolver(t, state))
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, NoOp, actions[0].Action)
	assert.Equal(t, "/tmp/a", actions[0].ID)
}

func TestPlanUpdateOnAttributeChange(t *testing.T) {
	addr := addrs.Root("local_file", "a")
	state := states.New()
	state.Put(addr, states.Resource{
		ID:         "/tmp/a",
		Attributes: map[string]states.AttrValue{"content": states.NewAttrValue(cty.StringVal("hi"))},
	})

	resources := []Resource{{Address: addr, Attrs: attrs(map[string]ast.Value{"content": ast.String{Val: "ho"}})}}

	actions, err := Plan(resources, state, nil, newResolver(t, state))
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, Update, actions[0].Action)
	require.Contains(t, actions[0].Changes, "content")
	assert.Equal(t, "hi", actions[0].Changes["content"].Old.AsString())
	assert.Equal(t, "ho", actions[0].Changes["content"].New.AsString())
}

func TestPlanDeletesResourcesNotInDesired(t *testing.T) {
	addr := addrs.Root("local_file", "gone")
	state := states.New()
	state.Put(addr, states.Resource{ID: "/tmp/gone"})

	actions, err := Plan(nil, state, nil, newResolver(t, state))
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, Delete, actions[0].Action)
	assert.Equal(t, "/tmp/gone", actions[0].ID)
}

type fakeProvider struct {
	schema providers.Schema
}

func (f *fakeProvider) ResourceTypes() []string    { return []string{"test_thing"} }
func (f *fakeProvider) DataSourceTypes() []string  { return nil }
func (f *fakeProvider) GetSchema(t string) (providers.Schema, bool) {
	if t != "test_thing" {
		return nil, false
	}
	return f.schema, true
}
func (f *fakeProvider) Validate(string, map[string]cty.Value) error         { return nil }
func (f *fakeProvider) Create(string, map[string]cty.Value) (string, error) { return "", nil }
func (f *fakeProvider) Update(string, string, map[string]cty.Value) error   { return nil }
func (f *fakeProvider) Delete(string, string) error                         { return nil }
func (f *fakeProvider) Read(string, map[string]cty.Value) (map[string]cty.Value, error) {
	return nil, nil
}

func TestPlanSplitsForceNewIntoDeleteAndCreate(t *testing.T) {
	registry := providers.NewRegistry()
	require.NoError(t, registry.Register(&fakeProvider{schema: providers.Schema{
		"ami": {Type: providers.TypeString, ForceNew: true},
	}}))

	addr := addrs.Root("test_thing", "a")
	state := states.New()
	state.Put(addr, states.Resource{
		ID:         "id-1",
		Attributes: map[string]states.AttrValue{"ami": states.NewAttrValue(cty.StringVal("old"))},
	})

	resources := []Resource{{Address: addr, Attrs: attrs(map[string]ast.Value{"ami": ast.String{Val: "new"}})}}

	actions, err := Plan(resources, state, registry, newResolver(t, state))
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, Create, actions[0].Action)
	assert.Equal(t, Delete, actions[1].Action)
	assert.Equal(t, "id-1", actions[1].ID)
}

func TestPlanOrderingIsDeterministic(t *testing.T) {
	state := states.New()
	resources := []Resource{
		{Address: addrs.Root("local_file", "b"), Attrs: attrs(nil)},
		{Address: addrs.Root("local_file", "a"), Attrs: attrs(nil)},
	}
	actions, err := Plan(resources, state, nil, newResolver(t, state))
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "a", actions[0].Name)
	assert.Equal(t, "b", actions[1].Name)
}
