package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/farukkavlak/miniform/internal/ast"
	"github.com/farukkavlak/miniform/internal/providers"
	"github.com/farukkavlak/miniform/internal/states"
)

// fakeDataProvider serves a single data source type whose Read echoes its
// inputs back with one extra computed attribute, enough to exercise the
// evaluator without a real external system.
type fakeDataProvider struct {
	typeName string
	reads    int
}

func (p *fakeDataProvider) ResourceTypes() []string   { return nil }
func (p *fakeDataProvider) DataSourceTypes() []string { return []string{p.typeName} }

func (p *fakeDataProvider) GetSchema(typeName string) (providers.Schema, bool) {
	return providers.Schema{"name": providers.AttrSchema{Type: providers.TypeString, Required: true}}, true
}

func (p *fakeDataProvider) Validate(typeName string, inputs map[string]cty.Value) error {
	return nil
}

func (p *fakeDataProvider) Create(typeName string, inputs map[string]cty.Value) (string, error) {
	return "", nil
}

func (p *fakeDataProvider) Update(id, typeName string, inputs map[string]cty.Value) error {
	return nil
}

func (p *fakeDataProvider) Delete(id, typeName string) error { return nil }

func (p *fakeDataProvider) Read(typeName string, inputs map[string]cty.Value) (map[string]cty.Value, error) {
	p.reads++
	out := map[string]cty.Value{"greeting": cty.StringVal("hello, " + inputs["name"].AsString())}
	for k, v := range inputs {
		out[k] = v
	}
	return out, nil
}

func registryWith(p providers.Provider) *providers.Registry {
	r := providers.NewRegistry()
	_ = r.Register(p)
	return r
}

func TestEvaluateDataSourcesCachesResolvedAttributes(t *testing.T) {
	sm := NewScopeManager()
	p := &fakeDataProvider{typeName: "greeter"}

	sources := []DataSource{
		{Type: "greeter", Name: "a", Attrs: attrsOf(map[string]ast.Value{"name": ast.String{Val: "world"}})},
	}

	cache, err := EvaluateDataSources(sources, sm, states.New(), registryWith(p))
	require.NoError(t, err)

	attrs, ok := cache.Get("greeter.a")
	require.True(t, ok)
	assert.Equal(t, "hello, world", attrs["greeting"].AsString())
	assert.Equal(t, 1, p.reads)
}

func TestEvaluateDataSourcesResolvesVariableInputs(t *testing.T) {
	sm := NewScopeManager()
	sm.SetVariable("", "who", Variable{Value: ast.String{Val: "miniform"}})
	p := &fakeDataProvider{typeName: "greeter"}

	sources := []DataSource{
		{Type: "greeter", Name: "a", Attrs: attrsOf(map[string]ast.Value{
			"name": ast.Reference{Parts: []string{"var", "who"}},
		})},
	}

	cache, err := EvaluateDataSources(sources, sm, states.New(), registryWith(p))
	require.NoError(t, err)

	attrs, _ := cache.Get("greeter.a")
	assert.Equal(t, "hello, miniform", attrs["greeting"].AsString())
}

func TestEvaluateDataSourcesRejectsResourceDependency(t *testing.T) {
	sm := NewScopeManager()
	p := &fakeDataProvider{typeName: "greeter"}

	sources := []DataSource{
		{Type: "greeter", Name: "a", Attrs: attrsOf(map[string]ast.Value{
			"name": ast.Reference{Parts: []string{"local_file", "f", "id"}},
		})},
	}

	_, err := EvaluateDataSources(sources, sm, states.New(), registryWith(p))
	assert.Error(t, err)
}

func TestEvaluateDataSourcesRejectsModuleOutputDependency(t *testing.T) {
	sm := NewScopeManager()
	p := &fakeDataProvider{typeName: "greeter"}

	sources := []DataSource{
		{Type: "greeter", Name: "a", Attrs: attrsOf(map[string]ast.Value{
			"name": ast.Reference{Parts: []string{"module", "net", "vpc_id"}},
		})},
	}

	_, err := EvaluateDataSources(sources, sm, states.New(), registryWith(p))
	assert.Error(t, err)
}

func TestEvaluateDataSourcesMissingProviderFails(t *testing.T) {
	sm := NewScopeManager()
	sources := []DataSource{
		{Type: "unregistered", Name: "a", Attrs: attrsOf(map[string]ast.Value{"name": ast.String{Val: "x"}})},
	}

	_, err := EvaluateDataSources(sources, sm, states.New(), providers.NewRegistry())
	assert.Error(t, err)
}

func attrsOf(m map[string]ast.Value) ast.Attributes {
	a := ast.NewAttributes()
	for k, v := range m {
		a.Set(k, v)
	}
	return a
}
