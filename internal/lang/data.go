package lang

import (
	"sort"
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/farukkavlak/miniform/internal/addrs"
	"github.com/farukkavlak/miniform/internal/ast"
	"github.com/farukkavlak/miniform/internal/providers"
	"github.com/farukkavlak/miniform/internal/states"
	"github.com/farukkavlak/miniform/internal/tfdiags"
)

// DataCache holds the resolved attribute map for every data block, keyed by
// [addrs.DataKey]. It is populated once, up front, by [EvaluateDataSources]
// and consulted by the Resolver for every data.* reference thereafter --
// a data source is never re-read mid-resolution.
type DataCache struct {
	mu   sync.RWMutex
	data map[string]map[string]cty.Value
}

// NewDataCache returns an empty cache, ready to use.
func NewDataCache() *DataCache {
	return &DataCache{data: map[string]map[string]cty.Value{}}
}

// Get looks up a previously-evaluated data source's attributes by key.
func (c *DataCache) Get(key string) (map[string]cty.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *DataCache) set(key string, attrs map[string]cty.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = attrs
}

// DataSource is the minimal shape of a loaded `data` block the evaluator
// needs. It deliberately does not reuse internal/configs.LoadedData so that
// this package keeps no dependency on internal/configs (which already
// depends on lang for the Scope Manager).
type DataSource struct {
	ModulePath []string
	Type       string
	Name       string
	Attrs      ast.Attributes
}

// EvaluateDataSources reads every data block up front, parents before
// children (a stable sort by module depth, so source order within one
// module is kept) -- it resolves the block's inputs in its declaring
// scope, rejects any input that reaches a resource or a module output
// (data sources may depend only on variables, other data sources, and
// literals), then calls provider.validate followed by provider.read and
// caches the result.
func EvaluateDataSources(sources []DataSource, sm *ScopeManager, state *states.State, registry *providers.Registry) (*DataCache, error) {
	cache := NewDataCache()
	resolver := NewResolver(sm, cache, state)

	sources = append([]DataSource(nil), sources...)
	sort.SliceStable(sources, func(i, j int) bool {
		return len(sources[i].ModulePath) < len(sources[j].ModulePath)
	})

	for _, ds := range sources {
		if err := rejectNonDataDependency(ds); err != nil {
			return nil, err
		}

		ctx := addrs.Address{ModulePath: ds.ModulePath}
		inputs := make(map[string]cty.Value, len(ds.Attrs.Names))
		for _, name := range ds.Attrs.Names {
			v, _ := ds.Attrs.Get(name)
			resolved, err := resolver.Resolve(ctx, v)
			if err != nil {
				return nil, err
			}
			inputs[name] = resolved
		}

		provider, ok := registry.ForDataSourceType(ds.Type)
		if !ok {
			return nil, tfdiags.Resolvef("no provider registered for data source type %q", ds.Type)
		}
		if err := provider.Validate(ds.Type, inputs); err != nil {
			return nil, &tfdiags.ProviderError{ResourceType: ds.Type, Operation: "validate", Err: err}
		}
		attrs, err := provider.Read(ds.Type, inputs)
		if err != nil {
			return nil, &tfdiags.ProviderError{ResourceType: ds.Type, Operation: "read", Err: err}
		}

		cache.set(addrs.DataKey(ds.ModulePath, ds.Type, ds.Name), attrs)
	}

	return cache, nil
}

// rejectNonDataDependency enforces that data sources may only depend on
// variables, other data sources, and literals, by walking every
// attribute's references (direct and interpolated) and failing on the
// first one that names a resource or a module output.
func rejectNonDataDependency(ds DataSource) error {
	for _, name := range ds.Attrs.Names {
		v, _ := ds.Attrs.Get(name)
		err := WalkReferences(v, func(parts []string) error {
			ref, err := addrs.ClassifyReference(ds.ModulePath, parts)
			if err != nil {
				return err
			}
			switch ref.Kind {
			case addrs.RefResource:
				return tfdiags.Resolvef(
					"data %q %q: input %q references resource %q.%q: data sources may only depend on variables, other data sources, and literals",
					ds.Type, ds.Name, name, ref.Type, ref.Name,
				)
			case addrs.RefModuleOutput:
				return tfdiags.Resolvef(
					"data %q %q: input %q references module output %q: data sources may only depend on variables, other data sources, and literals",
					ds.Type, ds.Name, name, ref.Name,
				)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
