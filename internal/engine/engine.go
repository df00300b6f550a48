// Package engine implements the executor/orchestrator: it wires the
// module loader, reference resolver, data source reader, dependency
// graph, planner, provider registry and state store together around the
// two end-to-end flows, plan and apply.
package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/hashicorp/go-hclog"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/zclconf/go-cty/cty"

	"github.com/farukkavlak/miniform/internal/addrs"
	"github.com/farukkavlak/miniform/internal/ast"
	"github.com/farukkavlak/miniform/internal/configs"
	"github.com/farukkavlak/miniform/internal/dag"
	"github.com/farukkavlak/miniform/internal/lang"
	"github.com/farukkavlak/miniform/internal/plans"
	"github.com/farukkavlak/miniform/internal/providers"
	"github.com/farukkavlak/miniform/internal/states"
	"github.com/farukkavlak/miniform/internal/tfdiags"
)

var logger = hclog.Default().Named("engine")

// Engine drives plan and apply over one root configuration directory,
// against one state store and one provider registry.
type Engine struct {
	RootDir  string
	Store    *states.Store
	Registry *providers.Registry
}

// New returns an Engine ready to run Plan or Apply.
func New(rootDir string, store *states.Store, registry *providers.Registry) *Engine {
	return &Engine{RootDir: rootDir, Store: store, Registry: registry}
}

// prepared bundles the shared setup Plan and Apply both perform: load
// configuration, evaluate data sources, and build the execution graph. A
// fresh Scope Manager backs every call, so no state leaks between one
// plan/apply and the next.
type prepared struct {
	loaded   *configs.Loaded
	sm       *lang.ScopeManager
	data     *lang.DataCache
	state    *states.State
	graph    *dag.Graph
	resolver *lang.Resolver
}

func (e *Engine) prepare(state *states.State) (*prepared, error) {
	sm := lang.NewScopeManager()

	loaded, err := configs.Load(e.RootDir, sm)
	if err != nil {
		return nil, err
	}

	dataSources := make([]lang.DataSource, 0, len(loaded.DataSources))
	for _, d := range loaded.DataSources {
		dataSources = append(dataSources, lang.DataSource{
			ModulePath: d.ModulePath, Type: d.Data.Type, Name: d.Data.Name, Attrs: d.Data.Attrs,
		})
	}
	data, err := lang.EvaluateDataSources(dataSources, sm, state, e.Registry)
	if err != nil {
		return nil, err
	}

	return &prepared{
		loaded:   loaded,
		sm:       sm,
		data:     data,
		state:    state,
		graph:    BuildGraph(loaded),
		resolver: lang.NewResolver(sm, data, state),
	}, nil
}

func toPlanResources(rs []configs.LoadedResource) []plans.Resource {
	out := make([]plans.Resource, 0, len(rs))
	for _, r := range rs {
		out = append(out, plans.Resource{Address: r.Address, Attrs: r.Resource.Attrs})
	}
	return out
}

// Plan parses and loads the configuration, evaluates data sources, diffs
// the result against the current state, and returns the resulting
// actions. It has no side effect on state.
func (e *Engine) Plan() ([]plans.PlanAction, error) {
	state, err := e.Store.Read()
	if err != nil {
		return nil, err
	}
	p, err := e.prepare(state)
	if err != nil {
		return nil, err
	}
	if _, err := p.graph.Layers(); err != nil {
		return nil, err
	}
	return plans.Plan(toPlanResources(p.loaded.Resources), p.state, e.Registry, p.resolver)
}

// Outputs evaluates the root module's outputs against the persisted state,
// without planning or applying anything -- the read path behind the
// `output` CLI command.
func (e *Engine) Outputs() (map[string]cty.Value, error) {
	state, err := e.Store.Read()
	if err != nil {
		return nil, err
	}
	p, err := e.prepare(state)
	if err != nil {
		return nil, err
	}
	return e.rootOutputs(p), nil
}

// Graph loads the configuration and builds its dependency graph, without
// touching state or providers -- the read path behind the `graph` CLI
// command, which renders the result as Graphviz DOT.
func (e *Engine) Graph() (*dag.Graph, error) {
	sm := lang.NewScopeManager()
	loaded, err := configs.Load(e.RootDir, sm)
	if err != nil {
		return nil, err
	}
	return BuildGraph(loaded), nil
}

// Validate implements the `validate` CLI surface: it confirms the root
// module and every module it transitively references load and parse, and
// that the resulting dependency graph is acyclic. It makes no provider
// calls.
func (e *Engine) Validate() error {
	sm := lang.NewScopeManager()
	loaded, err := configs.Load(e.RootDir, sm)
	if err != nil {
		return err
	}
	_, err = BuildGraph(loaded).Layers()
	return err
}

// Apply runs Plan's steps and then executes the resulting actions,
// persisting state once planning has succeeded, whether execution then
// succeeds or fails (a failure to read state, load or plan returns before
// anything is persisted), and returns the
// evaluated root outputs on success. The whole run is wrapped in the
// state lock, matching the lock/try/unlock discipline every destructive
// operation follows.
func (e *Engine) Apply(ctx context.Context) (map[string]cty.Value, error) {
	var outputs map[string]cty.Value
	err := e.Store.WithLock("miniform", "apply", func() error {
		state, err := e.Store.Read()
		if err != nil {
			return err
		}
		p, err := e.prepare(state)
		if err != nil {
			return err
		}

		actions, err := plans.Plan(toPlanResources(p.loaded.Resources), p.state, e.Registry, p.resolver)
		if err != nil {
			return err
		}

		var deletes []plans.PlanAction
		actionsByAddr := make(map[string]plans.PlanAction, len(actions))
		for _, a := range actions {
			if a.Action == plans.Delete {
				deletes = append(deletes, a)
				continue
			}
			actionsByAddr[a.Address().String()] = a
		}

		layers, graphErr := p.graph.Layers()
		if graphErr != nil {
			// Persist as on every path after planning, even though
			// nothing ran this time.
			_ = e.persist(p)
			return graphErr
		}

		runErr := e.runLayers(ctx, layers, p, actionsByAddr)
		if runErr != nil {
			_ = e.persist(p)
			return runErr
		}

		if err := e.runDeletes(deletes, p, actionsByAddr); err != nil {
			_ = e.persist(p)
			return err
		}

		if err := e.persist(p); err != nil {
			return err
		}

		outputs = e.rootOutputs(p)
		return nil
	})
	return outputs, err
}

// runLayers walks the execution DAG layer by layer: every node in a layer
// is dispatched concurrently; a layer is complete only once every one of
// its peers has finished, and a failing peer does not cancel its
// siblings -- their errors are collected and returned together once the
// layer finishes.
func (e *Engine) runLayers(ctx context.Context, layers [][]dag.Vertex, p *prepared, actionsByAddr map[string]plans.PlanAction) error {
	outputByKey := make(map[string]configs.LoadedOutput, len(p.loaded.Outputs))
	for _, o := range p.loaded.Outputs {
		outputByKey[addrs.OutputKey(o.ModulePath, o.Output.Name)] = o
	}

	for _, layer := range layers {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var wg sync.WaitGroup
		var mu sync.Mutex
		var errs *multierror.Error

		for _, v := range layer {
			key, _ := v.(string)
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				var err error
				switch {
				case outputMatches(outputByKey, key):
					err = e.evalOutput(p, outputByKey[key])
				case actionMatches(actionsByAddr, key):
					err = e.executeAction(p, actionsByAddr[key])
				}
				if err != nil {
					mu.Lock()
					errs = multierror.Append(errs, err)
					mu.Unlock()
				}
			}(key)
		}
		wg.Wait()

		if err := errs.ErrorOrNil(); err != nil {
			return err
		}
	}
	return nil
}

func outputMatches(m map[string]configs.LoadedOutput, key string) bool {
	_, ok := m[key]
	return ok
}

func actionMatches(m map[string]plans.PlanAction, key string) bool {
	_, ok := m[key]
	return ok
}

// evalOutput handles an "outputs node" in the dependency graph: it
// resolves the output's value once (failing fast if any referenced
// resource is not yet available) and stores the output's raw value in the
// Scope Manager so later readers -- a parent module's `module.M.O`
// reference, or the final root-outputs pass -- can resolve it themselves.
func (e *Engine) evalOutput(p *prepared, o configs.LoadedOutput) error {
	ctx := addrs.Address{ModulePath: o.ModulePath}
	if _, err := p.resolver.Resolve(ctx, o.Output.Value); err != nil {
		return err
	}
	p.sm.SetOutput(addrs.ScopeString(o.ModulePath), o.Output.Name, o.Output.Value)
	return nil
}

func (e *Engine) executeAction(p *prepared, action plans.PlanAction) error {
	addr := action.Address()
	ctx := addrs.Address{ModulePath: addr.ModulePath}

	switch action.Action {
	case plans.Create:
		provider, ok := e.Registry.ForResourceType(addr.Type)
		if !ok {
			return tfdiags.Configf("no provider registered for resource type %q", addr.Type)
		}
		inputs, err := resolveAttrs(p.resolver, ctx, action.Attributes)
		if err != nil {
			return err
		}
		if err := provider.Validate(addr.Type, inputs); err != nil {
			return &tfdiags.ProviderError{ResourceType: addr.Type, Operation: "validate", Err: err}
		}
		id, err := provider.Create(addr.Type, inputs)
		if err != nil {
			return &tfdiags.ProviderError{ResourceType: addr.Type, Operation: "create", Err: err}
		}
		p.state.Put(addr, states.Resource{ID: id, Attributes: toAttrValues(inputs)})
		logger.Debug("created", "address", addr, "id", id)
		return nil

	case plans.Update:
		provider, ok := e.Registry.ForResourceType(addr.Type)
		if !ok {
			return tfdiags.Configf("no provider registered for resource type %q", addr.Type)
		}
		existing, _ := p.state.Get(addr)
		merged := mergeChanges(existing.Attributes, action.Changes)
		inputs := attrValuesToCty(merged)
		if err := provider.Validate(addr.Type, inputs); err != nil {
			return &tfdiags.ProviderError{ResourceType: addr.Type, Operation: "validate", Err: err}
		}
		if err := provider.Update(action.ID, addr.Type, inputs); err != nil {
			return &tfdiags.ProviderError{ResourceType: addr.Type, Operation: "update", Err: err}
		}
		existing.ID = action.ID
		existing.Attributes = merged
		p.state.Put(addr, existing)
		logger.Debug("updated", "address", addr, "id", action.ID)
		return nil

	case plans.NoOp:
		return nil

	default: // plans.Delete never appears in the create/update partition.
		return nil
	}
}

// runDeletes runs once all create/update work has already completed:
// the remaining DELETEs run sequentially, in canonical-address order, a
// stable and arbitrary choice. A DELETE paired with a CREATE at the same
// address (a forceNew replacement) only removes the old external
// resource by its id -- the CREATE has already written that address's
// new record into state, and wiping it here would undo that write and
// make the resource look untracked on the next plan.
func (e *Engine) runDeletes(deletes []plans.PlanAction, p *prepared, actionsByAddr map[string]plans.PlanAction) error {
	sort.SliceStable(deletes, func(i, j int) bool {
		return deletes[i].Address().String() < deletes[j].Address().String()
	})

	var errs *multierror.Error
	for _, d := range deletes {
		addr := d.Address()
		provider, ok := e.Registry.ForResourceType(addr.Type)
		if !ok {
			errs = multierror.Append(errs, tfdiags.Configf("no provider registered for resource type %q", addr.Type))
			continue
		}
		if err := provider.Delete(d.ID, addr.Type); err != nil {
			errs = multierror.Append(errs, &tfdiags.ProviderError{ResourceType: addr.Type, Operation: "delete", Err: err})
			continue
		}
		if replacement, ok := actionsByAddr[addr.String()]; !ok || replacement.Action != plans.Create {
			p.state.Delete(addr)
		}
		logger.Debug("deleted", "address", addr, "id", d.ID)
	}
	return errs.ErrorOrNil()
}

// persist snapshots the Scope Manager's variables into state.Variables,
// then writes state through the Store (which backs up the prior file
// first). Called on every path after planning, success or failure, so a
// partial apply's progress is never lost.
func (e *Engine) persist(p *prepared) error {
	snapshot := p.sm.AllVariables()
	vars := make(map[string]map[string]states.AttrValue, len(snapshot))
	for scope, byName := range snapshot {
		inner := make(map[string]states.AttrValue, len(byName))
		for name, v := range byName {
			defCtx := addrs.Address{ModulePath: v.DefCtx.ModulePath}
			resolved, err := p.resolver.Resolve(defCtx, v.Value)
			if err != nil {
				// A variable whose value could not be resolved (e.g. its
				// defining context no longer exists) is dropped from the
				// snapshot rather than failing the whole persist step.
				continue
			}
			inner[name] = states.NewAttrValue(resolved)
		}
		vars[scope] = inner
	}
	p.state.Variables = vars
	return e.Store.Write(p.state)
}

// rootOutputs evaluates every root-level output for the caller, once
// every layer has finished and the final state is known.
func (e *Engine) rootOutputs(p *prepared) map[string]cty.Value {
	out := map[string]cty.Value{}
	for _, o := range p.loaded.Outputs {
		if len(o.ModulePath) != 0 {
			continue
		}
		v, err := p.resolver.Resolve(addrs.Address{}, o.Output.Value)
		if err != nil {
			continue
		}
		out[o.Output.Name] = v
	}
	return out
}

func resolveAttrs(resolver *lang.Resolver, ctx addrs.Address, attrs ast.Attributes) (map[string]cty.Value, error) {
	out := make(map[string]cty.Value, len(attrs.Names))
	for _, name := range attrs.Names {
		v, _ := attrs.Get(name)
		resolved, err := resolver.Resolve(ctx, v)
		if err != nil {
			return nil, err
		}
		out[name] = resolved
	}
	return out, nil
}

func mergeChanges(existing map[string]states.AttrValue, changes map[string]plans.Change) map[string]states.AttrValue {
	merged := make(map[string]states.AttrValue, len(existing)+len(changes))
	for k, v := range existing {
		merged[k] = v
	}
	for k, c := range changes {
		if c.New.Value == cty.NilVal {
			delete(merged, k)
			continue
		}
		merged[k] = c.New
	}
	return merged
}

func attrValuesToCty(in map[string]states.AttrValue) map[string]cty.Value {
	out := make(map[string]cty.Value, len(in))
	for k, v := range in {
		out[k] = v.Value
	}
	return out
}

func toAttrValues(in map[string]cty.Value) map[string]states.AttrValue {
	out := make(map[string]states.AttrValue, len(in))
	for k, v := range in {
		out[k] = states.NewAttrValue(v)
	}
	return out
}
