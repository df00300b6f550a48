package lang

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/farukkavlak/miniform/internal/addrs"
	"github.com/farukkavlak/miniform/internal/ast"
	"github.com/farukkavlak/miniform/internal/states"
	"github.com/farukkavlak/miniform/internal/tfdiags"
)

// maxVariableIndirection guards against a cycle of variable definitions
// that reference one another: a depth guard catches it instead of
// recursing forever.
const maxVariableIndirection = 64

// Resolver turns an [ast.Value] -- possibly containing References or
// "${...}" interpolations -- into a concrete [cty.Value], in the context
// of a resolving module and against a given state snapshot and
// data-source cache.
//
// A composite (List/Map) is always resolved deep, leaf by leaf: plan
// diffing and provider input construction are the only callers in this
// engine, and both need every leaf concrete to compare or serialize.
// Leaving an attribute unresolved for storage is handled at the call
// site instead -- the planner's CREATE action simply never calls Resolve
// on attributes it is about to store in unresolved AST form.
type Resolver struct {
	sm    *ScopeManager
	data  *DataCache
	state *states.State
}

// NewResolver builds a Resolver over a scope manager, a data-source cache
// (evaluated up front, before any resource is resolved), and the current
// state snapshot resource references are checked against.
func NewResolver(sm *ScopeManager, data *DataCache, state *states.State) *Resolver {
	return &Resolver{sm: sm, data: data, state: state}
}

// Resolve resolves v in the context of ctx, whose ModulePath determines
// the scope unqualified references (var.*, data.*, bare type.name.attr)
// are looked up in.
func (r *Resolver) Resolve(ctx addrs.Address, v ast.Value) (cty.Value, error) {
	return r.resolve(ctx, v, 0)
}

func (r *Resolver) resolve(ctx addrs.Address, v ast.Value, depth int) (cty.Value, error) {
	switch val := v.(type) {
	case ast.String:
		s, err := interpolate(val.Val, func(parts []string) (cty.Value, error) {
			return r.resolveReference(ctx, parts, depth)
		})
		if err != nil {
			return cty.NilVal, err
		}
		return cty.StringVal(s), nil

	case ast.Number:
		return cty.NumberIntVal(val.Val), nil

	case ast.Boolean:
		return cty.BoolVal(val.Val), nil

	case ast.Reference:
		return r.resolveReference(ctx, val.Parts, depth)

	case ast.List:
		items := make([]cty.Value, len(val.Items))
		for i, it := range val.Items {
			v, err := r.resolve(ctx, it, depth)
			if err != nil {
				return cty.NilVal, err
			}
			items[i] = v
		}
		if len(items) == 0 {
			return cty.EmptyTupleVal, nil
		}
		return cty.TupleVal(items), nil

	case ast.Map:
		attrs := make(map[string]cty.Value, len(val.Entries))
		for _, e := range val.Entries {
			v, err := r.resolve(ctx, e.Value, depth)
			if err != nil {
				return cty.NilVal, err
			}
			attrs[e.Key] = v
		}
		if len(attrs) == 0 {
			return cty.EmptyObjectVal, nil
		}
		return cty.ObjectVal(attrs), nil

	default:
		return cty.NilVal, tfdiags.Resolvef("cannot resolve value of unrecognised type %T", v)
	}
}

func (r *Resolver) resolveReference(ctx addrs.Address, parts []string, depth int) (cty.Value, error) {
	ref, err := addrs.ClassifyReference(ctx.ModulePath, parts)
	if err != nil {
		return cty.NilVal, err
	}

	switch ref.Kind {
	case addrs.RefVar:
		return r.resolveVar(ref, depth)
	case addrs.RefData:
		return r.resolveData(ref)
	case addrs.RefModuleOutput:
		return r.resolveModuleOutput(ref, depth)
	case addrs.RefResource:
		return r.resolveResourceAttr(addrs.New(ref.ModulePath, ref.Type, ref.Name), ref.Attr)
	default:
		return cty.NilVal, tfdiags.Resolvef("unrecognised reference kind for %q", ref.Name)
	}
}

func (r *Resolver) resolveVar(ref addrs.Ref, depth int) (cty.Value, error) {
	if depth >= maxVariableIndirection {
		return cty.NilVal, tfdiags.Resolvef("variable %q: too many levels of indirection (possible cycle)", ref.Name)
	}
	scope := addrs.ScopeString(ref.ModulePath)
	v, ok := r.sm.GetVariable(scope, ref.Name)
	if !ok {
		return cty.NilVal, tfdiags.Resolvef("unknown variable %q in scope %q", ref.Name, scope)
	}
	// The single most subtle invariant in the engine: a value looked up
	// from this scope is resolved in its DefCtx scope instead, so a child
	// module's input is evaluated against its parent.
	defCtx := addrs.Address{ModulePath: v.DefCtx.ModulePath}
	return r.resolve(defCtx, v.Value, depth+1)
}

func (r *Resolver) resolveData(ref addrs.Ref) (cty.Value, error) {
	key := addrs.DataKey(ref.ModulePath, ref.Type, ref.Name)
	attrs, ok := r.data.Get(key)
	if !ok {
		return cty.NilVal, tfdiags.Resolvef("unknown data source %q %q in scope %q", ref.Type, ref.Name, addrs.ScopeString(ref.ModulePath))
	}
	v, ok := attrs[ref.Attr]
	if !ok {
		return cty.NilVal, tfdiags.Resolvef("data source %q %q has no attribute %q", ref.Type, ref.Name, ref.Attr)
	}
	return v, nil
}

func (r *Resolver) resolveModuleOutput(ref addrs.Ref, depth int) (cty.Value, error) {
	scope := addrs.ScopeString(ref.ModulePath)
	v, ok := r.sm.GetOutput(scope, ref.Name)
	if !ok {
		return cty.NilVal, tfdiags.Resolvef("output %q of module %q has not been resolved yet", ref.Name, scope)
	}
	// An output's own value is resolved in its declaring module's scope,
	// not the reader's.
	return r.resolve(addrs.Address{ModulePath: ref.ModulePath}, v, depth)
}

func (r *Resolver) resolveResourceAttr(addr addrs.Address, attr string) (cty.Value, error) {
	res, ok := r.state.Get(addr)
	if !ok {
		return cty.NilVal, tfdiags.Resolvef("unknown resource %q", addr)
	}
	if attr == "id" {
		if av, ok := res.Attributes["id"]; ok {
			return unwrapOnce(av.Value), nil
		}
		return cty.StringVal(res.ID), nil
	}
	av, ok := res.Attributes[attr]
	if !ok {
		return cty.NilVal, tfdiags.Resolvef("resource %q has no attribute %q", addr, attr)
	}
	return unwrapOnce(av.Value), nil
}

// unwrapOnce handles the case where a stored attribute is itself a
// {type,value} wrapper: a defensive unwrap for attributes
// that were stored as a raw {type,value} capsule rather than already
// decoded, so resolution always hands callers the inner value.
func unwrapOnce(v cty.Value) cty.Value {
	if v.IsNull() || !v.Type().IsObjectType() {
		return v
	}
	atys := v.Type().AttributeTypes()
	if _, hasType := atys["type"]; !hasType {
		return v
	}
	if _, hasValue := atys["value"]; !hasValue {
		return v
	}
	return v.GetAttr("value")
}
