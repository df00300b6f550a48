// Package plans implements the planner: a pure function that diffs the
// flattened desired resources against the current state and produces a
// deterministic sequence of typed [PlanAction] values.
package plans

import (
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/farukkavlak/miniform/internal/addrs"
	"github.com/farukkavlak/miniform/internal/ast"
	"github.com/farukkavlak/miniform/internal/lang"
	"github.com/farukkavlak/miniform/internal/providers"
	"github.com/farukkavlak/miniform/internal/states"
)

// Action discriminates the four plan action kinds.
type Action string

const (
	NoOp   Action = "NO_OP"
	Create Action = "CREATE"
	Update Action = "UPDATE"
	Delete Action = "DELETE"
)

// Change is one attribute's before/after pair in an UPDATE action, stored
// as the same self-describing wrapper the state file persists so that the
// two serialize identically.
type Change struct {
	Old states.AttrValue `json:"old"`
	New states.AttrValue `json:"new"`
}

// PlanAction is a tagged union of a single CREATE, UPDATE, DELETE or
// NO_OP, carrying only the fields its kind needs. Attributes is meaningful
// for CREATE only, and is left in unresolved AST form so a later
// execution pass resolves them against the scope active at apply time;
// Changes is meaningful for UPDATE only.
type PlanAction struct {
	Action       Action            `json:"action"`
	ResourceType string            `json:"resourceType"`
	Name         string            `json:"name"`
	ModulePath   []string          `json:"modulePath"`
	ID           string            `json:"id,omitempty"`
	Attributes   ast.Attributes    `json:"attributes,omitempty"`
	Changes      map[string]Change `json:"changes,omitempty"`
}

// Address rebuilds the canonical address this action targets.
func (p PlanAction) Address() addrs.Address {
	return addrs.New(p.ModulePath, p.ResourceType, p.Name)
}

// Resource is the minimal shape of a flattened desired resource the
// Planner needs. Kept independent of internal/configs.LoadedResource so
// this package never imports the module loader; the executor adapts
// configs.LoadedResource values into this shape.
type Resource struct {
	Address addrs.Address
	Attrs   ast.Attributes
}

// Plan diffs the desired resources against state. resolver resolves one
// resource's attributes to concrete values in its own module scope; it is
// used only to compute the UPDATE diff against state -- a CREATE action
// always keeps its attributes unresolved. Plan is total: it never fails on
// a per-attribute difference, only on a resolution error while computing
// a diff.
func Plan(resources []Resource, state *states.State, registry *providers.Registry, resolver *lang.Resolver) ([]PlanAction, error) {
	var actions []PlanAction
	desired := make(map[string]bool, len(resources))

	for _, r := range resources {
		addr := r.Address
		desired[addr.String()] = true

		existing, inState := state.Get(addr)
		if !inState {
			actions = append(actions, PlanAction{
				Action: Create, ResourceType: addr.Type, Name: addr.Name,
				ModulePath: addr.ModulePath, Attributes: r.Attrs,
			})
			continue
		}

		newAttrs, err := resolveAttrs(resolver, addr, r.Attrs)
		if err != nil {
			return nil, err
		}

		changes := diffAttrs(existing.Attributes, newAttrs)
		if len(changes) == 0 {
			actions = append(actions, PlanAction{
				Action: NoOp, ResourceType: addr.Type, Name: addr.Name,
				ModulePath: addr.ModulePath, ID: existing.ID,
			})
			continue
		}

		if forceNewChange(registry, addr.Type, changes) {
			actions = append(actions,
				PlanAction{Action: Delete, ResourceType: addr.Type, Name: addr.Name, ModulePath: addr.ModulePath, ID: existing.ID},
				PlanAction{Action: Create, ResourceType: addr.Type, Name: addr.Name, ModulePath: addr.ModulePath, Attributes: r.Attrs},
			)
			continue
		}

		actions = append(actions, PlanAction{
			Action: Update, ResourceType: addr.Type, Name: addr.Name,
			ModulePath: addr.ModulePath, ID: existing.ID, Changes: changes,
		})
	}

	for key, res := range state.Resources {
		if desired[key] {
			continue
		}
		actions = append(actions, PlanAction{
			Action: Delete, ResourceType: res.ResourceType, Name: res.Name,
			ModulePath: res.ModulePath, ID: res.ID,
		})
	}

	sortActions(actions)
	return actions, nil
}

func resolveAttrs(resolver *lang.Resolver, addr addrs.Address, attrs ast.Attributes) (map[string]states.AttrValue, error) {
	ctx := addrs.Address{ModulePath: addr.ModulePath}
	out := make(map[string]states.AttrValue, len(attrs.Names))
	for _, name := range attrs.Names {
		v, _ := attrs.Get(name)
		resolved, err := resolver.Resolve(ctx, v)
		if err != nil {
			return nil, err
		}
		out[name] = states.NewAttrValue(resolved)
	}
	return out, nil
}

// diffAttrs compares two resolved attribute maps by structural JSON
// equality after canonicalisation, over the union of both key sets: a
// key present only in old is a removal (New is the zero, null-valued
// AttrValue), a key present only in new is an addition.
func diffAttrs(old, new map[string]states.AttrValue) map[string]Change {
	changes := map[string]Change{}
	for k, nv := range new {
		ov, ok := old[k]
		if !ok || !ov.Equal(nv) {
			changes[k] = Change{Old: ov, New: nv}
		}
	}
	for k, ov := range old {
		if _, ok := new[k]; ok {
			continue
		}
		changes[k] = Change{Old: ov, New: states.NewAttrValue(cty.NilVal)}
	}
	return changes
}

// forceNewChange reports whether any changed attribute is marked
// forceNew in the resource type's schema, which turns what would
// otherwise be a plain UPDATE into a DELETE+CREATE pair.
func forceNewChange(registry *providers.Registry, resourceType string, changes map[string]Change) bool {
	if registry == nil {
		return false
	}
	schema, ok := registry.Schema(resourceType)
	if !ok {
		return false
	}
	for attr := range changes {
		if s, ok := schema[attr]; ok && s.ForceNew {
			return true
		}
	}
	return false
}

// sortActions imposes a deterministic ordering for testability: by
// action kind, then by canonical address.
func sortActions(actions []PlanAction) {
	rank := map[Action]int{Create: 0, Update: 1, Delete: 2, NoOp: 3}
	sort.SliceStable(actions, func(i, j int) bool {
		ri, rj := rank[actions[i].Action], rank[actions[j].Action]
		if ri != rj {
			return ri < rj
		}
		return actions[i].Address().String() < actions[j].Address().String()
	})
}
