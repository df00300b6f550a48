// Package lang implements the Scope Manager, the reference/interpolation
// resolver, and data-source evaluation: the three subsystems that give
// meaning to a loaded configuration tree.
package lang

import (
	"sync"

	"github.com/farukkavlak/miniform/internal/addrs"
	"github.com/farukkavlak/miniform/internal/ast"
)

// Variable is a variable value bound in some scope, paired with the
// address in whose scope its (possibly still-unresolved) value must be
// resolved.
//
// This indirection is the single most subtle invariant in the engine: a
// child module's input is looked up from the child's scope but its value
// was written by the parent, so references inside it (var.x, ${...}) must
// be evaluated against the parent's scope, not the child's. See how
// the Resolver uses DefCtx when it resolves a var.* reference.
type Variable struct {
	Value   ast.Value
	DefCtx  addrs.Address
	HasAddr bool // true for a module input bound by the parent's module block, false for a declared default
}

// ScopeManager stores variables and module output value expressions, keyed by
// scope string ("module.a.module.b", or "" for root). It implements no
// inheritance: a lookup in one scope never climbs to a parent scope.
type ScopeManager struct {
	mu        sync.RWMutex
	variables map[string]map[string]Variable
	outputs   map[string]map[string]ast.Value
}

// NewScopeManager returns an empty ScopeManager, ready to use.
func NewScopeManager() *ScopeManager {
	sm := &ScopeManager{}
	sm.Clear()
	return sm
}

// Clear resets both stores to empty. Called at the start of every plan and
// apply.
func (sm *ScopeManager) Clear() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.variables = map[string]map[string]Variable{}
	sm.outputs = map[string]map[string]ast.Value{}
}

// SetVariable records a variable's value in the given scope.
func (sm *ScopeManager) SetVariable(scope, name string, v Variable) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.variables[scope] == nil {
		sm.variables[scope] = map[string]Variable{}
	}
	sm.variables[scope][name] = v
}

// GetVariable looks up a variable by scope and name. The second return
// value is false if no such variable has been set.
func (sm *ScopeManager) GetVariable(scope, name string) (Variable, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	byName, ok := sm.variables[scope]
	if !ok {
		return Variable{}, false
	}
	v, ok := byName[name]
	return v, ok
}

// HasVariable reports whether a variable has been set in scope, without
// requiring the caller to discard the zero Variable.
func (sm *ScopeManager) HasVariable(scope, name string) bool {
	_, ok := sm.GetVariable(scope, name)
	return ok
}

// SetOutput records a module output's value expression as written (an
// unresolved ast.Value); it is resolved when a module.* reference reads it.
func (sm *ScopeManager) SetOutput(scope, name string, v ast.Value) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.outputs[scope] == nil {
		sm.outputs[scope] = map[string]ast.Value{}
	}
	sm.outputs[scope][name] = v
}

// GetOutput looks up a previously-evaluated module output.
func (sm *ScopeManager) GetOutput(scope, name string) (ast.Value, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	byName, ok := sm.outputs[scope]
	if !ok {
		return nil, false
	}
	v, ok := byName[name]
	return v, ok
}

// AllVariables returns a snapshot of every variable across every scope,
// keyed first by scope string then by name. Used when persisting
// state.variables.
func (sm *ScopeManager) AllVariables() map[string]map[string]Variable {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	out := make(map[string]map[string]Variable, len(sm.variables))
	for scope, byName := range sm.variables {
		inner := make(map[string]Variable, len(byName))
		for name, v := range byName {
			inner[name] = v
		}
		out[scope] = inner
	}
	return out
}
