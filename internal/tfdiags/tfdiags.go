// Package tfdiags defines the typed error taxonomy used throughout miniform.
//
// Every stage of the configuration-to-execution pipeline returns one of the
// kinds defined here instead of a bare error string, so that callers (the
// CLI, tests, other subsystems) can discriminate on failure kind without
// string matching.
package tfdiags

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// Kind identifies which branch of the error taxonomy a Diagnostic belongs
// to. Each Kind has its own Go type below so that a type assertion (or
// errors.As) is sufficient to discriminate.
type Kind string

const (
	KindLex      Kind = "lex"
	KindParse    Kind = "parse"
	KindConfig   Kind = "config"
	KindResolve  Kind = "resolve"
	KindCycle    Kind = "cycle"
	KindPlan     Kind = "plan"
	KindProvider Kind = "provider"
	KindState    Kind = "state"
	KindLock     Kind = "lock"
)

// LexError reports a character the lexer could not assign to any token
// kind.
type LexError struct {
	Pos  hcl.Pos
	Char rune
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%d:%d: unexpected character %q", e.Pos.Line, e.Pos.Column, e.Char)
}

func (e *LexError) Kind() Kind { return KindLex }

// ParseError reports a grammar violation encountered by the parser.
type ParseError struct {
	Pos     hcl.Pos
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

func (e *ParseError) Kind() Kind { return KindParse }

// ConfigError reports a structural problem in a loaded configuration tree:
// a missing module source, a duplicate resource address, a duplicate
// provider registration.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

func (e *ConfigError) Kind() Kind { return KindConfig }

func Configf(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// ResolveError reports a failure to resolve a Reference or interpolation:
// an unknown variable, data source, module output, resource, or attribute.
type ResolveError struct {
	Message string
}

func (e *ResolveError) Error() string { return e.Message }

func (e *ResolveError) Kind() Kind { return KindResolve }

func Resolvef(format string, args ...any) *ResolveError {
	return &ResolveError{Message: fmt.Sprintf(format, args...)}
}

// CycleError reports a dependency cycle discovered by the layered
// topological sort. It is always fatal for the current invocation.
type CycleError struct {
	Remaining []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("Dependency Cycle Detected: %d node(s) could not be ordered: %v", len(e.Remaining), e.Remaining)
}

func (e *CycleError) Kind() Kind { return KindCycle }

// PlanError reports a schema violation discovered while diffing desired
// against current state (e.g. a forceNew transition with a missing
// attribute).
type PlanError struct {
	Message string
}

func (e *PlanError) Error() string { return e.Message }

func (e *PlanError) Kind() Kind { return KindPlan }

func Planf(format string, args ...any) *PlanError {
	return &PlanError{Message: fmt.Sprintf(format, args...)}
}

// ProviderError wraps an error returned from a provider call (validate,
// create, update, delete, read).
type ProviderError struct {
	ResourceType string
	Operation    string
	Err          error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error: %s.%s: %s", e.ResourceType, e.Operation, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Kind() Kind { return KindProvider }

// StateError reports an I/O failure or JSON shape violation in the state
// store.
type StateError struct {
	Message string
	Err     error
}

func (e *StateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err)
	}
	return e.Message
}

func (e *StateError) Unwrap() error { return e.Err }

func (e *StateError) Kind() Kind { return KindState }

func Statef(err error, format string, args ...any) *StateError {
	return &StateError{Message: fmt.Sprintf(format, args...), Err: err}
}

// LockError reports that the state is locked by another process.
type LockError struct {
	Info *LockInfo
	Err  error
}

func (e *LockError) Error() string {
	if e.Info != nil {
		return fmt.Sprintf("state is locked by %s (lock ID %s): %s", e.Info.Who, e.Info.ID, e.Err)
	}
	return fmt.Sprintf("state is locked: %s", e.Err)
}

func (e *LockError) Unwrap() error { return e.Err }

func (e *LockError) Kind() Kind { return KindLock }

// LockInfo describes the holder of a state lock, persisted as JSON
// alongside the exclusive-create lock file. Modeled on the information the
// teacher's own state-locking path records about a lock holder.
type LockInfo struct {
	ID        string
	Who       string
	Operation string
	Created   string
}
