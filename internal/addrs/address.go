// Package addrs implements the canonical addressing scheme used to name
// every resource and module scope in a flattened configuration tree.
package addrs

import (
	"strings"

	"github.com/farukkavlak/miniform/internal/tfdiags"
)

// Address is the canonical identifier for a resource: an ordered sequence
// of enclosing module names plus a resource type and resource name.
//
// Two Addresses are equal, and hash identically, exactly when their
// canonical strings (String) match.
type Address struct {
	ModulePath []string
	Type       string
	Name       string
}

// Root builds a root-module Address directly, equivalent to
// Address{ModulePath: nil, Type: t, Name: n}.
func Root(resourceType, name string) Address {
	return Address{Type: resourceType, Name: name}
}

// New builds an Address from an explicit module path.
func New(modulePath []string, resourceType, name string) Address {
	return Address{ModulePath: append([]string(nil), modulePath...), Type: resourceType, Name: name}
}

// WithParent returns a copy of a with the given module path prepended,
// used when a loaded module's resources are re-addressed into their
// parent's address space.
func (a Address) WithParent(modulePath []string) Address {
	out := make([]string, 0, len(modulePath)+len(a.ModulePath))
	out = append(out, modulePath...)
	out = append(out, a.ModulePath...)
	return Address{ModulePath: out, Type: a.Type, Name: a.Name}
}

// ScopeString returns the module prefix alone: "module.a.module.b", or ""
// for the root module.
func (a Address) ScopeString() string {
	return ScopeString(a.ModulePath)
}

// ScopeString renders a module path alone, without any resource suffix.
func ScopeString(modulePath []string) string {
	if len(modulePath) == 0 {
		return ""
	}
	var b strings.Builder
	for i, name := range modulePath {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString("module.")
		b.WriteString(name)
	}
	return b.String()
}

// String renders the canonical form: "module.a.module.b.type.name", with
// the module prefix omitted entirely at the root.
func (a Address) String() string {
	scope := a.ScopeString()
	if scope == "" {
		return a.Type + "." + a.Name
	}
	return scope + "." + a.Type + "." + a.Name
}

// Equal reports whether two addresses have the same canonical string.
func (a Address) Equal(other Address) bool {
	return a.String() == other.String()
}

// Parse accepts a canonical address string of the form
// "(module.X.)*type.name" and rejects anything else.
func Parse(s string) (Address, error) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return Address{}, tfdiags.Configf("invalid resource address %q", s)
	}
	var modulePath []string
	for len(parts) >= 2 && parts[0] == "module" {
		modulePath = append(modulePath, parts[1])
		parts = parts[2:]
	}
	if len(parts) != 2 {
		return Address{}, tfdiags.Configf("invalid resource address %q", s)
	}
	return Address{ModulePath: modulePath, Type: parts[0], Name: parts[1]}, nil
}

// OutputKey is the dependency-graph node key for a module's declared
// output, e.g. "outputs.N" at the root or "module.a.outputs.N" in a child.
func OutputKey(modulePath []string, name string) string {
	scope := ScopeString(modulePath)
	if scope == "" {
		return "outputs." + name
	}
	return scope + ".outputs." + name
}

// DataKey is the lookup key under which a data source's resolved
// attributes are cached: "scope.type.name", with scope possibly empty.
func DataKey(modulePath []string, dataType, name string) string {
	scope := ScopeString(modulePath)
	if scope == "" {
		return dataType + "." + name
	}
	return scope + "." + dataType + "." + name
}
