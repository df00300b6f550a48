// Package ast defines the tagged-union types produced by the parser: the
// handful of value shapes configuration attributes can take, and the
// statement kinds that make up a module body.
package ast

import "github.com/hashicorp/hcl/v2"

// Value is the sealed interface implemented by every attribute value
// variant: String, Number, Boolean, Reference, List, Map.
type Value interface {
	valueNode()
	Range() hcl.Range
}

// String is a literal string, which may contain ${...} interpolations
// resolved later by the reference resolver.
type String struct {
	Val string
	Rng hcl.Range
}

func (String) valueNode()          {}
func (s String) Range() hcl.Range { return s.Rng }

// Number is a literal integer (the grammar defines numbers as digit
// sequences only).
type Number struct {
	Val int64
	Rng hcl.Range
}

func (Number) valueNode()          {}
func (n Number) Range() hcl.Range { return n.Rng }

// Boolean is a literal true/false.
type Boolean struct {
	Val bool
	Rng hcl.Range
}

func (Boolean) valueNode()          {}
func (b Boolean) Range() hcl.Range { return b.Rng }

// Reference is a dotted path of two or more identifiers, e.g. var.x,
// data.http.n.body, module.app.out, local_file.a.id.
type Reference struct {
	Parts []string
	Rng   hcl.Range
}

func (Reference) valueNode()          {}
func (r Reference) Range() hcl.Range { return r.Rng }

// List is an ordered sequence of values.
type List struct {
	Items []Value
	Rng   hcl.Range
}

func (List) valueNode()          {}
func (l List) Range() hcl.Range { return l.Rng }

// Map is an unordered mapping from attribute key to value.
type Map struct {
	Entries []MapEntry
	Rng     hcl.Range
}

func (Map) valueNode()          {}
func (m Map) Range() hcl.Range { return m.Rng }

// MapEntry is one key/value pair of a Map literal. Entries is a slice
// rather than a Go map so that source order survives for deterministic
// traversal, even though map key order has no semantic meaning per the
// grammar.
type MapEntry struct {
	Key   string
	Value Value
}

// Statement is the sealed interface implemented by every top-level or
// nested block kind: Resource, Variable, Data, Module, Output.
type Statement interface {
	statementNode()
	Range() hcl.Range
}

// Attributes is the body of a block: attribute name -> value, in source
// order.
type Attributes struct {
	Names []string
	Vals  map[string]Value
}

// Get looks up an attribute by name.
func (a Attributes) Get(name string) (Value, bool) {
	v, ok := a.Vals[name]
	return v, ok
}

// NewAttributes builds an empty Attributes ready for incremental Set
// calls, preserving insertion order in Names.
func NewAttributes() Attributes {
	return Attributes{Vals: map[string]Value{}}
}

// Set records an attribute, preserving the order attributes were first
// seen.
func (a *Attributes) Set(name string, v Value) {
	if a.Vals == nil {
		a.Vals = map[string]Value{}
	}
	if _, exists := a.Vals[name]; !exists {
		a.Names = append(a.Names, name)
	}
	a.Vals[name] = v
}

// Resource is a `resource "type" "name" { ... }` block.
type Resource struct {
	Type  string
	Name  string
	Attrs Attributes
	Rng   hcl.Range
}

func (Resource) statementNode()      {}
func (r Resource) Range() hcl.Range { return r.Rng }

// Data is a `data "type" "name" { ... }` block.
type Data struct {
	Type  string
	Name  string
	Attrs Attributes
	Rng   hcl.Range
}

func (Data) statementNode()      {}
func (d Data) Range() hcl.Range { return d.Rng }

// Variable is a `variable "name" { ... }` block. A declared `default`
// attribute, if present, is its Attrs["default"].
type Variable struct {
	Name  string
	Attrs Attributes
	Rng   hcl.Range
}

func (Variable) statementNode()      {}
func (v Variable) Range() hcl.Range { return v.Rng }

// Module is a `module "name" { source = ...; ... }` block.
type Module struct {
	Name  string
	Attrs Attributes
	Rng   hcl.Range
}

func (Module) statementNode()      {}
func (m Module) Range() hcl.Range { return m.Rng }

// Output is an `output "name" { value = ... }` block.
type Output struct {
	Name  string
	Value Value
	Rng   hcl.Range
}

func (Output) statementNode()      {}
func (o Output) Range() hcl.Range { return o.Rng }

// File is a parsed module file: the ordered list of top-level statements.
type File struct {
	Statements []Statement
}
