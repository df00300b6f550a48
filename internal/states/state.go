// Package states implements the durable state record and the State Store
// that reads, writes, locks and backs it up.
package states

import (
	"github.com/farukkavlak/miniform/internal/addrs"
)

// CurrentVersion is the state file's version number.
const CurrentVersion = 1

// Resource is one persisted resource record: the provider-assigned id,
// the fully-qualified type/name/module path, and its already-resolved
// attributes. Attributes are stored as self-describing AttrValue wrappers
// so that any cty type round-trips through JSON without a schema.
type Resource struct {
	ID           string               `json:"id"`
	Type         string               `json:"type"`
	ResourceType string               `json:"resourceType"`
	Name         string               `json:"name"`
	ModulePath   []string             `json:"modulePath"`
	Attributes   map[string]AttrValue `json:"attributes"`
}

// Address rebuilds the canonical Address this resource record was stored
// under.
func (r Resource) Address() addrs.Address {
	return addrs.New(r.ModulePath, r.ResourceType, r.Name)
}

// State is the durable record reconciled against on every plan and apply.
// The state file owns every Resource record it contains; a provider owns
// only the external resource identified by a record's ID.
type State struct {
	Version   int                             `json:"version"`
	Variables map[string]map[string]AttrValue `json:"variables"`
	Resources map[string]Resource             `json:"resources"`
}

// New returns an empty state record at the current version.
func New() *State {
	return &State{
		Version:   CurrentVersion,
		Variables: map[string]map[string]AttrValue{},
		Resources: map[string]Resource{},
	}
}

// DeepCopy returns an independent copy of s, so that callers may mutate
// the result without affecting the original.
func (s *State) DeepCopy() *State {
	if s == nil {
		return New()
	}
	out := New()
	out.Version = s.Version
	for scope, vars := range s.Variables {
		inner := make(map[string]AttrValue, len(vars))
		for k, v := range vars {
			inner[k] = v
		}
		out.Variables[scope] = inner
	}
	for k, r := range s.Resources {
		attrs := make(map[string]AttrValue, len(r.Attributes))
		for ak, av := range r.Attributes {
			attrs[ak] = av
		}
		r.Attributes = attrs
		r.ModulePath = append([]string(nil), r.ModulePath...)
		out.Resources[k] = r
	}
	return out
}

// Get looks up a resource record by its canonical address string.
func (s *State) Get(addr addrs.Address) (Resource, bool) {
	r, ok := s.Resources[addr.String()]
	return r, ok
}

// Put inserts or overwrites a resource record.
func (s *State) Put(addr addrs.Address, r Resource) {
	r.Type = "Resource"
	r.ResourceType = addr.Type
	r.Name = addr.Name
	r.ModulePath = append([]string(nil), addr.ModulePath...)
	s.Resources[addr.String()] = r
}

// Delete removes a resource record.
func (s *State) Delete(addr addrs.Address) {
	delete(s.Resources, addr.String())
}
