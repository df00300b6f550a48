// Package providers defines the provider contract as a Go interface, and
// the registry that routes a resource or data source type name to the
// provider that serves it. No RPC/plugin transport is implemented here:
// providers are linked into the same process rather than run out-of-process.
package providers

import (
	"github.com/zclconf/go-cty/cty"
)

// AttrType is the primitive type a schema attribute declares, mirroring
// the three scalar kinds the configuration grammar itself supports.
type AttrType string

const (
	TypeString  AttrType = "string"
	TypeNumber  AttrType = "number"
	TypeBoolean AttrType = "boolean"
)

// AttrSchema describes one attribute of a resource or data source type.
type AttrSchema struct {
	Type AttrType
	// Required marks an attribute that must be supplied by the caller.
	Required bool
	// ForceNew marks an attribute whose change the planner must turn into
	// a DELETE+CREATE pair rather than a plain UPDATE.
	ForceNew bool
}

// Schema is a resource or data source type's attribute schema, keyed by
// attribute name.
type Schema map[string]AttrSchema

// Provider is the contract every in-process provider implementation must
// satisfy.
type Provider interface {
	// ResourceTypes lists the resource type names this provider serves.
	ResourceTypes() []string
	// DataSourceTypes lists the data source type names this provider
	// serves. A provider may serve only resources, only data sources, or
	// both namespaces are otherwise independent: a "local_file" resource
	// type and a "local_file" data source type do not collide.
	DataSourceTypes() []string

	// GetSchema returns the schema for a resource or data source type, or
	// ok=false if this provider does not recognise the type.
	GetSchema(typeName string) (schema Schema, ok bool)

	Validate(typeName string, inputs map[string]cty.Value) error
	Create(typeName string, inputs map[string]cty.Value) (id string, err error)
	Update(id, typeName string, inputs map[string]cty.Value) error
	Delete(id, typeName string) error
	Read(typeName string, inputs map[string]cty.Value) (map[string]cty.Value, error)
}
