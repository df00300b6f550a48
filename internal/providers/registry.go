package providers

import (
	"sync"

	"github.com/farukkavlak/miniform/internal/tfdiags"
)

// Registry routes a resource or data source type name to the Provider
// that serves it. Resource types and data source types are independent
// namespaces, each checked for duplicate registration separately.
type Registry struct {
	mu        sync.RWMutex
	resources map[string]Provider
	data      map[string]Provider
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{resources: map[string]Provider{}, data: map[string]Provider{}}
}

// Register adds every resource and data source type p declares, failing
// with a [tfdiags.ConfigError] if any type name is already claimed by a
// different provider within its namespace.
func (r *Registry) Register(p Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range p.ResourceTypes() {
		if _, exists := r.resources[t]; exists {
			return tfdiags.Configf("duplicate provider registration for resource type %q", t)
		}
	}
	for _, t := range p.DataSourceTypes() {
		if _, exists := r.data[t]; exists {
			return tfdiags.Configf("duplicate provider registration for data source type %q", t)
		}
	}
	for _, t := range p.ResourceTypes() {
		r.resources[t] = p
	}
	for _, t := range p.DataSourceTypes() {
		r.data[t] = p
	}
	return nil
}

// ForResourceType looks up the provider serving a resource type.
func (r *Registry) ForResourceType(t string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.resources[t]
	return p, ok
}

// ForDataSourceType looks up the provider serving a data source type.
func (r *Registry) ForDataSourceType(t string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.data[t]
	return p, ok
}

// Schema looks up a resource type's schema, or ok=false if no provider
// serves it or the provider itself does not recognise the type.
func (r *Registry) Schema(resourceType string) (Schema, bool) {
	p, ok := r.ForResourceType(resourceType)
	if !ok {
		return nil, false
	}
	return p.GetSchema(resourceType)
}
