// Package local implements a small built-in provider serving one resource
// type, "local_file", and one data source type of the same name: a
// resource writes its "content" attribute to the file named by its
// "path" attribute, and the data source reads one back. It exists so
// cmd/miniform has a concrete [providers.Provider] to register without
// depending on any real external system.
package local

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"

	"github.com/farukkavlak/miniform/internal/providers"
)

const resourceType = "local_file"

// Provider implements providers.Provider for local_file resources and
// data sources.
type Provider struct{}

// New returns a ready-to-register local file provider.
func New() *Provider {
	return &Provider{}
}

func (p *Provider) ResourceTypes() []string { return []string{resourceType} }

func (p *Provider) DataSourceTypes() []string { return []string{resourceType} }

func (p *Provider) GetSchema(typeName string) (providers.Schema, bool) {
	if typeName != resourceType {
		return nil, false
	}
	return providers.Schema{
		"path":    providers.AttrSchema{Type: providers.TypeString, Required: true, ForceNew: true},
		"content": providers.AttrSchema{Type: providers.TypeString, Required: true},
	}, true
}

func (p *Provider) Validate(typeName string, inputs map[string]cty.Value) error {
	if typeName != resourceType {
		return fmt.Errorf("local: unsupported type %q", typeName)
	}
	path, ok := inputs["path"]
	if !ok || path.IsNull() || path.Type() != cty.String {
		return fmt.Errorf("local_file: \"path\" is required and must be a string")
	}
	content, ok := inputs["content"]
	if !ok || content.Type() != cty.String {
		return fmt.Errorf("local_file: \"content\" is required and must be a string")
	}
	return nil
}

func (p *Provider) Create(typeName string, inputs map[string]cty.Value) (string, error) {
	if typeName != resourceType {
		return "", fmt.Errorf("local: unsupported type %q", typeName)
	}
	path := inputs["path"].AsString()
	content := inputs["content"].AsString()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (p *Provider) Update(id, typeName string, inputs map[string]cty.Value) error {
	if typeName != resourceType {
		return fmt.Errorf("local: unsupported type %q", typeName)
	}
	path := inputs["path"].AsString()
	content := inputs["content"].AsString()
	return os.WriteFile(path, []byte(content), 0o644)
}

func (p *Provider) Delete(id, typeName string) error {
	if typeName != resourceType {
		return fmt.Errorf("local: unsupported type %q", typeName)
	}
	return nil
}

// Read implements the data source side: it reads the file named by
// "path" and returns its content.
func (p *Provider) Read(typeName string, inputs map[string]cty.Value) (map[string]cty.Value, error) {
	if typeName != resourceType {
		return nil, fmt.Errorf("local: unsupported type %q", typeName)
	}
	pathVal, ok := inputs["path"]
	if !ok || pathVal.IsNull() || pathVal.Type() != cty.String {
		return nil, fmt.Errorf("local_file: \"path\" is required and must be a string")
	}
	data, err := os.ReadFile(pathVal.AsString())
	if err != nil {
		return nil, err
	}
	return map[string]cty.Value{
		"path":    pathVal,
		"content": cty.StringVal(string(data)),
	}, nil
}
