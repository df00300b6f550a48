// Package configs implements the module loader: it recursively walks a
// root configuration directory and its `module` blocks, parsing each
// sub-module's file and flattening the whole tree into a single address
// space, binding child-module inputs into the Scope Manager along the way.
package configs

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/farukkavlak/miniform/internal/addrs"
	"github.com/farukkavlak/miniform/internal/ast"
	"github.com/farukkavlak/miniform/internal/lang"
	"github.com/farukkavlak/miniform/internal/parser"
	"github.com/farukkavlak/miniform/internal/tfdiags"
)

// RootFile is the conventional file name of a root module's configuration.
const RootFile = "main.mini"

// ModuleFile is the conventional file name of a sub-module's configuration,
// resolved relative to the module block's `source` attribute.
const ModuleFile = "main.mf"

var logger = hclog.Default().Named("configs")

// LoadedResource is one resource block flattened into the tree's single
// address space.
type LoadedResource struct {
	UniqueID string // canonical address string; the state and graph key
	Address  addrs.Address
	Resource ast.Resource
}

// LoadedData is one data block, still tagged with the module scope it was
// declared in; the Data Source Reader (internal/lang) resolves and
// evaluates it later, once every scope's variables are bound.
type LoadedData struct {
	ModulePath []string
	Data       ast.Data
}

// LoadedOutput is one output block, tagged with its declaring scope.
type LoadedOutput struct {
	ModulePath []string
	Output     ast.Output
}

// LoadedModule is one module in the flattened tree: its address (empty path
// for root) and the raw statements its file declared, preserved for callers
// that need to re-walk a single module's body (the dependency graph builder
// re-derives nothing from this; it exists for diagnostics and testing).
type LoadedModule struct {
	Address    []string
	Statements []ast.Statement
}

// Loaded is the full result of loading a configuration tree.
type Loaded struct {
	Resources   []LoadedResource
	DataSources []LoadedData
	Outputs     []LoadedOutput
	Modules     []LoadedModule
}

type loader struct {
	sm     *lang.ScopeManager
	result *Loaded
	seen   map[string]addrs.Address
}

// Load parses rootDir/main.mini and every module it transitively references,
// binding variables into sm as it goes. sm should be freshly [lang.ScopeManager.Clear]ed
// by the caller; the loader only ever adds to it.
func Load(rootDir string, sm *lang.ScopeManager) (*Loaded, error) {
	return LoadFile(rootDir, RootFile, sm)
}

// LoadFile is Load with an explicit root file name, used by tests that lay
// out fixtures under a name other than main.mini.
func LoadFile(rootDir, rootFile string, sm *lang.ScopeManager) (*Loaded, error) {
	l := &loader{sm: sm, result: &Loaded{}, seen: map[string]addrs.Address{}}
	file, err := parseModuleFile(rootDir, rootFile)
	if err != nil {
		return nil, err
	}
	if err := l.loadModule(rootDir, nil, file); err != nil {
		return nil, err
	}
	return l.result, nil
}

func parseModuleFile(dir, name string) (*ast.File, error) {
	path := filepath.Join(dir, name)
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, tfdiags.Configf("reading module file %s: %s", path, err)
	}
	return parser.ParseString(path, string(src))
}

// loadModule processes one module's statements: it registers declared
// variable defaults (skipping any the caller already bound as an input),
// collects resources/data/outputs into the flattened lists, and recurses
// into every nested `module` block.
func (l *loader) loadModule(dir string, modulePath []string, file *ast.File) error {
	scope := addrs.ScopeString(modulePath)
	l.result.Modules = append(l.result.Modules, LoadedModule{Address: modulePath, Statements: file.Statements})

	for _, stmt := range file.Statements {
		switch s := stmt.(type) {
		case ast.Variable:
			if l.sm.HasVariable(scope, s.Name) {
				continue // caller-supplied input already bound; it wins over the default
			}
			if def, ok := s.Attrs.Get("default"); ok {
				// A declared default's own references resolve in this same
				// module's scope, not the caller's -- unlike a module input
				// (below), there is no parent indirection to apply.
				l.sm.SetVariable(scope, s.Name, lang.Variable{
					Value:   def,
					DefCtx:  addrs.Address{ModulePath: append([]string(nil), modulePath...)},
					HasAddr: false,
				})
			}

		case ast.Resource:
			addr := addrs.New(modulePath, s.Type, s.Name)
			if prior, dup := l.seen[addr.String()]; dup {
				return tfdiags.Configf("duplicate resource address %q (first declared at %s)", addr, prior)
			}
			l.seen[addr.String()] = addr
			l.result.Resources = append(l.result.Resources, LoadedResource{
				UniqueID: addr.String(),
				Address:  addr,
				Resource: s,
			})

		case ast.Data:
			l.result.DataSources = append(l.result.DataSources, LoadedData{ModulePath: modulePath, Data: s})

		case ast.Output:
			l.result.Outputs = append(l.result.Outputs, LoadedOutput{ModulePath: modulePath, Output: s})

		case ast.Module:
			if err := l.loadChildModule(dir, modulePath, s); err != nil {
				return err
			}

		default:
			return tfdiags.Configf("unrecognised statement %T", stmt)
		}
	}
	return nil
}

func (l *loader) loadChildModule(parentDir string, parentPath []string, m ast.Module) error {
	sourceVal, ok := m.Attrs.Get("source")
	if !ok {
		return tfdiags.Configf("module %q has no source attribute", m.Name)
	}
	sourceStr, ok := sourceVal.(ast.String)
	if !ok {
		return tfdiags.Configf("module %q: source must be a string literal", m.Name)
	}

	childDir := filepath.Join(parentDir, sourceStr.Val)
	childPath := append(append([]string(nil), parentPath...), m.Name)
	childScope := addrs.ScopeString(childPath)
	parentCtx := addrs.Address{ModulePath: append([]string(nil), parentPath...)}

	for _, name := range m.Attrs.Names {
		if name == "source" {
			continue
		}
		val, _ := m.Attrs.Get(name)
		l.sm.SetVariable(childScope, name, lang.Variable{Value: val, DefCtx: parentCtx, HasAddr: true})
	}

	logger.Debug("loading module", "name", m.Name, "dir", childDir)
	childFile, err := parseModuleFile(childDir, ModuleFile)
	if err != nil {
		return err
	}
	return l.loadModule(childDir, childPath, childFile)
}
