package addrs

import (
	"strings"

	"github.com/farukkavlak/miniform/internal/tfdiags"
)

// RefKind discriminates the reference shapes the grammar allows: a
// variable, a data source attribute, a module output, or a resource
// attribute addressed either relative to the current module or by an
// absolute module path.
type RefKind int

const (
	RefVar RefKind = iota
	RefData
	RefModuleOutput
	RefResource
)

// Ref is the classification of a dotted [ast.Reference] path, resolved
// relative to the module path of the context doing the referencing.
// Which fields are meaningful depends on Kind:
//
//	RefVar:          ModulePath (lookup scope), Name
//	RefData:         ModulePath (lookup scope), Type, Name, Attr
//	RefModuleOutput: ModulePath (target module, resolved relative to the
//	                 referencing context -- currentModulePath + the
//	                 module.* path named in the reference), Name
//	RefResource:     ModulePath (target module, absolute as written), Type, Name, Attr
type Ref struct {
	Kind       RefKind
	ModulePath []string
	Type       string
	Name       string
	Attr       string
}

// ClassifyReference is the dispatch table: given the module path of the
// context a reference occurs in and the reference's dotted parts,
// determine what kind of entity it names and where to look it up. Both
// the reference resolver and the dependency graph builder are built on
// this single classification so the two subsystems never disagree about
// what an address means.
func ClassifyReference(currentModulePath []string, parts []string) (Ref, error) {
	joined := strings.Join(parts, ".")
	if len(parts) < 2 {
		return Ref{}, tfdiags.Resolvef("malformed reference %q", joined)
	}

	switch parts[0] {
	case "var":
		if len(parts) != 2 {
			return Ref{}, tfdiags.Resolvef("malformed variable reference %q", joined)
		}
		return Ref{Kind: RefVar, ModulePath: currentModulePath, Name: parts[1]}, nil

	case "data":
		if len(parts) != 4 {
			return Ref{}, tfdiags.Resolvef("malformed data source reference %q", joined)
		}
		return Ref{Kind: RefData, ModulePath: currentModulePath, Type: parts[1], Name: parts[2], Attr: parts[3]}, nil

	default:
		idx := 0
		var modPath []string
		for idx+1 < len(parts) && parts[idx] == "module" {
			modPath = append(modPath, parts[idx+1])
			idx += 2
		}
		remaining := parts[idx:]

		switch {
		case len(modPath) > 0 && len(remaining) == 1:
			full := append(append([]string(nil), currentModulePath...), modPath...)
			return Ref{Kind: RefModuleOutput, ModulePath: full, Name: remaining[0]}, nil
		case len(modPath) > 0 && len(remaining) == 3:
			return Ref{Kind: RefResource, ModulePath: modPath, Type: remaining[0], Name: remaining[1], Attr: remaining[2]}, nil
		case len(modPath) == 0 && len(remaining) == 3:
			return Ref{Kind: RefResource, ModulePath: currentModulePath, Type: remaining[0], Name: remaining[1], Attr: remaining[2]}, nil
		default:
			return Ref{}, tfdiags.Resolvef("malformed reference %q", joined)
		}
	}
}
