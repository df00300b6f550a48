package lang

import (
	"strings"

	"github.com/farukkavlak/miniform/internal/ast"
)

// WalkReferences visits every [ast.Reference] reachable from v: direct
// Reference nodes, interpolations inside String literals, and both of
// those recursively through List and Map composites. The dependency graph
// builder and the data-source "no resource dependencies" check are both
// built on this single traversal.
func WalkReferences(v ast.Value, visit func(parts []string) error) error {
	switch val := v.(type) {
	case ast.String:
		return scanInterpolations(val.Val,
			func(string) {},
			func(expr string) error { return visit(strings.Split(expr, ".")) },
		)
	case ast.Reference:
		return visit(val.Parts)
	case ast.List:
		for _, item := range val.Items {
			if err := WalkReferences(item, visit); err != nil {
				return err
			}
		}
		return nil
	case ast.Map:
		for _, entry := range val.Entries {
			if err := WalkReferences(entry.Value, visit); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}
