package engine

import (
	"github.com/farukkavlak/miniform/internal/addrs"
	"github.com/farukkavlak/miniform/internal/ast"
	"github.com/farukkavlak/miniform/internal/configs"
	"github.com/farukkavlak/miniform/internal/dag"
	"github.com/farukkavlak/miniform/internal/lang"
)

// BuildGraph builds the execution dependency graph: one vertex per loaded
// resource (its canonical address string) and one per declared output
// ([addrs.OutputKey]), with an edge from every entity a
// statement's attributes reference to that statement -- "depended-upon ->
// dependent", per the package convention [dag.BasicEdge] documents.
//
// var.* and data.* references never produce an edge: both are already
// materialised (variables bound by the loader, data sources evaluated up
// front) by the time resolution occurs, so there is nothing in the graph
// for them to depend on.
func BuildGraph(loaded *configs.Loaded) *dag.Graph {
	g := &dag.Graph{}

	for _, r := range loaded.Resources {
		g.Add(r.UniqueID)
	}
	for _, o := range loaded.Outputs {
		g.Add(addrs.OutputKey(o.ModulePath, o.Output.Name))
	}

	addEdges := func(modulePath []string, target string, v ast.Value) {
		_ = lang.WalkReferences(v, func(parts []string) error {
			ref, err := addrs.ClassifyReference(modulePath, parts)
			if err != nil {
				// Malformed references are not this builder's concern; the
				// resolver reports them, with position context, when the
				// value is actually resolved.
				return nil
			}
			switch ref.Kind {
			case addrs.RefModuleOutput:
				g.Connect(addrs.OutputKey(ref.ModulePath, ref.Name), target)
			case addrs.RefResource:
				g.Connect(addrs.New(ref.ModulePath, ref.Type, ref.Name).String(), target)
			}
			return nil
		})
	}

	for _, r := range loaded.Resources {
		for _, name := range r.Resource.Attrs.Names {
			v, _ := r.Resource.Attrs.Get(name)
			addEdges(r.Address.ModulePath, r.UniqueID, v)
		}
	}
	for _, o := range loaded.Outputs {
		key := addrs.OutputKey(o.ModulePath, o.Output.Name)
		addEdges(o.ModulePath, key, o.Output.Value)
	}

	return g
}
