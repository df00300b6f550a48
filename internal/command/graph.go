package command

import (
	"fmt"
	"os"

	"github.com/farukkavlak/miniform/internal/dag"
	"github.com/farukkavlak/miniform/internal/dag/graphviz"
	"github.com/farukkavlak/miniform/internal/engine"
)

// GraphCommand implements `miniform graph`: it prints the dependency
// graph of the root configuration in the Graphviz DOT language, the
// same representation dag/graphviz was already built to produce.
type GraphCommand struct {
	Meta
}

func (c *GraphCommand) Run(args []string) int {
	dir := c.workingDir()
	if len(args) > 0 {
		dir = args[0]
	}

	e := engine.New(dir, c.store(), c.Registry)
	g, err := e.Graph()
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error: %s", err))
		return 1
	}

	gv := &graphviz.Graph{Content: toGraphvizContent(g)}
	if err := graphviz.WriteDirectedGraph(gv, os.Stdout); err != nil {
		c.Ui.Error(fmt.Sprintf("Error: %s", err))
		return 1
	}
	return 0
}

// toGraphvizContent rebuilds a dag.Graph whose vertices are
// [graphviz.Node] values (the only vertex type WriteDirectedGraph
// accepts), preserving every edge of g under the stringified vertex
// identity the engine's graph already uses as its hash.
func toGraphvizContent(g *dag.Graph) *dag.Graph {
	out := &dag.Graph{}
	for v := range g.VerticesSeq() {
		id := fmt.Sprint(v)
		out.Add(graphviz.Node{ID: id})
	}
	for e := range g.EdgesSeq() {
		out.Connect(graphviz.Node{ID: fmt.Sprint(e.Source())}, graphviz.Node{ID: fmt.Sprint(e.Target())})
	}
	return out
}

func (c *GraphCommand) Help() string {
	return "Usage: miniform graph [path]\n\n  Prints the resource dependency graph in Graphviz DOT format."
}

func (c *GraphCommand) Synopsis() string {
	return "Print the dependency graph in DOT format"
}
