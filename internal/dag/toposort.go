package dag

import (
	"fmt"
	"sort"

	"github.com/farukkavlak/miniform/internal/tfdiags"
)

// Layers runs Kahn's algorithm over g, producing ordered layers of
// mutually-independent vertices: every vertex in layer N has every one of
// its dependencies (edges pointing at it) in layers 0..N-1, and no two
// vertices in the same layer have an edge between them.
//
// If the graph contains a cycle, some vertices never reach in-degree zero;
// Layers reports exactly which ones via [tfdiags.CycleError].
func (g *Graph) Layers() ([][]Vertex, error) {
	g.init()

	remaining := make(map[any]int, len(g.vertices))
	for h := range g.vertices {
		remaining[h] = g.downEdgeCount(h)
	}

	var layers [][]Vertex
	seen := 0
	for len(remaining) > 0 {
		var ready []any
		for h, deg := range remaining {
			if deg == 0 {
				ready = append(ready, h)
			}
		}
		if len(ready) == 0 {
			break
		}

		// Sort for deterministic layer contents; callers that care about
		// ordering (tests, graphviz output) get stable results.
		sort.Slice(ready, func(i, j int) bool {
			return fmt.Sprint(ready[i]) < fmt.Sprint(ready[j])
		})

		layer := make([]Vertex, 0, len(ready))
		for _, h := range ready {
			layer = append(layer, g.vertices[h])
			delete(remaining, h)
		}
		for _, h := range ready {
			for _, sh := range g.successors(h) {
				if _, ok := remaining[sh]; ok {
					remaining[sh]--
				}
			}
		}
		layers = append(layers, layer)
		seen += len(layer)
	}

	if seen < len(g.vertices) {
		var stuck []string
		for h := range remaining {
			stuck = append(stuck, fmt.Sprint(h))
		}
		sort.Strings(stuck)
		return nil, &tfdiags.CycleError{Remaining: stuck}
	}
	return layers, nil
}
