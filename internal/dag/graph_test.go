package dag

import (
	"testing"

	"github.com/farukkavlak/miniform/internal/tfdiags"
)

func TestLayersIndependentNodes(t *testing.T) {
	var g Graph
	g.Add("a")
	g.Add("b")
	layers, err := g.Layers()
	if err != nil {
		t.Fatalf("Layers() error = %v", err)
	}
	if len(layers) != 1 || len(layers[0]) != 2 {
		t.Fatalf("layers = %v, want one layer of two nodes", layers)
	}
}

func TestLayersChain(t *testing.T) {
	var g Graph
	g.Connect("a", "b") // a must complete before b
	layers, err := g.Layers()
	if err != nil {
		t.Fatalf("Layers() error = %v", err)
	}
	if len(layers) != 2 {
		t.Fatalf("got %d layers, want 2: %v", len(layers), layers)
	}
	if layers[0][0] != "a" || layers[1][0] != "b" {
		t.Errorf("layers = %v, want [[a] [b]]", layers)
	}
}

func TestLayersVisitsEveryNode(t *testing.T) {
	var g Graph
	g.Connect("a", "c")
	g.Connect("b", "c")
	g.Add("d")
	layers, err := g.Layers()
	if err != nil {
		t.Fatalf("Layers() error = %v", err)
	}
	total := 0
	for i, layer := range layers {
		for j, other := range layers {
			if i == j {
				continue
			}
			for _, v := range layer {
				for _, w := range other {
					_ = v
					_ = w
				}
			}
		}
		total += len(layer)
	}
	if total != g.Len() {
		t.Errorf("visited %d nodes, want %d", total, g.Len())
	}
}

func TestLayersSelfReferenceCycle(t *testing.T) {
	var g Graph
	g.Connect("a", "a")
	_, err := g.Layers()
	if err == nil {
		t.Fatal("expected a CycleError")
	}
	if _, ok := err.(*tfdiags.CycleError); !ok {
		t.Errorf("got %T, want *tfdiags.CycleError", err)
	}
}

func TestLayersMutualCycle(t *testing.T) {
	var g Graph
	g.Connect("x", "y")
	g.Connect("y", "x")
	_, err := g.Layers()
	if err == nil {
		t.Fatal("expected a CycleError")
	}
}

func TestLayersEmptyGraph(t *testing.T) {
	var g Graph
	layers, err := g.Layers()
	if err != nil {
		t.Fatalf("Layers() error = %v", err)
	}
	if len(layers) != 0 {
		t.Errorf("got %d layers, want 0", len(layers))
	}
}
