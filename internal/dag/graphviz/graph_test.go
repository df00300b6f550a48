package graphviz

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/farukkavlak/miniform/internal/dag"
)

func TestWriteDirectedGraph(t *testing.T) {
	g := &Graph{
		Content: &dag.Graph{},
		Attrs: map[string]Value{
			"rankdir": Val("LR"),
			"pad":     Val(1),
		},
		DefaultNodeAttrs: map[string]Value{
			"shape": Val("rectangle"),
		},
		DefaultEdgeAttrs: map[string]Value{
			"color": Val("red"),
		},
		DefaultEdgeDirectionOut: EdgeAttachmentSouth,
		DefaultEdgeDirectionIn:  EdgeAttachmentNorth,
	}
	noAttrs := Node{
		ID: "no_attrs",
	}
	g.Content.Add(noAttrs)
	oneAttr := Node{
		ID: "one_attr",
		Attrs: map[string]Value{
			"shape": Val("circle"),
		},
	}
	g.Content.Add(oneAttr)
	manyAttrs := Node{
		ID: "many_attrs",
		Attrs: map[string]Value{
			"shape": Val("underline"),
			"label": Val("I have many attributes!"),
		},
	}
	g.Content.Add(manyAttrs)
	complexAttrs := Node{
		ID: "complex_attrs",
		Attrs: map[string]Value{
			"quoted label":    Val("..."),
			"htmllike":        Val(HTMLLikeString(`<b>Hello!</b>`)),
			"special_escapes": Val(PrequotedValue(`"foo\lbar\r"`)),
		},
	}
	g.Content.Add(complexAttrs)
	g.Content.Connect(noAttrs, oneAttr)
	g.Content.Connect(complexAttrs, manyAttrs)

	var buf strings.Builder
	err := WriteDirectedGraph(g, &buf)
	if err != nil {
		t.Fatal(err)
	}

	got := strings.TrimSpace(buf.String())
	want := strings.TrimSpace(`
digraph {
  pad="1";
  rankdir=LR;
  node [shape=rectangle];
  edge [color=red];
  complex_attrs [htmllike=<<b>Hello!</b>>,"quoted label"="...",special_escapes="foo\lbar\r"];
  many_attrs [label="I have many attributes!",shape=underline];
  no_attrs;
  one_attr [shape=circle];
  complex_attrs:s -> many_attrs:n;
  no_attrs:s -> one_attr:n;
}
`)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error("wrong result:\n" + diff)
	}
}
