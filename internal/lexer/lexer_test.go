package lexer

import (
	"testing"

	"github.com/farukkavlak/miniform/internal/tfdiags"
	"github.com/farukkavlak/miniform/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeResourceBlock(t *testing.T) {
	src := `resource "local_file" "a" {
		path = "/tmp/a" # comment
		content = "${var.x}"
	}`
	toks, err := Tokenize("main.mf", src)
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	want := []token.Kind{
		token.RESOURCE, token.STRING, token.STRING, token.LBRACE,
		token.IDENT, token.EQUAL, token.STRING,
		token.IDENT, token.EQUAL, token.STRING,
		token.RBRACE, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeComments(t *testing.T) {
	toks, err := Tokenize("main.mf", "// just a comment\n# also a comment\n")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	if len(toks) != 1 || toks[0].Kind != token.EOF {
		t.Errorf("expected only EOF, got %v", kinds(toks))
	}
}

func TestTokenizeListAndMap(t *testing.T) {
	toks, err := Tokenize("main.mf", `[ "a", "b" ] { k = 1 }`)
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	want := []token.Kind{
		token.LBRACK, token.STRING, token.COMMA, token.STRING, token.RBRACK,
		token.LBRACE, token.IDENT, token.EQUAL, token.NUMBER, token.RBRACE,
		token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(got), len(want))
	}
}

func TestTokenizeBoolean(t *testing.T) {
	toks, err := Tokenize("main.mf", "true false")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	if toks[0].Kind != token.BOOL || toks[1].Kind != token.BOOL {
		t.Errorf("expected two BOOL tokens, got %v", kinds(toks))
	}
}

func TestTokenizeUnexpectedChar(t *testing.T) {
	_, err := Tokenize("main.mf", "resource @ \"a\" {}")
	if err == nil {
		t.Fatal("expected LexError")
	}
	lexErr, ok := err.(*tfdiags.LexError)
	if !ok {
		t.Fatalf("expected *tfdiags.LexError, got %T", err)
	}
	if lexErr.Char != '@' {
		t.Errorf("got char %q, want '@'", lexErr.Char)
	}
}

func TestTokenizePositions(t *testing.T) {
	toks, err := Tokenize("main.mf", "resource\n  \"a\"")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	if toks[0].Pos.Line != 1 || toks[0].Pos.Column != 1 {
		t.Errorf("first token pos = %v", toks[0].Pos)
	}
	if toks[1].Pos.Line != 2 {
		t.Errorf("second token line = %d, want 2", toks[1].Pos.Line)
	}
}
