package parser

import (
	"testing"

	"github.com/farukkavlak/miniform/internal/ast"
	"github.com/farukkavlak/miniform/internal/tfdiags"
)

func TestParseResource(t *testing.T) {
	src := `resource "local_file" "a" {
		path    = "/tmp/a"
		content = "hi"
	}`
	f, err := ParseString("main.mf", src)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if len(f.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(f.Statements))
	}
	r, ok := f.Statements[0].(ast.Resource)
	if !ok {
		t.Fatalf("statement is %T, want ast.Resource", f.Statements[0])
	}
	if r.Type != "local_file" || r.Name != "a" {
		t.Errorf("got type=%q name=%q", r.Type, r.Name)
	}
	v, ok := r.Attrs.Get("path")
	if !ok {
		t.Fatal("missing path attribute")
	}
	s, ok := v.(ast.String)
	if !ok || s.Val != "/tmp/a" {
		t.Errorf("path = %#v", v)
	}
}

func TestParseVariableWithDefault(t *testing.T) {
	f, err := ParseString("main.mf", `variable "x" { default = "us" }`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	v := f.Statements[0].(ast.Variable)
	if v.Name != "x" {
		t.Errorf("Name = %q", v.Name)
	}
	def, ok := v.Attrs.Get("default")
	if !ok || def.(ast.String).Val != "us" {
		t.Errorf("default = %#v", def)
	}
}

func TestParseReference(t *testing.T) {
	f, err := ParseString("main.mf", `resource "r" "t" { loc = "${var.x}" tag = var.x }`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	r := f.Statements[0].(ast.Resource)
	tag, _ := r.Attrs.Get("tag")
	ref, ok := tag.(ast.Reference)
	if !ok {
		t.Fatalf("tag = %#v, want ast.Reference", tag)
	}
	if len(ref.Parts) != 2 || ref.Parts[0] != "var" || ref.Parts[1] != "x" {
		t.Errorf("ref.Parts = %v", ref.Parts)
	}
}

func TestParseBareIdentifierIsError(t *testing.T) {
	_, err := ParseString("main.mf", `resource "r" "t" { tag = foo }`)
	if err == nil {
		t.Fatal("expected a parse error for bare identifier")
	}
	if _, ok := err.(*tfdiags.ParseError); !ok {
		t.Errorf("got %T, want *tfdiags.ParseError", err)
	}
}

func TestParseListAndMap(t *testing.T) {
	f, err := ParseString("main.mf", `resource "r" "t" {
		items = ["a", "b", 3]
		tags  = { env = "prod" n = 1 }
	}`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	r := f.Statements[0].(ast.Resource)
	items, _ := r.Attrs.Get("items")
	list, ok := items.(ast.List)
	if !ok || len(list.Items) != 3 {
		t.Fatalf("items = %#v", items)
	}
	tags, _ := r.Attrs.Get("tags")
	m, ok := tags.(ast.Map)
	if !ok || len(m.Entries) != 2 {
		t.Fatalf("tags = %#v", tags)
	}
}

func TestParseModuleAndOutput(t *testing.T) {
	f, err := ParseString("main.mf", `
module "app" {
	source = "./app"
	env    = "prod"
}
output "url" {
	value = module.app.url
}`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if len(f.Statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(f.Statements))
	}
	mod := f.Statements[0].(ast.Module)
	if mod.Name != "app" {
		t.Errorf("module name = %q", mod.Name)
	}
	out := f.Statements[1].(ast.Output)
	ref, ok := out.Value.(ast.Reference)
	if !ok || len(ref.Parts) != 3 {
		t.Fatalf("output value = %#v", out.Value)
	}
}

func TestParseEmptySource(t *testing.T) {
	f, err := ParseString("main.mf", "  \n# just a comment\n")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if len(f.Statements) != 0 {
		t.Errorf("got %d statements, want 0", len(f.Statements))
	}
}

func TestParseIsDeterministic(t *testing.T) {
	src := `resource "r" "t" { a = 1 }`
	f1, err1 := ParseString("main.mf", src)
	f2, err2 := ParseString("main.mf", src)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	r1 := f1.Statements[0].(ast.Resource)
	r2 := f2.Statements[0].(ast.Resource)
	if r1.Type != r2.Type || r1.Name != r2.Name {
		t.Errorf("parse was not deterministic")
	}
}
