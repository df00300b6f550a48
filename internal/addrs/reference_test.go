package addrs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassifyReferenceVar(t *testing.T) {
	ref, err := ClassifyReference([]string{"app"}, []string{"var", "x"})
	if err != nil {
		t.Fatalf("ClassifyReference() error = %v", err)
	}
	want := Ref{Kind: RefVar, ModulePath: []string{"app"}, Name: "x"}
	if !cmp.Equal(ref, want) {
		t.Errorf("ClassifyReference() mismatch (-got +want):\n%s", cmp.Diff(ref, want))
	}
}

func TestClassifyReferenceResourceRelativeAndAbsolute(t *testing.T) {
	ref, err := ClassifyReference([]string{"app"}, []string{"local_file", "a", "id"})
	if err != nil {
		t.Fatalf("ClassifyReference() error = %v", err)
	}
	want := Ref{Kind: RefResource, ModulePath: []string{"app"}, Type: "local_file", Name: "a", Attr: "id"}
	if !cmp.Equal(ref, want) {
		t.Errorf("relative resource mismatch (-got +want):\n%s", cmp.Diff(ref, want))
	}

	ref, err = ClassifyReference([]string{"app"}, []string{"module", "other", "local_file", "a", "id"})
	if err != nil {
		t.Fatalf("ClassifyReference() error = %v", err)
	}
	want = Ref{Kind: RefResource, ModulePath: []string{"other"}, Type: "local_file", Name: "a", Attr: "id"}
	if !cmp.Equal(ref, want) {
		t.Errorf("module-prefixed resource reference is absolute, mismatch (-got +want):\n%s", cmp.Diff(ref, want))
	}
}

// A module.M.O reference resolves relative to the referencing context, so
// from within module "a" a reference to its child module "b" must target
// "a.b", not the bare "b" the reference spells out.
func TestClassifyReferenceModuleOutputIsRelativeToCurrentModule(t *testing.T) {
	ref, err := ClassifyReference([]string{"a"}, []string{"module", "b", "o"})
	if err != nil {
		t.Fatalf("ClassifyReference() error = %v", err)
	}
	want := Ref{Kind: RefModuleOutput, ModulePath: []string{"a", "b"}, Name: "o"}
	if !cmp.Equal(ref, want) {
		t.Errorf("nested module output mismatch (-got +want):\n%s", cmp.Diff(ref, want))
	}
}

func TestClassifyReferenceModuleOutputAtRoot(t *testing.T) {
	ref, err := ClassifyReference(nil, []string{"module", "app", "o"})
	if err != nil {
		t.Fatalf("ClassifyReference() error = %v", err)
	}
	want := Ref{Kind: RefModuleOutput, ModulePath: []string{"app"}, Name: "o"}
	if !cmp.Equal(ref, want) {
		t.Errorf("root module output mismatch (-got +want):\n%s", cmp.Diff(ref, want))
	}
}

func TestClassifyReferenceMalformed(t *testing.T) {
	if _, err := ClassifyReference(nil, []string{"x"}); err == nil {
		t.Errorf("expected error for single-part reference")
	}
	if _, err := ClassifyReference(nil, []string{"var", "a", "b"}); err == nil {
		t.Errorf("expected error for malformed var reference")
	}
}
