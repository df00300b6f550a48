package addrs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddressString(t *testing.T) {
	cases := []struct {
		name string
		addr Address
		want string
	}{
		{"root", Root("local_file", "a"), "local_file.a"},
		{"nested", New([]string{"app"}, "r", "s"), "module.app.r.s"},
		{"deeply nested", New([]string{"a", "b"}, "r", "s"), "module.a.module.b.r.s"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.addr.String(); got != c.want {
				t.Errorf("String() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestAddressScopeString(t *testing.T) {
	addr := New([]string{"app"}, "r", "s")
	if got := addr.ScopeString(); got != "module.app" {
		t.Errorf("ScopeString() = %q, want %q", got, "module.app")
	}
	if got := Root("r", "s").ScopeString(); got != "" {
		t.Errorf("ScopeString() = %q, want empty", got)
	}
}

func TestAddressWithParent(t *testing.T) {
	child := Root("r", "s").WithParent([]string{"app"})
	want := New([]string{"app"}, "r", "s")
	if !cmp.Equal(child, want) {
		t.Errorf("WithParent() mismatch (-got +want):\n%s", cmp.Diff(child, want))
	}
}

func TestParse(t *testing.T) {
	addr, err := Parse("module.app.r.s")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := New([]string{"app"}, "r", "s")
	if !cmp.Equal(addr, want) {
		t.Errorf("Parse() mismatch (-got +want):\n%s", cmp.Diff(addr, want))
	}

	if _, err := Parse("r"); err == nil {
		t.Errorf("Parse(%q) expected error", "r")
	}
}

func TestAddressEqual(t *testing.T) {
	a := New([]string{"app"}, "r", "s")
	b := New([]string{"app"}, "r", "s")
	if !a.Equal(b) {
		t.Errorf("expected %v to equal %v", a, b)
	}
}

func TestOutputKey(t *testing.T) {
	if got := OutputKey(nil, "x"); got != "outputs.x" {
		t.Errorf("OutputKey() = %q", got)
	}
	if got := OutputKey([]string{"app"}, "x"); got != "module.app.outputs.x" {
		t.Errorf("OutputKey() = %q", got)
	}
}

func TestDataKey(t *testing.T) {
	if got := DataKey([]string{"app"}, "http", "n"); got != "module.app.http.n" {
		t.Errorf("DataKey() = %q", got)
	}
}
