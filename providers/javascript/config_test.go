package javascript

import "testing"

func TestExtensions(t *testing.T) {
	c := New()
	exts := map[string]bool{}
	for _, e := range c.Extensions() {
		exts[e] = true
	}
	for _, want := range []string{".js", ".jsx", ".mjs", ".cjs"} {
		if !exts[want] {
			t.Errorf("missing extension %q", want)
		}
	}
}

func TestNoInterfaceKind(t *testing.T) {
	c := New()
	if got := c.NodeTypesFor("interface"); got != nil {
		t.Fatalf("javascript has no interface kind, got %v", got)
	}
}
