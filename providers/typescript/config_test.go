package typescript

import "testing"

func TestExtensions(t *testing.T) {
	c := New()
	exts := c.Extensions()
	want := map[string]bool{".ts": true, ".tsx": true}
	for _, e := range exts {
		if !want[e] {
			t.Errorf("unexpected extension %q", e)
		}
		delete(want, e)
	}
	if len(want) != 0 {
		t.Fatalf("missing extensions: %v", want)
	}
}

func TestNodeTypesForInterface(t *testing.T) {
	c := New()
	if got := c.NodeTypesFor("interface"); len(got) == 0 {
		t.Fatal("expected node types for \"interface\"")
	}
}
