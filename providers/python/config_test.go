package python

import "testing"

func TestLanguageAndExtension(t *testing.T) {
	c := New()
	if c.Language() != "python" {
		t.Fatalf("Language() = %q", c.Language())
	}
	exts := c.Extensions()
	if len(exts) != 1 || exts[0] != ".py" {
		t.Fatalf("Extensions() = %v, want [.py]", exts)
	}
}

func TestMethodAndFunctionShareNodeType(t *testing.T) {
	c := New()
	fn := c.NodeTypesFor("function")
	method := c.NodeTypesFor("method")
	if len(fn) != 1 || len(method) != 1 || fn[0] != method[0] {
		t.Fatalf("expected function and method to share a grammar node type, got %v / %v", fn, method)
	}
}
