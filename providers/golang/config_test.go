package golang

import "testing"

func TestConfigIdentity(t *testing.T) {
	c := New()
	if c.Language() != "go" {
		t.Fatalf("Language() = %q, want go", c.Language())
	}
	if c.SitterLanguage() == nil {
		t.Fatal("SitterLanguage() returned nil")
	}
}

func TestNodeTypesFor(t *testing.T) {
	c := New()
	if got := c.NodeTypesFor("function"); len(got) == 0 {
		t.Fatal("expected node types for \"function\"")
	}
	if got := c.NodeTypesFor("nonsense"); got != nil {
		t.Fatalf("expected nil for unknown kind, got %v", got)
	}
}

func TestIsExported(t *testing.T) {
	cases := map[string]bool{"Foo": true, "foo": false, "": false}
	for name, want := range cases {
		if got := IsExported(name); got != want {
			t.Errorf("IsExported(%q) = %v, want %v", name, got, want)
		}
	}
}
