package java

import "testing"

func TestJavaConfig(t *testing.T) {
	c := New()
	if c.Language() != "java" {
		t.Fatalf("Language() = %q", c.Language())
	}
	if c.Extensions()[0] != ".java" {
		t.Fatalf("Extensions() = %v", c.Extensions())
	}
	if c.SitterLanguage() == nil {
		t.Fatal("SitterLanguage() returned nil")
	}
}
