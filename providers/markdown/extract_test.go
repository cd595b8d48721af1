package markdown

import "testing"

func TestRunHeadingsAndLinks(t *testing.T) {
	src := []byte("# Title\n\nSee [docs](https://example.com/docs) for more.\n\n```go\nfmt.Println(1)\n```\n")
	q := Run(src)

	if len(q.Headings) != 1 || q.Headings[0].Text != "Title" || q.Headings[0].Level != 1 {
		t.Fatalf("unexpected headings: %+v", q.Headings)
	}
	if len(q.Links) != 1 || q.Links[0].Destination != "https://example.com/docs" {
		t.Fatalf("unexpected links: %+v", q.Links)
	}
	if len(q.CodeFences) != 1 || q.CodeFences[0].Language != "go" {
		t.Fatalf("unexpected code fences: %+v", q.CodeFences)
	}
}

func TestRunFrontMatter(t *testing.T) {
	src := []byte("---\ntitle: Hello\nslug: hello-world\n---\n\n# Hello\n")
	q := Run(src)

	if len(q.FrontMatter) != 2 {
		t.Fatalf("expected 2 front-matter keys, got %d: %+v", len(q.FrontMatter), q.FrontMatter)
	}
	if len(q.Headings) != 1 || q.Headings[0].Text != "Hello" {
		t.Fatalf("unexpected headings after front matter: %+v", q.Headings)
	}
}
