package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/oxhq/codegraph/querycatalog"
)

// Queries walks source once and returns every markdown query result, the
// goldmark-based counterpart of querycatalog.RunAll for tree-sitter
// languages.
type Queries struct {
	Headings     []querycatalog.MDHeading
	Links        []querycatalog.MDLink
	CodeFences   []querycatalog.MDCodeFence
	FrontMatter  []querycatalog.MDFrontMatterKey
}

// Run parses source and extracts headings, links, code fences, and any
// leading YAML front-matter block.
func Run(source []byte) Queries {
	var q Queries
	q.FrontMatter = frontMatterKeys(source)

	body := source
	if fm := frontMatterSpan(source); fm > 0 {
		body = source[fm:]
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(body))

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			q.Headings = append(q.Headings, querycatalog.MDHeading{
				Level: node.Level,
				Text:  string(node.Text(body)),
			})
		case *ast.Link:
			q.Links = append(q.Links, querycatalog.MDLink{
				Text:        string(node.Text(body)),
				Destination: string(node.Destination),
			})
		case *ast.AutoLink:
			q.Links = append(q.Links, querycatalog.MDLink{
				Text:        string(node.Label(body)),
				Destination: string(node.URL(body)),
			})
		case *ast.FencedCodeBlock:
			var content bytes.Buffer
			for i := 0; i < node.Lines().Len(); i++ {
				line := node.Lines().At(i)
				content.Write(line.Value(body))
			}
			q.CodeFences = append(q.CodeFences, querycatalog.MDCodeFence{
				Language: string(node.Language(body)),
				Content:  content.String(),
			})
		}
		return ast.WalkContinue, nil
	})

	return q
}

// frontMatterSpan returns the byte offset immediately after a leading
// `---`-delimited front-matter block, or 0 if there isn't one.
func frontMatterSpan(source []byte) int {
	if !bytes.HasPrefix(source, []byte("---\n")) {
		return 0
	}
	rest := source[4:]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return 0
	}
	return 4 + end + len("\n---")
}

func frontMatterKeys(source []byte) []querycatalog.MDFrontMatterKey {
	span := frontMatterSpan(source)
	if span == 0 {
		return nil
	}
	block := string(source[4 : span-len("\n---")])
	var keys []querycatalog.MDFrontMatterKey
	for _, line := range strings.Split(block, "\n") {
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if key == "" {
			continue
		}
		keys = append(keys, querycatalog.MDFrontMatterKey{Key: key, Value: value})
	}
	return keys
}
