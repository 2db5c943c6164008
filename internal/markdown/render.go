package markdown

import (
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	gmparser "github.com/gomarkdown/markdown/parser"
)

// Heading is one table-of-contents entry.
type Heading struct {
	Level int    `json:"level"`
	Value string `json:"value"`
	ID    string `json:"id"`
}

// newParser returns a fresh parser; gomarkdown parsers are single use.
func newParser() *gmparser.Parser {
	return gmparser.NewWithExtensions(
		gmparser.CommonExtensions | gmparser.AutoHeadingIDs | gmparser.Autolink,
	)
}

// Render converts Markdown to an HTML fragment. Headings are shifted one
// level down (the page title owns <h1>) and carry the same ids that
// ExtractHeadings reports. Link destinations that are keys of links are
// replaced by their value; links may be nil.
func Render(src string, links map[string]string) string {
	doc := gm.Parse([]byte(src), newParser())

	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch n := node.(type) {
		case *ast.Heading:
			n.Level = min(n.Level+1, 6)
		case *ast.Link:
			if dest, ok := links[string(n.Destination)]; ok {
				n.Destination = []byte(dest)
			}
		}
		return ast.GoToNext
	})

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags,
	})
	return string(gm.Render(doc, renderer))
}

// ExtractHeadings lists the headings of src in document order with their
// original Markdown level.
func ExtractHeadings(src string) []Heading {
	doc := gm.Parse([]byte(src), newParser())

	var headings []Heading
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		h, ok := node.(*ast.Heading)
		if !ok {
			return ast.GoToNext
		}
		headings = append(headings, Heading{
			Level: h.Level,
			Value: strings.TrimSpace(nodeText(h)),
			ID:    h.HeadingID,
		})
		return ast.SkipChildren
	})
	return headings
}

func nodeText(n ast.Node) string {
	var b strings.Builder
	ast.WalkFunc(n, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if leaf := node.AsLeaf(); leaf != nil {
			b.Write(leaf.Literal)
		}
		return ast.GoToNext
	})
	return b.String()
}
