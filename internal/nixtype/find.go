package nixtype

import (
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"
	"github.com/jcdickinson/noogle/internal/docs"
)

// FindType recovers a signature from the entry body when the corpus has none.
// It prefers the first code block under a "Type" heading and otherwise looks
// for a "<name> :: ..." line anywhere in the body.
func FindType(d *docs.Doc) string {
	body := d.Body()
	if strings.TrimSpace(body) == "" {
		return ""
	}

	if sig := typeSectionBlock(body); sig != "" {
		return sig
	}

	name := d.Name()
	if name == "" {
		return ""
	}
	for _, line := range strings.Split(body, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "`")
		if rest, ok := strings.CutPrefix(line, name); ok && strings.HasPrefix(strings.TrimSpace(rest), "::") {
			return line
		}
	}
	return ""
}

// SignatureOf returns the corpus signature when present, falling back to FindType.
func SignatureOf(d *docs.Doc) string {
	if d == nil {
		return ""
	}
	if d.Meta.Signature != nil && strings.TrimSpace(*d.Meta.Signature) != "" {
		return *d.Meta.Signature
	}
	return FindType(d)
}

// Of interprets the type of an entry. A nil entry is unknown.
func Of(d *docs.Doc) Signature {
	if d == nil {
		return Interpret("", "")
	}
	return Interpret(d.Name(), SignatureOf(d))
}

func typeSectionBlock(body string) string {
	doc := gm.Parse([]byte(body), gmparser.NewWithExtensions(gmparser.CommonExtensions))

	inType := false
	for _, child := range doc.GetChildren() {
		switch n := child.(type) {
		case *ast.Heading:
			inType = strings.EqualFold(strings.TrimSpace(headingText(n)), "type")
		case *ast.CodeBlock:
			if inType {
				if sig := strings.TrimSpace(string(n.Literal)); topLevelIndex(sig, "::") >= 0 || strings.Contains(sig, "->") {
					return sig
				}
			}
		}
	}
	return ""
}

func headingText(h *ast.Heading) string {
	var b strings.Builder
	ast.WalkFunc(h, func(node ast.Node, entering bool) ast.WalkStatus {
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
