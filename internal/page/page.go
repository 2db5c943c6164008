// Package page turns corpus entries into the view model of a function page
// and renders it with the embedded HTML templates.
package page

import (
	"html/template"
	"log/slog"

	"github.com/jcdickinson/noogle/internal/docs"
	"github.com/jcdickinson/noogle/internal/markdown"
	"github.com/jcdickinson/noogle/internal/nixtype"
)

// TOCEntry is one link of the table of contents.
type TOCEntry struct {
	Level int
	Value string
	ID    string
}

// Indent is the left padding of the entry in spacing units.
func (e TOCEntry) Indent() int {
	return (e.Level-1)*2 + 1
}

// Alias is another path the same function is reachable under.
type Alias struct {
	Href  string
	Label string
}

// Page is everything the template needs for one function page.
type Page struct {
	// Found is false for the page of an unknown path.
	Found bool
	Path  []string
	Key   string
	Title string

	Primop       bool
	Experimental bool

	Signature nixtype.Signature

	// Content is the assembled Markdown with front matter removed.
	Content string
	Body    template.HTML
	Empty   bool

	TOC []TOCEntry

	// EditURL is set when the entry has a primary source position.
	EditURL string
	// RawURL is the best-effort link used when EditURL is empty.
	RawURL string

	Aliases []Alias
}

// ShowTip reports whether the "position not detected" hint is shown.
func (p Page) ShowTip() bool {
	return p.Empty && p.EditURL == ""
}

// Filters returns the pagefind filter values, "from:<tag>" per argument
// and "to:<tag>" per return type.
func (p Page) Filters() []string {
	out := make([]string, 0, len(p.Signature.Args)+len(p.Signature.Returns))
	for _, t := range p.Signature.Args {
		out = append(out, "from:"+t)
	}
	for _, t := range p.Signature.Returns {
		out = append(out, "to:"+t)
	}
	return out
}

// Build assembles the view model of an entry without rendering the body.
func Build(d *docs.Doc, linker docs.SourceLinker) Page {
	if d == nil {
		return Missing()
	}

	p := Page{
		Found:     true,
		Path:      d.Meta.Path,
		Key:       d.Key(),
		Title:     d.Meta.Title,
		Primop:    d.Meta.IsPrimop && d.Canonical(),
		Signature: nixtype.Of(d),
	}
	p.Experimental = p.Primop && d.Meta.PrimopMeta != nil && d.Meta.PrimopMeta.Experimental

	assembled := docs.AssembleContent(d)
	p.Empty = assembled == ""
	p.Content = stripFrontMatter(p.Key, assembled)

	for _, h := range markdown.ExtractHeadings(stripFrontMatter(p.Key, d.Body())) {
		p.TOC = append(p.TOC, TOCEntry{Level: h.Level, Value: h.Value, ID: h.ID})
	}

	if r := docs.SelectPosition(d); r.Found() {
		p.EditURL = linker.URL(r.Position)
	} else if r := docs.SelectRawPosition(d); r.Found() {
		p.RawURL = linker.URL(r.Position)
	}

	for _, a := range d.Meta.Aliases {
		if len(a) == 0 {
			continue
		}
		p.Aliases = append(p.Aliases, Alias{Href: docs.Href(a), Label: docs.JoinPath(a)})
	}
	return p
}

// Missing is the page of a path with no entry: no title, no content and no
// source position, filtered as any -> any.
func Missing() Page {
	return Page{Empty: true, Signature: nixtype.Of(nil)}
}

func stripFrontMatter(key, content string) string {
	_, body, err := markdown.SplitFrontMatter(content)
	if err != nil {
		slog.Debug("ignoring front matter", "path", key, "error", err)
	}
	return body
}
