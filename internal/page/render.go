package page

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/jcdickinson/noogle/internal/cas"
	"github.com/jcdickinson/noogle/internal/docs"
	"github.com/jcdickinson/noogle/internal/markdown"
	"github.com/jcdickinson/noogle/internal/theme"
)

//go:embed templates
var templates embed.FS

// Stylesheet is the static page layout CSS served as /page.css.
//
//go:embed templates/page.css
var Stylesheet string

var pageTemplate = template.Must(template.New("").ParseFS(templates, "templates/*.tmpl")).Lookup("layout.tmpl")

// Renderer renders pages of a single corpus.
type Renderer struct {
	corpus *docs.Corpus
	linker docs.SourceLinker
	theme  theme.Variant
	cache  *cas.Store
}

// NewRenderer creates a renderer. cache may be nil, in which case every body
// is rendered from Markdown.
func NewRenderer(corpus *docs.Corpus, linker docs.SourceLinker, variant theme.Variant, cache *cas.Store) *Renderer {
	return &Renderer{corpus: corpus, linker: linker, theme: variant, cache: cache}
}

// Corpus returns the corpus pages are rendered from.
func (r *Renderer) Corpus() *docs.Corpus {
	return r.corpus
}

// Page builds the full view model for path, including the rendered body.
// Unknown paths produce the Missing page.
func (r *Renderer) Page(path []string) Page {
	return r.PageByKey(docs.JoinPath(path))
}

// PageByKey is Page for an already joined "a.b.c" key.
func (r *Renderer) PageByKey(key string) Page {
	d, ok := r.corpus.FindKey(key)
	if !ok {
		return Missing()
	}
	p := Build(d, r.linker)
	if !p.Empty {
		p.Body = template.HTML(r.renderBody(p.Content))
	}
	return p
}

// Render writes the HTML document for path. It reports whether the entry
// exists; the Missing page is written for unknown paths.
func (r *Renderer) Render(w io.Writer, path []string) (bool, error) {
	p := r.Page(path)
	return p.Found, r.Write(w, p)
}

// Write executes the page template for p.
func (r *Renderer) Write(w io.Writer, p Page) error {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Page
		Theme theme.Variant
	}{p, r.theme})
	if err != nil {
		return fmt.Errorf("executing page template for %q: %w", p.Key, err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing page %q: %w", p.Key, err)
	}
	return nil
}

// renderBody renders the Markdown with manual links pointing at local pages,
// going through the render cache when one is configured. The cache key
// covers the resolved links, so a corpus change that adds or drops a link
// target misses the cache.
func (r *Renderer) renderBody(content string) string {
	links := r.corpus.ResolveManualLinks(content)
	if r.cache == nil {
		return markdown.Render(content, links)
	}

	var key strings.Builder
	key.WriteString(content)
	for _, from := range slices.Sorted(maps.Keys(links)) {
		fmt.Fprintf(&key, "\x00%s\x00%s", from, links[from])
	}
	hash := cas.Key(key.String())

	if html, err := r.cache.Read(hash); err == nil {
		return html
	}
	html := markdown.Render(content, links)
	if err := r.cache.Write(hash, html); err != nil {
		slog.Warn("caching rendered body", "error", err)
	}
	return html
}
