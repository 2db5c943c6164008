package page

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jcdickinson/noogle/internal/cas"
	"github.com/jcdickinson/noogle/internal/docs"
	"github.com/jcdickinson/noogle/internal/theme"
)

const corpusJSON = `[
  {
    "meta": {
      "title": "lib.strings.concatStrings",
      "path": ["lib", "strings", "concatStrings"],
      "aliases": [["lib", "concatStrings"]],
      "signature": "concatStrings :: [string] -> string",
      "count_applied": 0,
      "content_meta": {"position": {"file": "/nix/store/abc-src/lib/strings.nix", "line": 60, "column": 3}}
    },
    "content": {"content": "# Example\n\nSee [concatMap](#function-library-lib.lists.concatMap).\n\n## Inputs\n"}
  },
  {
    "meta": {
      "title": "lib.lists.concatMap",
      "path": ["lib", "lists", "concatMap"],
      "count_applied": 1,
      "lambda_position": {"file": "/nix/store/abc-src/lib/lists.nix", "line": 10, "column": 5}
    }
  },
  {
    "meta": {
      "title": "lib.trivial.id",
      "path": ["lib", "trivial", "id"],
      "attr_position": {"file": "/nix/store/abc-src/lib/trivial.nix", "line": 2, "column": 1}
    },
    "content": {"content": ""}
  },
  {
    "meta": {
      "title": "builtins.getFlake",
      "path": ["builtins", "getFlake"],
      "is_primop": true,
      "count_applied": 0,
      "primop_meta": {"name": "getFlake", "args": ["args"], "arity": 1, "experimental": true}
    }
  }
]`

func testRenderer(t *testing.T, cache *cas.Store) *Renderer {
	t.Helper()
	corpus, err := docs.Parse([]byte(corpusJSON))
	if err != nil {
		t.Fatal(err)
	}
	linker := docs.SourceLinker{BaseURL: "https://example.org/tree/main", StripComponents: 3}
	return NewRenderer(corpus, linker, theme.VariantDark, cache)
}

func render(t *testing.T, r *Renderer, path ...string) (string, bool) {
	t.Helper()
	var buf bytes.Buffer
	found, err := r.Render(&buf, path)
	if err != nil {
		t.Fatal(err)
	}
	return buf.String(), found
}

func TestBuild_Documented(t *testing.T) {
	t.Parallel()
	r := testRenderer(t, nil)

	p := r.Page([]string{"lib", "strings", "concatStrings"})
	if !p.Found || p.Title != "lib.strings.concatStrings" {
		t.Fatalf("unexpected page %+v", p)
	}
	if p.Primop || p.Experimental {
		t.Error("not a primop")
	}
	if p.Empty || p.ShowTip() {
		t.Error("documented entry should not be empty")
	}
	if p.EditURL != "https://example.org/tree/main/lib/strings.nix#L60:C3" {
		t.Errorf("EditURL = %q", p.EditURL)
	}
	if p.RawURL != "" {
		t.Errorf("RawURL = %q, want empty when a primary position exists", p.RawURL)
	}

	wantFilters := []string{"from:list", "to:string"}
	if got := p.Filters(); strings.Join(got, ",") != strings.Join(wantFilters, ",") {
		t.Errorf("Filters = %v, want %v", got, wantFilters)
	}

	if len(p.TOC) != 2 {
		t.Fatalf("TOC = %+v", p.TOC)
	}
	if p.TOC[0].ID != "example" || p.TOC[0].Indent() != 1 {
		t.Errorf("TOC[0] = %+v indent %d", p.TOC[0], p.TOC[0].Indent())
	}
	if p.TOC[1].ID != "inputs" || p.TOC[1].Indent() != 3 {
		t.Errorf("TOC[1] = %+v indent %d", p.TOC[1], p.TOC[1].Indent())
	}

	if len(p.Aliases) != 1 || p.Aliases[0].Href != "/f/lib/concatStrings" || p.Aliases[0].Label != "lib.concatStrings" {
		t.Errorf("Aliases = %+v", p.Aliases)
	}
}

func TestRender_Documented(t *testing.T) {
	t.Parallel()
	r := testRenderer(t, nil)

	html, found := render(t, r, "lib", "strings", "concatStrings")
	if !found {
		t.Fatal("expected entry to be found")
	}
	for _, want := range []string{
		"<h1>lib.strings.concatStrings</h1>",
		`<meta data-pagefind-filter="from:list">`,
		`<meta data-pagefind-filter="to:string">`,
		`<h2 id="example">Example</h2>`,
		`<h3 id="inputs">Inputs</h3>`,
		`href="/f/lib/lists/concatMap"`,
		`href="#example"`,
		"Edit source",
		"Noogle also knows",
		`<a href="/f/lib/concatStrings">lib.concatStrings</a>`,
		`data-theme="dark"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q in output", want)
		}
	}
	for _, unwanted := range []string{"No documentation found yet.", "Contribute now!", "Primop"} {
		if strings.Contains(html, unwanted) {
			t.Errorf("unexpected %q in output", unwanted)
		}
	}
}

func TestRender_NoContentNoPosition(t *testing.T) {
	t.Parallel()
	r := testRenderer(t, nil)

	p := r.Page([]string{"lib", "lists", "concatMap"})
	if !p.Empty || p.EditURL != "" || !p.ShowTip() {
		t.Fatalf("unexpected page %+v", p)
	}
	// count_applied is 1, so the lambda position is only a raw position.
	if p.RawURL != "https://example.org/tree/main/lib/lists.nix#L10:C5" {
		t.Errorf("RawURL = %q", p.RawURL)
	}
	if p.Aliases != nil {
		t.Errorf("Aliases = %+v", p.Aliases)
	}

	html, _ := render(t, r, "lib", "lists", "concatMap")
	for _, want := range []string{
		"No documentation found yet.",
		"Noogle's tip",
		"Position of the source could not be detected automatically.",
		"Original/underlying function",
		`<meta data-pagefind-filter="from:any">`,
		`<meta data-pagefind-filter="to:any">`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q in output", want)
		}
	}
	if strings.Contains(html, "Edit source") || strings.Contains(html, "Aliases") {
		t.Error("no edit link or alias section expected")
	}
}

func TestRender_NoContentWithPosition(t *testing.T) {
	t.Parallel()
	r := testRenderer(t, nil)

	html, _ := render(t, r, "lib", "trivial", "id")
	for _, want := range []string{"No documentation found yet.", "Contribute now!", "Edit source"} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q in output", want)
		}
	}
	if strings.Contains(html, "Position of the source could not be detected") {
		t.Error("tip shown despite a primary position")
	}
}

func TestRender_Primop(t *testing.T) {
	t.Parallel()
	r := testRenderer(t, nil)

	p := r.Page([]string{"builtins", "getFlake"})
	if !p.Primop || !p.Experimental {
		t.Fatalf("expected primop and experimental badges, got %+v", p)
	}
	if p.Empty {
		t.Error("primop description counts as content")
	}
	if len(p.TOC) != 0 {
		t.Errorf("TOC comes from the raw body, got %+v", p.TOC)
	}

	html, _ := render(t, r, "builtins", "getFlake")
	for _, want := range []string{
		`<span class="chip chip-primary">Primop</span>`,
		`<span class="chip chip-warning">Experimental</span>`,
		"<code>builtins.getFlake</code>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q in output", want)
		}
	}
}

func TestRender_Missing(t *testing.T) {
	t.Parallel()
	r := testRenderer(t, nil)

	html, found := render(t, r, "lib", "nope")
	if found {
		t.Fatal("expected miss")
	}
	for _, want := range []string{
		"<h1></h1>",
		"No documentation found yet.",
		"Noogle's tip",
		"Position of the source could not be detected automatically.",
		`<meta data-pagefind-filter="from:any">`,
		`<meta data-pagefind-filter="to:any">`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q in output", want)
		}
	}
	for _, unwanted := range []string{"Original/underlying function", "Edit source", "Aliases", "Table of Contents"} {
		if strings.Contains(html, unwanted) {
			t.Errorf("unexpected %q in output", unwanted)
		}
	}
}

func TestBuild_FrontMatterStripped(t *testing.T) {
	t.Parallel()
	body := "---\ntitle: x\n---\n# Usage\n"
	d := &docs.Doc{
		Meta:    docs.Meta{Title: "f", Path: []string{"f"}},
		Content: &docs.Content{Content: &body},
	}
	p := Build(d, docs.SourceLinker{})
	if p.Content != "# Usage\n" {
		t.Errorf("Content = %q", p.Content)
	}
	if len(p.TOC) != 1 || p.TOC[0].ID != "usage" {
		t.Errorf("TOC = %+v", p.TOC)
	}
}

func TestBuild_Nil(t *testing.T) {
	t.Parallel()
	p := Build(nil, docs.SourceLinker{BaseURL: "https://example.org"})
	if p.Found || !p.Empty || !p.ShowTip() {
		t.Errorf("nil entry = %+v", p)
	}
	if p.EditURL != "" || p.RawURL != "" || p.Title != "" {
		t.Errorf("nil entry has links or title: %+v", p)
	}
	if got := strings.Join(p.Filters(), ","); got != "from:any,to:any" {
		t.Errorf("Filters = %s", got)
	}
}

func TestRender_UsesCache(t *testing.T) {
	t.Parallel()
	store := cas.New(t.TempDir())
	r := testRenderer(t, store)

	first, _ := render(t, r, "lib", "strings", "concatStrings")
	second, _ := render(t, r, "lib", "strings", "concatStrings")
	if first != second {
		t.Error("cached render differs from fresh render")
	}

	uncached, _ := render(t, testRenderer(t, nil), "lib", "strings", "concatStrings")
	if first != uncached {
		t.Error("cache changed the output")
	}
}
