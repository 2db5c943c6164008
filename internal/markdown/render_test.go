package markdown

import (
	"reflect"
	"strings"
	"testing"
)

func TestRender_ShiftsHeadings(t *testing.T) {
	t.Parallel()

	got := Render("# Type\n\n## Example\n\n###### Deep\n", nil)
	for _, want := range []string{`<h2 id="type">Type</h2>`, `<h3 id="example">Example</h3>`, `<h6 id="deep">Deep</h6>`} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
	if strings.Contains(got, "<h1") {
		t.Errorf("h1 should not be emitted: %q", got)
	}
}

func TestRender_Paragraph(t *testing.T) {
	t.Parallel()
	got := Render("Concatenate a list of strings.", nil)
	if !strings.Contains(got, "<p>Concatenate a list of strings.</p>") {
		t.Errorf("got %q", got)
	}
}

func TestRender_Empty(t *testing.T) {
	t.Parallel()
	if got := strings.TrimSpace(Render("", nil)); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestExtractHeadings(t *testing.T) {
	t.Parallel()

	src := "Intro\n\n# Type\n\n```\nid :: a -> a\n```\n\n## `inputs` attribute\n\n# Examples\n\n# Examples\n"
	got := ExtractHeadings(src)
	want := []Heading{
		{Level: 1, Value: "Type", ID: "type"},
		{Level: 2, Value: "inputs attribute", ID: "inputs-attribute"},
		{Level: 1, Value: "Examples", ID: "examples"},
		{Level: 1, Value: "Examples", ID: "examples-1"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v\nwant %+v", got, want)
	}
}

func TestExtractHeadings_MatchRenderedIDs(t *testing.T) {
	t.Parallel()

	src := "# Examples\n\ntext\n\n# Examples\n"
	html := Render(src, nil)
	for _, h := range ExtractHeadings(src) {
		if !strings.Contains(html, `id="`+h.ID+`"`) {
			t.Errorf("heading id %q not rendered in %q", h.ID, html)
		}
	}
}

func TestExtractHeadings_None(t *testing.T) {
	t.Parallel()
	if got := ExtractHeadings("just text"); len(got) != 0 {
		t.Errorf("got %+v", got)
	}
}

func TestRender_RewritesLinks(t *testing.T) {
	t.Parallel()
	links := map[string]string{
		"#function-library-lib.strings.concat":                             "/f/lib/strings/concat",
		"https://nixos.org/manual/nixpkgs/stable/#function-library-lib.id": "/f/lib/id",
	}

	tests := []struct {
		name    string
		src     string
		want    []string
		notWant []string
	}{
		{
			name: "inline",
			src:  "See [concat](#function-library-lib.strings.concat).",
			want: []string{`href="/f/lib/strings/concat"`},
		},
		{
			name: "reference",
			src:  "See [concat][ref].\n\n[ref]: #function-library-lib.strings.concat\n",
			want: []string{`href="/f/lib/strings/concat"`},
		},
		{
			name: "autolink",
			src:  "See https://nixos.org/manual/nixpkgs/stable/#function-library-lib.id for details.",
			want: []string{`href="/f/lib/id"`},
		},
		{
			name:    "unknown destination",
			src:     "Check [this](keep-me) out.",
			want:    []string{`href="keep-me"`},
			notWant: []string{"/f/"},
		},
		{
			name:    "code span",
			src:     "Literal `[x](#function-library-lib.strings.concat)` stays.",
			notWant: []string{`href=`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Render(tt.src, links)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("missing %s in %q", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("unexpected %s in %q", w, got)
				}
			}
		})
	}
}
