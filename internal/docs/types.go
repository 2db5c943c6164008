package docs

import "strings"

// FilePosition locates a definition in the nixpkgs source tree.
type FilePosition struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// PrimopMeta is the extra metadata carried by builtins.
type PrimopMeta struct {
	Name         string   `json:"name"`
	Args         []string `json:"args"`
	Arity        int      `json:"arity"`
	Experimental bool     `json:"experimental"`
}

// ContentMeta describes where the doc comment itself was found.
type ContentMeta struct {
	Position *FilePosition `json:"position"`
	Path     []string      `json:"path"`
}

// Meta is everything the page needs besides the Markdown body.
type Meta struct {
	Title          string        `json:"title"`
	Path           []string      `json:"path"`
	Aliases        [][]string    `json:"aliases"`
	Signature      *string       `json:"signature"`
	IsPrimop       bool          `json:"is_primop"`
	PrimopMeta     *PrimopMeta   `json:"primop_meta"`
	CountApplied   *int          `json:"count_applied"` // nil when unknown
	ContentMeta    *ContentMeta  `json:"content_meta"`
	LambdaPosition *FilePosition `json:"lambda_position"`
	AttrPosition   *FilePosition `json:"attr_position"`
}

// Content is the doc comment body.
type Content struct {
	Content *string `json:"content"`
}

// Doc is a single entry of the corpus.
type Doc struct {
	Meta    Meta     `json:"meta"`
	Content *Content `json:"content"`
}

// Key joins the entry path with ".", the form used for lookups.
func (d *Doc) Key() string {
	return JoinPath(d.Meta.Path)
}

// Name is the last path segment, or "" for an empty path.
func (d *Doc) Name() string {
	if len(d.Meta.Path) == 0 {
		return ""
	}
	return d.Meta.Path[len(d.Meta.Path)-1]
}

// Body returns the raw Markdown content or "".
func (d *Doc) Body() string {
	if d == nil || d.Content == nil || d.Content.Content == nil {
		return ""
	}
	return *d.Content.Content
}

// Canonical reports whether no arguments have been applied, i.e. this entry
// is the definition itself rather than a partial application of it.
func (d *Doc) Canonical() bool {
	return d.Meta.CountApplied != nil && *d.Meta.CountApplied == 0
}

// JoinPath renders a path as "lib.strings.concat".
func JoinPath(path []string) string {
	return strings.Join(path, ".")
}

// Href returns the page URL for a path: /f/lib/strings/concat.
func Href(path []string) string {
	return "/f/" + strings.Join(path, "/")
}
