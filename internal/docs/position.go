package docs

import (
	"fmt"
	"strings"
)

// PositionSource names which field a resolved position came from.
type PositionSource int

// Selection order is content, attr, then lambda; PositionNone means no
// field yielded a position.
const (
	PositionNone PositionSource = iota
	PositionContent
	PositionAttr
	PositionLambda
)

func (s PositionSource) String() string {
	switch s {
	case PositionContent:
		return "content"
	case PositionAttr:
		return "attr"
	case PositionLambda:
		return "lambda"
	default:
		return "none"
	}
}

// PositionResult is either a found position (Source != PositionNone) or nothing.
type PositionResult struct {
	Source   PositionSource
	Position FilePosition
}

func (r PositionResult) Found() bool {
	return r.Source != PositionNone
}

// SelectPosition picks the canonical source position of an entry:
// content position, then attribute position, then the lambda position but
// only for entries with zero applied arguments.
func SelectPosition(d *Doc) PositionResult {
	return selectPosition(d, false)
}

// SelectRawPosition is SelectPosition without the applied-arguments
// restriction on the lambda position. It is a best-effort link when the
// primary selection is empty.
func SelectRawPosition(d *Doc) PositionResult {
	return selectPosition(d, true)
}

func selectPosition(d *Doc, raw bool) PositionResult {
	if d == nil {
		return PositionResult{}
	}
	m := &d.Meta
	if m.ContentMeta != nil && m.ContentMeta.Position != nil {
		return PositionResult{Source: PositionContent, Position: *m.ContentMeta.Position}
	}
	if m.AttrPosition != nil {
		return PositionResult{Source: PositionAttr, Position: *m.AttrPosition}
	}
	if m.LambdaPosition != nil && (raw || d.Canonical()) {
		return PositionResult{Source: PositionLambda, Position: *m.LambdaPosition}
	}
	return PositionResult{}
}

// SourceLinker turns positions into browsable repository URLs.
type SourceLinker struct {
	BaseURL string
	// RootPrefix is stripped from position files when it matches.
	RootPrefix string
	// StripComponents leading path components are dropped otherwise.
	StripComponents int
}

// URL returns <base>/<relative-file>#L<line>:C<column> when the relative
// file, line and column are all known, and <base> alone otherwise.
func (l SourceLinker) URL(pos FilePosition) string {
	base := strings.TrimSuffix(l.BaseURL, "/")
	rel := l.RelativeFile(pos.File)
	if rel == "" || pos.Line <= 0 || pos.Column <= 0 {
		return base
	}
	return fmt.Sprintf("%s/%s#L%d:C%d", base, rel, pos.Line, pos.Column)
}

// RelativeFile maps an absolute position file to a repository-relative path.
func (l SourceLinker) RelativeFile(file string) string {
	if l.RootPrefix != "" {
		prefix := strings.TrimSuffix(l.RootPrefix, "/") + "/"
		if rest, ok := strings.CutPrefix(file, prefix); ok {
			return rest
		}
	}

	var parts []string
	for _, p := range strings.Split(file, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) <= l.StripComponents {
		return ""
	}
	return strings.Join(parts[l.StripComponents:], "/")
}
