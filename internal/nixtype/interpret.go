// Package nixtype derives coarse type tags from Nix doc-comment signatures.
//
// Signatures follow the informal notation used in nixpkgs doc comments:
//
//	concatMapStrings :: (a -> String) -> [a] -> String
//
// Every top-level argument and the result are reduced to a single tag so
// pages can carry from:<tag> / to:<tag> search filters.
package nixtype

import "strings"

// Type tags.
const (
	Any        = "any"
	AttrSet    = "attrset"
	Bool       = "bool"
	Derivation = "derivation"
	Float      = "float"
	Function   = "function"
	Int        = "int"
	List       = "list"
	Null       = "null"
	Number     = "number"
	Path       = "path"
	String     = "string"
)

// Signature is the derived (argument tags, return tags) pair.
type Signature struct {
	Args    []string `json:"args"`
	Returns []string `json:"returns"`
}

var keywordTags = map[string]string{
	"any":          Any,
	"attrs":        AttrSet,
	"attrset":      AttrSet,
	"attrsof":      AttrSet,
	"attributeset": AttrSet,
	"set":          AttrSet,
	"bool":         Bool,
	"boolean":      Bool,
	"derivation":   Derivation,
	"drv":          Derivation,
	"package":      Derivation,
	"float":        Float,
	"function":     Function,
	"lambda":       Function,
	"int":          Int,
	"integer":      Int,
	"list":         List,
	"listof":       List,
	"null":         Null,
	"number":       Number,
	"path":         Path,
	"string":       String,
	"str":          String,
}

// Interpret reduces the signature of the entry called name to type tags.
// An empty signature is treated as unknown: one "any" argument returning "any".
func Interpret(name, sig string) Signature {
	s := pickLine(name, sig)
	if i := topLevelIndex(s, "::"); i >= 0 {
		s = strings.TrimSpace(s[i+2:])
	}
	if s == "" {
		return Signature{Args: []string{Any}, Returns: []string{Any}}
	}

	parts := splitTopLevel(s, "->")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tags = append(tags, Classify(p))
	}
	return Signature{
		Args:    tags[:len(tags)-1],
		Returns: tags[len(tags)-1:],
	}
}

// pickLine chooses the declaration of name from a multi-line signature,
// falling back to the first declaration. A declaration starts on a line
// containing "::" and runs until the next one, so wrapped types are joined.
func pickLine(name, sig string) string {
	var decls []string
	for _, l := range strings.Split(sig, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if topLevelIndex(l, "::") >= 0 || len(decls) == 0 {
			decls = append(decls, l)
			continue
		}
		decls[len(decls)-1] += " " + l
	}
	if len(decls) == 0 {
		return ""
	}
	if name != "" {
		for _, d := range decls {
			if rest, ok := strings.CutPrefix(d, name); ok && strings.HasPrefix(strings.TrimSpace(rest), "::") {
				return d
			}
		}
	}
	return decls[0]
}

// Classify maps a single type expression to its tag.
func Classify(expr string) string {
	t := strings.TrimSpace(expr)
	for isWrapped(t, '(', ')') {
		t = strings.TrimSpace(t[1 : len(t)-1])
	}
	if t == "" {
		return Any
	}
	if topLevelIndex(t, "->") >= 0 {
		return Function
	}
	if topLevelIndex(t, "|") >= 0 {
		return Any
	}
	switch t[0] {
	case '[':
		return List
	case '{':
		return AttrSet
	case '"':
		return String
	}

	word := t
	if i := strings.IndexAny(word, " \t<("); i >= 0 {
		word = word[:i]
	}
	if tag, ok := keywordTags[strings.ToLower(word)]; ok {
		return tag
	}
	return Any
}

// isWrapped reports whether open..close encloses the whole of s.
func isWrapped(s string, open, close byte) bool {
	if len(s) < 2 || s[0] != open || s[len(s)-1] != close {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return true
}

// topLevelIndex finds sep outside any brackets, or -1.
func topLevelIndex(s, sep string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 && strings.HasPrefix(s[i:], sep) {
				return i
			}
		}
	}
	return -1
}

// splitTopLevel splits s on sep outside brackets. It always returns at least
// one element.
func splitTopLevel(s, sep string) []string {
	var parts []string
	for {
		i := topLevelIndex(s, sep)
		if i < 0 {
			parts = append(parts, strings.TrimSpace(s))
			return parts
		}
		parts = append(parts, strings.TrimSpace(s[:i]))
		s = s[i+len(sep):]
	}
}
