package docs

import (
	"net/url"
	"regexp"
	"strings"
)

// manualAnchorPrefix is the anchor scheme the nixpkgs manual uses for
// library functions, e.g. #function-library-lib.strings.concat.
const manualAnchorPrefix = "function-library-"

// manualURLRe matches nixpkgs/nix manual URLs in Markdown text.
// Captures everything up to whitespace or Markdown link delimiters.
var manualURLRe = regexp.MustCompile(`https?://nixos\.org/manual/[^\s)\]>]+`)

// ResolveManualLinks maps manual anchors and manual URLs found in docs to
// page URLs of entries that exist in the corpus. Unknown targets are left
// out so they keep pointing at the manual.
func (c *Corpus) ResolveManualLinks(docs string) map[string]string {
	resolved := make(map[string]string)

	for _, raw := range manualURLRe.FindAllString(docs, -1) {
		// Bare URLs are autolinked without trailing sentence punctuation.
		raw = strings.TrimRight(raw, ".,;:")
		if href := c.manualURLToHref(raw); href != "" {
			resolved[raw] = href
		}
	}

	for _, anchor := range anchorsIn(docs) {
		if href := c.anchorToHref(anchor); href != "" {
			resolved["#"+anchor] = href
		}
	}

	if len(resolved) == 0 {
		return nil
	}
	return resolved
}

// anchorRe finds in-page manual anchors used as link destinations.
var anchorRe = regexp.MustCompile(`\(#(` + manualAnchorPrefix + `[^\s)]+)\)|\]:\s*#(` + manualAnchorPrefix + `\S+)`)

func anchorsIn(docs string) []string {
	var anchors []string
	for _, m := range anchorRe.FindAllStringSubmatch(docs, -1) {
		if m[1] != "" {
			anchors = append(anchors, m[1])
		} else if m[2] != "" {
			anchors = append(anchors, m[2])
		}
	}
	return anchors
}

// manualURLToHref converts a manual URL with a function-library fragment.
// Returns "" when the URL has no such fragment or names an unknown entry.
func (c *Corpus) manualURLToHref(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return c.anchorToHref(u.Fragment)
}

func (c *Corpus) anchorToHref(anchor string) string {
	key, ok := strings.CutPrefix(anchor, manualAnchorPrefix)
	if !ok || key == "" {
		return ""
	}
	// builtins are anchored as function-library-builtins.add as well.
	d, found := c.FindKey(key)
	if !found {
		return ""
	}
	return Href(d.Meta.Path)
}
