package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fmDelim = "---"

// SplitFrontMatter separates a leading YAML front-matter block from the body.
// Content without front matter is returned unchanged with a nil map.
func SplitFrontMatter(src string) (map[string]any, string, error) {
	rest, ok := strings.CutPrefix(src, fmDelim+"\n")
	if !ok {
		return nil, src, nil
	}

	end := strings.Index(rest, "\n"+fmDelim)
	if end < 0 {
		return nil, src, nil
	}
	raw := rest[:end]
	body := rest[end+len("\n"+fmDelim):]
	// The closing delimiter must be a line on its own.
	if body != "" && body[0] != '\n' {
		return nil, src, nil
	}
	body = strings.TrimPrefix(body, "\n")

	fm := make(map[string]any)
	if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
		return nil, src, fmt.Errorf("parsing front matter: %w", err)
	}
	return fm, body, nil
}

// AddFrontMatter prepends fields as a YAML front-matter block.
func AddFrontMatter(src string, fields any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fields); err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString(fmDelim + "\n")
	b.Write(buf.Bytes())
	b.WriteString(fmDelim + "\n\n")
	b.WriteString(src)
	return b.String(), nil
}
