package docs

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Parse decodes the corpus JSON (a top-level array of docs) and builds a Corpus.
// Entries without a path can never be addressed and are dropped.
func Parse(data []byte) (*Corpus, error) {
	var raw []Doc
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling corpus JSON: %w", err)
	}

	docs := make([]Doc, 0, len(raw))
	skipped := 0
	for _, d := range raw {
		if len(d.Meta.Path) == 0 {
			skipped++
			continue
		}
		docs = append(docs, d)
	}
	if skipped > 0 {
		slog.Debug("skipped entries without path", "count", skipped)
	}

	return NewCorpus(docs), nil
}
