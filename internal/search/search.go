// Package search indexes corpus entries by their interpreted type tags and
// answers the from/to filter queries the pages advertise.
package search

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jcdickinson/noogle/internal/db"
	"github.com/jcdickinson/noogle/internal/docs"
	md "github.com/jcdickinson/noogle/internal/markdown"
	"github.com/jcdickinson/noogle/internal/nixtype"
	"github.com/jcdickinson/noogle/internal/rpc"
)

const (
	corpusHashKey = "corpus_hash"
	defaultLimit  = 20
	snippetLen    = 200
)

type Searcher struct {
	db *db.DB
}

func NewSearcher(database *db.DB) *Searcher {
	return &Searcher{db: database}
}

// Index replaces the index with the entries of corpus. data is the raw corpus
// used to skip reindexing an unchanged corpus; pass nil to always reindex.
// It returns the number of indexed entries.
func (s *Searcher) Index(corpus *docs.Corpus, data []byte) (int, error) {
	var hash string
	if data != nil {
		hash = fmt.Sprintf("%x", sha256.Sum256(data))
		if prev, err := s.db.GetMeta(corpusHashKey); err == nil && prev == hash {
			n, err := s.db.CountEntries()
			if err == nil {
				slog.Debug("index up to date", "entries", n)
				return n, nil
			}
		}
	}

	if err := s.db.Reset(); err != nil {
		return 0, err
	}

	seen := make(map[string]bool)
	n := 0
	for i := range corpus.Docs() {
		d := &corpus.Docs()[i]
		key := d.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		if err := s.db.InsertEntry(entryFor(d)); err != nil {
			return n, fmt.Errorf("indexing %s: %w", key, err)
		}
		n++
	}

	if hash != "" {
		if err := s.db.SetMeta(corpusHashKey, hash); err != nil {
			return n, fmt.Errorf("storing corpus hash: %w", err)
		}
	}
	slog.Info("indexed corpus", "entries", n)
	return n, nil
}

func entryFor(d *docs.Doc) *db.Entry {
	sig := nixtype.Of(d)
	e := &db.Entry{
		Path:      d.Key(),
		URL:       docs.Href(d.Meta.Path),
		Title:     d.Meta.Title,
		Signature: strings.TrimSpace(nixtype.SignatureOf(d)),
		IsPrimop:  d.Meta.IsPrimop,
		Snippet:   snippet(d.Body()),
		From:      sig.Args,
		To:        sig.Returns,
	}
	for _, a := range d.Meta.Aliases {
		if len(a) > 0 {
			e.Aliases = append(e.Aliases, docs.JoinPath(a))
		}
	}
	return e
}

// snippet is the first paragraph of the body, without front matter.
func snippet(body string) string {
	_, body, _ = md.SplitFrontMatter(body)
	body = strings.TrimSpace(body)
	for _, para := range strings.Split(body, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" || strings.HasPrefix(para, "#") || strings.HasPrefix(para, "```") {
			continue
		}
		return truncate(strings.Join(strings.Fields(para), " "), snippetLen)
	}
	return ""
}

// Resolve maps an entry path or alias to the path of the indexed entry.
// It reports false when neither is known.
func (s *Searcher) Resolve(key string) (string, bool, error) {
	e, err := s.db.LookupEntry(key)
	if err != nil {
		return "", false, fmt.Errorf("looking up %s: %w", key, err)
	}
	if e == nil {
		return "", false, nil
	}
	return e.Path, true, nil
}

// Search queries the index.
func (s *Searcher) Search(req rpc.SearchRequest) ([]rpc.SearchResult, error) {
	slog.Debug("search", "query", req.Query, "from", req.From, "to", req.To, "limit", req.Limit)

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	entries, err := s.db.Search(db.Query{Text: req.Query, From: req.From, To: req.To, Limit: limit})
	if err != nil {
		return nil, err
	}

	results := make([]rpc.SearchResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, rpc.SearchResult{
			Path:    e.Path,
			Title:   e.Title,
			URL:     e.URL,
			From:    e.From,
			To:      e.To,
			Snippet: e.Snippet,
		})
	}
	return results, nil
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
