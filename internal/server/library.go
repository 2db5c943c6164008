package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jcdickinson/noogle/internal/cas"
	"github.com/jcdickinson/noogle/internal/docs"
	"github.com/jcdickinson/noogle/internal/page"
	"github.com/jcdickinson/noogle/internal/rpc"
	"github.com/jcdickinson/noogle/internal/search"
	"github.com/jcdickinson/noogle/internal/theme"
)

// ErrNoIndex is returned by Search when no search index is configured.
var ErrNoIndex = errors.New("search index not available")

// Backend answers doc and search requests. Library serves them in-process,
// Client forwards them to a running server.
type Backend interface {
	GetDoc(ctx context.Context, key string) (*rpc.DocResponse, error)
	Search(ctx context.Context, req rpc.SearchRequest) (*rpc.SearchResponse, error)
}

// Options configures how a Library renders and indexes its corpus.
type Options struct {
	Linker docs.SourceLinker
	Theme  theme.Variant
	// Cache and Searcher are optional.
	Cache    *cas.Store
	Searcher *search.Searcher
	// Source names where the corpus came from, for status output.
	Source string
}

// Library holds the current corpus. Load swaps it atomically, so requests
// in flight keep the corpus they started with.
type Library struct {
	opts Options

	mu       sync.RWMutex
	renderer *page.Renderer
	loadedAt time.Time

	// indexMu keeps searches off a half-written index.
	indexMu sync.RWMutex
}

func NewLibrary(opts Options) *Library {
	return &Library{
		opts:     opts,
		renderer: page.NewRenderer(docs.NewCorpus(nil), opts.Linker, opts.Theme, opts.Cache),
	}
}

// Load replaces the corpus and reindexes it. data is the raw corpus the
// index uses to detect an unchanged corpus; it may be nil.
func (l *Library) Load(corpus *docs.Corpus, data []byte) error {
	if l.opts.Searcher != nil {
		l.indexMu.Lock()
		_, err := l.opts.Searcher.Index(corpus, data)
		l.indexMu.Unlock()
		if err != nil {
			return fmt.Errorf("indexing corpus: %w", err)
		}
	}

	r := page.NewRenderer(corpus, l.opts.Linker, l.opts.Theme, l.opts.Cache)
	l.mu.Lock()
	l.renderer = r
	l.loadedAt = time.Now()
	l.mu.Unlock()
	return nil
}

// Renderer returns the renderer of the current corpus.
func (l *Library) Renderer() *page.Renderer {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.renderer
}

// GetDoc returns the entry at key. When no entry has that path, an alias
// known to the search index is followed to its entry.
func (l *Library) GetDoc(_ context.Context, key string) (*rpc.DocResponse, error) {
	corpus := l.Renderer().Corpus()
	d, ok := corpus.FindKey(key)
	if !ok {
		path, err := l.resolveAlias(key)
		if err != nil {
			return nil, err
		}
		if path != "" {
			d, ok = corpus.FindKey(path)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", docs.ErrNotFound, key)
		}
	}

	p := page.Build(d, l.opts.Linker)
	resp := &rpc.DocResponse{
		Path:      p.Path,
		Title:     p.Title,
		Signature: p.Signature,
		Primop:    p.Primop,
		Markdown:  p.Content,
		EditURL:   p.EditURL,
		RawURL:    p.RawURL,
		URL:       docs.Href(p.Path),
	}
	for _, a := range p.Aliases {
		resp.Aliases = append(resp.Aliases, a.Label)
	}
	return resp, nil
}

func (l *Library) resolveAlias(key string) (string, error) {
	if l.opts.Searcher == nil {
		return "", nil
	}
	l.indexMu.RLock()
	defer l.indexMu.RUnlock()
	path, _, err := l.opts.Searcher.Resolve(key)
	return path, err
}

func (l *Library) Search(_ context.Context, req rpc.SearchRequest) (*rpc.SearchResponse, error) {
	if l.opts.Searcher == nil {
		return nil, ErrNoIndex
	}
	l.indexMu.RLock()
	defer l.indexMu.RUnlock()
	results, err := l.opts.Searcher.Search(req)
	if err != nil {
		return nil, err
	}
	return &rpc.SearchResponse{Results: results}, nil
}

func (l *Library) Status() rpc.StatusResponse {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var loaded string
	if !l.loadedAt.IsZero() {
		loaded = l.loadedAt.UTC().Format(time.RFC3339)
	}
	return rpc.StatusResponse{
		Entries:  l.renderer.Corpus().Len(),
		Source:   l.opts.Source,
		LoadedAt: loaded,
	}
}
