package docs

import "errors"

// ErrNotFound is returned by API surfaces when a path has no entry. Page
// rendering never returns it; a miss there is an empty-state page.
var ErrNotFound = errors.New("no documentation entry for path")

// Corpus is the immutable set of entries loaded at build time.
type Corpus struct {
	docs  []Doc
	index map[string]int
}

// NewCorpus indexes docs by joined path. On duplicate paths the first entry
// wins, matching a linear first-match scan.
func NewCorpus(docs []Doc) *Corpus {
	c := &Corpus{docs: docs, index: make(map[string]int, len(docs))}
	for i := range docs {
		key := docs[i].Key()
		if _, ok := c.index[key]; !ok {
			c.index[key] = i
		}
	}
	return c
}

// Find returns the entry whose joined path equals the joined request path.
// There is no case folding or partial matching.
func (c *Corpus) Find(path []string) (*Doc, bool) {
	return c.FindKey(JoinPath(path))
}

// FindKey looks up an already joined "a.b.c" key.
func (c *Corpus) FindKey(key string) (*Doc, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.index[key]
	if !ok {
		return nil, false
	}
	return &c.docs[i], true
}

// StaticParams enumerates the path of every entry in corpus order. These are
// the pages a static build generates.
func (c *Corpus) StaticParams() [][]string {
	params := make([][]string, 0, len(c.docs))
	for i := range c.docs {
		path := make([]string, len(c.docs[i].Meta.Path))
		copy(path, c.docs[i].Meta.Path)
		params = append(params, path)
	}
	return params
}

// Docs returns all entries in corpus order.
func (c *Corpus) Docs() []Doc {
	return c.docs
}

func (c *Corpus) Len() int {
	return len(c.docs)
}
