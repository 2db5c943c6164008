package rpc

import "github.com/jcdickinson/noogle/internal/nixtype"

// DocResponse is the response body for GET /api/doc.
type DocResponse struct {
	Path      []string          `json:"path"`
	Title     string            `json:"title"`
	Aliases   []string          `json:"aliases,omitempty"`
	Signature nixtype.Signature `json:"signature"`
	Primop    bool              `json:"primop"`
	// Markdown is the assembled content with front matter removed.
	Markdown string `json:"markdown"`
	EditURL  string `json:"edit_url,omitempty"`
	RawURL   string `json:"raw_url,omitempty"`
	URL      string `json:"url"`
}

// SearchRequest holds the query parameters of GET /api/search.
type SearchRequest struct {
	Query string `json:"query,omitempty"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// SearchResponse is the response body for GET /api/search.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

type SearchResult struct {
	Path    string   `json:"path"`
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	From    []string `json:"from"`
	To      []string `json:"to"`
	Snippet string   `json:"snippet,omitempty"`
}

// StatusResponse is the response body for GET /api/status.
type StatusResponse struct {
	Entries  int    `json:"entries"`
	Source   string `json:"source"`
	LoadedAt string `json:"loaded_at"`
}
