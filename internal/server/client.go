package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jcdickinson/noogle/internal/docs"
	"github.com/jcdickinson/noogle/internal/rpc"
)

// Client talks to a running `noogle serve`.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// IsAvailable reports whether the server answers its status endpoint.
func (c *Client) IsAvailable(ctx context.Context) bool {
	_, err := c.Status(ctx)
	return err == nil
}

func (c *Client) GetDoc(ctx context.Context, key string) (*rpc.DocResponse, error) {
	var resp rpc.DocResponse
	err := c.get(ctx, "/api/doc", url.Values{"path": {key}}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Search(ctx context.Context, req rpc.SearchRequest) (*rpc.SearchResponse, error) {
	params := url.Values{}
	if req.Query != "" {
		params.Set("q", req.Query)
	}
	if req.From != "" {
		params.Set("from", req.From)
	}
	if req.To != "" {
		params.Set("to", req.To)
	}
	if req.Limit > 0 {
		params.Set("limit", strconv.Itoa(req.Limit))
	}

	var resp rpc.SearchResponse
	if err := c.get(ctx, "/api/search", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Status(ctx context.Context) (*rpc.StatusResponse, error) {
	var resp rpc.StatusResponse
	if err := c.get(ctx, "/api/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound && path == "/api/doc" {
		return fmt.Errorf("%w: %s", docs.ErrNotFound, params.Get("path"))
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
