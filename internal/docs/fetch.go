package docs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

// FetchCorpus downloads corpus JSON from url. zstd-compressed responses are
// decompressed; the returned bytes are always plain JSON.
func FetchCorpus(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "noogle/0.1.0")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if bytes.HasPrefix(data, zstdMagic) || resp.Header.Get("Content-Encoding") == "zstd" {
		data, err = decompress(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decompressing corpus: %w", err)
		}
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%s did not return valid JSON", url)
	}
	return data, nil
}
