// Package resource loads page markup from files or the network and turns it
// into a live session: a laid-out page, its drop manager and its scripts.
package resource

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher reads local files and fetches http(s) URLs, resolving
// relative URIs against a base.
type DefaultFetcher struct {
	baseURL string
	client  *http.Client
}

// NewFetcher creates a DefaultFetcher. Relative URIs passed to Fetch are
// resolved against baseURL, which may be a URL or a directory.
func NewFetcher(baseURL string) *DefaultFetcher {
	return &DefaultFetcher{baseURL: baseURL, client: httpClient}
}

// SetClient replaces the HTTP client.
func (f *DefaultFetcher) SetClient(c *http.Client) {
	if c != nil {
		f.client = c
	}
}

func (f *DefaultFetcher) Fetch(uri string) ([]byte, string, error) {
	resolved := f.resolve(uri)
	if IsNetworkURL(resolved) {
		return fetchURL(f.client, resolved)
	}
	path := strings.TrimPrefix(resolved, "file://")
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return body, contentTypeFor(path), nil
}

func (f *DefaultFetcher) resolve(uri string) string {
	switch {
	case f.baseURL == "", IsNetworkURL(uri), strings.HasPrefix(uri, "file://"), filepath.IsAbs(uri):
		return uri
	case IsNetworkURL(f.baseURL):
		return ResolveURL(f.baseURL, uri)
	default:
		return filepath.Join(strings.TrimPrefix(f.baseURL, "file://"), uri)
	}
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return "text/html"
	case ".js":
		return "text/javascript"
	}
	return "text/plain"
}

// FetchMarkup fetches uri and returns it as text. Non-text responses are
// rejected.
func (f *DefaultFetcher) FetchMarkup(uri string) (string, error) {
	body, contentType, err := f.Fetch(uri)
	if err != nil {
		return "", err
	}
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "html") {
		return "", fmt.Errorf("unexpected content type for markup: %s", contentType)
	}
	return string(body), nil
}

// Load reads a page from a file path, file:// URI or http(s) URL.
func Load(uri string) (string, error) {
	return NewFetcher("").FetchMarkup(uri)
}
