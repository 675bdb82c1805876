// Package emojiapi is a catalog.Source backed by https://emoji-api.com.
package emojiapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m96-chan/inkpick/internal/catalog"
)

// DefaultBaseURL is the public emoji-api.com endpoint.
const DefaultBaseURL = "https://emoji-api.com"

// maxBody caps how much of a response body is read.
const maxBody = 4 << 20

// ErrAPI is wrapped by errors reported in the API's own error payload.
var ErrAPI = errors.New("emoji-api error")

// Client lists emoji categories and their entries.
type Client struct {
	baseURL   string
	accessKey string
	http      *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a Client using the given access key.
func New(accessKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		accessKey: accessKey,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type categoryDTO struct {
	Slug string `json:"slug"`
}

type emojiDTO struct {
	Slug        string `json:"slug"`
	Character   string `json:"character"`
	UnicodeName string `json:"unicodeName"`
	CodePoint   string `json:"codePoint"`
	Group       string `json:"group"`
	SubGroup    string `json:"subGroup"`
}

type errorDTO struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ListCategories implements catalog.Source.
func (c *Client) ListCategories(ctx context.Context) ([]catalog.CategoryRef, error) {
	var cats []categoryDTO
	if err := c.get(ctx, "/categories", &cats); err != nil {
		return nil, err
	}

	refs := make([]catalog.CategoryRef, 0, len(cats))
	for _, cat := range cats {
		if cat.Slug == "" {
			continue
		}
		refs = append(refs, catalog.CategoryRef{Slug: cat.Slug})
	}
	return refs, nil
}

// ListEntries implements catalog.Source. The API answers an unknown or empty
// category with JSON null, which yields no entries.
func (c *Client) ListEntries(ctx context.Context, slug string) ([]catalog.SourceEntry, error) {
	var emojis []emojiDTO
	if err := c.get(ctx, "/categories/"+url.PathEscape(slug), &emojis); err != nil {
		return nil, err
	}

	entries := make([]catalog.SourceEntry, len(emojis))
	for i, e := range emojis {
		entries[i] = catalog.SourceEntry{Character: e.Character, Name: e.Slug}
	}
	return entries, nil
}

// get fetches path and decodes a JSON array into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	u := c.baseURL + path + "?access_key=" + url.QueryEscape(c.accessKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("GET %s: reading body: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %s", path, resp.Status)
	}

	// Errors come back as an object with 200 OK; arrays are data.
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "{") {
		var apiErr errorDTO
		if err := json.Unmarshal(body, &apiErr); err != nil {
			return fmt.Errorf("GET %s: decoding error payload: %w", path, err)
		}
		return fmt.Errorf("%w: GET %s: %s", ErrAPI, path, apiErr.Message)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("GET %s: decoding: %w", path, err)
	}
	return nil
}
