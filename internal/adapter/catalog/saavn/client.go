// Package saavn implements the CatalogClient port against a JioSaavn API
// mirror. The mirror exposes a small JSON surface: song search, song lookup
// by id and an artist's songs.
package saavn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sargamapp/sargam/internal/domain"
	"github.com/sargamapp/sargam/internal/ports"
)

// Client talks to the catalog API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a catalog client for the given API base URL. The timeout
// bounds every request end to end.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchEnvelope is the /api/search/songs response shape.
type searchEnvelope struct {
	Status string `json:"status"`
	Data   struct {
		Total   int           `json:"total"`
		Start   int           `json:"start"`
		Results []domain.Song `json:"results"`
	} `json:"data"`
}

// songsEnvelope is the shape of /api/songs/{id} and
// /api/artists/{id}/songs responses.
type songsEnvelope struct {
	Success bool          `json:"success"`
	Data    []domain.Song `json:"data"`
}

// Search queries the catalog for songs matching the query.
func (c *Client) Search(ctx context.Context, query string, page, limit int) ([]domain.Song, error) {
	endpoint := fmt.Sprintf("%s/api/search/songs?query=%s&page=%d&limit=%d",
		c.baseURL, url.QueryEscape(query), page, limit)

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, domain.NewCatalogError("search", query, status, err)
	}

	var envelope searchEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, domain.NewCatalogError("search", query, status, fmt.Errorf("failed to decode response: %w", err))
	}

	c.logger.Debug("catalog search completed",
		slog.String("query", query),
		slog.Int("page", page),
		slog.Int("results", len(envelope.Data.Results)))

	return envelope.Data.Results, nil
}

// GetByID fetches a single song. Returns domain.ErrSongNotFound when the
// catalog has no song with that id.
func (c *Client) GetByID(ctx context.Context, id string) (*domain.Song, error) {
	endpoint := fmt.Sprintf("%s/api/songs/%s", c.baseURL, url.PathEscape(id))

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		if status == http.StatusNotFound {
			return nil, domain.ErrSongNotFound
		}
		return nil, domain.NewCatalogError("get_by_id", id, status, err)
	}

	var envelope songsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, domain.NewCatalogError("get_by_id", id, status, fmt.Errorf("failed to decode response: %w", err))
	}

	if !envelope.Success || len(envelope.Data) == 0 {
		return nil, domain.ErrSongNotFound
	}

	song := envelope.Data[0]
	return &song, nil
}

// ArtistSongs fetches a page of an artist's songs.
func (c *Client) ArtistSongs(ctx context.Context, artistID string, page, limit int) ([]domain.Song, error) {
	endpoint := fmt.Sprintf("%s/api/artists/%s/songs?page=%d&limit=%d",
		c.baseURL, url.PathEscape(artistID), page, limit)

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, domain.NewCatalogError("artist_songs", artistID, status, err)
	}

	var envelope songsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, domain.NewCatalogError("artist_songs", artistID, status, fmt.Errorf("failed to decode response: %w", err))
	}

	return envelope.Data, nil
}

// get performs a GET request and returns the body. On a non-2xx response the
// returned error carries the first part of the body for diagnostics and the
// status code is returned alongside.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := body
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return nil, resp.StatusCode, fmt.Errorf("unexpected status %s: %s", strconv.Itoa(resp.StatusCode), snippet)
	}

	return body, resp.StatusCode, nil
}

// Verify interface implementation
var _ ports.CatalogClient = (*Client)(nil)
