// Package cms is the read-only client for the headless CMS HTTP API.
//
// Collections are exposed as JSON REST endpoints wrapped in a
// {data, meta.pagination} envelope. Field names follow the CMS schema
// (Finnish content domain: nimi, kuvake, linkki, ...) and are part of the
// contract with the CMS; they are not negotiable here.
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/veeti-k/sivupaja/internal/apperr"
)

// Client calls the CMS API. No request timeout is set: the pipeline runs
// at build time only, and a hung build is preferable to a silently
// truncated one.
type Client struct {
	baseURL string
	siteURL string
	http    *http.Client
}

// New creates a Client for the CMS at baseURL. siteURL is the public base
// prepended to site-absolute asset URLs; it may be empty.
func New(baseURL, siteURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		siteURL: siteURL,
		http:    &http.Client{},
	}
}

// SiteURL returns the configured public site base.
func (c *Client) SiteURL() string {
	return c.siteURL
}

// FileURL resolves an upload path from a media reference against the CMS
// base (the CMS returns upload URLs as /uploads/... paths).
func (c *Client) FileURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + path
}

// Response is the collection envelope returned by every CMS endpoint.
type Response[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// Meta carries the pagination block of a collection response.
type Meta struct {
	Pagination Pagination `json:"pagination"`
}

// Pagination describes the page window of a collection response.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// Get fetches a collection endpoint (path plus query, e.g.
// "/api/tukijat?populate=kuvake") and decodes the envelope.
func Get[T any](ctx context.Context, c *Client, endpoint string) (Response[T], error) {
	var out Response[T]

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return out, fmt.Errorf("cms: build request: %w", err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return out, fmt.Errorf("cms: get %s: %w", endpoint, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return out, fmt.Errorf("cms: get %s: status %d: %w", endpoint, res.StatusCode, apperr.ErrBadStatus)
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("cms: decode %s: %w", endpoint, err)
	}
	return out, nil
}

// Download issues a plain GET for a media file and returns the open body.
// The caller owns the body and must close it.
func (c *Client) Download(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("cms: build request: %w", err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cms: download %s: %w", url, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		res.Body.Close()
		return nil, fmt.Errorf("cms: download %s: status %d: %w", url, res.StatusCode, apperr.ErrBadStatus)
	}
	return res, nil
}
