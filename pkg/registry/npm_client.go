package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// NPMClient reads dist-tag metadata from an npm registry.
type NPMClient struct {
	baseURL string
	fetcher HTTPFetcher
}

// NewNPMClient creates an NPMClient with real HTTP for production use. An empty
// baseURL selects the public registry.
func NewNPMClient(baseURL string) *NPMClient {
	return NewNPMClientWithFetcher(baseURL, NewRealHTTPFetcher(NewHTTPClient(30*time.Second, 5)))
}

// NewNPMClientWithFetcher creates an NPMClient with injectable HTTP for testing
func NewNPMClientWithFetcher(baseURL string, fetcher HTTPFetcher) *NPMClient {
	if baseURL == "" {
		baseURL = DefaultNPMRegistry
	}
	return &NPMClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: fetcher,
	}
}

// LatestURL returns the endpoint queried by LatestVersion.
func (c *NPMClient) LatestURL(name string) string {
	// Scoped packages keep the "@" but escape the slash.
	return fmt.Sprintf("%s/%s/latest", c.baseURL, url.PathEscape(name))
}

// LatestVersion returns the version tagged "latest" for the named package.
// Transport failures and non-200 responses yield *NetworkError; a body without
// a valid semantic version yields *ParseError.
func (c *NPMClient) LatestVersion(ctx context.Context, name string) (string, error) {
	latestURL := c.LatestURL(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, latestURL, nil)
	if err != nil {
		return "", &NetworkError{Source: "npm", URL: latestURL, Wrapped: err}
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.fetcher.Do(req)
	if err != nil {
		return "", &NetworkError{Source: "npm", URL: latestURL, Wrapped: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &NetworkError{Source: "npm", URL: latestURL, StatusCode: resp.StatusCode}
	}

	var payload struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &ParseError{Source: "npm", Message: "package version", Wrapped: err}
	}
	version := strings.TrimSpace(payload.Version)
	if version == "" {
		return "", &ParseError{Source: "npm", Message: "package version", Wrapped: errors.New("missing version field")}
	}
	if !semver.IsValid("v" + strings.TrimPrefix(version, "v")) {
		return "", &ParseError{Source: "npm", Message: "package version", Wrapped: fmt.Errorf("not a semantic version: %q", version)}
	}
	return version, nil
}
