package registry

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// HTTPFetcher abstracts HTTP calls for testability
type HTTPFetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// RealHTTPFetcher wraps http.Client for production use
type RealHTTPFetcher struct {
	client *http.Client
}

// NewRealHTTPFetcher creates a production HTTP fetcher
func NewRealHTTPFetcher(client *http.Client) HTTPFetcher {
	return &RealHTTPFetcher{client: client}
}

func (f *RealHTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	return f.client.Do(req)
}

type mockResponse struct {
	status int
	body   string
}

// MockHTTPFetcher simulates HTTP responses for testing. Responses can be
// served any number of times; Calls reports how often a URL was requested.
type MockHTTPFetcher struct {
	mu        sync.Mutex
	responses map[string]mockResponse
	errors    map[string]error
	calls     map[string]int
}

// NewMockHTTPFetcher creates a mock HTTP fetcher
func NewMockHTTPFetcher() *MockHTTPFetcher {
	return &MockHTTPFetcher{
		responses: make(map[string]mockResponse),
		errors:    make(map[string]error),
		calls:     make(map[string]int),
	}
}

// AddResponse registers a mock response for a URL
func (m *MockHTTPFetcher) AddResponse(urlStr string, statusCode int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[urlStr] = mockResponse{status: statusCode, body: body}
}

// AddError registers a mock error for a URL
func (m *MockHTTPFetcher) AddError(urlStr string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[urlStr] = err
}

// Calls returns the number of requests made for urlStr.
func (m *MockHTTPFetcher) Calls(urlStr string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[urlStr]
}

// TotalCalls returns the number of requests made for any URL.
func (m *MockHTTPFetcher) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

func (m *MockHTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	urlStr := req.URL.String()
	m.mu.Lock()
	m.calls[urlStr]++
	err, hasErr := m.errors[urlStr]
	resp, hasResp := m.responses[urlStr]
	m.mu.Unlock()

	if hasErr {
		return nil, err
	}
	if !hasResp {
		// Return 404 for unknown URLs
		resp = mockResponse{status: http.StatusNotFound, body: "Not Found"}
	}
	parsedURL, _ := url.Parse(urlStr)
	return &http.Response{
		StatusCode: resp.status,
		Body:       io.NopCloser(strings.NewReader(resp.body)),
		Header:     make(http.Header),
		Request:    &http.Request{URL: parsedURL},
	}, nil
}
