// Package registry queries the npm registry for the latest published gamekit
// release.
package registry

import (
	"crypto/tls"
	"net/http"
	"time"
)

// DefaultNPMRegistry is the public npm registry.
const DefaultNPMRegistry = "https://registry.npmjs.org"

// UserAgent is sent with every registry and archive request.
const UserAgent = "gamekit"

// NewHTTPClient returns the secure HTTP client used for registry and template
// downloads. Redirects are capped at maxRedirects.
func NewHTTPClient(timeout time.Duration, maxRedirects int) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return &TooManyRedirectsError{Max: maxRedirects, URL: req.URL.String()}
			}
			return nil
		},
	}
}
