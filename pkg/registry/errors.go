package registry

import (
	"fmt"

	"github.com/fulmenhq/gamekit/pkg/apperr"
)

// NetworkError indicates a transport failure or non-200 status from a remote source.
type NetworkError struct {
	Source     string // e.g. "npm", "github"
	URL        string
	StatusCode int // zero when the request never completed
	Wrapped    error
}

func (e *NetworkError) Error() string {
	if e.Wrapped == nil {
		return fmt.Sprintf("network error fetching from %s (%s): status %d", e.Source, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("network error fetching from %s (%s): %v", e.Source, e.URL, e.Wrapped)
}

func (e *NetworkError) Unwrap() error {
	return e.Wrapped
}

// Is matches apperr.Network.
func (e *NetworkError) Is(target error) bool {
	return target == apperr.Network
}

// ParseError indicates a response lacking the expected shape.
type ParseError struct {
	Source  string
	Message string // what failed to parse
	Wrapped error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s response from %s: %v", e.Message, e.Source, e.Wrapped)
}

func (e *ParseError) Unwrap() error {
	return e.Wrapped
}

// Is matches apperr.Unparsable.
func (e *ParseError) Is(target error) bool {
	return target == apperr.Unparsable
}

// TooManyRedirectsError is returned by the client built by NewHTTPClient.
type TooManyRedirectsError struct {
	Max int
	URL string
}

func (e *TooManyRedirectsError) Error() string {
	return fmt.Sprintf("stopped after %d redirects at %s", e.Max, e.URL)
}
