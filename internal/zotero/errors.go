// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zotero

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error categories. Callers match them with errors.Is; the CLI maps each to
// its own exit status.
var (
	// ErrMissingCredentials means no user ID or API key could be resolved.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrInvalidCredentials means the credentials are malformed or were
	// rejected by the API (HTTP 401/403).
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidInput means the JSON input is malformed or has the wrong shape.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means the API has no item with the requested key.
	ErrNotFound = errors.New("item not found")
)

// maxMessageLen bounds the response text carried by an APIError.
const maxMessageLen = 500

// APIError is a non-success response from the Web API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("Zotero API returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("Zotero API returned HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap exposes the error category implied by the status code.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrInvalidCredentials
	}
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	msg := string(body)
	if len(msg) > maxMessageLen {
		msg = msg[:maxMessageLen] + "..."
	}
	return &APIError{StatusCode: status, Message: strings.TrimSpace(msg)}
}
