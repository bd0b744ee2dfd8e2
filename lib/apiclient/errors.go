// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"
)

var (
	// ErrNoResponse is the failure for a transport that returned neither
	// a response nor an error.
	ErrNoResponse = errors.New("api: transport returned no response")

	// ErrNoData is the failure for a successful status with no body.
	ErrNoData = errors.New("api: server returned no data")
)

// APIError is the structured error body the qBiq servers send with a
// non-success status: {"status": <int>, "description": <string>}.
type APIError struct {
	Status      int    `json:"status"`
	Description string `json:"description"`
}

func (err *APIError) Error() string {
	return fmt.Sprintf("api: HTTP %d: %s", err.Status, err.Description)
}

// ServerError is a non-success response whose body is not a structured
// [APIError]: a proxy error page, an empty body, or plain text.
type ServerError struct {
	StatusCode int
	Body       []byte
}

func (err *ServerError) Error() string {
	return fmt.Sprintf("api: server returned error code %d with data: %s", err.StatusCode, err.bodyText())
}

// bodyText renders the body for display. Empty and non-UTF-8 bodies
// render as "no data".
func (err *ServerError) bodyText() string {
	if len(err.Body) == 0 || !utf8.Valid(err.Body) {
		return "no data"
	}
	return string(err.Body)
}

// TransportError wraps a failure to exchange a request with the server:
// DNS, connection refused, TLS, timeout, or a body cut off mid-read.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (err *TransportError) Error() string {
	return fmt.Sprintf("api: %s %s: %v", err.Method, err.URL, err.Err)
}

func (err *TransportError) Unwrap() error {
	return err.Err
}

// StatusCode returns the HTTP status carried by an *APIError or
// *ServerError anywhere in err's chain, or 0 if there is none.
func StatusCode(err error) int {
	var apiError *APIError
	if errors.As(err, &apiError) {
		return apiError.Status
	}
	var serverError *ServerError
	if errors.As(err, &serverError) {
		return serverError.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 response, meaning the
// session token was rejected.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsTransport reports whether err is a connectivity failure rather than
// a server response.
func IsTransport(err error) bool {
	var transportError *TransportError
	return errors.As(err, &transportError)
}
