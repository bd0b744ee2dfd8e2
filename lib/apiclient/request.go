// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ubiqweus/qbiq-client/lib/form"
	"github.com/ubiqweus/qbiq-client/lib/session"
)

// Endpoint is one API route: a path relative to the client's base URL
// and the HTTP method the server expects.
type Endpoint struct {
	Path   string
	Method string
}

// Get returns a GET endpoint.
func Get(path string) Endpoint {
	return Endpoint{Path: path, Method: http.MethodGet}
}

// Post returns a POST endpoint.
func Post(path string) Endpoint {
	return Endpoint{Path: path, Method: http.MethodPost}
}

// Payload renders a request's parameters in whichever form the endpoint
// needs. [RequestParameters] is the implementation.
type Payload interface {
	FormURLEncoded() (string, error)
	JSONEncoded() ([]byte, error)
	Complete(endpointURL string) string
}

// RequestParameters is a request body plus optional trailing path
// segments. GET endpoints send Body form-encoded in the query; POST
// endpoints send it as JSON.
type RequestParameters[T any] struct {
	Body  T
	Paths []string

	raw    string
	hasRaw bool
}

// NewParameters returns parameters carrying body and path segments.
func NewParameters[T any](body T, paths ...string) RequestParameters[T] {
	return RequestParameters[T]{Body: body, Paths: paths}
}

// RawParameters returns parameters whose JSON rendering is raw,
// verbatim. The form rendering is empty.
func RawParameters(raw string, paths ...string) RequestParameters[struct{}] {
	return RequestParameters[struct{}]{Paths: paths, raw: raw, hasRaw: true}
}

// NoParameters is the payload for endpoints that take none. It renders
// as an empty query and as the JSON object {}.
func NoParameters() RequestParameters[struct{}] {
	return RequestParameters[struct{}]{}
}

// FormURLEncoded flattens Body with form.Marshal and renders it.
func (p RequestParameters[T]) FormURLEncoded() (string, error) {
	params, err := form.Marshal(p.Body)
	if err != nil {
		return "", err
	}
	return params.Encode()
}

// JSONEncoded returns the raw payload if one was supplied, else Body
// marshaled as JSON.
func (p RequestParameters[T]) JSONEncoded() ([]byte, error) {
	if p.hasRaw {
		return []byte(p.raw), nil
	}
	data, err := json.Marshal(p.Body)
	if err != nil {
		return nil, fmt.Errorf("api: encoding JSON body: %w", err)
	}
	return data, nil
}

// Complete appends the path segments to endpointURL, each one
// percent-encoded so that a segment can never introduce a "/", "?"
// or "#" of its own.
func (p RequestParameters[T]) Complete(endpointURL string) string {
	if len(p.Paths) == 0 {
		return endpointURL
	}
	var builder strings.Builder
	builder.WriteString(strings.TrimRight(endpointURL, "/"))
	for _, segment := range p.Paths {
		builder.WriteByte('/')
		builder.WriteString(form.Escape(segment))
	}
	return builder.String()
}

// Call is everything needed to prepare one request.
type Call struct {
	Endpoint Endpoint

	// Session authorizes the request with a bearer token. Nil sends no
	// Authorization header.
	Session *session.Session

	// Params is the request payload. Nil is the same as NoParameters.
	Params Payload
}
