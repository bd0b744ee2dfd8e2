// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ubiqweus/qbiq-client/lib/result"
)

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the server root that endpoint paths are appended to,
	// e.g. "https://api.ubiqweus.com/v1". Required; http or https.
	BaseURL string

	// Transport performs requests. Defaults to an HTTPTransport built
	// from HTTPClient and Timeout.
	Transport Transport

	// HTTPClient is used by the default transport. Defaults to a client
	// with http.DefaultTransport.
	HTTPClient *http.Client

	// Timeout bounds each request made by the default transport.
	// Defaults to DefaultTimeout.
	Timeout time.Duration

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client prepares and sends requests to one qBiq server. It holds no
// per-user state and is safe for concurrent use.
type Client struct {
	baseURL   string
	transport Transport
	logger    *slog.Logger
}

// NewClient creates a client from the given configuration.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		return nil, errors.New("api: base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("api: base URL %q must use http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("api: base URL %q has no host", baseURL)
	}
	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return nil, fmt.Errorf("api: base URL %q must not have a query or fragment", baseURL)
	}

	transport := config.Transport
	if transport == nil {
		transport = NewHTTPTransport(config.HTTPClient, config.Timeout)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:   baseURL,
		transport: transport,
		logger:    logger,
	}, nil
}

// BaseURL returns the normalized server root.
func (client *Client) BaseURL() string {
	return client.baseURL
}

// Prepare builds the request for call. GET requests carry the
// parameters form-encoded in the query string; every other method
// carries them as a JSON body. Encoding failures (including
// *form.EncodingError) are returned here, before anything is sent.
func (client *Client) Prepare(call Call) (*Request, error) {
	params := call.Params
	if params == nil {
		params = NoParameters()
	}
	method := call.Endpoint.Method
	if method == "" {
		method = http.MethodGet
	}

	endpointURL := params.Complete(client.baseURL + call.Endpoint.Path)
	header := http.Header{}
	header.Set("Accept", "application/json")

	request := &Request{
		Method:      method,
		Header:      header,
		path:        call.Endpoint.Path,
		fingerprint: call.Session.Fingerprint(),
	}

	if method == http.MethodGet {
		query, err := params.FormURLEncoded()
		if err != nil {
			return nil, err
		}
		if query != "" {
			endpointURL += "?" + query
		}
	} else {
		body, err := params.JSONEncoded()
		if err != nil {
			return nil, err
		}
		request.Body = body
		header.Set("Content-Type", "application/json")
	}

	if call.Session.Authenticated() {
		header.Set("Authorization", "Bearer "+call.Session.Token)
	}
	request.URL = endpointURL
	return request, nil
}

// Send performs a prepared request and returns its outcome. It blocks
// until the transport finishes.
func (client *Client) Send(ctx context.Context, request *Request) result.Result[[]byte] {
	start := time.Now()
	response, err := client.transport.Do(ctx, request)
	outcome := Respond(response, err)

	attributes := []any{
		"method", request.Method,
		"path", request.path,
		"duration", time.Since(start),
	}
	if response != nil {
		attributes = append(attributes, "status", response.StatusCode)
	}
	if request.fingerprint != "" {
		attributes = append(attributes, "session", request.fingerprint)
	}
	if outcome.OK() {
		client.logger.Debug("api request", attributes...)
	} else {
		client.logger.Debug("api request failed", append(attributes, "error", outcome.Err())...)
	}
	return outcome
}

// Dispatch prepares call and, if that succeeds, sends it on a new
// goroutine. callback receives the outcome exactly once. An encoding
// failure is returned directly and callback is never called.
//
// Cancelling ctx aborts the in-flight transport call; the callback still
// runs, with the transport's error.
func (client *Client) Dispatch(ctx context.Context, call Call, callback func(result.Result[[]byte])) error {
	request, err := client.Prepare(call)
	if err != nil {
		return err
	}
	go func() {
		callback(client.Send(ctx, request))
	}()
	return nil
}

// Fetch performs call synchronously and decodes a successful body as
// JSON into T. Encoding failures are returned inside the Result.
func Fetch[T any](ctx context.Context, client *Client, call Call) result.Result[T] {
	request, err := client.Prepare(call)
	if err != nil {
		return result.Fail[T](err)
	}
	return DecodeJSON[T](client.Send(ctx, request))
}

// Go is the typed form of Dispatch: the body is decoded as JSON into T
// before callback sees it.
func Go[T any](ctx context.Context, client *Client, call Call, callback func(result.Result[T])) error {
	return client.Dispatch(ctx, call, func(body result.Result[[]byte]) {
		callback(DecodeJSON[T](body))
	})
}

// Await runs a callback-style operation and blocks until its callback
// fires. A synchronous error from start is folded into the Result, so
// callers handle every failure in one place:
//
//	me, err := apiclient.Await(func(done func(result.Result[*session.Account])) error {
//	    return authClient.Me(ctx, current, done)
//	}).Resolve()
func Await[T any](start func(callback func(result.Result[T])) error) result.Result[T] {
	done := make(chan result.Result[T], 1)
	if err := start(func(outcome result.Result[T]) { done <- outcome }); err != nil {
		return result.Fail[T](err)
	}
	return <-done
}
