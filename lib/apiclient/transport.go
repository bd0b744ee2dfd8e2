// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ubiqweus/qbiq-client/lib/netutil"
)

// DefaultTimeout bounds one request, connect to last body byte.
const DefaultTimeout = 60 * time.Second

// Request is a fully prepared API request.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte

	// path and fingerprint label the request in logs without exposing
	// the query string (login credentials travel there) or the token.
	path        string
	fingerprint string
}

// Response is a completed exchange. Body is nil when the server sent
// no body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport performs one request. Implementations must either return a
// response or an error; [Respond] treats (nil, nil) as ErrNoResponse.
type Transport interface {
	Do(ctx context.Context, request *Request) (*Response, error)
}

// TransportFunc adapts a function to [Transport].
type TransportFunc func(ctx context.Context, request *Request) (*Response, error)

// Do calls f.
func (f TransportFunc) Do(ctx context.Context, request *Request) (*Response, error) {
	return f(ctx, request)
}

// HTTPTransport is the net/http [Transport]. It requests zstd or gzip
// response compression and decodes either; bodies are bounded by
// netutil.MaxResponseSize after decompression.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps httpClient (http.DefaultClient's transport
// when nil). timeout is applied when httpClient does not set its own;
// zero means DefaultTimeout.
func NewHTTPTransport(httpClient *http.Client, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	var client http.Client
	if httpClient != nil {
		client = *httpClient
	}
	if client.Timeout == 0 {
		client.Timeout = timeout
	}
	return &HTTPTransport{client: &client}
}

// Do sends request. Connectivity failures, including a success body
// that cannot be read to the end, are returned as *TransportError. A
// non-2xx response whose body cannot be decoded is returned without a
// body.
func (transport *HTTPTransport) Do(ctx context.Context, request *Request) (*Response, error) {
	var body io.Reader
	if request.Body != nil {
		body = bytes.NewReader(request.Body)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, request.Method, request.URL, body)
	if err != nil {
		return nil, fmt.Errorf("api: creating request: %w", err)
	}
	for key, values := range request.Header {
		for _, value := range values {
			httpRequest.Header.Add(key, value)
		}
	}
	// Setting Accept-Encoding ourselves turns off net/http's transparent
	// gzip handling; ReadEncodedResponse takes over.
	httpRequest.Header.Set("Accept-Encoding", netutil.AcceptEncoding)

	httpResponse, err := transport.client.Do(httpRequest)
	if err != nil {
		return nil, newTransportError(request, err)
	}
	defer httpResponse.Body.Close()

	data, err := netutil.ReadEncodedResponse(httpResponse.Body, httpResponse.Header.Get("Content-Encoding"))
	if err != nil {
		if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
			// An unreadable error page must not hide the status.
			data = nil
		} else {
			return nil, newTransportError(request, err)
		}
	}
	if len(data) == 0 {
		data = nil
	}

	return &Response{
		StatusCode: httpResponse.StatusCode,
		Header:     httpResponse.Header,
		Body:       data,
	}, nil
}

// newTransportError builds a TransportError whose message cannot leak
// credentials: the query string is dropped, and *url.Error (which
// prints the full URL) is unwrapped to its cause.
func newTransportError(request *Request, err error) *TransportError {
	var urlError *url.Error
	if errors.As(err, &urlError) {
		err = urlError.Err
	}
	return &TransportError{
		Method: request.Method,
		URL:    stripQuery(request.URL),
		Err:    err,
	}
}

func stripQuery(rawURL string) string {
	if index := strings.IndexByte(rawURL, '?'); index >= 0 {
		return rawURL[:index]
	}
	return rawURL
}
