// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RecordedRequest is one request received by an [APIServer].
type RecordedRequest struct {
	Method        string
	Path          string
	Query         string
	Body          string
	Authorization string
	ContentType   string
}

type cannedReply struct {
	status int
	body   string
}

// APIServer is a fake qBiq server. Routes are "METHOD /path". A request
// to an unregistered route gets a 404 with the servers' structured
// error body.
type APIServer struct {
	URL string

	mutex    sync.Mutex
	replies  map[string]cannedReply
	requests []RecordedRequest
}

// NewAPIServer starts a fake server that is closed when the test ends.
func NewAPIServer(t *testing.T) *APIServer {
	t.Helper()
	fake := &APIServer{replies: make(map[string]cannedReply)}
	server := httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(server.Close)
	fake.URL = server.URL
	return fake
}

// Reply registers a 200 reply for route.
func (fake *APIServer) Reply(route, body string) {
	fake.ReplyStatus(route, http.StatusOK, body)
}

// ReplyStatus registers a reply with an explicit status for route. An
// empty body sends no body.
func (fake *APIServer) ReplyStatus(route string, status int, body string) {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	fake.replies[route] = cannedReply{status: status, body: body}
}

// Requests returns a copy of every request received so far, in order.
func (fake *APIServer) Requests() []RecordedRequest {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	return append([]RecordedRequest(nil), fake.requests...)
}

// Last returns the most recent request for route, failing the test if
// there was none.
func (fake *APIServer) Last(t *testing.T, route string) RecordedRequest {
	t.Helper()
	requests := fake.Requests()
	for i := len(requests) - 1; i >= 0; i-- {
		if requests[i].Method+" "+requests[i].Path == route {
			return requests[i]
		}
	}
	t.Fatalf("no request for %s (received %d requests)", route, len(requests))
	return RecordedRequest{}
}

// Count returns how many requests were received for route.
func (fake *APIServer) Count(route string) int {
	count := 0
	for _, request := range fake.Requests() {
		if request.Method+" "+request.Path == route {
			count++
		}
	}
	return count
}

func (fake *APIServer) serve(writer http.ResponseWriter, request *http.Request) {
	body, _ := io.ReadAll(request.Body)
	route := request.Method + " " + request.URL.Path

	fake.mutex.Lock()
	fake.requests = append(fake.requests, RecordedRequest{
		Method:        request.Method,
		Path:          request.URL.Path,
		Query:         request.URL.RawQuery,
		Body:          string(body),
		Authorization: request.Header.Get("Authorization"),
		ContentType:   request.Header.Get("Content-Type"),
	})
	reply, ok := fake.replies[route]
	fake.mutex.Unlock()

	if !ok {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(writer, `{"status":404,"description":"no route for %s"}`, route)
		return
	}
	if reply.body != "" {
		writer.Header().Set("Content-Type", "application/json")
	}
	writer.WriteHeader(reply.status)
	io.WriteString(writer, reply.body)
}
