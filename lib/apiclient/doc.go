// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package apiclient sends requests to the qBiq HTTP servers and turns
// their responses into [result.Result] values.
//
// A request is described by a [Call]: an [Endpoint] (path and method),
// an optional session, and a [Payload], usually [RequestParameters]
// wrapping a struct. [Client.Prepare] renders it. GET endpoints get the
// payload flattened by lib/form into the query string; POST endpoints
// get it as a JSON body. Preparation is where encoding failures
// surface, before any network activity.
//
// [Client.Send] runs the request through the [Transport] and hands the
// outcome to [Respond], which classifies it:
//
//   - connectivity failures: *TransportError (from HTTPTransport)
//   - a non-success status with the servers' structured error body:
//     *APIError{Status, Description}
//   - a non-success status with any other body: *ServerError
//   - a success status with no body: ErrNoData
//
// [Client.Dispatch] and [Go] are the asynchronous forms: the request
// runs on its own goroutine and the Result is passed to a callback
// exactly once. [Fetch] and [Await] are for callers that would rather
// block.
//
// Nothing is retried, cached or deduplicated. Every failure reaches the
// caller once, in the Result.
package apiclient
