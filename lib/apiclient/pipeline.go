// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"encoding/json"

	"github.com/ubiqweus/qbiq-client/lib/result"
)

// Respond turns the outcome of a transport call into a Result. The
// checks run in a fixed order:
//
//  1. a transport error is returned unchanged
//  2. no response at all is ErrNoResponse
//  3. a non-2xx status with a {"status","description"} body is *APIError
//  4. any other non-2xx status is *ServerError
//  5. a 2xx status without a body, 204 included, is ErrNoData
//  6. otherwise the body is the value
func Respond(response *Response, transportErr error) result.Result[[]byte] {
	if transportErr != nil {
		return result.Fail[[]byte](transportErr)
	}
	if response == nil {
		return result.Fail[[]byte](ErrNoResponse)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return result.Fail[[]byte](parseErrorBody(response.StatusCode, response.Body))
	}
	if response.Body == nil {
		return result.Fail[[]byte](ErrNoData)
	}
	return result.Ok(response.Body)
}

// parseErrorBody builds the error for a non-success response. Both keys
// must be present for the body to count as a structured error; a body
// like {"error":"..."} from an intermediary stays a ServerError.
func parseErrorBody(statusCode int, body []byte) error {
	var wire struct {
		Status      *int    `json:"status"`
		Description *string `json:"description"`
	}
	if len(body) > 0 && json.Unmarshal(body, &wire) == nil && wire.Status != nil && wire.Description != nil {
		return &APIError{Status: *wire.Status, Description: *wire.Description}
	}
	return &ServerError{StatusCode: statusCode, Body: body}
}

// Decode applies decode to a successful body. Failures already in r
// pass through untouched, and a decode failure is returned as-is.
func Decode[T any](r result.Result[[]byte], decode func([]byte) (T, error)) result.Result[T] {
	return result.Then(r, decode)
}

// DecodeJSON decodes a successful body as JSON into T.
func DecodeJSON[T any](r result.Result[[]byte]) result.Result[T] {
	return Decode(r, unmarshalJSON[T])
}

func unmarshalJSON[T any](data []byte) (T, error) {
	var value T
	err := json.Unmarshal(data, &value)
	return value, err
}
