// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil reads HTTP response bodies for the qBiq API clients.
//
// Bodies are bounded at MaxResponseSize after decompression, so a small
// compressed body cannot expand past it. A body that would exceed the
// bound fails with ErrResponseTooLarge instead of being truncated into
// JSON that no longer parses.
package netutil

import (
	"errors"
	"io"
)

// MaxResponseSize is the bound on a response body: 256 MB. Device lists
// and observation windows are orders of magnitude smaller.
const MaxResponseSize int64 = 256 << 20

// ErrResponseTooLarge is returned for a body longer than MaxResponseSize.
var ErrResponseTooLarge = errors.New("netutil: response body exceeds size limit")

// ReadResponse reads an uncompressed body up to MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	return readBounded(body, MaxResponseSize)
}

func readBounded(body io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrResponseTooLarge
	}
	return data, nil
}
