// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// AcceptEncoding is the Accept-Encoding header value sent by clients
// that read bodies with [ReadEncodedResponse].
const AcceptEncoding = "zstd, gzip"

// ReadEncodedResponse reads a response body compressed with the given
// Content-Encoding ("", "identity", "gzip" or "zstd"). The decompressed
// output is bounded at MaxResponseSize. An unknown encoding is an error
// rather than a silent pass-through of compressed bytes.
func ReadEncodedResponse(body io.Reader, contentEncoding string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(contentEncoding)) {
	case "", "identity":
		return ReadResponse(body)

	case "gzip":
		reader, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("gzip body: %w", err)
		}
		defer reader.Close()
		data, err := ReadResponse(reader)
		if err != nil {
			return nil, fmt.Errorf("gzip body: %w", err)
		}
		return data, nil

	case "zstd":
		// One decoder per body; a single goroutine is plenty for API
		// payloads and avoids the default GOMAXPROCS worker pool.
		decoder, err := zstd.NewReader(body,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(uint64(MaxResponseSize)),
		)
		if err != nil {
			return nil, fmt.Errorf("zstd body: %w", err)
		}
		defer decoder.Close()
		data, err := ReadResponse(decoder)
		if err != nil {
			return nil, fmt.Errorf("zstd body: %w", err)
		}
		return data, nil

	default:
		return nil, fmt.Errorf("unsupported content encoding %q", contentEncoding)
	}
}
