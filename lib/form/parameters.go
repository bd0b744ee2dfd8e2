// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package form

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Pair is a single key/value parameter. For example, "a=b" is the pair
// {Key: "a", Value: "b"}.
type Pair struct {
	Key   string
	Value string
}

// Parameters is an ordered list of pairs. Insertion order is preserved
// and repeated keys are legal; nothing is deduplicated. Unlike
// url.Values, encoding a Parameters list never reorders it.
type Parameters []Pair

// Add appends a pair.
func (p *Parameters) Add(key, value string) {
	*p = append(*p, Pair{Key: key, Value: value})
}

// Get returns the value of the first pair with the given key.
func (p Parameters) Get(key string) (string, bool) {
	for _, pair := range p {
		if pair.Key == key {
			return pair.Value, true
		}
	}
	return "", false
}

// Len returns the number of pairs.
func (p Parameters) Len() int {
	return len(p)
}

// EncodeForm reports every pair unchanged, so an already-flat list can
// be used anywhere a structured request value is expected.
func (p Parameters) EncodeForm(fields *Fields) error {
	for _, pair := range p {
		fields.String(pair.Key, pair.Value)
	}
	return nil
}

// Encode renders the list as an application/x-www-form-urlencoded
// string: each key and value percent-encoded with [Escape], joined by
// "=", pairs joined by "&" in list order. A key or value that is not
// valid UTF-8 cannot be represented and fails the whole encoding.
func (p Parameters) Encode() (string, error) {
	var builder strings.Builder
	for i, pair := range p {
		if !utf8.ValidString(pair.Key) {
			return "", &EncodingError{Field: pair.Key, Reason: "key is not valid UTF-8"}
		}
		if !utf8.ValidString(pair.Value) {
			return "", &EncodingError{Field: pair.Key, Reason: "value is not valid UTF-8"}
		}
		if i > 0 {
			builder.WriteByte('&')
		}
		builder.WriteString(Escape(pair.Key))
		builder.WriteByte('=')
		builder.WriteString(Escape(pair.Value))
	}
	return builder.String(), nil
}

// Parse splits a form-encoded string back into an ordered list. It is
// the inverse of [Parameters.Encode] and also accepts "+" for space.
func Parse(query string) (Parameters, error) {
	params := Parameters{}
	if query == "" {
		return params, nil
	}
	for segment := range strings.SplitSeq(query, "&") {
		if segment == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(segment, "=")
		key, err := Unescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("form: parsing key %q: %w", rawKey, err)
		}
		value, err := Unescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("form: parsing value for %q: %w", key, err)
		}
		params.Add(key, value)
	}
	return params, nil
}

// Unescape reverses [Escape]. "+" is accepted as a space so that
// bodies produced by other form encoders parse too.
func Unescape(s string) (string, error) {
	return url.QueryUnescape(s)
}

const upperHex = "0123456789ABCDEF"

// Escape percent-encodes s for use as a query key or value. Only the
// RFC 3986 unreserved characters (ALPHA, DIGIT, "-", ".", "_", "~")
// pass through; every other byte, space included, becomes %XX.
func Escape(s string) string {
	escapeCount := 0
	for i := 0; i < len(s); i++ {
		if !isUnreserved(s[i]) {
			escapeCount++
		}
	}
	if escapeCount == 0 {
		return s
	}

	var builder strings.Builder
	builder.Grow(len(s) + 2*escapeCount)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			builder.WriteByte(c)
			continue
		}
		builder.WriteByte('%')
		builder.WriteByte(upperHex[c>>4])
		builder.WriteByte(upperHex[c&0x0F])
	}
	return builder.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}
