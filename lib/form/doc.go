// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package form flattens structured request values into ordered
// application/x-www-form-urlencoded parameter lists.
//
// A request type describes itself to the encoder by implementing
// [Encoder]: EncodeForm reports each field, in declaration order, to a
// [Fields] collector. No per-type serialization code beyond that visit
// is needed, and no reflection is involved on that path:
//
//	func (request RenameRequest) EncodeForm(fields *form.Fields) error {
//	    fields.Value("deviceId", request.DeviceID)
//	    fields.Value("name", request.Name) // *string: skipped when nil
//	    return nil
//	}
//
// Plain structs that do not implement Encoder are walked by [Marshal]
// using struct tags, with the same naming rules as encoding/json: the
// `form` tag wins, then the `json` tag, then the Go field name.
//
// # Field values
//
// Primitive values (every int and uint width, float32, float64, bool,
// string) become one [Pair] keyed by the field name. Integers are
// base-10, floats use the shortest representation that round-trips,
// booleans are "true"/"false" and strings pass through unescaped.
// Escaping is deferred to [Parameters.Encode].
//
// A nil pointer is an absent optional and produces no pair at all. The
// explicit [Null] value produces a pair with an empty value.
//
// Single-value wrapper types (identifiers, enumerations) implement
// [ValueMarshaler] and write exactly one primitive; types implementing
// encoding.TextMarshaler are treated the same way. A nested record in
// value position is encoded by a fresh traversal and may contribute at
// most one primitive, which is emitted under the outer field's key.
// Records with more fields, slices, arrays and maps fail with an
// [*EncodingError] naming the field rather than producing partial output.
//
// All functions in this package are pure and safe for concurrent use.
package form
