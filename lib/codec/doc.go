// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR configuration used for qbiq's local
// state files.
//
// JSON is the wire format for everything the qBiq servers see. CBOR is
// used only for state the client keeps for itself, currently the
// persisted session (see lib/session). Keeping one shared mode here
// means every state file is encoded identically.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same session always produces identical bytes, which keeps the sealed
// file stable across rewrites of unchanged state.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Types shared with the JSON API carry `json` tags only; fxamacker/cbor
// reads them as a fallback, so one tag names a field in both formats.
// Types implementing encoding.TextMarshaler (uuid.UUID) are written as
// CBOR text strings.
package codec
