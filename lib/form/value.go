// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package form

import (
	"math"
	"strconv"
)

// ValueWriter receives the single primitive written by a
// [ValueMarshaler]. Writing more than once is an error: a wrapper type
// stands for exactly one parameter value.
type ValueWriter struct {
	field   string
	value   string
	written bool
	err     error
}

func (w *ValueWriter) set(value string) {
	if w.err != nil {
		return
	}
	if w.written {
		w.err = &EncodingError{Field: w.field, Reason: "single value written more than once"}
		return
	}
	w.value = value
	w.written = true
}

// String writes a string value.
func (w *ValueWriter) String(value string) { w.set(value) }

// Bool writes "true" or "false".
func (w *ValueWriter) Bool(value bool) { w.set(strconv.FormatBool(value)) }

// Int writes a signed integer in base 10.
func (w *ValueWriter) Int(value int64) { w.set(strconv.FormatInt(value, 10)) }

// Uint writes an unsigned integer in base 10.
func (w *ValueWriter) Uint(value uint64) { w.set(strconv.FormatUint(value, 10)) }

// Float writes a float64 using the shortest round-trip form.
func (w *ValueWriter) Float(value float64) { w.set(formatFloat(value, 64)) }

// Null writes an explicit null, encoded as an empty value.
func (w *ValueWriter) Null() { w.set("") }

// formatFloat renders value with the fewest digits that parse back to
// the same float of the given bit size. Plain decimal notation is used
// unless the magnitude is extreme, matching encoding/json.
func formatFloat(value float64, bits int) string {
	abs := math.Abs(value)
	format := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) || bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	return strconv.FormatFloat(value, format, -1, bits)
}
