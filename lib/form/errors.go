// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package form

import (
	"errors"
	"fmt"
)

// EncodingError reports a field whose value cannot be reduced to a
// single form parameter. Callers can use errors.As to recover the field
// name:
//
//	var encodingErr *form.EncodingError
//	if errors.As(err, &encodingErr) {
//	    log.Printf("bad field %s", encodingErr.Field)
//	}
type EncodingError struct {
	// Field is the key of the offending field. Empty when the error
	// concerns the top-level value itself.
	Field string

	// Reason describes why the value could not be encoded.
	Reason string

	// Err is the underlying failure, if any (for example an error
	// returned by a MarshalText or MarshalFormValue method).
	Err error
}

func (e *EncodingError) Error() string {
	if e.Field == "" {
		return "form: " + e.Reason
	}
	return fmt.Sprintf("form: field %q: %s", e.Field, e.Reason)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// IsEncodingError reports whether err is, or wraps, an *EncodingError.
func IsEncodingError(err error) bool {
	var encodingErr *EncodingError
	return errors.As(err, &encodingErr)
}

// wrapFieldError attaches key to an error returned from user code. An
// *EncodingError that already names a field is returned as is so the
// innermost field name survives.
func wrapFieldError(key string, err error) error {
	var encodingErr *EncodingError
	if errors.As(err, &encodingErr) && encodingErr.Field != "" {
		return err
	}
	return &EncodingError{Field: key, Reason: err.Error(), Err: err}
}
