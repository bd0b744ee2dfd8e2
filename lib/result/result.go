// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package result

// Result holds either a value of type T or the error that prevented
// producing one. The zero Result resolves to the zero T with no error.
type Result[T any] struct {
	value T
	err   error
}

// Ok returns a successful Result holding value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Fail returns a failed Result holding err. Panics if err is nil: a
// failure without an error is a programming error.
func Fail[T any](err error) Result[T] {
	if err == nil {
		panic("result.Fail: nil error")
	}
	return Result[T]{err: err}
}

// From builds a Result from a conventional (value, error) pair. A
// non-nil err wins and value is discarded.
func From[T any](value T, err error) Result[T] {
	if err != nil {
		return Result[T]{err: err}
	}
	return Result[T]{value: value}
}

// Resolve returns the held value, or the zero T and the captured error.
func (r Result[T]) Resolve() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}

// Err returns the captured error, or nil on success.
func (r Result[T]) Err() error {
	return r.err
}

// OK reports whether the Result holds a value.
func (r Result[T]) OK() bool {
	return r.err == nil
}

// Then applies next to a successful value. A failed Result passes its
// error through unchanged and next is never called.
func Then[T, U any](r Result[T], next func(T) (U, error)) Result[U] {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	return From(next(r.value))
}

// Map applies an infallible transform to a successful value.
func Map[T, U any](r Result[T], transform func(T) U) Result[U] {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	return Ok(transform(r.value))
}

// Discard drops the value, keeping only success or failure. Used for
// endpoints whose reply carries nothing the caller needs.
func Discard[T any](r Result[T]) Result[struct{}] {
	return Result[struct{}]{err: r.err}
}
