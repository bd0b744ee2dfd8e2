// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package result provides [Result], the value-or-error container handed
// to API callbacks.
//
// A Result is built once, by whichever layer first observes the outcome
// of a request (transport, response decoding, or business logic), and
// is immutable afterwards. The caller decides when to look at it:
//
//	client.Dispatch(ctx, call, func(response result.Result[[]byte]) {
//	    body, err := response.Resolve()
//	    ...
//	})
//
// Resolve performs no I/O. All work finished before the Result was
// constructed, so resolving is synchronous, may be repeated, and always
// yields the same terminal state.
package result
