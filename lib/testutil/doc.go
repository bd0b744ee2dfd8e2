// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for qbiq packages.
//
// [APIServer] is an httptest server that stands in for the qBiq auth
// and API servers. Tests register canned replies per route and inspect
// the requests the client actually sent: method, path, query, JSON
// body and Authorization header.
//
// [RequireReceive] encapsulates the timeout safety valve pattern
// (select with time.After fallback) for tests that wait on
// callback-delivered results, so that a lost callback fails the test
// instead of hanging it.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
