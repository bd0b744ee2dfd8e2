// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package session holds the authenticated-user state for qBiq API calls.
//
// A [Session] is an ordinary value. Login, password-reset completion and
// OAuth upgrade return one; every authenticated call takes one as an
// argument. Nothing in this module keeps a process-wide "current user":
// a program that wants the session to outlive the process persists it
// with a [Store] and passes the loaded value on.
//
// Tokens are never logged. Use [Session.Fingerprint] when a log line
// needs to correlate requests made with the same token.
package session
