// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework behind the qbiq CLI.
//
// A [Command] is a named node with either nested Subcommands or a Run
// function. [Command.Execute] routes the first positional argument to
// a subcommand, parses flags built by [FlagsFromParams] from a tagged
// params struct, and prints help. Unknown commands and flags get a
// "did you mean" suggestion based on edit distance.
//
// Commands that support --json embed [JSONOutput]. JSON written to a
// terminal is syntax highlighted.
package cli
