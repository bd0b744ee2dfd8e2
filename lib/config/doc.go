// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the qbiq
// client.
//
// Configuration is loaded from a single file named either by the
// QBIQ_CONFIG environment variable (via [Load]) or by a --config flag
// (via [LoadFile]). There is no automatic file search. A command run
// without either uses [Default], which talks to the production
// servers.
//
// The file may contain development and production sections that
// override base values when [Config].Environment matches. The
// development environment points at servers on localhost unless its
// section says otherwise.
//
// Path fields support ${HOME}, ${QBIQ_HOME} and ${VAR:-default}
// expansion. No environment variable overrides a configured value.
package config
