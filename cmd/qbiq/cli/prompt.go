// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// PasswordReader obtains a secret from the user.
type PasswordReader func(prompt string) (string, error)

// TerminalPassword prompts on stderr and reads stdin with echo off.
func TerminalPassword(prompt string) (string, error) {
	descriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(descriptor) {
		return "", Usage("no terminal available for a password prompt (use --password-file)")
	}
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(descriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}

// ReadSecret returns the contents of path without trailing newlines,
// or prompts with read when path is "" or "-".
func ReadSecret(path, prompt string, read PasswordReader) (string, error) {
	var secret string
	if path != "" && path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		secret = strings.TrimRight(string(data), "\r\n")
	} else {
		if read == nil {
			read = TerminalPassword
		}
		var err error
		if secret, err = read(prompt); err != nil {
			return "", err
		}
	}
	if secret == "" {
		return "", errors.New("empty password")
	}
	return secret, nil
}
