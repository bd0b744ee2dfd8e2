// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestEmitJSON(t *testing.T) {
	var output JSONOutput
	var buffer bytes.Buffer

	done, err := output.EmitJSON(&buffer, map[string]int{"a": 1})
	if done || err != nil || buffer.Len() != 0 {
		t.Fatalf("EmitJSON without --json: done=%v err=%v output=%q", done, err, buffer.String())
	}

	output.OutputJSON = true
	var devices []string
	done, err = output.EmitJSON(&buffer, devices)
	if !done || err != nil {
		t.Fatalf("EmitJSON: done=%v err=%v", done, err)
	}
	if buffer.String() != "[]\n" {
		t.Errorf("nil slice rendered as %q", buffer.String())
	}
}

func TestWriteJSONBytes(t *testing.T) {
	var buffer bytes.Buffer
	if err := WriteJSONBytes(&buffer, []byte(`{"a":[1,2]}`)); err != nil {
		t.Fatalf("WriteJSONBytes: %v", err)
	}
	want := "{\n  \"a\": [\n    1,\n    2\n  ]\n}\n"
	if buffer.String() != want {
		t.Errorf("got %q, want %q", buffer.String(), want)
	}

	buffer.Reset()
	if err := WriteJSONBytes(&buffer, []byte("not json")); err != nil {
		t.Fatalf("WriteJSONBytes: %v", err)
	}
	if buffer.String() != "not json" {
		t.Errorf("non-JSON altered: %q", buffer.String())
	}
}

func TestExitCodes(t *testing.T) {
	if ExitCodeOf(nil) != 0 {
		t.Error("nil error should exit 0")
	}
	if ExitCodeOf(errors.New("boom")) != ExitFailure {
		t.Error("plain error should exit 1")
	}
	wrapped := fmt.Errorf("device list: %w", &ExitError{Code: 3, Silent: true})
	if ExitCodeOf(wrapped) != 3 || !IsSilent(wrapped) {
		t.Errorf("wrapped ExitError: code %d silent %v", ExitCodeOf(wrapped), IsSilent(wrapped))
	}
	if (&ExitError{Code: 4}).Error() != "exit code 4" {
		t.Error("ExitError without cause has wrong message")
	}
}

func TestReadSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "password")
	if err := os.WriteFile(path, []byte("hunter2\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got, err := ReadSecret(path, "", nil); err != nil || got != "hunter2" {
		t.Errorf("ReadSecret(file) = %q, %v", got, err)
	}

	prompted := ""
	reader := func(prompt string) (string, error) {
		prompted = prompt
		return "s3cret", nil
	}
	if got, err := ReadSecret("-", "Password: ", reader); err != nil || got != "s3cret" || prompted != "Password: " {
		t.Errorf("ReadSecret(prompt) = %q, %v (prompt %q)", got, err, prompted)
	}

	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, []byte("\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadSecret(empty, "", nil); err == nil {
		t.Error("expected error for empty password file")
	}
	if _, err := ReadSecret(filepath.Join(t.TempDir(), "missing"), "", nil); err == nil {
		t.Error("expected error for missing file")
	}
}
