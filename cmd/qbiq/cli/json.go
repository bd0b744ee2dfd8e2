// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"reflect"

	"github.com/alecthomas/chroma/v2/quick"
	"golang.org/x/term"
)

// JSONOutput adds a --json flag to a params struct:
//
//	type listParams struct {
//	    cli.JSONOutput
//	}
//
//	if done, err := params.EmitJSON(stdout, devices); done {
//	    return err
//	}
type JSONOutput struct {
	OutputJSON bool `flag:"json" desc:"output as JSON"`
}

// EmitJSON writes value to w when --json is set and reports whether it
// did. A nil slice is written as [].
func (j *JSONOutput) EmitJSON(w io.Writer, value any) (bool, error) {
	if !j.OutputJSON {
		return false, nil
	}
	return true, WriteJSON(w, normalizeNilSlice(value))
}

// WriteJSON writes value as indented JSON. Output to a terminal is
// highlighted unless NO_COLOR is set.
func WriteJSON(w io.Writer, value any) error {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return err
	}
	return WriteJSONBytes(w, buffer.Bytes())
}

// WriteJSONBytes writes already-encoded JSON. Valid JSON is reindented.
func WriteJSONBytes(w io.Writer, data []byte) error {
	var indented bytes.Buffer
	if json.Indent(&indented, data, "", "  ") == nil {
		if !bytes.HasSuffix(indented.Bytes(), []byte("\n")) {
			indented.WriteByte('\n')
		}
		data = indented.Bytes()
	}
	if colorize(w) {
		return quick.Highlight(w, string(data), "json", "terminal256", "monokai")
	}
	_, err := w.Write(data)
	return err
}

func colorize(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func normalizeNilSlice(value any) any {
	reflected := reflect.ValueOf(value)
	if reflected.Kind() == reflect.Slice && reflected.IsNil() {
		return reflect.MakeSlice(reflected.Type(), 0, 0).Interface()
	}
	return value
}
