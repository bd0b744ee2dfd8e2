// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// sampleState mirrors the shape of persisted client state: json tags,
// a TextMarshaler ID, a timestamp and free-form metadata.
type sampleState struct {
	ID      uuid.UUID      `json:"id"`
	Email   string         `json:"email"`
	Flags   int            `json:"flags,omitempty"`
	SavedAt time.Time      `json:"savedAt"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func newSampleState() sampleState {
	return sampleState{
		ID:      uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		Email:   "user@example.com",
		Flags:   3,
		SavedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		Meta:    map[string]any{"fullName": "Test User"},
	}
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := newSampleState()

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleState
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded.ID != original.ID {
		t.Errorf("ID: got %s, want %s", decoded.ID, original.ID)
	}
	if decoded.Email != original.Email || decoded.Flags != original.Flags {
		t.Errorf("got %+v, want %+v", decoded, original)
	}
	if !decoded.SavedAt.Equal(original.SavedAt) {
		t.Errorf("SavedAt: got %v, want %v", decoded.SavedAt, original.SavedAt)
	}
	if decoded.Meta["fullName"] != "Test User" {
		t.Errorf("Meta: got %v", decoded.Meta)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	first, err := Marshal(newSampleState())
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	second, err := Marshal(newSampleState())
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x != %x", first, second)
	}
}

func TestOmitemptyRespected(t *testing.T) {
	with := newSampleState()
	without := newSampleState()
	without.Flags = 0
	without.Meta = nil

	dataWith, err := Marshal(with)
	if err != nil {
		t.Fatal(err)
	}
	dataWithout, err := Marshal(without)
	if err != nil {
		t.Fatal(err)
	}
	if len(dataWithout) >= len(dataWith) {
		t.Errorf("omitempty not effective: without=%d bytes, with=%d bytes",
			len(dataWithout), len(dataWith))
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var state sampleState
	if err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &state); err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(newSampleState())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}

	// The UUID must appear as readable text, not a byte string.
	for _, want := range []string{`"email"`, `"user@example.com"`, `"6ba7b810-9dad-11d1-80b4-00c04fd430c8"`} {
		if !strings.Contains(notation, want) {
			t.Errorf("notation %q does not contain %s", notation, want)
		}
	}
}

func BenchmarkMarshal(b *testing.B) {
	state := newSampleState()
	b.ReportAllocs()
	for b.Loop() {
		Marshal(state)
	}
}
