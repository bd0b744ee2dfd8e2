// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package form

import (
	"errors"
	"math"
	"testing"
	"time"
)

type deviceURN string

func (urn deviceURN) MarshalFormValue(writer *ValueWriter) error {
	writer.String(string(urn))
	return nil
}

type doubleWriter struct{}

func (doubleWriter) MarshalFormValue(writer *ValueWriter) error {
	writer.Int(1)
	writer.Int(2)
	return nil
}

type failingWriter struct{}

func (failingWriter) MarshalFormValue(*ValueWriter) error {
	return errors.New("no value available")
}

type renameRequest struct {
	DeviceID deviceURN
	Name     *string
	Limit    *int
	Shared   bool
}

func (request renameRequest) EncodeForm(fields *Fields) error {
	fields.Value("deviceId", request.DeviceID)
	fields.Value("name", request.Name)
	fields.Value("limit", request.Limit)
	fields.Bool("shared", request.Shared)
	return nil
}

type owner struct {
	Name string `json:"name"`
}

type ownerAndRole struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

func stringPointer(s string) *string { return &s }

func requireEncodingError(t *testing.T, err error, field string) {
	t.Helper()
	var encodingErr *EncodingError
	if !errors.As(err, &encodingErr) {
		t.Fatalf("expected *EncodingError, got %T: %v", err, err)
	}
	if encodingErr.Field != field {
		t.Fatalf("EncodingError.Field = %q, want %q", encodingErr.Field, field)
	}
}

func encodeString(t *testing.T, v any) string {
	t.Helper()
	params, err := Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	encoded, err := params.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return encoded
}

func TestMarshal_FieldOrder(t *testing.T) {
	request := struct {
		A int `json:"a"`
		B int `json:"b"`
	}{A: 1, B: 2}

	if got := encodeString(t, request); got != "a=1&b=2" {
		t.Errorf("got %q, want %q", got, "a=1&b=2")
	}

	reversed := struct {
		B int `json:"b"`
		A int `json:"a"`
	}{B: 2, A: 1}
	if got := encodeString(t, reversed); got != "b=2&a=1" {
		t.Errorf("got %q, want %q", got, "b=2&a=1")
	}
}

func TestMarshal_Primitives(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "int", value: -42, want: "-42"},
		{name: "int8", value: int8(-128), want: "-128"},
		{name: "int64 no grouping", value: int64(1234567890123), want: "1234567890123"},
		{name: "uint64 max", value: uint64(math.MaxUint64), want: "18446744073709551615"},
		{name: "uint8", value: uint8(255), want: "255"},
		{name: "float64 fraction", value: 0.1, want: "0.1"},
		{name: "float64 whole", value: 100.0, want: "100"},
		{name: "float64 large", value: 1e21, want: "1e+21"},
		{name: "float64 tiny", value: 1e-7, want: "1e-07"},
		{name: "float32 shortest", value: float32(0.1), want: "0.1"},
		{name: "bool true", value: true, want: "true"},
		{name: "bool false", value: false, want: "false"},
		{name: "string verbatim", value: "a b&c", want: "a b&c"},
		{name: "named int", value: time.Duration(1500), want: "1500"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var fields Fields
			fields.Value("k", test.value)
			if fields.Err() != nil {
				t.Fatalf("unexpected error: %v", fields.Err())
			}
			if len(fields.params) != 1 {
				t.Fatalf("expected 1 pair, got %d", len(fields.params))
			}
			if got := fields.params[0].Value; got != test.want {
				t.Errorf("got %q, want %q", got, test.want)
			}
		})
	}
}

func TestMarshal_OptionalAndNull(t *testing.T) {
	t.Run("absent optional is omitted", func(t *testing.T) {
		params, err := Marshal(renameRequest{DeviceID: "urn:a"})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if _, ok := params.Get("name"); ok {
			t.Error("absent optional produced a pair")
		}
		if _, ok := params.Get("limit"); ok {
			t.Error("absent optional produced a pair")
		}
		if params.Len() != 2 {
			t.Fatalf("expected 2 pairs, got %d: %v", params.Len(), params)
		}
	})

	t.Run("present optional is dereferenced", func(t *testing.T) {
		limit := 7
		got := encodeString(t, renameRequest{DeviceID: "urn:a", Name: stringPointer("kitchen"), Limit: &limit, Shared: true})
		want := "deviceId=urn%3Aa&name=kitchen&limit=7&shared=true"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("explicit null is an empty value", func(t *testing.T) {
		var fields Fields
		fields.Value("a", Null)
		fields.Null("b")
		fields.Value("c", (*string)(nil))
		if len(fields.params) != 2 {
			t.Fatalf("expected 2 pairs, got %v", fields.params)
		}
		for _, pair := range fields.params {
			if pair.Value != "" {
				t.Errorf("pair %q: value %q, want empty", pair.Key, pair.Value)
			}
		}
	})
}

func TestMarshal_SingleValueWrappers(t *testing.T) {
	t.Run("value marshaler uses outer key", func(t *testing.T) {
		request := struct {
			Device deviceURN `json:"deviceId"`
		}{Device: "urn:qbiq:1"}
		if got := encodeString(t, request); got != "deviceId=urn%3Aqbiq%3A1" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("text marshaler", func(t *testing.T) {
		request := struct {
			At time.Time `json:"at"`
		}{At: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
		params, err := Marshal(request)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if value, _ := params.Get("at"); value != "2024-01-02T03:04:05Z" {
			t.Errorf("got %q", value)
		}
	})

	t.Run("pointer to wrapper", func(t *testing.T) {
		urn := deviceURN("urn:b")
		var fields Fields
		fields.Value("device", &urn)
		fields.Value("missing", (*deviceURN)(nil))
		if len(fields.params) != 1 || fields.params[0].Value != "urn:b" {
			t.Errorf("got %v", fields.params)
		}
	})

	t.Run("writing twice fails", func(t *testing.T) {
		var fields Fields
		fields.Value("twice", doubleWriter{})
		requireEncodingError(t, fields.Err(), "twice")
	})

	t.Run("marshaler error names field", func(t *testing.T) {
		var fields Fields
		fields.Value("broken", failingWriter{})
		requireEncodingError(t, fields.Err(), "broken")
	})
}

func TestMarshal_NestedRecords(t *testing.T) {
	t.Run("single field record collapses to outer key", func(t *testing.T) {
		request := struct {
			Owner owner `json:"owner"`
		}{Owner: owner{Name: "alice"}}
		if got := encodeString(t, request); got != "owner=alice" {
			t.Errorf("got %q, want %q", got, "owner=alice")
		}
	})

	t.Run("multi field record fails loudly", func(t *testing.T) {
		request := struct {
			ID    int          `json:"id"`
			Owner ownerAndRole `json:"owner"`
		}{ID: 1, Owner: ownerAndRole{Name: "alice", Role: "admin"}}
		params, err := Marshal(request)
		requireEncodingError(t, err, "owner")
		if params != nil {
			t.Errorf("expected no partial output, got %v", params)
		}
	})

	t.Run("nested encoder with one field", func(t *testing.T) {
		var fields Fields
		fields.Value("inner", Parameters{{Key: "ignored", Value: "v"}})
		if len(fields.params) != 1 || fields.params[0] != (Pair{Key: "inner", Value: "v"}) {
			t.Errorf("got %v", fields.params)
		}
	})

	t.Run("empty nested record is omitted", func(t *testing.T) {
		request := struct {
			Owner struct {
				Name *string `json:"name"`
			} `json:"owner"`
			Next int `json:"next"`
		}{Next: 3}
		if got := encodeString(t, request); got != "next=3" {
			t.Errorf("got %q", got)
		}
	})
}

func TestMarshal_UnsupportedShapes(t *testing.T) {
	tests := []struct {
		name  string
		value any
		field string
	}{
		{
			name: "string slice",
			value: struct {
				ID   int      `json:"id"`
				Tags []string `json:"tags"`
			}{ID: 1, Tags: []string{"a"}},
			field: "tags",
		},
		{
			name: "array",
			value: struct {
				Point [2]float64 `json:"point"`
			}{},
			field: "point",
		},
		{
			name: "map",
			value: struct {
				Meta map[string]string `json:"meta"`
			}{Meta: map[string]string{"a": "b"}},
			field: "meta",
		},
		{
			name: "channel",
			value: struct {
				Events chan int `json:"events"`
			}{Events: make(chan int)},
			field: "events",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			params, err := Marshal(test.value)
			requireEncodingError(t, err, test.field)
			if params != nil {
				t.Errorf("expected nil parameters, got %v", params)
			}
		})
	}
}

func TestMarshal_TopLevel(t *testing.T) {
	t.Run("nil yields empty list", func(t *testing.T) {
		params, err := Marshal(nil)
		if err != nil {
			t.Fatalf("Marshal(nil): %v", err)
		}
		if params == nil || params.Len() != 0 {
			t.Errorf("expected empty non-nil list, got %#v", params)
		}
	})

	t.Run("empty struct yields empty list", func(t *testing.T) {
		params, err := Marshal(struct{}{})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if params == nil || params.Len() != 0 {
			t.Errorf("expected empty non-nil list, got %#v", params)
		}
	})

	t.Run("pointer to struct", func(t *testing.T) {
		request := &struct {
			X int `json:"x"`
		}{X: 9}
		if got := encodeString(t, request); got != "x=9" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("non-struct fails", func(t *testing.T) {
		_, err := Marshal(42)
		requireEncodingError(t, err, "")
	})

	t.Run("parameters pass through with repeated keys", func(t *testing.T) {
		input := Parameters{{Key: "a", Value: "1"}, {Key: "a", Value: "2"}}
		if got := encodeString(t, input); got != "a=1&a=2" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("encoder error returned unchanged", func(t *testing.T) {
		sentinel := errors.New("refused")
		_, err := Marshal(encoderFunc(func(*Fields) error { return sentinel }))
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel error, got %v", err)
		}
	})
}

type chainNode struct {
	Name string     `json:"name"`
	Next *chainNode `json:"next"`
}

type selfEmbedding struct {
	*selfEmbedding
	Zone string `json:"zone"`
}

func TestMarshal_SelfReferentialValues(t *testing.T) {
	t.Run("pointer cycle fails", func(t *testing.T) {
		node := &chainNode{Name: "a"}
		node.Next = node
		params, err := Marshal(node)
		requireEncodingError(t, err, "next")
		if params != nil {
			t.Errorf("expected nil parameters, got %v", params)
		}
	})

	t.Run("embedded pointer cycle fails", func(t *testing.T) {
		value := &selfEmbedding{Zone: "eu"}
		value.selfEmbedding = value
		if _, err := Marshal(value); !IsEncodingError(err) {
			t.Fatalf("expected EncodingError, got %v", err)
		}
	})

	t.Run("finite chain ending in nil encodes", func(t *testing.T) {
		tail := &chainNode{Name: "tail"}
		head := struct {
			Next *chainNode `json:"next"`
		}{Next: tail}
		if got := encodeString(t, head); got != "next=tail" {
			t.Errorf("got %q", got)
		}
	})
}

type encoderFunc func(*Fields) error

func (f encoderFunc) EncodeForm(fields *Fields) error { return f(fields) }

type Embedded struct {
	Zone string `json:"zone"`
}

func TestMarshal_StructTags(t *testing.T) {
	request := struct {
		Embedded
		FormName   string `form:"formName" json:"jsonName"`
		JSONName   string `json:"jsonName"`
		Untagged   string
		Skipped    string `json:"-"`
		Empty      string `json:"empty,omitempty"`
		ZeroKept   int    `json:"zero"`
		unexported string
	}{
		Embedded:   Embedded{Zone: "eu"},
		FormName:   "f",
		JSONName:   "j",
		Untagged:   "u",
		Skipped:    "s",
		unexported: "x",
	}

	want := "zone=eu&formName=f&jsonName=j&Untagged=u&zero=0"
	if got := encodeString(t, request); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMarshal_DoesNotMutateInput(t *testing.T) {
	name := "before"
	request := renameRequest{DeviceID: "urn:a", Name: &name}
	if _, err := Marshal(request); err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if name != "before" || request.DeviceID != "urn:a" {
		t.Error("Marshal mutated its input")
	}
}
