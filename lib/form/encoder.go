// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package form

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
)

// Encoder is implemented by structured values that report their own
// fields. EncodeForm must visit fields in declaration order; the order
// of calls is the order of the resulting parameter list.
type Encoder interface {
	EncodeForm(fields *Fields) error
}

// ValueMarshaler is implemented by single-value wrapper types. A value
// in field position that implements ValueMarshaler is written through a
// [ValueWriter] and emitted under the enclosing field's key.
type ValueMarshaler interface {
	MarshalFormValue(writer *ValueWriter) error
}

type nullValue struct{}

// Null is the explicit null value. Unlike a nil pointer, which marks an
// absent optional and is skipped, Null is encoded as an empty string.
var Null = nullValue{}

// Marshal flattens v into an ordered parameter list. v must be nil, an
// [Encoder], a [Parameters] list, or a struct (or pointer to struct).
// The returned list is never nil on success. On failure no list is
// returned and v is left untouched.
func Marshal(v any) (Parameters, error) {
	fields := &Fields{}

	if v == nil || isNilPointer(v) {
		return Parameters{}, nil
	}

	switch value := v.(type) {
	case Encoder:
		if err := value.EncodeForm(fields); err != nil {
			return nil, err
		}
	default:
		structValue := reflect.Indirect(reflect.ValueOf(v))
		if structValue.Kind() != reflect.Struct {
			return nil, &EncodingError{Reason: fmt.Sprintf("cannot encode %T as form parameters", v)}
		}
		encodeStruct(fields, structValue)
	}

	if fields.err != nil {
		return nil, fields.err
	}
	if fields.params == nil {
		return Parameters{}, nil
	}
	return fields.params, nil
}

// Fields collects the parameters reported by an [Encoder]. The first
// failure is retained and every later call becomes a no-op, so an
// EncodeForm implementation can report all of its fields and return
// nil; [Marshal] surfaces the failure.
type Fields struct {
	params Parameters
	err    error
	depth  int
}

// maxDepth bounds pointer and nested-record descent. Only a
// self-referential value gets this deep.
const maxDepth = 1000

// Err returns the first failure recorded by the collector.
func (f *Fields) Err() error {
	return f.err
}

func (f *Fields) emit(key, value string) {
	if f.err != nil {
		return
	}
	f.params = append(f.params, Pair{Key: key, Value: value})
}

func (f *Fields) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

// String adds a string field.
func (f *Fields) String(key, value string) {
	f.emit(key, value)
}

// Bool adds a boolean field as "true" or "false".
func (f *Fields) Bool(key string, value bool) {
	f.emit(key, strconv.FormatBool(value))
}

// Int adds a signed integer field in base 10.
func (f *Fields) Int(key string, value int64) {
	f.emit(key, strconv.FormatInt(value, 10))
}

// Uint adds an unsigned integer field in base 10.
func (f *Fields) Uint(key string, value uint64) {
	f.emit(key, strconv.FormatUint(value, 10))
}

// Float adds a float64 field using the shortest round-trip form.
func (f *Fields) Float(key string, value float64) {
	f.emit(key, formatFloat(value, 64))
}

// Null adds an explicit null field, encoded as an empty value.
func (f *Fields) Null(key string) {
	f.emit(key, "")
}

// Value adds a field of any supported shape. Nil pointers are skipped.
// Unsupported shapes (slices, maps, multi-field records) record an
// [*EncodingError] naming key.
func (f *Fields) Value(key string, value any) {
	if f.err != nil {
		return
	}
	text, present, err := encodeValue(key, value, f.depth)
	if err != nil {
		f.fail(err)
		return
	}
	if present {
		f.emit(key, text)
	}
}

// encodeValue reduces one field value to a string. present is false
// for absent optionals and for nested records that produced nothing.
func encodeValue(key string, value any, depth int) (text string, present bool, err error) {
	if value == nil || isNilPointer(value) {
		return "", false, nil
	}
	if depth > maxDepth {
		return "", false, &EncodingError{Field: key, Reason: "cycle or nesting deeper than 1000 levels"}
	}

	switch typed := value.(type) {
	case nullValue:
		return "", true, nil
	case string:
		return typed, true, nil
	case bool:
		return strconv.FormatBool(typed), true, nil
	case int:
		return strconv.FormatInt(int64(typed), 10), true, nil
	case int8:
		return strconv.FormatInt(int64(typed), 10), true, nil
	case int16:
		return strconv.FormatInt(int64(typed), 10), true, nil
	case int32:
		return strconv.FormatInt(int64(typed), 10), true, nil
	case int64:
		return strconv.FormatInt(typed, 10), true, nil
	case uint:
		return strconv.FormatUint(uint64(typed), 10), true, nil
	case uint8:
		return strconv.FormatUint(uint64(typed), 10), true, nil
	case uint16:
		return strconv.FormatUint(uint64(typed), 10), true, nil
	case uint32:
		return strconv.FormatUint(uint64(typed), 10), true, nil
	case uint64:
		return strconv.FormatUint(typed, 10), true, nil
	case float32:
		return formatFloat(float64(typed), 32), true, nil
	case float64:
		return formatFloat(typed, 64), true, nil
	case ValueMarshaler:
		writer := &ValueWriter{field: key}
		if err := typed.MarshalFormValue(writer); err != nil {
			return "", false, wrapFieldError(key, err)
		}
		if writer.err != nil {
			return "", false, writer.err
		}
		return writer.value, writer.written, nil
	case encoding.TextMarshaler:
		data, err := typed.MarshalText()
		if err != nil {
			return "", false, &EncodingError{Field: key, Reason: "marshaling text: " + err.Error(), Err: err}
		}
		return string(data), true, nil
	case Encoder:
		nested := &Fields{depth: depth + 1}
		if err := typed.EncodeForm(nested); err != nil {
			return "", false, wrapFieldError(key, err)
		}
		return collapseNested(key, nested)
	}

	return encodeReflected(key, reflect.ValueOf(value), depth)
}

// encodeReflected handles named primitive types, pointers to supported
// values, and plain structs in value position.
func encodeReflected(key string, value reflect.Value, depth int) (string, bool, error) {
	switch value.Kind() {
	case reflect.Pointer, reflect.Interface:
		if value.IsNil() {
			return "", false, nil
		}
		return encodeValue(key, value.Elem().Interface(), depth+1)
	case reflect.Bool:
		return strconv.FormatBool(value.Bool()), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(value.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(value.Uint(), 10), true, nil
	case reflect.Float32:
		return formatFloat(value.Float(), 32), true, nil
	case reflect.Float64:
		return formatFloat(value.Float(), 64), true, nil
	case reflect.String:
		return value.String(), true, nil
	case reflect.Struct:
		nested := &Fields{depth: depth + 1}
		encodeStruct(nested, value)
		return collapseNested(key, nested)
	case reflect.Slice, reflect.Array:
		return "", false, &EncodingError{Field: key, Reason: fmt.Sprintf("sequence of type %s cannot be form encoded", value.Type())}
	case reflect.Map:
		return "", false, &EncodingError{Field: key, Reason: fmt.Sprintf("map of type %s cannot be form encoded", value.Type())}
	default:
		return "", false, &EncodingError{Field: key, Reason: fmt.Sprintf("unsupported type %s", value.Type())}
	}
}

// collapseNested associates the single primitive produced by a nested
// traversal with the outer key.
func collapseNested(key string, nested *Fields) (string, bool, error) {
	if nested.err != nil {
		return "", false, nested.err
	}
	switch len(nested.params) {
	case 0:
		return "", false, nil
	case 1:
		return nested.params[0].Value, true, nil
	default:
		return "", false, &EncodingError{
			Field:  key,
			Reason: fmt.Sprintf("nested record with %d fields cannot occupy a single parameter", len(nested.params)),
		}
	}
}

func isNilPointer(value any) bool {
	reflected := reflect.ValueOf(value)
	return reflected.Kind() == reflect.Pointer && reflected.IsNil()
}
