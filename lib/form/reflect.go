// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package form

import (
	"reflect"
	"strings"
)

// encodeStruct walks the exported fields of a struct in declaration
// order. Anonymous struct fields without an explicit name are
// flattened into the parent, as encoding/json does.
func encodeStruct(fields *Fields, structValue reflect.Value) {
	structType := structValue.Type()

	for i := range structType.NumField() {
		if fields.err != nil {
			return
		}

		field := structType.Field(i)
		fieldValue := structValue.Field(i)

		name, omitEmpty, skip := fieldName(field)
		if skip {
			continue
		}

		if field.Anonymous && !hasExplicitName(field) {
			embedded := fieldValue
			if embedded.Kind() == reflect.Pointer {
				if embedded.IsNil() {
					continue
				}
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				if fields.depth >= maxDepth {
					fields.fail(&EncodingError{Field: field.Name, Reason: "cycle or nesting deeper than 1000 levels"})
					return
				}
				fields.depth++
				encodeStruct(fields, embedded)
				fields.depth--
				continue
			}
		}

		if !field.IsExported() || !fieldValue.CanInterface() {
			continue
		}
		if omitEmpty && fieldValue.IsZero() {
			continue
		}

		fields.Value(name, fieldValue.Interface())
	}
}

// fieldName resolves the parameter name for a struct field. The form
// tag takes precedence over the json tag; either may carry
// ",omitempty". A name of "-" skips the field.
func fieldName(field reflect.StructField) (name string, omitEmpty bool, skip bool) {
	tag, ok := field.Tag.Lookup("form")
	if !ok {
		tag = field.Tag.Get("json")
	}
	if tag == "-" {
		return "", false, true
	}

	name, options, _ := strings.Cut(tag, ",")
	for option := range strings.SplitSeq(options, ",") {
		if option == "omitempty" {
			omitEmpty = true
		}
	}
	if name == "" {
		name = field.Name
	}
	return name, omitEmpty, false
}

func hasExplicitName(field reflect.StructField) bool {
	tag, ok := field.Tag.Lookup("form")
	if !ok {
		tag = field.Tag.Get("json")
	}
	name, _, _ := strings.Cut(tag, ",")
	return name != ""
}
