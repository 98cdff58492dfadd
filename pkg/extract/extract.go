/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package extract pulls typed values out of decoded JSON documents using
// simple path expressions e.g. "films[1]" or "gravity".
package extract

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"k8s.io/client-go/util/jsonpath"
)

var (
	// ErrPath is raised when a path expression cannot be parsed.
	ErrPath = errors.New("invalid path expression")
)

// Value is the result of an extraction.  The zero value is absent.
type Value struct {
	raw     any
	present bool
}

// Present tells you whether the path resolved to a non-null value.
func (v Value) Present() bool {
	return v.present
}

// Raw returns the underlying decoded JSON value.
func (v Value) Raw() any {
	return v.raw
}

// String returns the value as a string.  Scalars are formatted the way
// they appear in JSON, objects and arrays are not strings.
func (v Value) String() (string, bool) {
	if !v.present {
		return "", false
	}

	switch t := v.raw.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	}

	return "", false
}

// List returns the value as a list.
func (v Value) List() ([]any, bool) {
	if !v.present {
		return nil, false
	}

	list, ok := v.raw.([]any)

	return list, ok
}

// Len returns the length of a list value.
func (v Value) Len() (int, bool) {
	list, ok := v.List()
	if !ok {
		return 0, false
	}

	return len(list), true
}

// Compile checks a path expression and returns the equivalent jsonpath
// template.  Paths consist of dot separated field names, each optionally
// followed by one or more zero-based indexes.
func Compile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrPath)
	}

	for _, segment := range strings.Split(path, ".") {
		if err := checkSegment(segment); err != nil {
			return "", fmt.Errorf("%w: %q: %w", ErrPath, path, err)
		}
	}

	return "{." + path + "}", nil
}

//nolint:err113
func checkSegment(segment string) error {
	name := segment

	if i := strings.IndexByte(segment, '['); i >= 0 {
		name = segment[:i]

		rest := segment[i:]

		for rest != "" {
			if rest[0] != '[' {
				return fmt.Errorf("unexpected %q after index", rest)
			}

			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return errors.New("unterminated index")
			}

			index, err := strconv.Atoi(rest[1:end])
			if err != nil || index < 0 {
				return fmt.Errorf("index %q is not a non-negative integer", rest[1:end])
			}

			rest = rest[end+1:]
		}
	}

	if name == "" {
		return errors.New("empty field name")
	}

	if strings.ContainsAny(name, "{}[]*@$?()'\" ") {
		return fmt.Errorf("illegal character in field name %q", name)
	}

	return nil
}

// Field resolves the path against a decoded JSON document.  Missing fields,
// JSON nulls and out of range indexes all result in an absent value rather
// than an error, it's up to the caller to decide whether that is a failure.
func Field(doc any, path string) (Value, error) {
	template, err := Compile(path)
	if err != nil {
		return Value{}, err
	}

	j := jsonpath.New(path)
	j.AllowMissingKeys(true)

	if err := j.Parse(template); err != nil {
		return Value{}, fmt.Errorf("%w: %q: %w", ErrPath, path, err)
	}

	results, err := j.FindResults(doc)
	if err != nil {
		if isMissingIndex(err) {
			return Value{}, nil
		}

		return Value{}, fmt.Errorf("evaluating %q: %w", path, err)
	}

	if len(results) == 0 || len(results[0]) == 0 {
		return Value{}, nil
	}

	return unwrap(results[0][0]), nil
}

// missingIndexErrors are the jsonpath errors raised when indexing off the
// end of a list, or into something that isn't a list.  jsonpath has no
// typed errors for these, they are treated the same way as a missing key.
//
//nolint:gochecknoglobals
var missingIndexErrors = []string{
	"out of bounds",
	"is not array or slice",
}

func isMissingIndex(err error) bool {
	for _, fragment := range missingIndexErrors {
		if strings.Contains(err.Error(), fragment) {
			return true
		}
	}

	return false
}

func unwrap(v reflect.Value) Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return Value{}
		}

		v = v.Elem()
	}

	if !v.IsValid() || !v.CanInterface() {
		return Value{}
	}

	raw := v.Interface()
	if raw == nil {
		return Value{}
	}

	return Value{raw: raw, present: true}
}
