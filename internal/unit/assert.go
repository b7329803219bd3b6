package unit

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/stretchr/testify/assert"
)

// Every exported assertion records through write so that the recorded call
// site is always the statement calling the assertion.

func (b *Base) write(ok bool, message string) bool {
	b.rec.RecordAt(CallerSite(2), ok, message)
	return ok
}

// Assert records v.
func (b *Base) Assert(v bool, message string) bool {
	return b.write(v, message)
}

// AssertNot records !v.
func (b *Base) AssertNot(v bool, message string) bool {
	return b.write(!v, message)
}

// Equal checks value equality, converting between convertible types, so
// int32(1) equals int64(1).
func (b *Base) Equal(expected, actual any, message string) bool {
	ok := assert.ObjectsAreEqualValues(expected, actual)
	if !ok {
		message = withDetail(fmt.Sprintf("%v != %v", expected, actual), message)
	}
	return b.write(ok, message)
}

// NotEqual is the negation of Equal.
func (b *Base) NotEqual(expected, actual any, message string) bool {
	return b.write(!assert.ObjectsAreEqualValues(expected, actual), message)
}

// StrictEqual checks that expected and actual have the same type and value.
func (b *Base) StrictEqual(expected, actual any, message string) bool {
	ok := assert.ObjectsAreEqual(expected, actual)
	if !ok {
		message = withDetail(fmt.Sprintf("%#v !== %#v", expected, actual), message)
	}
	return b.write(ok, message)
}

// Nil checks that v is nil, including typed nil pointers, maps and slices.
func (b *Base) Nil(v any, message string) bool {
	return b.write(isNil(v), message)
}

// NotNil is the negation of Nil.
func (b *Base) NotNil(v any, message string) bool {
	return b.write(!isNil(v), message)
}

// Truthy checks that v is neither nil, a zero value nor an empty
// collection.
func (b *Base) Truthy(v any, message string) bool {
	return b.write(truthy(v), message)
}

// Falsy is the negation of Truthy.
func (b *Base) Falsy(v any, message string) bool {
	return b.write(!truthy(v), message)
}

// Type checks the kind of v. Recognised kinds are array, string, int,
// integer, float, double, bool, boolean, callable, object, null and
// numeric. Any other name is compared with the %T form of v and with its
// import path qualified type name.
func (b *Base) Type(kind string, v any, message string) bool {
	return b.write(isType(kind, v), message)
}

// Len checks that v is a slice, array or map holding size elements.
func (b *Base) Len(size int, v any, message string) bool {
	ok := false
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		ok = rv.Len() == size
	}
	return b.write(ok, message)
}

// Contains checks that container holds subset. For maps every key of
// subset must be present with an equal value; for slices and arrays every
// element of subset must appear in container. Strict comparison requires
// identical types.
func (b *Base) Contains(subset, container any, strict bool, message string) bool {
	return b.write(contains(subset, container, strict), message)
}

// StringLength checks that v is a string of size bytes.
func (b *Base) StringLength(size int, v any, message string) bool {
	s, ok := v.(string)
	return b.write(ok && len(s) == size, message)
}

// Pattern checks that v is a string matching the regular expression.
// An invalid expression fails the assertion.
func (b *Base) Pattern(pattern string, v any, message string) bool {
	ok, err := matches(pattern, v)
	if err != nil {
		message = withDetail(err.Error(), message)
	}
	return b.write(ok && err == nil, message)
}

// NotPattern checks that v is not a string matching the regular
// expression.
func (b *Base) NotPattern(pattern string, v any, message string) bool {
	ok, err := matches(pattern, v)
	if err != nil {
		message = withDetail(err.Error(), message)
	}
	return b.write(!ok && err == nil, message)
}

// HasKeys checks that map v holds every key with a non-nil value.
func (b *Base) HasKeys(v any, keys []any, message string) bool {
	return b.write(mapHas(v, keys, true), message)
}

// KeyExists checks that map v holds every key, whatever its value.
func (b *Base) KeyExists(v any, keys []any, message string) bool {
	return b.write(mapHas(v, keys, false), message)
}

// AssertError invokes fn and records true when it fails with a failure of
// kind, false when it succeeds. A failure of any other kind is returned
// without recording anything. Invalid arguments return a *MisuseError.
func (b *Base) AssertError(kind Kind, fn func() error, message string) error {
	if err := checkKind("AssertError", kind, fn); err != nil {
		return err
	}
	if err := Invoke(fn); err != nil {
		if !kind.Match(err) {
			return err
		}
		b.write(true, message)
		return nil
	}
	b.write(false, withDetail("expected failure of kind "+kind.String(), message))
	return nil
}

// AssertNoError is the mirror of AssertError: a failure of kind records
// false, success records true and any other failure is returned.
func (b *Base) AssertNoError(kind Kind, fn func() error, message string) error {
	if err := checkKind("AssertNoError", kind, fn); err != nil {
		return err
	}
	if err := Invoke(fn); err != nil {
		if !kind.Match(err) {
			return err
		}
		b.write(false, withDetail(err.Error(), message))
		return nil
	}
	b.write(true, message)
	return nil
}

func withDetail(detail, message string) string {
	if message == "" {
		return detail
	}
	return message + ": " + detail
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

func truthy(v any) bool {
	if isNil(v) {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String, reflect.Chan:
		return rv.Len() > 0
	}
	return !rv.IsZero()
}

func isType(kind string, v any) bool {
	rv := reflect.ValueOf(v)
	switch strings.ToLower(kind) {
	case "array":
		k := rv.Kind()
		return k == reflect.Slice || k == reflect.Array || k == reflect.Map
	case "string":
		return rv.Kind() == reflect.String
	case "int", "integer":
		return rv.CanInt() || rv.CanUint()
	case "float", "double":
		return rv.CanFloat()
	case "bool", "boolean":
		return rv.Kind() == reflect.Bool
	case "callable":
		return rv.Kind() == reflect.Func && !rv.IsNil()
	case "object":
		k := rv.Kind()
		return k == reflect.Struct || (k == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct)
	case "null":
		return isNil(v)
	case "numeric":
		if rv.CanInt() || rv.CanUint() || rv.CanFloat() {
			return true
		}
		if s, ok := v.(string); ok {
			_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			return err == nil
		}
		return false
	}
	if v == nil {
		return false
	}
	return fmt.Sprintf("%T", v) == kind || IdentityOf(v) == kind
}

func equalValues(a, b any, strict bool) bool {
	if strict {
		return assert.ObjectsAreEqual(a, b)
	}
	return assert.ObjectsAreEqualValues(a, b)
}

func contains(subset, container any, strict bool) bool {
	sv, cv := reflect.ValueOf(subset), reflect.ValueOf(container)
	switch {
	case sv.Kind() == reflect.Map && cv.Kind() == reflect.Map:
		iter := sv.MapRange()
		for iter.Next() {
			key, ok := convertKey(iter.Key().Interface(), cv.Type().Key())
			if !ok {
				return false
			}
			got := cv.MapIndex(key)
			if !got.IsValid() || !equalValues(iter.Value().Interface(), got.Interface(), strict) {
				return false
			}
		}
		return true
	case isList(sv) && isList(cv):
		for i := 0; i < sv.Len(); i++ {
			want := sv.Index(i).Interface()
			found := false
			for j := 0; j < cv.Len() && !found; j++ {
				found = equalValues(want, cv.Index(j).Interface(), strict)
			}
			if !found {
				return false
			}
		}
		return true
	}
	return false
}

func isList(v reflect.Value) bool {
	return v.Kind() == reflect.Slice || v.Kind() == reflect.Array
}

func convertKey(key any, to reflect.Type) (reflect.Value, bool) {
	kv := reflect.ValueOf(key)
	if !kv.IsValid() {
		return reflect.Value{}, false
	}
	if kv.Type() == to {
		return kv, true
	}
	if !kv.Type().ConvertibleTo(to) {
		return reflect.Value{}, false
	}
	// int to string conversion yields a rune, not the decimal form.
	if to.Kind() == reflect.String && kv.Kind() != reflect.String {
		return reflect.Value{}, false
	}
	return kv.Convert(to), true
}

func mapHas(v any, keys []any, requireValue bool) bool {
	mv := reflect.ValueOf(v)
	if mv.Kind() != reflect.Map {
		return false
	}
	for _, k := range keys {
		key, ok := convertKey(k, mv.Type().Key())
		if !ok {
			return false
		}
		got := mv.MapIndex(key)
		if !got.IsValid() {
			return false
		}
		if requireValue && isNil(got.Interface()) {
			return false
		}
	}
	return true
}

func matches(pattern string, v any) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	s, ok := v.(string)
	if !ok {
		return false, nil
	}
	return re.MatchString(s), nil
}
