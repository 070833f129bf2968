// lookup.go: safe traversal of hydration payload trees.
//
// The payloads are server-rendered page state and their shape is highly
// irregular: keys appear and disappear between products, arrays are sometimes
// objects and values change type between documents. Every accessor here
// tolerates any shape mismatch by reporting absence instead of failing.
package payload

import (
	"strconv"

	"github.com/antonholmquist/jason"
)

// Lookup walks a path of hops through a JSON value. A string hop descends
// into an object by key, an int hop indexes into an array. The walk stops and
// reports false at the first missing key, out-of-range index or shape
// mismatch. It never panics and never returns an error.
func Lookup(v *jason.Value, path ...any) (*jason.Value, bool) {
	if v == nil {
		return nil, false
	}
	current := v
	for _, hop := range path {
		switch key := hop.(type) {
		case string:
			obj, err := current.Object()
			if err != nil {
				return nil, false
			}
			next, err := obj.GetValue(key)
			if err != nil {
				return nil, false
			}
			current = next
		case int:
			arr, err := current.Array()
			if err != nil {
				return nil, false
			}
			if key < 0 || key >= len(arr) {
				return nil, false
			}
			current = arr[key]
		default:
			return nil, false
		}
	}
	return current, true
}

// Array returns the array at path, or nil and false.
func Array(v *jason.Value, path ...any) ([]*jason.Value, bool) {
	found, ok := Lookup(v, path...)
	if !ok {
		return nil, false
	}
	arr, err := found.Array()
	if err != nil {
		return nil, false
	}
	return arr, true
}

// Object returns the object at path, or nil and false.
func Object(v *jason.Value, path ...any) (*jason.Object, bool) {
	found, ok := Lookup(v, path...)
	if !ok {
		return nil, false
	}
	obj, err := found.Object()
	if err != nil {
		return nil, false
	}
	return obj, true
}

// String returns the string at path, or def when absent or not a string.
func String(v *jason.Value, def string, path ...any) string {
	if s := StringPtr(v, path...); s != nil {
		return *s
	}
	return def
}

// StringPtr returns a pointer to the string at path, or nil.
func StringPtr(v *jason.Value, path ...any) *string {
	found, ok := Lookup(v, path...)
	if !ok {
		return nil
	}
	s, err := found.String()
	if err != nil {
		return nil
	}
	return &s
}

// Float64Ptr returns a pointer to the number at path, or nil.
func Float64Ptr(v *jason.Value, path ...any) *float64 {
	found, ok := Lookup(v, path...)
	if !ok {
		return nil
	}
	f, err := found.Float64()
	if err != nil {
		return nil
	}
	return &f
}

// Int64Ptr returns a pointer to the integer at path, or nil. Numbers with a
// fractional part report absence rather than truncating.
func Int64Ptr(v *jason.Value, path ...any) *int64 {
	found, ok := Lookup(v, path...)
	if !ok {
		return nil
	}
	n, err := found.Int64()
	if err != nil {
		return nil
	}
	return &n
}

// Stringish reads the value at path as a string, formatting numbers when
// needed. Identifier fields change type between documents.
func Stringish(v *jason.Value, path ...any) *string {
	found, ok := Lookup(v, path...)
	if !ok {
		return nil
	}
	if s, err := found.String(); err == nil {
		return &s
	}
	if n, err := found.Int64(); err == nil {
		s := strconv.FormatInt(n, 10)
		return &s
	}
	if f, err := found.Float64(); err == nil {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		return &s
	}
	return nil
}

// BoolPtr returns a pointer to the boolean at path, or nil.
func BoolPtr(v *jason.Value, path ...any) *bool {
	found, ok := Lookup(v, path...)
	if !ok {
		return nil
	}
	b, err := found.Boolean()
	if err != nil {
		return nil
	}
	return &b
}
