// Package resolve walks dot-path field keys through arbitrary records.
package resolve

import (
	"fmt"
	"reflect"
	"strings"
)

// Resolve walks path (segments separated by ".") through record and returns
// the value it lands on. The second return is false when any intermediate
// segment is missing or not a container; malformed paths resolve to absent
// rather than erroring, so callers treat the field as excluded for that
// record. Maps with string keys are looked up by key; structs by exported
// field name (exact match first, then case-insensitive); pointers and
// interfaces are dereferenced along the way.
func Resolve(record any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	current := reflect.ValueOf(record)
	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			return nil, false
		}
		current = indirect(current)
		if !current.IsValid() {
			return nil, false
		}
		switch current.Kind() {
		case reflect.Map:
			if current.Type().Key().Kind() != reflect.String {
				return nil, false
			}
			v := current.MapIndex(reflect.ValueOf(segment))
			if !v.IsValid() {
				return nil, false
			}
			current = v
		case reflect.Struct:
			v := current.FieldByName(segment)
			if !v.IsValid() {
				v = current.FieldByNameFunc(func(name string) bool {
					return strings.EqualFold(name, segment)
				})
			}
			if !v.IsValid() || !v.CanInterface() {
				return nil, false
			}
			current = v
		default:
			return nil, false
		}
	}
	current = indirect(current)
	if !current.IsValid() {
		return nil, false
	}
	return current.Interface(), true
}

// ResolveString resolves path and stringifies the scalar it lands on.
// Containers (maps, slices, structs other than fmt.Stringer) resolve to
// absent: fields are scored against scalar values only.
func ResolveString(record any, path string) (string, bool) {
	value, ok := Resolve(record, path)
	if !ok || value == nil {
		return "", false
	}
	if s, ok := value.(string); ok {
		return s, true
	}
	if s, ok := value.(fmt.Stringer); ok {
		return s.String(), true
	}
	v := indirect(reflect.ValueOf(value))
	if !v.IsValid() {
		return "", false
	}
	switch v.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprint(v.Interface()), true
	case reflect.String:
		return v.String(), true
	default:
		return "", false
	}
}

// indirect unwraps pointers and interfaces; returns the zero Value for nil.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}
