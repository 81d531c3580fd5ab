package infra

import "reflect"

// IsNilValue reports whether v is an untyped nil or a nil value of a
// nillable kind. Containers use it as the default "absent" sentinel.
func IsNilValue[V any](v V) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Interface,
		reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
	}
	return false
}
