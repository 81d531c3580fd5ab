package infra

import (
	"cmp"
	"reflect"
	"strings"
)

// IdentityComparator is the fallback ordering used when a container is
// built without a comparator. References (pointer, chan, map, unsafe
// pointer) are ordered by address, scalars by value and interface keys
// by dynamic type first. The order is arbitrary but stable.
//
// It panics if K has no usable identity, e.g. struct, array, slice, func
// or complex keys. Those must bring their own comparator.
func IdentityComparator[K any]() Comparator[K] {
	typ := reflect.TypeFor[K]()
	if !hasIdentity(typ.Kind()) {
		panic("[infra] identity comparator unsupported key kind: " + typ.String())
	}
	return func(i, j K) int {
		return compareIdentity(reflect.ValueOf(&i).Elem(), reflect.ValueOf(&j).Elem())
	}
}

func hasIdentity(kind reflect.Kind) bool {
	switch kind {
	case reflect.Interface,
		reflect.Pointer, reflect.UnsafePointer, reflect.Chan, reflect.Map,
		reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
	}
	return false
}

func compareIdentity(i, j reflect.Value) int {
	switch i.Kind() {
	case reflect.Interface:
		if i.IsNil() || j.IsNil() {
			// nil first
			return compareBool(!i.IsNil(), !j.IsNil())
		}
		ei, ej := i.Elem(), j.Elem()
		if ti, tj := ei.Type(), ej.Type(); ti != tj {
			if res := strings.Compare(ti.String(), tj.String()); res != 0 {
				return res
			}
			return strings.Compare(ti.PkgPath(), tj.PkgPath())
		}
		if !hasIdentity(ei.Kind()) {
			panic("[infra] identity comparator unsupported dynamic key kind: " + ei.Type().String())
		}
		return compareIdentity(ei, ej)
	case reflect.Pointer, reflect.UnsafePointer, reflect.Chan, reflect.Map:
		return cmp.Compare(i.Pointer(), j.Pointer())
	case reflect.Bool:
		return compareBool(i.Bool(), j.Bool())
	case reflect.String:
		return strings.Compare(i.String(), j.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(i.Int(), j.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(i.Uint(), j.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(i.Float(), j.Float())
	default:
	}
	// impossible run to here
	panic( /* debug assertion */ "[infra] identity comparator unknown key kind: " + i.Kind().String())
}

func compareBool(i, j bool) int {
	if i == j {
		return 0
	} else if !i {
		return -1
	}
	return 1
}
