package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// Comparator
// Assume i is the new key.
//  1. i == j, return 0
//  2. i > j, return positive, turn to right part.
//  3. i < j, return negative, turn to left part.
type Comparator[K any] func(i, j K) int

// Reverse swaps the operands, so a tree built with it is in descending order.
func (c Comparator[K]) Reverse() Comparator[K] {
	return func(i, j K) int {
		return c(j, i)
	}
}

// OrderedKeyCompare is the natural ordering of the builtin ordered types.
// NaN keys have no stable position and must not be used.
func OrderedKeyCompare[K OrderedKey](i, j K) int {
	if i == j {
		return 0
	} else if i < j {
		return -1
	}
	return 1
}
