package merge

import "cmp"

// Pair is a single element of a sequence.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// Iterator is a pull-based sequence of pairs.
type Iterator[K, V any] interface {
	// HasNext reports whether Next will return a pair. It never consumes input.
	HasNext() bool

	// Next returns the next pair. Returns ErrExhausted when HasNext is false.
	Next() (Pair[K, V], error)

	// Remove deletes the last returned pair from the underlying sequence.
	//
	// Iterators of this package always return ErrUnsupported.
	Remove() error
}

// Comparator compares two keys. Only equality (zero result) is used for grouping.
type Comparator[K any] func(a, b K) int

// Reducer folds values of a single group into one value.
//
// values is never empty and keeps the input order. Reducer owns the slice.
type Reducer[V, R any] func(values []V) (R, error)

// Ordered returns comparator over naturally ordered keys.
func Ordered[K cmp.Ordered]() Comparator[K] {
	return cmp.Compare[K]
}
