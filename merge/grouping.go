package merge

import (
	"github.com/moznion/go-optional"
	"golang.org/x/xerrors"
)

// Grouping is an iterator over groups of equal keys.
//
// Grouping keeps at most one input pair ahead of the group it emits.
type Grouping[K, V, R any] struct {
	input  Iterator[K, V]
	cmp    Comparator[K]
	reduce Reducer[V, R]

	// lookahead holds the first pair of the next group.
	lookahead optional.Option[Pair[K, V]]

	// pending is input error hit before the group it belongs to was emitted.
	pending error
}

// Merge groups consecutive pairs of input with equal keys and folds values of every group with reduce.
//
// Merge reads first pair of input immediately. Input must be ordered by key under cmp;
// this is not checked.
//
// Panics when any of the arguments is nil.
func Merge[K, V, R any](input Iterator[K, V], cmp Comparator[K], reduce Reducer[V, R]) *Grouping[K, V, R] {
	if input == nil || cmp == nil || reduce == nil {
		panic("merge: input, comparator and reducer must not be nil")
	}

	g := &Grouping[K, V, R]{
		input:  input,
		cmp:    cmp,
		reduce: reduce,
	}
	g.lookahead, g.pending = g.pull()
	return g
}

func (g *Grouping[K, V, R]) pull() (optional.Option[Pair[K, V]], error) {
	if !g.input.HasNext() {
		return optional.None[Pair[K, V]](), nil
	}

	p, err := g.input.Next()
	if err != nil {
		return optional.None[Pair[K, V]](), xerrors.Errorf("merge: read input: %w", err)
	}
	return optional.Some(p), nil
}

func (g *Grouping[K, V, R]) HasNext() bool {
	return g.lookahead.IsSome() || g.pending != nil
}

// Next returns key of the next group and result of the reducer.
//
// When reducer fails, Next returns *ReduceError and the failed group is skipped.
// Do not resume iteration after an error.
func (g *Grouping[K, V, R]) Next() (out Pair[K, R], err error) {
	if g.pending != nil {
		err, g.pending = g.pending, nil
		return
	}

	if g.lookahead.IsNone() {
		err = ErrExhausted
		return
	}

	first := g.lookahead.Unwrap()
	key := first.Key
	values := []V{first.Value}

	for {
		next, pullErr := g.pull()
		if pullErr != nil {
			g.lookahead = optional.None[Pair[K, V]]()
			err = pullErr
			return
		}

		if next.IsNone() || g.cmp(key, next.Unwrap().Key) != 0 {
			g.lookahead = next
			break
		}

		values = append(values, next.Unwrap().Value)
	}

	value, err := g.reduce(values)
	if err != nil {
		err = &ReduceError{Key: key, Size: len(values), Err: err}
		return
	}

	out = Pair[K, R]{Key: key, Value: value}
	return
}

func (g *Grouping[K, V, R]) Remove() error {
	return ErrUnsupported
}
