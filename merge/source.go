package merge

import (
	"iter"
)

type sliceIterator[K, V any] struct {
	pairs []Pair[K, V]
}

// FromSlice returns iterator over pairs.
func FromSlice[K, V any](pairs []Pair[K, V]) Iterator[K, V] {
	return &sliceIterator[K, V]{pairs: pairs}
}

func (s *sliceIterator[K, V]) HasNext() bool {
	return len(s.pairs) != 0
}

func (s *sliceIterator[K, V]) Next() (p Pair[K, V], err error) {
	if len(s.pairs) == 0 {
		err = ErrExhausted
		return
	}

	p, s.pairs = s.pairs[0], s.pairs[1:]
	return
}

func (s *sliceIterator[K, V]) Remove() error {
	return ErrUnsupported
}

// SeqIterator adapts push iterator into Iterator.
//
// Stop must be called if the sequence is not read till the end.
type SeqIterator[K, V any] struct {
	next func() (K, V, bool)
	stop func()

	peeked bool
	done   bool
	head   Pair[K, V]
}

// FromSeq converts seq into pull-based iterator.
func FromSeq[K, V any](seq iter.Seq2[K, V]) *SeqIterator[K, V] {
	next, stop := iter.Pull2(seq)
	return &SeqIterator[K, V]{next: next, stop: stop}
}

func (s *SeqIterator[K, V]) peek() {
	if s.peeked || s.done {
		return
	}

	k, v, ok := s.next()
	if !ok {
		s.done = true
		return
	}

	s.head = Pair[K, V]{Key: k, Value: v}
	s.peeked = true
}

func (s *SeqIterator[K, V]) HasNext() bool {
	s.peek()
	return s.peeked
}

func (s *SeqIterator[K, V]) Next() (p Pair[K, V], err error) {
	s.peek()
	if !s.peeked {
		err = ErrExhausted
		return
	}

	p = s.head
	s.head = Pair[K, V]{}
	s.peeked = false
	return
}

func (s *SeqIterator[K, V]) Remove() error {
	return ErrUnsupported
}

// Stop releases underlying sequence.
func (s *SeqIterator[K, V]) Stop() {
	s.done = true
	s.peeked = false
	s.stop()
}

// All returns range-over-func view of it.
//
// Iteration stops after the first error, which is yielded together with zero pair.
func All[K, V any](it Iterator[K, V]) iter.Seq2[Pair[K, V], error] {
	return func(yield func(Pair[K, V], error) bool) {
		for it.HasNext() {
			p, err := it.Next()
			if !yield(p, err) || err != nil {
				return
			}
		}
	}
}

// Collect reads all pairs from it.
//
// On error, Collect returns pairs read so far together with the error.
func Collect[K, V any](it Iterator[K, V]) ([]Pair[K, V], error) {
	var out []Pair[K, V]
	for p, err := range All(it) {
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Counter counts pairs pulled from the wrapped iterator.
type Counter[K, V any] struct {
	Iterator[K, V]

	pulled int
}

// Counting wraps it into Counter.
func Counting[K, V any](it Iterator[K, V]) *Counter[K, V] {
	return &Counter[K, V]{Iterator: it}
}

func (c *Counter[K, V]) Next() (Pair[K, V], error) {
	p, err := c.Iterator.Next()
	if err == nil {
		c.pulled++
	}
	return p, err
}

// Pulled returns number of pairs successfully returned by Next.
func (c *Counter[K, V]) Pulled() int {
	return c.pulled
}
