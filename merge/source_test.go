package merge

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromSeq(t *testing.T) {
	m := map[int]string{1: "a", 2: "b", 3: "c"}

	it := FromSeq(func(yield func(int, string) bool) {
		for _, k := range slices.Sorted(maps.Keys(m)) {
			if !yield(k, m[k]) {
				return
			}
		}
	})
	defer it.Stop()

	require.True(t, it.HasNext())
	require.True(t, it.HasNext())

	out, err := Collect[int, string](it)
	require.NoError(t, err)
	require.Equal(t, pairs(1, "a", 2, "b", 3, "c"), out)

	_, err = it.Next()
	require.ErrorIs(t, err, ErrExhausted)
	require.ErrorIs(t, it.Remove(), ErrUnsupported)
}

func TestFromSeq_Stop(t *testing.T) {
	produced := 0
	it := FromSeq(func(yield func(int, string) bool) {
		for i := 0; ; i++ {
			produced++
			if !yield(i, "x") {
				return
			}
		}
	})

	g := Merge[int, string, string](it, Ordered[int](), concat)
	p, err := g.Next()
	require.NoError(t, err)
	require.Equal(t, Pair[int, string]{Key: 0, Value: "x"}, p)

	it.Stop()
	require.False(t, it.HasNext())
	require.Equal(t, 2, produced)
}

func TestAll(t *testing.T) {
	var keys []int
	for p, err := range All(FromSlice(pairs(1, "a", 2, "b", 3, "c"))) {
		require.NoError(t, err)
		keys = append(keys, p.Key)
		if p.Key == 2 {
			break
		}
	}
	require.Equal(t, []int{1, 2}, keys)
}

func TestCollect_Error(t *testing.T) {
	in := &failingIterator{Iterator: FromSlice(pairs(1, "a", 2, "b", 3, "c")), failAt: 3}

	out, err := Collect[int, string](in)
	require.ErrorIs(t, err, errRead)
	require.Equal(t, pairs(1, "a", 2, "b"), out)
}
