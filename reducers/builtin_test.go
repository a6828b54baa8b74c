package reducers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuiltins(t *testing.T) {
	for _, testCase := range []struct {
		name     string
		reducer  Reducer
		values   []any
		expected any
	}{
		{"concat", &Concat{}, []any{"a", []byte("b"), "c"}, "abc"},
		{"concat_separator", &Concat{Separator: "-"}, []any{"a", "b"}, "a-b"},
		{"sum_int", &Sum{}, []any{int64(1), int64(-2), int64(5)}, int64(4)},
		{"sum_uint", &Sum{}, []any{uint64(1), uint64(2)}, uint64(3)},
		{"sum_mixed", &Sum{}, []any{int64(1), uint64(2), 0.5}, 3.5},
		{"count", &Count{}, []any{nil, "x", int64(1)}, int64(3)},
		{"min", &Min{}, []any{int64(3), int64(-1), 2.5}, int64(-1)},
		{"max", &Max{}, []any{int64(3), "a", int64(10)}, "a"},
		{"first", &First{}, []any{"x", "y"}, "x"},
		{"last", &Last{}, []any{"x", "y"}, "y"},
		{"list", &List{}, []any{"x", int64(1)}, []any{"x", int64(1)}},
		{"list_limit", &List{Limit: 1}, []any{"x", int64(1)}, []any{"x"}},
		{"distinct", &Distinct{}, []any{"b", int64(1), "b", uint64(1), "a"}, []any{int64(1), "a", "b"}},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			v, err := testCase.reducer.Reduce(testCase.values)
			require.NoError(t, err)
			require.Equal(t, testCase.expected, v)
		})
	}
}

func TestBuiltins_Errors(t *testing.T) {
	_, err := (&Concat{}).Reduce([]any{"a", int64(1)})
	require.Error(t, err)

	_, err = (&Sum{}).Reduce([]any{int64(1), "2"})
	require.Error(t, err)

	_, err = (&List{Limit: -1}).Reduce([]any{"a"})
	require.Error(t, err)
}

func TestSum_Overflow(t *testing.T) {
	_, err := (&Sum{}).Reduce([]any{int64(math.MaxInt64), int64(1)})
	require.ErrorContains(t, err, "int64 overflow")

	_, err = (&Sum{}).Reduce([]any{int64(math.MinInt64), int64(-1)})
	require.ErrorContains(t, err, "int64 overflow")

	_, err = (&Sum{}).Reduce([]any{uint64(math.MaxUint64), uint64(0), uint64(1)})
	require.ErrorContains(t, err, "uint64 overflow")

	// Running total wraps and comes back, the result is exact.
	v, err := (&Sum{}).Reduce([]any{int64(math.MaxInt64), int64(1), int64(-1)})
	require.NoError(t, err)
	require.Equal(t, int64(math.MaxInt64), v)

	v, err = (&Sum{}).Reduce([]any{int64(math.MaxInt64), int64(math.MaxInt64), 0.5})
	require.NoError(t, err)
	require.InDelta(t, 2*float64(math.MaxInt64), v, 1e4)

	v, err = (&Sum{}).Reduce([]any{int64(math.MaxInt64), int64(math.MinInt64)})
	require.NoError(t, err)
	require.Equal(t, int64(-1), v)
}

func TestBuiltins_Registered(t *testing.T) {
	names := Names()
	for _, alias := range []string{"concat", "sum", "count", "min", "max", "first", "last", "list", "distinct"} {
		require.Contains(t, names, alias)

		r, err := New(alias)
		require.NoError(t, err)
		require.NotNil(t, r)
	}
}
