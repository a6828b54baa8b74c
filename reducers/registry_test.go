package reducers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"go.cubebuild.tech/sortmerge/merge"
	"go.ytsaurus.tech/yt/go/yson"
)

type upper struct {
	Suffix string `yson:"suffix"`
}

func (u upper) Reduce(values []any) (any, error) {
	return values[0].(string) + u.Suffix, nil
}

func init() {
	Register(upper{})
}

func TestRegistry_New(t *testing.T) {
	for _, name := range []string{
		"concat",
		"legacy.concat",
		"concat_strings",
		"legacy.concat_strings",
		"go.cubebuild.tech/sortmerge/reducers.Concat",
	} {
		r, err := New(name)
		require.NoError(t, err, name)
		require.IsType(t, &Concat{}, r, name)
	}

	r, err := New("collect")
	require.NoError(t, err)
	require.IsType(t, &List{}, r)

	_, err = New("missing")
	require.ErrorIs(t, err, ErrUnknownReducer)
}

func TestRegistry_FreshInstances(t *testing.T) {
	a, err := NewConfigured("concat", yson.RawValue(`{separator=","}`))
	require.NoError(t, err)

	b, err := New("concat")
	require.NoError(t, err)

	assert.Equal(t, ",", a.(*Concat).Separator)
	assert.Equal(t, "", b.(*Concat).Separator)
}

func TestRegistry_Cache(t *testing.T) {
	_, err := New("legacy.count_values")
	require.NoError(t, err)

	cacheMu.Lock()
	typ, ok := cache["legacy.count_values"]
	cacheMu.Unlock()

	require.True(t, ok)
	require.Equal(t, "Count", typ.Name())
}

func TestRegistry_UserType(t *testing.T) {
	name := Name(upper{})
	require.Equal(t, "go.cubebuild.tech/sortmerge/reducers.upper", name)
	require.Contains(t, Names(), name)

	r, err := NewConfigured(name, yson.RawValue(`{suffix="!"}`))
	require.NoError(t, err)

	v, err := r.Reduce([]any{"hi"})
	require.NoError(t, err)
	require.Equal(t, "hi!", v)
}

func TestRegistry_InvalidParams(t *testing.T) {
	_, err := NewConfigured("list", yson.RawValue(`{limit="many"}`))
	require.Error(t, err)
}

type notStruct int

func (notStruct) Reduce([]any) (any, error) { return nil, nil }

func TestRegister_NotStruct(t *testing.T) {
	require.Panics(t, func() { Register(notStruct(0)) })
}

func TestFunc(t *testing.T) {
	in := merge.FromSlice([]merge.Pair[any, any]{
		{Key: "a", Value: int64(1)},
		{Key: "a", Value: int64(2)},
		{Key: "b", Value: "oops"},
		{Key: "c", Value: 1.5},
	})

	it := merge.Merge(in, func(a, b any) int {
		if a == b {
			return 0
		}
		return 1
	}, Func(&Sum{}))

	p, err := it.Next()
	require.NoError(t, err)
	require.Equal(t, merge.Pair[any, any]{Key: "a", Value: int64(3)}, p)

	_, err = it.Next()
	var reduceErr *merge.ReduceError
	require.True(t, xerrors.As(err, &reduceErr))
	require.Equal(t, "b", reduceErr.Key)

	p, err = it.Next()
	require.NoError(t, err)
	require.Equal(t, merge.Pair[any, any]{Key: "c", Value: 1.5}, p)
}
