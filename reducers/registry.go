// Package reducers contains registry of named reducers over values decoded from YSON.
//
// Reducer is a struct type. Registry instantiates a fresh value for every lookup, so reducers may
// carry options decoded from YSON:
//
//	r, err := reducers.NewConfigured("concat", yson.RawValue(`{separator=","}`))
package reducers

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"golang.org/x/xerrors"

	"go.cubebuild.tech/sortmerge/merge"
	"go.ytsaurus.tech/yt/go/yson"
)

// Reducer folds non-empty list of values of a single key into one value.
type Reducer interface {
	Reduce(values []any) (any, error)
}

// ErrUnknownReducer is returned by New when name is not registered, even after legacy renames.
var ErrUnknownReducer = xerrors.New("unknown reducer")

const legacyPrefix = "legacy."

var (
	registry = map[string]reflect.Type{}

	// renames maps names used by older pipelines to current ones.
	renames = map[string]string{
		"concat_strings": "concat",
		"count_values":   "count",
		"collect":        "list",
	}

	cacheMu sync.Mutex
	cache   = map[string]reflect.Type{}
)

func structType(r Reducer) reflect.Type {
	t := reflect.TypeOf(r)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("reducer type must be a struct or pointer to a struct, but got %T", r))
	}
	return t
}

// Name returns registry name of r.
func Name(r Reducer) string {
	t := structType(r)
	return t.PkgPath() + "." + t.Name()
}

// Register adds type of r to the registry. Must be called from init().
func Register(r Reducer) {
	registry[Name(r)] = structType(r)
}

// RegisterAlias registers r under its full name and under alias.
func RegisterAlias(alias string, r Reducer) {
	Register(r)
	registry[alias] = structType(r)
}

// Names returns sorted list of registered names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func canonicalName(name string) string {
	name = strings.TrimPrefix(name, legacyPrefix)
	if renamed, ok := renames[name]; ok {
		return renamed
	}
	return name
}

func resolve(name string) (reflect.Type, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if t, ok := cache[name]; ok {
		return t, nil
	}

	t, ok := registry[canonicalName(name)]
	if !ok {
		return nil, xerrors.Errorf("reducers: %q: %w", name, ErrUnknownReducer)
	}

	cache[name] = t
	return t, nil
}

// New creates zero value of the reducer registered under name.
func New(name string) (Reducer, error) {
	t, err := resolve(name)
	if err != nil {
		return nil, err
	}

	return reflect.New(t).Interface().(Reducer), nil
}

// NewConfigured creates reducer and decodes params into it.
func NewConfigured(name string, params yson.RawValue) (Reducer, error) {
	r, err := New(name)
	if err != nil {
		return nil, err
	}

	if len(params) != 0 {
		if err := yson.Unmarshal(params, r); err != nil {
			return nil, xerrors.Errorf("reducers: invalid params of %q: %w", name, err)
		}
	}

	return r, nil
}

// Func adapts r to merge.Reducer.
func Func(r Reducer) merge.Reducer[any, any] {
	return r.Reduce
}
