package reducers

import (
	"math/bits"
	"slices"
	"strings"

	"golang.org/x/xerrors"

	"go.cubebuild.tech/sortmerge/rows"
)

func init() {
	RegisterAlias("concat", &Concat{})
	RegisterAlias("sum", &Sum{})
	RegisterAlias("count", &Count{})
	RegisterAlias("min", &Min{})
	RegisterAlias("max", &Max{})
	RegisterAlias("first", &First{})
	RegisterAlias("last", &Last{})
	RegisterAlias("list", &List{})
	RegisterAlias("distinct", &Distinct{})
}

// Concat joins string values.
type Concat struct {
	Separator string `yson:"separator"`
}

func (c *Concat) Reduce(values []any) (any, error) {
	parts := make([]string, len(values))
	for i, v := range values {
		switch s := v.(type) {
		case string:
			parts[i] = s
		case []byte:
			parts[i] = string(s)
		default:
			return nil, xerrors.Errorf("concat: value %d has type %T, expected string", i, v)
		}
	}
	return strings.Join(parts, c.Separator), nil
}

// Sum adds numeric values.
//
// Result is int64 when all values are signed, uint64 when all values are unsigned and float64 otherwise.
// Integer sum that does not fit its type is an error.
type Sum struct{}

func (*Sum) Reduce(values []any) (any, error) {
	var (
		i     int64
		u     uint64
		f     float64
		nInt  int
		nUint int

		// intCarry counts wraps of i, the total is exact when they cancel out.
		intCarry     int
		uintOverflow bool
	)

	for idx, v := range values {
		switch x := v.(type) {
		case int64:
			s := i + x
			switch {
			case x > 0 && s < i:
				intCarry++
			case x < 0 && s > i:
				intCarry--
			}
			i = s
			f += float64(x)
			nInt++
		case uint64:
			var carry uint64
			u, carry = bits.Add64(u, x, 0)
			uintOverflow = uintOverflow || carry != 0
			f += float64(x)
			nUint++
		case float64:
			f += x
		default:
			return nil, xerrors.Errorf("sum: value %d has type %T, expected number", idx, v)
		}
	}

	if nInt == len(values) {
		if intCarry != 0 {
			return nil, xerrors.Errorf("sum: int64 overflow of %d values", len(values))
		}
		return i, nil
	}
	if nUint == len(values) {
		if uintOverflow {
			return nil, xerrors.Errorf("sum: uint64 overflow of %d values", len(values))
		}
		return u, nil
	}
	return f, nil
}

// Count returns number of values.
type Count struct{}

func (*Count) Reduce(values []any) (any, error) {
	return int64(len(values)), nil
}

// Min returns the smallest value in rows.CompareKeys order.
type Min struct{}

func (*Min) Reduce(values []any) (any, error) {
	return slices.MinFunc(values, rows.CompareKeys), nil
}

// Max returns the largest value in rows.CompareKeys order.
type Max struct{}

func (*Max) Reduce(values []any) (any, error) {
	return slices.MaxFunc(values, rows.CompareKeys), nil
}

type First struct{}

func (*First) Reduce(values []any) (any, error) {
	return values[0], nil
}

type Last struct{}

func (*Last) Reduce(values []any) (any, error) {
	return values[len(values)-1], nil
}

// List returns all values of the group.
type List struct {
	// Limit truncates the list, zero means no limit.
	Limit int `yson:"limit"`
}

func (l *List) Reduce(values []any) (any, error) {
	if l.Limit < 0 {
		return nil, xerrors.Errorf("list: negative limit %d", l.Limit)
	}

	n := len(values)
	if l.Limit != 0 {
		n = min(n, l.Limit)
	}
	return slices.Clone(values[:n]), nil
}

// Distinct returns sorted list of unique values.
type Distinct struct{}

func (*Distinct) Reduce(values []any) (any, error) {
	out := slices.Clone(values)
	slices.SortStableFunc(out, rows.CompareKeys)
	return slices.CompactFunc(out, func(a, b any) bool {
		return rows.CompareKeys(a, b) == 0
	}), nil
}
