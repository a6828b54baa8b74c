package rows

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"go.ytsaurus.tech/yt/go/yson"
)

const (
	rankEntity = iota
	rankBool
	rankNumber
	rankString
	rankList
	rankMap
	rankOther
)

// CompareKeys is a total order over values decoded from YSON.
//
// Values of different kinds are ordered as entity < bool < number < string < list < map.
// Integers and floats are compared by exact value, NaN is the smallest number. Attributes are ignored.
func CompareKeys(a, b any) int {
	a, b = unwrapAttrs(a), unwrapAttrs(b)

	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch ra {
	case rankEntity:
		return 0
	case rankBool:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case rankNumber:
		return compareNumbers(a, b)
	case rankString:
		return bytes.Compare(asBytes(a), asBytes(b))
	case rankList:
		return slices.CompareFunc(a.([]any), b.([]any), CompareKeys)
	case rankMap:
		return compareMaps(a.(map[string]any), b.(map[string]any))
	default:
		return strings.Compare(fmt.Sprintf("%T:%v", a, a), fmt.Sprintf("%T:%v", b, b))
	}
}

func unwrapAttrs(v any) any {
	for {
		wa, ok := v.(*yson.ValueWithAttrs)
		if !ok || wa == nil {
			return v
		}
		v = wa.Value
	}
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return rankEntity
	case bool:
		return rankBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return rankNumber
	case string, []byte:
		return rankString
	case []any:
		return rankList
	case map[string]any:
		return rankMap
	default:
		return rankOther
	}
}

func asBytes(v any) []byte {
	if s, ok := v.(string); ok {
		return []byte(s)
	}
	return v.([]byte)
}

// number holds exactly one of the representations, selected by kind.
type number struct {
	kind int
	i    int64
	u    uint64
	f    float64
}

const (
	kindInt = iota
	kindUint
	kindFloat
)

func toNumber(v any) number {
	switch x := v.(type) {
	case int:
		return number{kind: kindInt, i: int64(x)}
	case int8:
		return number{kind: kindInt, i: int64(x)}
	case int16:
		return number{kind: kindInt, i: int64(x)}
	case int32:
		return number{kind: kindInt, i: int64(x)}
	case int64:
		return number{kind: kindInt, i: x}
	case uint:
		return number{kind: kindUint, u: uint64(x)}
	case uint8:
		return number{kind: kindUint, u: uint64(x)}
	case uint16:
		return number{kind: kindUint, u: uint64(x)}
	case uint32:
		return number{kind: kindUint, u: uint64(x)}
	case uint64:
		return number{kind: kindUint, u: x}
	case float32:
		return number{kind: kindFloat, f: float64(x)}
	default:
		return number{kind: kindFloat, f: x.(float64)}
	}
}

func compareNumbers(a, b any) int {
	x, y := toNumber(a), toNumber(b)

	switch {
	case x.kind == kindInt && y.kind == kindInt:
		return cmp.Compare(x.i, y.i)
	case x.kind == kindUint && y.kind == kindUint:
		return cmp.Compare(x.u, y.u)
	case x.kind == kindInt && y.kind == kindUint:
		if x.i < 0 || y.u > math.MaxInt64 {
			return -1
		}
		return cmp.Compare(x.i, int64(y.u))
	case x.kind == kindUint && y.kind == kindInt:
		return -compareNumbers(b, a)
	case x.kind == kindFloat && y.kind == kindFloat:
		return cmp.Compare(x.f, y.f)
	case x.kind == kindFloat:
		return -compareNumbers(b, a)
	case x.kind == kindInt:
		return compareIntFloat(x.i, y.f)
	default:
		return compareUintFloat(x.u, y.f)
	}
}

const (
	twoPow63 = 1 << 63
	twoPow64 = 1 << 64
)

// compareIntFloat compares i and f without rounding i to float64. NaN is less than any integer.
func compareIntFloat(i int64, f float64) int {
	switch {
	case math.IsNaN(f), f < math.MinInt64:
		return 1
	case f >= twoPow63:
		return -1
	}

	t := math.Trunc(f)
	if c := cmp.Compare(i, int64(t)); c != 0 {
		return c
	}
	return cmp.Compare(t, f)
}

func compareUintFloat(u uint64, f float64) int {
	switch {
	case math.IsNaN(f), f < 0:
		return 1
	case f >= twoPow64:
		return -1
	}

	t := math.Trunc(f)
	if c := cmp.Compare(u, uint64(t)); c != 0 {
		return c
	}
	return cmp.Compare(t, f)
}

func compareMaps(a, b map[string]any) int {
	ka := sortedKeys(a)
	kb := sortedKeys(b)

	for i := 0; i < len(ka) && i < len(kb); i++ {
		if c := strings.Compare(ka[i], kb[i]); c != 0 {
			return c
		}
		if c := CompareKeys(a[ka[i]], b[kb[i]]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(ka), len(kb))
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
