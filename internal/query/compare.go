package query

import (
	"cmp"
	"fmt"
	"time"
)

// kind ranks values of different types against each other. Missing values
// sort before everything else.
type kind int

const (
	kindMissing kind = iota
	kindNumber
	kindString
	kindList
	kindBool
	kindDate
	kindOther
)

func kindOf(v any) kind {
	switch v.(type) {
	case nil:
		return kindMissing
	case string:
		return kindString
	case bool:
		return kindBool
	case time.Time:
		return kindDate
	case []string, []any:
		return kindList
	}
	if _, ok := toFloat(v); ok {
		return kindNumber
	}
	return kindOther
}

// compareValues orders any two attribute values: first by kind, then by value
// within the kind. Date text is a string here, so the order stays total.
func compareValues(a, b any) int {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return cmp.Compare(ka, kb)
	}

	switch ka {
	case kindMissing:
		return 0
	case kindNumber:
		x, _ := toFloat(a)
		y, _ := toFloat(b)
		return cmp.Compare(x, y)
	case kindString:
		return cmp.Compare(a.(string), b.(string))
	case kindBool:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case kindDate:
		return a.(time.Time).Compare(b.(time.Time))
	case kindList:
		x, y := listOf(a), listOf(b)
		for i := range min(len(x), len(y)) {
			if c := compareValues(x[i], y[i]); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(x), len(y))
	default:
		return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

// equalValues reports whether actual equals want. A list attribute equals a
// scalar when any element does.
func equalValues(actual any, present bool, want any) bool {
	if !present {
		return want == nil
	}
	if want == nil {
		return false
	}
	if kindOf(actual) == kindList && kindOf(want) != kindList {
		for _, item := range listOf(actual) {
			if compareValues(alignDates(item, want)) == 0 {
				return true
			}
		}
		return false
	}
	return compareValues(alignDates(actual, want)) == 0
}

// alignDates parses a string operand compared with a time.Time, so predicates
// given dates as RFC 3339 or YYYY-MM-DD text compare chronologically.
func alignDates(a, b any) (any, any) {
	if _, ok := a.(time.Time); ok {
		if s, isString := b.(string); isString {
			if t, ok := parseDate(s); ok {
				return a, t
			}
		}
	}
	if _, ok := b.(time.Time); ok {
		if s, isString := a.(string); isString {
			if t, ok := parseDate(s); ok {
				return t, b
			}
		}
	}
	return a, b
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func listOf(v any) []any {
	switch l := v.(type) {
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out
	case []any:
		return l
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
