package query

import (
	"fmt"
	"regexp"

	"github.com/ugur10/course-store/internal/record"
)

// Op names the test a Predicate applies to a field.
type Op string

const (
	OpEq    Op = "eq"
	OpNe    Op = "ne"
	OpIn    Op = "in"
	OpMatch Op = "match"
	OpRange Op = "range"
)

// Bound is one end of a range predicate.
type Bound struct {
	Value     any  `json:"value"`
	Inclusive bool `json:"inclusive"`
}

// Predicate is a single test on one field. It is a plain value so it can be
// decoded from a transport payload; Where compiles it before use.
type Predicate struct {
	Field   string `json:"field"`
	Op      Op     `json:"op"`
	Value   any    `json:"value"`
	Values  []any  `json:"values,omitempty"`
	Pattern string `json:"pattern,omitempty"`
	Min     *Bound `json:"min,omitempty"`
	Max     *Bound `json:"max,omitempty"`

	re *regexp.Regexp
}

// Eq matches records whose field equals v. A nil v matches records without the field.
func Eq(field string, v any) Predicate {
	return Predicate{Field: field, Op: OpEq, Value: v}
}

// Ne matches records whose field does not equal v.
func Ne(field string, v any) Predicate {
	return Predicate{Field: field, Op: OpNe, Value: v}
}

// In matches records whose field equals any of vs.
func In(field string, vs ...any) Predicate {
	return Predicate{Field: field, Op: OpIn, Values: vs}
}

// Match matches string fields against a regular expression in Go syntax.
// Use the (?i) flag for case-insensitive matching.
func Match(field, pattern string) Predicate {
	return Predicate{Field: field, Op: OpMatch, Pattern: pattern}
}

// MatchRegexp is Match with an already compiled expression.
func MatchRegexp(field string, re *regexp.Regexp) Predicate {
	return Predicate{Field: field, Op: OpMatch, Pattern: re.String(), re: re}
}

// Gt matches values strictly greater than v.
func Gt(field string, v any) Predicate {
	return Predicate{Field: field, Op: OpRange, Min: &Bound{Value: v}}
}

// Gte matches values greater than or equal to v.
func Gte(field string, v any) Predicate {
	return Predicate{Field: field, Op: OpRange, Min: &Bound{Value: v, Inclusive: true}}
}

// Lt matches values strictly less than v.
func Lt(field string, v any) Predicate {
	return Predicate{Field: field, Op: OpRange, Max: &Bound{Value: v}}
}

// Lte matches values less than or equal to v.
func Lte(field string, v any) Predicate {
	return Predicate{Field: field, Op: OpRange, Max: &Bound{Value: v, Inclusive: true}}
}

// Between matches values within [lo, hi], each end inclusive or exclusive as flagged.
func Between(field string, lo, hi any, loInclusive, hiInclusive bool) Predicate {
	return Predicate{
		Field: field,
		Op:    OpRange,
		Min:   &Bound{Value: lo, Inclusive: loInclusive},
		Max:   &Bound{Value: hi, Inclusive: hiInclusive},
	}
}

func (p Predicate) String() string {
	switch p.Op {
	case OpIn:
		return fmt.Sprintf("%s in %v", p.Field, p.Values)
	case OpMatch:
		return fmt.Sprintf("%s matches /%s/", p.Field, p.Pattern)
	case OpRange:
		s := p.Field
		if p.Min != nil {
			s += fmt.Sprintf(" %s %v", pick(p.Min.Inclusive, ">=", ">"), p.Min.Value)
		}
		if p.Max != nil {
			s += fmt.Sprintf(" %s %v", pick(p.Max.Inclusive, "<=", "<"), p.Max.Value)
		}
		return s
	default:
		return fmt.Sprintf("%s %s %v", p.Field, p.Op, p.Value)
	}
}

// compile validates p and prepares its regular expression.
func (p Predicate) compile() (Predicate, error) {
	if p.Field == "" {
		return p, invalid("where", "predicate field must not be empty")
	}
	switch p.Op {
	case OpEq, OpNe, OpIn:
	case OpMatch:
		if p.re == nil {
			re, err := regexp.Compile(p.Pattern)
			if err != nil {
				return p, invalid("where", "invalid pattern for %q: %v", p.Field, err)
			}
			p.re = re
		}
	case OpRange:
		if p.Min == nil && p.Max == nil {
			return p, invalid("where", "range on %q needs at least one bound", p.Field)
		}
	default:
		return p, invalid("where", "unknown operator %q on %q", p.Op, p.Field)
	}
	return p, nil
}

// matches evaluates a compiled predicate against r.
func (p Predicate) matches(r record.Record) bool {
	v, ok := r.Get(p.Field)
	switch p.Op {
	case OpEq:
		return equalValues(v, ok, p.Value)
	case OpNe:
		return !equalValues(v, ok, p.Value)
	case OpIn:
		for _, want := range p.Values {
			if equalValues(v, ok, want) {
				return true
			}
		}
		return false
	case OpMatch:
		if !ok {
			return false
		}
		if s, isString := v.(string); isString {
			return p.re.MatchString(s)
		}
		for _, item := range listOf(v) {
			if s, isString := item.(string); isString && p.re.MatchString(s) {
				return true
			}
		}
		return false
	case OpRange:
		if !ok {
			return false
		}
		if kindOf(v) == kindList {
			for _, item := range listOf(v) {
				if p.inRange(item) {
					return true
				}
			}
			return false
		}
		return p.inRange(v)
	}
	return false
}

func (p Predicate) inRange(v any) bool {
	if p.Min != nil && !boundHolds(v, p.Min, 1) {
		return false
	}
	if p.Max != nil && !boundHolds(v, p.Max, -1) {
		return false
	}
	return true
}

// boundHolds reports whether v lies on the side of b given by sign; values of
// a different kind than the bound never satisfy it.
func boundHolds(v any, b *Bound, sign int) bool {
	x, y := alignDates(v, b.Value)
	if kindOf(x) != kindOf(y) {
		return false
	}
	c := compareValues(x, y) * sign
	return c > 0 || (c == 0 && b.Inclusive)
}

func allMatch(preds []Predicate, r record.Record) bool {
	for _, p := range preds {
		if !p.matches(r) {
			return false
		}
	}
	return true
}

func pick[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
