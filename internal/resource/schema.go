package resource

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ugur10/course-store/internal/record"
)

// FieldType is the declared type of an attribute.
type FieldType int

const (
	// Any accepts every value without conversion.
	Any FieldType = iota
	String
	Number
	Boolean
	// Date accepts time.Time or an RFC 3339 / YYYY-MM-DD string, stored as time.Time.
	Date
	// StringList accepts []string or a []any holding only strings, stored as []string.
	StringList
)

func (t FieldType) String() string {
	switch t {
	case String:
		return "a string"
	case Number:
		return "a number"
	case Boolean:
		return "a boolean"
	case Date:
		return "a valid date"
	case StringList:
		return "an array of strings"
	default:
		return "any value"
	}
}

// Condition makes a field required when another attribute equals a value.
type Condition struct {
	Field  string
	Equals any
}

// Field declares the constraints of one attribute. Zero values disable a
// constraint. Constraints are checked in declaration order of this struct.
type Field struct {
	Name         string
	Type         FieldType
	Required     bool
	RequiredWhen *Condition
	Enum         []string
	MinLength    int
	MaxLength    int
	Pattern      *regexp.Regexp
	Min          *float64
	Max          *float64
	// NonEmpty rejects an empty string or an empty list.
	NonEmpty bool
	// Message replaces the default message of the NonEmpty check.
	Message string
	// Default supplies a value when the attribute is missing.
	Default func() any
}

// Schema is the set of rules applied to attributes on every create and update.
type Schema struct {
	Fields       []Field
	AllowUnknown bool
	// Document is an optional JSON Schema checked after the field rules.
	Document *JSONSchema
}

// Num returns a pointer to v for use as Field.Min or Field.Max.
func Num(v float64) *float64 {
	return &v
}

// Validate checks attrs and returns a normalized copy, or the first violation.
// The identifier name is reserved and never accepted as an attribute.
func (s Schema) Validate(attrs record.Attributes) (record.Attributes, error) {
	out := attrs.Clone()
	if out == nil {
		out = make(record.Attributes)
	}
	for k, v := range out {
		if v == nil {
			delete(out, k)
		}
	}

	declared := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		declared[f.Name] = struct{}{}
		if _, ok := out[f.Name]; !ok && f.Default != nil {
			out[f.Name] = f.Default()
		}
	}

	for _, f := range s.Fields {
		v, present := out[f.Name]
		if !present {
			if f.Required {
				return nil, invalid(f.Name, "%q is required", f.Name)
			}
			if c := f.RequiredWhen; c != nil && conditionHolds(out, c) {
				return nil, invalid(f.Name, "%q is required when %q is %v", f.Name, c.Field, c.Equals)
			}
			continue
		}
		nv, err := f.check(v)
		if err != nil {
			return nil, err
		}
		out[f.Name] = nv
	}

	if _, ok := out[record.IDField]; ok {
		return nil, invalid(record.IDField, "%q is not allowed", record.IDField)
	}
	if !s.AllowUnknown {
		var unknown []string
		for k := range out {
			if _, ok := declared[k]; !ok {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			slices.Sort(unknown)
			return nil, invalid(unknown[0], "%q is not allowed", unknown[0])
		}
	}

	if s.Document != nil {
		if err := s.Document.validate(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (f Field) check(v any) (any, error) {
	nv, ok := coerce(f.Type, v)
	if !ok {
		return nil, invalid(f.Name, "%q must be %s", f.Name, f.Type)
	}

	if s, isString := nv.(string); isString {
		if len(f.Enum) > 0 && !slices.Contains(f.Enum, s) {
			return nil, invalid(f.Name, "%q must be one of [%s]", f.Name, strings.Join(f.Enum, ", "))
		}
		n := utf8.RuneCountInString(s)
		if f.MinLength > 0 && n < f.MinLength {
			return nil, invalid(f.Name, "%q length must be at least %d characters long", f.Name, f.MinLength)
		}
		if f.MaxLength > 0 && n > f.MaxLength {
			return nil, invalid(f.Name, "%q length must be less than or equal to %d characters long", f.Name, f.MaxLength)
		}
		if f.Pattern != nil && !f.Pattern.MatchString(s) {
			return nil, invalid(f.Name, "%q with value %q fails to match the required pattern: %s", f.Name, s, f.Pattern)
		}
	}

	if n, isNumber := toFloat(nv); isNumber {
		if f.Min != nil && n < *f.Min {
			return nil, invalid(f.Name, "%q must be greater than or equal to %v", f.Name, *f.Min)
		}
		if f.Max != nil && n > *f.Max {
			return nil, invalid(f.Name, "%q must be less than or equal to %v", f.Name, *f.Max)
		}
	}

	if f.NonEmpty && isEmpty(nv) {
		if f.Message != "" {
			return nil, invalid(f.Name, "%s", f.Message)
		}
		return nil, invalid(f.Name, "%q must not be empty", f.Name)
	}
	return nv, nil
}

func coerce(t FieldType, v any) (any, bool) {
	switch t {
	case String:
		s, ok := v.(string)
		return s, ok
	case Number:
		n, ok := toFloat(v)
		if !ok || math.IsNaN(n) {
			return nil, false
		}
		return v, true
	case Boolean:
		b, ok := v.(bool)
		return b, ok
	case Date:
		switch d := v.(type) {
		case time.Time:
			return d, true
		case string:
			for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
				if parsed, err := time.Parse(layout, d); err == nil {
					return parsed, true
				}
			}
		}
		return nil, false
	case StringList:
		switch l := v.(type) {
		case []string:
			return l, true
		case []any:
			out := make([]string, 0, len(l))
			for _, item := range l {
				s, ok := item.(string)
				if !ok {
					return nil, false
				}
				out = append(out, s)
			}
			return out, true
		}
		return nil, false
	default:
		return v, true
	}
}

func conditionHolds(attrs record.Attributes, c *Condition) bool {
	v, ok := attrs[c.Field]
	if !ok {
		return false
	}
	if a, isNum := toFloat(v); isNum {
		b, ok := toFloat(c.Equals)
		return ok && a == b
	}
	return fmt.Sprint(v) == fmt.Sprint(c.Equals)
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case string:
		return val == ""
	case []string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	}
	return false
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
