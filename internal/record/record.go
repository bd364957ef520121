// Package record defines the shape shared by the resource store and the query
// builder: an identifier plus an open set of attributes.
package record

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/goccy/go-json"
	"github.com/tiendc/go-deepcopy"
)

// IDField is the attribute name under which the identifier appears in the
// plain-value form of a record and in queries.
const IDField = "id"

// Attributes maps field names to values. Values are strings, numbers, booleans,
// time.Time or []string in the course domain.
type Attributes map[string]any

// Record is a single entity held by a store. An ID of zero means the record
// carries no identifier, which only happens in query results that projected it away.
type Record struct {
	ID         int64
	Attributes Attributes
}

// New returns a record with the given identifier and a private copy of attrs.
func New(id int64, attrs Attributes) Record {
	return Record{ID: id, Attributes: attrs.Clone()}
}

// Get returns the value of field, resolving IDField to the identifier.
func (r Record) Get(field string) (any, bool) {
	if field == IDField {
		if r.ID == 0 {
			return nil, false
		}
		return r.ID, true
	}
	v, ok := r.Attributes[field]
	return v, ok
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	return Record{ID: r.ID, Attributes: r.Attributes.Clone()}
}

// Values returns the record as a flat mapping including the identifier.
func (r Record) Values() map[string]any {
	out := make(map[string]any, len(r.Attributes)+1)
	for k, v := range r.Attributes {
		out[k] = cloneValue(v)
	}
	if r.ID != 0 {
		out[IDField] = r.ID
	}
	return out
}

// MarshalJSON encodes the record as a flat object, omitting id when it is zero.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Values())
}

// UnmarshalJSON decodes a flat object. A present id must be a non-negative integer.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rec, err := FromValues(raw)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// FromValues builds a record from its flat form, the inverse of Values.
func FromValues(values map[string]any) (Record, error) {
	var rec Record
	attrs := make(Attributes, len(values))
	for k, v := range values {
		if k != IDField {
			attrs[k] = cloneValue(v)
			continue
		}
		id, err := toID(v)
		if err != nil {
			return Record{}, err
		}
		rec.ID = id
	}
	rec.Attributes = attrs
	return rec, nil
}

// Clone returns a deep copy of the attributes. A nil receiver yields nil.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = cloneValue(v)
	}
	return out
}

// Merge returns a copy of a with every entry of patch applied over it.
func (a Attributes) Merge(patch Attributes) Attributes {
	out := a.Clone()
	if out == nil {
		out = make(Attributes, len(patch))
	}
	maps.Copy(out, patch.Clone())
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case nil, string, bool, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return val
	case []string:
		return slices.Clone(val)
	case map[string]any:
		// nested JSON objects on schemas that allow arbitrary attributes
		var dst map[string]any
		if err := deepcopy.Copy(&dst, &val); err != nil {
			return val
		}
		return dst
	case []any:
		var dst []any
		if err := deepcopy.Copy(&dst, &val); err != nil {
			return val
		}
		return dst
	default:
		return val
	}
}

func toID(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		if n >= 0 {
			return n, nil
		}
	case int:
		if n >= 0 {
			return int64(n), nil
		}
	case float64:
		if n >= 0 && n == math.Trunc(n) && n <= math.MaxInt64 {
			return int64(n), nil
		}
	}
	return 0, fmt.Errorf("record: id must be a non-negative integer, got %v", v)
}
