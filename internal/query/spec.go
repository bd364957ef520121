package query

import "slices"

// SortKey is the single sort field of a query.
type SortKey struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc,omitempty"`
}

// Spec is the plain-value form of a Builder, suitable for a transport payload.
type Spec struct {
	Where  []Predicate   `json:"where,omitempty"`
	Or     [][]Predicate `json:"or,omitempty"`
	Sort   *SortKey      `json:"sort,omitempty"`
	Skip   int           `json:"skip,omitempty"`
	Limit  *int          `json:"limit,omitempty"`
	Fields []string      `json:"fields,omitempty"`
}

// Spec returns the plain-value description of b.
func (b Builder) Spec() Spec {
	s := Spec{
		Where:  slices.Clone(b.where),
		Skip:   b.skip,
		Fields: slices.Clone(b.fields),
	}
	for _, g := range b.or {
		s.Or = append(s.Or, slices.Clone(g))
	}
	if b.sort != nil {
		key := *b.sort
		s.Sort = &key
	}
	if b.hasLimit {
		limit := b.limit
		s.Limit = &limit
	}
	return s
}

// FromSpec builds a Builder from its plain-value form. Invalid parameters are
// reported by Err and Evaluate.
func FromSpec(s Spec) Builder {
	b := New()
	if len(s.Where) > 0 {
		b = b.Where(s.Where...)
	}
	if len(s.Or) > 0 {
		b = b.OrWhere(s.Or...)
	}
	if s.Sort != nil {
		b = b.SortBy(s.Sort.Field, pick(s.Sort.Desc, Desc, Asc))
	}
	b = b.Skip(s.Skip)
	if s.Limit != nil {
		b = b.Limit(*s.Limit)
	}
	if len(s.Fields) > 0 {
		b = b.Select(s.Fields...)
	}
	return b
}
