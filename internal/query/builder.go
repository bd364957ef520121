// Package query composes filter, sort, pagination and projection over any
// sequence of records.
//
// A Builder is immutable: every method returns a new Builder and never touches
// the receiver, so one builder can be reused and extended by several callers
// at once. Parameter errors are sticky and surface from Evaluate before the
// source is read.
//
//	q := query.New().
//		Where(query.Eq("isPublished", true)).
//		OrWhere([]query.Predicate{query.Match("name", "(?i)by")}, []query.Predicate{query.Gte("price", 15)}).
//		SortBy("price", query.Desc).
//		Select("name", "author", "price")
package query

import (
	"iter"
	"slices"
	"strings"

	"github.com/ugur10/course-store/internal/record"
)

// Direction is the order of a sort.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Builder describes a query. The zero value matches every record.
type Builder struct {
	where    []Predicate
	or       [][]Predicate
	sort     *SortKey
	skip     int
	limit    int
	hasLimit bool
	fields   []string
	proj     projection
	err      error
}

type projection struct {
	active    bool
	inclusive bool
	include   []string
	exclude   map[string]struct{}
	dropID    bool
}

// New returns an empty builder.
func New() Builder {
	return Builder{}
}

// Err returns the first parameter error recorded by the builder.
func (b Builder) Err() error {
	return b.err
}

// Where adds predicates to the AND group.
func (b Builder) Where(preds ...Predicate) Builder {
	compiled, err := compileAll(preds)
	if err != nil {
		return b.fail(err)
	}
	b.where = append(slices.Clip(b.where), compiled...)
	return b
}

// OrWhere adds alternative predicate groups. A record is admitted when it
// satisfies the AND group or every predicate of any one group. Without AND
// predicates only the groups admit records.
func (b Builder) OrWhere(groups ...[]Predicate) Builder {
	add := make([][]Predicate, 0, len(groups))
	for _, g := range groups {
		if len(g) == 0 {
			return b.fail(invalid("or", "predicate group must not be empty"))
		}
		compiled, err := compileAll(g)
		if err != nil {
			return b.fail(err)
		}
		add = append(add, compiled)
	}
	b.or = append(slices.Clip(b.or), add...)
	return b
}

// SortBy sets the single sort key. Ties keep their source order.
func (b Builder) SortBy(field string, dir Direction) Builder {
	if field == "" {
		return b.fail(invalid("sort", "field must not be empty"))
	}
	if dir != Asc && dir != Desc {
		return b.fail(invalid("sort", "unknown direction %d", dir))
	}
	b.sort = &SortKey{Field: field, Desc: dir == Desc}
	return b
}

// Skip drops the first n matching records.
func (b Builder) Skip(n int) Builder {
	if n < 0 {
		return b.fail(invalid("skip", "must not be negative, got %d", n))
	}
	b.skip = n
	return b
}

// Limit caps the result at n records. Limit(0) yields an empty result.
func (b Builder) Limit(n int) Builder {
	if n < 0 {
		return b.fail(invalid("limit", "must not be negative, got %d", n))
	}
	b.limit, b.hasLimit = n, true
	return b
}

// Page selects the 1-based page number of the given size.
func (b Builder) Page(number, size int) Builder {
	if number < 1 {
		return b.fail(invalid("page", "must be at least 1, got %d", number))
	}
	if size < 0 {
		return b.fail(invalid("size", "must not be negative, got %d", size))
	}
	return b.Skip((number - 1) * size).Limit(size)
}

// Select restricts the attributes of each result. Plain names form an
// inclusion list, names prefixed with "-" an exclusion list. The identifier is
// kept unless "-id" is given. Inclusions and exclusions other than "-id" cannot
// be mixed. Select with no fields restores the full record.
func (b Builder) Select(fields ...string) Builder {
	p := projection{active: len(fields) > 0}
	for _, f := range fields {
		name, excluded := strings.CutPrefix(f, "-")
		switch {
		case name == "":
			return b.fail(invalid("fields", "field name must not be empty"))
		case excluded && name == record.IDField:
			p.dropID = true
		case excluded:
			if p.exclude == nil {
				p.exclude = make(map[string]struct{})
			}
			p.exclude[name] = struct{}{}
		default:
			p.inclusive = true
			if name != record.IDField {
				p.include = append(p.include, name)
			}
		}
	}
	if p.inclusive && len(p.exclude) > 0 {
		return b.fail(invalid("fields", "cannot mix inclusion and exclusion"))
	}
	b.fields = slices.Clone(fields)
	b.proj = p
	return b
}

// Evaluate applies filter, stable sort, skip, limit and projection to source,
// in that order. Neither source nor b is modified.
func (b Builder) Evaluate(source []record.Record) ([]record.Record, error) {
	if b.err != nil {
		return nil, b.err
	}

	matched := make([]record.Record, 0, len(source))
	for _, r := range source {
		if b.admits(r) {
			matched = append(matched, r)
		}
	}

	if b.sort != nil {
		key := b.sort
		slices.SortStableFunc(matched, func(x, y record.Record) int {
			xv, _ := x.Get(key.Field)
			yv, _ := y.Get(key.Field)
			c := compareValues(xv, yv)
			if key.Desc {
				return -c
			}
			return c
		})
	}

	start := min(b.skip, len(matched))
	end := len(matched)
	if b.hasLimit {
		end = min(start+b.limit, end)
	}

	out := make([]record.Record, 0, end-start)
	for _, r := range matched[start:end] {
		out = append(out, b.project(r))
	}
	return out, nil
}

// EvaluateSeq is Evaluate over an iterator. The sequence is not consumed when
// the builder holds an error.
func (b Builder) EvaluateSeq(seq iter.Seq[record.Record]) ([]record.Record, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.Evaluate(slices.Collect(seq))
}

func (b Builder) admits(r record.Record) bool {
	if len(b.or) == 0 {
		return allMatch(b.where, r)
	}
	if len(b.where) > 0 && allMatch(b.where, r) {
		return true
	}
	for _, g := range b.or {
		if allMatch(g, r) {
			return true
		}
	}
	return false
}

func (b Builder) project(r record.Record) record.Record {
	if !b.proj.active {
		return r.Clone()
	}

	out := record.Record{ID: r.ID}
	if b.proj.dropID {
		out.ID = 0
	}
	switch {
	case b.proj.inclusive:
		out.Attributes = make(record.Attributes, len(b.proj.include))
		for _, f := range b.proj.include {
			if v, ok := r.Attributes[f]; ok {
				out.Attributes[f] = v
			}
		}
		out.Attributes = out.Attributes.Clone()
	default:
		out.Attributes = r.Attributes.Clone()
		for f := range b.proj.exclude {
			delete(out.Attributes, f)
		}
	}
	return out
}

func (b Builder) fail(err error) Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func compileAll(preds []Predicate) ([]Predicate, error) {
	out := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		c, err := p.compile()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
