package httpapi

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/ugur10/course-store/internal/query"
)

// parseListQuery turns list parameters into a query:
//
//	where=field:op:value   AND predicate, repeatable
//	or=field:op:value;...  alternative group, repeatable
//	sort=field | -field
//	skip, limit, page, size, fields=a,b,-c
//
// op is one of eq, ne, gt, gte, lt, lte, match or in (values separated by "|").
func parseListQuery(values url.Values) (query.Builder, error) {
	q := query.New()

	for _, raw := range values["where"] {
		p, err := parsePredicate(raw)
		if err != nil {
			return q, err
		}
		q = q.Where(p)
	}

	for _, raw := range values["or"] {
		var group []query.Predicate
		for part := range strings.SplitSeq(raw, ";") {
			p, err := parsePredicate(part)
			if err != nil {
				return q, err
			}
			group = append(group, p)
		}
		q = q.OrWhere(group)
	}

	if sort := values.Get("sort"); sort != "" {
		field, desc := strings.CutPrefix(sort, "-")
		dir := query.Asc
		if desc {
			dir = query.Desc
		}
		q = q.SortBy(field, dir)
	}

	ints := map[string]int{}
	for _, name := range []string{"skip", "limit", "page", "size"} {
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, &query.InvalidQueryError{Param: name, Message: "must be an integer, got " + strconv.Quote(raw)}
		}
		ints[name] = n
	}

	if page, ok := ints["page"]; ok {
		size, hasSize := ints["size"]
		if !hasSize {
			size = defaultPageSize
		}
		q = q.Page(page, size)
	}
	if skip, ok := ints["skip"]; ok {
		q = q.Skip(skip)
	}
	if limit, ok := ints["limit"]; ok {
		q = q.Limit(limit)
	}

	if fields := values.Get("fields"); fields != "" {
		q = q.Select(strings.Split(fields, ",")...)
	}
	return q, q.Err()
}

const defaultPageSize = 10

func parsePredicate(raw string) (query.Predicate, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) != 3 {
		return query.Predicate{}, &query.InvalidQueryError{Param: "where", Message: "expected field:op:value, got " + strconv.Quote(raw)}
	}
	field, op, value := parts[0], parts[1], parts[2]

	switch op {
	case "eq":
		return query.Eq(field, parseScalar(value)), nil
	case "ne":
		return query.Ne(field, parseScalar(value)), nil
	case "gt":
		return query.Gt(field, parseScalar(value)), nil
	case "gte":
		return query.Gte(field, parseScalar(value)), nil
	case "lt":
		return query.Lt(field, parseScalar(value)), nil
	case "lte":
		return query.Lte(field, parseScalar(value)), nil
	case "match":
		return query.Match(field, value), nil
	case "in":
		var vs []any
		for v := range strings.SplitSeq(value, "|") {
			vs = append(vs, parseScalar(v))
		}
		return query.In(field, vs...), nil
	}
	return query.Predicate{}, &query.InvalidQueryError{Param: "where", Message: "unknown operator " + strconv.Quote(op)}
}

// parseScalar reads booleans, null and numbers; anything else stays a string.
func parseScalar(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
