package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ugur10/course-store/internal/record"
)

func TestCompareValuesOrdersKinds(t *testing.T) {
	now := time.Now()
	ordered := []any{nil, -1, 2.5, "a", "b", []string{"a"}, []string{"a", "b"}, false, true, now, now.Add(time.Second), struct{}{}}

	for i := range ordered {
		for j := range ordered {
			got := compareValues(ordered[i], ordered[j])
			switch {
			case i < j:
				assert.Negative(t, got, "%v < %v", ordered[i], ordered[j])
			case i > j:
				assert.Positive(t, got, "%v > %v", ordered[i], ordered[j])
			default:
				assert.Zero(t, got, "%v == %v", ordered[i], ordered[j])
			}
		}
	}
}

func TestDateTextAlignsOnlyInPredicates(t *testing.T) {
	day := time.Date(2020, 12, 14, 0, 0, 0, 0, time.UTC)

	assert.True(t, equalValues(day, true, "2020-12-14"))
	assert.True(t, equalValues([]any{day}, true, "2020-12-14T00:00:00Z"))
	assert.True(t, boundHolds(day, &Bound{Value: "2020-12-01"}, 1))
	assert.False(t, boundHolds(day, &Bound{Value: "not a date"}, 1))

	assert.Positive(t, compareValues(day, "2021-01-01"), "dates rank after strings when sorting")
	assert.Positive(t, compareValues(day, "not a date"))
}

func TestSortOrderIgnoresSourceOrder(t *testing.T) {
	values := []any{time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), "2020-01-01", "abc"}
	perms := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

	for _, perm := range perms {
		source := make([]record.Record, 0, len(perm))
		for _, i := range perm {
			source = append(source, record.Record{ID: int64(i + 1), Attributes: record.Attributes{"d": values[i]}})
		}

		got, err := New().SortBy("d", Asc).Evaluate(source)
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 3, 1}, ids(got), "source order %v", perm)
	}
}

func TestEqualValues(t *testing.T) {
	assert.True(t, equalValues(int64(3), true, 3.0))
	assert.True(t, equalValues(nil, false, nil))
	assert.False(t, equalValues("x", true, nil))
	assert.False(t, equalValues(nil, false, "x"))
	assert.True(t, equalValues([]string{"a", "b"}, true, "b"))
	assert.False(t, equalValues([]string{"a", "b"}, true, []any{"b"}))
	assert.True(t, equalValues([]any{"a", "b"}, true, []string{"a", "b"}))
}
