package resource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ugur10/course-store/internal/record"
)

func TestCourseSchemaViolations(t *testing.T) {
	tests := []struct {
		name      string
		attrs     record.Attributes
		wantField string
		wantMsg   string
	}{
		{name: "missing name", attrs: record.Attributes{"author": "Hosein"}, wantField: "name", wantMsg: `"name" is required`},
		{name: "short name", attrs: record.Attributes{"name": "Go"}, wantField: "name", wantMsg: "at least 3 characters"},
		{name: "name wrong type", attrs: record.Attributes{"name": 42}, wantField: "name", wantMsg: "must be a string"},
		{name: "unknown category", attrs: record.Attributes{"name": "Go Basics", "category": "desktop"}, wantField: "category", wantMsg: "must be one of [web, mobile, network]"},
		{name: "slug pattern", attrs: record.Attributes{"name": "Go Basics", "slug": "Not A Slug"}, wantField: "slug", wantMsg: "fails to match the required pattern"},
		{name: "empty tags", attrs: record.Attributes{"name": "Go Basics", "tags": []string{}}, wantField: "tags", wantMsg: "A course should have at least one tag"},
		{name: "tags of numbers", attrs: record.Attributes{"name": "Go Basics", "tags": []any{1, 2}}, wantField: "tags", wantMsg: "must be an array of strings"},
		{name: "published without price", attrs: record.Attributes{"name": "Go Basics", "isPublished": true}, wantField: "price", wantMsg: `"price" is required when "isPublished" is true`},
		{name: "negative price", attrs: record.Attributes{"name": "Go Basics", "price": -1}, wantField: "price", wantMsg: "greater than or equal to 0"},
		{name: "price as text", attrs: record.Attributes{"name": "Go Basics", "price": "ten"}, wantField: "price", wantMsg: "must be a number"},
		{name: "bad date", attrs: record.Attributes{"name": "Go Basics", "date": "yesterday"}, wantField: "date", wantMsg: "must be a valid date"},
		{name: "undeclared field", attrs: record.Attributes{"name": "Go Basics", "rating": 5}, wantField: "rating", wantMsg: `"rating" is not allowed`},
		{name: "first violation wins", attrs: record.Attributes{"name": "Go", "category": "desktop"}, wantField: "name", wantMsg: "at least 3 characters"},
	}

	schema := CourseSchema()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := schema.Validate(tc.attrs)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.wantField, verr.Field)
			assert.Contains(t, verr.Message, tc.wantMsg)
		})
	}
}

func TestCourseSchemaNormalizes(t *testing.T) {
	attrs := record.Attributes{
		"name":        "Angular Course",
		"author":      "Hosein Bahmany",
		"tags":        []any{"frontend", "angular"},
		"date":        "2020-12-14",
		"isPublished": true,
		"price":       15,
		"notes":       nil,
	}

	got, err := CourseSchema().Validate(attrs)
	require.NoError(t, err)

	assert.Equal(t, []string{"frontend", "angular"}, got["tags"])
	assert.Equal(t, time.Date(2020, 12, 14, 0, 0, 0, 0, time.UTC), got["date"])
	assert.Equal(t, 15, got["price"])
	assert.NotContains(t, got, "notes")
	// input left untouched
	assert.Equal(t, "2020-12-14", attrs["date"])
}

func TestCourseSchemaDefaultsDate(t *testing.T) {
	before := time.Now().UTC()
	got, err := CourseSchema().Validate(record.Attributes{"name": "Go Basics"})
	require.NoError(t, err)

	date, ok := got["date"].(time.Time)
	require.True(t, ok)
	assert.False(t, date.Before(before))
}

func TestSchemaAllowUnknown(t *testing.T) {
	schema := Schema{
		Fields:       []Field{{Name: "name", Type: String, Required: true}},
		AllowUnknown: true,
	}

	got, err := schema.Validate(record.Attributes{"name": "Go", "extra": map[string]any{"k": "v"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": "v"}, got["extra"])
}

func TestSchemaMaxAndNumericBounds(t *testing.T) {
	schema := Schema{Fields: []Field{
		{Name: "code", Type: String, MaxLength: 4},
		{Name: "seats", Type: Number, Min: Num(1), Max: Num(30)},
	}}

	_, err := schema.Validate(record.Attributes{"code": "GO101"})
	assert.ErrorContains(t, err, "less than or equal to 4 characters")

	_, err = schema.Validate(record.Attributes{"seats": 31})
	assert.ErrorContains(t, err, "less than or equal to 30")

	_, err = schema.Validate(record.Attributes{"code": "GO1", "seats": 30.0})
	assert.NoError(t, err)
}

func TestNameSchema(t *testing.T) {
	_, err := NameSchema().Validate(record.Attributes{"name": "Go"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	got, err := NameSchema().Validate(record.Attributes{"name": "Go Basics"})
	require.NoError(t, err)
	assert.Equal(t, record.Attributes{"name": "Go Basics"}, got)
}

func TestSchemaReservesIDAttribute(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
	}{
		{name: "course schema", schema: CourseSchema()},
		{name: "open schema", schema: Schema{AllowUnknown: true}},
		{name: "declared id field", schema: Schema{Fields: []Field{{Name: record.IDField, Type: Number}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.schema.Validate(record.Attributes{"id": 99, "name": "Go Basics"})
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, record.IDField, verr.Field)
			assert.Equal(t, `"id" is not allowed`, verr.Message)
		})
	}
}

func TestCourseSchemaAcceptsSeedCourses(t *testing.T) {
	for _, seed := range SeedCourses() {
		_, err := CourseSchema().Validate(seed.Attributes)
		assert.NoError(t, err, "seed %d", seed.ID)
	}

	_, err := CourseSchema().Validate(record.Attributes{"name": "Go1"})
	assert.NoError(t, err, "name needs three characters and category is optional")
}
