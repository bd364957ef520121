package resource

import (
	"regexp"
	"time"

	"github.com/ugur10/course-store/internal/record"
)

// Course categories accepted by CourseSchema.
var CourseCategories = []string{"web", "mobile", "network"}

// CourseSchema returns the rules for course records: a named, categorized course
// with at least one tag and a price whenever it is published.
func CourseSchema() Schema {
	return Schema{
		Fields: []Field{
			{Name: "name", Type: String, Required: true, MinLength: 3, MaxLength: 255},
			{Name: "category", Type: String, Enum: CourseCategories},
			{Name: "slug", Type: String, Pattern: SlugPattern},
			{Name: "author", Type: String},
			{Name: "tags", Type: StringList, NonEmpty: true, Message: "A course should have at least one tag"},
			{Name: "date", Type: Date, Default: func() any { return time.Now().UTC() }},
			{Name: "isPublished", Type: Boolean},
			{Name: "price", Type: Number, Min: Num(0), RequiredWhen: &Condition{Field: "isPublished", Equals: true}},
		},
	}
}

// NameSchema returns the minimal rule set used by the course router: a required
// name of at least three characters.
func NameSchema() Schema {
	return Schema{
		Fields: []Field{
			{Name: "name", Type: String, Required: true, MinLength: 3},
		},
	}
}

// SlugPattern matches lower-case, dash separated identifiers.
var SlugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// SeedCourses returns example courses to pre-populate a store.
func SeedCourses() []record.Record {
	return []record.Record{
		{ID: 1, Attributes: record.Attributes{"name": "Course 1"}},
		{ID: 2, Attributes: record.Attributes{"name": "Course 2"}},
		{ID: 3, Attributes: record.Attributes{"name": "Course 3"}},
		{ID: 4, Attributes: record.Attributes{"name": "Course 4"}},
	}
}
