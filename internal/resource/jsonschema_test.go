package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ugur10/course-store/internal/record"
)

const courseDocument = `{
	"type": "object",
	"required": ["author"],
	"properties": {
		"author": {"type": "string", "minLength": 1},
		"price": {"type": "number", "multipleOf": 0.5}
	}
}`

func TestCompileJSONSchema(t *testing.T) {
	_, err := CompileJSONSchema(`{"type": 12}`)
	assert.ErrorContains(t, err, "invalid json schema")

	doc, err := CompileJSONSchema(courseDocument)
	require.NoError(t, err)
	assert.Equal(t, courseDocument, doc.Source())
}

func TestSchemaDocumentRunsAfterFieldRules(t *testing.T) {
	doc, err := CompileJSONSchema(courseDocument)
	require.NoError(t, err)

	schema := CourseSchema()
	schema.Document = doc
	store, err := NewStore(schema)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Create(ctx, record.Attributes{"name": "Go"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field, "field rules report first")

	_, err = store.Create(ctx, record.Attributes{"name": "Go Basics"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "author", verr.Field)

	_, err = store.Create(ctx, record.Attributes{"name": "Go Basics", "author": "Hosein", "price": 10.25})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "price", verr.Field)

	created, err := store.Create(ctx, record.Attributes{"name": "Go Basics", "author": "Hosein", "price": 10.5})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, 1, store.Count(ctx))
}
