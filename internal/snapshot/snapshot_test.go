package snapshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ugur10/course-store/internal/record"
	"github.com/ugur10/course-store/internal/resource"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSaveLoadKeepsIDsAndCounter(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	src, err := resource.NewStore(resource.NameSchema(), resource.WithSeed(resource.SeedCourses()))
	require.NoError(t, err)
	_, err = src.Delete(ctx, 4)
	require.NoError(t, err)
	require.NoError(t, db.Save(ctx, "courses", src))

	dst, err := resource.NewStore(resource.NameSchema())
	require.NoError(t, err)
	ok, err := db.Load(ctx, "courses", dst)
	require.NoError(t, err)
	require.True(t, ok)

	want, err := src.List(ctx)
	require.NoError(t, err)
	got, err := dst.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	next, err := dst.Create(ctx, record.Attributes{"name": "Course 5"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), next.ID)
}

func TestSaveReplacesEarlierSnapshot(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	store, err := resource.NewStore(resource.NameSchema(), resource.WithSeed(resource.SeedCourses()))
	require.NoError(t, err)
	require.NoError(t, db.Save(ctx, "courses", store))

	_, err = store.Delete(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, db.Save(ctx, "courses", store))

	restored, err := resource.NewStore(resource.NameSchema())
	require.NoError(t, err)
	_, err = db.Load(ctx, "courses", restored)
	require.NoError(t, err)
	assert.Equal(t, 3, restored.Count(ctx))
}

func TestLoadRestoresCourseTypes(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	day := time.Date(2020, 12, 14, 0, 0, 0, 0, time.UTC)

	src, err := resource.NewStore(resource.CourseSchema())
	require.NoError(t, err)
	_, err = src.Create(ctx, record.Attributes{"name": "Angular Course", "tags": []string{"frontend"}, "date": day, "isPublished": true, "price": 15})
	require.NoError(t, err)
	require.NoError(t, db.Save(ctx, "courses", src))

	dst, err := resource.NewStore(resource.CourseSchema())
	require.NoError(t, err)
	_, err = db.Load(ctx, "courses", dst)
	require.NoError(t, err)

	got, err := dst.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"frontend"}, got.Attributes["tags"])
	assert.True(t, day.Equal(got.Attributes["date"].(time.Time)))
	assert.EqualValues(t, 15, got.Attributes["price"])
}

func TestLoadMissingSnapshot(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	store, err := resource.NewStore(resource.NameSchema(), resource.WithSeed(resource.SeedCourses()))
	require.NoError(t, err)

	ok, err := db.Load(ctx, "unknown", store)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 4, store.Count(ctx))
}

func TestLoadRejectsInvalidSnapshot(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	loose, err := resource.NewStore(resource.Schema{AllowUnknown: true})
	require.NoError(t, err)
	_, err = loose.Create(ctx, record.Attributes{"title": "no name"})
	require.NoError(t, err)
	require.NoError(t, db.Save(ctx, "courses", loose))

	strict, err := resource.NewStore(resource.NameSchema())
	require.NoError(t, err)
	ok, err := db.Load(ctx, "courses", strict)
	assert.False(t, ok)
	assert.ErrorIs(t, err, resource.ErrValidation)
	assert.Zero(t, strict.Count(ctx))
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
