// Package resource owns the authoritative set of records for one resource type:
// schema enforcement, identifier assignment and CRUD.
package resource

import (
	"context"

	"github.com/ugur10/course-store/internal/record"
)

// Repository describes the behaviour required for storing records of one resource type.
type Repository interface {
	List(ctx context.Context) ([]record.Record, error)
	Get(ctx context.Context, id int64) (record.Record, error)
	Create(ctx context.Context, attrs record.Attributes) (record.Record, error)
	Update(ctx context.Context, id int64, attrs record.Attributes) (record.Record, error)
	Patch(ctx context.Context, id int64, partial record.Attributes) (record.Record, error)
	Delete(ctx context.Context, id int64) (record.Record, error)
	Query(ctx context.Context, q Evaluator) ([]record.Record, error)
}

// Evaluator turns a snapshot of records into a result sequence. query.Builder
// satisfies it.
type Evaluator interface {
	Evaluate(source []record.Record) ([]record.Record, error)
}

// Observer receives the outcome of every store operation.
type Observer interface {
	ObserveOperation(op string, err error)
	ObserveSize(n int)
}

// State is a point-in-time export of a store, used to persist and restore it.
type State struct {
	NextID  int64           `json:"nextId"`
	Records []record.Record `json:"records"`
}
