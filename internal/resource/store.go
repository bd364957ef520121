package resource

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/ugur10/course-store/internal/record"
	"go.uber.org/zap"
)

// Compile-time assertion that Store satisfies Repository.
var _ Repository = (*Store)(nil)

// Store provides an in-memory implementation of Repository.
//
// Identifiers come from a high-water mark: a fresh store hands out 1, and every
// later create gets one more than the largest identifier the store has ever
// held, so deleted identifiers are never reassigned.
type Store struct {
	mu       sync.RWMutex
	schema   Schema
	records  map[int64]record.Record
	order    []int64
	nextID   int64
	logger   *zap.Logger
	observer Observer
}

// Option configures a Store.
type Option func(*storeOptions)

type storeOptions struct {
	seed     []record.Record
	logger   *zap.Logger
	observer Observer
}

// WithSeed pre-populates the store. Records keep their identifiers; a zero
// identifier is replaced by the next free one.
func WithSeed(records []record.Record) Option {
	return func(o *storeOptions) { o.seed = records }
}

// WithLogger sets the logger used for debug output on successful mutations.
func WithLogger(logger *zap.Logger) Option {
	return func(o *storeOptions) { o.logger = logger }
}

// WithObserver reports operation outcomes and store size to o.
func WithObserver(o Observer) Option {
	return func(so *storeOptions) { so.observer = o }
}

// NewStore constructs a Store enforcing schema. Seed records must satisfy the
// schema and carry distinct identifiers.
func NewStore(schema Schema, opts ...Option) (*Store, error) {
	o := storeOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{
		schema:   schema,
		records:  make(map[int64]record.Record, len(o.seed)),
		nextID:   1,
		logger:   o.logger,
		observer: o.observer,
	}
	if err := s.load(State{Records: o.seed}); err != nil {
		return nil, fmt.Errorf("seed store: %w", err)
	}
	s.observeSize()
	return s, nil
}

// Schema returns the schema the store enforces.
func (s *Store) Schema() Schema {
	return s.schema
}

// List returns all records in insertion order.
func (s *Store) List(_ context.Context) ([]record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.observe("list", nil)
	return s.snapshotLocked(), nil
}

// Count returns the number of records currently held.
func (s *Store) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}

// Get retrieves a record by its identifier.
func (s *Store) Get(_ context.Context, id int64) (record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return record.Record{}, s.observe("get", &NotFoundError{ID: id})
	}
	s.observe("get", nil)
	return rec.Clone(), nil
}

// Create validates attrs and adds a new record, assigning the next identifier.
func (s *Store) Create(_ context.Context, attrs record.Attributes) (record.Record, error) {
	valid, err := s.schema.Validate(attrs)
	if err != nil {
		return record.Record{}, s.observe("create", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := record.Record{ID: s.nextID, Attributes: valid}
	s.nextID++
	s.records[rec.ID] = rec
	s.order = append(s.order, rec.ID)

	s.logger.Debug("record created", zap.Int64("id", rec.ID))
	s.observe("create", nil)
	s.observeSize()
	return rec.Clone(), nil
}

// Update replaces all attributes of the record with the given identifier.
// A missing record is reported before any validation failure.
func (s *Store) Update(_ context.Context, id int64, attrs record.Attributes) (record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return record.Record{}, s.observe("update", &NotFoundError{ID: id})
	}
	rec, err := s.replaceLocked(id, attrs)
	return rec, s.observe("update", err)
}

// Patch merges partial over the current attributes and validates the result
// before replacing them.
func (s *Store) Patch(_ context.Context, id int64, partial record.Attributes) (record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[id]
	if !ok {
		return record.Record{}, s.observe("patch", &NotFoundError{ID: id})
	}
	rec, err := s.replaceLocked(id, current.Attributes.Merge(partial))
	return rec, s.observe("patch", err)
}

// Delete removes and returns the record with the given identifier.
func (s *Store) Delete(_ context.Context, id int64) (record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return record.Record{}, s.observe("delete", &NotFoundError{ID: id})
	}
	delete(s.records, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}

	s.logger.Debug("record deleted", zap.Int64("id", id))
	s.observe("delete", nil)
	s.observeSize()
	return rec, nil
}

// Query takes a snapshot under the read lock and evaluates q outside of it.
func (s *Store) Query(_ context.Context, q Evaluator) ([]record.Record, error) {
	s.mu.RLock()
	snapshot := s.snapshotLocked()
	s.mu.RUnlock()

	result, err := q.Evaluate(snapshot)
	return result, s.observe("query", err)
}

// Export returns a copy of the store state.
func (s *Store) Export(_ context.Context) State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return State{NextID: s.nextID, Records: s.snapshotLocked()}
}

// Import replaces the store contents with state. Every record is validated
// first; on failure the store is left untouched.
func (s *Store) Import(_ context.Context, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := &Store{schema: s.schema, records: make(map[int64]record.Record, len(state.Records)), nextID: 1}
	if err := next.load(state); err != nil {
		return s.observe("import", err)
	}
	s.records, s.order, s.nextID = next.records, next.order, next.nextID

	s.logger.Debug("store imported", zap.Int("records", len(s.order)), zap.Int64("nextId", s.nextID))
	s.observe("import", nil)
	s.observeSize()
	return nil
}

// load fills an empty store. Callers hold the lock or own s exclusively.
func (s *Store) load(state State) error {
	pending := make([]record.Record, 0, len(state.Records))
	for _, rec := range state.Records {
		valid, err := s.schema.Validate(rec.Attributes)
		if err != nil {
			return fmt.Errorf("record %d: %w", rec.ID, err)
		}
		if rec.ID < 0 {
			return fmt.Errorf("record id %d is negative", rec.ID)
		}
		if rec.ID > 0 {
			if _, dup := s.records[rec.ID]; dup {
				return fmt.Errorf("duplicate record id %d", rec.ID)
			}
			s.nextID = max(s.nextID, rec.ID+1)
		}
		rec.Attributes = valid
		s.records[rec.ID] = rec
		pending = append(pending, rec)
	}
	delete(s.records, 0)
	s.nextID = max(s.nextID, state.NextID)

	for _, rec := range pending {
		if rec.ID == 0 {
			rec.ID = s.nextID
			s.nextID++
			s.records[rec.ID] = rec
		}
		s.order = append(s.order, rec.ID)
	}
	return nil
}

func (s *Store) replaceLocked(id int64, attrs record.Attributes) (record.Record, error) {
	valid, err := s.schema.Validate(attrs)
	if err != nil {
		return record.Record{}, err
	}
	rec := record.Record{ID: id, Attributes: valid}
	s.records[id] = rec

	s.logger.Debug("record updated", zap.Int64("id", id))
	return rec.Clone(), nil
}

func (s *Store) snapshotLocked() []record.Record {
	out := make([]record.Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id].Clone())
	}
	return out
}

func (s *Store) observe(op string, err error) error {
	if s.observer != nil {
		s.observer.ObserveOperation(op, err)
	}
	return err
}

func (s *Store) observeSize() {
	if s.observer != nil {
		s.observer.ObserveSize(len(s.order))
	}
}
