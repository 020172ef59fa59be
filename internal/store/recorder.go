package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/roach88/reldir/internal/ir"
)

// IDGenerator produces run ids.
type IDGenerator interface {
	Generate() string
}

// Sequencer produces strictly increasing seq values.
type Sequencer interface {
	Next() int64
}

// UUIDv7Generator generates time-sortable UUIDv7 run ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Clock is a monotonic logical clock for run ordering.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClockAt creates a clock whose next value is start+1.
// Used to resume after the last recorded run.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Recorder stamps runs with an id and seq and writes them to a Store.
type Recorder struct {
	store *Store
	ids   IDGenerator
	clock Sequencer
	mu    sync.Mutex
}

// NewRecorder creates a recorder with the given generators. A nil ids uses
// UUIDv7Generator; a nil clock resumes after the store's last seq.
func NewRecorder(ctx context.Context, s *Store, ids IDGenerator, clock Sequencer) (*Recorder, error) {
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	if clock == nil {
		last, err := s.LastSeq(ctx)
		if err != nil {
			return nil, fmt.Errorf("new recorder: %w", err)
		}
		clock = NewClockAt(last)
	}
	return &Recorder{store: s, ids: ids, clock: clock}, nil
}

// Record fills in ID, Seq, QueryHash and versions, writes the run and
// returns the stored value.
func (r *Recorder) Record(ctx context.Context, run Run) (Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run.ID = r.ids.Generate()
	run.Seq = r.clock.Next()
	run.QueryHash = ir.QueryHash(run.Query)
	run.ToolVersion = ir.ToolVersion
	run.ModelVersion = ir.ModelVersion

	if err := r.store.WriteRun(ctx, run); err != nil {
		return Run{}, err
	}
	return run, nil
}
