// Package session owns the in-memory transaction list accumulated between
// uploads and the "finish" action. All mutation goes through a single mutex:
// an append and the full-list re-aggregation that follows it are observed as
// one atomic step by readers.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"spendy/internal/core"
	"spendy/internal/storage"
)

// ErrEmpty is returned by Finish when there is nothing to archive.
var ErrEmpty = errors.New("session has no data")

// IconPublisher queues asynchronous icon generation for a persona. It is
// optional: a nil publisher disables the feature.
type IconPublisher interface {
	PublishIconJob(ctx context.Context, snapshotID string, category core.Category, prompt string) error
}

// Session accumulates classified transactions and keeps their aggregation
// current. The zero analysis (no persona, empty totals) stands for
// "insufficient data".
type Session struct {
	store     storage.SnapshotStore
	publisher IconPublisher

	mu       sync.Mutex
	txs      []core.Transaction
	analysis core.Analysis
	invalid  bool
}

func New(store storage.SnapshotStore, publisher IconPublisher) *Session {
	return &Session{
		store:     store,
		publisher: publisher,
		analysis:  core.Analysis{Totals: map[core.Category]int64{}},
	}
}

// Append classifies each raw transaction, appends the batch and recomputes
// the aggregation over the complete accumulated list. Rows violating the
// ingestion contract are dropped and counted, not treated as errors: the
// adapters should already have filtered them. Returns the number of rows
// actually added.
func (s *Session) Append(ctx context.Context, batch []core.Transaction) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, t := range batch {
		if err := t.Validate(); err != nil {
			slog.WarnContext(ctx, "Dropping malformed transaction",
				"description", t.Description,
				"amount", t.Amount,
				"error", err)
			continue
		}
		t.Reclassified = core.Classify(t.Description, t.Hint)
		s.txs = append(s.txs, t)
		added++
	}

	if added > 0 {
		s.analysis = core.Aggregate(s.txs)
	}

	slog.InfoContext(ctx, "Batch appended to session",
		"added", added,
		"dropped", len(batch)-added,
		"total", len(s.txs))

	return added
}

// MarkInvalid records that an ingestion adapter rejected the uploaded batch
// as non-financial input. The persona is forced to the reserved invalid
// sentinel and totals to the single placeholder entry until the session is
// reset.
func (s *Session) MarkInvalid(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalid = true
	slog.WarnContext(ctx, "Session marked invalid")
}

// Result returns a copy of the current state: transactions, persona and
// totals are consistent with each other.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resultLocked()
}

func (s *Session) resultLocked() Result {
	analysis := s.analysis
	if s.invalid {
		analysis = core.InvalidAnalysis()
	}

	txs := append([]core.Transaction(nil), s.txs...)
	totals := make(map[core.Category]int64, len(analysis.Totals))
	for k, v := range analysis.Totals {
		totals[k] = v
	}

	return Result{
		Transactions: txs,
		Persona:      analysis.Persona,
		Totals:       totals,
	}
}

// Result is a consistent read of the session state.
type Result struct {
	Transactions []core.Transaction
	Persona      core.Category
	Totals       map[core.Category]int64
}

// HasPersona reports whether the session has enough data for a persona.
func (r Result) HasPersona() bool {
	return r.Persona != ""
}

// Reset discards the accumulated list and any invalid marker.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.txs = nil
	s.analysis = core.Analysis{Totals: map[core.Category]int64{}}
	s.invalid = false
}

// Finish archives the current state as an immutable snapshot, queues icon
// generation for the persona and resets the session for the next analysis.
// The snapshot id is the creation time in unix milliseconds, matching the
// ids of previously archived versions.
func (s *Session) Finish(ctx context.Context) (storage.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.resultLocked()
	if len(result.Transactions) == 0 && !s.invalid {
		return storage.Snapshot{}, ErrEmpty
	}

	now := time.Now()
	snap := storage.Snapshot{
		ID:           strconv.FormatInt(now.UnixMilli(), 10),
		CreatedAt:    now.UTC(),
		Transactions: result.Transactions,
		Persona:      result.Persona,
		Totals:       result.Totals,
	}

	if err := s.store.Save(ctx, snap); err != nil {
		return storage.Snapshot{}, fmt.Errorf("save snapshot: %w", err)
	}

	if s.publisher != nil && snap.Persona != "" {
		prompt := core.MetadataFor(snap.Persona).IconPrompt
		if err := s.publisher.PublishIconJob(ctx, snap.ID, snap.Persona, prompt); err != nil {
			// Icon generation is best-effort; the snapshot is already saved.
			slog.ErrorContext(ctx, "Failed to publish icon job",
				"snapshot_id", snap.ID,
				"persona", snap.Persona,
				"error", err)
		}
	}

	s.resetLocked()

	slog.InfoContext(ctx, "Session archived",
		"snapshot_id", snap.ID,
		"persona", snap.Persona,
		"transaction_count", len(snap.Transactions))

	return snap, nil
}

// Count returns the number of accumulated transactions.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.txs)
}
