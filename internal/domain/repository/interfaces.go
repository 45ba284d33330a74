package repository

import (
	"context"

	"TapeReader/internal/domain/models"
)

// PriceSource supplies the latest traded price for the configured pair.
// Implementations own their transport concerns (retries, timeouts, reconnects);
// the core only sees "a sample or an error".
type PriceSource interface {
	Fetch(ctx context.Context) (float64, error)
	Close() error
}

// Publisher fans a decision out to an external consumer. Transient delivery
// only; the in-memory history log stays the source of truth for one run.
type Publisher interface {
	PublishDecision(ctx context.Context, e models.HistoryEntry) error
	Close() error
}

// SnapshotMirror pushes the current read-only snapshot to an external store
// so display collaborators can read it without touching this process.
type SnapshotMirror interface {
	Store(ctx context.Context, s models.Snapshot) error
	Close() error
}

type Metrics interface {
	RecordFetch(result string)
	RecordLastPrice(price float64)
	RecordMomentum(sum float64)
	RecordConfirms(bull, bear int)
	RecordDecision(signal string)
	RecordCycleDuration(seconds float64)
	RecordCountdown(seconds float64)
}
