package ports

import (
	"context"
	"time"
)

// PurgeCounts reports how many records a retention run affects.
type PurgeCounts struct {
	Posts    int64
	Comments int64
}

// RetentionStore selects and permanently removes soft-deleted resources.
type RetentionStore interface {
	// CountPurgeable counts posts and comments soft-deleted before threshold.
	CountPurgeable(ctx context.Context, threshold time.Time) (PurgeCounts, error)
	// Purge removes every post and comment soft-deleted before threshold,
	// together with the comments of purged posts, in a single transaction.
	// Nothing is removed when an error is returned.
	Purge(ctx context.Context, threshold time.Time) (PurgeCounts, error)
}
