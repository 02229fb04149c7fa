package ports

import (
	"context"
	"time"
)

// RetentionResult summarises one purge run.
type RetentionResult struct {
	PostsPurged    int64
	CommentsPurged int64
	RetentionDays  int
	Threshold      time.Time
	Duration       time.Duration
}

// RetentionStats describes what the next purge would remove. Computing it
// never mutates state.
type RetentionStats struct {
	PostsToDelete    int64
	CommentsToDelete int64
	RetentionDays    int
	Threshold        time.Time
}

// RetentionService permanently removes soft-deleted resources older than the
// retention window.
type RetentionService interface {
	Run(ctx context.Context) (*RetentionResult, error)
	RunWithRetention(ctx context.Context, days int) (*RetentionResult, error)
	Stats(ctx context.Context) (*RetentionStats, error)
}
