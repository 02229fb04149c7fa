package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/cache"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/ports"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/pkg/metrics"
)

const DefaultRetentionDays = 30

// RetentionService permanently purges resources soft-deleted longer than
// the retention window.
type RetentionService struct {
	store  ports.RetentionStore
	days   int
	cache  *cache.Layer
	logger zerolog.Logger
	clock
}

func NewRetentionService(store ports.RetentionStore, days int, layer *cache.Layer, logger zerolog.Logger, opts ...Option) *RetentionService {
	if days < 1 {
		days = DefaultRetentionDays
	}
	return &RetentionService{store: store, days: days, cache: layer, logger: logger, clock: newClock(opts)}
}

// RetentionDays returns the configured retention window.
func (s *RetentionService) RetentionDays() int {
	return s.days
}

// Run purges with the configured retention window.
func (s *RetentionService) Run(ctx context.Context) (*ports.RetentionResult, error) {
	return s.RunWithRetention(ctx, s.days)
}

// RunWithRetention purges every post and comment soft-deleted before
// now - days, plus the comments of purged posts. The batch commits as a
// whole or not at all, and is not interrupted by cancellation of ctx once
// started.
func (s *RetentionService) RunWithRetention(ctx context.Context, days int) (*ports.RetentionResult, error) {
	if days < 1 {
		return nil, fmt.Errorf("%w: retention days must be at least 1", domain.ErrInvalidInput)
	}
	start := time.Now()
	threshold := s.threshold(days)

	s.logger.Info().Int("retention_days", days).Time("threshold", threshold).Msg("retention cleanup started")

	counts, err := s.store.Purge(context.WithoutCancel(ctx), threshold)
	elapsed := time.Since(start)
	metrics.RetentionRunDuration.Observe(elapsed.Seconds())
	if err != nil {
		metrics.RetentionRunsTotal.WithLabelValues("failure").Inc()
		s.logger.Error().Err(err).Int("retention_days", days).Dur("duration", elapsed).Msg("retention cleanup failed")
		return nil, fmt.Errorf("retention purge: %w", err)
	}

	metrics.RetentionRunsTotal.WithLabelValues("success").Inc()
	metrics.RetentionPurgedTotal.WithLabelValues(string(domain.KindPost)).Add(float64(counts.Posts))
	metrics.RetentionPurgedTotal.WithLabelValues(string(domain.KindComment)).Add(float64(counts.Comments))

	if counts.Posts > 0 || counts.Comments > 0 {
		s.cache.EvictAll(ctx, cache.NamespacePosts, cache.NamespaceSearch, cache.NamespaceComments)
	}

	s.logger.Info().
		Int64("posts_purged", counts.Posts).
		Int64("comments_purged", counts.Comments).
		Dur("duration", elapsed).
		Msg("retention cleanup finished")

	return &ports.RetentionResult{
		PostsPurged:    counts.Posts,
		CommentsPurged: counts.Comments,
		RetentionDays:  days,
		Threshold:      threshold,
		Duration:       elapsed,
	}, nil
}

// Stats reports what Run would purge right now without changing anything.
func (s *RetentionService) Stats(ctx context.Context) (*ports.RetentionStats, error) {
	threshold := s.threshold(s.days)
	counts, err := s.store.CountPurgeable(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("retention stats: %w", err)
	}
	return &ports.RetentionStats{
		PostsToDelete:    counts.Posts,
		CommentsToDelete: counts.Comments,
		RetentionDays:    s.days,
		Threshold:        threshold,
	}, nil
}

func (s *RetentionService) threshold(days int) time.Time {
	return s.now().AddDate(0, 0, -days)
}
