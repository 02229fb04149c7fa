package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/ports"
)

// RetentionRepository implements ports.RetentionStore on PostgreSQL.
type RetentionRepository struct {
	db *sql.DB
}

const (
	countPurgeableQuery = `
		SELECT
			(SELECT COUNT(*) FROM posts WHERE deleted_at < $1),
			(SELECT COUNT(*) FROM comments
			 WHERE deleted_at < $1
			    OR post_id IN (SELECT id FROM posts WHERE deleted_at < $1))`
	purgeCommentsQuery = `
		DELETE FROM comments
		WHERE deleted_at < $1
		   OR post_id IN (SELECT id FROM posts WHERE deleted_at < $1)`
	purgePostsQuery = `DELETE FROM posts WHERE deleted_at < $1`
)

func (r *RetentionRepository) CountPurgeable(ctx context.Context, threshold time.Time) (ports.PurgeCounts, error) {
	var counts ports.PurgeCounts
	if err := r.db.QueryRowContext(ctx, countPurgeableQuery, threshold).Scan(&counts.Posts, &counts.Comments); err != nil {
		return ports.PurgeCounts{}, fmt.Errorf("count purgeable: %w", err)
	}
	return counts, nil
}

// Purge deletes expired comments, the comments of expired posts and the
// expired posts in one transaction.
func (r *RetentionRepository) Purge(ctx context.Context, threshold time.Time) (counts ports.PurgeCounts, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return ports.PurgeCounts{}, fmt.Errorf("begin purge: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, purgeCommentsQuery, threshold)
	if err != nil {
		return ports.PurgeCounts{}, fmt.Errorf("purge comments: %w", err)
	}
	if counts.Comments, err = res.RowsAffected(); err != nil {
		return ports.PurgeCounts{}, fmt.Errorf("purge comments: %w", err)
	}

	res, err = tx.ExecContext(ctx, purgePostsQuery, threshold)
	if err != nil {
		return ports.PurgeCounts{}, fmt.Errorf("purge posts: %w", err)
	}
	if counts.Posts, err = res.RowsAffected(); err != nil {
		return ports.PurgeCounts{}, fmt.Errorf("purge posts: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return ports.PurgeCounts{}, fmt.Errorf("commit purge: %w", err)
	}
	return counts, nil
}
