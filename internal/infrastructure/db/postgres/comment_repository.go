package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/ports"
)

const commentColumns = "id, post_id, body, author_id, author_username, created_at, updated_at, created_by, updated_by, deleted_at, deleted_by"

type CommentRepository struct {
	db *sql.DB
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	var (
		c         domain.Comment
		deletedAt sql.NullTime
		deletedBy sql.NullString
	)
	if err := row.Scan(&c.ID, &c.PostID, &c.Body, &c.AuthorID, &c.AuthorUsername,
		&c.CreatedAt, &c.UpdatedAt, &c.CreatedBy, &c.UpdatedBy, &deletedAt, &deletedBy); err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	c.SoftDelete = softDelete(deletedAt, deletedBy)
	return &c, nil
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if err := validID(domain.KindPost, comment.PostID); err != nil {
		return err
	}
	id := uuid.NewString()
	const query = `
		INSERT INTO comments (id, post_id, body, author_id, author_username, created_at, updated_at, created_by, updated_by, deleted_at, deleted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query,
		id, comment.PostID, comment.Body, comment.AuthorID, comment.AuthorUsername,
		comment.CreatedAt, comment.UpdatedAt, comment.CreatedBy, comment.UpdatedBy,
		nullTime(comment.DeletedAt), nullString(comment.DeletedBy))
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	comment.ID = id
	return nil
}

func (r *CommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	if err := validID(domain.KindComment, comment.ID); err != nil {
		return err
	}
	const query = `
		UPDATE comments
		SET body = $2, updated_at = $3, updated_by = $4, deleted_at = $5, deleted_by = $6
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.Body, comment.UpdatedAt, comment.UpdatedBy,
		nullTime(comment.DeletedAt), nullString(comment.DeletedBy))
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFound(domain.KindComment, comment.ID)
	}
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	return r.find(ctx, "SELECT "+commentColumns+" FROM comments WHERE id = $1 AND deleted_at IS NULL", id)
}

func (r *CommentRepository) FindByIDIncludingDeleted(ctx context.Context, id string) (*domain.Comment, error) {
	return r.find(ctx, "SELECT "+commentColumns+" FROM comments WHERE id = $1", id)
}

func (r *CommentRepository) find(ctx context.Context, query, id string) (*domain.Comment, error) {
	if err := validID(domain.KindComment, id); err != nil {
		return nil, err
	}
	c, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(domain.KindComment, id)
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return c, nil
}

func (r *CommentRepository) List(ctx context.Context, filter ports.CommentFilter, page domain.PageRequest) ([]*domain.Comment, int64, error) {
	var w where
	w.add("deleted_at IS NULL")
	if filter.PostID != "" {
		if _, err := uuid.Parse(filter.PostID); err != nil {
			return nil, 0, nil
		}
		w.add("post_id = ?", filter.PostID)
	}
	if filter.AuthorID != "" {
		w.add("author_id = ?", filter.AuthorID)
	}
	if filter.Keyword != "" {
		w.add("body ILIKE ?", likePattern(filter.Keyword))
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments"+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	query := "SELECT " + commentColumns + " FROM comments" + w.String()
	query += orderAndLimit(&w, page)
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return comments, total, nil
}
