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

const postColumns = "id, title, content, author_id, author_username, created_at, updated_at, created_by, updated_by, deleted_at, deleted_by"

type PostRepository struct {
	db *sql.DB
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var (
		p         domain.Post
		deletedAt sql.NullTime
		deletedBy sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.AuthorUsername,
		&p.CreatedAt, &p.UpdatedAt, &p.CreatedBy, &p.UpdatedBy, &deletedAt, &deletedBy); err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	p.SoftDelete = softDelete(deletedAt, deletedBy)
	return &p, nil
}

// Create inserts a new post and assigns its ID.
func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	id := uuid.NewString()
	const query = `
		INSERT INTO posts (id, title, content, author_id, author_username, created_at, updated_at, created_by, updated_by, deleted_at, deleted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query,
		id, post.Title, post.Content, post.AuthorID, post.AuthorUsername,
		post.CreatedAt, post.UpdatedAt, post.CreatedBy, post.UpdatedBy,
		nullTime(post.DeletedAt), nullString(post.DeletedBy))
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	post.ID = id
	return nil
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	if err := validID(domain.KindPost, post.ID); err != nil {
		return err
	}
	const query = `
		UPDATE posts
		SET title = $2, content = $3, updated_at = $4, updated_by = $5, deleted_at = $6, deleted_by = $7
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Content, post.UpdatedAt, post.UpdatedBy,
		nullTime(post.DeletedAt), nullString(post.DeletedBy))
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFound(domain.KindPost, post.ID)
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	return r.find(ctx, "SELECT "+postColumns+" FROM posts WHERE id = $1 AND deleted_at IS NULL", id)
}

func (r *PostRepository) FindByIDIncludingDeleted(ctx context.Context, id string) (*domain.Post, error) {
	return r.find(ctx, "SELECT "+postColumns+" FROM posts WHERE id = $1", id)
}

func (r *PostRepository) find(ctx context.Context, query, id string) (*domain.Post, error) {
	if err := validID(domain.KindPost, id); err != nil {
		return nil, err
	}
	p, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(domain.KindPost, id)
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return p, nil
}

func (r *PostRepository) List(ctx context.Context, filter ports.PostFilter, page domain.PageRequest) ([]*domain.Post, int64, error) {
	var w where
	if filter.OnlyDeleted {
		w.add("deleted_at IS NOT NULL")
	} else {
		w.add("deleted_at IS NULL")
	}
	if filter.AuthorID != "" {
		w.add("author_id = ?", filter.AuthorID)
	}
	if !filter.CreatedSince.IsZero() {
		w.add("created_at >= ?", filter.CreatedSince)
	}
	if filter.Keyword != "" {
		pattern := likePattern(filter.Keyword)
		w.add("(title ILIKE ? OR content ILIKE ?)", pattern, pattern)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts"+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	query := "SELECT " + postColumns + " FROM posts" + w.String()
	query += orderAndLimit(&w, page)
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return posts, total, nil
}

// Delete removes the post. Its comments go with it through the foreign key
// cascade.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	if err := validID(domain.KindPost, id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFound(domain.KindPost, id)
	}
	return nil
}
