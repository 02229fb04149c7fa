package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/ports"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

// --- Retention ---

func TestRetentionPurgeCommits(t *testing.T) {
	store, mock := newMock(t)
	threshold := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM comments").WithArgs(threshold).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("DELETE FROM posts WHERE deleted_at < \\$1").WithArgs(threshold).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	counts, err := store.Retention().Purge(context.Background(), threshold)
	if err != nil {
		t.Fatalf("Purge() error: %v", err)
	}
	if counts.Posts != 2 || counts.Comments != 4 {
		t.Fatalf("expected 2 posts and 4 comments, got %+v", counts)
	}
	expectationsMet(t, mock)
}

func TestRetentionPurgeRollsBackOnFailure(t *testing.T) {
	store, mock := newMock(t)
	threshold := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM comments").WithArgs(threshold).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("DELETE FROM posts").WithArgs(threshold).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	counts, err := store.Retention().Purge(context.Background(), threshold)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if counts != (ports.PurgeCounts{}) {
		t.Fatalf("expected zero counts on failure, got %+v", counts)
	}
	expectationsMet(t, mock)
}

func TestRetentionCountPurgeable(t *testing.T) {
	store, mock := newMock(t)
	threshold := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT").WithArgs(threshold).
		WillReturnRows(sqlmock.NewRows([]string{"posts", "comments"}).AddRow(3, 7))

	counts, err := store.Retention().CountPurgeable(context.Background(), threshold)
	if err != nil {
		t.Fatalf("CountPurgeable() error: %v", err)
	}
	if counts.Posts != 3 || counts.Comments != 7 {
		t.Fatalf("unexpected counts %+v", counts)
	}
	expectationsMet(t, mock)
}

// --- Users ---

func TestUserCreateDuplicate(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec("INSERT INTO users").WillReturnError(&pq.Error{Code: "23505"})

	_, err := store.Users().Create(context.Background(), &domain.User{Username: "alice", Role: domain.RoleUser})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestUserFindByUsernameNotFound(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE lower(username) = lower($1)")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.Users().FindByUsername(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

// --- Posts ---

func TestPostFindByIDMalformedSkipsQuery(t *testing.T) {
	store, mock := newMock(t)

	_, err := store.Posts().FindByID(context.Background(), "not-a-uuid")
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) || nf.Kind != domain.KindPost {
		t.Fatalf("expected post NotFoundError, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestPostFindByIDExcludesDeleted(t *testing.T) {
	store, mock := newMock(t)
	id := "7f1c1a52-3a51-4c1e-9a44-0c3c2b8f6a10"

	mock.ExpectQuery(regexp.QuoteMeta("FROM posts WHERE id = $1 AND deleted_at IS NULL")).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := store.Posts().FindByID(context.Background(), id)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestPostFindByIDIncludingDeletedScansMarker(t *testing.T) {
	store, mock := newMock(t)
	id := "7f1c1a52-3a51-4c1e-9a44-0c3c2b8f6a10"
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	deleted := created.Add(time.Hour)

	rows := sqlmock.NewRows([]string{
		"id", "title", "content", "author_id", "author_username",
		"created_at", "updated_at", "created_by", "updated_by", "deleted_at", "deleted_by",
	}).AddRow(id, "t", "c", "u1", "alice", created, created, "alice", "alice", deleted, "alice")
	mock.ExpectQuery(regexp.QuoteMeta("FROM posts WHERE id = $1")).WithArgs(id).WillReturnRows(rows)

	p, err := store.Posts().FindByIDIncludingDeleted(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByIDIncludingDeleted() error: %v", err)
	}
	if !p.IsDeleted() || p.DeletedBy != "alice" || !p.DeletedAt.Equal(deleted) {
		t.Fatalf("expected deleted marker, got %+v", p.SoftDelete)
	}
	expectationsMet(t, mock)
}

func TestPostListBuildsFilteredQuery(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM posts WHERE deleted_at IS NULL AND author_id = $1 AND (title ILIKE $2 OR content ILIKE $3)")).
		WithArgs("u1", "%50\\%%", "%50\\%%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id DESC LIMIT $4 OFFSET $5")).
		WithArgs("u1", "%50\\%%", "%50\\%%", 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "content", "author_id", "author_username",
			"created_at", "updated_at", "created_by", "updated_by", "deleted_at", "deleted_by",
		}).AddRow("7f1c1a52-3a51-4c1e-9a44-0c3c2b8f6a10", "50% off", "c", "u1", "alice",
			time.Now(), time.Now(), "alice", "alice", nil, nil))

	page := domain.PageRequest{Page: 1, Size: 10, SortBy: "createdAt", Desc: true}
	posts, total, err := store.Posts().List(context.Background(), ports.PostFilter{AuthorID: "u1", Keyword: "50%"}, page)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if total != 11 || len(posts) != 1 {
		t.Fatalf("expected total 11 and one row, got %d and %d", total, len(posts))
	}
	if posts[0].IsDeleted() {
		t.Fatal("expected active post")
	}
	expectationsMet(t, mock)
}

func TestPostUpdateMissingRow(t *testing.T) {
	store, mock := newMock(t)
	id := "7f1c1a52-3a51-4c1e-9a44-0c3c2b8f6a10"

	mock.ExpectExec("UPDATE posts").WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Posts().Update(context.Background(), &domain.Post{ID: id, Title: "t"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}
