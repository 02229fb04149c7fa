// Package postgres implements the repositories on PostgreSQL through
// database/sql and lib/pq. The schema is managed by golang-migrate with
// migrations embedded in the binary.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
)

const (
	driverName          = "postgres"
	defaultPingTimeout  = 5 * time.Second
	defaultConnMaxIdle  = 2 * time.Minute
	defaultConnMaxLife  = 30 * time.Minute
	defaultMaxIdleConns = 5
	defaultMaxOpenConns = 25

	uniqueViolation = "23505"
)

// Open connects to PostgreSQL and verifies the connection with a ping.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	db.SetConnMaxIdleTime(defaultConnMaxIdle)
	db.SetConnMaxLifetime(defaultConnMaxLife)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetMaxOpenConns(defaultMaxOpenConns)

	ctx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

// Store exposes the repositories sharing one connection pool.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() *UserRepository           { return &UserRepository{db: s.db} }
func (s *Store) Posts() *PostRepository           { return &PostRepository{db: s.db} }
func (s *Store) Comments() *CommentRepository     { return &CommentRepository{db: s.db} }
func (s *Store) Retention() *RetentionRepository { return &RetentionRepository{db: s.db} }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- helpers ---

// validID reports whether id can be a primary key. Anything else cannot
// exist and is reported as not found without a round trip.
func validID(kind domain.Kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.NotFound(kind, id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// where accumulates positional predicates.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

var sortColumns = map[string]string{
	"id":        "id",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"username":  "username",
	"body":      "body",
}

// orderAndLimit renders ORDER BY, LIMIT and OFFSET for page, appending the
// limit arguments to w.
func orderAndLimit(w *where, page domain.PageRequest) string {
	col, ok := sortColumns[page.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if page.Desc {
		dir = "DESC"
	}
	clause := fmt.Sprintf(" ORDER BY %s %s, id %s", col, dir, dir)
	if page.Size > 0 {
		w.args = append(w.args, page.Size, page.Offset())
		clause += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)-1, len(w.args))
	}
	return clause
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func likePattern(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func softDelete(at sql.NullTime, by sql.NullString) domain.SoftDelete {
	if !at.Valid {
		return domain.SoftDelete{}
	}
	t := at.Time.UTC()
	return domain.SoftDelete{DeletedAt: &t, DeletedBy: by.String}
}

type rowScanner interface {
	Scan(dest ...any) error
}
