package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/ports"
)

type CommentRepository struct {
	col *mongo.Collection
}

type commentDoc struct {
	ID             primitive.ObjectID `bson:"_id"`
	PostID         string             `bson:"post_id"`
	Body           string             `bson:"body"`
	AuthorID       string             `bson:"author_id"`
	AuthorUsername string             `bson:"author_username"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
	CreatedBy      string             `bson:"created_by,omitempty"`
	UpdatedBy      string             `bson:"updated_by,omitempty"`
	DeletedAt      *time.Time         `bson:"deleted_at"`
	DeletedBy      string             `bson:"deleted_by,omitempty"`
}

func newCommentDoc(id primitive.ObjectID, c *domain.Comment) commentDoc {
	return commentDoc{
		ID:             id,
		PostID:         c.PostID,
		Body:           c.Body,
		AuthorID:       c.AuthorID,
		AuthorUsername: c.AuthorUsername,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		CreatedBy:      c.CreatedBy,
		UpdatedBy:      c.UpdatedBy,
		DeletedAt:      c.DeletedAt,
		DeletedBy:      c.DeletedBy,
	}
}

func (d *commentDoc) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:             d.ID.Hex(),
		PostID:         d.PostID,
		Body:           d.Body,
		AuthorID:       d.AuthorID,
		AuthorUsername: d.AuthorUsername,
		Audit: domain.Audit{
			CreatedAt: d.CreatedAt.UTC(),
			UpdatedAt: d.UpdatedAt.UTC(),
			CreatedBy: d.CreatedBy,
			UpdatedBy: d.UpdatedBy,
		},
		SoftDelete: domain.SoftDelete{DeletedAt: utc(d.DeletedAt), DeletedBy: d.DeletedBy},
	}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id := primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, newCommentDoc(id, comment)); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	comment.ID = id.Hex()
	return nil
}

func (r *CommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	oid, err := objectID(domain.KindComment, comment.ID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, newCommentDoc(oid, comment))
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound(domain.KindComment, comment.ID)
	}
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	return r.find(ctx, id, true)
}

func (r *CommentRepository) FindByIDIncludingDeleted(ctx context.Context, id string) (*domain.Comment, error) {
	return r.find(ctx, id, false)
}

func (r *CommentRepository) find(ctx context.Context, id string, activeOnly bool) (*domain.Comment, error) {
	oid, err := objectID(domain.KindComment, id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid}
	if activeOnly {
		filter["deleted_at"] = nil
	}
	doc, err := findOne[commentDoc](ctx, r.col, filter, domain.KindComment, id)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *CommentRepository) List(ctx context.Context, filter ports.CommentFilter, page domain.PageRequest) ([]*domain.Comment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := bson.M{"deleted_at": nil}
	if filter.PostID != "" {
		q["post_id"] = filter.PostID
	}
	if filter.AuthorID != "" {
		q["author_id"] = filter.AuthorID
	}
	if filter.Keyword != "" {
		q["body"] = containsPattern(filter.Keyword)
	}

	docs, total, err := findMany[commentDoc](ctx, r.col, q, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	comments := make([]*domain.Comment, 0, len(docs))
	for i := range docs {
		comments = append(comments, docs[i].toDomain())
	}
	return comments, total, nil
}
