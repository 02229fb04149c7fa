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

type PostRepository struct {
	store *Store
	col   *mongo.Collection
}

type postDoc struct {
	ID             primitive.ObjectID `bson:"_id"`
	Title          string             `bson:"title"`
	Content        string             `bson:"content"`
	AuthorID       string             `bson:"author_id"`
	AuthorUsername string             `bson:"author_username"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
	CreatedBy      string             `bson:"created_by,omitempty"`
	UpdatedBy      string             `bson:"updated_by,omitempty"`
	DeletedAt      *time.Time         `bson:"deleted_at"`
	DeletedBy      string             `bson:"deleted_by,omitempty"`
}

func newPostDoc(id primitive.ObjectID, p *domain.Post) postDoc {
	return postDoc{
		ID:             id,
		Title:          p.Title,
		Content:        p.Content,
		AuthorID:       p.AuthorID,
		AuthorUsername: p.AuthorUsername,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		CreatedBy:      p.CreatedBy,
		UpdatedBy:      p.UpdatedBy,
		DeletedAt:      p.DeletedAt,
		DeletedBy:      p.DeletedBy,
	}
}

func (d *postDoc) toDomain() *domain.Post {
	return &domain.Post{
		ID:             d.ID.Hex(),
		Title:          d.Title,
		Content:        d.Content,
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

// Create inserts a new post and assigns its ID.
func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id := primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, newPostDoc(id, post)); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	post.ID = id.Hex()
	return nil
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	oid, err := objectID(domain.KindPost, post.ID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, newPostDoc(oid, post))
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound(domain.KindPost, post.ID)
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	return r.find(ctx, id, true)
}

func (r *PostRepository) FindByIDIncludingDeleted(ctx context.Context, id string) (*domain.Post, error) {
	return r.find(ctx, id, false)
}

func (r *PostRepository) find(ctx context.Context, id string, activeOnly bool) (*domain.Post, error) {
	oid, err := objectID(domain.KindPost, id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid}
	if activeOnly {
		filter["deleted_at"] = nil
	}
	doc, err := findOne[postDoc](ctx, r.col, filter, domain.KindPost, id)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) List(ctx context.Context, filter ports.PostFilter, page domain.PageRequest) ([]*domain.Post, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := bson.M{"deleted_at": nil}
	if filter.OnlyDeleted {
		q["deleted_at"] = bson.M{"$ne": nil}
	}
	if filter.AuthorID != "" {
		q["author_id"] = filter.AuthorID
	}
	if !filter.CreatedSince.IsZero() {
		q["created_at"] = bson.M{"$gte": filter.CreatedSince}
	}
	if filter.Keyword != "" {
		re := containsPattern(filter.Keyword)
		q["$or"] = bson.A{bson.M{"title": re}, bson.M{"content": re}}
	}

	docs, total, err := findMany[postDoc](ctx, r.col, q, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	posts := make([]*domain.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toDomain())
	}
	return posts, total, nil
}

// Delete removes the post and its comments in one transaction.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(domain.KindPost, id)
	if err != nil {
		return err
	}
	comments := r.store.db.Collection(collectionComments)

	return r.store.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := comments.DeleteMany(sc, bson.M{"post_id": id}); err != nil {
			return fmt.Errorf("delete comments of post: %w", err)
		}
		res, err := r.col.DeleteOne(sc, bson.M{"_id": oid})
		if err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		if res.DeletedCount == 0 {
			return domain.NotFound(domain.KindPost, id)
		}
		return nil
	})
}
