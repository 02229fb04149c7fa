package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
)

const (
	collectionUsers    = "users"
	collectionPosts    = "posts"
	collectionComments = "comments"
)

// Store groups the collections of the blog database. Transactions used by
// retention purges and permanent deletes require a replica set; Connect
// rejects anything else.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{client: db.Client(), db: db}
}

func (s *Store) Users() *UserRepository       { return &UserRepository{col: s.db.Collection(collectionUsers)} }
func (s *Store) Posts() *PostRepository       { return &PostRepository{store: s, col: s.db.Collection(collectionPosts)} }
func (s *Store) Comments() *CommentRepository { return &CommentRepository{col: s.db.Collection(collectionComments)} }
func (s *Store) Retention() *RetentionRepository {
	return &RetentionRepository{store: s}
}

// Ping verifies the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// EnsureIndexes creates the indexes the repositories rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		collectionPosts: {
			{Keys: bson.D{{Key: "author_id", Value: 1}}},
			{Keys: bson.D{{Key: "deleted_at", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		collectionComments: {
			{Keys: bson.D{{Key: "post_id", Value: 1}}},
			{Keys: bson.D{{Key: "author_id", Value: 1}}},
			{Keys: bson.D{{Key: "deleted_at", Value: 1}}},
		},
	}
	for name, models := range specs {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}
	return nil
}

// withTransaction runs fn inside a session transaction.
func (s *Store) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}, transactionOptions())
	return err
}

// --- helpers ---

var sortFields = map[string]string{
	"id":        "_id",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"username":  "username",
	"body":      "body",
}

func findOptions(page domain.PageRequest) *options.FindOptions {
	field, ok := sortFields[page.SortBy]
	if !ok {
		field = "created_at"
	}
	dir := 1
	if page.Desc {
		dir = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}})
	if page.Size > 0 {
		opts.SetSkip(int64(page.Offset())).SetLimit(int64(page.Size))
	}
	return opts
}

func containsPattern(keyword string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
}

// objectID parses a hex id. Malformed ids cannot exist, so they report
// not found.
func objectID(kind domain.Kind, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.NotFound(kind, id)
	}
	return oid, nil
}

func findOne[D any](ctx context.Context, col *mongo.Collection, filter bson.M, kind domain.Kind, id string) (*D, error) {
	var doc D
	if err := col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFound(kind, id)
		}
		return nil, fmt.Errorf("find %s: %w", kind, err)
	}
	return &doc, nil
}

func findMany[D any](ctx context.Context, col *mongo.Collection, filter bson.M, page domain.PageRequest) ([]D, int64, error) {
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}
	cur, err := col.Find(ctx, filter, findOptions(page))
	if err != nil {
		return nil, 0, fmt.Errorf("find: %w", err)
	}
	var docs []D
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode: %w", err)
	}
	return docs, total, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
