package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/ports"
)

// RetentionRepository implements ports.RetentionStore using MongoDB.
type RetentionRepository struct {
	store *Store
}

func expired(threshold time.Time) bson.M {
	return bson.M{"deleted_at": bson.M{"$ne": nil, "$lt": threshold}}
}

// expiredPostIDs lists the hex ids of posts past the threshold.
func expiredPostIDs(ctx context.Context, posts *mongo.Collection, threshold time.Time) (bson.A, error) {
	cur, err := posts.Find(ctx, expired(threshold), options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("select expired posts: %w", err)
	}
	var ids []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &ids); err != nil {
		return nil, fmt.Errorf("decode expired posts: %w", err)
	}
	postIDs := make(bson.A, 0, len(ids))
	for _, d := range ids {
		postIDs = append(postIDs, d.ID.Hex())
	}
	return postIDs, nil
}

// purgeableComments matches expired comments and every comment of postIDs.
func purgeableComments(threshold time.Time, postIDs bson.A) bson.M {
	if len(postIDs) == 0 {
		return expired(threshold)
	}
	return bson.M{"$or": bson.A{expired(threshold), bson.M{"post_id": bson.M{"$in": postIDs}}}}
}

func (r *RetentionRepository) CountPurgeable(ctx context.Context, threshold time.Time) (ports.PurgeCounts, error) {
	posts := r.store.db.Collection(collectionPosts)

	postIDs, err := expiredPostIDs(ctx, posts, threshold)
	if err != nil {
		return ports.PurgeCounts{}, err
	}
	comments, err := r.store.db.Collection(collectionComments).CountDocuments(ctx, purgeableComments(threshold, postIDs))
	if err != nil {
		return ports.PurgeCounts{}, fmt.Errorf("count purgeable comments: %w", err)
	}
	return ports.PurgeCounts{Posts: int64(len(postIDs)), Comments: comments}, nil
}

// Purge removes expired posts, their comments and expired comments inside a
// single transaction.
func (r *RetentionRepository) Purge(ctx context.Context, threshold time.Time) (ports.PurgeCounts, error) {
	posts := r.store.db.Collection(collectionPosts)
	comments := r.store.db.Collection(collectionComments)

	var counts ports.PurgeCounts
	err := r.store.withTransaction(ctx, func(sc mongo.SessionContext) error {
		counts = ports.PurgeCounts{}

		postIDs, err := expiredPostIDs(sc, posts, threshold)
		if err != nil {
			return err
		}

		res, err := comments.DeleteMany(sc, purgeableComments(threshold, postIDs))
		if err != nil {
			return fmt.Errorf("purge comments: %w", err)
		}
		counts.Comments = res.DeletedCount

		res, err = posts.DeleteMany(sc, expired(threshold))
		if err != nil {
			return fmt.Errorf("purge posts: %w", err)
		}
		counts.Posts = res.DeletedCount
		return nil
	})
	if err != nil {
		return ports.PurgeCounts{}, err
	}
	return counts, nil
}
