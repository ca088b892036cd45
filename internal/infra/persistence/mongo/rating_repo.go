package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
	"github.com/anzhiyu-c/anime-explorer/pkg/domain/repository"
)

type mongoRatingRepository struct {
	coll    ratingCollection
	timeout time.Duration
}

// NewMongoRatingRepository 创建评分仓储
func NewMongoRatingRepository(db *mongodriver.Database, collection string, timeout time.Duration) repository.RatingRepository {
	return newRatingRepository(mongoCollection{coll: db.Collection(collection)}, timeout)
}

func newRatingRepository(coll ratingCollection, timeout time.Duration) *mongoRatingRepository {
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}
	return &mongoRatingRepository{coll: coll, timeout: timeout}
}

func (r *mongoRatingRepository) ListByAnime(ctx context.Context, animeID string) ([]*model.Rating, error) {
	return r.list(ctx, bson.D{{Key: "animeId", Value: animeID}})
}

func (r *mongoRatingRepository) ListByUser(ctx context.Context, userID string) ([]*model.Rating, error) {
	return r.list(ctx, bson.D{{Key: "userId", Value: userID}})
}

func (r *mongoRatingRepository) list(ctx context.Context, filter bson.D) ([]*model.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("查询评分失败: %w", err)
	}
	defer cur.Close(ctx)

	ratings := make([]*model.Rating, 0)
	for cur.Next(ctx) {
		var doc ratingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("解码评分文档失败: %w", err)
		}
		ratings = append(ratings, fromRatingDocument(&doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("遍历评分结果失败: %w", err)
	}
	return ratings, nil
}
