/*
 * @Description: 基于 MongoDB 的番剧仓储实现
 * @Author: 安知鱼
 * @Date: 2025-10-12 18:30:44
 * @LastEditTime: 2025-10-15 09:48:12
 * @LastEditors: 安知鱼
 */
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/anzhiyu-c/anime-explorer/pkg/constant"
	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
	"github.com/anzhiyu-c/anime-explorer/pkg/domain/repository"
)

const defaultOpTimeout = 5 * time.Second

type mongoAnimeRepository struct {
	coll    animeCollection
	client  pinger
	timeout time.Duration
}

// NewMongoAnimeRepository 创建番剧仓储，timeout 为单次操作的超时时间
func NewMongoAnimeRepository(client *mongodriver.Client, db *mongodriver.Database, collection string, timeout time.Duration) repository.AnimeRepository {
	return newAnimeRepository(mongoCollection{coll: db.Collection(collection)}, client, timeout)
}

func newAnimeRepository(coll animeCollection, client pinger, timeout time.Duration) *mongoAnimeRepository {
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}
	return &mongoAnimeRepository{coll: coll, client: client, timeout: timeout}
}

func (r *mongoAnimeRepository) Find(ctx context.Context, q *model.AnimeQuery) ([]*model.Anime, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(BuildSort(q.Sort)).
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit)).
		SetProjection(searchProjection)
	return r.findMany(ctx, BuildFilter(q), opts)
}

func (r *mongoAnimeRepository) Count(ctx context.Context, q *model.AnimeQuery) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, BuildFilter(q))
	if err != nil {
		return 0, fmt.Errorf("统计番剧数量失败: %w", err)
	}
	return total, nil
}

func (r *mongoAnimeRepository) FindByTitle(ctx context.Context, title string, limit int) ([]*model.Anime, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(BuildSort(model.SortTitleAsc)).
		SetLimit(int64(limit)).
		SetProjection(searchProjection)
	return r.findMany(ctx, bson.D{titleContains(title)}, opts)
}

func (r *mongoAnimeRepository) FindByID(ctx context.Context, id string) (*model.Anime, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("番剧 %q: %w", id, constant.ErrNotFound)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var doc animeDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("番剧 %q: %w", id, constant.ErrNotFound)
		}
		return nil, fmt.Errorf("查询番剧 %q 失败: %w", id, err)
	}
	return fromAnimeDocument(&doc), nil
}

func (r *mongoAnimeRepository) TopRated(ctx context.Context, limit int) ([]*model.Anime, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := bson.D{{Key: "score", Value: bson.D{{Key: "$type", Value: "number"}}}}
	opts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}, {Key: "title", Value: 1}}).
		SetLimit(int64(limit))
	return r.findMany(ctx, filter, opts)
}

func (r *mongoAnimeRepository) DistinctGenres(ctx context.Context) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	values, err := r.coll.Distinct(ctx, "genres", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("读取类型列表失败: %w", err)
	}
	// 只保留字符串，其他类型的脏数据直接忽略
	genres := make([]string, 0, len(values))
	for _, v := range values {
		if g, ok := v.(string); ok {
			genres = append(genres, g)
		}
	}
	return genres, nil
}

// BulkInsert 无序写入；部分失败时仍返回已写入的条数
func (r *mongoAnimeRepository) BulkInsert(ctx context.Context, animes []*model.Anime) (int64, error) {
	if len(animes) == 0 {
		return 0, nil
	}
	models := make([]mongodriver.WriteModel, 0, len(animes))
	for _, a := range animes {
		models = append(models, mongodriver.NewInsertOneModel().SetDocument(toAnimeDocument(a)))
	}

	// 批量写入可能较慢，给它两倍的单次操作超时
	ctx, cancel := context.WithTimeout(ctx, 2*r.timeout)
	defer cancel()

	res, err := r.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	var written int64
	if res != nil {
		written = res.InsertedCount
	}
	if err != nil {
		return written, fmt.Errorf("批量写入 %d 条番剧失败: %w", len(animes), err)
	}
	return written, nil
}

func (r *mongoAnimeRepository) DeleteBySource(ctx context.Context, source string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	deleted, err := r.coll.DeleteMany(ctx, bson.D{{Key: "source", Value: source}})
	if err != nil {
		return 0, fmt.Errorf("删除来源为 %s 的番剧失败: %w", source, err)
	}
	return deleted, nil
}

func (r *mongoAnimeRepository) Ping(ctx context.Context) error {
	if r.client == nil {
		return errors.New("mongo 客户端未初始化")
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *mongoAnimeRepository) findMany(ctx context.Context, filter any, opts options.Lister[options.FindOptions]) ([]*model.Anime, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("查询番剧失败: %w", err)
	}
	defer cur.Close(ctx)

	animes := make([]*model.Anime, 0)
	for cur.Next(ctx) {
		var doc animeDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("解码番剧文档失败: %w", err)
		}
		animes = append(animes, fromAnimeDocument(&doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("遍历番剧结果失败: %w", err)
	}
	return animes, nil
}

func (r *mongoAnimeRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}
