package mongo

import (
	"time"

	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/anzhiyu-c/anime-explorer/pkg/domain/repository"
)

// Store 聚合同一个数据库下的所有仓储
type Store struct {
	Animes  repository.AnimeRepository
	Ratings repository.RatingRepository
}

// NewStore 在 database 下创建番剧与评分仓储
func NewStore(client *mongodriver.Client, database, animeCollection, ratingCollection string, timeout time.Duration) *Store {
	db := client.Database(database)
	return &Store{
		Animes:  NewMongoAnimeRepository(client, db, animeCollection, timeout),
		Ratings: NewMongoRatingRepository(db, ratingCollection, timeout),
	}
}
