package mongo

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
)

type animeDocument struct {
	ID       bson.ObjectID `bson:"_id,omitempty"`
	Title    string        `bson:"title"`
	Year     *int          `bson:"year,omitempty"`
	Genres   []string      `bson:"genres"`
	Type     string        `bson:"type,omitempty"`
	Episodes *int          `bson:"episodes,omitempty"`
	Score    *float64      `bson:"score,omitempty"`
	Source   string        `bson:"source,omitempty"`
}

type ratingDocument struct {
	AnimeID string `bson:"animeId"`
	UserID  string `bson:"userId"`
	Rating  int    `bson:"rating"`
	Date    string `bson:"date,omitempty"`
}

func toAnimeDocument(a *model.Anime) animeDocument {
	genres := a.Genres
	if genres == nil {
		genres = []string{}
	}
	return animeDocument{
		Title:    a.Title,
		Year:     a.Year,
		Genres:   genres,
		Type:     a.Type,
		Episodes: a.Episodes,
		Score:    a.Score,
		Source:   a.Source,
	}
}

func fromAnimeDocument(doc *animeDocument) *model.Anime {
	a := &model.Anime{
		Title:    doc.Title,
		Year:     doc.Year,
		Genres:   doc.Genres,
		Type:     doc.Type,
		Episodes: doc.Episodes,
		Score:    doc.Score,
	}
	if a.Genres == nil {
		a.Genres = []string{}
	}
	if !doc.ID.IsZero() {
		a.ID = doc.ID.Hex()
	}
	return a
}

func fromRatingDocument(doc *ratingDocument) *model.Rating {
	return &model.Rating{
		AnimeID: doc.AnimeID,
		UserID:  doc.UserID,
		Rating:  doc.Rating,
		Date:    doc.Date,
	}
}
