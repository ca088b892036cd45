package rating

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anzhiyu-c/anime-explorer/pkg/constant"
	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
)

type stubRatingRepo struct {
	ratings []*model.Rating
	err     error
}

func (s *stubRatingRepo) ListByAnime(ctx context.Context, animeID string) ([]*model.Rating, error) {
	return s.ratings, s.err
}

func (s *stubRatingRepo) ListByUser(ctx context.Context, userID string) ([]*model.Rating, error) {
	return s.ratings, s.err
}

func TestForAnimeAverages(t *testing.T) {
	svc := NewRatingService(&stubRatingRepo{ratings: []*model.Rating{
		{AnimeID: "42", UserID: "a", Rating: 9},
		{AnimeID: "42", UserID: "b", Rating: 8},
		{AnimeID: "42", UserID: "c", Rating: 8},
	}})

	summary, err := svc.ForAnime(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, "42", summary.AnimeID)
	require.Equal(t, 3, summary.TotalRatings)
	require.InDelta(t, 8.33, summary.AverageRating, 0.001)
}

func TestForUserEmpty(t *testing.T) {
	svc := NewRatingService(&stubRatingRepo{})

	summary, err := svc.ForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Zero(t, summary.TotalRatings)
	require.NotNil(t, summary.Ratings)
}

func TestRatingErrors(t *testing.T) {
	svc := NewRatingService(&stubRatingRepo{err: errors.New("down")})

	_, err := svc.ForAnime(context.Background(), " ")
	require.ErrorIs(t, err, constant.ErrBadRequest)

	_, err = svc.ForUser(context.Background(), "u1")
	require.ErrorIs(t, err, constant.ErrServiceUnavailable)
}
