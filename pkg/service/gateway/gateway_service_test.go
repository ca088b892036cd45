package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anzhiyu-c/anime-explorer/internal/pkg/upstream"
	"github.com/anzhiyu-c/anime-explorer/pkg/constant"
	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
)

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func newTestService(t *testing.T, data, ratings http.Handler) *Service {
	t.Helper()
	dataSrv := httptest.NewServer(data)
	t.Cleanup(dataSrv.Close)
	ratingsURL := ""
	if ratings != nil {
		ratingsSrv := httptest.NewServer(ratings)
		t.Cleanup(ratingsSrv.Close)
		ratingsURL = ratingsSrv.URL
	}
	return NewGatewayService(upstream.NewClient(time.Second), Options{
		DataURL:       dataSrv.URL,
		RatingsURL:    ratingsURL,
		Timeout:       time.Second,
		HealthTimeout: 200 * time.Millisecond,
	})
}

func TestAnimeDetailMergesRatings(t *testing.T) {
	data := http.NewServeMux()
	data.HandleFunc("/api/anime/42", jsonHandler(http.StatusOK, `{"id":"42","title":"Naruto"}`))
	ratings := http.NewServeMux()
	ratings.HandleFunc("/api/ratings/anime/42", jsonHandler(http.StatusOK, `{"averageRating":8.5,"totalRatings":2}`))
	svc := newTestService(t, data, ratings)

	detail, err := svc.AnimeDetail(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, "Naruto", detail["title"])
	nested, ok := detail["ratings"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, 8.5, nested["averageRating"])
}

func TestAnimeDetailPropagatesBackendStatus(t *testing.T) {
	data := http.NewServeMux()
	data.HandleFunc("/api/anime/42", jsonHandler(http.StatusOK, `{"id":"42","title":"Naruto"}`))
	ratings := http.NewServeMux()
	ratings.HandleFunc("/api/ratings/anime/42", jsonHandler(http.StatusInternalServerError, `{"error":"boom"}`))
	svc := newTestService(t, data, ratings)

	_, err := svc.AnimeDetail(context.Background(), "42")
	require.Error(t, err)
	require.Equal(t, http.StatusInternalServerError, upstream.StatusCode(err))
}

func TestAnimeDetailNotFound(t *testing.T) {
	data := http.NewServeMux()
	data.HandleFunc("/api/anime/missing", jsonHandler(http.StatusNotFound, `{"ok":false}`))
	ratings := http.NewServeMux()
	ratings.HandleFunc("/api/ratings/anime/missing", jsonHandler(http.StatusOK, `{"totalRatings":0}`))
	svc := newTestService(t, data, ratings)

	_, err := svc.AnimeDetail(context.Background(), "missing")
	require.Equal(t, http.StatusNotFound, upstream.StatusCode(err))
}

func TestAnimeDetailBackendDown(t *testing.T) {
	data := http.NewServeMux()
	data.HandleFunc("/api/anime/42", jsonHandler(http.StatusOK, `{"id":"42"}`))
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	dataSrv := httptest.NewServer(data)
	defer dataSrv.Close()
	svc := NewGatewayService(upstream.NewClient(time.Second), Options{DataURL: dataSrv.URL, RatingsURL: deadURL})

	_, err := svc.AnimeDetail(context.Background(), "42")
	var transportErr *upstream.TransportError
	require.True(t, errors.As(err, &transportErr))
	require.Zero(t, upstream.StatusCode(err))
}

func TestHealthIsolatesFailures(t *testing.T) {
	data := http.NewServeMux()
	data.HandleFunc("/health", jsonHandler(http.StatusOK, `{"status":"ok"}`))
	ratings := http.NewServeMux()
	ratings.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		// 超过健康检查超时
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	svc := newTestService(t, data, ratings)

	health := svc.Health(context.Background())
	require.Equal(t, model.BackendHealthy, health.MainServer)
	require.Equal(t, model.BackendHealthy, health.Backends[BackendData])
	require.Equal(t, model.BackendUnreachable, health.Backends[BackendRatings])
	require.Equal(t, "degraded", health.Status)
}

func TestSearchByTitleRequiresTitle(t *testing.T) {
	svc := newTestService(t, http.NotFoundHandler(), nil)

	_, err := svc.SearchByTitle(context.Background(), "  ")
	require.ErrorIs(t, err, constant.ErrBadRequest)
}

func TestSearchByTitlePassesThrough(t *testing.T) {
	data := http.NewServeMux()
	data.HandleFunc("/api/anime/search", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "death note", r.URL.Query().Get("title"))
		jsonHandler(http.StatusOK, `{"ok":true,"count":1}`)(w, r)
	})
	svc := newTestService(t, data, nil)

	body, err := svc.SearchByTitle(context.Background(), " death note ")
	require.NoError(t, err)
	require.JSONEq(t, `{"ok":true,"count":1}`, string(body))
}

func TestSearchPage(t *testing.T) {
	data := http.NewServeMux()
	data.HandleFunc("/animes", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Empty(t, r.URL.Query().Get("evil"))
		payload := map[string]any{
			"ok": true, "q": "", "genre": "Action", "sort": "title_asc", "page": 2, "limit": 2,
			"total": 5, "totalPages": 3,
			"results": []map[string]any{{"title": "C"}, {"title": "D"}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	})
	data.HandleFunc("/genres", jsonHandler(http.StatusOK, `{"ok":true,"count":2,"genres":["Action","Drama"]}`))
	svc := newTestService(t, data, nil)

	view, err := svc.SearchPage(context.Background(), url.Values{"genre": {"Action"}, "page": {"2"}, "limit": {"2"}, "evil": {"x"}})
	require.NoError(t, err)
	require.Equal(t, []string{"Action", "Drama"}, view.Genres)
	require.Len(t, view.Results, 2)
	require.Equal(t, int64(3), view.From)
	require.Equal(t, int64(4), view.To)
	require.True(t, view.HasPrev)
	require.True(t, view.HasNext)
}

func TestSearchPageDegradesButKeepsGenres(t *testing.T) {
	data := http.NewServeMux()
	data.HandleFunc("/animes", jsonHandler(http.StatusServiceUnavailable, `{"ok":false}`))
	data.HandleFunc("/genres", jsonHandler(http.StatusOK, `{"ok":true,"genres":["Action"]}`))
	svc := newTestService(t, data, nil)

	view, err := svc.SearchPage(context.Background(), url.Values{"q": {"naruto"}})
	require.Error(t, err)
	require.NotNil(t, view)
	require.Empty(t, view.Results)
	require.Equal(t, []string{"Action"}, view.Genres)
	require.Equal(t, "naruto", view.Query.Q)
}
