package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name     string
		pingErr  error
		wantDB   string
		wantStat string
	}{
		{"数据库正常", nil, "connected", "ok"},
		{"数据库不可达", errors.New("no reachable servers"), "disconnected", "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(pingerFunc(func(ctx context.Context) error { return tt.pingErr }), "tweb_anime")
			r := gin.New()
			r.GET("/health", h.Check)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, http.StatusOK, w.Code)

			var body struct {
				Status   string `json:"status"`
				Service  string `json:"service"`
				Database struct {
					Status string `json:"status"`
					Name   string `json:"name"`
				} `json:"database"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.Equal(t, tt.wantStat, body.Status)
			require.Equal(t, tt.wantDB, body.Database.Status)
			require.Equal(t, "tweb_anime", body.Database.Name)
			require.Equal(t, "data-server", body.Service)
		})
	}
}
