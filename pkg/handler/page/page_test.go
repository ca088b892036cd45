package page

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/anzhiyu-c/anime-explorer/internal/pkg/upstream"
	"github.com/anzhiyu-c/anime-explorer/pkg/service/gateway"
)

const testTemplate = `{{define "home.html"}}genres={{range .view.Genres}}{{.}};{{end}} results={{len .view.Results}} error={{.error}} from={{.view.From}} to={{.view.To}} next={{.view.HasNext}}{{end}}`

func newRouter(dataURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := gateway.NewGatewayService(upstream.NewClient(time.Second), gateway.Options{DataURL: dataURL, Timeout: time.Second})
	h := NewHandler(svc, "")
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("pages").Parse(testTemplate)))
	r.GET("/", h.Home)
	r.GET("/search", h.Search)
	return r
}

func render(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestSearchPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/genres", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true,"genres":["Action","Drama"]}`))
	})
	mux.HandleFunc("/animes", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "fail" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"q":"","sort":"title_asc","page":2,"limit":2,"total":5,"totalPages":3,
			"results":[{"title":"C"},{"title":"D"}]}`))
	})
	backend := httptest.NewServer(mux)
	defer backend.Close()
	r := newRouter(backend.URL)

	t.Run("首页只渲染类型", func(t *testing.T) {
		w := render(r, "/")
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "genres=Action;Drama;")
		require.Contains(t, w.Body.String(), "results=0")
	})

	t.Run("搜索页计算分页区间", func(t *testing.T) {
		w := render(r, "/search?page=2&limit=2")
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "from=3 to=4 next=true")
		require.Contains(t, w.Body.String(), "error= ")
	})

	t.Run("后端失败时降级渲染", func(t *testing.T) {
		w := render(r, "/search?q=fail")
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "genres=Action;Drama;")
		require.Contains(t, w.Body.String(), "results=0")
		require.Contains(t, w.Body.String(), "error=Search is temporarily unavailable")
	})
}
