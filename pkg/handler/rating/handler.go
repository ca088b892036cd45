package rating

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/anime-explorer/pkg/response"
	"github.com/anzhiyu-c/anime-explorer/pkg/service/rating"
)

type Handler struct {
	ratingService rating.Service
}

func NewHandler(ratingService rating.Service) *Handler {
	return &Handler{ratingService: ratingService}
}

// ForAnime 番剧评分汇总
// @Summary      番剧评分
// @Tags         评分
// @Produce      json
// @Param        animeId  path  string  true  "番剧ID"
// @Success      200  {object}  model.RatingSummary  "评分汇总"
// @Router       /api/ratings/anime/{animeId} [get]
func (h *Handler) ForAnime(c *gin.Context) {
	summary, err := h.ratingService.ForAnime(c.Request.Context(), c.Param("animeId"))
	if err != nil {
		response.FailWithError(c, err, "Failed to fetch ratings")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ForUser 用户评分汇总
// @Summary      用户评分
// @Tags         评分
// @Produce      json
// @Param        userId  path  string  true  "用户ID"
// @Success      200  {object}  model.RatingSummary  "评分汇总"
// @Router       /api/ratings/user/{userId} [get]
func (h *Handler) ForUser(c *gin.Context) {
	summary, err := h.ratingService.ForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.FailWithError(c, err, "Failed to fetch ratings")
		return
	}
	c.JSON(http.StatusOK, summary)
}
