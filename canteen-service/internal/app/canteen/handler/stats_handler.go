package handler

import (
	"net/http"
	"strconv"

	"canteenscore/canteen-service/internal/app/canteen/entity"
	"canteenscore/canteen-service/internal/app/canteen/service"

	"github.com/gin-gonic/gin"
)

// StatsHandler отдаёт рейтинги, посчитанные на чтении
type StatsHandler struct {
	engine service.AggregationEngineInterface
}

func NewStatsHandler(engine service.AggregationEngineInterface) *StatsHandler {
	return &StatsHandler{
		engine: engine,
	}
}

// ItemStats обрабатывает GET /api/items/:id/stats
func (h *StatsHandler) ItemStats(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	stats, err := h.engine.ItemStats(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// RatingDistribution обрабатывает GET /api/items/:id/rating-distribution
func (h *StatsHandler) RatingDistribution(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	dist, err := h.engine.Distribution(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dist)
}

// SiteRating обрабатывает GET /api/sites/:id/rating
func (h *StatsHandler) SiteRating(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	summary, err := h.engine.SiteRating(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// SubLocationRating обрабатывает GET /api/sub-locations/:id/rating
func (h *StatsHandler) SubLocationRating(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	summary, err := h.engine.SubLocationRating(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Overview обрабатывает GET /api/stats/overview
func (h *StatsHandler) Overview(c *gin.Context) {
	overview, err := h.engine.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// PopularItems обрабатывает GET /api/stats/popular-items?limit=
func (h *StatsHandler) PopularItems(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := h.engine.PopularItems(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.PopularItemsResponse{Items: items, Total: len(items)})
}
