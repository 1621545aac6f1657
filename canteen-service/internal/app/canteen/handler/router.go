package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"canteenscore/pkg/logger"
	"canteenscore/pkg/metrics"
)

const serviceName = "canteen-service"

// SetupRoutes собирает все маршруты Canteen Service.
// Чтение публичное, запись отзывов требует токен, правка каталога только для admin
func SetupRoutes(
	catalogHandler *CatalogHandler,
	reviewHandler *ReviewHandler,
	statsHandler *StatsHandler,
	classifyHandler *ClassifyHandler,
	authMiddleware *AuthMiddleware,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowWildcard:    true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	// Публичное чтение, токен необязателен (нужен только для флага liked)
	public := api.Group("")
	public.Use(authMiddleware.OptionalAuthenticate())
	{
		public.GET("/sites", catalogHandler.ListSites)
		public.GET("/sites/:id", catalogHandler.GetSite)
		public.GET("/sites/:id/rating", statsHandler.SiteRating)

		public.GET("/sub-locations/:id", catalogHandler.GetSubLocation)
		public.GET("/sub-locations/:id/rating", statsHandler.SubLocationRating)

		public.GET("/items", catalogHandler.ListItems)
		public.GET("/items/:id", catalogHandler.GetItem)
		public.GET("/items/:id/stats", statsHandler.ItemStats)
		public.GET("/items/:id/rating-distribution", statsHandler.RatingDistribution)
		public.GET("/items/:id/reviews", reviewHandler.ListItemReviews)

		public.GET("/reviews/:id", reviewHandler.GetReview)
		public.GET("/reviews/:id/replies", reviewHandler.ListReplies)

		public.GET("/stats/overview", statsHandler.Overview)
		public.GET("/stats/popular-items", statsHandler.PopularItems)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.Authenticate())
	{
		protected.POST("/items/:id/reviews", reviewHandler.CreateReview)
		protected.PUT("/reviews/:id", reviewHandler.UpdateReview)
		protected.DELETE("/reviews/:id", reviewHandler.DeleteReview)

		protected.POST("/reviews/:id/like", reviewHandler.ToggleLike)

		protected.POST("/reviews/:id/replies", reviewHandler.AddReply)
		protected.PUT("/replies/:id", reviewHandler.UpdateReply)
		protected.DELETE("/replies/:id", reviewHandler.DeleteReply)

		protected.GET("/me/reviews", reviewHandler.ListMyReviews)

		protected.POST("/classify-item", classifyHandler.ClassifyItem)
	}

	admin := api.Group("/admin")
	admin.Use(authMiddleware.Authenticate(), authMiddleware.RequireRole(RoleAdmin))
	{
		admin.POST("/sites", catalogHandler.CreateSite)
		admin.PUT("/sites/:id", catalogHandler.UpdateSite)
		admin.DELETE("/sites/:id", catalogHandler.DeleteSite)

		admin.POST("/sites/:id/sub-locations", catalogHandler.CreateSubLocation)
		admin.PUT("/sub-locations/:id", catalogHandler.UpdateSubLocation)
		admin.DELETE("/sub-locations/:id", catalogHandler.DeleteSubLocation)

		admin.POST("/sub-locations/:id/items", catalogHandler.CreateItem)
		admin.PUT("/items/:id", catalogHandler.UpdateItem)
		admin.DELETE("/items/:id", catalogHandler.DeleteItem)

		admin.DELETE("/reviews/:id", reviewHandler.ModerateDeleteReview)
	}

	return router
}
