package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"blog-catalog/cmd/api/handlers"
	"blog-catalog/cmd/api/metrics"
	"blog-catalog/cmd/api/middleware"
	"blog-catalog/cmd/api/services"
	"blog-catalog/config"
)

func New(cfg config.AppConfig, postsSvc *services.PostService, collector *metrics.Collector) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestTrace())
	r.Use(corsMiddleware(cfg.HTTP.CORSOrigins))
	if collector != nil {
		r.Use(collector.Middleware())
		r.GET("/metrics", collector.Handler())
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"source":        cfg.Source.Kind,
			"cache_entries": len(postsSvc.CacheEntries()),
		})
	})

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.GET("/posts", handlers.ListPostsHandler(postsSvc))
		api.GET("/posts/search", handlers.SearchPostsHandler(postsSvc))
		api.GET("/posts/:slug", handlers.GetPostHandler(postsSvc))
		api.GET("/categories", handlers.ListCategoriesHandler(postsSvc))

		admin := api.Group("/admin", middleware.AdminTokenMiddleware(cfg.Admin.Token))
		admin.GET("/cache", handlers.CacheEntriesHandler(postsSvc))
		admin.POST("/cache/purge", handlers.PurgeCacheHandler(postsSvc))
	}

	return r
}

// corsMiddleware bridges rs/cors into the gin chain. Preflight requests end here.
func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "X-Span-Id"},
	})
	return func(ctx *gin.Context) {
		c.HandlerFunc(ctx.Writer, ctx.Request)
		if ctx.Request.Method == http.MethodOptions && ctx.GetHeader("Access-Control-Request-Method") != "" {
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
