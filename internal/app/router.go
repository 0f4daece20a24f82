package app

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/runegraph/runegraph-backend/internal/http/handlers"
	"github.com/runegraph/runegraph-backend/internal/http/middleware"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, svcs Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.RequestLog(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedCORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	authHandler := handlers.NewAuthHandler(svcs.Auth)
	ingestHandler := handlers.NewIngestHandler(log, svcs.Ingestion)
	queryHandler := handlers.NewQueryHandler(svcs.Query)
	dedupHandler := handlers.NewDedupHandler(log, svcs.Dedup)
	authMiddleware := middleware.NewAuthMiddleware(log, svcs.Auth)

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
	}

	// Protected
	protected := api.Group("/")
	protected.Use(authMiddleware.RequireAuth())
	protected.POST("/data/ingest", ingestHandler.Ingest)
	protected.POST("/data/query", queryHandler.Query)

	admin := protected.Group("/admin")
	admin.POST("/dedup/scan", dedupHandler.Scan)
	admin.POST("/dedup/merge", dedupHandler.Merge)
	admin.POST("/dedup/sweep", dedupHandler.Sweep)

	return router
}
