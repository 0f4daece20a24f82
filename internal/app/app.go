package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/runegraph/runegraph-backend/internal/clients/redis"
	"github.com/runegraph/runegraph-backend/internal/db"
	"github.com/runegraph/runegraph-backend/internal/graph"
	"github.com/runegraph/runegraph-backend/internal/ingest"
	"github.com/runegraph/runegraph-backend/internal/observability"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
	"github.com/runegraph/runegraph-backend/internal/platform/neo4jdb"
	"github.com/runegraph/runegraph-backend/internal/repos"
	"github.com/runegraph/runegraph-backend/internal/services"
)

type Repos struct {
	Account    repos.AccountRepo
	TxnHeader  repos.TxnHeaderRepo
	DataHeader repos.DataHeaderRepo
}

type Services struct {
	Auth      services.AuthService
	Admission services.AdmissionService
	Ingestion services.IngestionService
	Query     services.QueryService
	Dedup     graph.DedupService
}

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Neo      *neo4jdb.Client
	Redis    *goredis.Client
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services

	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	neo, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init neo4j: %w", err)
	}
	graph.Bootstrap(ctx, neo, log)

	rdb, err := redis.NewClientFromEnv(log)
	if err != nil {
		log.Warn("Redis unavailable, admission fast path disabled", "error", err)
		rdb = nil
	}

	reposet := Repos{
		Account:    repos.NewAccountRepo(theDB, log),
		TxnHeader:  repos.NewTxnHeaderRepo(theDB, log),
		DataHeader: repos.NewDataHeaderRepo(theDB, log),
	}

	scoreCfg := ingest.DefaultScoreConfig()
	scoreCfg.SeasonMultiplier = cfg.SeasonMultiplier

	registry := graph.NewRegistry(log)
	admissionService := services.NewAdmissionService(log, reposet.Account, reposet.TxnHeader, rdb, cfg.AdmissionWindow, cfg.AdmissionMaxScans)
	serviceset := Services{
		Auth:      services.NewAuthService(theDB, log, reposet.Account, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Admission: admissionService,
		Ingestion: services.NewIngestionService(theDB, log, neo, registry, admissionService, reposet.TxnHeader, reposet.DataHeader, scoreCfg),
		Query:     services.NewQueryService(log, neo, admissionService),
		Dedup:     graph.NewDedupService(neo, log),
	}

	router := wireRouter(log, cfg, serviceset)

	return &App{
		Log:          log,
		DB:           theDB,
		Neo:          neo,
		Redis:        rdb,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "addr", a.Cfg.HTTPAddr)
	return a.Router.Run(a.Cfg.HTTPAddr)
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.Neo != nil {
		if err := a.Neo.Close(ctx); err != nil {
			a.Log.Warn("neo4j close failed", "error", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Warn("redis close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
