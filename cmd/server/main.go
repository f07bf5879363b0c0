package main

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"jobly/internal/api"
	"jobly/internal/auth"
	"jobly/internal/config"
	"jobly/internal/db"
	"jobly/internal/logger"
	"jobly/internal/metrics"
	"jobly/internal/repo"
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Init(cfg.Logger.LogLevel, cfg.Logger.Pretty)
	metrics.MustRegister()

	database, err := db.Open(db.Config{
		DSN:            cfg.DB.ConnectionString,
		DriverName:     "postgres",
		MaxOpenConns:   cfg.DB.MaxOpenConns,
		MaxIdleConns:   cfg.DB.MaxIdleConns,
		DefaultTimeout: 10 * time.Second,
		Hooks: []db.Hook{
			db.NewLogHook(db.LogHookConfig{SlowQueryThreshold: 200 * time.Millisecond}),
			db.NewMetricsHook(metrics.DBCollector{}),
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(loggerMiddleware())
	r.Use(metrics.Middleware())

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	handler := api.NewHandler(
		repo.NewCompanyRepo(database),
		repo.NewJobRepo(database),
		repo.NewUserRepo(database, hasher),
		tokens,
	)
	handler.Register(r)

	r.GET("/metrics", metrics.Handler())

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("Starting server")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
