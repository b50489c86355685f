package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "restaurant_rater/internal/adapters/http_server"
	"restaurant_rater/internal/adapters/observability"
	redisad "restaurant_rater/internal/adapters/redis"
	"restaurant_rater/internal/app"
	"restaurant_rater/internal/shared"
	mysqlrepo "restaurant_rater/internal/storage/mysql"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	metricsSrv := observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	if cfg.MigrateOnStart {
		if err := mysqlrepo.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
	}

	// deps
	repos := mysqlrepo.NewRepositories(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, redisad.WithNamespace(cfg.CacheNamespace))
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		// reads fall through to MySQL while Redis is down
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable")
	}
	q := app.NewQueryService(repos, cache, cfg.CacheTTL())
	c := app.NewCommandService(repos, cache)

	// http
	srv := server.New(
		server.WithRequestTimeout(cfg.RequestTimeout),
		server.WithReadiness("mysql", db.PingContext),
		server.WithReadiness("redis", cache.Ping),
	)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, C: c}, server.RateLimit(cfg.WriteRPS, cfg.WriteBurst))

	if err := srv.Run(ctx, cfg.HTTPAddr); err != nil {
		log.Error().Err(err).Msg("http server failed")
	}

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}
