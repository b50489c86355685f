package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

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
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	file := flag.String("file", cfg.SeedFile, "seed JSON file (defaults to SEED_FILE)")
	flag.Parse()
	if *file == "" {
		log.Fatal().Msg("no seed file: pass -file or set SEED_FILE")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("open seed file failed")
	}
	seed, err := app.DecodeSeedFile(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("seed file invalid")
	}

	log.Info().
		Str("file", *file).
		Int("workers", cfg.SeedWorkers).
		Int("raters", len(seed.Raters)).
		Int("restaurants", len(seed.Restaurants)).
		Msg("seed starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	if cfg.MigrateOnStart {
		if err := mysqlrepo.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
	}

	// the command service evicts the API's cached pages as rows land
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, redisad.WithNamespace(cfg.CacheNamespace))
	defer cache.Close()

	cmd := app.NewCommandService(mysqlrepo.NewRepositories(db), cache)
	rep, err := app.NewSeeder(cmd, cfg.SeedWorkers).Run(ctx, seed)
	if err != nil {
		log.Error().Err(err).Msg("seed interrupted")
	}
	if rep.Failed > 0 {
		log.Warn().Int64("failed", rep.Failed).Msg("some seed rows were rejected")
		os.Exit(1)
	}
}
