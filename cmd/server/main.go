package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/playpool/billiards/internal/admin"
	"github.com/playpool/billiards/internal/api"
	"github.com/playpool/billiards/internal/config"
	"github.com/playpool/billiards/internal/database"
	"github.com/playpool/billiards/internal/game"
	"github.com/playpool/billiards/internal/migrations"
	"github.com/playpool/billiards/internal/redis"
	"github.com/playpool/billiards/internal/storage"
	"github.com/playpool/billiards/internal/ws"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment variables")
	}

	cfg := config.Load()
	if cfg.Environment == "development" {
		log.SetLevel(log.DebugLevel)
	}

	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		log.Fatal("failed to load table profile", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		db    *sqlx.DB
		store *storage.Store
	)
	if cfg.DatabaseURL != "" {
		if cfg.MigrateOnStart {
			log.Info("running DB migrations on startup", "dir", cfg.MigrationsDir)
			if err := migrations.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
				log.Fatal("failed to run migrations", "err", err)
			}
		}
		db, err = database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("failed to connect to database", "err", err)
		}
		store = storage.New(db)
	} else {
		store, err = storage.OpenLocal(cfg.LocalScoresPath)
		if err != nil {
			log.Fatal("failed to open local store", "path", cfg.LocalScoresPath, "err", err)
		}
		db = store.DB()
		log.Info("using local SQLite store", "path", cfg.LocalScoresPath)
	}
	defer store.Close()

	if err := admin.ApplyRuntimeConfigToConfig(ctx, db, cfg); err != nil {
		log.Warn("runtime config not applied", "err", err)
	}

	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		rdb, err = redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("failed to connect to Redis", "err", err)
		}
		defer rdb.Close()
	} else {
		log.Info("redis not configured, sessions are process-local")
	}

	game.InitializeManager(store, rdb, cfg, profile)
	game.Manager.SetBroadcaster(ws.SessionHub)

	if rdb != nil {
		ws.SetRedisClient(rdb)
		ws.StartSessionEventSubscriber(ctx)
	}
	game.StartIdleWorker(ctx, rdb, cfg)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	api.SetupRoutes(router, db, rdb, store, cfg, profile)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("starting billiards server", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "err", err)
	}
	game.Manager.Shutdown(shutdownCtx)
}
