// Package main wires the HTTP server for the tracker API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sprintdesk/tracker-api/internal/api"
	"github.com/sprintdesk/tracker-api/internal/core/service"
	"github.com/sprintdesk/tracker-api/internal/infrastructure/config"
	mongodb "github.com/sprintdesk/tracker-api/internal/infrastructure/db/mongo"
	redisdb "github.com/sprintdesk/tracker-api/internal/infrastructure/db/redis"
	"github.com/sprintdesk/tracker-api/internal/infrastructure/queue"
	"github.com/sprintdesk/tracker-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	projectRepo := mongodb.NewProjectRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	eventRepo := mongodb.NewEventRepository(db)

	for _, idx := range []interface {
		EnsureIndexes(ctx context.Context) error
	}{userRepo, projectRepo, taskRepo, eventRepo} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	blacklist := redisdb.NewTokenBlacklist(rdb)

	// --- Audit trail dispatcher ---
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, eventRepo, log)
	dispatcher.Start(ctx)

	// --- Services ---
	rules := service.NewRules(userRepo, projectRepo)
	workflow := service.NewWorkflow(rules)
	taskService := service.NewTaskService(taskRepo, eventRepo, workflow, rules, dispatcher, log)
	projectService := service.NewProjectService(projectRepo, taskRepo, workflow, log)
	userService := service.NewUserService(userRepo, projectRepo, taskRepo, rules, log)
	authService := service.NewAuthService(userRepo, blacklist, cfg.JWTSecret, cfg.TokenTTL, log)

	e := api.NewRouter(api.Deps{
		Auth:      authService,
		Users:     userService,
		Projects:  projectService,
		Tasks:     taskService,
		Blacklist: blacklist,
		JWTSecret: cfg.JWTSecret,
		Mongo:     db,
		Redis:     rdb,
		Log:       log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	stop()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
