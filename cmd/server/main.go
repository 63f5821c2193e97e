package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/reviewpilot/reviewpilot/internal/api"
	"github.com/reviewpilot/reviewpilot/internal/auth"
	"github.com/reviewpilot/reviewpilot/internal/database"
	"github.com/reviewpilot/reviewpilot/internal/responder"
	"github.com/reviewpilot/reviewpilot/internal/sentiment"
	"github.com/reviewpilot/reviewpilot/internal/tenant"
	"github.com/reviewpilot/reviewpilot/pkg/config"
	"github.com/reviewpilot/reviewpilot/pkg/crypto"
	"github.com/reviewpilot/reviewpilot/pkg/queue"
	"github.com/reviewpilot/reviewpilot/pkg/util"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		logger.Error("encryptor setup failed", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	asynqClient := queue.NewClient(&cfg.Redis)
	defer asynqClient.Close()

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService)
	tenantService := tenant.NewService(db)
	generator := responder.NewTemplateGenerator(rand.NewSource(time.Now().UnixNano()), cfg.AI.ResponseDelay())
	analyzer := sentiment.NewAnalyzer()

	router := api.NewRouter(api.RouterConfig{
		DB:        db,
		Logger:    logger,
		Config:    cfg,
		Auth:      authService,
		JWT:       jwtService,
		Tenants:   tenantService,
		Generator: generator,
		Analyzer:  analyzer,
		Encryptor: encryptor,
		Queue:     asynqClient,
		Redis:     rdb,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr(), "env", cfg.Server.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
