package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/reviewpilot/reviewpilot/internal/database"
	"github.com/reviewpilot/reviewpilot/internal/platforms"
	"github.com/reviewpilot/reviewpilot/internal/sentiment"
	"github.com/reviewpilot/reviewpilot/internal/tasks"
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

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		logger.Error("encryptor setup failed", "error", err)
		os.Exit(1)
	}

	client := queue.NewClient(&cfg.Redis)
	defer client.Close()

	handler := tasks.NewHandler(
		db,
		logger,
		encryptor,
		platforms.DefaultRegistry(),
		sentiment.NewAnalyzer(),
		client,
	)

	mux := asynq.NewServeMux()
	handler.Register(mux)

	// A local cron enqueues the scheduler tick; the tick itself fans out
	// due syncs through the queue so only one worker runs each.
	c := cron.New()
	_, err = c.AddFunc("* * * * *", func() {
		task, err := tasks.NewSchedulerTickTask()
		if err != nil {
			logger.Error("building scheduler tick failed", "error", err)
			return
		}
		if _, err := client.Enqueue(task, asynq.Unique(time.Minute)); err != nil {
			logger.Error("enqueueing scheduler tick failed", "error", err)
		}
	})
	if err != nil {
		logger.Error("cron setup failed", "error", err)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	server := queue.NewServer(&cfg.Redis, 10)

	go func() {
		logger.Info("worker started")
		if err := server.Run(mux); err != nil {
			logger.Error("worker failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	server.Shutdown()
}
