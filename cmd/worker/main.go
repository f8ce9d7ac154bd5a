package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"folioforge/internal/config"
	"folioforge/internal/database"
	"folioforge/internal/enhance"
	"folioforge/internal/metrics"
	"folioforge/internal/storage"
	"folioforge/internal/tasks"
	"folioforge/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	log.Println("database connection ready for worker")

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	log.Printf("storage client ready, bucket=%s", cfg.MinIO.Bucket)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	var enhancer enhance.Enhancer
	if cfg.AI.GeminiAPIKey != "" {
		gemini, err := enhance.NewGeminiEnhancer(context.Background(), cfg.AI.GeminiAPIKey, cfg.AI.Model)
		if err != nil {
			log.Fatalf("init gemini enhancer: %v", err)
		}
		enhancer = gemini
		logger.Info("gemini enhancer ready", slog.String("model", cfg.AI.Model))
	} else {
		enhancer = enhance.Noop{}
		logger.Warn("GEMINI_API_KEY 未配置，文本润色退化为回显")
	}

	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr()}
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
	})

	exportHandler := worker.NewPDFExportHandler(db, storageClient, redisClient, logger)
	enhanceHandler := worker.NewTextEnhanceHandler(db, enhancer, redisClient, logger)

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypePDFExport, exportHandler)
	mux.Handle(tasks.TypeTextEnhance, enhanceHandler)

	logger.Info("worker service started",
		slog.String("redis_addr", cfg.Redis.Addr()),
		slog.Int("concurrency", cfg.Worker.Concurrency),
	)
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}
