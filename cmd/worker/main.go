package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/marvinkos/pawstore/internal/config"
	"github.com/marvinkos/pawstore/internal/logger"
	"github.com/marvinkos/pawstore/internal/media"
	"github.com/marvinkos/pawstore/internal/repository"
	"github.com/marvinkos/pawstore/internal/secrets"
	"github.com/marvinkos/pawstore/internal/service"
	"github.com/marvinkos/pawstore/internal/worker"
)

// Standalone enhancement worker: processes pending jobs without serving the
// HTTP API. Useful when job processing is scaled separately from the API.
func main() {
	log := logger.NewDefault()
	logger.SetDefaultLogger(log)
	defer logger.Sync()

	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}

	jobRepo := repository.NewJobRepository(db)
	productRepo := repository.NewProductRepository(db)

	mediaStore, err := media.NewStore(&media.Config{
		Provider: cfg.Media.Provider,
		Cloudinary: media.CloudinaryConfig{
			CloudName: cfg.Media.Cloudinary.CloudName,
			APIKey:    cfg.Media.Cloudinary.APIKey,
			APISecret: cfg.Media.Cloudinary.APISecret,
			BaseURL:   cfg.Media.Cloudinary.BaseURL,
		},
		S3: media.S3Config{
			Endpoint:  cfg.Media.S3.Endpoint,
			AccessKey: cfg.Media.S3.AccessKey,
			SecretKey: cfg.Media.S3.SecretKey,
			UseSSL:    cfg.Media.S3.UseSSL,
			Bucket:    cfg.Media.S3.Bucket,
			Region:    cfg.Media.S3.Region,
			PublicURL: cfg.Media.S3.PublicURL,
		},
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize media store")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	secretProvider := secrets.New(ctx, &secrets.Config{
		Environment: cfg.App.Environment,
		SecretName:  cfg.Gemini.SecretName,
		Region:      cfg.Gemini.Region,
	})

	enhancer := service.NewGeminiEnhancer(&service.GeminiConfig{
		Model:   cfg.Gemini.Model,
		BaseURL: cfg.Gemini.BaseURL,
	})

	enhancementService := service.NewEnhancementService(
		jobRepo, productRepo, mediaStore, enhancer, secretProvider, log,
	)

	jobWorker := worker.New(jobRepo, enhancementService, log, &worker.Config{
		Concurrency:  cfg.Worker.Concurrency,
		PollInterval: cfg.Worker.PollInterval,
		BatchSize:    cfg.Worker.BatchSize,
		JobTimeout:   cfg.Worker.JobTimeout,
	})

	jobWorker.Run(ctx)
	log.Info("Worker exited")
}
