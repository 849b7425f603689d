package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marvinkos/pawstore/internal/api"
	"github.com/marvinkos/pawstore/internal/config"
	"github.com/marvinkos/pawstore/internal/logger"
	"github.com/marvinkos/pawstore/internal/media"
	"github.com/marvinkos/pawstore/internal/repository"
	"github.com/marvinkos/pawstore/internal/secrets"
	"github.com/marvinkos/pawstore/internal/service"
	"github.com/marvinkos/pawstore/internal/worker"
)

func main() {
	log := logger.NewDefault()
	logger.SetDefaultLogger(log)
	defer logger.Sync()

	// Support CONFIG_PATH environment variable for production deployments
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
	storeRepo := repository.NewStoreRepository(db)

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

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if s3Store, ok := mediaStore.(*media.S3Store); ok {
		if err := s3Store.EnsureBucket(rootCtx); err != nil {
			log.WithError(err).Fatal("Failed to ensure storage bucket")
		}
	}

	secretProvider := secrets.New(rootCtx, &secrets.Config{
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

	provisionService := service.NewProvisionService(&service.HostingConfig{
		BaseURL:    cfg.Hosting.BaseURL,
		Token:      cfg.Hosting.Token,
		ProjectID:  cfg.Hosting.ProjectID,
		BaseDomain: cfg.Hosting.BaseDomain,
	}, storeRepo, log)

	jobWorker := worker.New(jobRepo, enhancementService, log, &worker.Config{
		Concurrency:  cfg.Worker.Concurrency,
		PollInterval: cfg.Worker.PollInterval,
		BatchSize:    cfg.Worker.BatchSize,
		JobTimeout:   cfg.Worker.JobTimeout,
	})
	go jobWorker.Run(rootCtx)

	router := api.SetupRouter(jobRepo, productRepo, provisionService, jobWorker, cfg, log)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-rootCtx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server exited")
}
