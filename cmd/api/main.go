package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/omnivion/omnivion-api/internal/config"
	"github.com/omnivion/omnivion-api/internal/database"
	"github.com/omnivion/omnivion-api/internal/handler"
	"github.com/omnivion/omnivion-api/internal/middleware"
	"github.com/omnivion/omnivion-api/internal/models"
	"github.com/omnivion/omnivion-api/internal/repository"
	"github.com/omnivion/omnivion-api/internal/router"
	"github.com/omnivion/omnivion-api/internal/service"
	"github.com/omnivion/omnivion-api/pkg/advisor"
	"github.com/omnivion/omnivion-api/pkg/ml"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Student{}, &models.User{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, analytics cache disabled")
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var events *nats.Conn
	if cfg.NATSURL != "" {
		events, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, high-risk alerts disabled")
			events = nil
		} else {
			defer events.Close()
		}
	}

	scorer, err := ml.NewClient(ml.ClientConfig{
		BaseURL:        cfg.MLServiceURL,
		PredictTimeout: cfg.MLPredictTimeout,
		BatchTimeout:   cfg.MLBatchTimeout,
		Logger:         logger,
	})
	if err != nil {
		log.Fatalf("failed to create scoring client: %v", err)
	}

	var insightAdvisor advisor.Advisor
	if cfg.AIProvider == "openai" && cfg.OpenAIAPIKey != "" {
		openaiAdvisor, err := advisor.NewOpenAIAdvisor(advisor.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create advisor: %v", err)
		}
		insightAdvisor = openaiAdvisor
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	userRepo := repository.NewUserRepository(db)

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	studentService := service.NewStudentService(studentRepo, validate, logger)
	analyticsService := service.NewAnalyticsService(studentRepo, redisClient, cfg.AnalyticsCacheTTL, logger)
	predictionService := service.NewPredictionService(scorer, studentRepo, events, cfg.AlertSubject, cfg.MLServiceURL, logger)
	importService := service.NewImportService(studentRepo, cfg.UploadMaxMB, cfg.ImportMaxRows, logger)
	insightService := service.NewInsightService(studentRepo, insightAdvisor, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	studentHandler := handler.NewStudentHandler(studentService, insightService, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, logger)
	predictionHandler := handler.NewPredictionHandler(predictionService, validate, logger)
	importHandler := handler.NewImportHandler(importService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.UploadMaxMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
	})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		StudentHandler:    studentHandler,
		AnalyticsHandler:  analyticsHandler,
		PredictionHandler: predictionHandler,
		ImportHandler:     importHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
