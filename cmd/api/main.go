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
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lastresort-api/internal/config"
	"github.com/noah-isme/lastresort-api/internal/database"
	"github.com/noah-isme/lastresort-api/internal/handler"
	"github.com/noah-isme/lastresort-api/internal/middleware"
	"github.com/noah-isme/lastresort-api/internal/models"
	"github.com/noah-isme/lastresort-api/internal/repository"
	"github.com/noah-isme/lastresort-api/internal/router"
	"github.com/noah-isme/lastresort-api/internal/service"
	"github.com/noah-isme/lastresort-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Competition{},
		&models.Registration{},
		&models.Submission{},
		&models.Problem{},
		&models.AIEvaluation{},
		&models.LeaderboardEntry{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("no redis url configured, leaderboard caching disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("no nats url configured, evaluations run in-process")
	}

	var oracle ai.Oracle
	if cfg.OpenAIAPIKey != "" {
		openAIOracle, err := ai.NewOpenAIOracle(ai.OpenAIConfig{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.AIModel,
			MaxTokens:   cfg.AIMaxTokens,
			Temperature: cfg.AITemperature,
			Logger:      logger,
		})
		if err != nil {
			log.Fatalf("failed to create ai oracle: %v", err)
		}
		oracle = openAIOracle
	} else {
		log.Fatal("openai api key must be provided")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	profileRepo := repository.NewProfileRepository(db)
	competitionRepo := repository.NewCompetitionRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)

	policyService := service.NewPolicyService(competitionRepo, registrationRepo, profileRepo)
	competitionService := service.NewCompetitionService(competitionRepo, policyService, validate, logger)
	registrationService := service.NewRegistrationService(registrationRepo, competitionRepo, submissionRepo, policyService, logger)
	submissionService := service.NewSubmissionService(submissionRepo, profileRepo, policyService, validate, logger)
	leaderboardService := service.NewLeaderboardService(leaderboardRepo, competitionRepo, redisClient, cfg.LeaderboardCacheTTL, logger)
	evaluationService := service.NewEvaluationService(submissionRepo, evaluationRepo, leaderboardRepo, leaderboardService, oracle, service.EvaluationConfig{
		MaxAttempts: cfg.EvalMaxAttempts,
		BackoffBase: cfg.EvalBackoffBase,
		CallTimeout: cfg.EvalCallTimeout,
		Workers:     cfg.EvalWorkers,
	}, logger)
	dispatcher := service.NewEvaluationDispatcher(natsConn, cfg.EvalSubject, evaluationService, logger)
	reviewService := service.NewReviewService(submissionRepo, competitionRepo, profileRepo, policyService, dispatcher, validate, logger)

	competitionHandler := handler.NewCompetitionHandler(competitionService, logger)
	registrationHandler := handler.NewRegistrationHandler(registrationService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	reviewHandler := handler.NewReviewHandler(reviewService, logger)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		CompetitionHandler:  competitionHandler,
		RegistrationHandler: registrationHandler,
		SubmissionHandler:   submissionHandler,
		ReviewHandler:       reviewHandler,
		LeaderboardHandler:  leaderboardHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	if err := dispatcher.Start(workerCtx); err != nil {
		log.Fatalf("failed to start evaluation worker: %v", err)
	}

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, stopWorkers)
}

func waitForShutdown(app *fiber.App, stopWorkers context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
