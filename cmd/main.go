package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"survey-service/internal/config"
	"survey-service/internal/database/minio"
	"survey-service/internal/database/postgres"
	"survey-service/internal/database/redis"
	"survey-service/internal/event"
	"survey-service/internal/handlers"
	"survey-service/internal/repository"
	"survey-service/internal/services"
	"survey-service/internal/worker"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"gopkg.in/natefinch/lumberjack.v2"
)

func setupLogging(cfg config.LogConfig) (io.WriteCloser, error) {
	fmt.Println("Log directory:", cfg.Dir)
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	logFile := filepath.Join(cfg.Dir, fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02")))
	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	log.SetOutput(rotator)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(os.Stdout, rotator), nil)))

	return rotator, nil
}

func main() {
	cfg := config.New()

	logFile, err := setupLogging(cfg.LogCfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Connecting to PostgreSQL with: host=%s, port=%s, user=%s, dbname=%s",
		cfg.PostgresCfg.Host, cfg.PostgresCfg.Port, cfg.PostgresCfg.Username, cfg.PostgresCfg.DBname)
	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		log.Printf("error connect to database: %s", err)
		postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}
	defer db.Close()

	redisClient, err := redis.NewRedisClient(cfg.RedisCfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	minioClient, err := minio.NewMinioClient(cfg.MinioCfg)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	// Without RabbitMQ the HTTP API still runs; survey events and quality
	// alerts stay off until restart.
	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		log.Printf("RabbitMQ unavailable, survey events disabled: %v", err)
	} else {
		defer rabbitConn.Close()
	}

	// repositories
	surveyRepository := repository.NewSurveyRepository(db)
	assignmentRepository := repository.NewAssignmentRepository(db)
	exportJobRepository := repository.NewExportJobRepository(db)
	snapshotRepository := repository.NewAnalyticsCacheRepository(redisClient.GetClient())

	// workers
	pool := worker.NewWorkingPool(cfg.ExportCfg.Workers, cfg.ExportCfg.QueueSize)
	var poolWg sync.WaitGroup
	poolWg.Add(1)
	go pool.Start(ctx, &poolWg)

	// services
	analyticsCache := services.NewAnalyticsCache(snapshotRepository, cfg.CacheCfg)
	analyticsService := services.NewAnalyticsService(surveyRepository, analyticsCache)
	surveyService := services.NewSurveyService(surveyRepository, analyticsCache)
	assignmentService := services.NewAssignmentService(assignmentRepository, surveyRepository)
	exportService := services.NewExportService(exportJobRepository, analyticsService, minioClient, pool,
		minio.Storage.SurveyExports, cfg.ExportCfg.PresignExpiry)

	var alerter services.QualityAlerter
	if rabbitConn != nil {
		alerter = event.NewNotificationHelper(event.NewNotificationPublisher(rabbitConn))
	}
	qualityService := services.NewQualityService(surveyRepository, alerter)

	var consumer *event.SurveyConsumer
	if rabbitConn != nil {
		consumer = event.NewSurveyConsumer(rabbitConn, event.NewDefaultSurveyEventHandler(analyticsService, qualityService))
		if err := consumer.Start(ctx); err != nil {
			log.Printf("Failed to start survey consumer: %v", err)
		}
	}

	scheduler := worker.NewScheduler(0)
	if err := scheduler.AddJob("mastersheet-export", cfg.ExportCfg.CronSpec, exportService.ScheduledMastersheetExport); err != nil {
		log.Fatalf("Failed to schedule mastersheet export: %v", err)
	}
	scheduler.Start()

	app := fiber.New(fiber.Config{
		AppName:      "Survey Service",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	})
	app.Use(requestid.New(requestid.Config{Header: "X-Request-ID"}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-User-ID", "X-API-Key", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
	}))
	app.Use(recover.New())
	app.Use("/survey/protected", handlers.RequireAPIKey(cfg.APIKey))

	app.Get("/checkhealth", func(c fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := redisClient.Ping(pingCtx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("Survey service is degraded: " + err.Error())
		}
		if consumer != nil && !consumer.IsRunning() {
			return c.Status(fiber.StatusServiceUnavailable).SendString("Survey service is degraded: survey consumer stopped")
		}
		return c.Status(fiber.StatusOK).SendString("Survey service is healthy")
	})

	handlers.NewAnalyticsHandler(analyticsService).Register(app)
	handlers.NewQualityHandler(qualityService).Register(app)
	handlers.NewSurveyHandler(surveyService).Register(app)
	handlers.NewExportHandler(exportService).Register(app)
	handlers.NewAssignmentHandler(assignmentService).Register(app)

	go func() {
		log.Printf("Starting survey-service on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down survey-service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Failed to shut down HTTP server: %v", err)
	}
	scheduler.Stop(shutdownCtx)
	poolWg.Wait()
	log.Printf("survey-service stopped")
}
