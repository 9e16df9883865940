package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/placement-tracker-api/api/swagger"
	"github.com/noah-isme/placement-tracker-api/internal/handler"
	internalmiddleware "github.com/noah-isme/placement-tracker-api/internal/middleware"
	"github.com/noah-isme/placement-tracker-api/internal/repository"
	"github.com/noah-isme/placement-tracker-api/internal/service"
	"github.com/noah-isme/placement-tracker-api/pkg/assistant"
	"github.com/noah-isme/placement-tracker-api/pkg/cache"
	"github.com/noah-isme/placement-tracker-api/pkg/config"
	"github.com/noah-isme/placement-tracker-api/pkg/database"
	"github.com/noah-isme/placement-tracker-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/placement-tracker-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/placement-tracker-api/pkg/middleware/requestid"
)

// @title Placement Tracker API
// @version 1.0
// @description Student placement and academics tracking for students, mentors and the placement office.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.NewMigrator(db, logr).ApplyDir(context.Background(), cfg.Database.MigrationsDir); err != nil {
			logr.Sugar().Fatalw("failed to apply migrations", "error", err)
		}
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	readiness := map[string]handler.Pinger{"postgres": db}
	var cacheRepo service.CacheRepository
	if cfg.Dashboard.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("dashboard cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			redisRepo := repository.NewCacheRepository(client)
			cacheRepo = redisRepo
			readiness["redis"] = handler.PingFunc(redisRepo.Ping)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled)

	var generator service.TextGenerator
	if cfg.Assistant.Enabled {
		gemini, err := assistant.NewGemini(context.Background(), cfg.Assistant.APIKey, cfg.Assistant.Model, cfg.Assistant.Timeout)
		if err != nil {
			logr.Warn("assistant disabled", zap.Error(err))
		} else {
			generator = gemini
		}
	}

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	mentorRepo := repository.NewMentorRepository(db)
	placementRepo := repository.NewPlacementRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	studentSvc := service.NewStudentService(studentRepo, placementRepo, cacheSvc, metrics, validate, logr)
	mentorSvc := service.NewMentorService(studentRepo, placementRepo, mentorRepo, logr)
	tpoSvc := service.NewTPOService(service.TPOServiceParams{
		Students:   studentRepo,
		Placements: placementRepo,
		Mentors:    mentorRepo,
		Cache:      cacheSvc,
		Metrics:    metrics,
		Validator:  validate,
		Logger:     logr,
		CacheTTL:   cfg.Dashboard.CacheTTL,
	})
	assistantSvc := service.NewAssistantService(studentRepo, placementRepo, mentorRepo, generator, metrics, validate, logr)
	exportSvc := service.NewExportService(nil, nil, metrics, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	handler.RegisterRoutes(r, cfg.APIPrefix, authSvc, handler.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Student:   handler.NewStudentHandler(studentSvc),
		Mentor:    handler.NewMentorHandler(mentorSvc, exportSvc),
		TPO:       handler.NewTPOHandler(tpoSvc, exportSvc),
		Assistant: handler.NewAssistantHandler(assistantSvc),
		Metrics:   handler.NewMetricsHandler(metrics, readiness),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	logr.Info("server stopped")
}
