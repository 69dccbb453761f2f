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

	_ "github.com/noah-isme/sma-board-api/api/swagger"
	"github.com/noah-isme/sma-board-api/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-board-api/internal/middleware"
	"github.com/noah-isme/sma-board-api/internal/repository"
	"github.com/noah-isme/sma-board-api/internal/service"
	"github.com/noah-isme/sma-board-api/pkg/config"
	"github.com/noah-isme/sma-board-api/pkg/export"
	"github.com/noah-isme/sma-board-api/pkg/i18n"
	"github.com/noah-isme/sma-board-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-board-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-board-api/pkg/middleware/requestid"
	"github.com/noah-isme/sma-board-api/pkg/translator"
)

// @title SMA Board API
// @version 0.1.0
// @description Multilingual classroom announcement board
// @BasePath /api/v1
// @schemes http

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blobs, closeBlobs, err := openBlobStore(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer closeBlobs()

	metricsSvc := service.NewMetricsService()

	announcementRepo := repository.NewAnnouncementRepository(blobs, cfg.Storage.AnnouncementsKey, logr)
	outcome := announcementRepo.Load(ctx)
	metricsSvc.RecordStoreLoad(string(outcome))
	logr.Info("announcements loaded", zap.String("outcome", string(outcome)), zap.Int("count", announcementRepo.Count()))
	preferenceRepo := repository.NewPreferenceRepository(blobs, cfg.Storage.PreferenceKey, logr)

	var gateway service.TranslationGateway
	gemini, err := translator.NewGeminiClient(translator.GeminiConfig{
		BaseURL: cfg.Translation.BaseURL,
		APIKey:  cfg.Translation.APIKey,
		Model:   cfg.Translation.Model,
		Timeout: cfg.Translation.Timeout,
		Logger:  logr,
	})
	if err != nil {
		logr.Warn("translation provider disabled, publishing will fail", zap.Error(err))
	} else {
		gateway = gemini
	}

	localizer, err := i18n.NewLocalizer(logr)
	if err != nil {
		logr.Fatal("failed to load messages", zap.Error(err))
	}

	announcementSvc := service.NewAnnouncementService(announcementRepo, gateway, validator.New(), metricsSvc, logr)
	feedSvc := service.NewFeedService(announcementRepo, preferenceRepo, localizer, export.NewCSVExporter(), export.NewPDFExporter(cfg.Export.PDFFontPath), metricsSvc, logr)

	announcementHandler := handler.NewAnnouncementHandler(announcementSvc)
	feedHandler := handler.NewFeedHandler(feedSvc)
	catalogHandler := handler.NewCatalogHandler(feedSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, storageProbe(blobs, cfg.Storage.PreferenceKey))

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/languages", catalogHandler.Languages)
	api.GET("/categories", catalogHandler.Categories)

	announcements := api.Group("/announcements")
	announcements.GET("", announcementHandler.List)
	announcements.POST("", announcementHandler.Create)
	announcements.GET("/:id", announcementHandler.Get)
	announcements.PUT("/:id", announcementHandler.Update)
	announcements.DELETE("/:id", announcementHandler.Delete)

	api.GET("/feed", feedHandler.Feed)
	api.GET("/feed/export", feedHandler.Export)
	api.GET("/preferences/language", feedHandler.GetPreference)
	api.PUT("/preferences/language", feedHandler.SetPreference)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
