package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"livestream-backend/infrastructure/cache"
	"livestream-backend/infrastructure/configuration"
	"livestream-backend/infrastructure/logger"
	"livestream-backend/infrastructure/objectstore"
	"livestream-backend/infrastructure/persistence"
	httpHandler "livestream-backend/interfaces/http"
	"livestream-backend/server"
	"livestream-backend/usecase"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")
	cfg := configuration.Load()

	mongoClient, err := persistence.NewMongoDb(ctx, cfg.Database.Mongo.URI)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to MongoDB")
		os.Exit(1)
	}
	db := mongoClient.Database(cfg.Database.Mongo.Name)
	if err := persistence.EnsureIndexes(ctx, db); err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot ensure MongoDB indexes")
		os.Exit(1)
	}
	logger.GetLogger().Info("MongoDB connected successfully")

	objectStore, err := objectstore.NewMinioStore(ctx, cfg.Storage)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to object storage")
		os.Exit(1)
	}

	// The catalog degrades to direct queries when Redis is unavailable.
	redisCache, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		cfg.Redis.Username,
		cfg.Redis.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - continuing without catalog cache")
		redisCache = nil
	}

	userRepository := persistence.NewUserRepository(db)
	videoRepository := persistence.NewVideoRepository(db)
	followRepository := persistence.NewFollowRepository(db)
	notificationRepository := persistence.NewNotificationRepository(db)

	notificationUsecase := usecase.NewNotificationUsecase(notificationRepository, followRepository)
	videoUsecase := usecase.NewVideoUsecase(videoRepository, userRepository, objectStore, notificationUsecase, cfg)
	socialUsecase := usecase.NewSocialUsecase(videoRepository, userRepository, followRepository, notificationUsecase, cfg)
	catalogUsecase := usecase.NewCatalogUsecase(videoRepository, userRepository, redisCache, cfg)
	userUsecase := usecase.NewUserUsecase(userRepository, videoRepository, followRepository, objectStore, cfg)

	userHandler := httpHandler.NewUserHandler(userUsecase, socialUsecase)
	videoHandler := httpHandler.NewVideoHandler(videoUsecase, socialUsecase, catalogUsecase)
	notificationHandler := httpHandler.NewNotificationHandler(notificationUsecase)

	router := server.InitiateRouter(cfg, userHandler, videoHandler, notificationHandler, userRepository)

	logger.GetLogger().WithField("port", cfg.App.Port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.App.Port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}
	_ = mongoClient.Disconnect(shutdownCtx)

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
