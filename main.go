package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trimly/config"
	"trimly/cron"
	"trimly/database"
	catalogRepo "trimly/database/repository/catalog"
	reservationRepo "trimly/database/repository/reservation"
	"trimly/handlers"
	"trimly/middleware"
	"trimly/routes"
	"trimly/services/booking"
	"trimly/services/tenant"
	"trimly/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	catRepo := catalogRepo.NewMongoCatalogRepo()
	resRepo := reservationRepo.NewMongoReservationRepo()

	if err := catRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure catalog indexes: %v", err)
	}
	if err := resRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure reservation indexes: %v", err)
	}

	// services.
	engine := &booking.DefaultEngine{
		Catalog:            catRepo,
		Reservations:       resRepo,
		Clock:              utils.SystemClock(),
		Logger:             logger,
		DefaultStepMinutes: config.AppConfig.SlotStepMinutes,
		DefaultHoldTTL:     time.Duration(config.AppConfig.HoldTTLSeconds) * time.Second,
	}

	resolver := &tenant.DefaultResolver{
		Catalog:  catRepo,
		Cache:    utils.GetCacheClient(),
		CacheTTL: 10 * time.Minute,
	}

	bookingHandler := handlers.NewBookingHandler(engine, logger)
	routes.RegisterRoutes(router, bookingHandler, resolver)

	// Background maintenance and health monitoring.
	cron.InitArchivalWorker(resRepo)
	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Info("starting server", zap.String("port", config.AppConfig.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: forced shutdown: %v", err)
	}
	logger.Info("server exited")
}
