package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AKM-dv/aafa-partner/config"
	ordersRepo "github.com/AKM-dv/aafa-partner/database/repository/orders"
	sessionRepo "github.com/AKM-dv/aafa-partner/database/repository/session"
	"github.com/AKM-dv/aafa-partner/gateway"
	"github.com/AKM-dv/aafa-partner/handlers"
	"github.com/AKM-dv/aafa-partner/middleware"
	"github.com/AKM-dv/aafa-partner/models"
	"github.com/AKM-dv/aafa-partner/routes"
	"github.com/AKM-dv/aafa-partner/services/location"
	"github.com/AKM-dv/aafa-partner/services/orders"
	"github.com/AKM-dv/aafa-partner/services/session"
	"github.com/AKM-dv/aafa-partner/services/wallet"
	"github.com/AKM-dv/aafa-partner/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	sessRepo := sessionRepo.NewRedisSessionRepo()
	ordRepo := ordersRepo.NewRedisOrdersRepo()

	// collaborators.
	gw := gateway.NewClient()
	loc := location.NewDeviceProvider()

	// services.
	sessionService := session.NewDefaultSessionService(sessRepo, ordRepo, gw, loc)
	reconciler := orders.NewDefaultReconcilerService(sessionService, gw, ordRepo, loc)
	walletService := wallet.NewDefaultWalletService(sessionService, gw)

	// Resume the stored session before serving; a registered provider gets
	// the reconciler running immediately.
	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	if step, _ := sessionService.Resume(startCtx); step == models.StepHome {
		reconciler.Start(startCtx)
	}
	cancelStart()

	hb := handlers.NewHandlerBundle(sessionService, reconciler, walletService, gw, loc)
	routes.RegisterRoutes(router, hb)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	reconciler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("forced shutdown: %v", err)
	}
}
