package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/integrator/shopify"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository"
	"github.com/selimsoyah/nexus-analytics-api/internal/api/handler"
	"github.com/selimsoyah/nexus-analytics-api/internal/api/handler/router"
	"github.com/selimsoyah/nexus-analytics-api/internal/config"
	"github.com/selimsoyah/nexus-analytics-api/internal/scheduler"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/authenticating"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/clv"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/crossplatform"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/forecasting"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/reporting"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/segmenting"
	"github.com/selimsoyah/nexus-analytics-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Server struct {
	httpServer *http.Server
}

func New(
	config *config.Config,
	authenticator authenticating.Authenticator,
	segmentingService segmenting.Segmenter,
	clvService clv.Calculator,
	forecastingService forecasting.Forecaster,
	crossPlatformService crossplatform.Analyzer,
	reportingService reporting.Reporter,
	shopifyIntegrator shopify.Integrator,
	storeRepo repository.StoreRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	syncStateRepo repository.SyncStateRepository,
	wooSyncService *scheduler.WooSyncService,
	shopifySyncService *scheduler.ShopifySyncService,
	segmentRefreshService *scheduler.SegmentRefreshService,
) (*Server, error) {
	syncServices := handler.SyncServices{
		WooSyncService:        wooSyncService,
		ShopifySyncService:    shopifySyncService,
		SegmentRefreshService: segmentRefreshService,
		SyncStateRepo:         syncStateRepo,
	}

	rt := router.New(
		router.WithNotFound(notFoundHandler()),
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Authentication(authenticator)...),
		router.WithRoutes(handler.Users(authenticator)...),
		router.WithRoutes(handler.Segmentation(segmentingService)...),
		router.WithRoutes(handler.CLV(clvService)...),
		router.WithRoutes(handler.Forecasting(forecastingService)...),
		router.WithRoutes(handler.Analytics(reportingService, crossPlatformService)...),
		router.WithRoutes(handler.Reports(reportingService)...),
		router.WithRoutes(handler.Catalog(customerRepo, productRepo)...),
		router.WithRoutes(handler.Connectors(syncServices, shopifyIntegrator, storeRepo)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(),
		middleware.AuthMiddleware(authenticator),
	}

	handler := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Server starting")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Server stopped unexpectedly")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Interrupt signal received")
	case <-ctx.Done():
		logrus.Info("Application context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Starting graceful shutdown")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Error during server shutdown")
		return err
	}

	logrus.Info("Server shut down cleanly")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// notFoundHandler returns a JSON body for unmatched paths instead of the
// router's plain-text default
func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)

		body, _ := json.Marshal(map[string]any{
			"error": map[string]any{
				"code":    "RES_001",
				"message": "Resource not found",
			},
		})
		w.Write(body)
	})
}
