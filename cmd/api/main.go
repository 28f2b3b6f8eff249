package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/database/postgres"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/integrator/shopify"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/integrator/shopify/shopifyclient"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/integrator/woocommerce"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/integrator/woocommerce/wooclient"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository"
	"github.com/selimsoyah/nexus-analytics-api/internal/api"
	"github.com/selimsoyah/nexus-analytics-api/internal/config"
	"github.com/selimsoyah/nexus-analytics-api/internal/scheduler"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/authenticating"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/clv"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/crossplatform"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/forecasting"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/reporting"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/segmenting"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid log level %q, falling back to info", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	userRepo := repository.NewUserRepository(pgConn)
	storeRepo := repository.NewStoreRepository(pgConn)
	customerRepo := repository.NewCustomerRepository(pgConn)
	productRepo := repository.NewProductRepository(pgConn)
	orderRepo := repository.NewOrderRepository(pgConn)
	analyticsRepo := repository.NewAnalyticsRepository(pgConn)
	segmentRepo := repository.NewSegmentRepository(pgConn)
	syncStateRepo := repository.NewSyncStateRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)

	wooIntegrator := woocommerce.NewService(wooclient.NewClient(cfg.WooCommerce), cfg.WooCommerce)
	shopifyIntegrator := shopify.NewService(shopifyclient.NewClient(cfg.Shopify), cfg.Shopify)

	segmentingService := segmenting.NewService(customerRepo, segmentRepo)
	clvService := clv.NewService(customerRepo, analyticsRepo)
	forecastingService := forecasting.NewService(analyticsRepo, cfg.Forecast)
	crossPlatformService := crossplatform.NewService(analyticsRepo)
	reportingService := reporting.NewService(customerRepo, analyticsRepo)

	wooSyncService := scheduler.NewWooSyncService(
		storeRepo,
		customerRepo,
		productRepo,
		orderRepo,
		syncStateRepo,
		wooIntegrator,
		cfg,
	)

	shopifySyncService := scheduler.NewShopifySyncService(
		storeRepo,
		customerRepo,
		productRepo,
		orderRepo,
		syncStateRepo,
		shopifyIntegrator,
		cfg,
	)

	segmentRefreshService := scheduler.NewSegmentRefreshService(segmentingService, cfg)

	if err := wooSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Failed to start the WooCommerce sync scheduler")
	}
	if err := shopifySyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Failed to start the Shopify sync scheduler")
	}
	if err := segmentRefreshService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Failed to start the segment refresh scheduler")
	}

	server, err := api.New(
		cfg,
		authenticator,
		segmentingService,
		clvService,
		forecastingService,
		crossPlatformService,
		reportingService,
		shopifyIntegrator,
		storeRepo,
		customerRepo,
		productRepo,
		syncStateRepo,
		wooSyncService,
		shopifySyncService,
		segmentRefreshService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to PostgreSQL")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("PostgreSQL connection check failed")
	}

	logrus.Info("PostgreSQL connection established")
	return conn
}
