package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/integrator/shopify"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository"
	"github.com/selimsoyah/nexus-analytics-api/internal/config"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
)

// ShopifySyncConfig holds the schedule and throttling knobs for the Shopify sync
type ShopifySyncConfig struct {
	CronSchedule        string
	RequestDelaySeconds int
	MaxConcurrentJobs   int
	SyncEnabled         bool
}

// ShopifySyncService schedules and runs the full Shopify ingestion for every
// syncable shop, then the rollup refresh
type ShopifySyncService struct {
	scheduler           *gocron.Scheduler
	ctx                 context.Context
	config              ShopifySyncConfig
	storeRepo           repository.StoreRepository
	customerRepo        repository.CustomerRepository
	productRepo         repository.ProductRepository
	orderRepo           repository.OrderRepository
	syncStateRepo       repository.SyncStateRepository
	shopifyService      shopify.Integrator
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewShopifySyncService(
	storeRepo repository.StoreRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	syncStateRepo repository.SyncStateRepository,
	shopifyService shopify.Integrator,
	appConfig *config.Config,
) *ShopifySyncService {
	syncConfig := ShopifySyncConfig{
		CronSchedule:        appConfig.ShopifySync.CronSchedule,
		RequestDelaySeconds: appConfig.ShopifySync.RequestDelaySeconds,
		MaxConcurrentJobs:   appConfig.ShopifySync.MaxConcurrentJobs,
		SyncEnabled:         appConfig.ShopifySync.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":         syncConfig.CronSchedule,
		"request_delay_seconds": syncConfig.RequestDelaySeconds,
		"max_concurrent_jobs":   syncConfig.MaxConcurrentJobs,
		"sync_enabled":          syncConfig.SyncEnabled,
	}).Info("Shopify sync scheduler configured")

	return &ShopifySyncService{
		scheduler:      gocron.NewScheduler(time.UTC),
		config:         syncConfig,
		storeRepo:      storeRepo,
		customerRepo:   customerRepo,
		productRepo:    productRepo,
		orderRepo:      orderRepo,
		syncStateRepo:  syncStateRepo,
		shopifyService: shopifyService,
	}
}

func (s *ShopifySyncService) Start(ctx context.Context) error {
	s.ctx = ctx

	if !s.config.SyncEnabled {
		logrus.Info("Shopify sync disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Starting Shopify sync scheduler")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllStores(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule shopify sync: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping Shopify sync scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *ShopifySyncService) syncAllStores(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Shopify sync already running, skipping")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	logrus.Info("Starting Shopify sync for all syncable shops")

	run := &domain.SyncRun{
		Platform:  domain.PlatformShopify,
		StartedAt: startTime,
	}

	stores, err := s.getSyncableStores()
	if err != nil {
		logrus.WithError(err).Error("Failed to list stores for Shopify sync")
		errMsg := err.Error()
		run.Error = &errMsg
		recordRun(s.syncStateRepo, run)
		return
	}

	if len(stores) == 0 {
		logrus.Info("No syncable Shopify shops found")
		return
	}

	run.StoresTotal = len(stores)
	recordRun(s.syncStateRepo, run)

	totals := s.processStores(ctx, stores)

	if err := s.customerRepo.RefreshRollups(); err != nil {
		logrus.WithError(err).Error("Failed to refresh customer rollups after Shopify sync")
	}

	logrus.WithFields(logrus.Fields{
		"duration": time.Since(startTime).String(),
		"stores":   len(stores),
	}).Info("Shopify sync completed")

	s.lastSyncCompletedAt = time.Now()

	completedAt := s.lastSyncCompletedAt
	run.CompletedAt = &completedAt
	run.StoresSynced = totals.synced
	run.CustomersSynced = totals.customers
	run.ProductsSynced = totals.products
	run.OrdersSynced = totals.orders
	recordRun(s.syncStateRepo, run)
}

func (s *ShopifySyncService) getSyncableStores() ([]*domain.Store, error) {
	stores, err := s.storeRepo.ListStoresByPlatform(domain.PlatformShopify)
	if err != nil {
		return nil, err
	}

	syncable := make([]*domain.Store, 0, len(stores))
	for _, store := range stores {
		if !store.Syncable() {
			logrus.WithField("store_id", store.ID).Warn("Shop missing access token, skipping")
			continue
		}
		syncable = append(syncable, store)
	}

	logrus.WithField("syncable_stores", len(syncable)).Info("Shops found for Shopify sync")

	return syncable, nil
}

func (s *ShopifySyncService) processStores(ctx context.Context, stores []*domain.Store) storeSyncResult {
	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)

	var wg sync.WaitGroup
	var totalsMutex sync.Mutex
	var totals storeSyncResult

	for _, store := range stores {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(st *domain.Store) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			result := s.syncStore(ctx, st)

			totalsMutex.Lock()
			totals.add(result)
			totalsMutex.Unlock()
		}(store)
	}

	wg.Wait()

	return totals
}

func (s *ShopifySyncService) syncStore(ctx context.Context, store *domain.Store) storeSyncResult {
	syncStartedAt := time.Now()

	logrus.WithFields(logrus.Fields{
		"store_id":   store.ID,
		"store_name": store.Name,
	}).Info("Syncing Shopify shop")

	customers, err := s.shopifyService.FetchCustomers(ctx, store)
	if err != nil {
		logrus.WithError(err).WithField("store_id", store.ID).Error("Failed to fetch Shopify customers")
		return storeSyncResult{}
	}
	if err := s.customerRepo.SaveOrUpdate(customers); err != nil {
		logrus.WithError(err).WithField("store_id", store.ID).Error("Failed to save Shopify customers")
		return storeSyncResult{}
	}

	s.requestDelay()

	products, err := s.shopifyService.FetchProducts(ctx, store)
	if err != nil {
		logrus.WithError(err).WithField("store_id", store.ID).Error("Failed to fetch Shopify products")
		return storeSyncResult{}
	}
	if err := s.productRepo.SaveOrUpdate(products); err != nil {
		logrus.WithError(err).WithField("store_id", store.ID).Error("Failed to save Shopify products")
		return storeSyncResult{}
	}

	s.requestDelay()

	orders, err := s.shopifyService.FetchOrders(ctx, store)
	if err != nil {
		logrus.WithError(err).WithField("store_id", store.ID).Error("Failed to fetch Shopify orders")
		return storeSyncResult{}
	}

	if err := linkOrders(s.orderRepo, s.productRepo, domain.PlatformShopify, orders); err != nil {
		logrus.WithError(err).WithField("store_id", store.ID).Error("Failed to link Shopify orders")
		return storeSyncResult{}
	}

	if err := s.orderRepo.SaveOrUpdate(ctx, orders); err != nil {
		logrus.WithError(err).WithField("store_id", store.ID).Error("Failed to save Shopify orders")
		return storeSyncResult{}
	}

	if err := s.storeRepo.UpdateLastSyncedAt(store.ID, syncStartedAt); err != nil {
		logrus.WithError(err).WithField("store_id", store.ID).Error("Failed to stamp shop sync time")
		return storeSyncResult{}
	}

	logrus.WithFields(logrus.Fields{
		"store_id":  store.ID,
		"customers": len(customers),
		"products":  len(products),
		"orders":    len(orders),
	}).Info("Shopify shop synced")

	return storeSyncResult{
		synced:    1,
		customers: len(customers),
		products:  len(products),
		orders:    len(orders),
	}
}

func (s *ShopifySyncService) requestDelay() {
	if s.config.RequestDelaySeconds > 0 {
		time.Sleep(time.Duration(s.config.RequestDelaySeconds) * time.Second)
	}
}

// TriggerManualSync kicks off a sync outside the cron window. The run is
// bound to the service context from Start, never the caller's: an HTTP
// request context is cancelled the moment the handler returns.
func (s *ShopifySyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Shopify sync already running, ignoring manual request")
		return
	}
	s.syncMutex.Unlock()

	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	logrus.Info("Starting manual Shopify sync")
	go s.syncAllStores(ctx)
}

func (s *ShopifySyncService) GetStatus() map[string]any {
	return map[string]any{
		"platform":               domain.PlatformShopify,
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_max_concurrent":    s.config.MaxConcurrentJobs,
		"sync_request_delay_s":   s.config.RequestDelaySeconds,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
