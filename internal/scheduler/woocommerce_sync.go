package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/integrator/woocommerce"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository"
	"github.com/selimsoyah/nexus-analytics-api/internal/config"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
)

// WooSyncConfig holds the schedule and throttling knobs for the WooCommerce sync
type WooSyncConfig struct {
	CronSchedule        string
	RequestDelaySeconds int
	MaxConcurrentJobs   int
	SyncEnabled         bool
}

// WooSyncService schedules and runs the full WooCommerce ingestion: customers,
// products and orders for every syncable store, then the rollup refresh.
type WooSyncService struct {
	scheduler           *gocron.Scheduler
	ctx                 context.Context
	config              WooSyncConfig
	storeRepo           repository.StoreRepository
	customerRepo        repository.CustomerRepository
	productRepo         repository.ProductRepository
	orderRepo           repository.OrderRepository
	syncStateRepo       repository.SyncStateRepository
	wooService          woocommerce.Integrator
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewWooSyncService(
	storeRepo repository.StoreRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	syncStateRepo repository.SyncStateRepository,
	wooService woocommerce.Integrator,
	appConfig *config.Config,
) *WooSyncService {
	syncConfig := WooSyncConfig{
		CronSchedule:        appConfig.WooSync.CronSchedule,
		RequestDelaySeconds: appConfig.WooSync.RequestDelaySeconds,
		MaxConcurrentJobs:   appConfig.WooSync.MaxConcurrentJobs,
		SyncEnabled:         appConfig.WooSync.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":         syncConfig.CronSchedule,
		"request_delay_seconds": syncConfig.RequestDelaySeconds,
		"max_concurrent_jobs":   syncConfig.MaxConcurrentJobs,
		"sync_enabled":          syncConfig.SyncEnabled,
	}).Info("WooCommerce sync scheduler configured")

	return &WooSyncService{
		scheduler:     gocron.NewScheduler(time.UTC),
		config:        syncConfig,
		storeRepo:     storeRepo,
		customerRepo:  customerRepo,
		productRepo:   productRepo,
		orderRepo:     orderRepo,
		syncStateRepo: syncStateRepo,
		wooService:    wooService,
	}
}

func (s *WooSyncService) Start(ctx context.Context) error {
	s.ctx = ctx

	if !s.config.SyncEnabled {
		logrus.Info("WooCommerce sync disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Starting WooCommerce sync scheduler")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllStores(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule woocommerce sync: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping WooCommerce sync scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *WooSyncService) syncAllStores(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("WooCommerce sync already running, skipping")
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

	logrus.Info("Starting WooCommerce sync for all syncable stores")

	run := &domain.SyncRun{
		Platform:  domain.PlatformWooCommerce,
		StartedAt: startTime,
	}

	stores, err := s.getSyncableStores()
	if err != nil {
		logrus.WithError(err).Error("Failed to list stores for WooCommerce sync")
		errMsg := err.Error()
		run.Error = &errMsg
		recordRun(s.syncStateRepo, run)
		return
	}

	if len(stores) == 0 {
		logrus.Info("No syncable WooCommerce stores found")
		return
	}

	run.StoresTotal = len(stores)
	recordRun(s.syncStateRepo, run)

	totals := s.processStores(ctx, stores)

	if err := s.customerRepo.RefreshRollups(); err != nil {
		logrus.WithError(err).Error("Failed to refresh customer rollups after WooCommerce sync")
	}

	logrus.WithFields(logrus.Fields{
		"duration": time.Since(startTime).String(),
		"stores":   len(stores),
	}).Info("WooCommerce sync completed")

	s.lastSyncCompletedAt = time.Now()

	completedAt := s.lastSyncCompletedAt
	run.CompletedAt = &completedAt
	run.StoresSynced = totals.synced
	run.CustomersSynced = totals.customers
	run.ProductsSynced = totals.products
	run.OrdersSynced = totals.orders
	recordRun(s.syncStateRepo, run)
}

func (s *WooSyncService) getSyncableStores() ([]*domain.Store, error) {
	stores, err := s.storeRepo.ListStoresByPlatform(domain.PlatformWooCommerce)
	if err != nil {
		return nil, err
	}

	syncable := make([]*domain.Store, 0, len(stores))
	for _, store := range stores {
		if !store.Syncable() {
			logrus.WithField("store_id", store.ID).Warn("Store missing credentials, skipping")
			continue
		}
		syncable = append(syncable, store)
	}

	logrus.WithField("syncable_stores", len(syncable)).Info("Stores found for WooCommerce sync")

	return syncable, nil
}

func (s *WooSyncService) processStores(ctx context.Context, stores []*domain.Store) storeSyncResult {
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

func (s *WooSyncService) syncStore(ctx context.Context, store *domain.Store) storeSyncResult {
	syncStartedAt := time.Now()

	logrus.WithFields(logrus.Fields{
		"store_id":   store.ID,
		"store_name": store.Name,
	}).Info("Syncing WooCommerce store")

	customers, err := s.wooService.FetchCustomers(ctx, store)
	if err != nil {
		logrus.WithError(err).WithField("store_id", store.ID).Error("Failed to fetch WooCommerce customers")
		return storeSyncResult{}
	}
	if err := s.customerRepo.SaveOrUpdate(customers); err != nil {
		logrus.WithError(err).WithField("store_id", store.ID).Error("Failed to save WooCommerce customers")
		return storeSyncResult{}
	}

	s.requestDelay()

	products, err := s.wooService.FetchProducts(ctx, store)
	if err != nil {
		logrus.WithError(err).WithField("store_id", store.ID).Error("Failed to fetch WooCommerce products")
		return storeSyncResult{}
	}
	if err := s.productRepo.SaveOrUpdate(products); err != nil {
		logrus.WithError(err).WithField("store_id", store.ID).Error("Failed to save WooCommerce products")
		return storeSyncResult{}
	}

	s.requestDelay()

	orders, err := s.wooService.FetchOrders(ctx, store)
	if err != nil {
		logrus.WithError(err).WithField("store_id", store.ID).Error("Failed to fetch WooCommerce orders")
		return storeSyncResult{}
	}

	if err := linkOrders(s.orderRepo, s.productRepo, domain.PlatformWooCommerce, orders); err != nil {
		logrus.WithError(err).WithField("store_id", store.ID).Error("Failed to link WooCommerce orders")
		return storeSyncResult{}
	}

	if err := s.orderRepo.SaveOrUpdate(ctx, orders); err != nil {
		logrus.WithError(err).WithField("store_id", store.ID).Error("Failed to save WooCommerce orders")
		return storeSyncResult{}
	}

	if err := s.storeRepo.UpdateLastSyncedAt(store.ID, syncStartedAt); err != nil {
		logrus.WithError(err).WithField("store_id", store.ID).Error("Failed to stamp store sync time")
		return storeSyncResult{}
	}

	logrus.WithFields(logrus.Fields{
		"store_id":  store.ID,
		"customers": len(customers),
		"products":  len(products),
		"orders":    len(orders),
	}).Info("WooCommerce store synced")

	return storeSyncResult{
		synced:    1,
		customers: len(customers),
		products:  len(products),
		orders:    len(orders),
	}
}

func (s *WooSyncService) requestDelay() {
	if s.config.RequestDelaySeconds > 0 {
		time.Sleep(time.Duration(s.config.RequestDelaySeconds) * time.Second)
	}
}

// TriggerManualSync kicks off a sync outside the cron window. The run is
// bound to the service context from Start, never the caller's: an HTTP
// request context is cancelled the moment the handler returns.
func (s *WooSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("WooCommerce sync already running, ignoring manual request")
		return
	}
	s.syncMutex.Unlock()

	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	logrus.Info("Starting manual WooCommerce sync")
	go s.syncAllStores(ctx)
}

func (s *WooSyncService) GetStatus() map[string]any {
	return map[string]any{
		"platform":               domain.PlatformWooCommerce,
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_max_concurrent":    s.config.MaxConcurrentJobs,
		"sync_request_delay_s":   s.config.RequestDelaySeconds,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
