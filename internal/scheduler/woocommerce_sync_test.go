package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	woomocks "github.com/selimsoyah/nexus-analytics-api/infrastructure/integrator/woocommerce/mocks"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository/mocks"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
)

func TestWooSyncService_syncStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStoreRepo := mocks.NewMockStoreRepository(ctrl)
	mockCustomerRepo := mocks.NewMockCustomerRepository(ctrl)
	mockProductRepo := mocks.NewMockProductRepository(ctrl)
	mockOrderRepo := mocks.NewMockOrderRepository(ctrl)
	mockWooService := woomocks.NewMockIntegrator(ctrl)

	service := &WooSyncService{
		config:       WooSyncConfig{MaxConcurrentJobs: 1},
		storeRepo:    mockStoreRepo,
		customerRepo: mockCustomerRepo,
		productRepo:  mockProductRepo,
		orderRepo:    mockOrderRepo,
		wooService:   mockWooService,
	}

	store := &domain.Store{
		ID:       "store-1",
		Name:     "Acme Eyewear",
		Platform: domain.PlatformWooCommerce,
	}

	customerExternalID := "742"
	productExternalID := "55"

	tests := []struct {
		name     string
		setup    func(orders []*domain.Order)
		orders   []*domain.Order
		validate func(t *testing.T, orders []*domain.Order)
	}{
		{
			name: "full sync links orders to warehouse IDs and stamps the store",
			orders: []*domain.Order{
				{
					ExternalID:         "9001",
					Platform:           domain.PlatformWooCommerce,
					CustomerExternalID: &customerExternalID,
					Items: []*domain.OrderItem{
						{ExternalID: "1", ProductExternalID: &productExternalID},
					},
				},
			},
			setup: func(orders []*domain.Order) {
				mockWooService.EXPECT().
					FetchCustomers(gomock.Any(), store).
					Return([]*domain.Customer{{ExternalID: customerExternalID}}, nil)
				mockCustomerRepo.EXPECT().
					SaveOrUpdate(gomock.Any()).
					Return(nil)

				mockWooService.EXPECT().
					FetchProducts(gomock.Any(), store).
					Return([]*domain.Product{{ExternalID: productExternalID}}, nil)
				mockProductRepo.EXPECT().
					SaveOrUpdate(gomock.Any()).
					Return(nil)

				mockWooService.EXPECT().
					FetchOrders(gomock.Any(), store).
					Return(orders, nil)

				mockOrderRepo.EXPECT().
					ListCustomerIDsByExternalID(domain.PlatformWooCommerce).
					Return(map[string]string{customerExternalID: "cust-abc"}, nil)
				mockProductRepo.EXPECT().
					ListProductIDsByExternalID(domain.PlatformWooCommerce).
					Return(map[string]string{productExternalID: "prod-xyz"}, nil)

				mockOrderRepo.EXPECT().
					SaveOrUpdate(gomock.Any(), orders).
					Return(nil)

				mockStoreRepo.EXPECT().
					UpdateLastSyncedAt(store.ID, gomock.Any()).
					Return(nil)
			},
			validate: func(t *testing.T, orders []*domain.Order) {
				require.NotNil(t, orders[0].CustomerID)
				assert.Equal(t, "cust-abc", *orders[0].CustomerID)
				require.NotNil(t, orders[0].Items[0].ProductID)
				assert.Equal(t, "prod-xyz", *orders[0].Items[0].ProductID)
			},
		},
		{
			name: "fetch failure stops the store without stamping it",
			setup: func([]*domain.Order) {
				mockWooService.EXPECT().
					FetchCustomers(gomock.Any(), store).
					Return(nil, assert.AnError)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(tt.orders)

			service.syncStore(context.Background(), store)

			if tt.validate != nil {
				tt.validate(t, tt.orders)
			}
		})
	}
}

func TestWooSyncService_getSyncableStores(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStoreRepo := mocks.NewMockStoreRepository(ctrl)
	service := &WooSyncService{storeRepo: mockStoreRepo}

	key := "ck_live"
	secret := "cs_live"
	emptyKey := ""

	stores := []*domain.Store{
		{ID: "s1", Platform: domain.PlatformWooCommerce, Status: domain.StoreStatusActive, ConsumerKey: &key, ConsumerSecret: &secret},
		{ID: "s2", Platform: domain.PlatformWooCommerce, Status: domain.StoreStatusActive, ConsumerKey: &emptyKey, ConsumerSecret: &secret},
		{ID: "s3", Platform: domain.PlatformWooCommerce, Status: domain.StoreStatusDisabled, ConsumerKey: &key, ConsumerSecret: &secret},
		{ID: "s4", Platform: domain.PlatformWooCommerce, Status: domain.StoreStatusActive},
	}

	mockStoreRepo.EXPECT().
		ListStoresByPlatform(domain.PlatformWooCommerce).
		Return(stores, nil)

	syncable, err := service.getSyncableStores()

	require.NoError(t, err)
	require.Len(t, syncable, 1)
	assert.Equal(t, "s1", syncable[0].ID)
}

func TestLinkOrders_UnknownCustomerStaysUnlinked(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProductRepo := mocks.NewMockProductRepository(ctrl)
	mockOrderRepo := mocks.NewMockOrderRepository(ctrl)

	unknown := "999999"
	orders := []*domain.Order{
		{ExternalID: "1", CustomerExternalID: &unknown},
		{ExternalID: "2"}, // guest checkout
	}

	mockOrderRepo.EXPECT().
		ListCustomerIDsByExternalID(domain.PlatformShopify).
		Return(map[string]string{"1000": "cust-1"}, nil)
	mockProductRepo.EXPECT().
		ListProductIDsByExternalID(domain.PlatformShopify).
		Return(map[string]string{}, nil)

	err := linkOrders(mockOrderRepo, mockProductRepo, domain.PlatformShopify, orders)

	require.NoError(t, err)
	assert.Nil(t, orders[0].CustomerID)
	assert.Nil(t, orders[1].CustomerID)
}

func TestLinkOrders_EmptyBatchSkipsLookups(t *testing.T) {
	err := linkOrders(nil, nil, domain.PlatformWooCommerce, nil)
	require.NoError(t, err)
}

func TestWooSyncService_syncAllStores_RecordsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStoreRepo := mocks.NewMockStoreRepository(ctrl)
	mockCustomerRepo := mocks.NewMockCustomerRepository(ctrl)
	mockProductRepo := mocks.NewMockProductRepository(ctrl)
	mockOrderRepo := mocks.NewMockOrderRepository(ctrl)
	mockSyncStateRepo := mocks.NewMockSyncStateRepository(ctrl)
	mockWooService := woomocks.NewMockIntegrator(ctrl)

	service := &WooSyncService{
		config:        WooSyncConfig{MaxConcurrentJobs: 1},
		storeRepo:     mockStoreRepo,
		customerRepo:  mockCustomerRepo,
		productRepo:   mockProductRepo,
		orderRepo:     mockOrderRepo,
		syncStateRepo: mockSyncStateRepo,
		wooService:    mockWooService,
	}

	key := "ck_live"
	secret := "cs_live"
	store := &domain.Store{
		ID:             "store-1",
		Platform:       domain.PlatformWooCommerce,
		Status:         domain.StoreStatusActive,
		ConsumerKey:    &key,
		ConsumerSecret: &secret,
	}

	mockStoreRepo.EXPECT().
		ListStoresByPlatform(domain.PlatformWooCommerce).
		Return([]*domain.Store{store}, nil)

	mockWooService.EXPECT().
		FetchCustomers(gomock.Any(), store).
		Return([]*domain.Customer{{ExternalID: "742"}, {ExternalID: "743"}}, nil)
	mockCustomerRepo.EXPECT().SaveOrUpdate(gomock.Any()).Return(nil)

	mockWooService.EXPECT().
		FetchProducts(gomock.Any(), store).
		Return([]*domain.Product{{ExternalID: "55"}}, nil)
	mockProductRepo.EXPECT().SaveOrUpdate(gomock.Any()).Return(nil)

	mockWooService.EXPECT().
		FetchOrders(gomock.Any(), store).
		Return([]*domain.Order{{ExternalID: "9001"}}, nil)
	mockOrderRepo.EXPECT().
		ListCustomerIDsByExternalID(domain.PlatformWooCommerce).
		Return(map[string]string{}, nil)
	mockProductRepo.EXPECT().
		ListProductIDsByExternalID(domain.PlatformWooCommerce).
		Return(map[string]string{}, nil)
	mockOrderRepo.EXPECT().SaveOrUpdate(gomock.Any(), gomock.Any()).Return(nil)

	mockStoreRepo.EXPECT().UpdateLastSyncedAt(store.ID, gomock.Any()).Return(nil)
	mockCustomerRepo.EXPECT().RefreshRollups().Return(nil)

	var recorded []*domain.SyncRun
	mockSyncStateRepo.EXPECT().
		RecordRun(gomock.Any()).
		DoAndReturn(func(run *domain.SyncRun) error {
			recorded = append(recorded, run)
			return nil
		}).
		Times(2)

	service.syncAllStores(context.Background())

	require.Len(t, recorded, 2)
	final := recorded[1]
	assert.Equal(t, domain.PlatformWooCommerce, final.Platform)
	assert.Equal(t, 1, final.StoresTotal)
	assert.Equal(t, 1, final.StoresSynced)
	assert.Equal(t, 2, final.CustomersSynced)
	assert.Equal(t, 1, final.ProductsSynced)
	assert.Equal(t, 1, final.OrdersSynced)
	require.NotNil(t, final.CompletedAt)
	assert.True(t, final.Succeeded())
}

func TestWooSyncService_GetStatus(t *testing.T) {
	service := &WooSyncService{
		config: WooSyncConfig{
			CronSchedule:      "0 3 * * *",
			MaxConcurrentJobs: 2,
			SyncEnabled:       true,
		},
		lastSyncStartedAt: time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC),
	}

	status := service.GetStatus()

	assert.Equal(t, domain.PlatformWooCommerce, status["platform"])
	assert.Equal(t, true, status["sync_enabled"])
	assert.Equal(t, "0 3 * * *", status["sync_cron"])
}
