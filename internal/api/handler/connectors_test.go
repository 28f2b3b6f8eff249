package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	woomocks "github.com/selimsoyah/nexus-analytics-api/infrastructure/integrator/woocommerce/mocks"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository/mocks"
	"github.com/selimsoyah/nexus-analytics-api/internal/config"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
	"github.com/selimsoyah/nexus-analytics-api/internal/scheduler"
)

// A manual sync responds 202 and keeps running in the background, so it must
// not inherit the request context: net/http cancels that context as soon as
// the handler returns.
func TestRunSync_OutlivesRequestContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStoreRepo := mocks.NewMockStoreRepository(ctrl)
	mockCustomerRepo := mocks.NewMockCustomerRepository(ctrl)
	mockProductRepo := mocks.NewMockProductRepository(ctrl)
	mockOrderRepo := mocks.NewMockOrderRepository(ctrl)
	mockSyncStateRepo := mocks.NewMockSyncStateRepository(ctrl)
	mockWooService := woomocks.NewMockIntegrator(ctrl)

	cfg := &config.Config{
		WooSync: config.WooSync{MaxConcurrentJobs: 1},
	}
	wooSync := scheduler.NewWooSyncService(
		mockStoreRepo,
		mockCustomerRepo,
		mockProductRepo,
		mockOrderRepo,
		mockSyncStateRepo,
		mockWooService,
		cfg,
	)
	require.NoError(t, wooSync.Start(context.Background()))

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

	var fetchCtxErr error
	mockWooService.EXPECT().
		FetchCustomers(gomock.Any(), store).
		DoAndReturn(func(ctx context.Context, _ *domain.Store) ([]*domain.Customer, error) {
			fetchCtxErr = ctx.Err()
			return []*domain.Customer{{ExternalID: "742"}}, nil
		})
	mockCustomerRepo.EXPECT().SaveOrUpdate(gomock.Any()).Return(nil)

	mockWooService.EXPECT().FetchProducts(gomock.Any(), store).Return(nil, nil)
	mockProductRepo.EXPECT().SaveOrUpdate(gomock.Any()).Return(nil)

	mockWooService.EXPECT().FetchOrders(gomock.Any(), store).Return(nil, nil)
	mockOrderRepo.EXPECT().SaveOrUpdate(gomock.Any(), gomock.Any()).Return(nil)

	mockStoreRepo.EXPECT().UpdateLastSyncedAt(store.ID, gomock.Any()).Return(nil)
	mockCustomerRepo.EXPECT().RefreshRollups().Return(nil)

	done := make(chan struct{})
	mockSyncStateRepo.EXPECT().
		RecordRun(gomock.Any()).
		DoAndReturn(func(run *domain.SyncRun) error {
			if run.CompletedAt != nil {
				close(done)
			}
			return nil
		}).
		Times(2)

	// The request context is already dead, as it is in production by the
	// time the background goroutine reaches the platform API
	reqCtx, cancel := context.WithCancel(context.Background())
	cancel()
	reqCtx = context.WithValue(reqCtx, httprouter.ParamsKey, httprouter.Params{
		{Key: "platform", Value: SyncTargetWooCommerce},
	})

	req := httptest.NewRequest(http.MethodPost, "/v2/connectors/woocommerce/sync", nil).WithContext(reqCtx)
	rec := httptest.NewRecorder()

	RunSync(SyncServices{WooSyncService: wooSync})(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sync never completed")
	}

	assert.NoError(t, fetchCtxErr)
}
