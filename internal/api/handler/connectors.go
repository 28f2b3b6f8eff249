package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/integrator/shopify"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
	"github.com/selimsoyah/nexus-analytics-api/internal/scheduler"
	"github.com/selimsoyah/nexus-analytics-api/pkg/apiErrors"
	"github.com/selimsoyah/nexus-analytics-api/pkg/utils"
)

// Sync target names accepted by the manual sync endpoint
const (
	SyncTargetWooCommerce = "woocommerce"
	SyncTargetShopify     = "shopify"
	SyncTargetSegments    = "segments"
	SyncTargetAll         = "all"
)

// SyncServices holds the background services the connector endpoints can
// trigger and inspect
type SyncServices struct {
	WooSyncService        *scheduler.WooSyncService
	ShopifySyncService    *scheduler.ShopifySyncService
	SegmentRefreshService *scheduler.SegmentRefreshService
	SyncStateRepo         repository.SyncStateRepository
}

type StoreRequest struct {
	Name           string `json:"name" validate:"required"`
	Platform       string `json:"platform" validate:"required"`
	BaseURL        string `json:"base_url" validate:"required,url"`
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
	AccessToken    string `json:"access_token"`
	Status         string `json:"status"`
}

type ShopifyConnectRequest struct {
	ShopDomain string `json:"shop_domain" validate:"required"`
	Code       string `json:"code" validate:"required"`
}

// RunSync triggers a manual sync for one platform, the segment refresh, or
// everything at once
func RunSync(services SyncServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := httprouter.ParamsFromContext(r.Context()).ByName("platform")
		if target == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Sync target is required", nil)
			return
		}

		switch target {
		case SyncTargetWooCommerce:
			if services.WooSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "WooCommerce sync service is not available", nil)
				return
			}
			services.WooSyncService.TriggerManualSync()

		case SyncTargetShopify:
			if services.ShopifySyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Shopify sync service is not available", nil)
				return
			}
			services.ShopifySyncService.TriggerManualSync()

		case SyncTargetSegments:
			if services.SegmentRefreshService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Segment refresh service is not available", nil)
				return
			}
			services.SegmentRefreshService.TriggerManualRefresh()

		case SyncTargetAll:
			if services.WooSyncService != nil {
				services.WooSyncService.TriggerManualSync()
			}
			if services.ShopifySyncService != nil {
				services.ShopifySyncService.TriggerManualSync()
			}
			if services.SegmentRefreshService != nil {
				services.SegmentRefreshService.TriggerManualRefresh()
			}

		default:
			apiErrors.WriteError(w, apiErrors.ErrUnsupportedPlatform, "Unknown sync target. Accepted values: woocommerce, shopify, segments, all", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Sync started",
			"target":  target,
		})
	}
}

// GetSyncStatus reports the scheduling state of every background service,
// plus the latest persisted run per platform so freshness survives restarts
func GetSyncStatus(services SyncServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if services.WooSyncService != nil {
			status["woocommerce"] = services.WooSyncService.GetStatus()
		}
		if services.ShopifySyncService != nil {
			status["shopify"] = services.ShopifySyncService.GetStatus()
		}
		if services.SegmentRefreshService != nil {
			status["segments"] = services.SegmentRefreshService.GetStatus()
		}

		if services.SyncStateRepo != nil {
			runs, err := services.SyncStateRepo.LatestRuns()
			if err != nil {
				logrus.WithError(err).Error("Failed to load latest sync runs")
			} else {
				status["last_runs"] = runs
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	}
}

// ListSyncRuns returns the persisted sync history, newest first. Accepts
// optional platform and limit query parameters.
func ListSyncRuns(syncStateRepo repository.SyncStateRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform := domain.Platform(r.URL.Query().Get("platform"))
		if platform != "" && !platform.Valid() {
			apiErrors.WriteError(w, apiErrors.ErrUnsupportedPlatform, "Unsupported platform", map[string]any{
				"platform": string(platform),
			})
			return
		}

		limit := 20
		if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
			parsed, err := strconv.Atoi(rawLimit)
			if err != nil || parsed < 1 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "limit must be a positive integer", nil)
				return
			}
			limit = parsed
		}

		runs, err := syncStateRepo.ListRuns(platform, limit)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to list sync runs", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"count": len(runs),
			"runs":  runs,
		})
	}
}

func ListStores(storeRepo repository.StoreRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := storeRepo.ListStores(nil)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to list stores", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"count":  len(stores),
			"stores": stores,
		})
	}
}

// CreateStore registers a new store connection. Credentials are accepted
// here for WooCommerce; Shopify stores get their token via the OAuth
// exchange endpoint.
func CreateStore(storeRepo repository.StoreRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid request format", nil)
			return
		}

		if err := validate.Struct(req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Name, platform and base_url are required", nil)
			return
		}

		platform := domain.Platform(req.Platform)
		if !platform.Valid() {
			apiErrors.WriteError(w, apiErrors.ErrUnsupportedPlatform, "Unsupported platform", map[string]any{
				"platform": req.Platform,
			})
			return
		}

		storeID, err := utils.GenerateID()
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to create store", nil)
			return
		}

		store := &domain.Store{
			ID:       storeID,
			Name:     req.Name,
			Platform: platform,
			BaseURL:  req.BaseURL,
			Status:   domain.StoreStatusActive,
		}
		if req.Status != "" {
			store.Status = domain.StoreStatus(req.Status)
		}
		if req.ConsumerKey != "" {
			store.ConsumerKey = &req.ConsumerKey
		}
		if req.ConsumerSecret != "" {
			store.ConsumerSecret = &req.ConsumerSecret
		}
		if req.AccessToken != "" {
			store.AccessToken = &req.AccessToken
		}

		if err := storeRepo.SaveOrUpdate(store); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to create store", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(store)
	}
}

func UpdateStore(storeRepo repository.StoreRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if storeID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Store ID is required", nil)
			return
		}

		store, err := storeRepo.GetStoreByID(storeID)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to load store", nil)
			return
		}
		if store == nil {
			apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Store not found", nil)
			return
		}

		var req StoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid request format", nil)
			return
		}

		// Platform is immutable once the store is connected
		if req.Name != "" {
			store.Name = req.Name
		}
		if req.BaseURL != "" {
			store.BaseURL = req.BaseURL
		}
		if req.Status != "" {
			store.Status = domain.StoreStatus(req.Status)
		}
		if req.ConsumerKey != "" {
			store.ConsumerKey = &req.ConsumerKey
		}
		if req.ConsumerSecret != "" {
			store.ConsumerSecret = &req.ConsumerSecret
		}
		if req.AccessToken != "" {
			store.AccessToken = &req.AccessToken
		}

		if err := storeRepo.SaveOrUpdate(store); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to update store", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(store)
	}
}

// GetShopifyAuthorizeURL returns the OAuth consent URL for a shop. The
// merchant completes the consent screen there and the resulting code is
// posted back through the shopify-token endpoint.
func GetShopifyAuthorizeURL(integrator shopify.Integrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopDomain := r.URL.Query().Get("shop")
		if shopDomain == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "shop query parameter is required", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"shop":          shopDomain,
			"authorize_url": integrator.AuthorizeURL(shopDomain),
		})
	}
}

// ConnectShopify exchanges a Shopify OAuth authorization code for a
// permanent access token and stores it on the store record
func ConnectShopify(integrator shopify.Integrator, storeRepo repository.StoreRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if storeID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Store ID is required", nil)
			return
		}

		store, err := storeRepo.GetStoreByID(storeID)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to load store", nil)
			return
		}
		if store == nil {
			apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Store not found", nil)
			return
		}
		if store.Platform != domain.PlatformShopify {
			apiErrors.WriteError(w, apiErrors.ErrUnsupportedPlatform, "OAuth exchange only applies to Shopify stores", nil)
			return
		}

		var req ShopifyConnectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid request format", nil)
			return
		}

		if err := validate.Struct(req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "shop_domain and code are required", nil)
			return
		}

		token, err := integrator.ExchangeToken(r.Context(), req.ShopDomain, req.Code)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrPlatformAuth, "Shopify rejected the authorization code", nil)
			return
		}

		if err := storeRepo.UpdateAccessToken(store.ID, token); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to store access token", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"store_id":  store.ID,
			"connected": true,
		})
	}
}
