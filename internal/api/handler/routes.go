package handler

import (
	"net/http"

	"github.com/selimsoyah/nexus-analytics-api/infrastructure/integrator/shopify"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository"
	"github.com/selimsoyah/nexus-analytics-api/internal/api/handler/router"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/authenticating"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/clv"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/crossplatform"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/forecasting"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/reporting"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/segmenting"
	"github.com/selimsoyah/nexus-analytics-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/token",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/register",
			Method:  http.MethodPost,
			Handler: CreateUser(service),
		},
		{
			Path:        "/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v2/users/:id/change-password",
			Method:      http.MethodPost,
			Handler:     ChangePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v2/users/:id/generate-password",
			Method:      http.MethodPost,
			Handler:     GeneratePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Users(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v2/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v2/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v2/users/:id",
			Method:      http.MethodGet,
			Handler:     GetUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v2/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Segmentation(service segmenting.Segmenter) []router.Route {
	return []router.Route{
		{
			Path:        "/v2/analytics/segmentation/rfm",
			Method:      http.MethodPost,
			Handler:     RefreshSegments(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAnalyst()},
		},
		{
			Path:        "/v2/analytics/segmentation/rfm",
			Method:      http.MethodGet,
			Handler:     GetSegmentProfiles(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v2/analytics/segmentation/profiles",
			Method:      http.MethodGet,
			Handler:     GetSegmentProfiles(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v2/analytics/segmentation/summary",
			Method:      http.MethodGet,
			Handler:     GetSegmentSummary(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v2/analytics/segmentation/customer/:id",
			Method:      http.MethodGet,
			Handler:     GetCustomerSegmentProfile(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v2/analytics/segmentation/segments/:name",
			Method:      http.MethodGet,
			Handler:     GetSegmentMembers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v2/analytics/customer-segments-detailed",
			Method:      http.MethodGet,
			Handler:     GetSegmentDetails(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func CLV(service clv.Calculator) []router.Route {
	return []router.Route{
		{
			Path:        "/v2/analytics/clv/customer/:id",
			Method:      http.MethodGet,
			Handler:     GetCustomerCLV(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v2/analytics/clv/bulk",
			Method:      http.MethodGet,
			Handler:     GetBulkCLV(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v2/analytics/clv/platform-summary",
			Method:      http.MethodGet,
			Handler:     GetCLVSummaries(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Forecasting(service forecasting.Forecaster) []router.Route {
	return []router.Route{
		{
			Path:        "/v2/forecasting/revenue/forecast",
			Method:      http.MethodGet,
			Handler:     GetRevenueForecast(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v2/forecasting/revenue/trends",
			Method:      http.MethodGet,
			Handler:     GetRevenueTrends(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v2/forecasting/revenue/seasonality",
			Method:      http.MethodGet,
			Handler:     GetSeasonality(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v2/forecasting/revenue/scenarios",
			Method:      http.MethodGet,
			Handler:     GetScenarios(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v2/forecasting/revenue/scenarios",
			Method:      http.MethodPost,
			Handler:     GetScenarios(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Analytics(reportingService reporting.Reporter, crossPlatformService crossplatform.Analyzer) []router.Route {
	return []router.Route{
		{
			Path:        "/v2/analytics/customer-insights/:id",
			Method:      http.MethodGet,
			Handler:     GetCustomerInsights(reportingService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v2/analytics/product-performance",
			Method:      http.MethodGet,
			Handler:     GetProductPerformance(reportingService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v2/analytics/cross-platform-insights",
			Method:      http.MethodGet,
			Handler:     GetCrossPlatformInsights(crossPlatformService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v2/analytics/cross-platform/predictions",
			Method:      http.MethodGet,
			Handler:     GetPlatformPredictions(crossPlatformService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v2/analytics/cross-platform/anomalies",
			Method:      http.MethodGet,
			Handler:     GetRevenueAnomalies(crossPlatformService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAnalyst()},
		},
	}
}

func Reports(service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:        "/v2/reports/overview",
			Method:      http.MethodGet,
			Handler:     GetReportsOverview(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Catalog(
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
) []router.Route {
	return []router.Route{
		{
			Path:        "/v2/catalog/products",
			Method:      http.MethodGet,
			Handler:     ListCatalogProducts(productRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v2/catalog/customers/lookup",
			Method:      http.MethodGet,
			Handler:     LookupCatalogCustomer(customerRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAnalyst()},
		},
	}
}

func Connectors(
	syncServices SyncServices,
	shopifyIntegrator shopify.Integrator,
	storeRepo repository.StoreRepository,
) []router.Route {
	return []router.Route{
		{
			Path:        "/v2/connectors/:platform/sync",
			Method:      http.MethodPost,
			Handler:     RunSync(syncServices),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v2/connectors/status",
			Method:      http.MethodGet,
			Handler:     GetSyncStatus(syncServices),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAnalyst()},
		},
		{
			Path:        "/v2/connectors/runs",
			Method:      http.MethodGet,
			Handler:     ListSyncRuns(syncServices.SyncStateRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAnalyst()},
		},
		// Store management lives under /v2/stores so the static paths do
		// not collide with the :platform wildcard above
		{
			Path:        "/v2/stores",
			Method:      http.MethodGet,
			Handler:     ListStores(storeRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v2/stores",
			Method:      http.MethodPost,
			Handler:     CreateStore(storeRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v2/stores/:id",
			Method:      http.MethodPut,
			Handler:     UpdateStore(storeRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v2/stores/:id/shopify-token",
			Method:      http.MethodPost,
			Handler:     ConnectShopify(shopifyIntegrator, storeRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v2/connectors/shopify-authorize-url",
			Method:      http.MethodGet,
			Handler:     GetShopifyAuthorizeURL(shopifyIntegrator),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
