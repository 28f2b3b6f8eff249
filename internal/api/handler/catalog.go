package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
	"github.com/selimsoyah/nexus-analytics-api/pkg/apiErrors"
)

// ListCatalogProducts returns the synced product catalog, optionally filtered
// by platform and category
func ListCatalogProducts(productRepo repository.ProductRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := &domain.InsightFilters{
			Platform: domain.Platform(r.URL.Query().Get("platform")),
			Category: r.URL.Query().Get("category"),
			Limit:    100,
		}

		if filters.Platform != "" && !filters.Platform.Valid() {
			apiErrors.WriteError(w, apiErrors.ErrUnsupportedPlatform, "Unsupported platform", map[string]any{
				"platform": string(filters.Platform),
			})
			return
		}

		if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
			parsed, err := strconv.Atoi(rawLimit)
			if err != nil || parsed < 1 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "limit must be a positive integer", nil)
				return
			}
			filters.Limit = parsed
		}

		products, err := productRepo.ListProducts(filters)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to list products", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"count":    len(products),
			"products": products,
		})
	}
}

// LookupCatalogCustomer resolves a platform-side customer ID to the warehouse
// record, so a record in the WooCommerce or Shopify admin can be traced to
// its synced counterpart
func LookupCatalogCustomer(customerRepo repository.CustomerRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform := domain.Platform(r.URL.Query().Get("platform"))
		externalID := r.URL.Query().Get("external_id")

		if platform == "" || externalID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "platform and external_id query parameters are required", nil)
			return
		}
		if !platform.Valid() {
			apiErrors.WriteError(w, apiErrors.ErrUnsupportedPlatform, "Unsupported platform", map[string]any{
				"platform": string(platform),
			})
			return
		}

		customer, err := customerRepo.GetCustomerByExternalID(platform, externalID)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to look up customer", nil)
			return
		}
		if customer == nil {
			apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "No synced customer matches that platform ID", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(customer)
	}
}
