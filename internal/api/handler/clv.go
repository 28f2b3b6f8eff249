package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/clv"
	"github.com/selimsoyah/nexus-analytics-api/pkg/apiErrors"
)

// GetCustomerCLV computes the lifetime value projection for one customer
func GetCustomerCLV(service clv.Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if customerID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Customer ID is required", nil)
			return
		}

		metrics, err := service.CustomerCLV(customerID)
		if err != nil {
			switch {
			case errors.Is(err, clv.ErrCustomerNotFound):
				apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Customer not found", nil)

			case errors.Is(err, clv.ErrNoOrderHistory):
				apiErrors.WriteError(w, apiErrors.ErrInsufficientData, "Customer has no order history", nil)

			default:
				logrus.Error(err)
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to compute customer CLV", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(metrics)
	}
}

// GetBulkCLV computes lifetime values for the top customers, optionally
// scoped to one platform
func GetBulkCLV(service clv.Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, ok := platformFromQuery(w, r)
		if !ok {
			return
		}

		limit := 0
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil || parsed < 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid limit", nil)
				return
			}
			limit = parsed
		}

		metrics, err := service.BulkCLV(platform, limit)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to compute bulk CLV", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"count":     len(metrics),
			"customers": metrics,
		})
	}
}

// GetCLVSummaries aggregates lifetime value statistics per platform
func GetCLVSummaries(service clv.Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries, err := service.PlatformSummaries()
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to load CLV summaries", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summaries)
	}
}
