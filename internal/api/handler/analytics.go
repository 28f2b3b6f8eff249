package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/crossplatform"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/reporting"
	"github.com/selimsoyah/nexus-analytics-api/pkg/apiErrors"
	"github.com/selimsoyah/nexus-analytics-api/pkg/utils"
)

// GetCustomerInsights returns one customer's profile with full purchase history
func GetCustomerInsights(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if customerID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Customer ID is required", nil)
			return
		}

		insights, err := service.CustomerInsights(customerID)
		if err != nil {
			if errors.Is(err, reporting.ErrCustomerNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Customer not found", nil)
				return
			}

			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to load customer insights", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(insights)
	}
}

// GetProductPerformance ranks products by revenue with sales and discount
// metrics, filterable by platform, category and date range
func GetProductPerformance(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, ok := insightFiltersFromQuery(w, r)
		if !ok {
			return
		}

		performances, err := service.ProductPerformance(filters)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to load product performance", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"count":    len(performances),
			"products": performances,
		})
	}
}

// GetReportsOverview returns the per-platform revenue and customer overview
func GetReportsOverview(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := service.Overview()
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to load platform overview", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(overview)
	}
}

// GetCrossPlatformInsights combines the per-platform overview with the
// weighted performance scores
func GetCrossPlatformInsights(service crossplatform.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := service.Overview()
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to load cross-platform overview", nil)
			return
		}

		scores, err := service.PerformanceScores()
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to compute performance scores", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"platforms":          overview,
			"performance_scores": scores,
			"recommendations":    crossplatform.Recommendations(scores),
		})
	}
}

// GetPlatformPredictions projects revenue, orders and customers per platform
func GetPlatformPredictions(service crossplatform.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		daysAhead := 0
		if daysStr := r.URL.Query().Get("days_ahead"); daysStr != "" {
			parsed, err := strconv.Atoi(daysStr)
			if err != nil || parsed < 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid days_ahead", nil)
				return
			}
			daysAhead = parsed
		}

		predictions, err := service.Predictions(daysAhead)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to compute platform predictions", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(predictions)
	}
}

// GetRevenueAnomalies flags days whose revenue deviates beyond the z-score
// threshold
func GetRevenueAnomalies(service crossplatform.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		windowDays := 0
		if windowStr := r.URL.Query().Get("window_days"); windowStr != "" {
			parsed, err := strconv.Atoi(windowStr)
			if err != nil || parsed < 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid window_days", nil)
				return
			}
			windowDays = parsed
		}

		report, err := service.Anomalies(windowDays)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to detect revenue anomalies", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}

// insightFiltersFromQuery parses the shared analytics filters. Writes the
// error response itself and returns false when a value is malformed.
func insightFiltersFromQuery(w http.ResponseWriter, r *http.Request) (*domain.InsightFilters, bool) {
	platform, ok := platformFromQuery(w, r)
	if !ok {
		return nil, false
	}

	filters := &domain.InsightFilters{
		Platform: platform,
		Category: r.URL.Query().Get("category"),
	}

	if startStr := r.URL.Query().Get("start_date"); startStr != "" {
		startDate, err := utils.ParseDate(startStr)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid start_date, expected YYYY-MM-DD", nil)
			return nil, false
		}
		filters.StartDate = startDate
	}

	if endStr := r.URL.Query().Get("end_date"); endStr != "" {
		endDate, err := utils.ParseDate(endStr)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid end_date, expected YYYY-MM-DD", nil)
			return nil, false
		}
		filters.EndDate = endDate
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid limit", nil)
			return nil, false
		}
		filters.Limit = limit
	}

	return filters, true
}
