package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/forecasting"
	"github.com/selimsoyah/nexus-analytics-api/pkg/apiErrors"
)

type ScenarioRequest struct {
	Periods     int       `json:"periods"`
	Adjustments []float64 `json:"adjustments"`
}

// GetRevenueForecast projects daily revenue forward from the historical series
func GetRevenueForecast(service forecasting.Forecaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, ok := platformFromQuery(w, r)
		if !ok {
			return
		}

		periods := 0
		if periodsStr := r.URL.Query().Get("periods"); periodsStr != "" {
			parsed, err := strconv.Atoi(periodsStr)
			if err != nil || parsed < 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid periods", nil)
				return
			}
			periods = parsed
		}

		report, err := service.RevenueForecast(platform, periods)
		if err != nil {
			if errors.Is(err, forecasting.ErrInsufficientData) {
				apiErrors.WriteError(w, apiErrors.ErrInsufficientData, "Not enough order history to forecast", nil)
				return
			}

			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to build revenue forecast", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}

// GetRevenueTrends analyzes growth, volatility and direction over daily,
// weekly, monthly or quarterly buckets
func GetRevenueTrends(service forecasting.Forecaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, ok := platformFromQuery(w, r)
		if !ok {
			return
		}

		period := r.URL.Query().Get("period")
		if period == "" {
			period = "monthly"
		}
		switch period {
		case "daily", "weekly", "monthly", "quarterly":
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Period must be daily, weekly, monthly or quarterly", nil)
			return
		}

		analysis, err := service.RevenueTrends(period, platform)
		if err != nil {
			if errors.Is(err, forecasting.ErrInsufficientData) {
				apiErrors.WriteError(w, apiErrors.ErrInsufficientData, "Not enough history for trend analysis", nil)
				return
			}

			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to analyze revenue trends", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(analysis)
	}
}

// GetSeasonality breaks revenue down by weekday over the last year
func GetSeasonality(service forecasting.Forecaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, ok := platformFromQuery(w, r)
		if !ok {
			return
		}

		report, err := service.Seasonality(platform)
		if err != nil {
			if errors.Is(err, forecasting.ErrInsufficientData) {
				apiErrors.WriteError(w, apiErrors.ErrInsufficientData, "Not enough history for seasonality analysis", nil)
				return
			}

			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to analyze seasonality", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}

// GetScenarios projects the base forecast under growth adjustment scenarios
func GetScenarios(service forecasting.Forecaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, ok := platformFromQuery(w, r)
		if !ok {
			return
		}

		var req ScenarioRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid request format", nil)
				return
			}
		}

		report, err := service.Scenarios(platform, req.Periods, req.Adjustments)
		if err != nil {
			if errors.Is(err, forecasting.ErrInsufficientData) {
				apiErrors.WriteError(w, apiErrors.ErrInsufficientData, "Not enough order history to forecast", nil)
				return
			}

			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to build scenario projections", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}
