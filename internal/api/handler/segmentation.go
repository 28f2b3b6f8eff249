package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/segmenting"
	"github.com/selimsoyah/nexus-analytics-api/pkg/apiErrors"
)

// RefreshSegments recomputes the RFM segmentation on demand, optionally
// scoped to one platform
func RefreshSegments(service segmenting.Segmenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, ok := platformFromQuery(w, r)
		if !ok {
			return
		}

		count, err := service.RefreshSegments(platform)
		if err != nil {
			logrus.Error(err)

			if errors.Is(err, segmenting.ErrNoCustomerData) {
				apiErrors.WriteError(w, apiErrors.ErrInsufficientData, "No customers with order history to segment", nil)
				return
			}

			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to refresh segments", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"customers_segmented": count,
		})
	}
}

// GetSegmentProfiles lists per-customer RFM profiles, filterable by segment
// name and platform
func GetSegmentProfiles(service segmenting.Segmenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, ok := platformFromQuery(w, r)
		if !ok {
			return
		}

		segment := r.URL.Query().Get("segment")

		limit := 0
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil || parsed < 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid limit", nil)
				return
			}
			limit = parsed
		}

		profiles, err := service.GetSegmentProfiles(segment, platform, limit)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to load segment profiles", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"count":    len(profiles),
			"profiles": profiles,
		})
	}
}

// GetSegmentSummary aggregates customer counts and revenue per segment
func GetSegmentSummary(service segmenting.Segmenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, ok := platformFromQuery(w, r)
		if !ok {
			return
		}

		summaries, err := service.GetSegmentSummary(platform)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to load segment summary", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summaries)
	}
}

// GetCustomerSegmentProfile returns the stored RFM profile for one customer
func GetCustomerSegmentProfile(service segmenting.Segmenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if customerID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Customer ID is required", nil)
			return
		}

		profile, err := service.GetCustomerProfile(customerID)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to load customer profile", nil)
			return
		}
		if profile == nil {
			apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Customer has no segment profile", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(profile)
	}
}

// GetSegmentMembers lists the profiles belonging to one named segment
func GetSegmentMembers(service segmenting.Segmenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		segment := httprouter.ParamsFromContext(r.Context()).ByName("name")
		if segment == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Segment name is required", nil)
			return
		}

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

		profiles, err := service.GetSegmentProfiles(segment, platform, limit)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to load segment members", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"segment": segment,
			"count":   len(profiles),
			"members": profiles,
		})
	}
}

// GetSegmentDetails returns the segment catalog enriched with live
// aggregates and top products per segment
func GetSegmentDetails(service segmenting.Segmenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details, err := service.GetSegmentDetails()
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to load segment details", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(details)
	}
}

// platformFromQuery reads and validates the optional ?platform= filter.
// Writes the error response itself and returns false when invalid.
func platformFromQuery(w http.ResponseWriter, r *http.Request) (domain.Platform, bool) {
	platformStr := r.URL.Query().Get("platform")
	if platformStr == "" {
		return "", true
	}

	platform := domain.Platform(platformStr)
	if !platform.Valid() {
		apiErrors.WriteError(w, apiErrors.ErrUnsupportedPlatform, "Unsupported platform", map[string]any{
			"platform": platformStr,
		})
		return "", false
	}

	return platform, true
}
