package domain

import "time"

// SyncRun is the persisted outcome of one scheduler pass over a platform:
// when it ran, how many stores it covered and how many records it upserted.
// The connector status endpoint serves these so the dashboard can report
// data freshness across restarts.
type SyncRun struct {
	ID              string     `json:"id"`
	Platform        Platform   `json:"platform"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	StoresTotal     int        `json:"stores_total"`
	StoresSynced    int        `json:"stores_synced"`
	CustomersSynced int        `json:"customers_synced"`
	ProductsSynced  int        `json:"products_synced"`
	OrdersSynced    int        `json:"orders_synced"`
	Error           *string    `json:"error,omitempty"`
}

// Succeeded reports whether the run completed without a recorded failure
func (r *SyncRun) Succeeded() bool {
	return r.CompletedAt != nil && r.Error == nil
}
