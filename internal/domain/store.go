package domain

import "time"

type StoreStatus string

const (
	StoreStatusActive   StoreStatus = "active"
	StoreStatusDisabled StoreStatus = "disabled"
)

// Store is a connected shop on one of the supported platforms.
// Credentials are platform-specific: WooCommerce uses consumer key/secret,
// Shopify uses an OAuth access token bound to the shop domain.
type Store struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Platform       Platform    `json:"platform"`
	BaseURL        string      `json:"base_url"`
	ConsumerKey    *string     `json:"-"`
	ConsumerSecret *string     `json:"-"`
	AccessToken    *string     `json:"-"`
	Status         StoreStatus `json:"status"`
	LastSyncedAt   *time.Time  `json:"last_synced_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Syncable reports whether the store carries the credentials its platform needs
func (s *Store) Syncable() bool {
	if s.Status != StoreStatusActive {
		return false
	}

	switch s.Platform {
	case PlatformWooCommerce:
		return s.ConsumerKey != nil && *s.ConsumerKey != "" &&
			s.ConsumerSecret != nil && *s.ConsumerSecret != ""
	case PlatformShopify:
		return s.AccessToken != nil && *s.AccessToken != ""
	default:
		return false
	}
}
