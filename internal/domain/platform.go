package domain

// Platform identifies the e-commerce platform a record was ingested from
type Platform string

const (
	PlatformWooCommerce Platform = "woocommerce"
	PlatformShopify     Platform = "shopify"
	PlatformGenericCSV  Platform = "generic_csv"
)

// KnownPlatforms lists every platform the sync pipeline understands
var KnownPlatforms = []Platform{
	PlatformWooCommerce,
	PlatformShopify,
	PlatformGenericCSV,
}

func (p Platform) Valid() bool {
	for _, known := range KnownPlatforms {
		if p == known {
			return true
		}
	}
	return false
}

func (p Platform) String() string {
	return string(p)
}
