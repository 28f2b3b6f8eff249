package shopify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/selimsoyah/nexus-analytics-api/internal/config"
)

func TestAuthorizeURL(t *testing.T) {
	service := &Service{
		cfg: config.Shopify{
			APIKey:      "app-key",
			Scopes:      "read_orders,read_customers",
			RedirectURI: "https://analytics.example.com/callback",
		},
	}

	tests := []struct {
		name       string
		shopDomain string
		want       string
	}{
		{
			name:       "bare shop name gets the myshopify suffix",
			shopDomain: "acme-eyewear",
			want:       "https://acme-eyewear.myshopify.com/admin/oauth/authorize?client_id=app-key&redirect_uri=https%3A%2F%2Fanalytics.example.com%2Fcallback&scope=read_orders%2Cread_customers",
		},
		{
			name:       "full domain passes through",
			shopDomain: "https://acme-eyewear.myshopify.com/",
			want:       "https://acme-eyewear.myshopify.com/admin/oauth/authorize?client_id=app-key&redirect_uri=https%3A%2F%2Fanalytics.example.com%2Fcallback&scope=read_orders%2Cread_customers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.AuthorizeURL(tt.shopDomain))
		})
	}
}
