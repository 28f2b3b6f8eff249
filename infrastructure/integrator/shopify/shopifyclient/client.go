package shopifyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	shopifydomain "github.com/selimsoyah/nexus-analytics-api/infrastructure/integrator/shopify/domain"
	"github.com/selimsoyah/nexus-analytics-api/internal/config"
	"github.com/selimsoyah/nexus-analytics-api/pkg/log"
	"golang.org/x/time/rate"
)

const maxRateLimitRetries = 3

// PageParams drives since_id cursor pagination. Shopify caps limit at 250.
type PageParams struct {
	SinceID      int64
	Limit        int
	CreatedAtMin *time.Time
}

type Client interface {
	ExchangeToken(ctx context.Context, shopDomain, code string) (string, error)
	ListCustomers(ctx context.Context, shopDomain, accessToken string, params PageParams) ([]shopifydomain.Customer, error)
	ListOrders(ctx context.Context, shopDomain, accessToken string, params PageParams) ([]shopifydomain.Order, error)
	ListProducts(ctx context.Context, shopDomain, accessToken string, params PageParams) ([]shopifydomain.Product, error)
}

type ShopifyClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cfg        config.Shopify
}

func NewClient(cfg config.Shopify) Client {
	requestsPerSecond := cfg.RequestsPerSecond
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}

	return &ShopifyClient{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		cfg:     cfg,
	}
}

// ExchangeToken trades the OAuth authorization code for a permanent access
// token bound to the shop
func (c *ShopifyClient) ExchangeToken(ctx context.Context, shopDomain, code string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"client_id":     c.cfg.APIKey,
		"client_secret": c.cfg.APISecret,
		"code":          code,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal token request: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s/admin/oauth/access_token", NormalizeShopDomain(shopDomain))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange failed with status: %s", resp.Status)
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		Scope       string `json:"scope"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	if tokenResponse.AccessToken == "" {
		return "", fmt.Errorf("shop returned an empty access token")
	}

	return tokenResponse.AccessToken, nil
}

func (c *ShopifyClient) ListCustomers(ctx context.Context, shopDomain, accessToken string, params PageParams) ([]shopifydomain.Customer, error) {
	var envelope struct {
		Customers []shopifydomain.Customer `json:"customers"`
	}
	if err := c.get(ctx, shopDomain, accessToken, "customers.json", params, &envelope); err != nil {
		return nil, err
	}
	return envelope.Customers, nil
}

func (c *ShopifyClient) ListOrders(ctx context.Context, shopDomain, accessToken string, params PageParams) ([]shopifydomain.Order, error) {
	var envelope struct {
		Orders []shopifydomain.Order `json:"orders"`
	}
	if err := c.get(ctx, shopDomain, accessToken, "orders.json", params, &envelope); err != nil {
		return nil, err
	}
	return envelope.Orders, nil
}

func (c *ShopifyClient) ListProducts(ctx context.Context, shopDomain, accessToken string, params PageParams) ([]shopifydomain.Product, error) {
	var envelope struct {
		Products []shopifydomain.Product `json:"products"`
	}
	if err := c.get(ctx, shopDomain, accessToken, "products.json", params, &envelope); err != nil {
		return nil, err
	}
	return envelope.Products, nil
}

func (c *ShopifyClient) get(ctx context.Context, shopDomain, accessToken, resource string, params PageParams, out interface{}) error {
	endpoint, err := url.Parse(fmt.Sprintf("https://%s", NormalizeShopDomain(shopDomain)))
	if err != nil {
		return fmt.Errorf("failed to parse shop domain: %w", err)
	}
	endpoint.Path = path.Join("admin", "api", c.cfg.APIVersion, resource)

	limit := params.Limit
	if limit <= 0 || limit > 250 {
		limit = 250
	}

	query := endpoint.Query()
	query.Set("limit", strconv.Itoa(limit))
	if params.SinceID > 0 {
		query.Set("since_id", strconv.FormatInt(params.SinceID, 10))
	}
	if params.CreatedAtMin != nil {
		query.Set("created_at_min", params.CreatedAtMin.UTC().Format(time.RFC3339))
	}
	if resource == "orders.json" {
		query.Set("status", "any")
	}
	endpoint.RawQuery = query.Encode()

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}

		req.Header.Set("X-Shopify-Access-Token", accessToken)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()

			if attempt >= maxRateLimitRetries {
				return fmt.Errorf("rate limited by shop after %d retries", attempt)
			}

			wait := retryAfter(resp)
			log.L.WithFields(log.Fields{
				"shop":  shopDomain,
				"wait":  wait.String(),
				"retry": attempt + 1,
			}).Warn("shopify rate limit hit, backing off")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}

		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			return fmt.Errorf("shop rejected access token: %s", resp.Status)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("request failed with status: %s", resp.Status)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}

		return nil
	}
}

func retryAfter(resp *http.Response) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.ParseFloat(header, 64); err == nil && seconds > 0 {
			return time.Duration(seconds * float64(time.Second))
		}
	}
	return 2 * time.Second
}

// NormalizeShopDomain accepts "my-shop", "my-shop.myshopify.com" or a full URL
func NormalizeShopDomain(shopDomain string) string {
	shopDomain = strings.TrimSpace(shopDomain)
	shopDomain = strings.TrimPrefix(shopDomain, "https://")
	shopDomain = strings.TrimPrefix(shopDomain, "http://")
	shopDomain = strings.TrimSuffix(shopDomain, "/")

	if !strings.Contains(shopDomain, ".") {
		shopDomain += ".myshopify.com"
	}

	return shopDomain
}
