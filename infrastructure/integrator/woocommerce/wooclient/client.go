package wooclient

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	woodomain "github.com/selimsoyah/nexus-analytics-api/infrastructure/integrator/woocommerce/domain"
	"github.com/selimsoyah/nexus-analytics-api/internal/config"
	"golang.org/x/time/rate"
)

// Credentials is the per-store basic auth pair issued by WooCommerce
type Credentials struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
}

// PageParams controls REST pagination. WooCommerce caps per_page at 100.
type PageParams struct {
	Page          int
	PerPage       int
	ModifiedAfter *time.Time
}

type Client interface {
	ListCustomers(ctx context.Context, creds Credentials, params PageParams) ([]woodomain.Customer, error)
	ListOrders(ctx context.Context, creds Credentials, params PageParams) ([]woodomain.Order, error)
	ListProducts(ctx context.Context, creds Credentials, params PageParams) ([]woodomain.Product, error)
}

type WooClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cfg        config.WooCommerce
}

func NewClient(cfg config.WooCommerce) Client {
	callsPerMinute := cfg.CallsPerMinute
	if callsPerMinute <= 0 {
		callsPerMinute = 60
	}

	httpClient := &http.Client{
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}

	// Self-hosted WooCommerce stores often sit behind self-signed certificates
	if !cfg.VerifyTLS {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &WooClient{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(float64(callsPerMinute)/60.0), 1),
		cfg:        cfg,
	}
}

func (c *WooClient) ListCustomers(ctx context.Context, creds Credentials, params PageParams) ([]woodomain.Customer, error) {
	var customers []woodomain.Customer
	if err := c.get(ctx, creds, "customers", params, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *WooClient) ListOrders(ctx context.Context, creds Credentials, params PageParams) ([]woodomain.Order, error) {
	var orders []woodomain.Order
	if err := c.get(ctx, creds, "orders", params, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *WooClient) ListProducts(ctx context.Context, creds Credentials, params PageParams) ([]woodomain.Product, error) {
	var products []woodomain.Product
	if err := c.get(ctx, creds, "products", params, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *WooClient) get(ctx context.Context, creds Credentials, resource string, params PageParams, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint, err := url.Parse(creds.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse store base URL: %w", err)
	}
	endpoint.Path = path.Join(endpoint.Path, "wp-json", c.cfg.APIVersion, resource)

	perPage := params.PerPage
	if perPage <= 0 || perPage > 100 {
		perPage = 100
	}
	page := params.Page
	if page <= 0 {
		page = 1
	}

	query := endpoint.Query()
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("orderby", "id")
	query.Set("order", "asc")
	if params.ModifiedAfter != nil {
		query.Set("modified_after", params.ModifiedAfter.UTC().Format(time.RFC3339))
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.SetBasicAuth(creds.ConsumerKey, creds.ConsumerSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("store rejected credentials: %s", resp.Status)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
