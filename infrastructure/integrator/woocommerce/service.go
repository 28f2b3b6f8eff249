package woocommerce

import (
	"context"

	"github.com/pkg/errors"

	"github.com/selimsoyah/nexus-analytics-api/infrastructure/integrator/woocommerce/wooclient"
	"github.com/selimsoyah/nexus-analytics-api/internal/config"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
	"github.com/selimsoyah/nexus-analytics-api/pkg/log"
)

var ErrMissingCredentials = errors.New("store is missing woocommerce credentials")

// Integrator pulls a store's catalog and order book page by page and
// normalizes everything into warehouse records
type Integrator interface {
	FetchCustomers(ctx context.Context, store *domain.Store) ([]*domain.Customer, error)
	FetchOrders(ctx context.Context, store *domain.Store) ([]*domain.Order, error)
	FetchProducts(ctx context.Context, store *domain.Store) ([]*domain.Product, error)
}

type Service struct {
	client wooclient.Client
	cfg    config.WooCommerce
}

func NewService(client wooclient.Client, cfg config.WooCommerce) Integrator {
	return &Service{
		client: client,
		cfg:    cfg,
	}
}

func (s *Service) FetchCustomers(ctx context.Context, store *domain.Store) ([]*domain.Customer, error) {
	creds, err := storeCredentials(store)
	if err != nil {
		return nil, err
	}

	customers := make([]*domain.Customer, 0)
	for page := 1; ; page++ {
		wooCustomers, err := s.client.ListCustomers(ctx, creds, s.pageParams(page, store))
		if err != nil {
			return nil, errors.Wrapf(err, "fetching customers page %d for store %s", page, store.ID)
		}

		for _, wooCustomer := range wooCustomers {
			customers = append(customers, mapCustomer(wooCustomer))
		}

		if len(wooCustomers) < s.pageSize() {
			break
		}
	}

	log.L.WithFields(log.Fields{
		"store_id": store.ID,
		"count":    len(customers),
	}).Info("fetched woocommerce customers")

	return customers, nil
}

func (s *Service) FetchOrders(ctx context.Context, store *domain.Store) ([]*domain.Order, error) {
	creds, err := storeCredentials(store)
	if err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, 0)
	for page := 1; ; page++ {
		wooOrders, err := s.client.ListOrders(ctx, creds, s.pageParams(page, store))
		if err != nil {
			return nil, errors.Wrapf(err, "fetching orders page %d for store %s", page, store.ID)
		}

		for _, wooOrder := range wooOrders {
			orders = append(orders, mapOrder(wooOrder))
		}

		if len(wooOrders) < s.pageSize() {
			break
		}
	}

	log.L.WithFields(log.Fields{
		"store_id": store.ID,
		"count":    len(orders),
	}).Info("fetched woocommerce orders")

	return orders, nil
}

func (s *Service) FetchProducts(ctx context.Context, store *domain.Store) ([]*domain.Product, error) {
	creds, err := storeCredentials(store)
	if err != nil {
		return nil, err
	}

	products := make([]*domain.Product, 0)
	for page := 1; ; page++ {
		wooProducts, err := s.client.ListProducts(ctx, creds, s.pageParams(page, store))
		if err != nil {
			return nil, errors.Wrapf(err, "fetching products page %d for store %s", page, store.ID)
		}

		for _, wooProduct := range wooProducts {
			products = append(products, mapProduct(wooProduct))
		}

		if len(wooProducts) < s.pageSize() {
			break
		}
	}

	log.L.WithFields(log.Fields{
		"store_id": store.ID,
		"count":    len(products),
	}).Info("fetched woocommerce products")

	return products, nil
}

func (s *Service) pageParams(page int, store *domain.Store) wooclient.PageParams {
	params := wooclient.PageParams{
		Page:    page,
		PerPage: s.pageSize(),
	}

	// Incremental pull: only records touched since the last successful sync
	if store.LastSyncedAt != nil {
		params.ModifiedAfter = store.LastSyncedAt
	}

	return params
}

func (s *Service) pageSize() int {
	if s.cfg.DefaultPageSize > 0 && s.cfg.DefaultPageSize <= 100 {
		return s.cfg.DefaultPageSize
	}
	return 100
}

func storeCredentials(store *domain.Store) (wooclient.Credentials, error) {
	if store.ConsumerKey == nil || *store.ConsumerKey == "" ||
		store.ConsumerSecret == nil || *store.ConsumerSecret == "" {
		return wooclient.Credentials{}, ErrMissingCredentials
	}

	return wooclient.Credentials{
		BaseURL:        store.BaseURL,
		ConsumerKey:    *store.ConsumerKey,
		ConsumerSecret: *store.ConsumerSecret,
	}, nil
}
