package scheduler

import (
	"github.com/sirupsen/logrus"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
)

// storeSyncResult carries upsert counters back to the run loop. A per-store
// result has synced 0 or 1; the fan-out sums them into the run totals.
type storeSyncResult struct {
	synced    int
	customers int
	products  int
	orders    int
}

func (r *storeSyncResult) add(other storeSyncResult) {
	r.synced += other.synced
	r.customers += other.customers
	r.products += other.products
	r.orders += other.orders
}

// recordRun persists one scheduler pass. Recording is best-effort: a write
// failure must not abort the sync itself.
func recordRun(repo repository.SyncStateRepository, run *domain.SyncRun) {
	if repo == nil {
		return
	}

	if err := repo.RecordRun(run); err != nil {
		logrus.WithError(err).WithField("platform", run.Platform).Error("Failed to record sync run")
	}
}

// linkOrders resolves platform customer and product IDs to warehouse IDs so
// the order batch lands with its foreign keys already set. Orders from guests
// or unknown customers are kept with a nil customer_id.
func linkOrders(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	platform domain.Platform,
	orders []*domain.Order,
) error {
	if len(orders) == 0 {
		return nil
	}

	customerIDs, err := orderRepo.ListCustomerIDsByExternalID(platform)
	if err != nil {
		return err
	}

	productIDs, err := productRepo.ListProductIDsByExternalID(platform)
	if err != nil {
		return err
	}

	for _, order := range orders {
		if order.CustomerExternalID != nil {
			if id, ok := customerIDs[*order.CustomerExternalID]; ok {
				order.CustomerID = &id
			}
		}

		for _, item := range order.Items {
			if item.ProductExternalID == nil {
				continue
			}
			if id, ok := productIDs[*item.ProductExternalID]; ok {
				item.ProductID = &id
			}
		}
	}

	return nil
}
