package repository

import (
	"fmt"
	"sync"

	"machflow/internal/domain"
	"machflow/internal/store"
	"machflow/pkg/logger"
)

// PendingOrderRepository reads the queue the order-entry flow appends to. The
// primary key is tried first, the legacy key as fallback; Clear removes the
// key the last List actually read from.
type PendingOrderRepository struct {
	mu      sync.Mutex
	lastKey string
	store   store.Store
	logger  logger.Logger
}

func NewPendingOrderRepository(st store.Store, logger logger.Logger) domain.PendingOrderRepository {
	return &PendingOrderRepository{
		store:  st,
		logger: logger,
	}
}

func (r *PendingOrderRepository) List() ([]domain.PendingOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastKey = ""

	for _, key := range []string{store.KeyPendingOrders, store.KeyLegacyOrders} {
		var orders []domain.PendingOrder
		err := r.store.Get(key, &orders)
		if err == store.ErrKeyNotFound {
			continue
		}
		if err != nil {
			r.logger.Error("Bekleyen siparişler okunamadı", map[string]interface{}{"key": key, "error": err.Error()})
			return nil, fmt.Errorf("bekleyen siparişler okunamadı: %w", err)
		}

		r.lastKey = key
		return orders, nil
	}

	return []domain.PendingOrder{}, nil
}

func (r *PendingOrderRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lastKey == "" {
		return nil
	}

	if err := r.store.Delete(r.lastKey); err != nil {
		r.logger.Error("Bekleyen sipariş kuyruğu temizlenemedi", map[string]interface{}{"key": r.lastKey, "error": err.Error()})
		return fmt.Errorf("bekleyen sipariş kuyruğu temizlenemedi: %w", err)
	}

	r.lastKey = ""
	return nil
}
