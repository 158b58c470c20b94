package repository

import (
	"fmt"

	"machflow/internal/domain"
	"machflow/internal/store"
	"machflow/pkg/logger"
)

// OrderRepository is stateless: the order list belongs to the order-entry
// flow, so every read goes straight to the store.
type OrderRepository struct {
	store  store.Store
	logger logger.Logger
}

func NewOrderRepository(st store.Store, logger logger.Logger) domain.OrderRepository {
	return &OrderRepository{
		store:  st,
		logger: logger,
	}
}

func (r *OrderRepository) FindAll() ([]*domain.Order, error) {
	var orders []*domain.Order
	if err := r.store.Get(store.KeyOrders, &orders); err != nil {
		if err == store.ErrKeyNotFound {
			return []*domain.Order{}, nil
		}
		r.logger.Error("Siparişler okunamadı", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("siparişler okunamadı: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) FindByID(id string) (*domain.Order, error) {
	orders, err := r.FindAll()
	if err != nil {
		return nil, err
	}

	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, nil
}

func (r *OrderRepository) SaveAll(orders []*domain.Order) error {
	if err := r.store.Set(store.KeyOrders, orders); err != nil {
		r.logger.Error("Siparişler kaydedilemedi", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("siparişler kaydedilemedi: %w", err)
	}
	return nil
}
