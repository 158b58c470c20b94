package service

import (
	"context"
	"fmt"
	"time"

	"machflow/internal/concurrent"
	"machflow/internal/domain"
	"machflow/pkg/logger"
)

type OrderService struct {
	repo        domain.OrderRepository
	dispatcher  *concurrent.Dispatcher
	invalidator StatsInvalidator
	logger      logger.Logger
}

func NewOrderService(
	repo domain.OrderRepository,
	dispatcher *concurrent.Dispatcher,
	invalidator StatsInvalidator,
	logger logger.Logger,
) domain.OrderService {
	return &OrderService{
		repo:        repo,
		dispatcher:  dispatcher,
		invalidator: invalidator,
		logger:      logger,
	}
}

func (s *OrderService) ListOrders() ([]*domain.Order, error) {
	return s.repo.FindAll()
}

// RejectOrder moves an order into the rejected terminal state. Already
// terminal orders are left untouched.
func (s *OrderService) RejectOrder(id, reason string) (*domain.Order, error) {
	orders, err := s.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("sipariş reddedilemedi: %w", err)
	}

	var target *domain.Order
	for _, o := range orders {
		if o.ID == id {
			target = o
			break
		}
	}
	if target == nil {
		s.notify("Error", "Order not found", domain.NotificationError)
		return nil, domain.ErrOrderNotFound
	}
	if target.IsTerminal() {
		return nil, domain.ErrOrderTerminal
	}

	if reason == "" {
		reason = domain.DefaultRejectionReason
	}
	target.Status = domain.OrderStatusRejected
	target.RejectedAt = time.Now().Format(time.RFC3339)
	target.RejectionReason = reason

	if err := s.repo.SaveAll(orders); err != nil {
		s.logger.Error("Sipariş kaydedilemedi", map[string]interface{}{"id": id, "error": err.Error()})
		return nil, fmt.Errorf("sipariş reddedilemedi: %w", err)
	}

	s.logger.Info("Sipariş reddedildi", map[string]interface{}{"id": id, "reason": reason})
	s.afterMutation()
	s.notify("Order Rejected", fmt.Sprintf("Order %s has been rejected", id), domain.NotificationInfo)
	return target, nil
}

// MarkAsPaid confirms a pending order after payment settles.
func (s *OrderService) MarkAsPaid(id string) (*domain.Order, error) {
	orders, err := s.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("sipariş güncellenemedi: %w", err)
	}

	var target *domain.Order
	for _, o := range orders {
		if o.ID == id {
			target = o
			break
		}
	}
	if target == nil {
		return nil, domain.ErrOrderNotFound
	}
	if target.IsTerminal() {
		return nil, domain.ErrOrderTerminal
	}

	target.Status = domain.OrderStatusConfirmed
	target.PaidAt = time.Now().Format(time.RFC3339)

	if err := s.repo.SaveAll(orders); err != nil {
		s.logger.Error("Sipariş kaydedilemedi", map[string]interface{}{"id": id, "error": err.Error()})
		return nil, fmt.Errorf("sipariş güncellenemedi: %w", err)
	}

	s.logger.Info("Sipariş ödendi olarak işaretlendi", map[string]interface{}{"id": id})
	s.afterMutation()
	return target, nil
}

// ReviewCounterOffer settles a pending counter offer. Accepting adopts the
// offered price as the order total; declining restores the original price.
func (s *OrderService) ReviewCounterOffer(id string, accept bool) (*domain.Order, error) {
	orders, err := s.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("karşı teklif incelenemedi: %w", err)
	}

	var target *domain.Order
	for _, o := range orders {
		if o.ID == id {
			target = o
			break
		}
	}
	if target == nil {
		return nil, domain.ErrOrderNotFound
	}
	if target.CounterOffer == nil || target.CounterOffer.Status != domain.CounterOfferPendingReview {
		return nil, domain.ErrCounterOfferNotPending
	}

	if accept {
		target.CounterOffer.Status = domain.CounterOfferAccepted
		target.Total = target.CounterOffer.Price
	} else {
		target.CounterOffer.Status = domain.CounterOfferDeclined
		if target.OriginalPrice > 0 {
			target.Total = target.OriginalPrice
		}
	}

	if err := s.repo.SaveAll(orders); err != nil {
		s.logger.Error("Sipariş kaydedilemedi", map[string]interface{}{"id": id, "error": err.Error()})
		return nil, fmt.Errorf("karşı teklif incelenemedi: %w", err)
	}

	s.logger.Info("Karşı teklif incelendi", map[string]interface{}{"id": id, "accepted": accept})
	s.afterMutation()
	return target, nil
}

func (s *OrderService) afterMutation() {
	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(context.Background()); err != nil {
			s.logger.Warn("Önbellek temizlenemedi", map[string]interface{}{"error": err.Error()})
		}
	}

	if s.dispatcher != nil {
		s.dispatcher.Publish(concurrent.Event{Type: concurrent.EventRefresh})
	}
}

func (s *OrderService) notify(title, message, notifType string) {
	if s.dispatcher != nil {
		s.dispatcher.Notify(title, message, notifType)
	}
}
