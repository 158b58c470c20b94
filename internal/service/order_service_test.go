package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"machflow/internal/concurrent"
	"machflow/internal/domain"
	"machflow/internal/repository"
	"machflow/internal/store"
)

type orderFixture struct {
	store      *store.MemoryStore
	repo       domain.OrderRepository
	dispatcher *concurrent.Dispatcher
	service    domain.OrderService
}

func newOrderFixture(t *testing.T, orders ...*domain.Order) *orderFixture {
	t.Helper()

	log := newTestLogger()
	st := store.NewMemoryStore(log)
	if len(orders) > 0 {
		require.NoError(t, st.Set(store.KeyOrders, orders))
	}

	repo := repository.NewOrderRepository(st, log)
	dispatcher := concurrent.NewDispatcher(16, time.Minute, log)
	t.Cleanup(dispatcher.Close)

	return &orderFixture{
		store:      st,
		repo:       repo,
		dispatcher: dispatcher,
		service:    NewOrderService(repo, dispatcher, nil, log),
	}
}

func TestRejectOrder(t *testing.T) {
	f := newOrderFixture(t, &domain.Order{ID: "ORD-1", Status: domain.OrderStatusPending, Total: 100})

	order, err := f.service.RejectOrder("ORD-1", "Fiyat çok düşük")
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusRejected, order.Status)
	assert.Equal(t, "Fiyat çok düşük", order.RejectionReason)
	assert.NotEmpty(t, order.RejectedAt)

	_, err = time.Parse(time.RFC3339, order.RejectedAt)
	assert.NoError(t, err)

	// Kalıcı yazma doğrulanır.
	stored, err := f.repo.FindByID("ORD-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusRejected, stored.Status)

	recent := f.dispatcher.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, "Order Rejected", recent[0].Title)
	assert.Equal(t, "Order ORD-1 has been rejected", recent[0].Message)
}

func TestRejectOrderDefaultReason(t *testing.T) {
	f := newOrderFixture(t, &domain.Order{ID: "ORD-1", Status: domain.OrderStatusPending})

	order, err := f.service.RejectOrder("ORD-1", "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRejectionReason, order.RejectionReason)
}

func TestRejectOrderUnknown(t *testing.T) {
	f := newOrderFixture(t, &domain.Order{ID: "ORD-1", Status: domain.OrderStatusPending})

	_, err := f.service.RejectOrder("YOK", "")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	// Mevcut sipariş dokunulmadan kalır.
	stored, err := f.repo.FindByID("ORD-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, stored.Status)

	recent := f.dispatcher.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, "Error", recent[0].Title)
	assert.Equal(t, "Order not found", recent[0].Message)
}

func TestRejectOrderTerminalGuard(t *testing.T) {
	f := newOrderFixture(t,
		&domain.Order{ID: "ORD-1", Status: domain.OrderStatusCompleted},
		&domain.Order{ID: "ORD-2", Status: domain.OrderStatusRejected},
	)

	_, err := f.service.RejectOrder("ORD-1", "")
	assert.ErrorIs(t, err, domain.ErrOrderTerminal)

	_, err = f.service.RejectOrder("ORD-2", "")
	assert.ErrorIs(t, err, domain.ErrOrderTerminal)
}

func TestMarkAsPaid(t *testing.T) {
	f := newOrderFixture(t, &domain.Order{ID: "ORD-1", Status: domain.OrderStatusPending})

	order, err := f.service.MarkAsPaid("ORD-1")
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
	assert.NotEmpty(t, order.PaidAt)
}

func TestReviewCounterOfferAccept(t *testing.T) {
	f := newOrderFixture(t, &domain.Order{
		ID:            "ORD-1",
		Status:        domain.OrderStatusPending,
		Total:         100,
		OriginalPrice: 100,
		CounterOffer:  &domain.CounterOffer{Price: 80, Status: domain.CounterOfferPendingReview},
	})

	order, err := f.service.ReviewCounterOffer("ORD-1", true)
	require.NoError(t, err)

	assert.Equal(t, domain.CounterOfferAccepted, order.CounterOffer.Status)
	assert.Equal(t, float64(80), order.Total)
}

func TestReviewCounterOfferDecline(t *testing.T) {
	f := newOrderFixture(t, &domain.Order{
		ID:            "ORD-1",
		Status:        domain.OrderStatusPending,
		Total:         80,
		OriginalPrice: 100,
		CounterOffer:  &domain.CounterOffer{Price: 80, Status: domain.CounterOfferPendingReview},
	})

	order, err := f.service.ReviewCounterOffer("ORD-1", false)
	require.NoError(t, err)

	assert.Equal(t, domain.CounterOfferDeclined, order.CounterOffer.Status)
	assert.Equal(t, float64(100), order.Total, "red edilen teklifte orijinal fiyat geri gelmeli")
}

func TestReviewCounterOfferNotPending(t *testing.T) {
	f := newOrderFixture(t,
		&domain.Order{ID: "ORD-1", Status: domain.OrderStatusPending},
		&domain.Order{ID: "ORD-2", Status: domain.OrderStatusPending,
			CounterOffer: &domain.CounterOffer{Price: 80, Status: domain.CounterOfferAccepted}},
	)

	_, err := f.service.ReviewCounterOffer("ORD-1", true)
	assert.ErrorIs(t, err, domain.ErrCounterOfferNotPending)

	_, err = f.service.ReviewCounterOffer("ORD-2", true)
	assert.ErrorIs(t, err, domain.ErrCounterOfferNotPending)
}

func TestListOrdersEmpty(t *testing.T) {
	f := newOrderFixture(t)

	orders, err := f.service.ListOrders()
	require.NoError(t, err)
	assert.Empty(t, orders)
}
