package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"machflow/internal/concurrent"
	"machflow/internal/domain"
	"machflow/internal/repository"
	"machflow/internal/store"
)

type reconcileFixture struct {
	store      *store.MemoryStore
	users      domain.UserRepository
	dispatcher *concurrent.Dispatcher
	reconciler *Reconciler
}

func newReconcileFixture(t *testing.T) *reconcileFixture {
	t.Helper()

	log := newTestLogger()
	st := store.NewMemoryStore(log)

	users := repository.NewUserRepository(st, log)
	require.NoError(t, users.Load())
	interactions := repository.NewInteractionRepository(st, log)
	require.NoError(t, interactions.Load())
	pending := repository.NewPendingOrderRepository(st, log)

	ingestion := NewIngestionService(users, interactions, pending, nil, log)
	dispatcher := concurrent.NewDispatcher(16, time.Minute, log)
	t.Cleanup(dispatcher.Close)

	reconciler := NewReconciler(
		users,
		ingestion,
		dispatcher,
		nil,
		nil,
		time.Second,
		concurrent.NewTickStats(),
		log,
	)

	return &reconcileFixture{
		store:      st,
		users:      users,
		dispatcher: dispatcher,
		reconciler: reconciler,
	}
}

func TestTickNoChange(t *testing.T) {
	f := newReconcileFixture(t)

	require.NoError(t, f.users.Create(&domain.User{ID: 1, Email: "a@example.com", Status: domain.UserStatusActive}))

	changed, err := f.reconciler.Tick(context.Background())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, f.dispatcher.Recent())

	stats := f.reconciler.Stats()
	assert.Equal(t, int64(1), stats.Ticks)
	assert.Zero(t, stats.Changes)
}

func TestTickAdoptsExternalSignup(t *testing.T) {
	f := newReconcileFixture(t)

	require.NoError(t, f.users.Create(&domain.User{ID: 1, Email: "a@example.com", Status: domain.UserStatusActive}))

	// Dış süreç yeni bir bekleyen ortak yazar.
	external := []*domain.User{
		{ID: 1, Email: "a@example.com", Status: domain.UserStatusActive},
		{ID: 2, Email: "partner@example.com", Role: domain.UserRolePartner, Status: domain.UserStatusPending},
	}
	require.NoError(t, f.store.Set(store.KeyUsers, external))

	events := f.dispatcher.Subscribe()

	changed, err := f.reconciler.Tick(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Len(t, f.users.FindAll(), 2, "anlık görüntü devralınmalı")
	assert.Equal(t, 1, f.users.PendingCount())

	recent := f.dispatcher.Recent()
	require.NotEmpty(t, recent)
	assert.Equal(t, "New Partner Application!", recent[0].Title)
	assert.Equal(t, "You have 1 pending approval(s).", recent[0].Message)

	// En az bir yenileme olayı yayınlanmalı.
	refreshed := false
	for done := false; !done; {
		select {
		case event := <-events:
			if event.Type == concurrent.EventRefresh {
				refreshed = true
				done = true
			}
		case <-time.After(time.Second):
			done = true
		}
	}
	assert.True(t, refreshed)

	assert.Equal(t, int64(1), f.reconciler.Stats().Changes)
}

func TestTickMissesSameSizeEdit(t *testing.T) {
	f := newReconcileFixture(t)

	require.NoError(t, f.users.Create(&domain.User{ID: 1, Email: "a@example.com", Status: domain.UserStatusActive}))

	// Aynı boyut, aynı bekleyen sayısı: kaba sezgisel bunu görmez.
	external := []*domain.User{
		{ID: 1, Email: "degisti@example.com", Status: domain.UserStatusActive},
	}
	require.NoError(t, f.store.Set(store.KeyUsers, external))

	changed, err := f.reconciler.Tick(context.Background())
	require.NoError(t, err)
	assert.False(t, changed)

	user, err := f.users.FindByEmail("a@example.com")
	require.NoError(t, err)
	assert.NotNil(t, user, "bellekteki durum korunmalı")
}

func TestTickApprovalDropNotifiesWithoutSignupToast(t *testing.T) {
	f := newReconcileFixture(t)

	require.NoError(t, f.users.Create(&domain.User{ID: 1, Email: "a@example.com", Status: domain.UserStatusPending}))
	f.reconciler.lastPending = 1

	// Dış süreç bekleyen kullanıcıyı onaylar: sayı düşer, değişiklik var ama
	// yeni başvuru bildirimi yok.
	external := []*domain.User{
		{ID: 1, Email: "a@example.com", Status: domain.UserStatusActive},
	}
	require.NoError(t, f.store.Set(store.KeyUsers, external))

	changed, err := f.reconciler.Tick(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Empty(t, f.dispatcher.Recent(), "azalan bekleyen sayısı başvuru bildirimi üretmemeli")
}

func TestTickIngestsQueue(t *testing.T) {
	f := newReconcileFixture(t)

	queue := []domain.PendingOrder{
		{Customer: domain.Customer{Name: "Yeni", Email: "yeni@example.com"}, Total: 10},
	}
	require.NoError(t, f.store.Set(store.KeyPendingOrders, queue))

	changed, err := f.reconciler.Tick(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)

	user, err := f.users.FindByEmail("yeni@example.com")
	require.NoError(t, err)
	assert.NotNil(t, user)

	assert.Equal(t, int64(1), f.reconciler.Stats().IngestBatches)
	assert.Empty(t, f.dispatcher.Recent(), "işlenen sipariş başvuru bildirimi üretmemeli")
}
