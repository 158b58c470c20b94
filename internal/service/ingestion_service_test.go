package service

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"machflow/internal/domain"
	"machflow/internal/repository"
	"machflow/internal/store"
	"machflow/pkg/logger"
)

func newTestLogger() logger.Logger {
	return logger.New("error", io.Discard)
}

type ingestFixture struct {
	store        *store.MemoryStore
	users        domain.UserRepository
	interactions domain.InteractionRepository
	service      domain.IngestionService
}

func newIngestFixture(t *testing.T) *ingestFixture {
	t.Helper()

	log := newTestLogger()
	st := store.NewMemoryStore(log)

	users := repository.NewUserRepository(st, log)
	require.NoError(t, users.Load())
	interactions := repository.NewInteractionRepository(st, log)
	require.NoError(t, interactions.Load())
	pending := repository.NewPendingOrderRepository(st, log)

	return &ingestFixture{
		store:        st,
		users:        users,
		interactions: interactions,
		service:      NewIngestionService(users, interactions, pending, nil, log),
	}
}

func TestIngestEmptyQueueIsNoOp(t *testing.T) {
	f := newIngestFixture(t)

	changed, err := f.service.Ingest(context.Background())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, f.interactions.FindAll())
}

func TestIngestCreatesUserAndInteraction(t *testing.T) {
	f := newIngestFixture(t)

	require.NoError(t, f.users.Create(&domain.User{ID: 1, Name: "Mevcut", Email: "var@example.com", Status: domain.UserStatusActive}))

	queue := []domain.PendingOrder{
		{
			Customer: domain.Customer{Name: "Yeni Müşteri", Email: "a@b.com"},
			Items: []domain.PendingOrderItem{
				{
					MachineID: 7,
					Machine:   domain.MachineRef{Name: "Drill"},
					IsRental:  true,
					Duration:  3,
				},
			},
			Total: 90,
		},
	}
	require.NoError(t, f.store.Set(store.KeyPendingOrders, queue))

	changed, err := f.service.Ingest(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)

	users := f.users.FindAll()
	require.Len(t, users, 2)

	created, err := f.users.FindByEmail("a@b.com")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, domain.UserStatusActive, created.Status)
	assert.Equal(t, domain.UserRoleCustomer, created.Role)

	interactions := f.interactions.FindAll()
	require.Len(t, interactions, 1)
	assert.Equal(t, created.ID, interactions[0].UserID)
	assert.Equal(t, int64(7), interactions[0].MachineID)
	assert.Equal(t, "Drill", interactions[0].MachineName)
	assert.Equal(t, domain.InteractionActionRent, interactions[0].Action)
	assert.Equal(t, "3 days", interactions[0].Duration)
	assert.Equal(t, float64(90), interactions[0].Cost)
	assert.Equal(t, domain.InteractionProviderOnline, interactions[0].Provider)

	ok, err := f.store.Has(store.KeyPendingOrders)
	require.NoError(t, err)
	assert.False(t, ok, "işlenen kuyruk silinmeli")
}

func TestIngestExistingEmailUpdatesLocationOnly(t *testing.T) {
	f := newIngestFixture(t)

	require.NoError(t, f.users.Create(&domain.User{
		ID: 1, Name: "Abebe", Email: "abebe@example.com", Status: domain.UserStatusActive,
	}))

	queue := []domain.PendingOrder{
		{
			Customer: domain.Customer{Name: "Abebe", Email: "abebe@example.com"},
			Location: &domain.Location{Name: "Dire Dawa", Lat: 9.6, Lng: 41.86},
			Items: []domain.PendingOrderItem{
				{Machine: domain.MachineRef{Name: "Excavator"}, IsRental: false},
			},
			Total: 5000,
		},
	}
	require.NoError(t, f.store.Set(store.KeyPendingOrders, queue))

	changed, err := f.service.Ingest(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Len(t, f.users.FindAll(), 1, "mevcut e-posta yeni kullanıcı üretmemeli")

	user, err := f.users.FindByEmail("abebe@example.com")
	require.NoError(t, err)
	require.NotNil(t, user.Location)
	assert.Equal(t, "Dire Dawa", user.Location.Name)

	interactions := f.interactions.FindAll()
	require.Len(t, interactions, 1)
	assert.Equal(t, domain.InteractionActionBuy, interactions[0].Action)
	assert.Equal(t, "Permanent", interactions[0].Duration)
}

func TestIngestLocationUpdateDoesNotMutateStoredPointer(t *testing.T) {
	f := newIngestFixture(t)

	require.NoError(t, f.users.Create(&domain.User{
		ID: 1, Name: "Abebe", Email: "abebe@example.com", Status: domain.UserStatusActive,
	}))

	before, err := f.users.FindByEmail("abebe@example.com")
	require.NoError(t, err)

	queue := []domain.PendingOrder{
		{
			Customer: domain.Customer{Name: "Abebe", Email: "abebe@example.com"},
			Location: &domain.Location{Name: "Hawassa", Lat: 7.05, Lng: 38.48},
			Total:    5,
		},
	}
	require.NoError(t, f.store.Set(store.KeyPendingOrders, queue))

	_, err = f.service.Ingest(context.Background())
	require.NoError(t, err)

	assert.Nil(t, before.Location, "depodaki eski işaretçi yerinde değişmemeli")

	after, err := f.users.FindByEmail("abebe@example.com")
	require.NoError(t, err)
	require.NotNil(t, after.Location)
	assert.Equal(t, "Hawassa", after.Location.Name)
}

func TestIngestOrderWithoutItems(t *testing.T) {
	f := newIngestFixture(t)

	queue := []domain.PendingOrder{
		{
			Customer: domain.Customer{Name: "Boş", Email: "bos@example.com"},
			Total:    10,
		},
	}
	require.NoError(t, f.store.Set(store.KeyPendingOrders, queue))

	changed, err := f.service.Ingest(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)

	interactions := f.interactions.FindAll()
	require.Len(t, interactions, 1)
	assert.Equal(t, "Unknown Machine", interactions[0].MachineName)
	assert.Equal(t, domain.InteractionActionBuy, interactions[0].Action)
}

func TestIngestLegacyQueueKey(t *testing.T) {
	f := newIngestFixture(t)

	queue := []domain.PendingOrder{
		{Customer: domain.Customer{Name: "Eski", Email: "eski@example.com"}, Total: 1},
	}
	require.NoError(t, f.store.Set(store.KeyLegacyOrders, queue))

	changed, err := f.service.Ingest(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)

	ok, err := f.store.Has(store.KeyLegacyOrders)
	require.NoError(t, err)
	assert.False(t, ok, "eski anahtar da tüketildikten sonra silinmeli")
}
