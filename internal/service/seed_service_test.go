package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"machflow/internal/domain"
	"machflow/internal/store"
)

func TestSeedFromFile(t *testing.T) {
	log := newTestLogger()
	st := store.NewMemoryStore(log)

	path := filepath.Join(t.TempDir(), "data.json")
	doc := `{
		"users": [{"id": 1, "name": "Abebe", "email": "abebe@example.com", "role": "Partner", "status": "Active"}],
		"interactions": [{"id": 10, "userId": 1, "machineName": "Drill", "cost": 50}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	seed := NewSeedService(st, path, log)
	require.NoError(t, seed.Run(context.Background()))

	var users []*domain.User
	require.NoError(t, st.Get(store.KeyUsers, &users))
	require.Len(t, users, 1)
	assert.Equal(t, "abebe@example.com", users[0].Email)

	var interactions []*domain.Interaction
	require.NoError(t, st.Get(store.KeyInteractions, &interactions))
	assert.Len(t, interactions, 1)
}

func TestSeedFromHTTP(t *testing.T) {
	log := newTestLogger()
	st := store.NewMemoryStore(log)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"users": [{"id": 1, "name": "Uzak", "email": "uzak@example.com"}], "interactions": []}`))
	}))
	defer server.Close()

	seed := NewSeedService(st, server.URL, log)
	require.NoError(t, seed.Run(context.Background()))

	var users []*domain.User
	require.NoError(t, st.Get(store.KeyUsers, &users))
	require.Len(t, users, 1)
	assert.Equal(t, "uzak@example.com", users[0].Email)
}

func TestSeedFallsBackToDefault(t *testing.T) {
	log := newTestLogger()
	st := store.NewMemoryStore(log)

	seed := NewSeedService(st, filepath.Join(t.TempDir(), "yok.json"), log)
	require.NoError(t, seed.Run(context.Background()))

	var users []*domain.User
	require.NoError(t, st.Get(store.KeyUsers, &users))
	require.Len(t, users, 1)
	assert.Equal(t, "admin@medish.com", users[0].Email)
	assert.Equal(t, domain.UserRoleAdmin, users[0].Role)
}

func TestSeedSkipsWhenAlreadySeeded(t *testing.T) {
	log := newTestLogger()
	st := store.NewMemoryStore(log)

	existing := []*domain.User{{ID: 99, Name: "Var Olan", Email: "var@example.com"}}
	require.NoError(t, st.Set(store.KeyUsers, existing))

	seed := NewSeedService(st, filepath.Join(t.TempDir(), "yok.json"), log)
	require.NoError(t, seed.Run(context.Background()))

	var users []*domain.User
	require.NoError(t, st.Get(store.KeyUsers, &users))
	require.Len(t, users, 1)
	assert.Equal(t, int64(99), users[0].ID, "dolu depo yeniden tohumlanmamalı")
}
