package repository

import (
	"fmt"
	"sync"

	"machflow/internal/domain"
	"machflow/internal/store"
	"machflow/pkg/logger"
)

// UserRepository keeps the user collection in memory and writes the full
// collection back to the durable store after every mutation. Reconciliation
// replaces the in-memory slice wholesale via ReplaceAll.
type UserRepository struct {
	mu     sync.RWMutex
	users  []*domain.User
	store  store.Store
	logger logger.Logger
}

func NewUserRepository(st store.Store, logger logger.Logger) domain.UserRepository {
	return &UserRepository{
		store:  st,
		logger: logger,
	}
}

func (r *UserRepository) Load() error {
	var users []*domain.User
	if err := r.store.Get(store.KeyUsers, &users); err != nil {
		if err == store.ErrKeyNotFound {
			users = []*domain.User{}
		} else {
			r.logger.Error("Kullanıcılar yüklenemedi", map[string]interface{}{"error": err.Error()})
			return fmt.Errorf("kullanıcılar yüklenemedi: %w", err)
		}
	}

	r.mu.Lock()
	r.users = users
	r.mu.Unlock()
	return nil
}

func (r *UserRepository) FindAll() []*domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, len(r.users))
	copy(out, r.users)
	return out
}

func (r *UserRepository) FindByID(id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) FindByEmail(email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) Create(user *domain.User) error {
	if user.ID == 0 {
		user.ID = domain.NewUserID()
	}

	r.mu.Lock()
	r.users = append(r.users, user)
	err := r.persistLocked()
	r.mu.Unlock()

	if err != nil {
		r.logger.Error("Kullanıcı oluşturulamadı", map[string]interface{}{"id": user.ID, "error": err.Error()})
		return fmt.Errorf("kullanıcı oluşturulamadı: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID == user.ID {
			r.users[i] = user
			if err := r.persistLocked(); err != nil {
				r.logger.Error("Kullanıcı güncellenemedi", map[string]interface{}{"id": user.ID, "error": err.Error()})
				return fmt.Errorf("kullanıcı güncellenemedi: %w", err)
			}
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *UserRepository) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.users[:0]
	for _, u := range r.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	r.users = kept

	if err := r.persistLocked(); err != nil {
		r.logger.Error("Kullanıcı silinemedi", map[string]interface{}{"id": id, "error": err.Error()})
		return fmt.Errorf("kullanıcı silinemedi: %w", err)
	}
	return nil
}

func (r *UserRepository) ReplaceAll(users []*domain.User) {
	r.mu.Lock()
	r.users = users
	r.mu.Unlock()
}

// Snapshot re-reads the user collection from the durable store without
// touching the in-memory state; the reconciliation loop diffs against it.
func (r *UserRepository) Snapshot() ([]*domain.User, error) {
	var users []*domain.User
	if err := r.store.Get(store.KeyUsers, &users); err != nil {
		if err == store.ErrKeyNotFound {
			return []*domain.User{}, nil
		}
		return nil, fmt.Errorf("kullanıcı anlık görüntüsü okunamadı: %w", err)
	}
	return users, nil
}

func (r *UserRepository) PendingCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, u := range r.users {
		if u.IsPending() {
			count++
		}
	}
	return count
}

func (r *UserRepository) persistLocked() error {
	return r.store.Set(store.KeyUsers, r.users)
}
