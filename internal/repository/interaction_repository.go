package repository

import (
	"fmt"
	"sync"

	"machflow/internal/domain"
	"machflow/internal/store"
	"machflow/pkg/logger"
)

// InteractionRepository is append-only: interactions are created by ingestion
// and never mutated or deleted afterwards.
type InteractionRepository struct {
	mu           sync.RWMutex
	interactions []*domain.Interaction
	store        store.Store
	logger       logger.Logger
}

func NewInteractionRepository(st store.Store, logger logger.Logger) domain.InteractionRepository {
	return &InteractionRepository{
		store:  st,
		logger: logger,
	}
}

func (r *InteractionRepository) Load() error {
	var interactions []*domain.Interaction
	if err := r.store.Get(store.KeyInteractions, &interactions); err != nil {
		if err == store.ErrKeyNotFound {
			interactions = []*domain.Interaction{}
		} else {
			r.logger.Error("Etkileşimler yüklenemedi", map[string]interface{}{"error": err.Error()})
			return fmt.Errorf("etkileşimler yüklenemedi: %w", err)
		}
	}

	r.mu.Lock()
	r.interactions = interactions
	r.mu.Unlock()
	return nil
}

func (r *InteractionRepository) FindAll() []*domain.Interaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Interaction, len(r.interactions))
	copy(out, r.interactions)
	return out
}

// FindByUserID also serves orphaned interactions whose user was deleted.
func (r *InteractionRepository) FindByUserID(userID int64) []*domain.Interaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Interaction
	for _, in := range r.interactions {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	return out
}

func (r *InteractionRepository) Append(interaction *domain.Interaction) error {
	if interaction.ID == 0 {
		interaction.ID = domain.NewID()
	}

	r.mu.Lock()
	r.interactions = append(r.interactions, interaction)
	err := r.store.Set(store.KeyInteractions, r.interactions)
	r.mu.Unlock()

	if err != nil {
		r.logger.Error("Etkileşim kaydedilemedi", map[string]interface{}{"id": interaction.ID, "error": err.Error()})
		return fmt.Errorf("etkileşim kaydedilemedi: %w", err)
	}
	return nil
}

func (r *InteractionRepository) ReplaceAll(interactions []*domain.Interaction) {
	r.mu.Lock()
	r.interactions = interactions
	r.mu.Unlock()
}
