package repository

import (
	"fmt"

	"machflow/internal/domain"
	"machflow/internal/store"
	"machflow/pkg/logger"
)

// MachineRepository is read-only; the catalog flow owns the machines key.
type MachineRepository struct {
	store  store.Store
	logger logger.Logger
}

func NewMachineRepository(st store.Store, logger logger.Logger) domain.MachineRepository {
	return &MachineRepository{
		store:  st,
		logger: logger,
	}
}

func (r *MachineRepository) FindAll() ([]*domain.Machine, error) {
	var machines []*domain.Machine
	if err := r.store.Get(store.KeyMachines, &machines); err != nil {
		if err == store.ErrKeyNotFound {
			return []*domain.Machine{}, nil
		}
		r.logger.Error("Makineler okunamadı", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("makineler okunamadı: %w", err)
	}
	return machines, nil
}
