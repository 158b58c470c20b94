package service

import (
	"machflow/internal/domain"
	"machflow/pkg/logger"
)

// StatsService derives the dashboard aggregates from the live snapshots.
// Everything is recomputed per call; the cached wrapper decides how long a
// result lives.
type StatsService struct {
	users        domain.UserRepository
	interactions domain.InteractionRepository
	machines     domain.MachineRepository
	logger       logger.Logger
}

func NewStatsService(
	users domain.UserRepository,
	interactions domain.InteractionRepository,
	machines domain.MachineRepository,
	logger logger.Logger,
) domain.StatsService {
	return &StatsService{
		users:        users,
		interactions: interactions,
		machines:     machines,
		logger:       logger,
	}
}

func (s *StatsService) DashboardStats() (*domain.DashboardStats, error) {
	machines, err := s.machines.FindAll()
	if err != nil {
		return nil, err
	}

	stats := &domain.DashboardStats{}
	for _, m := range machines {
		switch m.ListingType {
		case domain.ListingTypeRent:
			stats.RentalMachines++
		case domain.ListingTypeSale:
			stats.SaleMachines++
		}
	}

	for _, u := range s.users.FindAll() {
		if u.Role == domain.UserRolePartner && u.Status == domain.UserStatusActive {
			stats.ActivePartners++
		}
		if u.IsPending() {
			stats.PendingPartners++
		}
	}

	for _, i := range s.interactions.FindAll() {
		stats.TotalRevenue += i.Cost
	}

	return stats, nil
}

func (s *StatsService) ChartData() (*domain.ChartData, error) {
	stats, err := s.DashboardStats()
	if err != nil {
		return nil, err
	}

	return &domain.ChartData{
		MachineTypes: domain.ChartDataset{
			Labels: []string{"Rental Machines", "Sale Machines"},
			Data:   []float64{float64(stats.RentalMachines), float64(stats.SaleMachines)},
		},
		ActiveVendors: domain.ChartDataset{
			Labels: []string{"Active Vendors"},
			Data:   []float64{float64(stats.ActivePartners)},
		},
	}, nil
}

// MapMarkers returns one marker per user with usable coordinates. Zero
// coordinates mean the user never picked a city, not the Gulf of Guinea.
func (s *StatsService) MapMarkers() ([]domain.MapMarker, error) {
	markers := []domain.MapMarker{}
	for _, u := range s.users.FindAll() {
		if u.Location == nil || u.Location.Lat == 0 || u.Location.Lng == 0 {
			continue
		}
		markers = append(markers, domain.MapMarker{
			UserID:   u.ID,
			Name:     u.Name,
			Role:     u.Role,
			Location: *u.Location,
		})
	}
	return markers, nil
}

func (s *StatsService) RentalHistory(userID int64) []*domain.Interaction {
	return s.interactions.FindByUserID(userID)
}
