package service

import (
	"context"
	"fmt"

	"machflow/internal/domain"
	"machflow/pkg/logger"
	"machflow/pkg/metrics"
)

// IngestionService converts queued pending orders into users and
// interactions, then clears the queue. Consumption is at most once per batch:
// the queue is removed only after the whole batch is processed, so a crash in
// between reprocesses every entry on the next run and duplicates their
// interactions. There is no idempotency key; the gap is accepted.
type IngestionService struct {
	users        domain.UserRepository
	interactions domain.InteractionRepository
	pending      domain.PendingOrderRepository
	invalidator  StatsInvalidator
	logger       logger.Logger
}

func NewIngestionService(
	users domain.UserRepository,
	interactions domain.InteractionRepository,
	pending domain.PendingOrderRepository,
	invalidator StatsInvalidator,
	logger logger.Logger,
) domain.IngestionService {
	return &IngestionService{
		users:        users,
		interactions: interactions,
		pending:      pending,
		invalidator:  invalidator,
		logger:       logger,
	}
}

func (s *IngestionService) Ingest(ctx context.Context) (bool, error) {
	orders, err := s.pending.List()
	if err != nil {
		return false, fmt.Errorf("sipariş kuyruğu işlenemedi: %w", err)
	}

	if len(orders) == 0 {
		return false, nil
	}

	userIDs := make([]int64, 0, len(orders))
	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		userID, err := s.ingestOrder(order)
		if err != nil {
			s.logger.Error("Sipariş işlenemedi", map[string]interface{}{
				"email": order.Customer.Email,
				"error": err.Error(),
			})
			return false, err
		}
		userIDs = append(userIDs, userID)

		metrics.RecordOrderIngested()
	}

	if err := s.pending.Clear(); err != nil {
		return false, fmt.Errorf("sipariş kuyruğu temizlenemedi: %w", err)
	}

	s.logger.Info("Bekleyen siparişler işlendi", map[string]interface{}{"count": len(orders)})

	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx); err != nil {
			s.logger.Warn("Önbellek temizlenemedi", map[string]interface{}{"error": err.Error()})
		}
		// Her etkilenen kullanıcının kiralama geçmişi de tazelenir.
		for _, userID := range userIDs {
			if err := s.invalidator.InvalidateHistory(ctx, userID); err != nil {
				s.logger.Warn("Geçmiş önbelleği temizlenemedi", map[string]interface{}{
					"userId": userID,
					"error":  err.Error(),
				})
			}
		}
	}

	return true, nil
}

func (s *IngestionService) ingestOrder(order domain.PendingOrder) (int64, error) {
	user, err := s.users.FindByEmail(order.Customer.Email)
	if err != nil {
		return 0, err
	}

	if user == nil {
		user = &domain.User{
			ID:       domain.NewUserID(),
			Name:     order.Customer.Name,
			Email:    order.Customer.Email,
			Role:     domain.UserRoleCustomer,
			Status:   domain.UserStatusActive,
			Balance:  0,
			JoinDate: domain.Today(),
			Location: order.Location,
		}
		if err := s.users.Create(user); err != nil {
			return 0, err
		}
	} else if order.Location != nil {
		// Last write wins on location. Kopyala ve değiştir: depodaki
		// işaretçi eşzamanlı okunuyor olabilir.
		updated := *user
		updated.Location = order.Location
		if err := s.users.Update(&updated); err != nil {
			return 0, err
		}
		user = &updated
	}

	return user.ID, s.interactions.Append(s.buildInteraction(order, user.ID))
}

// buildInteraction derives exactly one interaction from the order's first
// item; orders without items still record the purchase against an unknown
// machine.
func (s *IngestionService) buildInteraction(order domain.PendingOrder, userID int64) *domain.Interaction {
	interaction := &domain.Interaction{
		ID:          domain.NewID(),
		UserID:      userID,
		MachineName: "Unknown Machine",
		Action:      domain.InteractionActionBuy,
		Date:        domain.Today(),
		Duration:    "Permanent",
		Cost:        order.Total,
		Status:      domain.InteractionStatusActive,
		Provider:    domain.InteractionProviderOnline,
	}

	if len(order.Items) > 0 {
		item := order.Items[0]
		interaction.MachineID = item.MachineID
		if item.Machine.Name != "" {
			interaction.MachineName = item.Machine.Name
		}
		if item.IsRental {
			interaction.Action = domain.InteractionActionRent
		}
		if item.Duration != 0 {
			interaction.Duration = fmt.Sprintf("%d days", item.Duration)
		}
	}

	return interaction
}
