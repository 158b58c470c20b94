package service

import (
	"context"
	"fmt"
	"strings"

	"machflow/internal/concurrent"
	"machflow/internal/domain"
	"machflow/pkg/logger"
	"machflow/pkg/metrics"
)

type UserService struct {
	repo        domain.UserRepository
	dispatcher  *concurrent.Dispatcher
	invalidator StatsInvalidator
	logger      logger.Logger
}

func NewUserService(
	repo domain.UserRepository,
	dispatcher *concurrent.Dispatcher,
	invalidator StatsInvalidator,
	logger logger.Logger,
) domain.UserService {
	return &UserService{
		repo:        repo,
		dispatcher:  dispatcher,
		invalidator: invalidator,
		logger:      logger,
	}
}

func (s *UserService) ListUsers() []*domain.User {
	return s.repo.FindAll()
}

// SearchUsers intersects a case-insensitive substring match on name or email
// with an exact role filter; "All" (or empty) matches every role.
func (s *UserService) SearchUsers(term, role string) []*domain.User {
	term = strings.ToLower(term)

	var out []*domain.User
	for _, u := range s.repo.FindAll() {
		matchesTerm := strings.Contains(strings.ToLower(u.Name), term) ||
			strings.Contains(strings.ToLower(u.Email), term)
		matchesRole := role == "" || role == domain.RoleFilterAll || u.Role == role
		if matchesTerm && matchesRole {
			out = append(out, u)
		}
	}
	return out
}

func (s *UserService) ListPending() []*domain.User {
	var out []*domain.User
	for _, u := range s.repo.FindAll() {
		if u.IsPending() {
			out = append(out, u)
		}
	}
	return out
}

func (s *UserService) CreateUser(user *domain.User) error {
	if user.Role == "" {
		user.Role = domain.UserRoleCustomer
	}
	if user.Status == "" {
		user.Status = domain.UserStatusActive
	}
	if user.JoinDate == "" {
		user.JoinDate = domain.Today()
	}

	if err := s.repo.Create(user); err != nil {
		s.logger.Error("Kullanıcı oluşturma sırasında hata oluştu", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("kullanıcı oluşturulamadı: %w", err)
	}

	s.logger.Info("Kullanıcı oluşturuldu", map[string]interface{}{"id": user.ID, "email": user.Email})
	s.afterMutation()
	s.notify("Success", "New user added successfully", domain.NotificationSuccess)
	return nil
}

func (s *UserService) UpdateUser(id int64, patch domain.UserPatch) (*domain.User, error) {
	existing, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("kullanıcı güncellenemedi: %w", err)
	}
	if existing == nil {
		return nil, domain.ErrUserNotFound
	}

	updated := *existing
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Email != nil {
		updated.Email = *patch.Email
	}
	if patch.Role != nil {
		updated.Role = *patch.Role
	}
	if patch.Status != nil {
		updated.Status = *patch.Status
	}
	if patch.Balance != nil {
		updated.Balance = *patch.Balance
	}
	if patch.Company != nil {
		updated.Company = *patch.Company
	}
	if patch.Location != nil {
		updated.Location = patch.Location
	}

	if err := s.repo.Update(&updated); err != nil {
		s.logger.Error("Kullanıcı güncelleme sırasında hata oluştu", map[string]interface{}{"id": id, "error": err.Error()})
		return nil, fmt.Errorf("kullanıcı güncellenemedi: %w", err)
	}

	s.afterMutation()
	s.notify("Success", "User updated successfully", domain.NotificationSuccess)
	return &updated, nil
}

// DeleteUser removes the user only; interactions that reference the id stay
// behind as orphans.
func (s *UserService) DeleteUser(id int64) error {
	existing, err := s.repo.FindByID(id)
	if err != nil {
		return fmt.Errorf("kullanıcı silinemedi: %w", err)
	}
	if existing == nil {
		return domain.ErrUserNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("Kullanıcı silme sırasında hata oluştu", map[string]interface{}{"id": id, "error": err.Error()})
		return fmt.Errorf("kullanıcı silinemedi: %w", err)
	}

	s.logger.Info("Kullanıcı silindi", map[string]interface{}{"id": id, "email": existing.Email})
	s.afterMutation()
	s.notify("User Deleted", "The user has been removed from the system.", domain.NotificationInfo)
	return nil
}

// ApproveUser activates a pending user. An unknown id is a no-op, not an
// error.
func (s *UserService) ApproveUser(id int64) (*domain.User, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("kullanıcı onaylanamadı: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	// Kopyala ve değiştir: depodaki işaretçi eşitleme döngüsü tarafından
	// eşzamanlı okunur, yerinde yazılamaz.
	updated := *user
	updated.Status = domain.UserStatusActive
	if err := s.repo.Update(&updated); err != nil {
		s.logger.Error("Kullanıcı onaylama sırasında hata oluştu", map[string]interface{}{"id": id, "error": err.Error()})
		return nil, fmt.Errorf("kullanıcı onaylanamadı: %w", err)
	}

	s.logger.Info("Kullanıcı onaylandı", map[string]interface{}{"id": id, "email": updated.Email})
	s.afterMutation()
	s.notify("Approved OK", fmt.Sprintf("%s has been approved successfully.", updated.Name), domain.NotificationSuccess)
	return &updated, nil
}

func (s *UserService) PendingCount() int {
	return s.repo.PendingCount()
}

func (s *UserService) afterMutation() {
	metrics.UpdatePendingUsers(s.repo.PendingCount())

	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(context.Background()); err != nil {
			s.logger.Warn("Önbellek temizlenemedi", map[string]interface{}{"error": err.Error()})
		}
	}

	if s.dispatcher != nil {
		s.dispatcher.Publish(concurrent.Event{
			Type:         concurrent.EventRefresh,
			PendingCount: s.repo.PendingCount(),
		})
	}
}

func (s *UserService) notify(title, message, notifType string) {
	if s.dispatcher != nil {
		s.dispatcher.Notify(title, message, notifType)
	}
}
