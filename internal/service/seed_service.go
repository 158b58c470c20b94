package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"machflow/internal/domain"
	"machflow/internal/store"
	"machflow/pkg/logger"
)

// SeedService populates the store on first run. An installation that already
// has a users key is never reseeded, so admin edits survive restarts.
type SeedService struct {
	store  store.Store
	source string
	logger logger.Logger
}

func NewSeedService(st store.Store, source string, logger logger.Logger) *SeedService {
	return &SeedService{
		store:  st,
		source: source,
		logger: logger,
	}
}

type seedDocument struct {
	Users        []*domain.User        `json:"users"`
	Interactions []*domain.Interaction `json:"interactions"`
}

func (s *SeedService) Run(ctx context.Context) error {
	seeded, err := s.store.Has(store.KeyUsers)
	if err != nil {
		return fmt.Errorf("tohum kontrolü başarısız: %w", err)
	}
	if seeded {
		s.logger.Debug("Depo zaten dolu, tohumlama atlanıyor", nil)
		return nil
	}

	doc, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("Tohum verisi yüklenemedi, varsayılan veri kullanılıyor", map[string]interface{}{
			"source": s.source,
			"error":  err.Error(),
		})
		doc = defaultSeed()
	}

	if err := s.store.Set(store.KeyUsers, doc.Users); err != nil {
		return fmt.Errorf("kullanıcılar tohumlanamadı: %w", err)
	}
	if err := s.store.Set(store.KeyInteractions, doc.Interactions); err != nil {
		return fmt.Errorf("etkileşimler tohumlanamadı: %w", err)
	}

	s.logger.Info("Depo tohumlandı", map[string]interface{}{
		"users":        len(doc.Users),
		"interactions": len(doc.Interactions),
	})
	return nil
}

func (s *SeedService) load(ctx context.Context) (*seedDocument, error) {
	var data []byte
	var err error

	if strings.HasPrefix(s.source, "http://") || strings.HasPrefix(s.source, "https://") {
		data, err = s.fetch(ctx)
	} else {
		data, err = os.ReadFile(s.source)
	}
	if err != nil {
		return nil, err
	}

	var doc seedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("tohum verisi çözümlenemedi: %w", err)
	}
	if doc.Users == nil {
		doc.Users = []*domain.User{}
	}
	if doc.Interactions == nil {
		doc.Interactions = []*domain.Interaction{}
	}
	return &doc, nil
}

func (s *SeedService) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.source, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tohum kaynağı %d döndürdü", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// defaultSeed keeps the dashboard usable when the seed source is missing:
// a single admin account and an empty history.
func defaultSeed() *seedDocument {
	return &seedDocument{
		Users: []*domain.User{
			{
				ID:       1,
				Name:     "Admin User",
				Email:    "admin@medish.com",
				Role:     domain.UserRoleAdmin,
				Status:   domain.UserStatusActive,
				Balance:  0,
				JoinDate: domain.Today(),
				Location: &domain.Location{Name: "Addis Ababa HQ", Lat: 9.0054, Lng: 38.7419},
			},
		},
		Interactions: []*domain.Interaction{},
	}
}
