package leads

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Email   string
	Consent bool
	EventID string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Lead, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return Lead{}, ErrInvalidInput
	}
	// Sin consentimiento explícito no guardamos nada.
	if !in.Consent {
		return Lead{}, ErrInvalidInput
	}

	l := Lead{
		ID:        uuid.NewString(),
		Email:     email,
		Consent:   true,
		EventID:   strings.TrimSpace(in.EventID),
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return Lead{}, err
	}
	return l, nil
}

func (s *Service) List(ctx context.Context, limit int) ([]Lead, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	return s.repo.List(ctx, limit)
}
