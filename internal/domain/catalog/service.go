package catalog

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("event not found")
)

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

// List devuelve el catálogo ordenado por StartDate ascendente (lo resuelve
// el repo); el filtro es opcional.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Event, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) GetByID(ctx context.Context, id string) (Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// Import promueve un evento a imported. Idempotente: si ya estaba imported
// no cambia nada (conserva ImportedAt/ImportedBy originales).
func (s *Service) Import(ctx context.Context, id, by, notes string) (Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrInvalidInput
	}
	by = strings.TrimSpace(by)
	if by == "" {
		by = "admin"
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if e.Status == StatusImported {
		return e, nil
	}

	if err := s.repo.Import(ctx, id, by, strings.TrimSpace(notes), s.now()); err != nil {
		return Event{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// ImportBulk aplica Import a cada id; devuelve cuántos quedaron imported y
// el primer error por id (no aborta el lote).
func (s *Service) ImportBulk(ctx context.Context, ids []string, by, notes string) (int, map[string]error) {
	imported := 0
	failed := map[string]error{}

	for _, id := range ids {
		if _, err := s.Import(ctx, id, by, notes); err != nil {
			failed[id] = err
			continue
		}
		imported++
	}
	if len(failed) == 0 {
		failed = nil
	}
	return imported, failed
}
