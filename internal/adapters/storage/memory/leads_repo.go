package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"sydney-events/internal/domain/leads"
)

type leadsRepo struct {
	mu   sync.RWMutex
	byID map[string]leads.Lead
}

func NewLeadsRepo() leads.Repository {
	return &leadsRepo{
		byID: make(map[string]leads.Lead),
	}
}

func (r *leadsRepo) Create(ctx context.Context, l leads.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l.ID == "" {
		return errors.New("lead id required")
	}
	if _, exists := r.byID[l.ID]; exists {
		return errors.New("lead already exists")
	}

	r.byID[l.ID] = l
	return nil
}

func (r *leadsRepo) List(ctx context.Context, limit int) ([]leads.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]leads.Lead, 0, len(r.byID))
	for _, l := range r.byID {
		out = append(out, l)
	}

	// Más recientes primero.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
