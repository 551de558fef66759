package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"sydney-events/internal/domain/catalog"
)

type catalogRepo struct {
	mu          sync.RWMutex
	byID        map[string]catalog.Event
	bySourceURL map[string]string // source_url -> id
}

func NewCatalogRepo() catalog.Repository {
	return &catalogRepo{
		byID:        make(map[string]catalog.Event),
		bySourceURL: make(map[string]string),
	}
}

func (r *catalogRepo) GetByID(ctx context.Context, id string) (catalog.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return catalog.Event{}, catalog.ErrNotFound
	}
	return e, nil
}

func (r *catalogRepo) GetBySourceURL(ctx context.Context, sourceURL string) (catalog.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySourceURL[sourceURL]
	if !ok {
		return catalog.Event{}, catalog.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *catalogRepo) Insert(ctx context.Context, e catalog.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" || e.SourceURL == "" {
		return errors.New("event id and source url required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("event already exists")
	}
	// Mismo rol que el unique index en Postgres.
	if _, exists := r.bySourceURL[e.SourceURL]; exists {
		return errors.New("duplicate source url")
	}

	r.byID[e.ID] = e
	r.bySourceURL[e.SourceURL] = e.ID
	return nil
}

func (r *catalogRepo) Update(ctx context.Context, e catalog.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[e.ID]
	if !ok {
		return catalog.ErrNotFound
	}
	// source_url es inmutable después del insert.
	e.SourceURL = old.SourceURL
	e.CreatedAt = old.CreatedAt
	r.byID[e.ID] = e
	return nil
}

func (r *catalogRepo) List(ctx context.Context, filter catalog.ListFilter) ([]catalog.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}

	out := make([]catalog.Event, 0)
	for _, e := range r.byID {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Source != "" && e.Source != filter.Source {
			continue
		}
		out = append(out, e)
	}

	// Contrato de lectura: start_date ascendente.
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *catalogRepo) Import(ctx context.Context, id, by, notes string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return catalog.ErrNotFound
	}
	if e.Status == catalog.StatusImported {
		return nil
	}

	e.Status = catalog.StatusImported
	t := now
	e.ImportedAt = &t
	e.ImportedBy = by
	e.ImportNotes = notes
	e.UpdatedAt = now
	r.byID[id] = e
	return nil
}

func (r *catalogRepo) MarkInactiveMissing(ctx context.Context, source string, seen []string, now time.Time) (int64, error) {
	seenSet := make(map[string]struct{}, len(seen))
	for _, u := range seen {
		seenSet[u] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var retired int64
	for id, e := range r.byID {
		if e.Source != source || e.Status == catalog.StatusInactive {
			continue
		}
		_, wasSeen := seenSet[e.SourceURL]
		if wasSeen && !e.EndDate.Before(now) {
			continue
		}

		e.Status = catalog.StatusInactive
		e.UpdatedAt = now
		r.byID[id] = e
		retired++
	}

	return retired, nil
}

func (r *catalogRepo) MarkInactiveExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var retired int64
	for id, e := range r.byID {
		if e.Status == catalog.StatusInactive {
			continue
		}
		if !e.StartDate.Before(now) {
			continue
		}
		if !e.EndDate.Before(now) {
			continue
		}
		if e.NextOccurrence != nil && !e.NextOccurrence.Before(now) {
			continue
		}

		e.Status = catalog.StatusInactive
		e.UpdatedAt = now
		r.byID[id] = e
		retired++
	}

	return retired, nil
}
