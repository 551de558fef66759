package ingest

import (
	"context"
	"errors"
	"time"

	"sydney-events/internal/domain/catalog"

	"github.com/google/uuid"
)

// SeenSet es el estado por-run de un source: las URLs canónicas observadas
// en este ciclo. Se devuelve como valor desde el run de cada source y se
// pasa al sweep de ausencia; no hay colecciones mutables compartidas entre
// sources.
type SeenSet struct {
	urls  []string
	index map[string]struct{}
}

func NewSeenSet() *SeenSet {
	return &SeenSet{index: make(map[string]struct{})}
}

func (s *SeenSet) Has(url string) bool {
	_, ok := s.index[url]
	return ok
}

func (s *SeenSet) Add(url string) {
	if s.Has(url) {
		return
	}
	s.index[url] = struct{}{}
	s.urls = append(s.urls, url)
}

// URLs devuelve las URLs en orden de primera observación.
func (s *SeenSet) URLs() []string {
	return s.urls
}

func (s *SeenSet) Len() int {
	return len(s.urls)
}

// Outcome es el resultado de reconciliar una observación.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeUpdated
	// OutcomeDuplicate: la misma URL canónica ya fue procesada en este run;
	// la segunda ocurrencia es un no-op.
	OutcomeDuplicate
)

// Reconciler hace el upsert de una observación normalizada contra el
// catálogo, preservando el status imported.
type Reconciler struct {
	repo catalog.Repository
	now  func() time.Time
}

func NewReconciler(repo catalog.Repository) *Reconciler {
	return &Reconciler{
		repo: repo,
		now:  time.Now,
	}
}

// Reconcile inserta o mergea el evento por SourceURL y lo registra en el
// seen-set. Reglas:
//   - ausente => insert con status new
//   - presente => se pisan los campos mutables; status imported se conserva,
//     cualquier otro pasa a updated
//   - duplicado dentro del mismo run => no-op (primera ocurrencia gana)
//
// Replay del mismo conjunto de observaciones es idempotente: no crea
// registros extra y el status queda fijo tras el avance new->updated.
func (r *Reconciler) Reconcile(ctx context.Context, ev catalog.Event, seen *SeenSet) (Outcome, error) {
	if seen.Has(ev.SourceURL) {
		return OutcomeDuplicate, nil
	}
	seen.Add(ev.SourceURL)

	now := r.now()

	existing, err := r.repo.GetBySourceURL(ctx, ev.SourceURL)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			return OutcomeUpdated, err
		}

		ev.ID = uuid.NewString()
		ev.Status = catalog.StatusNew
		ev.LastSeenAt = now
		ev.CreatedAt = now
		ev.UpdatedAt = now
		if err := r.repo.Insert(ctx, ev); err != nil {
			return OutcomeCreated, err
		}
		return OutcomeCreated, nil
	}

	// Merge: campos mutables desde la observación; identidad y datos de
	// curaduría se conservan del registro existente.
	merged := existing
	merged.Title = ev.Title
	merged.Venue = ev.Venue
	merged.Address = ev.Address
	merged.City = ev.City
	merged.Description = ev.Description
	merged.StartDate = ev.StartDate
	merged.EndDate = ev.EndDate
	merged.NextOccurrence = ev.NextOccurrence
	merged.Tags = ev.Tags
	merged.ImageURL = ev.ImageURL
	merged.LastSeenAt = now
	merged.UpdatedAt = now

	// Regla de preservación: imported es pegajoso frente a ingesta.
	if existing.Status == catalog.StatusImported {
		merged.Status = catalog.StatusImported
	} else {
		merged.Status = catalog.StatusUpdated
	}

	if err := r.repo.Update(ctx, merged); err != nil {
		return OutcomeUpdated, err
	}
	return OutcomeUpdated, nil
}
