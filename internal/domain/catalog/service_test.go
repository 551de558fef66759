package catalog

import (
	"context"
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)

type stubRepo struct {
	events map[string]Event

	importCalls int
	failImport  error
}

func newStubRepo(events ...Event) *stubRepo {
	r := &stubRepo{events: map[string]Event{}}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

func (r *stubRepo) GetByID(ctx context.Context, id string) (Event, error) {
	e, ok := r.events[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	return e, nil
}

func (r *stubRepo) GetBySourceURL(ctx context.Context, sourceURL string) (Event, error) {
	for _, e := range r.events {
		if e.SourceURL == sourceURL {
			return e, nil
		}
	}
	return Event{}, ErrNotFound
}

func (r *stubRepo) Insert(ctx context.Context, e Event) error {
	r.events[e.ID] = e
	return nil
}

func (r *stubRepo) Update(ctx context.Context, e Event) error {
	if _, ok := r.events[e.ID]; !ok {
		return ErrNotFound
	}
	r.events[e.ID] = e
	return nil
}

func (r *stubRepo) List(ctx context.Context, filter ListFilter) ([]Event, error) {
	var out []Event
	for _, e := range r.events {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Source != "" && e.Source != filter.Source {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *stubRepo) Import(ctx context.Context, id, by, notes string, now time.Time) error {
	r.importCalls++
	if r.failImport != nil {
		return r.failImport
	}
	e, ok := r.events[id]
	if !ok {
		return ErrNotFound
	}
	if e.Status == StatusImported {
		return nil
	}
	e.Status = StatusImported
	e.ImportedAt = &now
	e.ImportedBy = by
	e.ImportNotes = notes
	e.UpdatedAt = now
	r.events[id] = e
	return nil
}

func (r *stubRepo) MarkInactiveMissing(ctx context.Context, source string, seen []string, now time.Time) (int64, error) {
	return 0, nil
}

func (r *stubRepo) MarkInactiveExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func newTestService(repo *stubRepo) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return testNow }
	return svc
}

func sampleEvent(id string, status Status) Event {
	return Event{
		ID:        id,
		Title:     "Sample " + id,
		StartDate: testNow.AddDate(0, 0, 3),
		EndDate:   testNow.AddDate(0, 0, 4),
		Source:    "whatson",
		SourceURL: "https://example.org/" + id,
		Status:    status,
	}
}

func TestImport_PromotesAndStampsAudit(t *testing.T) {
	repo := newStubRepo(sampleEvent("ev-1", StatusNew))
	svc := newTestService(repo)

	got, err := svc.Import(context.Background(), "ev-1", "ana", "looks good")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got.Status != StatusImported {
		t.Fatalf("status = %s, want imported", got.Status)
	}
	if got.ImportedAt == nil || !got.ImportedAt.Equal(testNow) {
		t.Fatalf("ImportedAt = %v, want %v", got.ImportedAt, testNow)
	}
	if got.ImportedBy != "ana" || got.ImportNotes != "looks good" {
		t.Fatalf("audit = %q/%q", got.ImportedBy, got.ImportNotes)
	}
}

func TestImport_Idempotent(t *testing.T) {
	repo := newStubRepo(sampleEvent("ev-1", StatusNew))
	svc := newTestService(repo)

	first, err := svc.Import(context.Background(), "ev-1", "ana", "")
	if err != nil {
		t.Fatalf("first import: %v", err)
	}

	// Reintento: no pisa el audit trail original ni vuelve al repo.
	calls := repo.importCalls
	second, err := svc.Import(context.Background(), "ev-1", "otro", "late notes")
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if repo.importCalls != calls {
		t.Fatalf("repo.Import called again on already-imported event")
	}
	if second.ImportedBy != first.ImportedBy {
		t.Fatalf("ImportedBy changed to %q", second.ImportedBy)
	}
	if !second.ImportedAt.Equal(*first.ImportedAt) {
		t.Fatalf("ImportedAt changed to %v", second.ImportedAt)
	}
}

func TestImport_DefaultsActor(t *testing.T) {
	repo := newStubRepo(sampleEvent("ev-1", StatusUpdated))
	svc := newTestService(repo)

	got, err := svc.Import(context.Background(), "ev-1", "   ", "")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got.ImportedBy != "admin" {
		t.Fatalf("ImportedBy = %q, want admin", got.ImportedBy)
	}
}

func TestImport_Validation(t *testing.T) {
	svc := newTestService(newStubRepo())

	if _, err := svc.Import(context.Background(), "  ", "ana", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank id: err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Import(context.Background(), "nope", "ana", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id: err = %v, want ErrNotFound", err)
	}
}

func TestImportBulk_PartialFailure(t *testing.T) {
	repo := newStubRepo(
		sampleEvent("ev-1", StatusNew),
		sampleEvent("ev-2", StatusUpdated),
	)
	svc := newTestService(repo)

	imported, failed := svc.ImportBulk(context.Background(), []string{"ev-1", "missing", "ev-2"}, "ana", "")
	if imported != 2 {
		t.Fatalf("imported = %d, want 2", imported)
	}
	if len(failed) != 1 || !errors.Is(failed["missing"], ErrNotFound) {
		t.Fatalf("failed = %v", failed)
	}

	// Sin fallas el mapa viene nil.
	imported, failed = svc.ImportBulk(context.Background(), []string{"ev-1"}, "ana", "")
	if imported != 1 || failed != nil {
		t.Fatalf("replay: imported=%d failed=%v", imported, failed)
	}
}

func TestList_RejectsUnknownStatus(t *testing.T) {
	svc := newTestService(newStubRepo())
	if _, err := svc.List(context.Background(), ListFilter{Status: Status("bogus")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestEventActive(t *testing.T) {
	future := testNow.AddDate(0, 0, 7)
	past := testNow.AddDate(0, 0, -7)

	cases := []struct {
		name string
		ev   Event
		want bool
	}{
		{"end in future", Event{EndDate: future}, true},
		{"end exactly now", Event{EndDate: testNow}, true},
		{"end in past", Event{EndDate: past}, false},
		{"recurring overrides ended series", Event{EndDate: past, NextOccurrence: &future}, true},
		{"recurring already played", Event{EndDate: future, NextOccurrence: &past}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.ev.Active(testNow); got != tc.want {
				t.Fatalf("Active = %v, want %v", got, tc.want)
			}
		})
	}
}
