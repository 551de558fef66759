package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sydney-events/internal/domain/catalog"
	"sydney-events/internal/platform/logger"
	"sydney-events/internal/ports/source"
)

type fakeAdapter struct {
	name  string
	pages [][]source.RawHit

	// failAtPage >= 0 hace fallar el fetch de esa página.
	failAtPage int

	// release, si no es nil, bloquea el primer fetch hasta que se cierre.
	release chan struct{}

	mu      sync.Mutex
	fetches int
}

func newFakeAdapter(name string, pages ...[]source.RawHit) *fakeAdapter {
	return &fakeAdapter{name: name, pages: pages, failAtPage: -1}
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) FetchPage(ctx context.Context, page int) ([]source.RawHit, bool, error) {
	f.mu.Lock()
	f.fetches++
	f.mu.Unlock()

	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}

	if f.failAtPage >= 0 && page == f.failAtPage {
		return nil, false, errors.New("fetch blew up")
	}
	if page >= len(f.pages) {
		return nil, false, nil
	}
	return f.pages[page], page+1 < len(f.pages), nil
}

func hit(url string) source.RawHit {
	return source.RawHit{
		Title:     "Event " + url,
		SourceURL: url,
		StartDate: "2025-02-01",
		EndDate:   "2025-02-02",
	}
}

func newTestOrchestrator(repo *testRepo) *Orchestrator {
	rec := NewReconciler(repo)
	rec.now = func() time.Time { return testNow }
	sw := NewSweeper(repo, logger.NewNop())
	sw.now = func() time.Time { return testNow }
	orc := NewOrchestrator(newTestNormalizer(), rec, sw, logger.NewNop())
	orc.now = func() time.Time { return testNow }
	return orc
}

func fastOpts() Options {
	return Options{MaxPages: 5, PageDelay: time.Millisecond, PageTimeout: time.Second}
}

func summaryFor(t *testing.T, summaries []SourceSummary, name string) SourceSummary {
	t.Helper()
	for _, s := range summaries {
		if s.Source == name {
			return s
		}
	}
	t.Fatalf("no summary for source %s", name)
	return SourceSummary{}
}

func TestRunIngestion_FanOutAndCounts(t *testing.T) {
	repo := newTestRepo()
	orc := newTestOrchestrator(repo)

	orc.Register(newFakeAdapter("whatson",
		[]source.RawHit{hit("w1"), hit("w2")},
		[]source.RawHit{hit("w3")},
	), fastOpts())
	orc.Register(newFakeAdapter("eventfinda",
		[]source.RawHit{hit("e1")},
	), fastOpts())

	summaries := orc.RunIngestion(context.Background())
	if len(summaries) != 2 {
		t.Fatalf("summaries = %d, want 2", len(summaries))
	}

	wo := summaryFor(t, summaries, "whatson")
	if wo.Err != nil {
		t.Fatalf("whatson err: %v", wo.Err)
	}
	if wo.Created != 3 || wo.Updated != 0 {
		t.Fatalf("whatson created=%d updated=%d, want 3/0", wo.Created, wo.Updated)
	}

	ef := summaryFor(t, summaries, "eventfinda")
	if ef.Created != 1 {
		t.Fatalf("eventfinda created=%d, want 1", ef.Created)
	}

	// Segundo ciclo idéntico: todo pasa a updated, nada nuevo.
	summaries = orc.RunIngestion(context.Background())
	wo = summaryFor(t, summaries, "whatson")
	if wo.Created != 0 || wo.Updated != 3 {
		t.Fatalf("second cycle created=%d updated=%d, want 0/3", wo.Created, wo.Updated)
	}
}

func TestRunIngestion_SourceFailureIsIsolated(t *testing.T) {
	repo := newTestRepo()
	orc := newTestOrchestrator(repo)

	broken := newFakeAdapter("whatson", []source.RawHit{hit("w1")})
	broken.failAtPage = 0
	orc.Register(broken, fastOpts())
	orc.Register(newFakeAdapter("eventfinda", []source.RawHit{hit("e1")}), fastOpts())

	summaries := orc.RunIngestion(context.Background())

	if summaryFor(t, summaries, "whatson").Err == nil {
		t.Fatalf("expected whatson failure")
	}
	ef := summaryFor(t, summaries, "eventfinda")
	if ef.Err != nil {
		t.Fatalf("eventfinda must not be affected: %v", ef.Err)
	}
	if ef.Created != 1 {
		t.Fatalf("eventfinda created=%d, want 1", ef.Created)
	}
	if _, err := repo.GetBySourceURL(context.Background(), "e1"); err != nil {
		t.Fatalf("eventfinda record missing: %v", err)
	}
}

func TestRunIngestion_FailedRunSkipsAbsenceSweep(t *testing.T) {
	repo := newTestRepo()
	orc := newTestOrchestrator(repo)

	// Ciclo 1: dos eventos de whatson.
	ok := newFakeAdapter("whatson", []source.RawHit{hit("w1"), hit("w2")})
	orc.Register(ok, fastOpts())
	orc.RunIngestion(context.Background())

	// Ciclo 2: el fetch de la segunda página falla después de ver solo w1.
	// Un run cortado no puede barrer por ausencia: w2 debe quedar como está.
	orc2 := newTestOrchestrator(repo)
	partial := newFakeAdapter("whatson",
		[]source.RawHit{hit("w1")},
		[]source.RawHit{hit("w2")},
	)
	partial.failAtPage = 1
	orc2.Register(partial, fastOpts())

	summaries := orc2.RunIngestion(context.Background())
	sum := summaryFor(t, summaries, "whatson")
	if sum.Err == nil {
		t.Fatalf("expected failure")
	}
	if sum.Retired != 0 {
		t.Fatalf("retired = %d, want 0 on failed run", sum.Retired)
	}

	// Lo ya reconciliado antes del corte queda committeado.
	if got := repo.get(t, "w1").Status; got != catalog.StatusUpdated {
		t.Fatalf("w1 status = %s, want updated", got)
	}
	if got := repo.get(t, "w2").Status; got == catalog.StatusInactive {
		t.Fatalf("w2 must not be retired by an aborted run")
	}
}

func TestRunIngestion_AbsenceSweepAfterCompleteRun(t *testing.T) {
	repo := newTestRepo()

	orc := newTestOrchestrator(repo)
	orc.Register(newFakeAdapter("whatson", []source.RawHit{hit("w1"), hit("w2")}), fastOpts())
	orc.RunIngestion(context.Background())

	// Segundo run completo que ya no ve w2.
	orc2 := newTestOrchestrator(repo)
	orc2.Register(newFakeAdapter("whatson", []source.RawHit{hit("w1")}), fastOpts())
	summaries := orc2.RunIngestion(context.Background())

	if got := summaryFor(t, summaries, "whatson").Retired; got != 1 {
		t.Fatalf("retired = %d, want 1", got)
	}
	if got := repo.get(t, "w2").Status; got != catalog.StatusInactive {
		t.Fatalf("w2 status = %s, want inactive", got)
	}
	if got := repo.get(t, "w1").Status; got != catalog.StatusUpdated {
		t.Fatalf("w1 status = %s, want updated", got)
	}
}

func TestRunIngestion_StorageErrorAbortsRemainingPages(t *testing.T) {
	repo := newTestRepo()
	orc := newTestOrchestrator(repo)

	adapter := newFakeAdapter("whatson",
		[]source.RawHit{hit("w1")},
		[]source.RawHit{hit("w2")},
	)
	orc.Register(adapter, fastOpts())

	repo.failWrites = true
	summaries := orc.RunIngestion(context.Background())

	sum := summaryFor(t, summaries, "whatson")
	if !errors.Is(sum.Err, errStorage) {
		t.Fatalf("err = %v, want storage error", sum.Err)
	}
	// Abortó en la primera página: la segunda nunca se pidió.
	if adapter.fetches != 1 {
		t.Fatalf("fetches = %d, want 1", adapter.fetches)
	}
}

func TestRunIngestion_ConcurrentTriggerCoalesced(t *testing.T) {
	repo := newTestRepo()
	orc := newTestOrchestrator(repo)

	slow := newFakeAdapter("whatson", []source.RawHit{hit("w1")})
	slow.release = make(chan struct{})
	orc.Register(slow, fastOpts())

	firstDone := make(chan []SourceSummary, 1)
	go func() {
		firstDone <- orc.RunIngestion(context.Background())
	}()

	// Esperar a que el primer run esté adentro del fetch.
	deadline := time.After(2 * time.Second)
	for {
		slow.mu.Lock()
		started := slow.fetches > 0
		slow.mu.Unlock()
		if started {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("first run never started fetching")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	// Segundo trigger mientras el primero sigue en vuelo: se colapsa.
	second := orc.RunIngestion(context.Background())
	if got := summaryFor(t, second, "whatson"); !got.Coalesced {
		t.Fatalf("expected coalesced summary, got %+v", got)
	}

	close(slow.release)
	first := <-firstDone
	sum := summaryFor(t, first, "whatson")
	if sum.Coalesced || sum.Err != nil {
		t.Fatalf("first run should complete normally, got %+v", sum)
	}
	if sum.Created != 1 {
		t.Fatalf("created = %d, want 1", sum.Created)
	}
}
