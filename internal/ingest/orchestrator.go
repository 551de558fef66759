package ingest

import (
	"context"
	"sync"
	"time"

	"sydney-events/internal/platform/logger"
	"sydney-events/internal/ports/source"
)

// Defaults del loop de paginación. Configurables por source vía Options.
const (
	DefaultMaxPages    = 5
	DefaultPageDelay   = 200 * time.Millisecond
	DefaultPageTimeout = 60 * time.Second
)

// SourceSummary es el resultado por source de un ciclo de ingesta. Un ciclo
// nunca es todo-o-nada: cada source reporta lo suyo.
type SourceSummary struct {
	Source    string
	Created   int
	Updated   int
	Skipped   int
	Retired   int64
	Coalesced bool
	Err       error
}

// Options ajusta el loop de paginación de un source registrado.
type Options struct {
	MaxPages    int
	PageDelay   time.Duration
	PageTimeout time.Duration
}

func (o Options) normalized() Options {
	if o.MaxPages <= 0 {
		o.MaxPages = DefaultMaxPages
	}
	if o.PageDelay <= 0 {
		o.PageDelay = DefaultPageDelay
	}
	if o.PageTimeout <= 0 {
		o.PageTimeout = DefaultPageTimeout
	}
	return o
}

type registeredSource struct {
	adapter source.Adapter
	opts    Options
}

// Orchestrator dispara ciclos de ingesta: fan-out concurrente a todos los
// adapters con aislamiento de fallas por source, y el sweep de ausencia de
// cada source al terminar su run. El trigger agendado y el manual entran por
// el mismo RunIngestion; no hay diferencia de efecto.
type Orchestrator struct {
	normalizer *Normalizer
	reconciler *Reconciler
	sweeper    *Sweeper
	log        logger.Logger
	now        func() time.Time

	mu      sync.Mutex
	sources []registeredSource
	running map[string]bool
}

func NewOrchestrator(n *Normalizer, r *Reconciler, s *Sweeper, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		normalizer: n,
		reconciler: r,
		sweeper:    s,
		log:        log,
		now:        time.Now,
		running:    make(map[string]bool),
	}
}

func (o *Orchestrator) Register(a source.Adapter, opts Options) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sources = append(o.sources, registeredSource{adapter: a, opts: opts.normalized()})
}

// RunIngestion corre un ciclo completo: todos los sources en paralelo, cada
// uno secuencial por dentro (página -> normalizar -> reconciliar -> sweep de
// ausencia). Devuelve el resumen por source; el error de un source jamás
// aborta a los demás.
func (o *Orchestrator) RunIngestion(ctx context.Context) []SourceSummary {
	o.mu.Lock()
	srcs := make([]registeredSource, len(o.sources))
	copy(srcs, o.sources)
	o.mu.Unlock()

	summaries := make([]SourceSummary, len(srcs))

	var wg sync.WaitGroup
	for i, rs := range srcs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			summaries[i] = o.runSource(ctx, rs)
		}()
	}
	wg.Wait()

	for _, sum := range summaries {
		fields := map[string]any{
			"source":  sum.Source,
			"created": sum.Created,
			"updated": sum.Updated,
			"skipped": sum.Skipped,
			"retired": sum.Retired,
		}
		switch {
		case sum.Coalesced:
			o.log.Warn("ingestion trigger coalesced, source already running", map[string]any{"source": sum.Source})
		case sum.Err != nil:
			fields["err"] = sum.Err.Error()
			o.log.Error("source ingestion failed", fields)
		default:
			o.log.Info("source ingestion finished", fields)
		}
	}

	return summaries
}

// runSource ejecuta el run de un source bajo su guard de exclusión mutua:
// un segundo trigger mientras el run sigue en vuelo se colapsa a no-op, no
// se encola.
func (o *Orchestrator) runSource(ctx context.Context, rs registeredSource) SourceSummary {
	name := rs.adapter.Name()
	sum := SourceSummary{Source: name}

	o.mu.Lock()
	if o.running[name] {
		o.mu.Unlock()
		sum.Coalesced = true
		return sum
	}
	o.running[name] = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.running[name] = false
		o.mu.Unlock()
	}()

	seen := NewSeenSet()

	for page := 0; page < rs.opts.MaxPages; page++ {
		pageCtx, cancel := context.WithTimeout(ctx, rs.opts.PageTimeout)
		hits, hasMore, err := rs.adapter.FetchPage(pageCtx, page)
		cancel()
		if err != nil {
			// Falla de fetch/parse: termina el run temprano. Lo ya
			// reconciliado queda committeado; el próximo ciclo es el retry.
			sum.Err = err
			return sum
		}

		for _, hit := range hits {
			ev, ok := o.normalizer.Normalize(hit, name, o.now())
			if !ok {
				sum.Skipped++
				continue
			}

			outcome, err := o.reconciler.Reconcile(ctx, ev, seen)
			if err != nil {
				// Error de storage: aborta las páginas restantes del source.
				sum.Err = err
				return sum
			}
			switch outcome {
			case OutcomeCreated:
				sum.Created++
			case OutcomeUpdated:
				sum.Updated++
			case OutcomeDuplicate:
				sum.Skipped++
			}
		}

		if !hasMore {
			break
		}

		// Pausa entre páginas para no castigar al sitio.
		select {
		case <-ctx.Done():
			sum.Err = ctx.Err()
			return sum
		case <-time.After(rs.opts.PageDelay):
		}
	}

	// Sweep de ausencia solo tras un run completo: un run cortado a mitad
	// no puede afirmar que lo no visto desapareció del source.
	retired, err := o.sweeper.SweepAbsent(ctx, name, seen)
	if err != nil {
		sum.Err = err
		return sum
	}
	sum.Retired = retired

	return sum
}
