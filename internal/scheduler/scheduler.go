package scheduler

import (
	"context"
	"fmt"

	"sydney-events/internal/ingest"
	"sydney-events/internal/platform/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler agenda los dos períodos independientes: el ciclo de ingesta
// (que incluye los sweeps de ausencia por source) y el sweep global por
// tiempo. El trigger manual de la API entra por el mismo RunIngestion, así
// que ambos caminos son equivalentes.
type Scheduler struct {
	c   *cron.Cron
	log logger.Logger
}

func New(ctx context.Context, orc *ingest.Orchestrator, sw *ingest.Sweeper, ingestCron, sweepCron string, log logger.Logger) (*Scheduler, error) {
	c := cron.New()

	if _, err := c.AddFunc(ingestCron, func() {
		log.Info("scheduled ingestion cycle starting", nil)
		orc.RunIngestion(ctx)
	}); err != nil {
		return nil, fmt.Errorf("scheduler: ingest cron %q: %w", ingestCron, err)
	}

	if _, err := c.AddFunc(sweepCron, func() {
		// Errores ya logueados por el sweeper; acá no hay a quién reportar.
		_, _ = sw.SweepExpired(ctx)
	}); err != nil {
		return nil, fmt.Errorf("scheduler: sweep cron %q: %w", sweepCron, err)
	}

	return &Scheduler{c: c, log: log}, nil
}

func (s *Scheduler) Start() {
	s.log.Info("scheduler started", nil)
	s.c.Start()
}

// Stop frena el cron y espera a que los jobs en vuelo terminen.
func (s *Scheduler) Stop() {
	ctx := s.c.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped", nil)
}
