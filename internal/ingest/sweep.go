package ingest

import (
	"context"
	"time"

	"sydney-events/internal/domain/catalog"
	"sydney-events/internal/platform/logger"
)

// Sweeper aplica las dos reglas de retiro. Ambas son updates condicionales
// en bloque sobre registros no-inactive: solo setean status=inactive (más el
// timestamp de toque), nunca lo revierten ni tocan otros campos.
type Sweeper struct {
	repo catalog.Repository
	log  logger.Logger
	now  func() time.Time
}

func NewSweeper(repo catalog.Repository, log logger.Logger) *Sweeper {
	return &Sweeper{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// SweepAbsent corre la regla de ausencia para un source, inmediatamente
// después de que su ingesta completó: retira lo que el run no volvió a ver,
// o lo que ya terminó. Acotada al source: nunca toca registros de otro, así
// un source caído no retira el catálogo ajeno.
func (s *Sweeper) SweepAbsent(ctx context.Context, sourceName string, seen *SeenSet) (int64, error) {
	retired, err := s.repo.MarkInactiveMissing(ctx, sourceName, seen.URLs(), s.now())
	if err != nil {
		s.log.Error("absence sweep failed", map[string]any{"source": sourceName, "err": err.Error()})
		return 0, err
	}
	if retired > 0 {
		s.log.Info("absence sweep retired events", map[string]any{"source": sourceName, "retired": retired})
	}
	return retired, nil
}

// SweepExpired corre la regla global por tiempo sobre todo el catálogo, en
// su propio período, independiente de cualquier ingesta. Es el único camino
// por el que un imported con su ventana de actividad agotada pasa a inactive.
func (s *Sweeper) SweepExpired(ctx context.Context) (int64, error) {
	retired, err := s.repo.MarkInactiveExpired(ctx, s.now())
	if err != nil {
		s.log.Error("global sweep failed", map[string]any{"err": err.Error()})
		return 0, err
	}
	s.log.Info("global sweep finished", map[string]any{"retired": retired})
	return retired, nil
}
