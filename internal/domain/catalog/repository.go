package catalog

import (
	"context"
	"time"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (Event, error)
	GetBySourceURL(ctx context.Context, sourceURL string) (Event, error)
	Insert(ctx context.Context, e Event) error
	Update(ctx context.Context, e Event) error
	List(ctx context.Context, filter ListFilter) ([]Event, error)

	// Import marca un evento como imported (idempotente a nivel storage:
	// si ya estaba imported no toca nada).
	Import(ctx context.Context, id, by, notes string, now time.Time) error

	// MarkInactiveMissing: regla de ausencia, acotada a un source. Marca
	// inactive todo registro del source cuyo SourceURL no esté en seen,
	// o cuyo EndDate ya pasó. Update condicional en bloque.
	MarkInactiveMissing(ctx context.Context, source string, seen []string, now time.Time) (int64, error)

	// MarkInactiveExpired: regla global por tiempo, sobre todo el catálogo.
	// Marca inactive lo no-inactive con StartDate pasado, EndDate pasado y
	// NextOccurrence ausente o pasado. Único camino por el que un imported
	// puede volverse inactive.
	MarkInactiveExpired(ctx context.Context, now time.Time) (int64, error)
}

type ListFilter struct {
	Status Status
	Source string
	Limit  int
}
