package catalog

import "time"

// Event es el registro canónico del catálogo. SourceURL es la identidad
// de deduplicación: única e inmutable después del insert.
type Event struct {
	ID string

	Title       string
	Venue       string
	Address     string
	City        string
	Description string

	// StartDate: inicio conocido más temprano de la serie.
	// EndDate: fin de la serie completa; invariante EndDate >= StartDate.
	StartDate time.Time
	EndDate   time.Time

	// NextOccurrence: próxima función de un evento recurrente. Si está
	// presente, manda sobre EndDate para decidir si el registro sigue vigente.
	NextOccurrence *time.Time

	Tags     []string
	ImageURL string

	Source    string
	SourceURL string

	Status Status

	LastSeenAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Solo se setean al pasar a imported.
	ImportedAt  *time.Time
	ImportedBy  string
	ImportNotes string
}

// Active indica si el evento sigue vigente en el instante dado:
// NextOccurrence si existe, si no EndDate.
func (e Event) Active(now time.Time) bool {
	if e.NextOccurrence != nil {
		return !e.NextOccurrence.Before(now)
	}
	return !e.EndDate.Before(now)
}
