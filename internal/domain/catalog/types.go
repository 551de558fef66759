package catalog

type Status string

const (
	// StatusNew: primera vez que la observamos en un scrape.
	StatusNew Status = "new"
	// StatusUpdated: re-observada en un scrape posterior.
	StatusUpdated Status = "updated"
	// StatusImported: promovida manualmente por un curador. Pegajoso frente a ingesta.
	StatusImported Status = "imported"
	// StatusInactive: retirada por el sweeper (ausencia o fechas vencidas).
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusUpdated, StatusImported, StatusInactive:
		return true
	default:
		return false
	}
}
