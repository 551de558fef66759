package source

import "context"

// Adapter es el contrato que consume la ingesta. Cada adapter es dueño de
// todo el parsing específico de su sitio/API y entrega observaciones crudas
// en la forma uniforme (aunque rala) de RawHit.
type Adapter interface {
	Name() string

	// FetchPage devuelve las observaciones de una página (0-based) y si hay
	// más páginas por pedir. El ctx acota la operación completa de la página.
	FetchPage(ctx context.Context, page int) (hits []RawHit, hasMore bool, err error)
}

// RawHit es una observación cruda de un evento. Casi todos los campos son
// opcionales: cada source llena los que tiene y el normalizador aplica las
// cadenas de fallback. Las fechas van como string (RFC3339 o YYYY-MM-DD).
type RawHit struct {
	Title string

	// SourceURL es el identificador canónico por source (URL/slug estable).
	SourceURL string

	StartDate string
	EndDate   string
	LastDate  string
	Dates     []string
	Upcoming  string

	LocationName string
	VenueName    string
	SuburbName   string

	Strapline   string
	Excerpt     string
	Description string

	HeroImageURL string
	TileImageURL string
	ImageURL     string

	Categories []string
	Tags       []string
}
