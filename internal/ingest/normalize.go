package ingest

import (
	"strings"
	"time"

	"sydney-events/internal/domain/catalog"
	"sydney-events/internal/ports/source"
)

// Defaults de normalización. PlaceholderImage y HomeCity pueden pisarse por
// config al construir el Normalizer.
const (
	DefaultHomeCity         = "Sydney"
	DefaultRegion           = "NSW"
	DefaultPlaceholderImage = "https://images.unsplash.com/photo-1506973035872-a4ec16b8e8d9?w=800"
	DefaultDescription      = "View details on website."
)

// Normalizer convierte una observación cruda en la forma canónica del
// catálogo. Es la única frontera de traducción: nada fuera de este paquete
// inspecciona shapes específicos de un source.
type Normalizer struct {
	HomeCity         string
	Region           string
	PlaceholderImage string
}

func NewNormalizer(homeCity, region, placeholderImage string) *Normalizer {
	n := &Normalizer{
		HomeCity:         strings.TrimSpace(homeCity),
		Region:           strings.TrimSpace(region),
		PlaceholderImage: strings.TrimSpace(placeholderImage),
	}
	if n.HomeCity == "" {
		n.HomeCity = DefaultHomeCity
	}
	if n.Region == "" {
		n.Region = DefaultRegion
	}
	if n.PlaceholderImage == "" {
		n.PlaceholderImage = DefaultPlaceholderImage
	}
	return n
}

// Normalize aplica las cadenas de fallback y devuelve (evento, true), o
// (zero, false) si la observación se descarta: título o URL faltante, o
// serie terminada antes de hoy. Descartar nunca es un error.
func (n *Normalizer) Normalize(hit source.RawHit, sourceName string, now time.Time) (catalog.Event, bool) {
	title := strings.TrimSpace(hit.Title)
	sourceURL := strings.TrimSpace(hit.SourceURL)
	if title == "" || sourceURL == "" {
		return catalog.Event{}, false
	}

	start, end := deriveDates(hit, now)

	// Filtro de eventos pasados: si la serie terminó antes del comienzo del
	// día actual, la observación no aporta ni create ni update (y no entra
	// al seen-set del run; de retirarla se encarga la regla global).
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if end.Before(today) {
		return catalog.Event{}, false
	}

	e := catalog.Event{
		Title:       title,
		StartDate:   start,
		EndDate:     end,
		Venue:       firstNonEmpty(hit.LocationName, hit.VenueName, n.HomeCity),
		City:        n.HomeCity,
		Description: firstNonEmpty(hit.Strapline, hit.Excerpt, hit.Description, DefaultDescription),
		ImageURL:    firstNonEmpty(hit.HeroImageURL, hit.TileImageURL, hit.ImageURL, n.PlaceholderImage),
		Source:      sourceName,
		SourceURL:   sourceURL,
	}

	// Dirección: "{suburb}, {region}" si hay sub-localidad, si no el default.
	if suburb := strings.TrimSpace(hit.SuburbName); suburb != "" {
		e.Address = suburb + ", " + n.Region
	} else {
		e.Address = n.HomeCity + ", " + n.Region
	}

	// Tags: concatenación de categorías + tags, en orden. No se dedupea acá.
	if len(hit.Categories) > 0 || len(hit.Tags) > 0 {
		e.Tags = make([]string, 0, len(hit.Categories)+len(hit.Tags))
		e.Tags = append(e.Tags, hit.Categories...)
		e.Tags = append(e.Tags, hit.Tags...)
	}

	// NextOccurrence: campo "upcoming" si vino, si no el start derivado.
	if t, ok := parseDate(hit.Upcoming); ok {
		e.NextOccurrence = &t
	} else {
		next := start
		e.NextOccurrence = &next
	}

	return e, true
}

// deriveDates resuelve start/end con sus cadenas de fallback y aplica el
// clamp end >= start.
func deriveDates(hit source.RawHit, now time.Time) (start, end time.Time) {
	// Start: campo explícito > mínimo de dates[] > upcoming > now.
	if t, ok := parseDate(hit.StartDate); ok {
		start = t
	} else if t, ok := earliest(hit.Dates); ok {
		start = t
	} else if t, ok := parseDate(hit.Upcoming); ok {
		start = t
	} else {
		start = now
	}

	// End: explícito end/last > máximo de dates[] > upcoming > start.
	if t, ok := parseDate(hit.EndDate); ok {
		end = t
	} else if t, ok := parseDate(hit.LastDate); ok {
		end = t
	} else if t, ok := latest(hit.Dates); ok {
		end = t
	} else if t, ok := parseDate(hit.Upcoming); ok {
		end = t
	} else {
		end = start
	}

	if end.Before(start) {
		end = start
	}
	return start, end
}

func earliest(dates []string) (time.Time, bool) {
	var best time.Time
	found := false
	for _, d := range dates {
		t, ok := parseDate(d)
		if !ok {
			continue
		}
		if !found || t.Before(best) {
			best = t
			found = true
		}
	}
	return best, found
}

func latest(dates []string) (time.Time, bool) {
	var best time.Time
	found := false
	for _, d := range dates {
		t, ok := parseDate(d)
		if !ok {
			continue
		}
		if !found || t.After(best) {
			best = t
			found = true
		}
	}
	return best, found
}

// parseDate acepta RFC3339 o fecha plana YYYY-MM-DD.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
