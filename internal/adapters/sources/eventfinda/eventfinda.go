package eventfinda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sydney-events/internal/config"
	"sydney-events/internal/ports/source"

	"github.com/chromedp/chromedp"
)

const Name = "eventfinda"

// extractScript corre en la página de listados y junta las cards de eventos
// de un solo día. Las de rango de fechas se saltean: este source solo
// levanta eventos de un día.
const extractScript = `(() => {
	const items = [];
	const cards = document.querySelectorAll('.listing-item, .card, .event-card');

	cards.forEach(card => {
		const titleEl = card.querySelector('.title a, h2 a, h3 a');
		if (!titleEl) return;

		const dateEl = card.querySelector('.dates, .time, .event-date');
		const dateText = dateEl ? dateEl.innerText.toLowerCase() : '';
		if (dateText.includes('–') || dateText.includes('-') ||
			dateText.includes('to') || dateText.includes('multiple')) return;

		let imageUrl = '';
		const imgEl = card.querySelector('img');
		if (imgEl) imageUrl = imgEl.getAttribute('data-src') || imgEl.src;

		const venueEl = card.querySelector('.location, .venue');

		items.push({
			title: titleEl.innerText.trim(),
			url: titleEl.href,
			image: imageUrl,
			venue: venueEl ? venueEl.innerText.trim() : '',
		});
	});

	return items;
})()`

type listingItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Image string `json:"image"`
	Venue string `json:"venue"`
}

// Adapter scrapea el listado de EventFinda con Chromium headless. El sitio
// arma las cards por JS, así que no alcanza con un GET plano.
type Adapter struct {
	listingURL string
	now        func() time.Time
}

func New(cfg config.EventFindaConfig) *Adapter {
	return &Adapter{
		listingURL: strings.TrimRight(cfg.ListingURL, "/"),
		now:        time.Now,
	}
}

func (a *Adapter) Name() string { return Name }

func (a *Adapter) FetchPage(ctx context.Context, page int) ([]source.RawHit, bool, error) {
	// Paginación del sitio: 1-based, /page/N a partir de la segunda.
	url := a.listingURL
	if page > 0 {
		url = fmt.Sprintf("%s/page/%d", a.listingURL, page+1)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
	)...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var items []listingItem
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		// Scroll para disparar el lazy-load de imágenes y cards.
		chromedp.Evaluate(`window.scrollBy(0, 1000)`, nil),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.Evaluate(extractScript, &items),
	)
	if err != nil {
		return nil, false, fmt.Errorf("eventfinda: page %d: %w", page, err)
	}

	if len(items) == 0 {
		return nil, false, nil
	}

	// Este source no expone fechas utilizables en el listado: estampamos
	// start = end = now como placeholder grueso asumido de este adapter.
	today := a.now().Format(time.RFC3339)

	hits := make([]source.RawHit, 0, len(items))
	for _, it := range items {
		hits = append(hits, source.RawHit{
			Title:       it.Title,
			SourceURL:   it.URL,
			StartDate:   today,
			EndDate:     today,
			VenueName:   it.Venue,
			ImageURL:    it.Image,
			Description: describeVenue(it.Venue),
		})
	}

	return hits, true, nil
}

func describeVenue(venue string) string {
	venue = strings.TrimSpace(venue)
	if venue == "" {
		return "Details on EventFinda."
	}
	return "Event at " + venue + ". Details on EventFinda."
}
