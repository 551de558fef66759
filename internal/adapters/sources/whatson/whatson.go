package whatson

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"sydney-events/internal/config"
	"sydney-events/internal/platform/httpclient"
	"sydney-events/internal/ports/source"
)

const Name = "whatson"

const eventURLPrefix = "https://whatson.cityofsydney.nsw.gov.au/events/"

// Adapter consulta el índice de búsqueda del sitio WhatsOn (API estilo
// Algolia multi-query). Credenciales y endpoint vienen inyectados por
// config, nunca hardcodeados acá.
type Adapter struct {
	http *httpclient.Client

	appID       string
	apiKey      string
	index       string
	baseURL     string
	hitsPerPage int
}

func New(cfg config.WhatsOnConfig, hc *httpclient.Client) *Adapter {
	if hc == nil {
		hc = httpclient.New(0)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s-dsn.algolia.net", cfg.AppID)
	}

	hitsPerPage := cfg.HitsPerPage
	if hitsPerPage <= 0 {
		hitsPerPage = 100
	}

	return &Adapter{
		http:        hc,
		appID:       cfg.AppID,
		apiKey:      cfg.APIKey,
		index:       cfg.Index,
		baseURL:     baseURL,
		hitsPerPage: hitsPerPage,
	}
}

func (a *Adapter) Name() string { return Name }

type queryRequest struct {
	Requests []queryEntry `json:"requests"`
}

type queryEntry struct {
	IndexName string `json:"indexName"`
	Params    string `json:"params"`
}

type queryResponse struct {
	Results []queryResult `json:"results"`
}

type queryResult struct {
	Hits    []rawHit `json:"hits"`
	NbPages int      `json:"nbPages"`
}

// rawHit es el shape del índice; acá se aplana a source.RawHit y nada fuera
// de este adapter vuelve a verlo.
type rawHit struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Type     string `json:"type"`
	StartStr string `json:"start_date"`
	EndStr   string `json:"end_date"`
	LastStr  string `json:"last_date"`

	Dates        []string `json:"dates"`
	UpcomingDate string   `json:"upcomingDate"`

	LocationName string `json:"locationName"`
	VenueName    string `json:"venueName"`
	SuburbName   string `json:"suburbName"`

	Strapline   string `json:"strapline"`
	Excerpt     string `json:"excerpt"`
	Description string `json:"description"`

	HeroImage struct {
		URL string `json:"url"`
	} `json:"heroImage"`
	TileImageCloudinary []struct {
		URL       string `json:"url"`
		SecureURL string `json:"secure_url"`
	} `json:"tileImageCloudinary"`
	Image struct {
		URL string `json:"url"`
	} `json:"image"`

	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}

func (a *Adapter) FetchPage(ctx context.Context, page int) ([]source.RawHit, bool, error) {
	params := url.Values{}
	params.Set("query", "")
	params.Set("hitsPerPage", strconv.Itoa(a.hitsPerPage))
	params.Set("page", strconv.Itoa(page))
	params.Set("filters", "type:Event")

	req := queryRequest{
		Requests: []queryEntry{{
			IndexName: a.index,
			Params:    params.Encode(),
		}},
	}

	var resp queryResponse
	err := a.http.PostJSON(ctx, a.baseURL+"/1/indexes/*/queries", map[string]string{
		"X-Algolia-Application-Id": a.appID,
		"X-Algolia-API-Key":        a.apiKey,
	}, req, &resp)
	if err != nil {
		return nil, false, fmt.Errorf("whatson: query page %d: %w", page, err)
	}

	if len(resp.Results) == 0 {
		return nil, false, nil
	}
	result := resp.Results[0]
	if len(result.Hits) == 0 {
		return nil, false, nil
	}

	hits := make([]source.RawHit, 0, len(result.Hits))
	for _, h := range result.Hits {
		hits = append(hits, h.flatten())
	}

	hasMore := page+1 < result.NbPages
	return hits, hasMore, nil
}

func (h rawHit) flatten() source.RawHit {
	out := source.RawHit{
		Title:        firstNonEmpty(h.Name, h.Title),
		StartDate:    h.StartStr,
		EndDate:      h.EndStr,
		LastDate:     h.LastStr,
		Dates:        h.Dates,
		Upcoming:     h.UpcomingDate,
		LocationName: h.LocationName,
		VenueName:    h.VenueName,
		SuburbName:   h.SuburbName,
		Strapline:    h.Strapline,
		Excerpt:      h.Excerpt,
		Description:  h.Description,
		HeroImageURL: h.HeroImage.URL,
		Categories:   h.Categories,
		Tags:         h.Tags,
	}

	if h.Slug != "" {
		out.SourceURL = eventURLPrefix + h.Slug
	}

	// La imagen de tile suele ser la de mejor calidad después del hero.
	if len(h.TileImageCloudinary) > 0 {
		out.TileImageURL = firstNonEmpty(h.TileImageCloudinary[0].URL, h.TileImageCloudinary[0].SecureURL)
	}
	out.ImageURL = h.Image.URL

	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
