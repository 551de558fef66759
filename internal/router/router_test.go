package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sydney-events/internal/domain/catalog"
	"sydney-events/internal/ingest"
	"sydney-events/internal/platform/logger"
	"sydney-events/internal/ports/source"
	"sydney-events/internal/router"

	"github.com/google/uuid"
)

func TestHTTP_EndToEnd_CatalogAndImport(t *testing.T) {
	repos := router.NewRepos(nil)
	ts := httptest.NewServer(router.New(router.Options{AuthVerifier: nil}, repos))
	defer ts.Close()

	curatorID := "curator-1"
	now := time.Now().UTC()

	// 1) Semilla: dos eventos vigentes directo en el repo (la API no crea
	//    eventos, solo la ingesta).
	earlier := seedCatalogEvent(t, repos.Catalog, "https://example.org/a", "Vivid Lights", now.AddDate(0, 0, 2))
	later := seedCatalogEvent(t, repos.Catalog, "https://example.org/b", "Harbour Run", now.AddDate(0, 0, 9))

	// 2) Listado público, sin headers, ordenado por start_date ascendente
	{
		st, body := doReq(t, ts.URL, "GET", "/events", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list events, got %d body=%s", st, string(body))
		}
		var resp []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("unmarshal list: %v body=%s", err, string(body))
		}
		if len(resp) != 2 {
			t.Fatalf("expected 2 events, got %d", len(resp))
		}
		if resp[0].ID != earlier || resp[1].ID != later {
			t.Fatalf("wrong order: got %s, %s", resp[0].ID, resp[1].ID)
		}
	}

	// 3) Importar sin claims => 401
	{
		st, _ := doReq(t, ts.URL, "PATCH", "/events/"+earlier+"/import", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 import without claims, got %d", st)
		}
	}

	// 4) Importar con claims => imported + audit trail
	{
		st, body := doReq(t, ts.URL, "PATCH", "/events/"+earlier+"/import", curatorID, map[string]any{
			"notes": "front page pick",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 import, got %d body=%s", st, string(body))
		}
		var resp struct {
			Status      string `json:"status"`
			ImportedBy  string `json:"imported_by"`
			ImportNotes string `json:"import_notes"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Status != "imported" || resp.ImportedBy != curatorID {
			t.Fatalf("import response = %+v body=%s", resp, string(body))
		}
	}

	// 5) Reimportar es idempotente: conserva el curador original
	{
		st, body := doReq(t, ts.URL, "PATCH", "/events/"+earlier+"/import", "someone-else", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 re-import, got %d body=%s", st, string(body))
		}
		var resp struct {
			ImportedBy string `json:"imported_by"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.ImportedBy != curatorID {
			t.Fatalf("re-import overwrote curator: %q", resp.ImportedBy)
		}
	}

	// 6) Filtro por status
	{
		st, body := doReq(t, ts.URL, "GET", "/events?status=imported", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 filtered list, got %d body=%s", st, string(body))
		}
		var resp []struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp) != 1 || resp[0].ID != earlier {
			t.Fatalf("filtered list = %+v", resp)
		}
	}

	// 7) Status desconocido => 400
	{
		st, _ := doReq(t, ts.URL, "GET", "/events?status=bogus", "", nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for bogus status, got %d", st)
		}
	}

	// 8) Importar un id inexistente => 404
	{
		st, _ := doReq(t, ts.URL, "PATCH", "/events/nope/import", curatorID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for unknown id, got %d", st)
		}
	}

	// 9) Import en bloque: uno ok, uno inexistente, no aborta el lote
	{
		st, body := doReq(t, ts.URL, "POST", "/events/import", curatorID, map[string]any{
			"ids": []string{later, "missing"},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 bulk import, got %d body=%s", st, string(body))
		}
		var resp struct {
			Imported int               `json:"imported"`
			Failed   map[string]string `json:"failed"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Imported != 1 {
			t.Fatalf("bulk imported = %d body=%s", resp.Imported, string(body))
		}
		if _, ok := resp.Failed["missing"]; !ok {
			t.Fatalf("bulk failed map = %v", resp.Failed)
		}
	}
}

func TestHTTP_Leads(t *testing.T) {
	repos := router.NewRepos(nil)
	ts := httptest.NewServer(router.New(router.Options{AuthVerifier: nil}, repos))
	defer ts.Close()

	// 1) Captura pública
	{
		st, body := doReq(t, ts.URL, "POST", "/leads", "", map[string]any{
			"email":   "ana@example.org",
			"consent": true,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create lead, got %d body=%s", st, string(body))
		}
	}

	// 2) Sin consentimiento => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/leads", "", map[string]any{
			"email":   "ana@example.org",
			"consent": false,
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 without consent, got %d", st)
		}
	}

	// 3) Listado requiere claims
	{
		st, _ := doReq(t, ts.URL, "GET", "/leads", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 list leads without claims, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/leads", "curator-1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list leads, got %d body=%s", st, string(body))
		}
		var resp []struct {
			Email string `json:"email"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp) != 1 || resp[0].Email != "ana@example.org" {
			t.Fatalf("leads list = %+v", resp)
		}
	}
}

type scriptedAdapter struct {
	name string
	hits []source.RawHit
}

func (a scriptedAdapter) Name() string { return a.name }

func (a scriptedAdapter) FetchPage(ctx context.Context, page int) ([]source.RawHit, bool, error) {
	if page > 0 {
		return nil, false, nil
	}
	return a.hits, false, nil
}

func TestHTTP_ScrapeTrigger(t *testing.T) {
	repos := router.NewRepos(nil)

	log := logger.NewNop()
	norm := ingest.NewNormalizer("Sydney", "NSW", "https://img.example/placeholder.jpg")
	orc := ingest.NewOrchestrator(norm, ingest.NewReconciler(repos.Catalog), ingest.NewSweeper(repos.Catalog, log), log)
	orc.Register(scriptedAdapter{
		name: "whatson",
		hits: []source.RawHit{{
			Title:     "Night Noodle Markets",
			SourceURL: "https://example.org/noodles",
			StartDate: time.Now().UTC().AddDate(0, 0, 1).Format(time.RFC3339),
		}},
	}, ingest.Options{MaxPages: 1})

	ts := httptest.NewServer(router.New(router.Options{AuthVerifier: nil, Orchestrator: orc}, repos))
	defer ts.Close()

	// 1) Sin claims => 401
	{
		st, _ := doReq(t, ts.URL, "POST", "/scrape", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 scrape without claims, got %d", st)
		}
	}

	// 2) Trigger manual => resumen por source
	{
		st, body := doReq(t, ts.URL, "POST", "/scrape", "curator-1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 scrape, got %d body=%s", st, string(body))
		}
		var resp []struct {
			Source  string `json:"source"`
			Created int    `json:"created"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp) != 1 || resp[0].Source != "whatson" || resp[0].Created != 1 {
			t.Fatalf("scrape summary = %+v body=%s", resp, string(body))
		}
	}

	// 3) El evento ingerido aparece en el catálogo
	{
		st, body := doReq(t, ts.URL, "GET", "/events", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list, got %d body=%s", st, string(body))
		}
		var resp []struct {
			SourceURL string `json:"source_url"`
			Status    string `json:"status"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp) != 1 || resp[0].SourceURL != "https://example.org/noodles" || resp[0].Status != "new" {
			t.Fatalf("catalog after scrape = %+v", resp)
		}
	}
}

func TestHTTP_Health(t *testing.T) {
	ts := httptest.NewServer(router.New(router.Options{}, router.NewRepos(nil)))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("health = %d %q", st, string(body))
	}
}

func seedCatalogEvent(t *testing.T, repo catalog.Repository, sourceURL, title string, start time.Time) string {
	t.Helper()

	id := uuid.NewString()
	err := repo.Insert(context.Background(), catalog.Event{
		ID:         id,
		Title:      title,
		City:       "Sydney",
		StartDate:  start,
		EndDate:    start.Add(4 * time.Hour),
		Source:     "whatson",
		SourceURL:  sourceURL,
		Status:     catalog.StatusNew,
		LastSeenAt: start,
		CreatedAt:  start,
		UpdatedAt:  start,
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return id
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
