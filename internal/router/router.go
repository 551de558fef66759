package router

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	mem "sydney-events/internal/adapters/storage/memory"
	pg "sydney-events/internal/adapters/storage/postgres"
	"sydney-events/internal/domain/catalog"
	"sydney-events/internal/domain/leads"
	"sydney-events/internal/ingest"
	"sydney-events/internal/middleware"
	"sydney-events/internal/ports/auth"

	_ "sydney-events/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.Verifier // puede ser nil (modo dev)

	// Opcional: si viene, habilita el trigger manual POST /scrape.
	Orchestrator *ingest.Orchestrator
}

// Repos construye los repositorios según haya DB o no. Expuesto para que
// main comparta los mismos repos entre router e ingesta.
type Repos struct {
	Catalog catalog.Repository
	Leads   leads.Repository
}

func NewRepos(db *sql.DB) Repos {
	if db != nil {
		return Repos{
			Catalog: pg.NewCatalogRepo(db),
			Leads:   pg.NewLeadsRepo(db),
		}
	}
	return Repos{
		Catalog: mem.NewCatalogRepo(),
		Leads:   mem.NewLeadsRepo(),
	}
}

func New(opts Options, repos Repos) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Services por módulo
	catalogSvc := catalog.NewService(repos.Catalog)
	leadsSvc := leads.NewService(repos.Leads)

	// Rutas por módulo
	catalog.RegisterRoutes(r, catalogSvc)
	leads.RegisterRoutes(r, leadsSvc)

	if opts.Orchestrator != nil {
		r.Post("/scrape", scrapeHandler(opts.Orchestrator))
	}

	return r
}

type scrapeSourceResult struct {
	Source    string `json:"source"`
	Created   int    `json:"created"`
	Updated   int    `json:"updated"`
	Skipped   int    `json:"skipped"`
	Retired   int64  `json:"retired"`
	Coalesced bool   `json:"coalesced,omitempty"`
	Error     string `json:"error,omitempty"`
}

// scrapeHandler godoc
// @Summary Disparar un ciclo de ingesta
// @Description Trigger manual del mismo RunIngestion que corre el cron: fan-out concurrente a todos los sources con fallas aisladas. Devuelve el resumen best-effort por source; solo responde error si ningún source pudo alcanzarse. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags ingest
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} scrapeSourceResult
// @Failure 401 {string} string "unauthorized"
// @Failure 502 {string} string "no source could be reached"
// @Router /scrape [post]
func scrapeHandler(orc *ingest.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		summaries := orc.RunIngestion(r.Context())

		out := make([]scrapeSourceResult, 0, len(summaries))
		allFailed := len(summaries) > 0
		for _, s := range summaries {
			res := scrapeSourceResult{
				Source:    s.Source,
				Created:   s.Created,
				Updated:   s.Updated,
				Skipped:   s.Skipped,
				Retired:   s.Retired,
				Coalesced: s.Coalesced,
			}
			if s.Err != nil {
				res.Error = s.Err.Error()
			} else {
				allFailed = false
			}
			out = append(out, res)
		}

		status := http.StatusOK
		if allFailed {
			// Resumen best-effort salvo que literalmente ningún source
			// haya respondido.
			status = http.StatusBadGateway
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(out)
	}
}
