package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sydney-events/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/events", func(er chi.Router) {
		er.Get("/", listEventsHandler(svc))

		// Acciones de curador (requieren claims).
		er.Patch("/{eventID}/import", importEventHandler(svc))
		er.Post("/import", importBulkHandler(svc))
	})
}

// eventResponse representa un evento del catálogo devuelto por la API.
type eventResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Venue          string     `json:"venue"`
	Address        string     `json:"address"`
	City           string     `json:"city"`
	Description    string     `json:"description"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	NextOccurrence *time.Time `json:"next_occurrence,omitempty"`
	Tags           []string   `json:"tags"`
	ImageURL       string     `json:"image_url"`
	Source         string     `json:"source"`
	SourceURL      string     `json:"source_url"`
	Status         Status     `json:"status"`
	LastSeenAt     time.Time  `json:"last_seen_at"`
	ImportedAt     *time.Time `json:"imported_at,omitempty"`
	ImportedBy     string     `json:"imported_by,omitempty"`
	ImportNotes    string     `json:"import_notes,omitempty"`
}

// importEventRequest es el cuerpo opcional de la acción de importar.
type importEventRequest struct {
	Notes string `json:"notes"`
}

type importBulkRequest struct {
	IDs   []string `json:"ids"`
	Notes string   `json:"notes"`
}

type importBulkResponse struct {
	Imported int               `json:"imported"`
	Failed   map[string]string `json:"failed,omitempty"`
}

// listEventsHandler godoc
// @Summary Listar eventos del catálogo
// @Description Devuelve todos los eventos ordenados por start_date ascendente. Endpoint público: los fallos de ingesta nunca se reflejan acá, solo se ve lo último reconciliado. Permite filtrar por status y source.
// @Tags events
// @Produce json
// @Param status query string false "Filtrar por status (new, updated, imported, inactive)"
// @Param source query string false "Filtrar por source (ej: whatson)"
// @Param limit query int false "Máximo de eventos a devolver (1-500). Por defecto 200"
// @Success 200 {array} eventResponse
// @Failure 400 {string} string "status inválido"
// @Failure 500 {string} string "internal error"
// @Router /events [get]
func listEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ListFilter{Limit: 200}

		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
				filter.Limit = n
			}
		}
		if v := strings.TrimSpace(r.URL.Query().Get("status")); v != "" {
			filter.Status = Status(v)
		}
		if v := strings.TrimSpace(r.URL.Query().Get("source")); v != "" {
			filter.Source = v
		}

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "invalid status filter", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// importEventHandler godoc
// @Summary Importar (promover) un evento
// @Description Marca el evento como imported. Idempotente: importar un evento ya imported es un no-op y conserva imported_at/imported_by originales. Un evento imported no vuelve a new/updated por ingesta. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags events
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param eventID path string true "ID del evento"
// @Param payload body importEventRequest false "Notas del curador (opcional)"
// @Success 200 {object} eventResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "event not found"
// @Failure 500 {string} string "internal error"
// @Router /events/{eventID}/import [patch]
func importEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req importEventRequest
		if r.Body != nil {
			// Body opcional: ignoramos JSON inválido/vacío.
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		e, err := svc.Import(r.Context(), chi.URLParam(r, "eventID"), claims.UserID, req.Notes)
		if err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
				http.Error(w, "event not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

// importBulkHandler godoc
// @Summary Importar eventos en bloque
// @Description Variante en bloque de la acción de importar: aplica la misma semántica idempotente a cada id; no aborta el lote ante un id inexistente. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags events
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body importBulkRequest true "IDs a importar y notas opcionales"
// @Success 200 {object} importBulkResponse
// @Failure 400 {string} string "invalid json / ids vacío"
// @Failure 401 {string} string "unauthorized"
// @Router /events/import [post]
func importBulkHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req importBulkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if len(req.IDs) == 0 {
			http.Error(w, "ids required", http.StatusBadRequest)
			return
		}

		imported, failed := svc.ImportBulk(r.Context(), req.IDs, claims.UserID, req.Notes)

		resp := importBulkResponse{Imported: imported}
		if len(failed) > 0 {
			resp.Failed = make(map[string]string, len(failed))
			for id, err := range failed {
				resp.Failed[id] = err.Error()
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func toEventResponse(e Event) eventResponse {
	return eventResponse{
		ID:             e.ID,
		Title:          e.Title,
		Venue:          e.Venue,
		Address:        e.Address,
		City:           e.City,
		Description:    e.Description,
		StartDate:      e.StartDate,
		EndDate:        e.EndDate,
		NextOccurrence: e.NextOccurrence,
		Tags:           e.Tags,
		ImageURL:       e.ImageURL,
		Source:         e.Source,
		SourceURL:      e.SourceURL,
		Status:         e.Status,
		LastSeenAt:     e.LastSeenAt,
		ImportedAt:     e.ImportedAt,
		ImportedBy:     e.ImportedBy,
		ImportNotes:    e.ImportNotes,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
