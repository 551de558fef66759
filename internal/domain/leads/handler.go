package leads

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
	r.Route("/leads", func(lr chi.Router) {
		lr.Post("/", createLeadHandler(svc))
		lr.Get("/", listLeadsHandler(svc))
	})
}

// createLeadRequest es el cuerpo de la captura de contacto.
type createLeadRequest struct {
	Email   string `json:"email"`
	Consent bool   `json:"consent"`
	EventID string `json:"event_id"`
}

// leadResponse representa una captura guardada.
type leadResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Consent   bool      `json:"consent"`
	EventID   string    `json:"event_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// createLeadHandler godoc
// @Summary Capturar un lead
// @Description Guarda una captura de contacto (email + consentimiento explícito), opcionalmente referida a un evento. Append-only: no hay edición ni borrado. Endpoint público.
// @Tags leads
// @Accept json
// @Produce json
// @Param payload body createLeadRequest true "Email, consentimiento y event_id opcional"
// @Success 201 {object} leadResponse
// @Failure 400 {string} string "invalid json / email o consentimiento faltante"
// @Router /leads [post]
func createLeadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createLeadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		l, err := svc.Create(r.Context(), CreateInput{
			Email:   req.Email,
			Consent: req.Consent,
			EventID: req.EventID,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "email and consent are required", http.StatusBadRequest)
				return
			}
			http.Error(w, "failed to save lead", http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toLeadResponse(l))
	}
}

// listLeadsHandler godoc
// @Summary Listar leads capturados
// @Description Lista las capturas de contacto, más recientes primero. Requiere claims. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags leads
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param limit query int false "Máximo de leads a devolver (1-500). Por defecto 100"
// @Success 200 {array} leadResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /leads [get]
func listLeadsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		limit := 100
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}

		items, err := svc.List(r.Context(), limit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]leadResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toLeadResponse(l))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toLeadResponse(l Lead) leadResponse {
	return leadResponse{
		ID:        l.ID,
		Email:     l.Email,
		Consent:   l.Consent,
		EventID:   l.EventID,
		CreatedAt: l.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
