// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"staysip/internal/app"
	"staysip/internal/domain"
)

type Handlers struct{ Q *app.QueryService }

// Guidance strings shown in place of empty result sets.
const (
	noticeNoResults     = "No results. Try broadening filters."
	noticeNoLocations   = "No locations to show."
	noticeNoItineraries = "Add itineraries in data/itineraries.json"
)

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/lakes", h.lakes)
	s.mux.Get("/v1/stays", h.stays)
	s.mux.Get("/v1/wineries", h.wineries)
	s.mux.Get("/v1/attractions", h.attractions)
	s.mux.Get("/v1/venues", h.venues)
	s.mux.Get("/v1/itineraries", h.itineraries)
	s.mux.Get("/v1/itineraries/{id}", h.itinerary)
	s.mux.Get("/v1/map", h.mapPoints)
	s.mux.Get("/v1/status", h.status)
	s.mux.Post("/v1/refresh", h.refresh)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON emits v with a weak ETag and honors If-None-Match.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func (h *Handlers) lakes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, struct {
		Lakes []string `json:"lakes"`
	}{h.Q.Lakes()})
}

func (h *Handlers) stays(w http.ResponseWriter, r *http.Request) {
	q := domain.StayQuery{
		Region: r.URL.Query().Get("lake"),
		Type:   r.URL.Query().Get("type"),
	}
	if raw := r.URL.Query().Get("max_price"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid max_price", "max_price must be a non-negative number")
			return
		}
		q.MaxPrice = &f
	}

	out, err := h.Q.Stays(r.Context(), q)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Query Failed", err.Error())
		return
	}
	resp := struct {
		domain.StayResult
		Notice string `json:"notice,omitempty"`
	}{StayResult: out}
	if len(out.Items) == 0 {
		resp.Notice = noticeNoResults
	}
	writeJSON(w, r, resp)
}

func (h *Handlers) wineries(w http.ResponseWriter, r *http.Request) {
	q := domain.WineryQuery{Region: r.URL.Query().Get("lake")}
	if raw := r.URL.Query().Get("tastings"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid tastings", "tastings must be a boolean")
			return
		}
		q.TastingOnly = b
	}

	out, err := h.Q.Wineries(r.Context(), q)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Query Failed", err.Error())
		return
	}
	resp := struct {
		domain.WineryResult
		Notice string `json:"notice,omitempty"`
	}{WineryResult: out}
	if len(out.Items) == 0 {
		resp.Notice = noticeNoResults
	}
	writeJSON(w, r, resp)
}

func (h *Handlers) attractions(w http.ResponseWriter, r *http.Request) {
	q := domain.AttractionQuery{
		Region:   r.URL.Query().Get("lake"),
		Category: r.URL.Query().Get("category"),
	}

	out, err := h.Q.Attractions(r.Context(), q)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Query Failed", err.Error())
		return
	}
	resp := struct {
		domain.AttractionResult
		Notice string `json:"notice,omitempty"`
	}{AttractionResult: out}
	if len(out.Items) == 0 {
		resp.Notice = noticeNoResults
	}
	writeJSON(w, r, resp)
}

func (h *Handlers) venues(w http.ResponseWriter, r *http.Request) {
	q := domain.VenueQuery{Region: r.URL.Query().Get("lake")}
	if raw := r.URL.Query().Get("min_capacity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid min_capacity", "min_capacity must be a non-negative integer")
			return
		}
		q.MinCapacity = &n
	}

	out, err := h.Q.Venues(r.Context(), q)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Query Failed", err.Error())
		return
	}
	resp := struct {
		domain.VenueResult
		Notice string `json:"notice,omitempty"`
	}{VenueResult: out}
	if len(out.Items) == 0 {
		resp.Notice = noticeNoResults
	}
	writeJSON(w, r, resp)
}

func (h *Handlers) itineraries(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Itineraries(r.Context(), domain.ItineraryQuery{Region: r.URL.Query().Get("lake")})
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Query Failed", err.Error())
		return
	}
	resp := struct {
		domain.ItineraryResult
		Notice string `json:"notice,omitempty"`
	}{ItineraryResult: out}
	if len(out.Items) == 0 {
		resp.Notice = noticeNoItineraries
	}
	writeJSON(w, r, resp)
}

func (h *Handlers) itinerary(w http.ResponseWriter, r *http.Request) {
	v, err := h.Q.Itinerary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "itinerary not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Query Failed", err.Error())
		return
	}
	writeJSON(w, r, v)
}

func (h *Handlers) mapPoints(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Map(r.Context(), domain.MapQuery{Region: r.URL.Query().Get("lake")})
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Query Failed", err.Error())
		return
	}
	resp := struct {
		domain.MapResult
		Notice string `json:"notice,omitempty"`
	}{MapResult: out}
	if !out.HasLocations {
		resp.Notice = noticeNoLocations
	}
	writeJSON(w, r, resp)
}

func (h *Handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.Q.Status())
}

func (h *Handlers) refresh(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Q.Refresh(r.Context()); err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "Refresh Failed", err.Error())
		return
	}
	st := h.Q.Status()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(st); err != nil {
		log.Error().Err(err).Msg("write refresh response failed")
	}
}
