// Package handler is the thin HTTP glue over the network service. It
// carries no simulation logic.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"netpulse/internal/hub"
	"netpulse/internal/metrics"
	"netpulse/internal/service"
	"netpulse/internal/topology"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ErrorResponse is the JSON error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NetworkHandler handles network state API requests
type NetworkHandler struct {
	svc *service.NetworkService
}

// NewNetworkHandler creates a new network handler
func NewNetworkHandler(svc *service.NetworkService) *NetworkHandler {
	return &NetworkHandler{svc: svc}
}

// NewRouter assembles the API routes
func NewRouter(svc *service.NetworkService, sseHub *hub.Hub, reg *metrics.Registry) http.Handler {
	h := NewNetworkHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Route("/api/networks", func(r chi.Router) {
		r.Get("/", h.ListNetworks)
		r.Get("/{id}", h.GetSnapshot)
		r.Get("/{id}/update", h.GetUpdate)
	})
	r.Handle("/api/events", sseHub)
	r.Get("/healthz", h.Health)
	if reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg.Gatherer(), promhttp.HandlerOpts{}))
	}

	return r
}

// ListNetworks returns the ids with live state
func (h *NetworkHandler) ListNetworks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"networks": h.svc.Networks(),
	})
}

// GetSnapshot returns the complete recomputed state of a network
func (h *NetworkHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	data, err := h.svc.GetSnapshot(r.Context(), id)
	if err != nil {
		writeError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// GetUpdate returns the sparse diff since the previous snapshot
func (h *NetworkHandler) GetUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, err := h.svc.GetUpdate(r.Context(), id)
	if err != nil {
		writeError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Health reports liveness
func (h *NetworkHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, topology.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "network not found",
			Details: id,
		})
		return
	}
	log.Printf("Request for network %s failed: %v", id, err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "internal error",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
