package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/realmeta/docent/internal/analytics"
	"github.com/realmeta/docent/internal/models"
	"github.com/realmeta/docent/internal/tours"
)

// HandleTours serves the tour list and, for managers, drafts new tours.
func (h *Handler) HandleTours(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		h.writeJSON(w, h.catalog.List())
	case "POST":
		sess := h.session(w, r)
		if !sess.Manager() {
			h.writeError(w, "Manager capability required", http.StatusForbidden)
			return
		}
		var request struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		// A draft is not part of the catalog until it is saved.
		h.writeJSON(w, h.catalog.Create(request.Title, request.Description))
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleTourDetail routes /api/tours/{id} and /api/tours/{id}/select.
func (h *Handler) HandleTourDetail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/tours/")
	tourID, action, _ := strings.Cut(rest, "/")
	if tourID == "" {
		h.writeError(w, "Tour id is required", http.StatusBadRequest)
		return
	}

	if action == "select" {
		h.handleSelectTour(w, r, tourID)
		return
	}
	if action != "" {
		h.writeError(w, "Not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case "GET":
		tour, exists := h.catalog.Get(tourID)
		if !exists {
			h.writeError(w, "Tour not found", http.StatusNotFound)
			return
		}
		h.writeJSON(w, tour)
	case "PUT":
		h.handleSaveTour(w, r, tourID)
	case "DELETE":
		h.handleDeleteTour(w, r, tourID)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleSaveTour(w http.ResponseWriter, r *http.Request, tourID string) {
	sess := h.session(w, r)
	if !sess.Manager() {
		h.writeError(w, "Manager capability required", http.StatusForbidden)
		return
	}

	var tour models.Tour
	if err := json.NewDecoder(r.Body).Decode(&tour); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	tour.ID = tourID

	_, existed := h.catalog.Get(tourID)
	if err := h.catalog.Save(tour); err != nil {
		if errors.Is(err, tours.ErrEmptyTitle) || errors.Is(err, tours.ErrEmptyDescription) {
			h.writeError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.writeError(w, "Failed to save tour: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if existed {
		h.track(analytics.EventTourUpdated, map[string]any{"tour_id": tourID})
	} else {
		h.track(analytics.EventTourCreated, map[string]any{"tour_id": tourID})
	}
	h.writeJSON(w, tour)
}

// handleDeleteTour removes a tour. The irreversible-delete confirmation is
// a frontend concern; by the time the request lands here it is final.
func (h *Handler) handleDeleteTour(w http.ResponseWriter, r *http.Request, tourID string) {
	sess := h.session(w, r)
	if !sess.Manager() {
		h.writeError(w, "Manager capability required", http.StatusForbidden)
		return
	}

	if err := h.catalog.Delete(tourID); err != nil {
		h.writeError(w, "Failed to delete tour: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.track(analytics.EventTourDeleted, map[string]any{"tour_id": tourID})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSelectTour(w http.ResponseWriter, r *http.Request, tourID string) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tour, exists := h.catalog.Get(tourID)
	if !exists {
		h.writeError(w, "Tour not found", http.StatusNotFound)
		return
	}

	sess := h.session(w, r)
	if err := sess.SelectTour(tourID); err != nil {
		h.writeError(w, "Tours can only be selected from the tour list", http.StatusConflict)
		return
	}

	h.track(analytics.EventTourSelected, map[string]any{"tour_id": tourID})
	progress := tours.ComputeProgress(&tour, "")
	h.writeJSON(w, map[string]any{
		"view":     sess.View(),
		"tour":     tour,
		"progress": progress,
	})
}
