package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/realmeta/docent/internal/analytics"
	"github.com/realmeta/docent/internal/tours"
)

// HandleState applies a view transition: /api/state/{back|scan|tours|edit|done}.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := h.session(w, r)
	transition := strings.TrimPrefix(r.URL.Path, "/api/state/")

	var err error
	switch transition {
	case "back":
		err = sess.Back()
	case "scan":
		err = sess.NavScan()
	case "tours":
		err = sess.NavTours()
	case "edit":
		if !sess.Manager() {
			h.writeError(w, "Manager capability required", http.StatusForbidden)
			return
		}
		err = sess.BeginEditing()
	case "done":
		err = sess.FinishEditing()
	default:
		h.writeError(w, "Unknown transition: "+transition, http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, "Transition not allowed from the current view", http.StatusConflict)
		return
	}

	h.writeJSON(w, map[string]any{
		"view":           sess.View(),
		"active_tour_id": sess.ActiveTourID(),
	})
}

// HandleProgress reports tour progress for the session's active tour. With
// no active tour it reports the no-tour shape: next null, index 0.
func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := h.session(w, r)
	response := map[string]any{
		"active_tour_id": sess.ActiveTourID(),
	}
	if progress, ok := h.activeProgress(sess); ok {
		tour, _ := h.catalog.Get(sess.ActiveTourID())
		response["tour"] = tour
		response["progress"] = progress
		response["complete"] = progress.Next == nil && progress.Index == len(tour.Artworks) && len(tour.Artworks) > 0
	} else {
		response["progress"] = tours.ComputeProgress(nil, sess.LastIdentifiedTitle())
	}
	h.writeJSON(w, response)
}

// HandleEvents accepts client-originated analytics events, validated
// against the closed event-name set.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Event  string         `json:"event"`
		Fields map[string]any `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !analytics.ValidName(request.Event) {
		h.writeError(w, "Unknown event name: "+request.Event, http.StatusBadRequest)
		return
	}

	// Asking for a session ensures the cookie exists before tracking.
	_ = h.session(w, r)
	h.track(analytics.EventName(request.Event), request.Fields)
	w.WriteHeader(http.StatusAccepted)
}
