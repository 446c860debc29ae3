package handlers

import (
	"net/http"

	"github.com/realmeta/docent/internal/analytics"
)

// HandleVisitor bootstraps the client: visitor id, whether the privacy
// banner should show, the manager flag, and the current view.
func (h *Handler) HandleVisitor(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := h.session(w, r)
	visitorID, err := h.visitors.ID()
	if err != nil {
		h.writeError(w, "Failed to resolve visitor identity: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if sess.MarkStarted() {
		h.track(analytics.EventSessionStart, nil)
	}

	h.writeJSON(w, map[string]any{
		"visitor_id":          visitorID,
		"show_privacy_banner": !h.visitors.ConsentAcknowledged(),
		"manager":             sess.Manager(),
		"view":                sess.View(),
		"active_tour_id":      sess.ActiveTourID(),
	})
}

// HandleConsent permanently dismisses the privacy banner.
func (h *Handler) HandleConsent(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.visitors.AcknowledgeConsent(); err != nil {
		h.writeError(w, "Failed to record consent: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
