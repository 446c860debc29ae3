package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/realmeta/docent/internal/analytics"
)

// HandleManagerLogin checks the shared secret and grants the session the
// manager capability. No lockout, no rate limit.
func (h *Handler) HandleManagerLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if !h.gate.Authenticate(request.Password) {
		http.Error(w, "Incorrect password.", http.StatusUnauthorized)
		return
	}

	sess := h.session(w, r)
	sess.GrantManager()
	h.track(analytics.EventManagerLogin, nil)
	h.writeJSON(w, map[string]any{"manager": true})
}
