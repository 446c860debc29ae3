// Package handlers implements the companion's JSON API and static frontend.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/realmeta/docent/internal/analytics"
	"github.com/realmeta/docent/internal/config"
	"github.com/realmeta/docent/internal/identify"
	"github.com/realmeta/docent/internal/kvstore"
	"github.com/realmeta/docent/internal/manager"
	"github.com/realmeta/docent/internal/session"
	"github.com/realmeta/docent/internal/tours"
	"github.com/realmeta/docent/internal/visitor"
)

const sessionCookie = "docent_session"

type Handler struct {
	cfg       config.Config
	sessions  *session.Store
	visitors  *visitor.Manager
	catalog   *tours.Catalog
	gate      *manager.Gate
	identify  *identify.Service
	analytics *analytics.Sink
}

// New wires the companion services over the durable store and loads the
// tour catalog, seeding it when nothing has been persisted.
func New(cfg config.Config, durable kvstore.Store, sink *analytics.Sink) *Handler {
	h := &Handler{
		cfg:       cfg,
		sessions:  session.NewStore(),
		visitors:  visitor.NewManager(durable),
		catalog:   tours.NewCatalog(durable),
		gate:      manager.NewGate(cfg.ManagerSecret),
		identify:  identify.NewService(cfg.Provider, cfg.Model),
		analytics: sink,
	}

	seed := tours.SeedTours()
	if cfg.ToursSeedPath != "" {
		fileSeed, err := tours.LoadSeedFile(cfg.ToursSeedPath)
		if err != nil {
			slog.Warn("Failed to load tour seed file, using built-in seeds", "path", cfg.ToursSeedPath, "err", err)
		} else {
			seed = fileSeed
		}
	}
	h.catalog.Load(seed)

	return h
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// session returns the state for the request's browser session, creating one
// and setting the session cookie when needed. The cookie carries no Max-Age
// so it ends with the browser session.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if sess, exists := h.sessions.Get(cookie.Value); exists {
			return sess
		}
	}

	sess := h.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// track emits an analytics event with the visitor id attached. Failures
// never reach the caller.
func (h *Handler) track(name analytics.EventName, fields map[string]any) {
	visitorID, err := h.visitors.ID()
	if err != nil {
		slog.Warn("Failed to resolve visitor id for analytics", "err", err)
	}
	h.analytics.Track(name, visitorID, fields)
}
