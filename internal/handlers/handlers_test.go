package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/realmeta/docent/internal/analytics"
	"github.com/realmeta/docent/internal/config"
	"github.com/realmeta/docent/internal/kvstore"
	"github.com/realmeta/docent/internal/models"
)

func testConfig(t *testing.T) config.Config {
	return config.Config{
		ManagerSecret: "admin123",
		Provider:      "gemini",
		UploadsDir:    t.TempDir(),
		StaticDir:     t.TempDir(),
	}
}

func newTestServer(t *testing.T, durable kvstore.Store) (*httptest.Server, *http.Client) {
	t.Helper()

	handler := New(testConfig(t), durable, analytics.NewSink(""))

	mux := http.NewServeMux()
	mux.HandleFunc("/api/identify", handler.HandleIdentify)
	mux.HandleFunc("/api/tours", handler.HandleTours)
	mux.HandleFunc("/api/tours/", handler.HandleTourDetail)
	mux.HandleFunc("/api/tour-images", handler.HandleTourImage)
	mux.HandleFunc("/api/visitor", handler.HandleVisitor)
	mux.HandleFunc("/api/visitor/consent", handler.HandleConsent)
	mux.HandleFunc("/api/manager/login", handler.HandleManagerLogin)
	mux.HandleFunc("/api/state/", handler.HandleState)
	mux.HandleFunc("/api/progress", handler.HandleProgress)
	mux.HandleFunc("/api/events", handler.HandleEvents)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return server, &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestVisitorBootstrap(t *testing.T) {
	durable := kvstore.NewMemory()
	server, client := newTestServer(t, durable)

	resp := doJSON(t, client, "GET", server.URL+"/api/visitor", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var bootstrap struct {
		VisitorID         string `json:"visitor_id"`
		ShowPrivacyBanner bool   `json:"show_privacy_banner"`
		Manager           bool   `json:"manager"`
		View              string `json:"view"`
	}
	decode(t, resp, &bootstrap)

	if !strings.HasPrefix(bootstrap.VisitorID, "visitor_") {
		t.Errorf("Unexpected visitor id %q", bootstrap.VisitorID)
	}
	if !bootstrap.ShowPrivacyBanner {
		t.Error("Privacy banner must show on first load")
	}
	if bootstrap.Manager {
		t.Error("Sessions must not start with the manager capability")
	}
	if bootstrap.View != "scanning" {
		t.Errorf("Expected initial view scanning, got %q", bootstrap.View)
	}

	// Same visitor id on the next bootstrap.
	resp = doJSON(t, client, "GET", server.URL+"/api/visitor", nil)
	var again struct {
		VisitorID string `json:"visitor_id"`
	}
	decode(t, resp, &again)
	if again.VisitorID != bootstrap.VisitorID {
		t.Errorf("Visitor id changed across requests: %q != %q", again.VisitorID, bootstrap.VisitorID)
	}
}

func TestConsentDismissalIsPermanent(t *testing.T) {
	durable := kvstore.NewMemory()
	server, client := newTestServer(t, durable)

	resp := doJSON(t, client, "POST", server.URL+"/api/visitor/consent", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, client, "GET", server.URL+"/api/visitor", nil)
	var bootstrap struct {
		ShowPrivacyBanner bool `json:"show_privacy_banner"`
	}
	decode(t, resp, &bootstrap)
	if bootstrap.ShowPrivacyBanner {
		t.Error("Banner must not show after dismissal")
	}

	// A restart (fresh handler over the same durable store) still honors it.
	restarted, restartedClient := newTestServer(t, durable)
	resp = doJSON(t, restartedClient, "GET", restarted.URL+"/api/visitor", nil)
	decode(t, resp, &bootstrap)
	if bootstrap.ShowPrivacyBanner {
		t.Error("Banner must not reappear across restarts")
	}
}

func TestTourMutationsRequireManager(t *testing.T) {
	server, client := newTestServer(t, kvstore.NewMemory())

	resp := doJSON(t, client, "POST", server.URL+"/api/tours", map[string]string{"title": "x", "description": "y"})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403 for non-manager create, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, client, "DELETE", server.URL+"/api/tours/impressionism_101", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403 for non-manager delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestManagerLogin(t *testing.T) {
	server, client := newTestServer(t, kvstore.NewMemory())

	resp := doJSON(t, client, "POST", server.URL+"/api/manager/login", map[string]string{"password": "wrong"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a wrong password, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, client, "POST", server.URL+"/api/manager/login", map[string]string{"password": "admin123"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for the correct password, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The capability is session-scoped: the bootstrap now reports it.
	resp = doJSON(t, client, "GET", server.URL+"/api/visitor", nil)
	var bootstrap struct {
		Manager bool `json:"manager"`
	}
	decode(t, resp, &bootstrap)
	if !bootstrap.Manager {
		t.Error("Expected the manager capability after login")
	}
}

func TestTourAuthoringFlow(t *testing.T) {
	durable := kvstore.NewMemory()
	server, client := newTestServer(t, durable)

	resp := doJSON(t, client, "POST", server.URL+"/api/manager/login", map[string]string{"password": "admin123"})
	resp.Body.Close()

	// Draft a new tour.
	resp = doJSON(t, client, "POST", server.URL+"/api/tours", map[string]string{
		"title":       "Hidden Gems",
		"description": "Lesser known works worth the walk.",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for draft, got %d", resp.StatusCode)
	}
	var draft models.Tour
	decode(t, resp, &draft)
	if !strings.HasPrefix(draft.ID, "tour_") {
		t.Errorf("Unexpected draft id %q", draft.ID)
	}

	// Rejected save: empty title.
	invalid := draft
	invalid.Title = "  "
	resp = doJSON(t, client, "PUT", server.URL+"/api/tours/"+draft.ID, invalid)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for an empty title, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Valid save with stops.
	draft.Artworks = []models.TourStop{{Title: "The Goldfinch", Story: "A tiny marvel."}}
	resp = doJSON(t, client, "PUT", server.URL+"/api/tours/"+draft.ID, draft)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for save, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, client, "GET", server.URL+"/api/tours/"+draft.ID, nil)
	var saved models.Tour
	decode(t, resp, &saved)
	if len(saved.Artworks) != 1 || saved.Artworks[0].Title != "The Goldfinch" {
		t.Errorf("Saved tour lost its stops: %+v", saved)
	}

	// Delete is final; deleting again is a quiet no-op.
	for i := 0; i < 2; i++ {
		resp = doJSON(t, client, "DELETE", server.URL+"/api/tours/"+draft.ID, nil)
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("Expected 204 for delete, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp = doJSON(t, client, "GET", server.URL+"/api/tours/"+draft.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestSelectTourAndProgress(t *testing.T) {
	server, client := newTestServer(t, kvstore.NewMemory())

	// Selecting requires the tour list view.
	resp := doJSON(t, client, "POST", server.URL+"/api/tours/impressionism_101/select", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("Expected 409 when selecting from the scanner, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, client, "POST", server.URL+"/api/state/tours", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for nav, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, client, "POST", server.URL+"/api/tours/impressionism_101/select", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for select, got %d", resp.StatusCode)
	}
	var selected struct {
		View     string `json:"view"`
		Progress struct {
			Next  *models.TourStop `json:"next"`
			Index int              `json:"index"`
		} `json:"progress"`
	}
	decode(t, resp, &selected)
	if selected.View != "scanning" {
		t.Errorf("Selecting a tour must route to the scanner, got %q", selected.View)
	}
	if selected.Progress.Index != 0 || selected.Progress.Next == nil {
		t.Errorf("Expected the first stop as next, got %+v", selected.Progress)
	}
	if selected.Progress.Next.Title != "Impression, soleil levant" {
		t.Errorf("Unexpected first stop %q", selected.Progress.Next.Title)
	}

	resp = doJSON(t, client, "GET", server.URL+"/api/progress", nil)
	var progress struct {
		ActiveTourID string `json:"active_tour_id"`
		Progress     struct {
			Index int `json:"index"`
		} `json:"progress"`
	}
	decode(t, resp, &progress)
	if progress.ActiveTourID != "impressionism_101" || progress.Progress.Index != 0 {
		t.Errorf("Unexpected progress report: %+v", progress)
	}
}

func TestProgressWithoutActiveTour(t *testing.T) {
	server, client := newTestServer(t, kvstore.NewMemory())

	resp := doJSON(t, client, "GET", server.URL+"/api/progress", nil)
	var progress struct {
		Progress struct {
			Next  *models.TourStop `json:"next"`
			Index int              `json:"index"`
		} `json:"progress"`
	}
	decode(t, resp, &progress)
	if progress.Progress.Next != nil || progress.Progress.Index != 0 {
		t.Errorf("Expected the no-tour progress shape, got %+v", progress.Progress)
	}
}

func TestStateTransitionRejections(t *testing.T) {
	server, client := newTestServer(t, kvstore.NewMemory())

	resp := doJSON(t, client, "POST", server.URL+"/api/state/back", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("Expected 409 for back from the scanner, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, client, "POST", server.URL+"/api/state/edit", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403 for edit without the manager capability, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, client, "POST", server.URL+"/api/state/teleport", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown transition, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestClientEvents(t *testing.T) {
	server, client := newTestServer(t, kvstore.NewMemory())

	resp := doJSON(t, client, "POST", server.URL+"/api/events", map[string]any{
		"event":  "click_related_work",
		"fields": map[string]any{"artwork_title": "Irises"},
	})
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("Expected 202 for a known event, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, client, "POST", server.URL+"/api/events", map[string]any{"event": "made_up"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for an unknown event, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestIdentifyRejectsMissingImage(t *testing.T) {
	server, client := newTestServer(t, kvstore.NewMemory())

	resp := doJSON(t, client, "POST", server.URL+"/api/identify", map[string]string{"image_base64": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for a missing image, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The scan slot was released: the next attempt fails on input, not on
	// the in-flight guard.
	resp = doJSON(t, client, "POST", server.URL+"/api/identify", map[string]string{"image_base64": "!!!"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid base64, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
