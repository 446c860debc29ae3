package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/realmeta/docent/internal/analytics"
	"github.com/realmeta/docent/internal/identify"
	"github.com/realmeta/docent/internal/models"
	"github.com/realmeta/docent/internal/session"
	"github.com/realmeta/docent/internal/tours"
)

const maxImageBytes = 10 * 1024 * 1024

type identifyResponse struct {
	Artwork  models.Artwork  `json:"artwork"`
	Stale    bool            `json:"stale,omitempty"`
	Progress *tours.Progress `json:"progress,omitempty"`
}

// HandleIdentify accepts one captured frame and runs the identification.
// At most one identification runs per session; a second capture while one
// is in flight is rejected so the client can keep its button disabled.
func (h *Handler) HandleIdentify(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := h.session(w, r)
	seq, err := sess.BeginScan()
	if errors.Is(err, session.ErrScanInFlight) {
		h.writeError(w, "An identification is already in progress", http.StatusConflict)
		return
	}
	if err != nil {
		h.writeError(w, "Scanning is only available from the scanner screen", http.StatusConflict)
		return
	}

	imageData, err := h.readScanImage(r)
	if err != nil {
		// Release the scan slot; nothing was sent to the service.
		sess.CompleteScan(seq, nil)
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.track(analytics.EventScanInitiated, nil)

	result := h.identify.Identify(r.Context(), imageData)
	scannedImage := base64.StdEncoding.EncodeToString(imageData)
	record := result.WireRecord(scannedImage)

	applied := true
	if result.Status == identify.StatusIdentified {
		h.track(analytics.EventScanSuccess, map[string]any{"artwork_title": record.Title})
		applied = sess.CompleteScan(seq, &record)
	} else {
		h.track(analytics.EventScanFailed, map[string]any{"error": record.Error})
		applied = sess.CompleteScan(seq, nil)
	}

	response := identifyResponse{Artwork: record, Stale: !applied}
	if applied && result.Status == identify.StatusIdentified {
		if progress, ok := h.activeProgress(sess); ok {
			response.Progress = progress
		}
	}
	h.writeJSON(w, response)
}

// activeProgress computes tour progress for the session's active tour.
func (h *Handler) activeProgress(sess *session.Session) (*tours.Progress, bool) {
	tourID := sess.ActiveTourID()
	if tourID == "" {
		return nil, false
	}
	tour, exists := h.catalog.Get(tourID)
	if !exists {
		// Tour was deleted while active; behaves as no tour running.
		return nil, false
	}
	progress := tours.ComputeProgress(&tour, sess.LastIdentifiedTitle())
	return &progress, true
}

// readScanImage extracts the captured JPEG from either a multipart form or
// a JSON body with a base64 payload, capped at 10MB.
func (h *Handler) readScanImage(r *http.Request) ([]byte, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var request struct {
			ImageBase64 string `json:"image_base64"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, maxImageBytes*2)).Decode(&request); err != nil {
			return nil, errors.New("Invalid JSON: " + err.Error())
		}
		if request.ImageBase64 == "" {
			return nil, errors.New("image_base64 is required")
		}
		data, err := base64.StdEncoding.DecodeString(request.ImageBase64)
		if err != nil {
			return nil, errors.New("image_base64 is not valid base64")
		}
		if len(data) >= maxImageBytes {
			return nil, errors.New("Image too large (max 10MB)")
		}
		return data, nil
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		file, _, err = r.FormFile("files")
		if err != nil {
			return nil, errors.New("Failed to read file: " + err.Error())
		}
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		return nil, errors.New("Failed to read file contents: " + err.Error())
	}
	if len(data) >= maxImageBytes {
		return nil, errors.New("Image too large (max 10MB)")
	}
	return data, nil
}
