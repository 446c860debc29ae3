package handlers

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// HandleTourImage stores a reference photo for a tour stop, either uploaded
// directly or downloaded from a URL, and returns the path the stop should
// carry. Manager-gated: reference images only exist for authoring.
func (h *Handler) HandleTourImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := h.session(w, r)
	if !sess.Manager() {
		h.writeError(w, "Manager capability required", http.StatusForbidden)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		h.handleImageURL(w, r)
		return
	}
	h.handleImageFile(w, r)
}

func (h *Handler) handleImageURL(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.ImageURL == "" {
		h.writeError(w, "image_url is required", http.StatusBadRequest)
		return
	}

	imageData, err := h.downloadImage(request.ImageURL)
	if err != nil {
		h.writeError(w, "Failed to process image URL: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Keep the source extension when the URL has one.
	parts := strings.Split(request.ImageURL, "/")
	filename := parts[len(parts)-1]
	if filename == "" {
		filename = "image.jpg"
	}

	imagePath, err := h.saveImage(imageData, filename)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	slog.Info("Stored tour image from URL", "url", request.ImageURL, "path", imagePath)
	h.writeJSON(w, map[string]any{"image": imagePath, "source": "url"})
}

func (h *Handler) handleImageFile(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(imageData) >= maxImageBytes {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return
	}

	imagePath, err := h.saveImage(imageData, header.Filename)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	slog.Info("Stored uploaded tour image", "filename", header.Filename, "path", imagePath)
	h.writeJSON(w, map[string]any{"image": imagePath})
}

// saveImage writes the image under the uploads dir with an MD5-derived name
// so re-uploads of the same photo dedupe naturally.
func (h *Handler) saveImage(imageData []byte, filename string) (string, error) {
	if err := os.MkdirAll(h.cfg.UploadsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	sum := md5.Sum(imageData)
	imageFilename := hex.EncodeToString(sum[:]) + filepath.Ext(filename)
	imageFilePath := filepath.Join(h.cfg.UploadsDir, imageFilename)

	if err := os.WriteFile(imageFilePath, imageData, 0644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return "/static/uploads/" + imageFilename, nil
}

func (h *Handler) downloadImage(imageURL string) ([]byte, error) {
	resp, err := http.Get(imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return imageData, nil
}
