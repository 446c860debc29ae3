package identify

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/realmeta/docent/internal/models"
)

// wireRecord is the raw response schema. Error is a pointer so a JSON null
// (high-confidence success) is distinguishable from an empty message.
type wireRecord struct {
	Title        string               `json:"title"`
	Artist       string               `json:"artist"`
	Year         string               `json:"year"`
	Description  string               `json:"description"`
	Style        string               `json:"style"`
	Context      string               `json:"context"`
	RelatedWorks []models.RelatedWork `json:"related_works"`
	Error        *string              `json:"error"`
}

// parseResponse maps the raw model output to a tagged result. Responses
// wrapped in markdown code fences are unwrapped first.
func parseResponse(raw string) Result {
	cleaned := stripFences(raw)

	var record wireRecord
	if err := json.Unmarshal([]byte(cleaned), &record); err != nil {
		slog.Warn("Identification response is not valid JSON", "err", err)
		return Result{Status: StatusFailed, Message: connectivityFailureMessage}
	}

	if record.Error != nil && *record.Error != "" {
		return Result{Status: StatusUnrecognized, Message: *record.Error}
	}
	if record.Title == "" || record.Title == "Unknown" {
		// Some models signal low confidence through the title alone.
		return Result{Status: StatusUnrecognized, Message: "Artwork not recognized. Please try getting a clearer, more direct shot of the piece."}
	}

	related := record.RelatedWorks
	if related == nil {
		related = []models.RelatedWork{}
	}
	return Result{
		Status: StatusIdentified,
		Artwork: models.Artwork{
			Title:        record.Title,
			Artist:       record.Artist,
			Year:         record.Year,
			Description:  record.Description,
			Style:        record.Style,
			Context:      record.Context,
			RelatedWorks: related,
		},
	}
}

func stripFences(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}
