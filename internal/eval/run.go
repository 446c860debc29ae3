package eval

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/realmeta/docent/internal/identify"
)

// Result is the outcome for one labeled artwork.
type Result struct {
	Identifier       string `yaml:"identifier"`
	ExpectedTitle    string `yaml:"expectedtitle"`
	ExpectedArtist   string `yaml:"expectedartist,omitempty"`
	IdentifiedTitle  string `yaml:"identifiedtitle"`
	IdentifiedArtist string `yaml:"identifiedartist,omitempty"`
	TitleExact       bool   `yaml:"titleexact"`
	TitleNormalized  bool   `yaml:"titlenormalized"`
	ArtistMatch      bool   `yaml:"artistmatch"`
	Error            string `yaml:"error,omitempty"`
}

// Runner drives identifications over a dataset.
type Runner struct {
	service *identify.Service
}

func NewRunner(service *identify.Service) *Runner {
	return &Runner{service: service}
}

// Run identifies up to sampleSize records and scores the attributions.
// Title matching is scored twice: exact (the contract the tour progress
// engine uses) and normalized (trimmed, case-folded) so the report shows
// how much the exact-match contract costs.
func (r *Runner) Run(ctx context.Context, records []LabeledArtwork, sampleSize int) []Result {
	if sampleSize > 0 && sampleSize < len(records) {
		records = records[:sampleSize]
	}

	results := make([]Result, 0, len(records))
	for i, record := range records {
		if err := ctx.Err(); err != nil {
			slog.Warn("Evaluation interrupted", "completed", len(results))
			break
		}

		result := Result{
			Identifier:     record.Identifier,
			ExpectedTitle:  record.ExpectedTitle,
			ExpectedArtist: record.ExpectedArtist,
		}

		imageData, err := os.ReadFile(record.ImagePath)
		if err != nil {
			result.Error = "failed to read image: " + err.Error()
			results = append(results, result)
			continue
		}

		outcome := r.service.Identify(ctx, imageData)
		switch outcome.Status {
		case identify.StatusIdentified:
			result.IdentifiedTitle = outcome.Artwork.Title
			result.IdentifiedArtist = outcome.Artwork.Artist
			result.TitleExact = outcome.Artwork.Title == record.ExpectedTitle
			result.TitleNormalized = normalize(outcome.Artwork.Title) == normalize(record.ExpectedTitle)
			result.ArtistMatch = normalize(outcome.Artwork.Artist) == normalize(record.ExpectedArtist)
		case identify.StatusUnrecognized:
			result.IdentifiedTitle = "Unknown"
		default:
			result.Error = outcome.Message
		}

		results = append(results, result)
		slog.Info("Evaluated record", "index", i+1, "total", len(records), "identifier", record.Identifier, "title_exact", result.TitleExact)
	}
	return results
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
