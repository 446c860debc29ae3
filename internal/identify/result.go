package identify

import "github.com/realmeta/docent/internal/models"

// Status tags the outcome of one identification so the two failure modes
// are explicit instead of riding on a nullable sentinel field.
type Status int

const (
	// StatusIdentified means the service recognized the artwork with
	// confidence and the Artwork field is fully populated.
	StatusIdentified Status = iota
	// StatusUnrecognized means the service responded but could not identify
	// the subject; Message carries guidance for the visitor.
	StatusUnrecognized
	// StatusFailed means the call itself failed (connectivity, provider
	// error, or a safety/policy rejection); Message says which.
	StatusFailed
)

// Result is the outcome of one identification request.
type Result struct {
	Status  Status
	Artwork models.Artwork
	Message string
}

// WireRecord renders the result as the artwork record the frontend
// consumes, synthesizing the "Unknown" and "Error" placeholder records for
// the non-success outcomes.
func (r Result) WireRecord(scannedImage string) models.Artwork {
	switch r.Status {
	case StatusIdentified:
		artwork := r.Artwork
		artwork.ScannedImage = scannedImage
		if artwork.RelatedWorks == nil {
			artwork.RelatedWorks = []models.RelatedWork{}
		}
		return artwork
	case StatusUnrecognized:
		return models.Artwork{
			Title:        "Unknown",
			RelatedWorks: []models.RelatedWork{},
			Error:        r.Message,
			ScannedImage: scannedImage,
		}
	default:
		return models.Artwork{
			Title:        "Error",
			RelatedWorks: []models.RelatedWork{},
			Error:        r.Message,
			ScannedImage: scannedImage,
		}
	}
}
