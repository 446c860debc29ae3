package tours

import "github.com/realmeta/docent/internal/models"

// Progress describes what a visitor on a tour should do next. Next is nil
// once the last stop has been scanned; Index counts completed stops, so
// Index == len(tour.Artworks) signals a finished tour.
type Progress struct {
	Next  *models.TourStop `json:"next"`
	Index int              `json:"index"`
}

// ComputeProgress is a pure function of the active tour and the most
// recently identified title. Matching is an exact, case-sensitive title
// comparison with the first match winning; an empty lastIdentifiedTitle
// means nothing has been scanned yet. It is total: no input errors.
func ComputeProgress(tour *models.Tour, lastIdentifiedTitle string) Progress {
	if tour == nil {
		return Progress{Index: 0}
	}

	match := -1
	if lastIdentifiedTitle != "" {
		for i, stop := range tour.Artworks {
			if stop.Title == lastIdentifiedTitle {
				match = i
				break
			}
		}
	}

	switch {
	case match == -1:
		if len(tour.Artworks) == 0 {
			return Progress{Index: 0}
		}
		next := tour.Artworks[0]
		return Progress{Next: &next, Index: 0}
	case match == len(tour.Artworks)-1:
		return Progress{Index: len(tour.Artworks)}
	default:
		next := tour.Artworks[match+1]
		return Progress{Next: &next, Index: match + 1}
	}
}
