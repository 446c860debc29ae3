package models

// RelatedWork is one suggested piece returned alongside an identified artwork
type RelatedWork struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// Artwork is the structured result of one identification. Year is free text
// because attributions are often approximate ("c. 1665"). A non-empty Error
// means identification failed or was low-confidence; the other text fields
// then carry placeholder values only.
type Artwork struct {
	Title        string        `json:"title"`
	Artist       string        `json:"artist"`
	Year         string        `json:"year"`
	Description  string        `json:"description"`
	Style        string        `json:"style"`
	Context      string        `json:"context"`
	RelatedWorks []RelatedWork `json:"related_works"`
	Error        string        `json:"error,omitempty"`
	ScannedImage string        `json:"scanned_image,omitempty"`
}

// TourStop is one entry in a tour's itinerary. Title correlates with
// Artwork.Title by exact, case-sensitive match. Image is an optional
// reference photo attached during authoring.
type TourStop struct {
	Title string `json:"title"`
	Story string `json:"story"`
	Image string `json:"image,omitempty"`
}

// Tour is a curated ordered itinerary of artwork stops. Stop order is
// significant and preserved across persistence round-trips.
type Tour struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Artworks    []TourStop `json:"artworks"`
}
