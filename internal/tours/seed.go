package tours

import (
	"fmt"
	"os"

	"github.com/realmeta/docent/internal/models"
	"gopkg.in/yaml.v3"
)

// SeedTours returns the built-in catalog used when nothing has been
// persisted yet and no seed file is configured.
func SeedTours() []models.Tour {
	return []models.Tour{
		{
			ID:          "impressionism_101",
			Title:       "A Journey into Impressionism",
			Description: "Discover the revolutionary artists who captured light and movement, changing the course of art history.",
			Artworks: []models.TourStop{
				{
					Title: "Impression, soleil levant",
					Story: "Start your journey with the painting that gave Impressionism its name. Look for the hazy sunrise and the quick brushstrokes.",
				},
				{
					Title: "Bal du moulin de la Galette",
					Story: "Next, immerse yourself in a lively Parisian scene. Notice how Renoir captures the fleeting joy and dappled sunlight.",
				},
				{
					Title: "The Water Lily Pond",
					Story: "Conclude your tour with Monet's iconic masterpiece. Reflect on how he abstracts nature into pure color and light.",
				},
			},
		},
		{
			ID:          "dutch_masters",
			Title:       "The Dutch Golden Age",
			Description: "Explore the masterful use of light, detail, and realism from the 17th-century Dutch masters.",
			Artworks: []models.TourStop{
				{
					Title: "The Night Watch",
					Story: "Begin with Rembrandt's dramatic and energetic group portrait. It's a masterclass in composition and chiaroscuro.",
				},
				{
					Title: "The Milkmaid",
					Story: "Observe Vermeer's quiet domestic scene. The detail in the light hitting the bread and milk is extraordinary.",
				},
				{
					Title: "The Girl with a Pearl Earring",
					Story: "End with the enigmatic gaze of this famous tronie. Who is she? What is she thinking? The mystery is part of its charm.",
				},
			},
		},
	}
}

type seedFile struct {
	Tours []seedTour `yaml:"tours"`
}

type seedTour struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Artworks    []seedStop `yaml:"artworks"`
}

type seedStop struct {
	Title string `yaml:"title"`
	Story string `yaml:"story"`
	Image string `yaml:"image"`
}

// LoadSeedFile reads a YAML seed catalog. Museums deploy their own catalog
// this way instead of patching the built-in seeds.
func LoadSeedFile(path string) ([]models.Tour, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	seeds := make([]models.Tour, 0, len(file.Tours))
	for _, tour := range file.Tours {
		stops := make([]models.TourStop, 0, len(tour.Artworks))
		for _, stop := range tour.Artworks {
			stops = append(stops, models.TourStop{Title: stop.Title, Story: stop.Story, Image: stop.Image})
		}
		seeds = append(seeds, models.Tour{
			ID:          tour.ID,
			Title:       tour.Title,
			Description: tour.Description,
			Artworks:    stops,
		})
	}
	return seeds, nil
}
