// Package tours owns the tour catalog and the tour progress computation.
package tours

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/realmeta/docent/internal/ids"
	"github.com/realmeta/docent/internal/kvstore"
	"github.com/realmeta/docent/internal/models"
)

const catalogKey = "realmeta_tours"

// Validation failures for Save. These are rejections, not faults: the
// catalog is left untouched.
var (
	ErrEmptyTitle       = errors.New("tour title must not be empty")
	ErrEmptyDescription = errors.New("tour description must not be empty")
)

// Catalog is the authoritative in-memory set of tours, serialized to the
// durable store after every successful mutation.
type Catalog struct {
	tours []models.Tour
	store kvstore.Store
	mu    sync.RWMutex
}

func NewCatalog(store kvstore.Store) *Catalog {
	return &Catalog{store: store}
}

// Load reads the persisted catalog, falling back to seed when nothing is
// stored or the stored value is unreadable. It never fails outward: a
// corrupt catalog is treated as absent.
func (c *Catalog) Load(seed []models.Tour) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, exists, err := c.store.Get(catalogKey)
	if err != nil {
		slog.Warn("Failed to read tour catalog, using seed tours", "err", err)
		c.tours = cloneTours(seed)
		return
	}
	if !exists {
		c.tours = cloneTours(seed)
		return
	}

	var stored []models.Tour
	if err := json.Unmarshal([]byte(value), &stored); err != nil {
		slog.Warn("Stored tour catalog is unreadable, using seed tours", "err", err)
		c.tours = cloneTours(seed)
		return
	}
	c.tours = stored
	slog.Info("Loaded tour catalog", "tours", len(stored))
}

// List returns the tours in stable insertion order.
func (c *Catalog) List() []models.Tour {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneTours(c.tours)
}

// Get returns the tour with the given id.
func (c *Catalog) Get(id string) (models.Tour, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, tour := range c.tours {
		if tour.ID == id {
			return cloneTour(tour), true
		}
	}
	return models.Tour{}, false
}

// Create allocates a new tour with a fresh id and an empty itinerary. The
// tour is not part of the catalog until it is saved.
func (c *Catalog) Create(title, description string) models.Tour {
	c.mu.RLock()
	defer c.mu.RUnlock()

	id := ids.New("tour")
	for c.containsLocked(id) {
		id = ids.New("tour")
	}
	return models.Tour{
		ID:          id,
		Title:       title,
		Description: description,
		Artworks:    []models.TourStop{},
	}
}

// Save upserts by id: a new id is appended, an existing one is replaced in
// place so the order of the other tours is unchanged. The catalog is
// persisted afterward.
func (c *Catalog) Save(tour models.Tour) error {
	if strings.TrimSpace(tour.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(tour.Description) == "" {
		return ErrEmptyDescription
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	replaced := false
	for i, existing := range c.tours {
		if existing.ID == tour.ID {
			c.tours[i] = cloneTour(tour)
			replaced = true
			break
		}
	}
	if !replaced {
		c.tours = append(c.tours, cloneTour(tour))
	}
	return c.persistLocked()
}

// Delete removes the tour with the given id and persists the catalog. A
// missing id is a no-op and leaves the stored catalog untouched.
func (c *Catalog) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.tours {
		if existing.ID == id {
			c.tours = append(c.tours[:i], c.tours[i+1:]...)
			return c.persistLocked()
		}
	}
	return nil
}

func (c *Catalog) containsLocked(id string) bool {
	for _, tour := range c.tours {
		if tour.ID == id {
			return true
		}
	}
	return false
}

// persistLocked writes the full catalog. An empty catalog is never written:
// that protects the durable copy from being clobbered by a not-yet-loaded
// in-memory set at startup.
func (c *Catalog) persistLocked() error {
	if len(c.tours) == 0 {
		return nil
	}
	data, err := json.Marshal(c.tours)
	if err != nil {
		return fmt.Errorf("serialize tour catalog: %w", err)
	}
	if err := c.store.Set(catalogKey, string(data)); err != nil {
		return fmt.Errorf("persist tour catalog: %w", err)
	}
	return nil
}

func cloneTour(tour models.Tour) models.Tour {
	out := tour
	out.Artworks = make([]models.TourStop, len(tour.Artworks))
	copy(out.Artworks, tour.Artworks)
	return out
}

func cloneTours(tours []models.Tour) []models.Tour {
	out := make([]models.Tour, len(tours))
	for i, tour := range tours {
		out[i] = cloneTour(tour)
	}
	return out
}
