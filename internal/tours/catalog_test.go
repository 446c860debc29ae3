package tours

import (
	"reflect"
	"testing"

	"github.com/realmeta/docent/internal/kvstore"
	"github.com/realmeta/docent/internal/models"
)

func TestLoadSeedsWhenEmpty(t *testing.T) {
	catalog := NewCatalog(kvstore.NewMemory())
	catalog.Load(SeedTours())

	tours := catalog.List()
	if len(tours) != 2 {
		t.Fatalf("Expected 2 seed tours, got %d", len(tours))
	}
	if tours[0].Title != "A Journey into Impressionism" {
		t.Errorf("Unexpected first seed tour: %q", tours[0].Title)
	}
}

func TestLoadFallsBackOnCorruptData(t *testing.T) {
	store := kvstore.NewMemory()
	if err := store.Set("realmeta_tours", "{not json"); err != nil {
		t.Fatal(err)
	}

	catalog := NewCatalog(store)
	catalog.Load(SeedTours())

	tours := catalog.List()
	if len(tours) != 2 {
		t.Fatalf("Expected seed fallback on corrupt data, got %d tours", len(tours))
	}
}

func TestLoadDoesNotPersistSeeds(t *testing.T) {
	store := kvstore.NewMemory()
	catalog := NewCatalog(store)
	catalog.Load(SeedTours())

	if _, exists, _ := store.Get("realmeta_tours"); exists {
		t.Error("Load must not write the catalog; only mutations persist")
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	store := kvstore.NewMemory()
	catalog := NewCatalog(store)
	catalog.Load(SeedTours())

	tour := catalog.Create("Hidden Gems", "Lesser known works worth the walk.")
	tour.Artworks = []models.TourStop{
		{Title: "The Goldfinch", Story: "A tiny marvel.", Image: "/static/uploads/abc.jpg"},
		{Title: "View of Delft", Story: "Proust's favourite."},
	}
	if err := catalog.Save(tour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := NewCatalog(store)
	reloaded.Load(nil)

	if !reflect.DeepEqual(catalog.List(), reloaded.List()) {
		t.Errorf("Round-trip mismatch:\nsaved:    %+v\nreloaded: %+v", catalog.List(), reloaded.List())
	}
}

func TestCreateIDsAreUnique(t *testing.T) {
	catalog := NewCatalog(kvstore.NewMemory())
	catalog.Load(nil)

	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		tour := catalog.Create("Title", "Description")
		if seen[tour.ID] {
			t.Fatalf("Duplicate id after %d creations: %s", i, tour.ID)
		}
		seen[tour.ID] = true
	}
}

func TestCreateIsNotPersisted(t *testing.T) {
	store := kvstore.NewMemory()
	catalog := NewCatalog(store)
	catalog.Load(nil)

	catalog.Create("Draft", "Not saved yet")
	if len(catalog.List()) != 0 {
		t.Error("A draft must not join the catalog before Save")
	}
}

func TestSaveValidation(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		wantErr     error
	}{
		{name: "empty title", title: "", description: "desc", wantErr: ErrEmptyTitle},
		{name: "whitespace title", title: "   ", description: "desc", wantErr: ErrEmptyTitle},
		{name: "empty description", title: "Title", description: "", wantErr: ErrEmptyDescription},
		{name: "whitespace description", title: "Title", description: "\t ", wantErr: ErrEmptyDescription},
		{name: "valid", title: "Title", description: "desc", wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := NewCatalog(kvstore.NewMemory())
			catalog.Load(nil)

			tour := catalog.Create(tt.title, tt.description)
			err := catalog.Save(tour)
			if err != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}

			if tt.wantErr != nil && len(catalog.List()) != 0 {
				t.Error("Rejected save must leave the catalog unchanged")
			}
			if tt.wantErr == nil {
				if _, exists := catalog.Get(tour.ID); !exists {
					t.Error("Saved tour must be retrievable")
				}
			}
		})
	}
}

func TestSaveReplacesInPlace(t *testing.T) {
	catalog := NewCatalog(kvstore.NewMemory())
	catalog.Load(SeedTours())

	tours := catalog.List()
	updated := tours[0]
	updated.Description = "A fresh description."
	if err := catalog.Save(updated); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	after := catalog.List()
	if len(after) != len(tours) {
		t.Fatalf("Upsert of an existing id must not grow the catalog: %d -> %d", len(tours), len(after))
	}
	if after[0].ID != updated.ID || after[0].Description != "A fresh description." {
		t.Errorf("Expected in-place replacement at position 0, got %+v", after[0])
	}
	if after[1].ID != tours[1].ID {
		t.Errorf("Order of other tours changed: %q", after[1].ID)
	}
}

func TestDeleteMissingIDLeavesCatalogUntouched(t *testing.T) {
	store := kvstore.NewMemory()
	catalog := NewCatalog(store)
	catalog.Load(SeedTours())

	// Persist once so there is a stored copy to compare against.
	tours := catalog.List()
	if err := catalog.Save(tours[0]); err != nil {
		t.Fatal(err)
	}
	before, _, _ := store.Get("realmeta_tours")

	if err := catalog.Delete("no_such_tour"); err != nil {
		t.Fatalf("Delete of missing id errored: %v", err)
	}

	after, _, _ := store.Get("realmeta_tours")
	if before != after {
		t.Error("Delete of a missing id must leave the stored catalog byte-for-byte unchanged")
	}
	if len(catalog.List()) != len(tours) {
		t.Error("Delete of a missing id must leave the in-memory catalog unchanged")
	}
}

func TestDeleteRemovesAndPersists(t *testing.T) {
	store := kvstore.NewMemory()
	catalog := NewCatalog(store)
	catalog.Load(SeedTours())

	tours := catalog.List()
	if err := catalog.Delete(tours[0].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if len(catalog.List()) != len(tours)-1 {
		t.Fatalf("Expected %d tours after delete, got %d", len(tours)-1, len(catalog.List()))
	}

	reloaded := NewCatalog(store)
	reloaded.Load(nil)
	if len(reloaded.List()) != len(tours)-1 {
		t.Error("Delete must persist the updated catalog")
	}
}
