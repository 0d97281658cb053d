package places

import (
	"context"
	"errors"
	"strings"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&Place{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	service, err := NewService(ServiceConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return service
}

func TestAddDerivesSlugFromNameAndCity(t *testing.T) {
	db := openTestDB(t)
	service := newTestService(t, db)

	place, err := service.Add(context.Background(), NewPlaceRequest{
		Name: "Château d'Abbadia",
		City: "Hendaye",
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if place.Slug != "chateau-d-abbadia-hendaye" {
		t.Fatalf("unexpected slug: %q", place.Slug)
	}
	if place.ID == 0 {
		t.Fatalf("expected an assigned id")
	}
}

func TestAddSuffixesCollidingSlug(t *testing.T) {
	db := openTestDB(t)
	service := newTestService(t, db)

	first, err := service.Add(context.Background(), NewPlaceRequest{Name: "Grand Plage", City: "Biarritz"})
	if err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	second, err := service.Add(context.Background(), NewPlaceRequest{Name: "Grand Plage", City: "Biarritz"})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if second.Slug == first.Slug {
		t.Fatalf("colliding submission must receive a distinct slug, both got %q", first.Slug)
	}
	if !strings.HasPrefix(second.Slug, first.Slug+"-") {
		t.Fatalf("suffix expected on %q, got %q", first.Slug, second.Slug)
	}
}

func TestAddValidatesRequiredFields(t *testing.T) {
	db := openTestDB(t)
	service := newTestService(t, db)

	if _, err := service.Add(context.Background(), NewPlaceRequest{City: "Biarritz"}); !errors.Is(err, ErrMissingName) {
		t.Fatalf("expected ErrMissingName, got %v", err)
	}
	if _, err := service.Add(context.Background(), NewPlaceRequest{Name: "Grand Plage"}); !errors.Is(err, ErrMissingCity) {
		t.Fatalf("expected ErrMissingCity, got %v", err)
	}
}

func TestBySlugAndByID(t *testing.T) {
	db := openTestDB(t)
	service := newTestService(t, db)

	added, err := service.Add(context.Background(), NewPlaceRequest{Name: "La Rhune", City: "Sare"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	bySlug, err := service.BySlug(context.Background(), added.Slug)
	if err != nil {
		t.Fatalf("lookup by slug failed: %v", err)
	}
	if bySlug.ID != added.ID {
		t.Fatalf("unexpected place: %+v", bySlug)
	}

	byID, err := service.ByID(context.Background(), added.ID)
	if err != nil {
		t.Fatalf("lookup by id failed: %v", err)
	}
	if byID.Slug != added.Slug {
		t.Fatalf("unexpected place: %+v", byID)
	}

	if _, err := service.BySlug(context.Background(), "missing"); !errors.Is(err, ErrPlaceNotFound) {
		t.Fatalf("expected ErrPlaceNotFound, got %v", err)
	}
	if _, err := service.ByID(context.Background(), 999); !errors.Is(err, ErrPlaceNotFound) {
		t.Fatalf("expected ErrPlaceNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	service := newTestService(t, db)

	for _, name := range []string{"Bayonne", "Espelette"} {
		if _, err := service.Add(context.Background(), NewPlaceRequest{Name: name, City: "Pays Basque"}); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}
	all, err := service.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 places, got %d", len(all))
	}
}
