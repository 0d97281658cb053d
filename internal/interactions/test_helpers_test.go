package interactions

import (
	"sync"
	"testing"
	"time"

	"github.com/Matransformation/decouvrir-le-pays-basque/internal/actor"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/identity"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/places"
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
	if err := db.AutoMigrate(&places.Place{}, &Rating{}, &Comment{}, &Favorite{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	base := time.Unix(1700000000, 0)
	var mu sync.Mutex
	tick := 0
	service, err := NewService(ServiceConfig{
		Database: db,
		Clock: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return service
}

func seedPlace(t *testing.T, db *gorm.DB, name, slug string) places.Place {
	t.Helper()
	place := places.Place{Name: name, Slug: slug, City: "Biarritz"}
	if err := db.Create(&place).Error; err != nil {
		t.Fatalf("failed to seed place: %v", err)
	}
	return place
}

func anonKey(raw string) actor.Key {
	return actor.Anonymous(identity.Token(raw))
}
