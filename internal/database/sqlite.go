package database

import (
	"fmt"

	"github.com/Matransformation/decouvrir-le-pays-basque/internal/auth"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/interactions"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/places"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/profiles"
	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OpenSQLite establishes a SQLite connection and performs schema migrations.
// TranslateError is on so unique-constraint violations surface as
// gorm.ErrDuplicatedKey, which the uniqueness guard relies on to tell an
// expected duplicate from an infrastructure fault.
func OpenSQLite(path string, logger *zap.Logger) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&places.Place{},
		&interactions.Rating{},
		&interactions.Comment{},
		&interactions.Favorite{},
		&profiles.Profile{},
		&profiles.ProfileLike{},
		&auth.Account{},
		&migrationRecord{},
	); err != nil {
		return nil, err
	}

	if err := applyMigrations(db, logger); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("database initialized", zap.String("path", path))
	}

	return db, nil
}
