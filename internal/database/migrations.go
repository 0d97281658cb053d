package database

import (
	"errors"
	"time"

	"github.com/Matransformation/decouvrir-le-pays-basque/internal/interactions"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/profiles"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	migrationBackfillAuthorLabels = "2026-04-18_backfill_comment_author_labels"
	migrationSeedProfileTagLists  = "2026-05-02_seed_profile_tag_lists"
)

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationBackfillAuthorLabels, apply: backfillCommentAuthorLabels},
		{name: migrationSeedProfileTagLists, apply: seedProfileTagLists},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// Comments written before the label default existed carry an empty author label.
func backfillCommentAuthorLabels(db *gorm.DB) error {
	return db.Model(&interactions.Comment{}).
		Where("author_label = ''").
		Update("author_label", interactions.DefaultAuthorLabel).Error
}

// Profiles created before the tag list column defaulted to '[]' hold empty strings.
func seedProfileTagLists(db *gorm.DB) error {
	return db.Model(&profiles.Profile{}).
		Where("tags_json = ''").
		Update("tags_json", "[]").Error
}
