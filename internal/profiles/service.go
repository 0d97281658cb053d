package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Matransformation/decouvrir-le-pays-basque/internal/actor"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/interactions"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/places"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/slugs"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errMissingDatabase = errors.New("database handle is required")

const (
	opEnsure          = "profiles.ensure"
	opUpdate          = "profiles.update"
	opLike            = "profiles.like"
	opRecommendations = "profiles.recommendations"
	opAdopt           = "profiles.adopt_session"
)

// ServiceConfig describes the dependencies of the profile bridge.
type ServiceConfig struct {
	Database     *gorm.DB
	Interactions *interactions.Service
	Clock        func() time.Time
	Logger       *zap.Logger
}

// Service bridges actor keys to public profiles: lazy creation, owner-only
// mutation with slug uniqueness, per-actor likes and the public
// recommendations view over the owner's favorites.
type Service struct {
	db           *gorm.DB
	interactions *interactions.Service
	clock        func() time.Time
	logger       *zap.Logger
}

// NewService constructs the profile service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("profiles: %w", errMissingDatabase)
	}
	if cfg.Interactions == nil {
		return nil, fmt.Errorf("profiles: interaction service is required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:           cfg.Database,
		interactions: cfg.Interactions,
		clock:        clock,
		logger:       logger,
	}, nil
}

// Ensure returns the profile owned by the key, creating an empty one with a
// provisional slug on first visit. Idempotent; a create that loses a race to
// a concurrent first visit falls back to re-reading the winner's row.
func (s *Service) Ensure(ctx context.Context, key actor.Key) (Profile, error) {
	if key.IsZero() || key.IsPlaceholderSession() {
		return Profile{}, ErrInvalidActor
	}

	var profile Profile
	err := s.db.WithContext(ctx).Where("actor_key = ?", key.String()).Take(&profile).Error
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("profile lookup failed", zap.String("operation", opEnsure), zap.Error(err))
		return Profile{}, err
	}

	profile = Profile{
		ActorKey:  key.String(),
		Slug:      provisionalSlug(key),
		TagsJSON:  "[]",
		CreatedAt: s.clock().UTC(),
	}
	if createErr := s.db.WithContext(ctx).Create(&profile).Error; createErr != nil {
		if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
			s.logger.Error("profile create failed", zap.String("operation", opEnsure), zap.Error(createErr))
			return Profile{}, createErr
		}
		var existing Profile
		if reread := s.db.WithContext(ctx).Where("actor_key = ?", key.String()).Take(&existing).Error; reread == nil {
			return existing, nil
		}
		// Not the actor-key index: another visitor owns the provisional
		// slug. Retry with a varied suffix, like place submission does.
		profile.ID = 0
		profile.Slug = fmt.Sprintf("%s-%d", profile.Slug, rand.Intn(1000))
		if retryErr := s.db.WithContext(ctx).Create(&profile).Error; retryErr != nil {
			s.logger.Error("profile create failed", zap.String("operation", opEnsure), zap.Error(retryErr))
			return Profile{}, retryErr
		}
	}
	return profile, nil
}

// Update applies owner-supplied fields. A slug change is sluggified, then
// pre-checked against every other key for a fast ErrSlugTaken; the stored
// unique index stays the authoritative guard, so a concurrent racer who wins
// the same slug still surfaces as ErrSlugTaken rather than a fault.
func (s *Service) Update(ctx context.Context, key actor.Key, fields UpdateFields) (Profile, error) {
	profile, err := s.Ensure(ctx, key)
	if err != nil {
		return Profile{}, err
	}

	updates := map[string]interface{}{}
	if fields.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*fields.DisplayName)
	}
	if fields.Bio != nil {
		updates["bio"] = strings.TrimSpace(*fields.Bio)
	}
	if fields.AvatarURL != nil {
		updates["avatar_url"] = strings.TrimSpace(*fields.AvatarURL)
	}
	if fields.Tags != nil {
		encoded, marshalErr := json.Marshal(fields.Tags)
		if marshalErr != nil {
			return Profile{}, marshalErr
		}
		updates["tags_json"] = string(encoded)
	}
	if fields.Slug != nil {
		cleaned := slugs.Slugify(*fields.Slug)
		if cleaned == "" {
			return Profile{}, ErrInvalidSlug
		}
		if cleaned != profile.Slug {
			var taken int64
			err := s.db.WithContext(ctx).Model(&Profile{}).
				Where("slug = ? AND actor_key <> ?", cleaned, key.String()).
				Count(&taken).Error
			if err != nil {
				s.logger.Error("slug check failed", zap.String("operation", opUpdate), zap.Error(err))
				return Profile{}, err
			}
			if taken > 0 {
				return Profile{}, ErrSlugTaken
			}
			updates["slug"] = cleaned
		}
	}
	if len(updates) == 0 {
		return profile, nil
	}
	updates["updated_at"] = s.clock().UTC()

	err = s.db.WithContext(ctx).Model(&Profile{}).
		Where("actor_key = ?", key.String()).
		Updates(updates).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Profile{}, ErrSlugTaken
		}
		s.logger.Error("profile update failed", zap.String("operation", opUpdate), zap.Error(err))
		return Profile{}, err
	}

	var updated Profile
	if err := s.db.WithContext(ctx).Where("actor_key = ?", key.String()).Take(&updated).Error; err != nil {
		s.logger.Error("profile reread failed", zap.String("operation", opUpdate), zap.Error(err))
		return Profile{}, err
	}
	return updated, nil
}

// BySlug returns the public projection of the profile carrying the slug.
func (s *Service) BySlug(ctx context.Context, slug string) (PublicProfile, error) {
	profile, err := s.ownerBySlug(ctx, slug)
	if err != nil {
		return PublicProfile{}, err
	}
	return profile.Public(), nil
}

// Like records an at-most-once like from the given actor and atomically
// increments the counter in the same transaction, so concurrent likes from
// different visitors cannot lose updates. Returns the resulting count.
func (s *Service) Like(ctx context.Context, slug string, liker actor.Key) (int64, error) {
	if liker.IsZero() || liker.IsPlaceholderSession() {
		return 0, ErrInvalidActor
	}
	profile, err := s.ownerBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}

	var likeCount int64
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := ProfileLike{
			ProfileID: profile.ID,
			ActorKey:  liker.String(),
			CreatedAt: s.clock().UTC(),
		}
		if err := tx.Create(&like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyLiked
			}
			return err
		}
		if err := tx.Model(&Profile{}).
			Where("id = ?", profile.ID).
			UpdateColumn("like_count", gorm.Expr("like_count + ?", 1)).Error; err != nil {
			return err
		}
		var refreshed Profile
		if err := tx.Where("id = ?", profile.ID).Take(&refreshed).Error; err != nil {
			return err
		}
		likeCount = refreshed.LikeCount
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, ErrAlreadyLiked) {
			return profile.LikeCount, ErrAlreadyLiked
		}
		s.logger.Error("profile like failed", zap.String("operation", opLike), zap.String("slug", slug), zap.Error(txErr))
		return 0, txErr
	}
	return likeCount, nil
}

// Recommendations returns the favorited places of the profile behind the
// slug. Same data as the owner's inbox favorites, re-exposed publicly keyed
// by slug; the raw actor key never leaves the service.
func (s *Service) Recommendations(ctx context.Context, slug string) ([]places.Place, error) {
	profile, err := s.ownerBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	key, err := actor.ParseKey(profile.ActorKey)
	if err != nil {
		s.logger.Error("stored actor key unparseable", zap.String("operation", opRecommendations), zap.Error(err))
		return nil, err
	}
	return s.interactions.FavoritePlaces(ctx, key)
}

func (s *Service) ownerBySlug(ctx context.Context, slug string) (Profile, error) {
	cleaned := strings.TrimSpace(slug)
	if cleaned == "" {
		return Profile{}, ErrProfileNotFound
	}
	var profile Profile
	err := s.db.WithContext(ctx).Where("slug = ?", cleaned).Take(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Profile{}, ErrProfileNotFound
	}
	if err != nil {
		s.logger.Error("profile lookup failed", zap.String("slug", cleaned), zap.Error(err))
		return Profile{}, err
	}
	return profile, nil
}

// provisionalSlug seeds a fresh profile with a collision-resistant slug
// derived from the actor key, e.g. "visiteur-1a2b3c4d".
func provisionalSlug(key actor.Key) string {
	value := key.Value()
	suffix := slugs.Slugify(value)
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}
	if suffix == "" {
		suffix = "nouveau"
	}
	return "visiteur-" + strings.Trim(suffix, "-")
}
