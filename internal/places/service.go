package places

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/Matransformation/decouvrir-le-pays-basque/internal/slugs"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errMissingDatabase = errors.New("database handle is required")

// ServiceConfig describes the dependencies of the place catalog.
type ServiceConfig struct {
	Database *gorm.DB
	Logger   *zap.Logger
}

// Service reads and extends the place catalog.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService constructs the catalog service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("places: %w", errMissingDatabase)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: cfg.Database, logger: logger}, nil
}

// List returns the whole catalog, newest first.
func (s *Service) List(ctx context.Context) ([]Place, error) {
	var all []Place
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&all).Error; err != nil {
		s.logger.Error("place list query failed", zap.Error(err))
		return nil, err
	}
	return all, nil
}

// BySlug returns the place carrying the given slug.
func (s *Service) BySlug(ctx context.Context, slug string) (Place, error) {
	var place Place
	err := s.db.WithContext(ctx).Where("slug = ?", strings.TrimSpace(slug)).Take(&place).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Place{}, ErrPlaceNotFound
	}
	if err != nil {
		s.logger.Error("place lookup failed", zap.String("slug", slug), zap.Error(err))
		return Place{}, err
	}
	return place, nil
}

// ByID returns the place with the given id.
func (s *Service) ByID(ctx context.Context, id uint) (Place, error) {
	var place Place
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&place).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Place{}, ErrPlaceNotFound
	}
	if err != nil {
		s.logger.Error("place lookup failed", zap.Uint("place_id", id), zap.Error(err))
		return Place{}, err
	}
	return place, nil
}

// Add inserts a visitor-submitted place. The slug is derived from name and
// city; a collision gets a numeric suffix rather than failing the submission.
func (s *Service) Add(ctx context.Context, request NewPlaceRequest) (Place, error) {
	name := strings.TrimSpace(request.Name)
	if name == "" {
		return Place{}, ErrMissingName
	}
	city := strings.TrimSpace(request.City)
	if city == "" {
		return Place{}, ErrMissingCity
	}

	slug := slugs.Slugify(name + " " + city)
	var taken int64
	if err := s.db.WithContext(ctx).Model(&Place{}).Where("slug = ?", slug).Count(&taken).Error; err != nil {
		s.logger.Error("slug availability check failed", zap.String("slug", slug), zap.Error(err))
		return Place{}, err
	}
	if taken > 0 {
		slug = fmt.Sprintf("%s-%d", slug, rand.Intn(1000))
	}

	place := Place{
		Name:      name,
		City:      city,
		Category:  strings.TrimSpace(request.Category),
		Latitude:  request.Latitude,
		Longitude: request.Longitude,
		ImageURL:  strings.TrimSpace(request.ImageURL),
		Slug:      slug,
	}
	if err := s.db.WithContext(ctx).Create(&place).Error; err != nil {
		s.logger.Error("place insert failed", zap.String("slug", slug), zap.Error(err))
		return Place{}, err
	}
	return place, nil
}
