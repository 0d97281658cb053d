package interactions

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	errMissingDatabase = errors.New("database handle is required")
	noOpLogger         = zap.NewNop()
)

// ServiceError wraps an infrastructure failure with a dotted operation code.
// Business outcomes (ErrAlreadyRated and friends) are never wrapped in it so
// callers can always tell the two categories apart.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

// Code exposes the dotted operation code.
func (e *ServiceError) Code() string {
	return e.code
}

const (
	opServiceNew     = "interactions.service.new"
	opSubmitRating   = "interactions.submit_rating"
	opSubmitComment  = "interactions.submit_comment"
	opRetractRating  = "interactions.retract_rating"
	opRetractComment = "interactions.retract_comment"
	opToggleFavorite = "interactions.toggle_favorite"
	opAverageRating  = "interactions.average_rating"
	opFavoriteCount  = "interactions.favorite_count"
	opListComments   = "interactions.list_place_comments"
	opListInbox      = "interactions.list_interactions"
)

func newServiceError(operation, reason string, cause error) error {
	return &ServiceError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// ServiceConfig describes the dependencies of the interaction service.
type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
	Logger   *zap.Logger
}

// Service enforces the at-most-one invariants for ratings and comments,
// toggles favorites idempotently and answers the read-side queries
// (aggregates, place comments, the per-actor inbox).
type Service struct {
	db     *gorm.DB
	clock  func() time.Time
	logger *zap.Logger
}

// NewService constructs the interaction service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opServiceNew, "missing_database", errMissingDatabase)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{db: cfg.Database, clock: clock, logger: logger}, nil
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("interaction service error", attrs...)
}
