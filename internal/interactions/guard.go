package interactions

import (
	"context"
	"errors"
	"strings"

	"github.com/Matransformation/decouvrir-le-pays-basque/internal/actor"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmitRating records one actor's score for a place. A pair that already
// holds a rating fails with ErrAlreadyRated and the stored value is left
// untouched; the database unique index is what decides a race between
// concurrent submissions.
func (s *Service) SubmitRating(ctx context.Context, placeID uint, key actor.Key, value int) (Rating, error) {
	if placeID == 0 {
		return Rating{}, ErrInvalidPlace
	}
	if key.IsZero() {
		return Rating{}, ErrInvalidActor
	}
	if value < 1 || value > 5 {
		return Rating{}, ErrInvalidRating
	}

	rating := Rating{
		PlaceID:   placeID,
		ActorKey:  key.String(),
		Value:     value,
		CreatedAt: s.clock().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&rating).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Rating{}, ErrAlreadyRated
		}
		s.logError(opSubmitRating, "insert_failed", err, zap.Uint("place_id", placeID))
		return Rating{}, newServiceError(opSubmitRating, "insert_failed", err)
	}
	return rating, nil
}

// SubmitComment records one actor's comment for a place. The body is trimmed
// and must be non-empty; a blank author label defaults to DefaultAuthorLabel.
// Same one-per-pair invariant as SubmitRating.
func (s *Service) SubmitComment(ctx context.Context, placeID uint, key actor.Key, body, authorLabel string) (Comment, error) {
	if placeID == 0 {
		return Comment{}, ErrInvalidPlace
	}
	if key.IsZero() {
		return Comment{}, ErrInvalidActor
	}
	trimmedBody := strings.TrimSpace(body)
	if trimmedBody == "" {
		return Comment{}, ErrEmptyBody
	}
	if len(trimmedBody) > maxBodyLength {
		return Comment{}, ErrBodyTooLong
	}
	label := strings.TrimSpace(authorLabel)
	if label == "" {
		label = DefaultAuthorLabel
	}

	comment := Comment{
		PlaceID:     placeID,
		ActorKey:    key.String(),
		AuthorLabel: label,
		Body:        trimmedBody,
		CreatedAt:   s.clock().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Comment{}, ErrAlreadyCommented
		}
		s.logError(opSubmitComment, "insert_failed", err, zap.Uint("place_id", placeID))
		return Comment{}, newServiceError(opSubmitComment, "insert_failed", err)
	}
	return comment, nil
}

// RetractRating deletes the actor's own rating for the place. A missing row
// is a no-op, not an error; afterwards the pair may submit a fresh rating.
func (s *Service) RetractRating(ctx context.Context, placeID uint, key actor.Key) error {
	if placeID == 0 {
		return ErrInvalidPlace
	}
	if key.IsZero() {
		return ErrInvalidActor
	}
	err := s.db.WithContext(ctx).
		Where("place_id = ? AND actor_key = ?", placeID, key.String()).
		Delete(&Rating{}).Error
	if err != nil {
		s.logError(opRetractRating, "delete_failed", err, zap.Uint("place_id", placeID))
		return newServiceError(opRetractRating, "delete_failed", err)
	}
	return nil
}

// RetractComment deletes the actor's own comment for the place, no-op when absent.
func (s *Service) RetractComment(ctx context.Context, placeID uint, key actor.Key) error {
	if placeID == 0 {
		return ErrInvalidPlace
	}
	if key.IsZero() {
		return ErrInvalidActor
	}
	err := s.db.WithContext(ctx).
		Where("place_id = ? AND actor_key = ?", placeID, key.String()).
		Delete(&Comment{}).Error
	if err != nil {
		s.logError(opRetractComment, "delete_failed", err, zap.Uint("place_id", placeID))
		return newServiceError(opRetractComment, "delete_failed", err)
	}
	return nil
}

// ToggleFavorite flips the favorite state for (place, actor) and reports the
// resulting state. Two rapid clicks may race on the insert path; the loser's
// duplicate-key violation is read as "already favorited" rather than a fault,
// so the table never holds two rows for the pair.
func (s *Service) ToggleFavorite(ctx context.Context, placeID uint, key actor.Key) (bool, error) {
	if placeID == 0 {
		return false, ErrInvalidPlace
	}
	if key.IsZero() {
		return false, ErrInvalidActor
	}

	var existing Favorite
	err := s.db.WithContext(ctx).
		Where("place_id = ? AND actor_key = ?", placeID, key.String()).
		Take(&existing).Error
	switch {
	case err == nil:
		deleteErr := s.db.WithContext(ctx).
			Where("place_id = ? AND actor_key = ?", placeID, key.String()).
			Delete(&Favorite{}).Error
		if deleteErr != nil {
			s.logError(opToggleFavorite, "delete_failed", deleteErr, zap.Uint("place_id", placeID))
			return false, newServiceError(opToggleFavorite, "delete_failed", deleteErr)
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		favorite := Favorite{
			PlaceID:   placeID,
			ActorKey:  key.String(),
			CreatedAt: s.clock().UTC(),
		}
		insertErr := s.db.WithContext(ctx).Create(&favorite).Error
		if insertErr != nil && !errors.Is(insertErr, gorm.ErrDuplicatedKey) {
			s.logError(opToggleFavorite, "insert_failed", insertErr, zap.Uint("place_id", placeID))
			return false, newServiceError(opToggleFavorite, "insert_failed", insertErr)
		}
		return true, nil
	default:
		s.logError(opToggleFavorite, "presence_check_failed", err, zap.Uint("place_id", placeID))
		return false, newServiceError(opToggleFavorite, "presence_check_failed", err)
	}
}

// IsFavorited reports whether the actor currently holds a favorite for the place.
func (s *Service) IsFavorited(ctx context.Context, placeID uint, key actor.Key) (bool, error) {
	if placeID == 0 {
		return false, ErrInvalidPlace
	}
	if key.IsZero() {
		return false, ErrInvalidActor
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&Favorite{}).
		Where("place_id = ? AND actor_key = ?", placeID, key.String()).
		Count(&count).Error
	if err != nil {
		s.logError(opToggleFavorite, "presence_check_failed", err, zap.Uint("place_id", placeID))
		return false, newServiceError(opToggleFavorite, "presence_check_failed", err)
	}
	return count > 0, nil
}

// RatingFor returns the actor's stored rating value for the place, or nil
// when the pair has not rated it.
func (s *Service) RatingFor(ctx context.Context, placeID uint, key actor.Key) (*int, error) {
	if placeID == 0 {
		return nil, ErrInvalidPlace
	}
	if key.IsZero() {
		return nil, ErrInvalidActor
	}
	var rating Rating
	err := s.db.WithContext(ctx).
		Where("place_id = ? AND actor_key = ?", placeID, key.String()).
		Take(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logError(opSubmitRating, "lookup_failed", err, zap.Uint("place_id", placeID))
		return nil, newServiceError(opSubmitRating, "lookup_failed", err)
	}
	value := rating.Value
	return &value, nil
}
