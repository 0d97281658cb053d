package interactions

import (
	"context"
	"database/sql"
	"math"
	"strconv"

	"go.uber.org/zap"
)

// AverageRating computes the arithmetic mean of all rating rows for the
// place. Zero rows yields nil, not zero: "no rating yet" and "rated 0" must
// stay distinguishable. The value is unrounded; rounding happens only at
// presentation time via FormatAverage.
func (s *Service) AverageRating(ctx context.Context, placeID uint) (*float64, error) {
	if placeID == 0 {
		return nil, ErrInvalidPlace
	}
	var avg sql.NullFloat64
	err := s.db.WithContext(ctx).Model(&Rating{}).
		Where("place_id = ?", placeID).
		Select("AVG(value)").
		Row().
		Scan(&avg)
	if err != nil {
		s.logError(opAverageRating, "query_failed", err, zap.Uint("place_id", placeID))
		return nil, newServiceError(opAverageRating, "query_failed", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	value := avg.Float64
	return &value, nil
}

// FavoriteCount counts the favorite rows for the place, recomputed on demand.
func (s *Service) FavoriteCount(ctx context.Context, placeID uint) (int64, error) {
	if placeID == 0 {
		return 0, ErrInvalidPlace
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&Favorite{}).
		Where("place_id = ?", placeID).
		Count(&count).Error
	if err != nil {
		s.logError(opFavoriteCount, "query_failed", err, zap.Uint("place_id", placeID))
		return 0, newServiceError(opFavoriteCount, "query_failed", err)
	}
	return count, nil
}

// RatingCount counts the rating rows for the place.
func (s *Service) RatingCount(ctx context.Context, placeID uint) (int64, error) {
	if placeID == 0 {
		return 0, ErrInvalidPlace
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&Rating{}).
		Where("place_id = ?", placeID).
		Count(&count).Error
	if err != nil {
		s.logError(opAverageRating, "count_failed", err, zap.Uint("place_id", placeID))
		return 0, newServiceError(opAverageRating, "count_failed", err)
	}
	return count, nil
}

// ListPlaceComments returns every comment for the place, newest first.
func (s *Service) ListPlaceComments(ctx context.Context, placeID uint) ([]Comment, error) {
	if placeID == 0 {
		return nil, ErrInvalidPlace
	}
	var comments []Comment
	err := s.db.WithContext(ctx).
		Where("place_id = ?", placeID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		s.logError(opListComments, "query_failed", err, zap.Uint("place_id", placeID))
		return nil, newServiceError(opListComments, "query_failed", err)
	}
	return comments, nil
}

// FormatAverage renders an average to one decimal for display, e.g. 3.6667 -> "3.7".
func FormatAverage(value float64) string {
	return strconv.FormatFloat(math.Round(value*10)/10, 'f', 1, 64)
}
