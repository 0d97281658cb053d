package interactions

import (
	"context"

	"github.com/Matransformation/decouvrir-le-pays-basque/internal/actor"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/places"
	"go.uber.org/zap"
)

// RatedPlace pairs a place with the value the actor gave it.
type RatedPlace struct {
	Place places.Place
	Value int
}

// CommentedPlace pairs a place with the actor's comment on it.
type CommentedPlace struct {
	Place       places.Place
	Body        string
	AuthorLabel string
}

// Inbox is the reconstruction of everything one actor has done: the places
// they favorited, rated and commented. A place may legitimately appear in all
// three lists. NoSession marks the degraded-identity case, which renders
// differently from "session exists but zero interactions".
type Inbox struct {
	NoSession bool
	Favorites []places.Place
	Ratings   []RatedPlace
	Comments  []CommentedPlace
}

// ListInteractions fans out three independent reads filtered by the actor
// key and joins each to its place. Lists come back reverse-chronological;
// that is a default for predictability, not an invariant.
func (s *Service) ListInteractions(ctx context.Context, key actor.Key) (Inbox, error) {
	if key.IsZero() {
		return Inbox{}, ErrInvalidActor
	}
	if key.IsPlaceholderSession() {
		return Inbox{NoSession: true}, nil
	}

	var favorites []Favorite
	if err := s.db.WithContext(ctx).
		Where("actor_key = ?", key.String()).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		s.logError(opListInbox, "favorites_query_failed", err)
		return Inbox{}, newServiceError(opListInbox, "favorites_query_failed", err)
	}

	var ratings []Rating
	if err := s.db.WithContext(ctx).
		Where("actor_key = ?", key.String()).
		Order("created_at DESC").
		Find(&ratings).Error; err != nil {
		s.logError(opListInbox, "ratings_query_failed", err)
		return Inbox{}, newServiceError(opListInbox, "ratings_query_failed", err)
	}

	var comments []Comment
	if err := s.db.WithContext(ctx).
		Where("actor_key = ?", key.String()).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		s.logError(opListInbox, "comments_query_failed", err)
		return Inbox{}, newServiceError(opListInbox, "comments_query_failed", err)
	}

	placeIDs := make([]uint, 0, len(favorites)+len(ratings)+len(comments))
	seen := make(map[uint]struct{})
	collect := func(id uint) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			placeIDs = append(placeIDs, id)
		}
	}
	for _, favorite := range favorites {
		collect(favorite.PlaceID)
	}
	for _, rating := range ratings {
		collect(rating.PlaceID)
	}
	for _, comment := range comments {
		collect(comment.PlaceID)
	}

	placeByID := make(map[uint]places.Place, len(placeIDs))
	if len(placeIDs) > 0 {
		var joined []places.Place
		if err := s.db.WithContext(ctx).
			Where("id IN ?", placeIDs).
			Find(&joined).Error; err != nil {
			s.logError(opListInbox, "places_query_failed", err, zap.Int("place_count", len(placeIDs)))
			return Inbox{}, newServiceError(opListInbox, "places_query_failed", err)
		}
		for _, place := range joined {
			placeByID[place.ID] = place
		}
	}

	inbox := Inbox{
		Favorites: make([]places.Place, 0, len(favorites)),
		Ratings:   make([]RatedPlace, 0, len(ratings)),
		Comments:  make([]CommentedPlace, 0, len(comments)),
	}
	for _, favorite := range favorites {
		if place, ok := placeByID[favorite.PlaceID]; ok {
			inbox.Favorites = append(inbox.Favorites, place)
		}
	}
	for _, rating := range ratings {
		if place, ok := placeByID[rating.PlaceID]; ok {
			inbox.Ratings = append(inbox.Ratings, RatedPlace{Place: place, Value: rating.Value})
		}
	}
	for _, comment := range comments {
		if place, ok := placeByID[comment.PlaceID]; ok {
			inbox.Comments = append(inbox.Comments, CommentedPlace{
				Place:       place,
				Body:        comment.Body,
				AuthorLabel: comment.AuthorLabel,
			})
		}
	}
	return inbox, nil
}

// FavoritePlaces returns the actor's favorited places, newest favorite first.
func (s *Service) FavoritePlaces(ctx context.Context, key actor.Key) ([]places.Place, error) {
	if key.IsZero() {
		return nil, ErrInvalidActor
	}
	var favorites []Favorite
	if err := s.db.WithContext(ctx).
		Where("actor_key = ?", key.String()).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		s.logError(opListInbox, "favorites_query_failed", err)
		return nil, newServiceError(opListInbox, "favorites_query_failed", err)
	}
	if len(favorites) == 0 {
		return []places.Place{}, nil
	}
	ids := make([]uint, 0, len(favorites))
	for _, favorite := range favorites {
		ids = append(ids, favorite.PlaceID)
	}
	var joined []places.Place
	if err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&joined).Error; err != nil {
		s.logError(opListInbox, "places_query_failed", err)
		return nil, newServiceError(opListInbox, "places_query_failed", err)
	}
	placeByID := make(map[uint]places.Place, len(joined))
	for _, place := range joined {
		placeByID[place.ID] = place
	}
	ordered := make([]places.Place, 0, len(favorites))
	for _, favorite := range favorites {
		if place, ok := placeByID[favorite.PlaceID]; ok {
			ordered = append(ordered, place)
		}
	}
	return ordered, nil
}
