package server

import (
	"errors"
	"net/http"

	"github.com/Matransformation/decouvrir-le-pays-basque/internal/interactions"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/places"
	"github.com/gin-gonic/gin"
)

type placePayload struct {
	ID        uint     `json:"id"`
	Name      string   `json:"name"`
	Slug      string   `json:"slug"`
	City      string   `json:"city"`
	Category  string   `json:"category,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	ImageURL  string   `json:"image_url,omitempty"`
}

func toPlacePayload(place places.Place) placePayload {
	return placePayload{
		ID:        place.ID,
		Name:      place.Name,
		Slug:      place.Slug,
		City:      place.City,
		Category:  place.Category,
		Latitude:  place.Latitude,
		Longitude: place.Longitude,
		ImageURL:  place.ImageURL,
	}
}

func (h *httpHandler) handleListPlaces(c *gin.Context) {
	all, err := h.places.List(c.Request.Context())
	if err != nil {
		h.respondInternal(c, err)
		return
	}
	payload := make([]placePayload, 0, len(all))
	for _, place := range all {
		payload = append(payload, toPlacePayload(place))
	}
	c.JSON(http.StatusOK, gin.H{"places": payload})
}

type addPlaceRequestPayload struct {
	Name      string   `json:"name"`
	City      string   `json:"city"`
	Category  string   `json:"category"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	ImageURL  string   `json:"image_url"`
}

func (h *httpHandler) handleAddPlace(c *gin.Context) {
	var request addPlaceRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	place, err := h.places.Add(c.Request.Context(), places.NewPlaceRequest{
		Name:      request.Name,
		City:      request.City,
		Category:  request.Category,
		Latitude:  request.Latitude,
		Longitude: request.Longitude,
		ImageURL:  request.ImageURL,
	})
	switch {
	case errors.Is(err, places.ErrMissingName) || errors.Is(err, places.ErrMissingCity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "name_and_city_required"})
	case err != nil:
		h.respondInternal(c, err)
	default:
		c.JSON(http.StatusCreated, gin.H{"place": toPlacePayload(place)})
	}
}

type placeDetailPayload struct {
	Place         placePayload `json:"place"`
	AverageRating *string      `json:"average_rating"`
	RatingCount   int64        `json:"rating_count"`
	FavoriteCount int64        `json:"favorite_count"`
	Favorited     bool         `json:"favorited"`
	MyRating      *int         `json:"my_rating"`
}

func (h *httpHandler) handlePlaceDetail(c *gin.Context) {
	place, ok := h.placeFromPath(c)
	if !ok {
		return
	}
	key, ok := h.actorKey(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	average, err := h.interactions.AverageRating(ctx, place.ID)
	if err != nil {
		h.respondInternal(c, err)
		return
	}
	ratingCount, err := h.interactions.RatingCount(ctx, place.ID)
	if err != nil {
		h.respondInternal(c, err)
		return
	}
	favoriteCount, err := h.interactions.FavoriteCount(ctx, place.ID)
	if err != nil {
		h.respondInternal(c, err)
		return
	}
	favorited, err := h.interactions.IsFavorited(ctx, place.ID, key)
	if err != nil {
		h.respondInternal(c, err)
		return
	}
	myRating, err := h.interactions.RatingFor(ctx, place.ID, key)
	if err != nil {
		h.respondInternal(c, err)
		return
	}

	payload := placeDetailPayload{
		Place:         toPlacePayload(place),
		RatingCount:   ratingCount,
		FavoriteCount: favoriteCount,
		Favorited:     favorited,
		MyRating:      myRating,
	}
	if average != nil {
		formatted := interactions.FormatAverage(*average)
		payload.AverageRating = &formatted
	}
	c.JSON(http.StatusOK, payload)
}
