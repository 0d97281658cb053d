package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/Matransformation/decouvrir-le-pays-basque/internal/identity"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/interactions"
	"github.com/gin-gonic/gin"
)

type ratingRequestPayload struct {
	Value int `json:"value"`
}

func (h *httpHandler) handleSubmitRating(c *gin.Context) {
	place, ok := h.placeFromPath(c)
	if !ok {
		return
	}
	key, ok := h.actorKey(c)
	if !ok {
		return
	}
	var request ratingRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	rating, err := h.interactions.SubmitRating(c.Request.Context(), place.ID, key, request.Value)
	switch {
	case errors.Is(err, interactions.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating_out_of_range"})
	case errors.Is(err, interactions.ErrAlreadyRated):
		c.JSON(http.StatusConflict, gin.H{"error": "already_rated"})
	case err != nil:
		h.respondInternal(c, err)
	default:
		c.JSON(http.StatusCreated, gin.H{"value": rating.Value, "created_at": rating.CreatedAt.Format(time.RFC3339)})
	}
}

func (h *httpHandler) handleRetractRating(c *gin.Context) {
	place, ok := h.placeFromPath(c)
	if !ok {
		return
	}
	key, ok := h.actorKey(c)
	if !ok {
		return
	}
	if err := h.interactions.RetractRating(c.Request.Context(), place.ID, key); err != nil {
		h.respondInternal(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type commentRequestPayload struct {
	Body        string `json:"body"`
	AuthorLabel string `json:"author_label"`
}

type commentPayload struct {
	AuthorLabel string `json:"author_label"`
	Body        string `json:"body"`
	CreatedAt   string `json:"created_at"`
	Mine        bool   `json:"mine"`
}

func (h *httpHandler) handleSubmitComment(c *gin.Context) {
	place, ok := h.placeFromPath(c)
	if !ok {
		return
	}
	key, ok := h.actorKey(c)
	if !ok {
		return
	}
	var request commentRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	comment, err := h.interactions.SubmitComment(c.Request.Context(), place.ID, key, request.Body, request.AuthorLabel)
	switch {
	case errors.Is(err, interactions.ErrEmptyBody):
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty_body"})
	case errors.Is(err, interactions.ErrBodyTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": "body_too_long"})
	case errors.Is(err, interactions.ErrAlreadyCommented):
		c.JSON(http.StatusConflict, gin.H{"error": "already_commented"})
	case err != nil:
		h.respondInternal(c, err)
	default:
		c.JSON(http.StatusCreated, commentPayload{
			AuthorLabel: comment.AuthorLabel,
			Body:        comment.Body,
			CreatedAt:   comment.CreatedAt.Format(time.RFC3339),
			Mine:        true,
		})
	}
}

func (h *httpHandler) handleRetractComment(c *gin.Context) {
	place, ok := h.placeFromPath(c)
	if !ok {
		return
	}
	key, ok := h.actorKey(c)
	if !ok {
		return
	}
	if err := h.interactions.RetractComment(c.Request.Context(), place.ID, key); err != nil {
		h.respondInternal(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleListComments(c *gin.Context) {
	place, ok := h.placeFromPath(c)
	if !ok {
		return
	}
	key, ok := h.actorKey(c)
	if !ok {
		return
	}
	comments, err := h.interactions.ListPlaceComments(c.Request.Context(), place.ID)
	if err != nil {
		h.respondInternal(c, err)
		return
	}
	payload := make([]commentPayload, 0, len(comments))
	for _, comment := range comments {
		payload = append(payload, commentPayload{
			AuthorLabel: comment.AuthorLabel,
			Body:        comment.Body,
			CreatedAt:   comment.CreatedAt.Format(time.RFC3339),
			Mine:        comment.ActorKey == key.String(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"comments": payload})
}

func (h *httpHandler) handleToggleFavorite(c *gin.Context) {
	place, ok := h.placeFromPath(c)
	if !ok {
		return
	}
	key, ok := h.actorKey(c)
	if !ok {
		return
	}
	nowFavorited, err := h.interactions.ToggleFavorite(c.Request.Context(), place.ID, key)
	if err != nil {
		h.respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": nowFavorited})
}

type ratedPlacePayload struct {
	Place placePayload `json:"place"`
	Value int          `json:"value"`
}

type commentedPlacePayload struct {
	Place placePayload `json:"place"`
	Body  string       `json:"body"`
}

type inboxPayload struct {
	NoSession bool                    `json:"no_session"`
	Favorites []placePayload          `json:"favorites"`
	Ratings   []ratedPlacePayload     `json:"ratings"`
	Comments  []commentedPlacePayload `json:"comments"`
}

func (h *httpHandler) handleMyInteractions(c *gin.Context) {
	key, ok := h.actorKey(c)
	if !ok {
		return
	}
	inbox, err := h.interactions.ListInteractions(c.Request.Context(), key)
	if err != nil {
		h.respondInternal(c, err)
		return
	}

	payload := inboxPayload{
		NoSession: inbox.NoSession,
		Favorites: make([]placePayload, 0, len(inbox.Favorites)),
		Ratings:   make([]ratedPlacePayload, 0, len(inbox.Ratings)),
		Comments:  make([]commentedPlacePayload, 0, len(inbox.Comments)),
	}
	for _, place := range inbox.Favorites {
		payload.Favorites = append(payload.Favorites, toPlacePayload(place))
	}
	for _, rated := range inbox.Ratings {
		payload.Ratings = append(payload.Ratings, ratedPlacePayload{Place: toPlacePayload(rated.Place), Value: rated.Value})
	}
	for _, commented := range inbox.Comments {
		payload.Comments = append(payload.Comments, commentedPlacePayload{Place: toPlacePayload(commented.Place), Body: commented.Body})
	}
	c.JSON(http.StatusOK, payload)
}

// handleAdoptSession is the explicit one-time migration of anonymous rows to
// an account. It needs both halves of the bridge at once: the session token
// names the rows, the bearer token proves the account.
func (h *httpHandler) handleAdoptSession(c *gin.Context) {
	key, ok := h.actorKey(c)
	if !ok {
		return
	}
	if !key.IsAccount() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account_token_required"})
		return
	}
	token, err := identity.NewToken(c.GetString(sessionContextKey))
	if err != nil || token.IsPlaceholder() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no_adoptable_session"})
		return
	}
	if err := h.profiles.AdoptAnonymous(c.Request.Context(), token, key.Value()); err != nil {
		h.respondInternal(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
