package server

import (
	"errors"
	"net/http"

	"github.com/Matransformation/decouvrir-le-pays-basque/internal/profiles"
	"github.com/gin-gonic/gin"
)

type profilePayload struct {
	Slug        string   `json:"slug"`
	DisplayName string   `json:"display_name"`
	Bio         string   `json:"bio"`
	Tags        []string `json:"tags"`
	AvatarURL   string   `json:"avatar_url"`
	LikeCount   int64    `json:"like_count"`
}

func toProfilePayload(public profiles.PublicProfile) profilePayload {
	return profilePayload{
		Slug:        public.Slug,
		DisplayName: public.DisplayName,
		Bio:         public.Bio,
		Tags:        public.Tags,
		AvatarURL:   public.AvatarURL,
		LikeCount:   public.LikeCount,
	}
}

func (h *httpHandler) handleEnsureProfile(c *gin.Context) {
	key, ok := h.actorKey(c)
	if !ok {
		return
	}
	profile, err := h.profiles.Ensure(c.Request.Context(), key)
	switch {
	case errors.Is(err, profiles.ErrInvalidActor):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no_session"})
	case err != nil:
		h.respondInternal(c, err)
	default:
		c.JSON(http.StatusOK, toProfilePayload(profile.Public()))
	}
}

type updateProfileRequestPayload struct {
	DisplayName *string  `json:"display_name"`
	Bio         *string  `json:"bio"`
	Tags        []string `json:"tags"`
	AvatarURL   *string  `json:"avatar_url"`
	Slug        *string  `json:"slug"`
}

func (h *httpHandler) handleUpdateProfile(c *gin.Context) {
	key, ok := h.actorKey(c)
	if !ok {
		return
	}
	var request updateProfileRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), key, profiles.UpdateFields{
		DisplayName: request.DisplayName,
		Bio:         request.Bio,
		Tags:        request.Tags,
		AvatarURL:   request.AvatarURL,
		Slug:        request.Slug,
	})
	switch {
	case errors.Is(err, profiles.ErrInvalidActor):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no_session"})
	case errors.Is(err, profiles.ErrInvalidSlug):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_slug"})
	case errors.Is(err, profiles.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "slug_taken"})
	case err != nil:
		h.respondInternal(c, err)
	default:
		c.JSON(http.StatusOK, toProfilePayload(profile.Public()))
	}
}

func (h *httpHandler) handlePublicProfile(c *gin.Context) {
	slug := c.Param("slug")
	public, err := h.profiles.BySlug(c.Request.Context(), slug)
	if errors.Is(err, profiles.ErrProfileNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile_not_found"})
		return
	}
	if err != nil {
		h.respondInternal(c, err)
		return
	}
	recommendations, err := h.profiles.Recommendations(c.Request.Context(), slug)
	if err != nil {
		h.respondInternal(c, err)
		return
	}
	payload := make([]placePayload, 0, len(recommendations))
	for _, place := range recommendations {
		payload = append(payload, toPlacePayload(place))
	}
	c.JSON(http.StatusOK, gin.H{
		"profile":         toProfilePayload(public),
		"recommendations": payload,
	})
}

func (h *httpHandler) handleLikeProfile(c *gin.Context) {
	key, ok := h.actorKey(c)
	if !ok {
		return
	}
	likeCount, err := h.profiles.Like(c.Request.Context(), c.Param("slug"), key)
	switch {
	case errors.Is(err, profiles.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "profile_not_found"})
	case errors.Is(err, profiles.ErrAlreadyLiked):
		c.JSON(http.StatusConflict, gin.H{"error": "already_liked", "like_count": likeCount})
	case errors.Is(err, profiles.ErrInvalidActor):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no_session"})
	case err != nil:
		h.respondInternal(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"like_count": likeCount})
	}
}
