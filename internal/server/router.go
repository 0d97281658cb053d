package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Matransformation/decouvrir-le-pays-basque/internal/actor"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/auth"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/identity"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/interactions"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/places"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/profiles"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	actorContextKey   = "basque_actor_key"
	sessionContextKey = "basque_session_token"
	defaultCookieName = "basque_session"

	// Matches the effectively-infinite lifetime of the client-side token.
	sessionCookieMaxAge = 10 * 365 * 24 * 60 * 60
)

var (
	errMissingPlacesService      = errors.New("places service dependency required")
	errMissingInteractionService = errors.New("interaction service dependency required")
	errMissingProfileService     = errors.New("profile service dependency required")
	errMissingCredentialStore    = errors.New("credential store dependency required")
	errMissingTokenManager       = errors.New("token manager dependency required")
)

// AccountTokenManager issues and validates account session tokens.
type AccountTokenManager interface {
	IssueAccountToken(ctx context.Context, account auth.Account) (string, int64, error)
	ValidateToken(token string) (string, error)
}

// Dependencies wires the HTTP layer to the interaction subsystem.
type Dependencies struct {
	Places       *places.Service
	Interactions *interactions.Service
	Profiles     *profiles.Service
	Credentials  *auth.CredentialStore
	Tokens       AccountTokenManager
	CookieName   string
	Logger       *zap.Logger
}

// NewHTTPHandler builds the gin router exposing the interaction contracts.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Places == nil {
		return nil, errMissingPlacesService
	}
	if deps.Interactions == nil {
		return nil, errMissingInteractionService
	}
	if deps.Profiles == nil {
		return nil, errMissingProfileService
	}
	if deps.Credentials == nil {
		return nil, errMissingCredentialStore
	}
	if deps.Tokens == nil {
		return nil, errMissingTokenManager
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cookieName := strings.TrimSpace(deps.CookieName)
	if cookieName == "" {
		cookieName = defaultCookieName
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Session-Token"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	handler := &httpHandler{
		places:       deps.Places,
		interactions: deps.Interactions,
		profiles:     deps.Profiles,
		credentials:  deps.Credentials,
		tokens:       deps.Tokens,
		cookieName:   cookieName,
		logger:       logger,
	}

	api := router.Group("/api")
	api.POST("/auth/register", handler.handleRegister)
	api.POST("/auth/login", handler.handleLogin)

	session := api.Group("/")
	session.Use(handler.resolveActor)
	session.GET("/places", handler.handleListPlaces)
	session.POST("/places", handler.handleAddPlace)
	session.GET("/places/:place", handler.handlePlaceDetail)
	session.GET("/places/:place/comments", handler.handleListComments)
	session.POST("/places/:place/comments", handler.handleSubmitComment)
	session.DELETE("/places/:place/comments", handler.handleRetractComment)
	session.POST("/places/:place/rating", handler.handleSubmitRating)
	session.DELETE("/places/:place/rating", handler.handleRetractRating)
	session.POST("/places/:place/favorite", handler.handleToggleFavorite)
	session.GET("/me/interactions", handler.handleMyInteractions)
	session.GET("/me/profile", handler.handleEnsureProfile)
	session.PATCH("/me/profile", handler.handleUpdateProfile)
	session.POST("/me/adopt", handler.handleAdoptSession)
	session.GET("/u/:slug", handler.handlePublicProfile)
	session.POST("/u/:slug/like", handler.handleLikeProfile)

	return router, nil
}

type httpHandler struct {
	places       *places.Service
	interactions *interactions.Service
	profiles     *profiles.Service
	credentials  *auth.CredentialStore
	tokens       AccountTokenManager
	cookieName   string
	logger       *zap.Logger
}

// resolveActor attaches an actor key to the request. A valid bearer token
// wins (account keying); otherwise the session cookie or X-Session-Token
// header supplies the anonymous token, and a visitor without either gets a
// freshly minted token handed back in the cookie.
func (h *httpHandler) resolveActor(c *gin.Context) {
	provider, err := identity.NewProvider(identity.ProviderConfig{
		Storage: newCookieStorage(c, h.cookieName),
		Logger:  h.logger,
	})
	if err != nil {
		h.respondInternal(c, err)
		c.Abort()
		return
	}
	token, err := provider.GetOrCreate()
	if err != nil {
		h.logger.Error("session token mint failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.Set(sessionContextKey, token.String())

	key := actor.Anonymous(token)
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		bearer := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if accountID, validateErr := h.tokens.ValidateToken(bearer); validateErr == nil {
			key = actor.Account(accountID)
		} else {
			h.logger.Warn("account token rejected", zap.Error(validateErr))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
	}
	c.Set(actorContextKey, key.String())
	c.Next()
}

func (h *httpHandler) actorKey(c *gin.Context) (actor.Key, bool) {
	key, err := actor.ParseKey(c.GetString(actorContextKey))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return actor.Key{}, false
	}
	return key, true
}

func (h *httpHandler) placeFromPath(c *gin.Context) (places.Place, bool) {
	place, err := h.places.BySlug(c.Request.Context(), c.Param("place"))
	if errors.Is(err, places.ErrPlaceNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "place_not_found"})
		return places.Place{}, false
	}
	if err != nil {
		h.respondInternal(c, err)
		return places.Place{}, false
	}
	return place, true
}

// respondInternal maps an infrastructure failure to a generic 500. Business
// outcomes never pass through here; each handler maps those explicitly so a
// store timeout can never masquerade as "you already rated this".
func (h *httpHandler) respondInternal(c *gin.Context, err error) {
	h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}
