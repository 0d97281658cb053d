package server

import (
	"errors"
	"net/http"

	"github.com/Matransformation/decouvrir-le-pays-basque/internal/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type credentialsRequestPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponsePayload struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

func (h *httpHandler) handleRegister(c *gin.Context) {
	var request credentialsRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	account, err := h.credentials.Register(c.Request.Context(), request.Email, request.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_email"})
		return
	case errors.Is(err, auth.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "password_too_short"})
		return
	case errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email_taken"})
		return
	case err != nil:
		h.respondInternal(c, err)
		return
	}
	h.issueToken(c, account)
}

func (h *httpHandler) handleLogin(c *gin.Context) {
	var request credentialsRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	account, err := h.credentials.Authenticate(c.Request.Context(), request.Email, request.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}
	if err != nil {
		h.respondInternal(c, err)
		return
	}
	h.issueToken(c, account)
}

func (h *httpHandler) issueToken(c *gin.Context, account auth.Account) {
	token, expiresIn, err := h.tokens.IssueAccountToken(c.Request.Context(), account)
	if err != nil {
		h.logger.Error("failed to issue account token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token_issue_failed"})
		return
	}
	c.JSON(http.StatusOK, tokenResponsePayload{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		TokenType:   "Bearer",
	})
}
