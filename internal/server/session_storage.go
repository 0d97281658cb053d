package server

import (
	"strings"

	"github.com/Matransformation/decouvrir-le-pays-basque/internal/identity"
	"github.com/gin-gonic/gin"
)

// cookieStorage adapts one request's cookie jar to the identity provider's
// storage contract: the cookie is the durable client-side slot, with the
// X-Session-Token header as a fallback for clients that manage the token
// themselves.
type cookieStorage struct {
	c    *gin.Context
	name string
}

func newCookieStorage(c *gin.Context, name string) *cookieStorage {
	return &cookieStorage{c: c, name: name}
}

func (s *cookieStorage) Load() (string, error) {
	if cookie, err := s.c.Cookie(s.name); err == nil && strings.TrimSpace(cookie) != "" {
		return cookie, nil
	}
	if header := strings.TrimSpace(s.c.GetHeader("X-Session-Token")); header != "" {
		return header, nil
	}
	return "", identity.ErrTokenNotStored
}

func (s *cookieStorage) Save(token string) error {
	s.c.SetCookie(s.name, token, sessionCookieMaxAge, "/", "", false, true)
	return nil
}
