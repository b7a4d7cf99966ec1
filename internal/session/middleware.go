package session

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	cookieName = "photo_session"
	contextKey = "session"

	cookieMaxAge = 24 * 60 * 60
)

// Middleware attaches a Session to every request, minting a cookie-backed
// session id on first visit.
func Middleware(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || id == "" {
			id = uuid.New().String()
			c.SetCookie(cookieName, id, cookieMaxAge, "/", "", false, true)
		}

		c.Set(contextKey, store.Get(id))
		c.Next()
	}
}

// FromContext returns the request's session. The middleware guarantees it is
// present on every route registered behind it.
func FromContext(c *gin.Context) *Session {
	s, _ := c.Get(contextKey)
	sess, _ := s.(*Session)
	return sess
}
