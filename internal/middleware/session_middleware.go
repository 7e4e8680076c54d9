package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/ghain/storefront-backend/config"
	"github.com/ghain/storefront-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

// Context keys for the visitor's storage scope
const (
	SessionIDKey = "session_id"
	TabIDKey     = "tab_id"

	TabIDHeader = "X-Tab-ID"
)

// SessionMiddleware gives every visitor a storage scope, the server-side
// counterpart of one browser's local storage. The scope lives in a cookie;
// the acting tab is named by the X-Tab-ID header (or ?tab= for websockets).
type SessionMiddleware struct {
	cookieName string
	maxAge     time.Duration
	secure     bool
}

func NewSessionMiddleware(cfg config.SessionConfig) *SessionMiddleware {
	return &SessionMiddleware{
		cookieName: cfg.CookieName,
		maxAge:     cfg.MaxAge,
		secure:     cfg.Secure,
	}
}

// Attach resolves or issues the session and records the acting tab.
func (m *SessionMiddleware) Attach() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		sessionID, err := c.Cookie(m.cookieName)
		if err != nil || !util.IsSessionID(sessionID) {
			sessionID = util.NewSessionID()
			log.Debug("Issuing new session", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
		}
		// Refresh on every request so active visitors keep their slots
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(m.cookieName, sessionID, int(m.maxAge/time.Second), "/", "", m.secure, true)

		tabID := strings.TrimSpace(c.GetHeader(TabIDHeader))
		if tabID == "" {
			tabID = strings.TrimSpace(c.Query("tab"))
		}

		c.Set(SessionIDKey, sessionID)
		c.Set(TabIDKey, tabID)
		c.Next()
	}
}

// GetSessionID retrieves the session ID from gin context
func GetSessionID(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get(SessionIDKey)
	if !exists {
		return "", false
	}
	id, ok := sessionID.(string)
	return id, ok && id != ""
}

// GetTabID retrieves the acting tab, empty when the client did not say
func GetTabID(c *gin.Context) string {
	return c.GetString(TabIDKey)
}
