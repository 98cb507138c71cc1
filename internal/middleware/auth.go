package middleware

import (
	"errors"
	"net/http"
	"strings"
	"workshop_manager/internal/access"
	"workshop_manager/internal/auth"
	"workshop_manager/internal/redis"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	// CookieName carries the access token for browser clients.
	CookieName = "workshop_session"

	principalKey = "principal"
	sessionKey   = "session_id"
)

// AuthMiddleware resolves the caller from a token and its server-side session
type AuthMiddleware struct {
	tokens   *auth.TokenService
	sessions *redis.Client
}

func NewAuthMiddleware(tokens *auth.TokenService, sessions *redis.Client) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions}
}

// Authenticate rejects requests without a valid token and live session.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		claims, err := m.tokens.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		session, err := m.sessions.GetSession(claims.SessionID)
		if err != nil {
			if !errors.Is(err, redis.ErrSessionNotFound) {
				log.WithError(err).Error("Failed to load session")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			return
		}

		c.Set(sessionKey, claims.SessionID)
		c.Set(principalKey, access.Principal{
			UserID:     session.UserID,
			Username:   session.Username,
			Role:       session.Role,
			Superuser:  session.Superuser,
			MechanicID: session.MechanicID,
		})
		c.Next()
	}
}

// Require blocks callers whose role does not allow action. The message is
// deliberately generic.
func Require(action access.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if !principal.Can(action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
			return
		}
		c.Next()
	}
}

func PrincipalFrom(c *gin.Context) (access.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return access.Principal{}, false
	}
	principal, ok := value.(access.Principal)
	return principal, ok
}

func SessionIDFrom(c *gin.Context) string {
	return c.GetString(sessionKey)
}

func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(CookieName); err == nil {
		return cookie
	}
	return ""
}
