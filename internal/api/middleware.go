package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-marketplace/internal/auth"
	"github.com/safar/go-marketplace/internal/catalog"
	"github.com/safar/go-marketplace/internal/store"
)

const actorKey = "actor"

// Authenticate resolves the bearer token to a fresh user record and derives
// the caller's capability snapshot once, before any handler runs. Handlers and
// store operations only ever see the explicit Actor value.
func (s *Server) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token format is invalid"})
			return
		}

		claims, err := auth.ParseToken(s.cfg.Auth.JWTSecret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid"})
			return
		}

		// Role and verification flags are read from the database, not the
		// token, so revocations take effect immediately.
		user, err := store.GetUser(c.Request.Context(), s.db, claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid"})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account is disabled"})
			return
		}

		c.Set(actorKey, catalog.ActorFor(user))
		c.Next()
	}
}

func actorFrom(c *gin.Context) catalog.Actor {
	return c.MustGet(actorKey).(catalog.Actor)
}
