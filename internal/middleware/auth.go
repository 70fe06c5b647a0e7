package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/N7ghtm4r3/Neutron/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		tokenString := parts[1]

		// Parse and validate the token
		claims, err := utils.ParseAndValidateJWT(tokenString, jwtSecret)
		if err != nil {
			logger.Warn("Invalid token", "error", err)
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		userID := claims.Subject
		if userID == "" {
			logger.Error("User ID (subject) missing from valid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		// Store the user ID in the context and enrich the request logger
		ctx := WithUserID(c.Request.Context(), userID)
		enrichedLogger := logger.With(slog.String("user_id", userID))
		c.Request = c.Request.WithContext(WithLogger(ctx, enrichedLogger))

		c.Next()
	}
}

// RequireSelf ensures that the authenticated user matches the user_id path
// parameter. Every resource is private to its owner, so acting on another
// user's data is forbidden.
func RequireSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		pathUserID := c.Param("user_id")
		if pathUserID == "" {
			c.Next()
			return
		}

		authUserID, ok := GetUserIDFromContext(c)
		if !ok || authUserID != pathUserID {
			GetLoggerFromCtx(c.Request.Context()).Warn("User attempted to access another user's resources",
				slog.String("target_user_id", pathUserID))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You cannot operate on another user's resources"})
			return
		}

		c.Next()
	}
}
