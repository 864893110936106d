package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"wanderwise/internal/domain"
)

const userContextKey = "authenticatedUser"

// AuthClaims are the JWT claims issued by the authentication collaborator.
// This service only consumes them; it never issues tokens.
type AuthClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthMiddleware returns middleware that verifies the bearer credential and
// attaches the user identity to the request context. Requests without a
// valid token are rejected before any billing logic runs.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer credential"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := &AuthClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid bearer credential"})
			return
		}

		c.Set(userContextKey, domain.User{
			ID:    claims.Subject,
			Email: claims.Email,
		})

		c.Next()
	}
}

// UserFromContext returns the verified user the middleware attached.
func UserFromContext(c *gin.Context) (domain.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return domain.User{}, false
	}
	user, ok := value.(domain.User)
	return user, ok
}
