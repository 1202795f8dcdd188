package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"events-app/config"
	"events-app/internal/domain/access"
	"events-app/internal/infra/core"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityKey is the gin context key the resolved identity is stored under.
const IdentityKey = "identity"

// AuthMiddleware verifies the session JWT and resolves the acting identity
// through the core service. The JWT carries the user's core access token;
// the core answers (from cache, usually) with id, bodies and board
// positions. Any failure to establish identity is a 401: no identity, no
// permissions.
func AuthMiddleware(coreClient *core.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		jwtKey := []byte(config.JWT_SECRET)
		if len(jwtKey) == 0 {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "JWT secret not configured"})
			c.Abort()
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token malformed"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}
		coreToken, _ := claims["core_token"].(string)

		identity, err := coreClient.Identify(c.Request.Context(), coreToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Cannot establish identity"})
			c.Abort()
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves an identity when a bearer token is present
// and falls back to the anonymous identity when it is not. Event listing and
// detail pages are public; visibility rules decide what anonymous visitors
// see.
func OptionalAuthMiddleware(coreClient *core.Client) gin.HandlerFunc {
	authed := AuthMiddleware(coreClient)
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		authed(c)
	}
}

// CurrentIdentity returns the identity the auth middleware resolved, or an
// anonymous identity on routes without it.
func CurrentIdentity(c *gin.Context) access.Identity {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return access.Identity{}
	}
	identity, _ := v.(access.Identity)
	return identity
}

// RequireSuperadmin gates lifecycle administration.
func RequireSuperadmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentIdentity(c).Superadmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}
