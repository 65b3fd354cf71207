package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nkwenti/civicbackend/models"
	"github.com/nkwenti/civicbackend/store"
	"github.com/nkwenti/civicbackend/utils"
)

const userContextKey = "currentUser"

// TokenFromRequest reads the access token from the accessToken cookie,
// falling back to a bearer Authorization header. Tokens are delivered
// both ways on purpose: cookie clients and bearer clients are equally
// supported.
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie("accessToken"); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// AuthRequired validates the access token and attaches the live user
// record to the request context.
func AuthRequired(users store.UserStore, tokens *utils.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := TokenFromRequest(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access token not provided, please login"})
			return
		}

		claims, err := tokens.Validate(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired access token"})
			return
		}

		uid, err := bson.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired access token"})
			return
		}

		user, err := users.FindByID(c.Request.Context(), uid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user no longer exists"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireRoles gates a route to the listed roles. Must run after
// AuthRequired.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you do not have permission to perform this action"})
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}
