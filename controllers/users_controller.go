package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nkwenti/civicbackend/dto"
	"github.com/nkwenti/civicbackend/middleware"
	"github.com/nkwenti/civicbackend/store"
	"github.com/nkwenti/civicbackend/utils"
)

// POST /auth/change-password
//
// Tokens are stateless, so the old ones stay technically valid until
// they expire; clearing the cookies just forces this client to log in
// again.
func ChangeMyPassword(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ChangeMyPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		if err := utils.CheckPassword(user.PasswordHash, body.CurrentPassword); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is incorrect"})
			return
		}

		newHash, err := utils.HashPassword(body.NewPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}

		user.PasswordHash = newHash
		user.Is2FAVerified = false
		user.UpdatedAt = time.Now().UTC()
		if err := users.Update(c.Request.Context(), user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update password"})
			return
		}

		utils.ClearAuthCookies(c)

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
