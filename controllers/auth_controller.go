package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nkwenti/civicbackend/dto"
	"github.com/nkwenti/civicbackend/mailer"
	"github.com/nkwenti/civicbackend/middleware"
	"github.com/nkwenti/civicbackend/models"
	"github.com/nkwenti/civicbackend/store"
	"github.com/nkwenti/civicbackend/utils"
)

// POST /auth/signup
func Signup(users store.UserStore, mail mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.SignupDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		role := models.RoleCitizen
		if body.Role != "" {
			role = models.Role(body.Role)
			if !role.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
				return
			}
		}

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}

		token, err := utils.GenerateVerificationToken()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create verification token"})
			return
		}

		now := time.Now().UTC()
		expiry := now.Add(utils.VerificationTokenTTL)
		user := &models.User{
			Name:                    strings.TrimSpace(body.Name),
			Email:                   strings.ToLower(strings.TrimSpace(body.Email)),
			PasswordHash:            hash,
			Role:                    role,
			IsEmailVerified:         false,
			EmailVerificationToken:  &token,
			EmailVerificationExpiry: &expiry,
			CreatedAt:               now,
			UpdatedAt:               now,
		}

		if err := users.Create(c.Request.Context(), user); err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "user with this email already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error during signup"})
			return
		}

		// verification is advisory: a failed dispatch must not undo
		// the signup
		if err := mail.SendVerificationEmail(user.Email, token); err != nil {
			log.Printf("verification email to %s failed: %v", user.Email, err)
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "user registered successfully, please check your email to verify your account",
			"user":    user,
		})
	}
}

// GET /auth/verify-email?token=
func VerifyEmail(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "verification token is required"})
			return
		}

		user, err := users.FindByVerificationToken(c.Request.Context(), token)
		if err != nil {
			// wrong and expired tokens are indistinguishable
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired verification token"})
			return
		}

		user.IsEmailVerified = true
		user.EmailVerificationToken = nil
		user.EmailVerificationExpiry = nil
		user.UpdatedAt = time.Now().UTC()

		if err := users.Update(c.Request.Context(), user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error during email verification"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "email verified successfully"})
	}
}

// POST /auth/login
//
// The password step. On success an OTP is generated and mailed, the
// refresh cookie is set, and the client is told to complete 2FA. The
// access token is only ever issued by VerifyOTP.
func Login(users store.UserStore, otps store.OTPStore, tokens *utils.TokenService, mail mailer.Mailer, requireVerifiedEmail bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))
		user, err := users.FindByEmail(c.Request.Context(), email)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}

		if err := utils.CheckPassword(user.PasswordHash, body.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}

		if requireVerifiedEmail && !user.IsEmailVerified {
			c.JSON(http.StatusForbidden, gin.H{"error": "please verify your email before logging in"})
			return
		}

		code, err := utils.GenerateOTP()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error during login"})
			return
		}

		if _, err := otps.Create(c.Request.Context(), user.ID, code, time.Now().UTC().Add(utils.OTPTTL())); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error during login"})
			return
		}

		// unlike signup, this dispatch blocks: the user cannot finish
		// the login without the code
		if err := mail.SendOTPEmail(user.Email, code); err != nil {
			log.Printf("otp email to %s failed: %v", user.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send OTP, please try again"})
			return
		}

		refreshToken, err := tokens.GenerateRefreshToken(user.ID.Hex(), user.Email, string(user.Role))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error during login"})
			return
		}
		utils.SetRefreshCookie(c, refreshToken, tokens.RefreshTTL())

		user.Is2FAVerified = false
		user.UpdatedAt = time.Now().UTC()
		if err := users.Update(c.Request.Context(), user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error during login"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":     "login successful, please verify the OTP sent to your email",
			"user":        user,
			"requires2FA": true,
		})
	}
}

// POST /auth/verify-otp
func VerifyOTP(users store.UserStore, otps store.OTPStore, tokens *utils.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.VerifyOTPDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))
		user, err := users.FindByEmail(c.Request.Context(), email)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		if _, err := otps.Consume(c.Request.Context(), user.ID, body.OTP); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired OTP"})
			return
		}

		user.Is2FAVerified = true
		user.Is2FAEnabled = true
		user.UpdatedAt = time.Now().UTC()
		if err := users.Update(c.Request.Context(), user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error during OTP verification"})
			return
		}

		accessToken, err := tokens.GenerateAccessToken(user.ID.Hex(), user.Email, string(user.Role))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error during OTP verification"})
			return
		}
		utils.SetAccessCookie(c, accessToken, tokens.AccessTTL())

		// token goes out in the body too, for bearer-token clients
		c.JSON(http.StatusOK, gin.H{
			"message":     "OTP verified successfully",
			"user":        user,
			"accessToken": accessToken,
		})
	}
}

// POST /auth/refresh-token
//
// Refresh does not re-check 2FA: a valid refresh token is trusted to
// have passed it once already.
func RefreshToken(users store.UserStore, tokens *utils.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		refreshToken, err := c.Cookie("refreshToken")
		if err != nil || refreshToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token not provided"})
			return
		}

		claims, err := tokens.Validate(refreshToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
			return
		}

		uid, err := bson.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
			return
		}

		user, err := users.FindByID(c.Request.Context(), uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user no longer exists"})
			return
		}

		accessToken, err := tokens.GenerateAccessToken(user.ID.Hex(), user.Email, string(user.Role))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate access token"})
			return
		}
		utils.SetAccessCookie(c, accessToken, tokens.AccessTTL())

		c.JSON(http.StatusOK, gin.H{
			"message":     "access token refreshed successfully",
			"accessToken": accessToken,
		})
	}
}

// POST /auth/logout
//
// Always succeeds. The 2FA flag reset is best effort; clearing the
// cookies is the only part the client can rely on since tokens are
// not revocable server-side.
func Logout(users store.UserStore, tokens *utils.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.ClearAuthCookies(c)

		if tokenStr := middleware.TokenFromRequest(c); tokenStr != "" {
			if claims, err := tokens.Validate(tokenStr); err == nil {
				if uid, err := bson.ObjectIDFromHex(claims.UserID); err == nil {
					if user, err := users.FindByID(c.Request.Context(), uid); err == nil {
						user.Is2FAVerified = false
						user.UpdatedAt = time.Now().UTC()
						if err := users.Update(c.Request.Context(), user); err != nil {
							log.Printf("logout: resetting 2FA flag for %s failed: %v", user.Email, err)
						}
					}
				}
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
	}
}

// GET /auth/me
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}
