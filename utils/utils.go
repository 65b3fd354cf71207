package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPassword(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

const otpLength = 6

// GenerateOTP returns a fixed-length numeric code, uniformly random
// over the 6-digit range.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// GenerateVerificationToken returns 32 random bytes hex-encoded,
// used as the single-use email verification secret.
func GenerateVerificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func IsDuplicateKey(err error) bool {
	// Preferred: typed error
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			log.Println("Error code", e.Code)
			if e.Code == 11000 || e.Code == 11001 {
				return true
			}
		}
	}

	// Sometimes we might get a BulkWriteException
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, e := range bwe.WriteErrors {
			if e.Code == 11000 || e.Code == 11001 {
				return true
			}
		}
	}

	// Fallback
	msg := err.Error()
	return strings.Contains(msg, "E11000 duplicate key error")
}

func GenerateSlug(name string) string {
	// Normalize accents
	t := norm.NFD.String(name)
	var b strings.Builder
	for _, r := range t {
		if unicode.Is(unicode.Mn, r) {
			continue // remove accent marks
		}
		b.WriteRune(r)
	}

	s := strings.ToLower(b.String())

	// Replace non-alphanumeric with hyphen
	reg := regexp.MustCompile(`[^a-z0-9]+`)
	s = reg.ReplaceAllString(s, "-")

	// Trim hyphens
	s = strings.Trim(s, "-")

	return s
}

func AccessTTL() time.Duration {
	minStr := os.Getenv("ACCESS_TOKEN_TTL_MINUTES")
	min, _ := strconv.Atoi(minStr)
	if min <= 0 {
		min = 15
	}
	return time.Duration(min) * time.Minute
}

func RefreshTTL() time.Duration {
	dStr := os.Getenv("REFRESH_TOKEN_TTL_DAYS")
	days, _ := strconv.Atoi(dStr)
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

func OTPTTL() time.Duration {
	minStr := os.Getenv("OTP_TTL_MINUTES")
	min, _ := strconv.Atoi(minStr)
	if min <= 0 {
		min = 5
	}
	return time.Duration(min) * time.Minute
}

// VerificationTokenTTL is how long an email verification link stays valid.
const VerificationTokenTTL = 24 * time.Hour

func BoolEnv(key string) bool {
	return os.Getenv(key) == "true"
}

func SetRefreshCookie(c *gin.Context, token string, ttl time.Duration) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "refreshToken",
		Value:    token,
		Path:     "/",
		Domain:   os.Getenv("COOKIE_DOMAIN"),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode, // for cross-site
	})
}

func SetAccessCookie(c *gin.Context, token string, ttl time.Duration) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "accessToken",
		Value:    token,
		Path:     "/",
		Domain:   os.Getenv("COOKIE_DOMAIN"),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func ClearAuthCookies(c *gin.Context) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   os.Getenv("COOKIE_DOMAIN"),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
		})
	}
}
