package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/nkwenti/civicbackend/controllers"
	"github.com/nkwenti/civicbackend/database"
	"github.com/nkwenti/civicbackend/mailer"
	"github.com/nkwenti/civicbackend/middleware"
	"github.com/nkwenti/civicbackend/models"
	"github.com/nkwenti/civicbackend/store"
	"github.com/nkwenti/civicbackend/utils"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	ctx := context.Background()
	if err := database.EnsureIndexes(ctx); err != nil {
		log.Fatal(err)
	}
	//seeding admin user
	usersCol := database.OpenCollection("users")
	if err := utils.SeedAdminUser(ctx, usersCol); err != nil {
		log.Fatal(err)
	}

	users := store.NewMongoUserStore(usersCol)
	otps := store.NewMongoOTPStore(database.OpenCollection("otps"))
	complaints := store.NewMongoComplaintStore(database.OpenCollection("complaints"))

	tokens := utils.NewTokenService(os.Getenv("JWT_SECRET"), utils.AccessTTL(), utils.RefreshTTL())
	mail := mailer.NewSMTPMailerFromEnv()
	requireVerifiedEmail := utils.BoolEnv("REQUIRE_VERIFIED_EMAIL")
	v := utils.NewImageValidator()

	r := gin.New()

	origins := os.Getenv("ALLOWED_ORIGINS")
	allowedOrigins := map[string]bool{}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
	log.Printf("Allowed origins: %v", allowedOrigins)
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/signup", controllers.Signup(users, mail))
		auth.GET("/verify-email", controllers.VerifyEmail(users))
		auth.POST("/login", controllers.Login(users, otps, tokens, mail, requireVerifiedEmail))
		auth.POST("/verify-otp", controllers.VerifyOTP(users, otps, tokens))
		auth.POST("/refresh-token", controllers.RefreshToken(users, tokens))
		// logout is deliberately not gated: it must succeed for
		// unauthenticated callers too
		auth.POST("/logout", controllers.Logout(users, tokens))

		auth.GET("/me", middleware.AuthRequired(users, tokens), controllers.Me())
		auth.POST("/change-password", middleware.AuthRequired(users, tokens), controllers.ChangeMyPassword(users))
	}

	api := r.Group("/complaints")
	api.Use(middleware.AuthRequired(users, tokens))
	{
		api.POST("", controllers.CreateComplaint(complaints))
		api.GET("", controllers.GetComplaints(complaints))
		api.GET("/:id", controllers.GetComplaint(complaints))
		api.POST("/:id/photo", controllers.UploadComplaintPhoto(complaints, v))
		api.PATCH("/:id/status",
			middleware.RequireRoles(models.RoleAdmin, models.RoleOfficer),
			controllers.UpdateComplaintStatus(complaints))
		api.DELETE("/:id", controllers.DeleteComplaint(complaints))
	}

	// Server listens on 0.0.0.0:8080 unless PORT overrides it
	r.Run()
}
