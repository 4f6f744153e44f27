package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"realestate-api/db"
	"realestate-api/middleware"
	"realestate-api/models"
)

// ProfileRoutes sets up the routes for profile operations
func ProfileRoutes(router *gin.Engine) {
	profile := router.Group("/profile")
	profile.Use(middleware.AuthMiddleware())
	{
		profile.GET("/", GetProfile())
		profile.PUT("/", UpdateProfile())
	}
}

// GetProfile retrieves the authenticated user's profile.
func GetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		var profile models.Profile

		DB := db.GetDB()
		if result := DB.First(&profile, "id = ?", userID); result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			} else {
				slog.Error("fetching profile", "user_id", userID, "err", result.Error)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"profile": profile})
	}
}

// UpdateProfile updates the editable profile fields.
func UpdateProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)

		var updateRequest struct {
			FullName  *string `json:"full_name"`
			AvatarURL *string `json:"avatar_url"`
			Phone     *string `json:"phone"`
		}
		if err := c.ShouldBindJSON(&updateRequest); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		DB := db.GetDB()
		var profile models.Profile
		if result := DB.First(&profile, "id = ?", userID); result.Error != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}

		if updateRequest.FullName != nil {
			profile.FullName = *updateRequest.FullName
		}
		if updateRequest.AvatarURL != nil {
			profile.AvatarURL = *updateRequest.AvatarURL
		}
		if updateRequest.Phone != nil {
			profile.Phone = *updateRequest.Phone
		}

		if result := DB.Save(&profile); result.Error != nil {
			slog.Error("updating profile", "user_id", userID, "err", result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"profile": profile})
	}
}
