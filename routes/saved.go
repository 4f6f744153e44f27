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

// SavedRoutes sets up the routes for saved-property (favorites) operations
func SavedRoutes(router *gin.Engine) {
	saved := router.Group("/saved")
	saved.Use(middleware.AuthMiddleware())
	{
		saved.GET("/", GetSavedProperties())
		saved.POST("/:property_id", SaveProperty())
		saved.DELETE("/:property_id", UnsaveProperty())
	}
}

// SaveProperty bookmarks a property for the authenticated user.
func SaveProperty() gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID := c.Param("property_id")
		userID := middleware.GetUserID(c)

		DB := db.GetDB()

		var property models.Property
		if result := DB.First(&property, "id = ?", propertyID); result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			} else {
				slog.Error("fetching property", "property_id", propertyID, "err", result.Error)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property"})
			}
			return
		}

		var existing models.SavedProperty
		result := DB.Where("user_id = ? AND property_id = ?", userID, property.ID).First(&existing)
		if result.Error == nil {
			c.JSON(http.StatusOK, gin.H{"saved": existing, "message": "Property already saved"})
			return
		}
		if result.Error != gorm.ErrRecordNotFound {
			slog.Error("checking saved property", "property_id", propertyID, "err", result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save property"})
			return
		}

		saved := models.SavedProperty{
			UserID:     userID,
			PropertyID: property.ID,
		}
		if result := DB.Create(&saved); result.Error != nil {
			slog.Error("saving property", "property_id", propertyID, "err", result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save property"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"saved": saved})
	}
}

// UnsaveProperty removes a bookmark.
func UnsaveProperty() gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID := c.Param("property_id")
		userID := middleware.GetUserID(c)

		DB := db.GetDB()
		result := DB.Where("user_id = ? AND property_id = ?", userID, propertyID).Delete(&models.SavedProperty{})
		if result.Error != nil {
			slog.Error("unsaving property", "property_id", propertyID, "err", result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove saved property"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Saved property not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Saved property removed"})
	}
}

// GetSavedProperties lists the user's bookmarks with the nested
// property and its images.
func GetSavedProperties() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		var saved []models.SavedProperty

		DB := db.GetDB()
		if result := DB.Preload("Property.Images").Where("user_id = ?", userID).Find(&saved); result.Error != nil {
			slog.Error("fetching saved properties", "user_id", userID, "err", result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve saved properties"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"saved": saved})
	}
}
