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

// InquiryRoutes sets up the routes for inquiry operations
func InquiryRoutes(router *gin.Engine) {
	router.POST("/properties/:property_id/inquiries", middleware.AuthMiddleware(), CreateInquiry())

	inquiries := router.Group("/inquiries")
	inquiries.Use(middleware.AuthMiddleware())
	{
		inquiries.GET("/", GetInquiries())
	}
}

// CreateInquiry sends a message about a property to its owner.
func CreateInquiry() gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID := c.Param("property_id")
		userID := middleware.GetUserID(c)

		var inquiryRequest struct {
			Message string `json:"message" binding:"required"`
		}
		if err := c.ShouldBindJSON(&inquiryRequest); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

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

		if property.OwnerID == userID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot send an inquiry about your own listing"})
			return
		}

		inquiry := models.Inquiry{
			UserID:     userID,
			PropertyID: property.ID,
			Message:    inquiryRequest.Message,
		}
		if result := DB.Create(&inquiry); result.Error != nil {
			slog.Error("creating inquiry", "property_id", propertyID, "err", result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send inquiry"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"inquiry": inquiry, "message": "Inquiry sent successfully"})
	}
}

// GetInquiries lists the authenticated user's inquiries with the
// property each one refers to.
func GetInquiries() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		var inquiries []models.Inquiry

		DB := db.GetDB()
		if result := DB.Preload("Property").Where("user_id = ?", userID).Find(&inquiries); result.Error != nil {
			slog.Error("fetching inquiries", "user_id", userID, "err", result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve inquiries"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"inquiries": inquiries})
	}
}
