package routes

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"realestate-api/db"
	"realestate-api/listing"
	"realestate-api/middleware"
	"realestate-api/models"
)

// ImageStore is the bucket interface the property handlers need.
type ImageStore interface {
	Save(objectPath string, r io.Reader) (string, error)
	RemoveAll(prefix string) error
}

// PropertyRoutes sets up the routes for property-related operations
func PropertyRoutes(router *gin.Engine, images ImageStore) {
	props := router.Group("/properties")
	{
		props.GET("/", SearchProperties())
		props.GET("/featured", GetFeaturedProperties())
		props.GET("/:property_id", GetProperty())
	}

	protected := router.Group("/properties")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/", CreateProperty(images))
		protected.GET("/mine", GetMyProperties())
		protected.PUT("/:property_id", UpdateProperty())
		protected.DELETE("/:property_id", DeleteProperty(images))
	}
}

// SearchProperties runs a filtered catalog search. All query
// parameters are optional; an unconstrained request returns the whole
// catalog.
func SearchProperties() gin.HandlerFunc {
	return func(c *gin.Context) {
		patch, err := filterPatchFromQuery(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		view := listing.NewView(listing.GormSearcher{DB: db.GetDB()})
		view.SetQuery(c.Request.Context(), patch, c.Query("q"))

		properties, _, err := view.Snapshot()
		if err != nil {
			slog.Error("searching properties", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve properties"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"properties": properties})
	}
}

// GetFeaturedProperties serves the landing page: the newest listings,
// capped at a fixed count, no filters.
func GetFeaturedProperties() gin.HandlerFunc {
	return func(c *gin.Context) {
		var properties []models.Property

		DB := db.GetDB()
		if result := listing.Featured(DB.WithContext(c.Request.Context())).Find(&properties); result.Error != nil {
			slog.Error("fetching featured properties", "err", result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve properties"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"properties": properties})
	}
}

// GetProperty retrieves a single property with its images.
func GetProperty() gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID := c.Param("property_id")
		var property models.Property

		DB := db.GetDB()
		if result := DB.Preload("Images").First(&property, "id = ?", propertyID); result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			} else {
				slog.Error("fetching property", "property_id", propertyID, "err", result.Error)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"property": property})
	}
}

// CreateProperty handles the multipart listing-creation flow: insert
// the property, then upload each image and record it. The first
// uploaded image becomes the primary one. If any step fails, the
// property, its image rows and any stored files are removed, so a
// failed creation leaves no partial listing behind.
func CreateProperty(images ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == uuid.Nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
			return
		}

		property, err := propertyFromForm(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		property.OwnerID = userID

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data: " + err.Error()})
			return
		}
		files := form.File["images"]

		DB := db.GetDB()
		if result := DB.Create(&property); result.Error != nil {
			slog.Error("creating property", "err", result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating listing. Please try again."})
			return
		}

		rollback := func(step string, err error) {
			slog.Error("creating listing failed, rolling back", "step", step, "property_id", property.ID, "err", err)
			if err := images.RemoveAll(property.ID.String()); err != nil {
				slog.Warn("removing uploaded images", "property_id", property.ID, "err", err)
			}
			DB.Where("property_id = ?", property.ID).Delete(&models.PropertyImage{})
			DB.Delete(&models.Property{}, "id = ?", property.ID)
		}

		for i, fh := range files {
			src, err := fh.Open()
			if err != nil {
				rollback("open upload", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating listing. Please try again."})
				return
			}

			objectPath := fmt.Sprintf("%s/%s%s", property.ID, uuid.NewString(), path.Ext(fh.Filename))
			url, err := images.Save(objectPath, src)
			src.Close()
			if err != nil {
				rollback("store image", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating listing. Please try again."})
				return
			}

			image := models.PropertyImage{
				PropertyID: property.ID,
				URL:        url,
				IsPrimary:  i == 0,
			}
			if result := DB.Create(&image); result.Error != nil {
				rollback("record image", result.Error)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating listing. Please try again."})
				return
			}
			property.Images = append(property.Images, image)
		}

		c.JSON(http.StatusCreated, gin.H{"property": property})
	}
}

// GetMyProperties retrieves the authenticated user's own listings.
func GetMyProperties() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		var properties []models.Property

		DB := db.GetDB()
		if result := DB.Preload("Images").Where("owner_id = ?", userID).Find(&properties); result.Error != nil {
			slog.Error("fetching own properties", "user_id", userID, "err", result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve properties"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"properties": properties})
	}
}

// UpdateProperty handles the update of an existing property. Only the
// listing fields themselves are editable; identity, owner, images and
// timestamps are not taken from the request body.
func UpdateProperty() gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID := c.Param("property_id")
		userID := middleware.GetUserID(c)
		var property models.Property

		DB := db.GetDB()
		if result := DB.First(&property, "id = ?", propertyID); result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			} else {
				slog.Error("fetching property", "property_id", propertyID, "err", result.Error)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property"})
			}
			return
		}

		// Verify user owns this property
		if property.OwnerID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to update this property"})
			return
		}

		var updateRequest struct {
			Title        *string  `json:"title"`
			Description  *string  `json:"description"`
			Price        *float64 `json:"price"`
			PropertyType *string  `json:"property_type"`
			Status       *string  `json:"status"`
			Bedrooms     *int     `json:"bedrooms"`
			Bathrooms    *float64 `json:"bathrooms"`
			AreaSize     *float64 `json:"area_size"`
			Address      *string  `json:"address"`
			City         *string  `json:"city"`
			State        *string  `json:"state"`
			Country      *string  `json:"country"`
			Latitude     *float64 `json:"latitude"`
			Longitude    *float64 `json:"longitude"`
		}
		if err := c.ShouldBindJSON(&updateRequest); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if updateRequest.Price != nil && *updateRequest.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be non-negative"})
			return
		}

		if updateRequest.Title != nil {
			property.Title = *updateRequest.Title
		}
		if updateRequest.Description != nil {
			property.Description = *updateRequest.Description
		}
		if updateRequest.Price != nil {
			property.Price = *updateRequest.Price
		}
		if updateRequest.PropertyType != nil {
			property.PropertyType = *updateRequest.PropertyType
		}
		if updateRequest.Status != nil {
			property.Status = *updateRequest.Status
		}
		if updateRequest.Bedrooms != nil {
			property.Bedrooms = *updateRequest.Bedrooms
		}
		if updateRequest.Bathrooms != nil {
			property.Bathrooms = *updateRequest.Bathrooms
		}
		if updateRequest.AreaSize != nil {
			property.AreaSize = *updateRequest.AreaSize
		}
		if updateRequest.Address != nil {
			property.Address = *updateRequest.Address
		}
		if updateRequest.City != nil {
			property.City = *updateRequest.City
		}
		if updateRequest.State != nil {
			property.State = *updateRequest.State
		}
		if updateRequest.Country != nil {
			property.Country = *updateRequest.Country
		}
		if updateRequest.Latitude != nil {
			property.Latitude = *updateRequest.Latitude
		}
		if updateRequest.Longitude != nil {
			property.Longitude = *updateRequest.Longitude
		}

		if result := DB.Save(&property); result.Error != nil {
			slog.Error("updating property", "property_id", propertyID, "err", result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update property"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"property": property})
	}
}

// DeleteProperty handles the deletion of a property and its images
func DeleteProperty(images ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID := c.Param("property_id")
		userID := middleware.GetUserID(c)
		var property models.Property

		DB := db.GetDB()
		if result := DB.First(&property, "id = ?", propertyID); result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			} else {
				slog.Error("fetching property", "property_id", propertyID, "err", result.Error)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property"})
			}
			return
		}

		// Verify user owns this property
		if property.OwnerID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to delete this property"})
			return
		}

		// Remove everything referencing the property so favorites and
		// inquiry listings never surface a dangling record.
		if result := DB.Where("property_id = ?", property.ID).Delete(&models.PropertyImage{}); result.Error != nil {
			slog.Error("deleting property images", "property_id", propertyID, "err", result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete property"})
			return
		}
		if result := DB.Where("property_id = ?", property.ID).Delete(&models.SavedProperty{}); result.Error != nil {
			slog.Error("deleting saved entries", "property_id", propertyID, "err", result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete property"})
			return
		}
		if result := DB.Where("property_id = ?", property.ID).Delete(&models.Inquiry{}); result.Error != nil {
			slog.Error("deleting inquiries", "property_id", propertyID, "err", result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete property"})
			return
		}
		if result := DB.Delete(&property); result.Error != nil {
			slog.Error("deleting property", "property_id", propertyID, "err", result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete property"})
			return
		}
		if err := images.RemoveAll(property.ID.String()); err != nil {
			slog.Warn("removing stored images", "property_id", propertyID, "err", err)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Property deleted successfully"})
	}
}

// filterPatchFromQuery maps the search query parameters onto a filter
// patch. Absent parameters stay nil and add no constraint.
func filterPatchFromQuery(c *gin.Context) (listing.Patch, error) {
	var patch listing.Patch

	if v := c.Query("property_type"); v != "" {
		patch.PropertyType = &v
	}
	if v := c.Query("country"); v != "" {
		patch.Country = &v
	}
	if v := c.Query("state"); v != "" {
		patch.State = &v
	}
	if v := c.Query("min_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return patch, fmt.Errorf("invalid min_price parameter")
		}
		patch.MinPrice = &f
	}
	if v := c.Query("max_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return patch, fmt.Errorf("invalid max_price parameter")
		}
		patch.MaxPrice = &f
	}
	if v := c.Query("bedrooms"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return patch, fmt.Errorf("invalid bedrooms parameter")
		}
		patch.Bedrooms = &n
	}
	if v := c.Query("bathrooms"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return patch, fmt.Errorf("invalid bathrooms parameter")
		}
		patch.Bathrooms = &f
	}

	return patch, nil
}

// propertyFromForm builds a property from the multipart creation form.
func propertyFromForm(c *gin.Context) (models.Property, error) {
	var property models.Property

	property.Title = c.PostForm("title")
	property.Description = c.PostForm("description")
	property.PropertyType = c.PostForm("property_type")
	property.Address = c.PostForm("address")
	property.City = c.PostForm("city")
	property.State = c.PostForm("state")
	property.Country = c.PostForm("country")

	if property.Title == "" || property.PropertyType == "" || property.Address == "" ||
		property.City == "" || property.State == "" || property.Country == "" {
		return property, fmt.Errorf("title, property_type, address, city, state and country are required")
	}

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || price < 0 {
		return property, fmt.Errorf("a non-negative price is required")
	}
	property.Price = price

	// Optional numeric fields
	if v := c.PostForm("bedrooms"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return property, fmt.Errorf("invalid bedrooms value")
		}
		property.Bedrooms = n
	}
	if v := c.PostForm("bathrooms"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return property, fmt.Errorf("invalid bathrooms value")
		}
		property.Bathrooms = f
	}
	if v := c.PostForm("area_size"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return property, fmt.Errorf("invalid area_size value")
		}
		property.AreaSize = f
	}
	if v := c.PostForm("latitude"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return property, fmt.Errorf("invalid latitude value")
		}
		property.Latitude = f
	}
	if v := c.PostForm("longitude"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return property, fmt.Errorf("invalid longitude value")
		}
		property.Longitude = f
	}

	return property, nil
}
