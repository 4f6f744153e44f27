package routes

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"realestate-api/db"
	"realestate-api/models"
)

// setupTestDB opens an in-memory database, migrates the schema and
// installs it as the shared connection for the handlers under test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Profile{},
		&models.Property{},
		&models.PropertyImage{},
		&models.SavedProperty{},
		&models.Inquiry{},
	))
	db.Use(conn)
	return conn
}

// authAs stubs the auth middleware with a fixed user ID.
func authAs(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func createProfile(t *testing.T, conn *gorm.DB, email string) models.Profile {
	t.Helper()
	profile := models.Profile{Email: email, Password: "irrelevant"}
	require.NoError(t, conn.Create(&profile).Error)
	return profile
}

func createTestProperty(t *testing.T, conn *gorm.DB, owner uuid.UUID, title string) models.Property {
	t.Helper()
	property := models.Property{
		OwnerID:      owner,
		Title:        title,
		Price:        250000,
		PropertyType: "House",
		Address:      "1 Main St",
		City:         "Whitefish",
		State:        "Montana",
		Country:      "USA",
	}
	require.NoError(t, conn.Create(&property).Error)
	return property
}
