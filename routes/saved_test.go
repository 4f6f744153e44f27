package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate-api/models"
)

func TestSaveAndListSavedProperties(t *testing.T) {
	conn := setupTestDB(t)
	owner := createProfile(t, conn, "owner@example.com")
	user := createProfile(t, conn, "user@example.com")
	property := createTestProperty(t, conn, owner.ID, "Seaside Villa")
	require.NoError(t, conn.Create(&models.PropertyImage{
		PropertyID: property.ID,
		URL:        "/uploads/hero.jpg",
		IsPrimary:  true,
	}).Error)

	router := newTestRouter()
	router.POST("/saved/:property_id", authAs(user.ID), SaveProperty())
	router.GET("/saved", authAs(user.ID), GetSavedProperties())

	req := httptest.NewRequest(http.MethodPost, "/saved/"+property.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/saved", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Saved []models.SavedProperty `json:"saved"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Saved, 1)
	assert.Equal(t, "Seaside Villa", payload.Saved[0].Property.Title)
	require.Len(t, payload.Saved[0].Property.Images, 1)
	assert.True(t, payload.Saved[0].Property.Images[0].IsPrimary)
}

func TestSavePropertyTwiceIsIdempotent(t *testing.T) {
	conn := setupTestDB(t)
	owner := createProfile(t, conn, "owner@example.com")
	user := createProfile(t, conn, "user@example.com")
	property := createTestProperty(t, conn, owner.ID, "Seaside Villa")

	router := newTestRouter()
	router.POST("/saved/:property_id", authAs(user.ID), SaveProperty())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/saved/"+property.ID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Contains(t, []int{http.StatusCreated, http.StatusOK}, rec.Code)
	}

	var count int64
	require.NoError(t, conn.Model(&models.SavedProperty{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUnsaveProperty(t *testing.T) {
	conn := setupTestDB(t)
	owner := createProfile(t, conn, "owner@example.com")
	user := createProfile(t, conn, "user@example.com")
	property := createTestProperty(t, conn, owner.ID, "Seaside Villa")
	require.NoError(t, conn.Create(&models.SavedProperty{UserID: user.ID, PropertyID: property.ID}).Error)

	router := newTestRouter()
	router.DELETE("/saved/:property_id", authAs(user.ID), UnsaveProperty())

	req := httptest.NewRequest(http.MethodDelete, "/saved/"+property.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Removing again reports not found.
	req = httptest.NewRequest(http.MethodDelete, "/saved/"+property.ID.String(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveUnknownPropertyIsNotFound(t *testing.T) {
	conn := setupTestDB(t)
	user := createProfile(t, conn, "user@example.com")

	router := newTestRouter()
	router.POST("/saved/:property_id", authAs(user.ID), SaveProperty())

	req := httptest.NewRequest(http.MethodPost, "/saved/00000000-0000-0000-0000-000000000001", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
