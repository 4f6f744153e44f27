package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"realestate-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Property{}, &models.PropertyImage{}))
	return db
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	properties := []models.Property{
		{
			Title:        "Lakeside Cabin",
			Description:  "A cozy retreat",
			Price:        250000,
			PropertyType: "House",
			Bedrooms:     3,
			Bathrooms:    2,
			Country:      "USA",
			State:        "Montana",
			City:         "Whitefish",
			CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Title:        "Downtown Loft",
			Description:  "Views over the lake from the rooftop",
			Price:        480000,
			PropertyType: "Apartment",
			Bedrooms:     2,
			Bathrooms:    1,
			Country:      "USA",
			State:        "Illinois",
			City:         "Chicago",
			CreatedAt:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Title:        "Seaside Villa",
			Description:  "Luxury living by the coast",
			Price:        300000,
			PropertyType: "Villa",
			Bedrooms:     4,
			Bathrooms:    3,
			Country:      "Spain",
			State:        "Andalusia",
			City:         "Marbella",
			CreatedAt:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Title:        "Budget Villa",
			Description:  "Compact but charming",
			Price:        90000,
			PropertyType: "Villa",
			Bedrooms:     3,
			Bathrooms:    1.5,
			Country:      "Spain",
			State:        "Valencia",
			City:         "Valencia",
			CreatedAt:    time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for i := range properties {
		require.NoError(t, db.Create(&properties[i]).Error)
	}
}

func search(t *testing.T, db *gorm.DB, f Filters, term string) []models.Property {
	t.Helper()
	var properties []models.Property
	require.NoError(t, f.Apply(db, term).Find(&properties).Error)
	return properties
}

func titles(properties []models.Property) []string {
	out := make([]string, 0, len(properties))
	for _, p := range properties {
		out = append(out, p.Title)
	}
	return out
}

func TestApplyNoConstraintsMatchesWholeCatalog(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	got := search(t, db, Filters{}, "")
	assert.Len(t, got, 4)
}

func TestApplySingleFieldPredicates(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	cases := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{"property type", Filters{PropertyType: "Villa"}, []string{"Seaside Villa", "Budget Villa"}},
		{"min price", Filters{MinPrice: 300000}, []string{"Downtown Loft", "Seaside Villa"}},
		{"max price", Filters{MaxPrice: 250000}, []string{"Lakeside Cabin", "Budget Villa"}},
		{"bedrooms", Filters{Bedrooms: 2}, []string{"Downtown Loft"}},
		{"bathrooms", Filters{Bathrooms: 1.5}, []string{"Budget Villa"}},
		{"country", Filters{Country: "Spain"}, []string{"Seaside Villa", "Budget Villa"}},
		{"state", Filters{State: "Montana"}, []string{"Lakeside Cabin"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := search(t, db, tc.filters, "")
			assert.ElementsMatch(t, tc.want, titles(got))
		})
	}
}

func TestBedroomsFilterIsStrictEquality(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	// 3 bedrooms must not include the 4-bedroom villa.
	got := search(t, db, Filters{Bedrooms: 3}, "")
	assert.ElementsMatch(t, []string{"Lakeside Cabin", "Budget Villa"}, titles(got))
	assert.NotContains(t, titles(got), "Seaside Villa")
}

func TestVillaWithPriceRangeScenario(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	f := Filters{PropertyType: "Villa", MinPrice: 100000, MaxPrice: 500000}
	got := search(t, db, f, "")
	assert.Equal(t, []string{"Seaside Villa"}, titles(got))
}

func TestSearchTermMatchesTitleOrDescription(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	// "lake" appears in one title and one description, across
	// different property types; no other predicate may apply.
	got := search(t, db, Filters{}, "lake")
	assert.ElementsMatch(t, []string{"Lakeside Cabin", "Downtown Loft"}, titles(got))

	// Case-insensitive both ways.
	got = search(t, db, Filters{}, "LAKE")
	assert.ElementsMatch(t, []string{"Lakeside Cabin", "Downtown Loft"}, titles(got))
}

func TestSearchTermCombinesWithFilters(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	got := search(t, db, Filters{PropertyType: "House"}, "lake")
	assert.Equal(t, []string{"Lakeside Cabin"}, titles(got))
}

func TestApplyPreloadsImages(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	var cabin models.Property
	require.NoError(t, db.First(&cabin, "title = ?", "Lakeside Cabin").Error)
	require.NoError(t, db.Create(&models.PropertyImage{
		PropertyID: cabin.ID,
		URL:        "/uploads/cabin.jpg",
		IsPrimary:  true,
	}).Error)

	got := search(t, db, Filters{State: "Montana"}, "")
	require.Len(t, got, 1)
	require.Len(t, got[0].Images, 1)
	assert.Equal(t, "/uploads/cabin.jpg", got[0].Images[0].URL)
}

func TestFeaturedReturnsNewestFirstCapped(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	// Push the catalog past the cap.
	for i := 0; i < 4; i++ {
		p := models.Property{
			Title:        "Filler",
			Price:        100,
			PropertyType: "House",
			CreatedAt:    time.Date(2023, 1, 1+i, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, db.Create(&p).Error)
	}

	var got []models.Property
	require.NoError(t, Featured(db).Find(&got).Error)
	require.Len(t, got, FeaturedLimit)

	assert.Equal(t, "Budget Villa", got[0].Title)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.After(got[i-1].CreatedAt))
	}
}

func TestMergeLeavesUnspecifiedFieldsUntouched(t *testing.T) {
	f := Filters{
		PropertyType: "Villa",
		MinPrice:     100000,
		MaxPrice:     500000,
		Bedrooms:     3,
		Bathrooms:    2,
		Country:      "Spain",
		State:        "Andalusia",
	}
	before := f

	newMax := 400000.0
	f.Merge(Patch{MaxPrice: &newMax})

	assert.Equal(t, 400000.0, f.MaxPrice)
	// Everything else is byte-identical to the prior state.
	before.MaxPrice = newMax
	assert.Equal(t, before, f)
}

func TestMergeClearsFieldWithZeroValue(t *testing.T) {
	f := Filters{PropertyType: "Villa", Bedrooms: 3}

	empty := ""
	f.Merge(Patch{PropertyType: &empty})

	assert.Equal(t, "", f.PropertyType)
	assert.Equal(t, 3, f.Bedrooms)
}

func TestResetClearsEveryConstraint(t *testing.T) {
	f := Filters{PropertyType: "Villa", MinPrice: 1, MaxPrice: 2, Bedrooms: 3, Bathrooms: 4, Country: "Spain", State: "Valencia"}
	f.Reset()
	assert.Equal(t, Filters{}, f)
}

func TestApplyDoesNotMutateFilters(t *testing.T) {
	db := newTestDB(t)
	f := Filters{PropertyType: "Villa", MinPrice: 100000}
	before := f
	_ = f.Apply(db, "lake")
	assert.Equal(t, before, f)
}
