// Package listing holds the property search core: the active filter
// set, the translation of filters into a database query, and the
// fetched-results state shared by the listing views.
package listing

import (
	"strings"

	"gorm.io/gorm"

	"realestate-api/models"
)

// FeaturedLimit caps the landing-page query.
const FeaturedLimit = 6

// Filters is the set of active search constraints. The zero value of a
// field means "no constraint": empty strings and zero numbers add no
// predicate, so an empty Filters matches the whole catalog.
type Filters struct {
	PropertyType string  `json:"property_type"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
	Country      string  `json:"country"`
	State        string  `json:"state"`
}

// Patch carries a partial filter change. A nil field leaves the current
// value untouched; a pointer to the zero value clears the constraint.
type Patch struct {
	PropertyType *string  `json:"property_type"`
	MinPrice     *float64 `json:"min_price"`
	MaxPrice     *float64 `json:"max_price"`
	Bedrooms     *int     `json:"bedrooms"`
	Bathrooms    *float64 `json:"bathrooms"`
	Country      *string  `json:"country"`
	State        *string  `json:"state"`
}

// Merge applies the supplied fields of p onto f.
func (f *Filters) Merge(p Patch) {
	if p.PropertyType != nil {
		f.PropertyType = *p.PropertyType
	}
	if p.MinPrice != nil {
		f.MinPrice = *p.MinPrice
	}
	if p.MaxPrice != nil {
		f.MaxPrice = *p.MaxPrice
	}
	if p.Bedrooms != nil {
		f.Bedrooms = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		f.Bathrooms = *p.Bathrooms
	}
	if p.Country != nil {
		f.Country = *p.Country
	}
	if p.State != nil {
		f.State = *p.State
	}
}

// Reset restores every field to unconstrained.
func (f *Filters) Reset() {
	*f = Filters{}
}

// Apply translates the filters plus a free-text term into a property
// query with images preloaded. All supplied constraints are combined
// with AND; the term alone is a disjunction over title and description.
// Bedrooms and bathrooms match by strict equality, not "at least" -
// the product has always shipped with these semantics and changing
// them silently would alter saved searches.
func (f Filters) Apply(db *gorm.DB, term string) *gorm.DB {
	q := db.Model(&models.Property{}).Preload("Images")
	if f.PropertyType != "" {
		q = q.Where("property_type = ?", f.PropertyType)
	}
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}
	if f.Bedrooms > 0 {
		q = q.Where("bedrooms = ?", f.Bedrooms)
	}
	if f.Bathrooms > 0 {
		q = q.Where("bathrooms = ?", f.Bathrooms)
	}
	if f.Country != "" {
		q = q.Where("country = ?", f.Country)
	}
	if f.State != "" {
		q = q.Where("state = ?", f.State)
	}
	if term != "" {
		// LOWER + LIKE keeps the match case-insensitive on both
		// postgres and sqlite.
		pattern := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	return q
}

// Featured is the fixed landing-page query: the newest listings first,
// capped at FeaturedLimit. No filters apply.
func Featured(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Property{}).
		Preload("Images").
		Order("created_at DESC").
		Limit(FeaturedLimit)
}
