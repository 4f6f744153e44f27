package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"gorm.io/gorm"
)

// PlaceholderImageURL is shown for properties with no primary image.
const PlaceholderImageURL = "https://images.unsplash.com/photo-1564013799919-ab600027ffc6?auto=format&fit=crop&q=80"

type Profile struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex" json:"email"`
	Password  string         `json:"-"` // hide from JSON response
	FullName  string         `json:"full_name"`
	AvatarURL string         `json:"avatar_url"`
	Phone     string         `json:"phone"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Property is a single real-estate listing. Optional numeric fields
// (bedrooms, bathrooms, area, coordinates) use the zero value for
// "not provided".
type Property struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID      uuid.UUID       `gorm:"type:uuid;index" json:"owner_id"`
	Owner        Profile         `gorm:"foreignKey:OwnerID" json:"-"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Price        float64         `gorm:"check:price >= 0" json:"price"`
	PropertyType string          `gorm:"index" json:"property_type"`
	Status       string          `json:"status"`
	Bedrooms     int             `json:"bedrooms"`
	Bathrooms    float64         `json:"bathrooms"`
	AreaSize     float64         `json:"area_size"`
	Address      string          `json:"address"`
	City         string          `json:"city"`
	State        string          `json:"state"`
	Country      string          `json:"country"`
	Latitude     float64         `json:"latitude"`
	Longitude    float64         `json:"longitude"`
	Geohash      string          `gorm:"index" json:"geohash,omitempty"`
	Images       []PropertyImage `gorm:"foreignKey:PropertyID" json:"property_images"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = "available"
	}
	return nil
}

// BeforeSave keeps the geohash column in sync with the coordinates so
// listings can be grouped by map cell without recomputing on read.
func (p *Property) BeforeSave(tx *gorm.DB) error {
	if p.Latitude != 0 && p.Longitude != 0 {
		p.Geohash = geohash.Encode(p.Latitude, p.Longitude)
	} else {
		p.Geohash = ""
	}
	return nil
}

// PrimaryImageURL returns the URL of the image flagged as primary, or
// the placeholder when no image carries the flag. An unflagged image
// collection deliberately does not fall back to its first entry.
func (p Property) PrimaryImageURL() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	return PlaceholderImageURL
}

type PropertyImage struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PropertyID uuid.UUID `gorm:"type:uuid;index" json:"property_id"`
	URL        string    `json:"url"`
	IsPrimary  bool      `json:"is_primary"`
	CreatedAt  time.Time `json:"created_at"`
}

func (i *PropertyImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// SavedProperty links a user to a property they bookmarked.
type SavedProperty struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_saved_user_property" json:"user_id"`
	PropertyID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_saved_user_property" json:"property_id"`
	Property   Property  `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s *SavedProperty) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Inquiry is a message from an interested user to a property owner.
type Inquiry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	PropertyID uuid.UUID `gorm:"type:uuid;index" json:"property_id"`
	Property   Property  `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Message    string    `gorm:"not null" json:"message"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.Status == "" {
		i.Status = "pending"
	}
	return nil
}
