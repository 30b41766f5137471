package models

import (
	"time"

	"github.com/google/uuid"
)

// Listing is a rental publication owned by a landlord profile.
type Listing struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LandlordID  uuid.UUID `gorm:"type:uuid;not null;index" json:"landlord_id"`
	Title       string    `gorm:"not null;size:150" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Address     string    `gorm:"size:255" json:"address"`
	MonthlyRent int       `gorm:"not null" json:"monthly_rent"`
	IsPublished bool      `gorm:"not null;default:false" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Landlord LandlordProfile `gorm:"foreignKey:LandlordID" json:"-"`
	Photos   []ListingPhoto  `gorm:"foreignKey:ListingID" json:"photos,omitempty"`
}

type ListingPhoto struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;index" json:"listing_id"`
	URL       string    `gorm:"not null;size:500" json:"url"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Favorite marks a listing saved by a student. One row per pair.
type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_student_listing" json:"student_id"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_student_listing" json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`

	Student StudentProfile `gorm:"foreignKey:StudentID" json:"-"`
	Listing Listing        `gorm:"foreignKey:ListingID" json:"-"`
}
