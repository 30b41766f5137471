package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a 1-5 star rating left by a student on a listing.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_student_listing" json:"student_id"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_student_listing" json:"listing_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"size:1000" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Student StudentProfile `gorm:"foreignKey:StudentID" json:"-"`
	Listing Listing        `gorm:"foreignKey:ListingID" json:"-"`
}

// Comment is a public question or remark on a listing. Replies reference
// their parent comment.
type Comment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID uuid.UUID  `gorm:"type:uuid;not null;index" json:"listing_id"`
	AuthorID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Body      string     `gorm:"not null;size:1000" json:"body"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Author User `gorm:"foreignKey:AuthorID" json:"-"`
}
