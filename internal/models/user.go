package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User is the shared account record. Role capabilities (student, landlord)
// live in the profile tables; a user may hold zero, one, or both profiles.
type User struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Email           string          `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password        string          `gorm:"not null" json:"-"`
	FirstName       string          `gorm:"size:100" json:"first_name"`
	LastName        string          `gorm:"size:100" json:"last_name"`
	IsStaff         bool            `gorm:"not null;default:false" json:"is_staff"`
	IsActive        bool            `gorm:"not null;default:true" json:"is_active"`
	SuspensionEndAt *datatypes.Date `json:"suspension_end_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	StudentProfile  *StudentProfile  `gorm:"foreignKey:UserID" json:"student_profile,omitempty"`
	LandlordProfile *LandlordProfile `gorm:"foreignKey:UserID" json:"landlord_profile,omitempty"`
}

// HasStudentRole reports whether the user holds a student profile.
// Requires the profile associations to be preloaded.
func (u *User) HasStudentRole() bool { return u.StudentProfile != nil }

// HasLandlordRole reports whether the user holds a landlord profile.
func (u *User) HasLandlordRole() bool { return u.LandlordProfile != nil }

type StudentProfile struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	University string    `gorm:"size:150" json:"university"`
	CreatedAt  time.Time `json:"created_at"`
}

type LandlordProfile struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	IdentificationType   string    `gorm:"size:30" json:"identification_type"`
	IdentificationNumber string    `gorm:"size:50" json:"identification_number"`
	CreatedAt            time.Time `json:"created_at"`
}
