package models

import (
	"time"

	"github.com/google/uuid"
)

// Moderator is the staff principal identity referenced by reviewed reports.
// It is provisioned on first review and kept separate from the general user
// identity so reviewed reports survive staff account changes.
type Moderator struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
