package models

import (
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	StatusUnderReview ReportStatus = "UNDER_REVIEW"
	StatusAccepted    ReportStatus = "ACCEPTED"
	StatusRejected    ReportStatus = "REJECTED"
)

// Terminal reports whether the status admits no further transitions.
func (s ReportStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

type TargetKind string

const (
	TargetUser    TargetKind = "USER"
	TargetListing TargetKind = "LISTING"
)

func (k TargetKind) Valid() bool {
	return k == TargetUser || k == TargetListing
}

// ReportTarget is the tagged in-memory form of a report's target: a kind
// plus the id of the user or listing it points at. The two detail tables
// below are its relational projection.
type ReportTarget struct {
	Kind TargetKind `json:"kind"`
	ID   uuid.UUID  `json:"id"`
}

// Report is a complaint filed by one user against a user or a listing.
// Exactly one detail row exists per report, never both, never zero after
// creation, and a terminal status always carries reviewer and review time.
type Report struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ReporterID uuid.UUID    `gorm:"type:uuid;not null;index" json:"reporter_id"`
	Reason     string       `gorm:"not null;size:255" json:"reason"`
	Status     ReportStatus `gorm:"not null;size:12;default:'UNDER_REVIEW';index" json:"status"`
	ReviewedBy *uuid.UUID   `gorm:"type:uuid;index" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time   `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`

	Reporter      User                 `gorm:"foreignKey:ReporterID" json:"-"`
	Reviewer      *Moderator           `gorm:"foreignKey:ReviewedBy" json:"-"`
	UserDetail    *UserReportDetail    `gorm:"foreignKey:ReportID" json:"user_detail,omitempty"`
	ListingDetail *ListingReportDetail `gorm:"foreignKey:ReportID" json:"listing_detail,omitempty"`
}

// Target returns the tagged target of the report. Requires the detail
// associations to be preloaded; ok is false when neither is present.
func (r *Report) Target() (ReportTarget, bool) {
	switch {
	case r.UserDetail != nil:
		return ReportTarget{Kind: TargetUser, ID: r.UserDetail.ReportedUserID}, true
	case r.ListingDetail != nil:
		return ReportTarget{Kind: TargetListing, ID: r.ListingDetail.ListingID}, true
	}
	return ReportTarget{}, false
}

// UserReportDetail links a report to the user it accuses. Keyed 1:1 on the
// report id and immutable after creation.
type UserReportDetail struct {
	ReportID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"report_id"`
	ReportedUserID uuid.UUID `gorm:"type:uuid;not null;index" json:"reported_user_id"`

	Report       Report `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"-"`
	ReportedUser User   `gorm:"foreignKey:ReportedUserID" json:"-"`
}

func (UserReportDetail) TableName() string {
	return "user_report_details"
}

// ListingReportDetail links a report to the listing it accuses.
type ListingReportDetail struct {
	ReportID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"report_id"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;index" json:"listing_id"`

	Report  Report  `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"-"`
	Listing Listing `gorm:"foreignKey:ListingID" json:"-"`
}

func (ListingReportDetail) TableName() string {
	return "listing_report_details"
}
