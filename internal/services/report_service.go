package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AlexBKG/Umigo/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CooldownHours is the minimum wait before the same reporter may re-report
// the same target.
const CooldownHours = 24

var (
	ErrInvalidReason     = errors.New("report reason must be between 10 and 255 characters")
	ErrInvalidTargetKind = errors.New("target kind must be USER or LISTING")
	ErrTargetNotFound    = errors.New("report target does not exist")
	ErrSelfReport        = errors.New("you cannot report your own account")
	ErrCannotReportAdmin = errors.New("staff accounts cannot be reported")
	ErrNotAStudent       = errors.New("only students can report listings")
	ErrOwnListing        = errors.New("you cannot report your own listing")
	ErrTargetConflict    = errors.New("report already points at a target of the other kind")
	ErrCooldownActive    = errors.New("target already reported within the last 24 hours")
)

// CooldownError signals a duplicate report inside the cooldown window and
// carries the hour arithmetic for user messaging. Hours are truncated from
// elapsed seconds.
type CooldownError struct {
	HoursElapsed   int
	HoursRemaining int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("you already reported this target %d hour(s) ago; wait %d more hour(s)",
		e.HoursElapsed, e.HoursRemaining)
}

// Is makes errors.Is(err, ErrCooldownActive) match.
func (e *CooldownError) Is(target error) bool { return target == ErrCooldownActive }

// ReportService owns report intake: eligibility checks, target resolution
// and the atomic report + detail row insert.
type ReportService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewReportService(db *gorm.DB, notifier Notifier) *ReportService {
	return &ReportService{db: db, notifier: notifier}
}

// CreateReport validates the request and persists the report together with
// exactly one detail row in a single transaction. The cooldown check runs
// inside the same transaction as the insert so concurrent submissions
// cannot both land inside the window.
func (s *ReportService) CreateReport(reporterID uuid.UUID, reason string, kind models.TargetKind, targetID uuid.UUID) (*models.Report, error) {
	reason = strings.TrimSpace(reason)
	// Character count, not bytes: accented reasons must not hit the cap early.
	if n := utf8.RuneCountInString(reason); n < 10 || n > 255 {
		return nil, ErrInvalidReason
	}
	if !kind.Valid() {
		return nil, ErrInvalidTargetKind
	}

	reporter, err := s.loadReporter(reporterID)
	if err != nil {
		return nil, err
	}

	var report *models.Report
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Row lock on the reporter serializes their concurrent submissions,
		// so the cooldown check always sees the winner's committed report.
		var row models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").First(&row, "id = ?", reporterID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		if err := s.checkCooldown(tx, reporterID, kind, targetID); err != nil {
			return err
		}
		targetUser, targetListing, err := resolveTarget(tx, kind, targetID)
		if err != nil {
			return err
		}
		if err := checkTargetRules(reporter, kind, targetUser, targetListing); err != nil {
			return err
		}

		report = &models.Report{
			ID:         uuid.New(),
			ReporterID: reporterID,
			Reason:     reason,
			Status:     models.StatusUnderReview,
		}
		if err := tx.Create(report).Error; err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		return attachDetail(tx, s.notifier, report, models.ReportTarget{Kind: kind, ID: targetID})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.ReportReceived(report.ID, reporterID)
	return report, nil
}

// CanReportTarget is the non-throwing preflight: it runs the cooldown,
// existence and business-rule checks without writing anything.
func (s *ReportService) CanReportTarget(reporterID uuid.UUID, kind models.TargetKind, targetID uuid.UUID) (bool, string) {
	if !kind.Valid() {
		return false, ErrInvalidTargetKind.Error()
	}
	reporter, err := s.loadReporter(reporterID)
	if err != nil {
		return false, err.Error()
	}
	if err := s.checkCooldown(s.db, reporterID, kind, targetID); err != nil {
		return false, err.Error()
	}
	targetUser, targetListing, err := resolveTarget(s.db, kind, targetID)
	if err != nil {
		return false, err.Error()
	}
	if err := checkTargetRules(reporter, kind, targetUser, targetListing); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// RecentReportCount returns how many reports the user filed in the last 24
// hours, optionally narrowed to one target kind. Informational, used for
// rate-limit style messaging.
func (s *ReportService) RecentReportCount(reporterID uuid.UUID, kind models.TargetKind) (int64, error) {
	if kind != "" && !kind.Valid() {
		return 0, ErrInvalidTargetKind
	}

	threshold := time.Now().Add(-CooldownHours * time.Hour)
	q := s.db.Model(&models.Report{}).
		Where("reports.reporter_id = ? AND reports.created_at >= ?", reporterID, threshold)

	switch kind {
	case models.TargetUser:
		q = q.Joins("JOIN user_report_details d ON d.report_id = reports.id")
	case models.TargetListing:
		q = q.Joins("JOIN listing_report_details d ON d.report_id = reports.id")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListReports returns reports for the moderation panel, newest first.
func (s *ReportService) ListReports(status models.ReportStatus, limit, offset int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := s.db.Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	err := query.Preload("UserDetail").Preload("ListingDetail").
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// GetReport loads a single report with its detail row.
func (s *ReportService) GetReport(reportID uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := s.db.Preload("UserDetail").Preload("ListingDetail").
		First(&report, "id = ?", reportID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// AttachUserDetail links an existing detail-less report to a user target.
// Exists for repair tooling; the happy path always attaches at creation.
// Attaching to an already accepted report applies the penalty immediately.
func (s *ReportService) AttachUserDetail(reportID, reportedUserID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		report, err := loadReportForUpdate(tx, reportID)
		if err != nil {
			return err
		}
		return attachDetail(tx, s.notifier, report, models.ReportTarget{Kind: models.TargetUser, ID: reportedUserID})
	})
}

// AttachListingDetail is the listing counterpart of AttachUserDetail.
func (s *ReportService) AttachListingDetail(reportID, listingID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		report, err := loadReportForUpdate(tx, reportID)
		if err != nil {
			return err
		}
		return attachDetail(tx, s.notifier, report, models.ReportTarget{Kind: models.TargetListing, ID: listingID})
	})
}

func (s *ReportService) loadReporter(reporterID uuid.UUID) (*models.User, error) {
	var reporter models.User
	err := s.db.Preload("StudentProfile").Preload("LandlordProfile").
		First(&reporter, "id = ?", reporterID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reporter, nil
}

// checkCooldown fails when the reporter already filed a report against the
// same target inside the window. The most recent qualifying report drives
// the elapsed/remaining hour arithmetic.
func (s *ReportService) checkCooldown(tx *gorm.DB, reporterID uuid.UUID, kind models.TargetKind, targetID uuid.UUID) error {
	threshold := time.Now().Add(-CooldownHours * time.Hour)
	q := tx.Model(&models.Report{}).Select("reports.*").
		Where("reports.reporter_id = ? AND reports.created_at >= ?", reporterID, threshold)

	switch kind {
	case models.TargetUser:
		q = q.Joins("JOIN user_report_details d ON d.report_id = reports.id").
			Where("d.reported_user_id = ?", targetID)
	case models.TargetListing:
		q = q.Joins("JOIN listing_report_details d ON d.report_id = reports.id").
			Where("d.listing_id = ?", targetID)
	}

	var last models.Report
	err := q.Order("reports.created_at DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	elapsed := int(time.Since(last.CreatedAt).Hours())
	return &CooldownError{HoursElapsed: elapsed, HoursRemaining: CooldownHours - elapsed}
}

// resolveTarget validates target existence and returns the resolved entity.
// Exactly one of the returns is non-nil on success.
func resolveTarget(tx *gorm.DB, kind models.TargetKind, targetID uuid.UUID) (*models.User, *models.Listing, error) {
	switch kind {
	case models.TargetUser:
		var user models.User
		if err := tx.First(&user, "id = ?", targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrTargetNotFound
			}
			return nil, nil, err
		}
		return &user, nil, nil
	case models.TargetListing:
		var listing models.Listing
		if err := tx.First(&listing, "id = ?", targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrTargetNotFound
			}
			return nil, nil, err
		}
		return nil, &listing, nil
	}
	return nil, nil, ErrInvalidTargetKind
}

// checkTargetRules enforces who may report whom or what.
func checkTargetRules(reporter *models.User, kind models.TargetKind, targetUser *models.User, targetListing *models.Listing) error {
	switch kind {
	case models.TargetUser:
		if targetUser.ID == reporter.ID {
			return ErrSelfReport
		}
		if targetUser.IsStaff {
			return ErrCannotReportAdmin
		}
	case models.TargetListing:
		if !reporter.HasStudentRole() {
			return ErrNotAStudent
		}
		if reporter.HasLandlordRole() && targetListing.LandlordID == reporter.LandlordProfile.ID {
			return ErrOwnListing
		}
	}
	return nil
}

// loadReportForUpdate takes a row lock on the report so concurrent
// resolutions queue behind each other. The lock clause is a no-op on
// backends without row locking.
func loadReportForUpdate(tx *gorm.DB, reportID uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("UserDetail").Preload("ListingDetail").
		First(&report, "id = ?", reportID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// attachDetail inserts the single detail row for a report. A report that
// already carries a detail row of either kind is rejected with
// ErrTargetConflict; the happy path never hits this since the report id is
// always fresh. Attaching a user detail to a report that is already
// ACCEPTED applies the penalty as if the accept had just landed.
func attachDetail(tx *gorm.DB, notifier Notifier, report *models.Report, target models.ReportTarget) error {
	var conflicts int64
	tx.Model(&models.UserReportDetail{}).Where("report_id = ?", report.ID).Count(&conflicts)
	if conflicts == 0 {
		tx.Model(&models.ListingReportDetail{}).Where("report_id = ?", report.ID).Count(&conflicts)
	}
	if conflicts > 0 {
		return ErrTargetConflict
	}

	switch target.Kind {
	case models.TargetUser:
		detail := models.UserReportDetail{ReportID: report.ID, ReportedUserID: target.ID}
		if err := tx.Create(&detail).Error; err != nil {
			return fmt.Errorf("failed to create user report detail: %w", err)
		}
		if report.Status == models.StatusAccepted {
			return applyAcceptedUserPenalty(tx, notifier, target.ID)
		}
		return nil
	case models.TargetListing:
		detail := models.ListingReportDetail{ReportID: report.ID, ListingID: target.ID}
		if err := tx.Create(&detail).Error; err != nil {
			return fmt.Errorf("failed to create listing report detail: %w", err)
		}
		return nil
	}
	return ErrInvalidTargetKind
}
