package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/AlexBKG/Umigo/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SuspensionDays is the length of the first-offence suspension.
const SuspensionDays = 30

var (
	ErrReportNotFound    = errors.New("report not found")
	ErrInvalidTransition = errors.New("report is already resolved")
	ErrMissingReviewer   = errors.New("a moderator is required to resolve a report")
	ErrNotStaff          = errors.New("only staff can moderate reports")
)

// ModerationService governs report status transitions and the escalating
// penalty applied when a report against a user is accepted.
type ModerationService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewModerationService(db *gorm.DB, notifier Notifier) *ModerationService {
	return &ModerationService{db: db, notifier: notifier}
}

// EnsureModerator resolves the acting staff principal to a Moderator
// record, creating one on first use. Non-staff principals are rejected.
func (s *ModerationService) EnsureModerator(userID uuid.UUID) (*models.Moderator, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsStaff {
		return nil, ErrNotStaff
	}

	var moderator models.Moderator
	err := s.db.First(&moderator, "user_id = ?", userID).Error
	if err == nil {
		return &moderator, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	moderator = models.Moderator{ID: uuid.New(), UserID: userID}
	if err := s.db.Create(&moderator).Error; err != nil {
		// Lost a provisioning race against another request for the same
		// staff user; the winner's row is the moderator.
		if ferr := s.db.First(&moderator, "user_id = ?", userID).Error; ferr != nil {
			return nil, fmt.Errorf("failed to provision moderator: %w", err)
		}
	}
	return &moderator, nil
}

// Transition moves a report out of UNDER_REVIEW. ACCEPTED and REJECTED are
// terminal: once there the report is immutable and a second transition
// attempt fails with ErrInvalidTransition, so the penalty can only fire on
// a genuine accept edge. The status check and the penalty share one
// transaction with the update.
func (s *ModerationService) Transition(reportID uuid.UUID, newStatus models.ReportStatus, moderator *models.Moderator) (*models.Report, error) {
	if newStatus != models.StatusAccepted && newStatus != models.StatusRejected {
		return nil, ErrInvalidTransition
	}
	if moderator == nil {
		return nil, ErrMissingReviewer
	}

	var report *models.Report
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		report, err = loadReportForUpdate(tx, reportID)
		if err != nil {
			return err
		}
		if report.Status.Terminal() || report.Status == newStatus {
			return ErrInvalidTransition
		}

		updates := map[string]interface{}{
			"status":      newStatus,
			"reviewed_by": moderator.ID,
		}
		now := time.Now()
		if report.ReviewedAt == nil {
			updates["reviewed_at"] = now
		}
		// The status guard makes the UPDATE the authority: a competing
		// transition that committed after our read leaves zero rows here.
		res := tx.Model(&models.Report{}).
			Where("id = ? AND status = ?", report.ID, models.StatusUnderReview).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update report: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		report.Status = newStatus
		report.ReviewedBy = &moderator.ID
		if report.ReviewedAt == nil {
			report.ReviewedAt = &now
		}

		if newStatus == models.StatusAccepted && report.UserDetail != nil {
			return applyAcceptedUserPenalty(tx, s.notifier, report.UserDetail.ReportedUserID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// applyAcceptedUserPenalty runs the escalating, count-based penalty. The
// count includes the report whose accept triggered the call: one accepted
// report suspends the user for 30 days at date granularity, two or more
// remove the account outright. Counts never decrement.
func applyAcceptedUserPenalty(tx *gorm.DB, notifier Notifier, reportedUserID uuid.UUID) error {
	// Row lock on the penalized user: concurrent accepts against the same
	// target queue here, so each count includes every committed accept.
	var reported models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").First(&reported, "id = ?", reportedUserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Already removed; nothing left to penalize.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load reported user: %w", err)
	}

	var accepted int64
	err = tx.Model(&models.UserReportDetail{}).
		Joins("JOIN reports ON reports.id = user_report_details.report_id").
		Where("user_report_details.reported_user_id = ? AND reports.status = ?",
			reportedUserID, models.StatusAccepted).
		Count(&accepted).Error
	if err != nil {
		return fmt.Errorf("failed to count accepted reports: %w", err)
	}

	switch {
	case accepted == 1:
		until := datatypes.Date(time.Now().AddDate(0, 0, SuspensionDays))
		err := tx.Model(&models.User{}).Where("id = ?", reportedUserID).
			Updates(map[string]interface{}{
				"is_active":         false,
				"suspension_end_at": until,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to suspend user: %w", err)
		}
		notifier.UserSuspended(reportedUserID, time.Time(until))
	case accepted >= 2:
		if err := hardDeleteUser(tx, reportedUserID); err != nil {
			return fmt.Errorf("failed to remove user: %w", err)
		}
		notifier.UserRemoved(reportedUserID)
	}
	return nil
}

// hardDeleteUser permanently removes an account and its dependent rows.
// Reports filed against the user keep their verdict but lose the detail
// row, matching the cascade policy of the user directory.
func hardDeleteUser(tx *gorm.DB, userID uuid.UUID) error {
	var landlord models.LandlordProfile
	if err := tx.First(&landlord, "user_id = ?", userID).Error; err == nil {
		var listingIDs []uuid.UUID
		tx.Model(&models.Listing{}).Where("landlord_id = ?", landlord.ID).Pluck("id", &listingIDs)
		if len(listingIDs) > 0 {
			tx.Where("listing_id IN ?", listingIDs).Delete(&models.ListingReportDetail{})
			tx.Where("listing_id IN ?", listingIDs).Delete(&models.Favorite{})
			tx.Where("listing_id IN ?", listingIDs).Delete(&models.Review{})
			tx.Where("listing_id IN ?", listingIDs).Delete(&models.Comment{})
			tx.Where("listing_id IN ?", listingIDs).Delete(&models.ListingPhoto{})
			tx.Where("id IN ?", listingIDs).Delete(&models.Listing{})
		}
		tx.Delete(&landlord)
	}

	var student models.StudentProfile
	if err := tx.First(&student, "user_id = ?", userID).Error; err == nil {
		tx.Where("student_id = ?", student.ID).Delete(&models.Favorite{})
		tx.Where("student_id = ?", student.ID).Delete(&models.Review{})
		tx.Delete(&student)
	}

	var authored []uuid.UUID
	tx.Model(&models.Report{}).Where("reporter_id = ?", userID).Pluck("id", &authored)
	if len(authored) > 0 {
		tx.Where("report_id IN ?", authored).Delete(&models.UserReportDetail{})
		tx.Where("report_id IN ?", authored).Delete(&models.ListingReportDetail{})
		tx.Where("id IN ?", authored).Delete(&models.Report{})
	}

	tx.Where("reported_user_id = ?", userID).Delete(&models.UserReportDetail{})
	tx.Where("author_id = ?", userID).Delete(&models.Comment{})
	tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{})
	return tx.Where("id = ?", userID).Delete(&models.User{}).Error
}
