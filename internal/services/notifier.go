package services

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Notifier fires outbound user messaging. Delivery itself is owned by the
// mail infrastructure; the moderation engine only triggers it.
type Notifier interface {
	ReportReceived(reportID, reporterID uuid.UUID)
	UserSuspended(userID uuid.UUID, until time.Time)
	UserRemoved(userID uuid.UUID)
}

// LogNotifier is the default Notifier, writing triggers to the structured
// log until a mail sender is wired in.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (LogNotifier) ReportReceived(reportID, reporterID uuid.UUID) {
	slog.Info("report received", "report_id", reportID, "reporter_id", reporterID)
}

func (LogNotifier) UserSuspended(userID uuid.UUID, until time.Time) {
	slog.Info("user suspended", "user_id", userID, "until", until.Format("2006-01-02"))
}

func (LogNotifier) UserRemoved(userID uuid.UUID) {
	slog.Warn("user account removed", "user_id", userID)
}
