package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/AlexBKG/Umigo/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const validReason = "Comportamiento inapropiado"

func newReportService(t *testing.T) (*ReportService, *recordingNotifier, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	return NewReportService(db, notifier), notifier, db
}

func TestCreateReportReasonBoundaries(t *testing.T) {
	svc, _, db := newReportService(t)
	reporter := createStudent(t, db, "reporter@test.cl")
	target := createUser(t, db, "target@test.cl", false)

	cases := []struct {
		name   string
		reason string
		ok     bool
	}{
		{"nine chars fails", strings.Repeat("a", 9), false},
		{"ten chars passes", strings.Repeat("a", 10), true},
		{"255 chars passes", strings.Repeat("b", 255), true},
		{"256 chars fails", strings.Repeat("c", 256), false},
		{"whitespace only fails", "             ", false},
		// Bounds are rune counts, not byte counts.
		{"nine accented runes fail", strings.Repeat("ñ", 9), false},
		{"ten accented runes pass", strings.Repeat("ñ", 10), true},
		{"255 accented runes pass", strings.Repeat("ñ", 255), true},
		{"256 accented runes fail", strings.Repeat("ñ", 256), false},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Each attempt targets a fresh user to stay out of cooldown.
			victim := target
			if i > 0 {
				victim = createUser(t, db, uuid.NewString()+"@test.cl", false)
			}
			_, err := svc.CreateReport(reporter.ID, tc.reason, models.TargetUser, victim.ID)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidReason)
			}
		})
	}
}

func TestCreateReportInvalidKind(t *testing.T) {
	svc, _, db := newReportService(t)
	reporter := createStudent(t, db, "reporter@test.cl")

	_, err := svc.CreateReport(reporter.ID, validReason, models.TargetKind("COMMENT"), uuid.New())
	assert.ErrorIs(t, err, ErrInvalidTargetKind)
}

func TestCreateReportTargetNotFound(t *testing.T) {
	svc, _, db := newReportService(t)
	reporter := createStudent(t, db, "reporter@test.cl")

	_, err := svc.CreateReport(reporter.ID, validReason, models.TargetUser, uuid.New())
	assert.ErrorIs(t, err, ErrTargetNotFound)

	_, err = svc.CreateReport(reporter.ID, validReason, models.TargetListing, uuid.New())
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestCreateReportBusinessRules(t *testing.T) {
	svc, _, db := newReportService(t)

	student := createStudent(t, db, "student@test.cl")
	staff := createUser(t, db, "admin@test.cl", true)
	landlord := createLandlord(t, db, "landlord@test.cl")
	listing := createListing(t, db, landlord)

	t.Run("self report", func(t *testing.T) {
		_, err := svc.CreateReport(student.ID, validReason, models.TargetUser, student.ID)
		assert.ErrorIs(t, err, ErrSelfReport)
	})

	t.Run("cannot report admin", func(t *testing.T) {
		_, err := svc.CreateReport(student.ID, validReason, models.TargetUser, staff.ID)
		assert.ErrorIs(t, err, ErrCannotReportAdmin)
	})

	t.Run("landlord cannot report listings", func(t *testing.T) {
		other := createLandlord(t, db, "other.landlord@test.cl")
		_, err := svc.CreateReport(other.ID, validReason, models.TargetListing, listing.ID)
		assert.ErrorIs(t, err, ErrNotAStudent)
	})

	t.Run("own listing", func(t *testing.T) {
		// A landlord who also holds a student profile passes the student
		// check but still cannot report their own listing.
		profile := &models.StudentProfile{ID: uuid.New(), UserID: landlord.ID}
		require.NoError(t, db.Create(profile).Error)

		_, err := svc.CreateReport(landlord.ID, validReason, models.TargetListing, listing.ID)
		assert.ErrorIs(t, err, ErrOwnListing)
	})

	t.Run("student reports listing", func(t *testing.T) {
		report, err := svc.CreateReport(student.ID, validReason, models.TargetListing, listing.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusUnderReview, report.Status)
	})
}

func TestCreateReportDetailInvariants(t *testing.T) {
	svc, notifier, db := newReportService(t)
	reporter := createStudent(t, db, "reporter@test.cl")
	target := createUser(t, db, "target@test.cl", false)

	report, err := svc.CreateReport(reporter.ID, validReason, models.TargetUser, target.ID)
	require.NoError(t, err)

	loaded, err := svc.GetReport(report.ID)
	require.NoError(t, err)

	// New reports are unreviewed with exactly one detail row.
	assert.Equal(t, models.StatusUnderReview, loaded.Status)
	assert.Nil(t, loaded.ReviewedBy)
	assert.Nil(t, loaded.ReviewedAt)
	require.NotNil(t, loaded.UserDetail)
	assert.Nil(t, loaded.ListingDetail)

	tgt, ok := loaded.Target()
	require.True(t, ok)
	assert.Equal(t, models.TargetUser, tgt.Kind)
	assert.Equal(t, target.ID, tgt.ID)

	assert.Equal(t, 1, notifier.received)
}

func TestAttachDetailXORConflict(t *testing.T) {
	svc, _, db := newReportService(t)
	reporter := createStudent(t, db, "reporter@test.cl")
	target := createUser(t, db, "target@test.cl", false)
	landlord := createLandlord(t, db, "landlord@test.cl")
	listing := createListing(t, db, landlord)

	report, err := svc.CreateReport(reporter.ID, validReason, models.TargetUser, target.ID)
	require.NoError(t, err)

	err = svc.AttachListingDetail(report.ID, listing.ID)
	assert.ErrorIs(t, err, ErrTargetConflict)

	err = svc.AttachUserDetail(report.ID, target.ID)
	assert.ErrorIs(t, err, ErrTargetConflict)
}

func TestCooldownBoundary(t *testing.T) {
	svc, _, db := newReportService(t)
	reporter := createStudent(t, db, "reporter@test.cl")
	target := createUser(t, db, "target@test.cl", false)

	first, err := svc.CreateReport(reporter.ID, validReason, models.TargetUser, target.ID)
	require.NoError(t, err)

	t.Run("inside window fails with hour arithmetic", func(t *testing.T) {
		backdate(t, db, first.ID, 23*time.Hour+59*time.Minute)

		_, err := svc.CreateReport(reporter.ID, validReason, models.TargetUser, target.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCooldownActive)

		var cooldown *CooldownError
		require.True(t, errors.As(err, &cooldown))
		assert.Equal(t, 23, cooldown.HoursElapsed)
		assert.Equal(t, 1, cooldown.HoursRemaining)
	})

	t.Run("different target is unaffected", func(t *testing.T) {
		other := createUser(t, db, "other@test.cl", false)
		_, err := svc.CreateReport(reporter.ID, validReason, models.TargetUser, other.ID)
		assert.NoError(t, err)
	})

	t.Run("after window succeeds", func(t *testing.T) {
		backdate(t, db, first.ID, 24*time.Hour+time.Minute)

		_, err := svc.CreateReport(reporter.ID, validReason, models.TargetUser, target.ID)
		assert.NoError(t, err)
	})
}

func TestCanReportTarget(t *testing.T) {
	svc, _, db := newReportService(t)
	reporter := createStudent(t, db, "reporter@test.cl")
	target := createUser(t, db, "target@test.cl", false)

	ok, reason := svc.CanReportTarget(reporter.ID, models.TargetUser, target.ID)
	assert.True(t, ok)
	assert.Empty(t, reason)

	// Preflight writes nothing.
	var count int64
	db.Model(&models.Report{}).Count(&count)
	assert.Zero(t, count)

	_, err := svc.CreateReport(reporter.ID, validReason, models.TargetUser, target.ID)
	require.NoError(t, err)

	ok, reason = svc.CanReportTarget(reporter.ID, models.TargetUser, target.ID)
	assert.False(t, ok)
	assert.Contains(t, reason, "hour")

	ok, reason = svc.CanReportTarget(reporter.ID, models.TargetUser, reporter.ID)
	assert.False(t, ok)
	assert.Equal(t, ErrSelfReport.Error(), reason)
}

func TestRecentReportCount(t *testing.T) {
	svc, _, db := newReportService(t)
	reporter := createStudent(t, db, "reporter@test.cl")
	userTarget := createUser(t, db, "target@test.cl", false)
	landlord := createLandlord(t, db, "landlord@test.cl")
	listing := createListing(t, db, landlord)

	userReport, err := svc.CreateReport(reporter.ID, validReason, models.TargetUser, userTarget.ID)
	require.NoError(t, err)
	_, err = svc.CreateReport(reporter.ID, validReason, models.TargetListing, listing.ID)
	require.NoError(t, err)

	total, err := svc.RecentReportCount(reporter.ID, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	users, err := svc.RecentReportCount(reporter.ID, models.TargetUser)
	require.NoError(t, err)
	assert.EqualValues(t, 1, users)

	listings, err := svc.RecentReportCount(reporter.ID, models.TargetListing)
	require.NoError(t, err)
	assert.EqualValues(t, 1, listings)

	// Reports older than the window drop out.
	backdate(t, db, userReport.ID, 25*time.Hour)
	total, err = svc.RecentReportCount(reporter.ID, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, err = svc.RecentReportCount(reporter.ID, models.TargetKind("FOO"))
	assert.ErrorIs(t, err, ErrInvalidTargetKind)
}
