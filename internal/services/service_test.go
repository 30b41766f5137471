package services

import (
	"sync"
	"testing"
	"time"

	"github.com/AlexBKG/Umigo/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every session on the same in-memory DB.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.StudentProfile{},
		&models.LandlordProfile{},
		&models.RefreshToken{},
		&models.Listing{},
		&models.ListingPhoto{},
		&models.Favorite{},
		&models.Review{},
		&models.Comment{},
		&models.Moderator{},
		&models.Report{},
		&models.UserReportDetail{},
		&models.ListingReportDetail{},
	))

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// recordingNotifier captures triggers so tests can assert the penalty only
// fires once.
type recordingNotifier struct {
	mu        sync.Mutex
	received  int
	suspended []uuid.UUID
	removed   []uuid.UUID
}

func (n *recordingNotifier) ReportReceived(reportID, reporterID uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.received++
}

func (n *recordingNotifier) UserSuspended(userID uuid.UUID, until time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.suspended = append(n.suspended, userID)
}

func (n *recordingNotifier) UserRemoved(userID uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.removed = append(n.removed, userID)
}

func createUser(t *testing.T, db *gorm.DB, email string, staff bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		IsStaff:  staff,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createStudent(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := createUser(t, db, email, false)
	profile := &models.StudentProfile{ID: uuid.New(), UserID: user.ID, University: "UCN"}
	require.NoError(t, db.Create(profile).Error)
	user.StudentProfile = profile
	return user
}

func createLandlord(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := createUser(t, db, email, false)
	profile := &models.LandlordProfile{
		ID:                 uuid.New(),
		UserID:             user.ID,
		IdentificationType: "RUT",
	}
	require.NoError(t, db.Create(profile).Error)
	user.LandlordProfile = profile
	return user
}

func createListing(t *testing.T, db *gorm.DB, landlord *models.User) *models.Listing {
	t.Helper()
	require.NotNil(t, landlord.LandlordProfile)
	listing := &models.Listing{
		ID:          uuid.New(),
		LandlordID:  landlord.LandlordProfile.ID,
		Title:       "Habitacion cerca del campus",
		MonthlyRent: 250000,
		IsPublished: true,
	}
	require.NoError(t, db.Create(listing).Error)
	return listing
}

// backdate shifts a report's creation time for cooldown-window tests.
func backdate(t *testing.T, db *gorm.DB, reportID uuid.UUID, age time.Duration) {
	t.Helper()
	err := db.Model(&models.Report{}).Where("id = ?", reportID).
		Update("created_at", time.Now().Add(-age)).Error
	require.NoError(t, err)
}
