package services

import (
	"testing"
	"time"

	"github.com/AlexBKG/Umigo/internal/config"
	"github.com/AlexBKG/Umigo/internal/dto"
	"github.com/AlexBKG/Umigo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
	}
	return NewAuthService(db, cfg), db
}

func TestRegisterRoles(t *testing.T) {
	svc, db := newAuthService(t)

	t.Run("at least one role", func(t *testing.T) {
		_, err := svc.Register(&dto.RegisterRequest{
			Email:    "norole@test.cl",
			Password: "password123",
		})
		assert.Error(t, err)
	})

	t.Run("both roles", func(t *testing.T) {
		resp, err := svc.Register(&dto.RegisterRequest{
			Email:              "both@test.cl",
			Password:           "password123",
			AsStudent:          true,
			University:         "UCN",
			AsLandlord:         true,
			IdentificationType: "RUT",
		})
		require.NoError(t, err)
		assert.True(t, resp.User.IsStudent)
		assert.True(t, resp.User.IsLandlord)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)

		var stored models.User
		err = db.Preload("StudentProfile").Preload("LandlordProfile").
			First(&stored, "email = ?", "both@test.cl").Error
		require.NoError(t, err)
		assert.NotNil(t, stored.StudentProfile)
		assert.NotNil(t, stored.LandlordProfile)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(&dto.RegisterRequest{
			Email:     "both@test.cl",
			Password:  "password123",
			AsStudent: true,
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestLoginSuspendedAccount(t *testing.T) {
	svc, db := newAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{
		Email:     "student@test.cl",
		Password:  "password123",
		AsStudent: true,
	})
	require.NoError(t, err)

	resp, err := svc.Login(&dto.LoginRequest{Email: "student@test.cl", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(&dto.LoginRequest{Email: "student@test.cl", Password: "wrongpass123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Suspended accounts authenticate but may not log in.
	err = db.Model(&models.User{}).Where("email = ?", "student@test.cl").
		Update("is_active", false).Error
	require.NoError(t, err)

	_, err = svc.Login(&dto.LoginRequest{Email: "student@test.cl", Password: "password123"})
	assert.ErrorIs(t, err, ErrAccountSuspended)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _ := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:     "student@test.cl",
		Password:  "password123",
		AsStudent: true,
	})
	require.NoError(t, err)

	rotated, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, rotated.RefreshToken)

	// The old token is single use.
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: rotated.RefreshToken}))
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: rotated.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeleteAccount(t *testing.T) {
	svc, db := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:     "student@test.cl",
		Password:  "password123",
		AsStudent: true,
	})
	require.NoError(t, err)
	userID := resp.User.ID

	err = svc.DeleteAccount(userID, "wrongpass123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.DeleteAccount(userID, "password123"))

	var count int64
	db.Model(&models.User{}).Where("id = ?", userID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.StudentProfile{}).Where("user_id = ?", userID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.RefreshToken{}).Where("user_id = ?", userID).Count(&count)
	assert.Zero(t, count)
}
