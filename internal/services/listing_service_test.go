package services

import (
	"testing"

	"github.com/AlexBKG/Umigo/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newListingService(t *testing.T) (*ListingService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewListingService(db), db
}

func TestCreateListingRequiresLandlord(t *testing.T) {
	svc, db := newListingService(t)
	student := createStudent(t, db, "student@test.cl")
	landlord := createLandlord(t, db, "landlord@test.cl")

	_, err := svc.CreateListing(student.ID, "Pieza amoblada", "", "", 180000)
	assert.ErrorIs(t, err, ErrNotALandlord)

	listing, err := svc.CreateListing(landlord.ID, "Pieza amoblada", "Cerca del campus", "Angamos 0610", 180000)
	require.NoError(t, err)
	assert.Equal(t, landlord.LandlordProfile.ID, listing.LandlordID)
	assert.False(t, listing.IsPublished)
}

func TestListPublishedHidesDrafts(t *testing.T) {
	svc, db := newListingService(t)
	landlord := createLandlord(t, db, "landlord@test.cl")
	published := createListing(t, db, landlord)

	draft, err := svc.CreateListing(landlord.ID, "Depto interior", "", "", 120000)
	require.NoError(t, err)

	listings, total, err := svc.ListPublished(20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, listings, 1)
	assert.Equal(t, published.ID, listings[0].ID)

	require.NoError(t, svc.SetPublished(landlord.ID, draft.ID, true))
	_, total, err = svc.ListPublished(20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestSetPublishedOwnerOnly(t *testing.T) {
	svc, db := newListingService(t)
	owner := createLandlord(t, db, "owner@test.cl")
	other := createLandlord(t, db, "other@test.cl")
	listing := createListing(t, db, owner)

	err := svc.SetPublished(other.ID, listing.ID, false)
	assert.ErrorIs(t, err, ErrNotListingOwner)

	err = svc.SetPublished(owner.ID, uuid.New(), false)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestFavoriteOncePerStudent(t *testing.T) {
	svc, db := newListingService(t)
	student := createStudent(t, db, "student@test.cl")
	landlord := createLandlord(t, db, "landlord@test.cl")
	listing := createListing(t, db, landlord)

	require.NoError(t, svc.Favorite(student.ID, listing.ID))
	assert.ErrorIs(t, svc.Favorite(student.ID, listing.ID), ErrAlreadyFavorited)

	assert.ErrorIs(t, svc.Favorite(landlord.ID, listing.ID), ErrNotAStudent)
	assert.ErrorIs(t, svc.Favorite(student.ID, uuid.New()), ErrListingNotFound)

	require.NoError(t, svc.Unfavorite(student.ID, listing.ID))
	require.NoError(t, svc.Favorite(student.ID, listing.ID))
}

func TestAddReviewUpserts(t *testing.T) {
	svc, db := newListingService(t)
	student := createStudent(t, db, "student@test.cl")
	landlord := createLandlord(t, db, "landlord@test.cl")
	listing := createListing(t, db, landlord)

	_, err := svc.AddReview(student.ID, listing.ID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = svc.AddReview(student.ID, listing.ID, 6, "")
	assert.ErrorIs(t, err, ErrInvalidRating)

	first, err := svc.AddReview(student.ID, listing.ID, 4, "Buena ubicacion")
	require.NoError(t, err)

	second, err := svc.AddReview(student.ID, listing.ID, 2, "Mucho ruido")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Rating)

	var count int64
	db.Model(&models.Review{}).Where("listing_id = ?", listing.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDeleteListingCascade(t *testing.T) {
	svc, db := newListingService(t)
	student := createStudent(t, db, "student@test.cl")
	landlord := createLandlord(t, db, "landlord@test.cl")
	listing := createListing(t, db, landlord)

	_, err := svc.AddPhoto(landlord.ID, listing.ID, "https://img.test/1.jpg", 0)
	require.NoError(t, err)
	require.NoError(t, svc.Favorite(student.ID, listing.ID))
	_, err = svc.AddReview(student.ID, listing.ID, 3, "")
	require.NoError(t, err)
	_, err = svc.AddComment(student.ID, listing.ID, nil, "Sigue disponible?")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteListing(landlord.ID, listing.ID))

	var count int64
	for _, model := range []interface{}{
		&models.Listing{}, &models.ListingPhoto{}, &models.Favorite{},
		&models.Review{}, &models.Comment{},
	} {
		q := db.Model(model)
		if _, ok := model.(*models.Listing); ok {
			q = q.Where("id = ?", listing.ID)
		} else {
			q = q.Where("listing_id = ?", listing.ID)
		}
		q.Count(&count)
		assert.Zero(t, count)
	}
}

func TestCommentsThread(t *testing.T) {
	svc, db := newListingService(t)
	student := createStudent(t, db, "student@test.cl")
	landlord := createLandlord(t, db, "landlord@test.cl")
	listing := createListing(t, db, landlord)

	question, err := svc.AddComment(student.ID, listing.ID, nil, "Acepta mascotas?")
	require.NoError(t, err)

	reply, err := svc.AddComment(landlord.ID, listing.ID, &question.ID, "Solo gatos.")
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, question.ID, *reply.ParentID)

	comments, err := svc.ListComments(listing.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 2)

	_, err = svc.AddComment(student.ID, listing.ID, nil, "   ")
	assert.Error(t, err)
}
