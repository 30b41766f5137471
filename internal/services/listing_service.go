package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlexBKG/Umigo/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrNotALandlord     = errors.New("only landlords can manage listings")
	ErrNotListingOwner  = errors.New("listing belongs to another landlord")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrAlreadyFavorited = errors.New("listing already favorited")
)

// ListingService handles listing CRUD and the student-side engagement
// (favorites, reviews, comments).
type ListingService struct {
	db *gorm.DB
}

func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{db: db}
}

func (s *ListingService) CreateListing(userID uuid.UUID, title, description, address string, monthlyRent int) (*models.Listing, error) {
	title = strings.TrimSpace(title)
	if len(title) < 5 {
		return nil, errors.New("title must be at least 5 characters")
	}
	if monthlyRent <= 0 {
		return nil, errors.New("monthly rent must be positive")
	}

	landlord, err := s.landlordOf(userID)
	if err != nil {
		return nil, err
	}

	listing := &models.Listing{
		ID:          uuid.New(),
		LandlordID:  landlord.ID,
		Title:       title,
		Description: description,
		Address:     address,
		MonthlyRent: monthlyRent,
	}
	if err := s.db.Create(listing).Error; err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return listing, nil
}

func (s *ListingService) GetListing(listingID uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.Preload("Photos").First(&listing, "id = ?", listingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (s *ListingService) ListPublished(limit, offset int) ([]models.Listing, int64, error) {
	var listings []models.Listing
	var total int64

	query := s.db.Model(&models.Listing{}).Where("is_published = ?", true)
	query.Count(&total)

	err := query.Preload("Photos").
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&listings).Error
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// SetPublished toggles visibility; only the owning landlord may do it.
func (s *ListingService) SetPublished(userID, listingID uuid.UUID, published bool) error {
	listing, err := s.ownedListing(userID, listingID)
	if err != nil {
		return err
	}
	return s.db.Model(listing).Update("is_published", published).Error
}

func (s *ListingService) DeleteListing(userID, listingID uuid.UUID) error {
	listing, err := s.ownedListing(userID, listingID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		tx.Where("listing_id = ?", listing.ID).Delete(&models.ListingReportDetail{})
		tx.Where("listing_id = ?", listing.ID).Delete(&models.Favorite{})
		tx.Where("listing_id = ?", listing.ID).Delete(&models.Review{})
		tx.Where("listing_id = ?", listing.ID).Delete(&models.Comment{})
		tx.Where("listing_id = ?", listing.ID).Delete(&models.ListingPhoto{})
		return tx.Delete(listing).Error
	})
}

func (s *ListingService) AddPhoto(userID, listingID uuid.UUID, url string, position int) (*models.ListingPhoto, error) {
	listing, err := s.ownedListing(userID, listingID)
	if err != nil {
		return nil, err
	}
	photo := &models.ListingPhoto{
		ID:        uuid.New(),
		ListingID: listing.ID,
		URL:       url,
		Position:  position,
	}
	if err := s.db.Create(photo).Error; err != nil {
		return nil, fmt.Errorf("failed to add photo: %w", err)
	}
	return photo, nil
}

func (s *ListingService) Favorite(userID, listingID uuid.UUID) error {
	student, err := s.studentOf(userID)
	if err != nil {
		return err
	}
	if _, err := s.GetListing(listingID); err != nil {
		return err
	}

	var existing models.Favorite
	err = s.db.Where("student_id = ? AND listing_id = ?", student.ID, listingID).First(&existing).Error
	if err == nil {
		return ErrAlreadyFavorited
	}

	favorite := models.Favorite{ID: uuid.New(), StudentID: student.ID, ListingID: listingID}
	return s.db.Create(&favorite).Error
}

func (s *ListingService) Unfavorite(userID, listingID uuid.UUID) error {
	student, err := s.studentOf(userID)
	if err != nil {
		return err
	}
	return s.db.Where("student_id = ? AND listing_id = ?", student.ID, listingID).
		Delete(&models.Favorite{}).Error
}

// AddReview upserts the student's single review for a listing.
func (s *ListingService) AddReview(userID, listingID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	student, err := s.studentOf(userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetListing(listingID); err != nil {
		return nil, err
	}

	var review models.Review
	err = s.db.Where("student_id = ? AND listing_id = ?", student.ID, listingID).First(&review).Error
	if err == nil {
		err := s.db.Model(&review).Updates(map[string]interface{}{
			"rating":  rating,
			"comment": comment,
		}).Error
		if err != nil {
			return nil, err
		}
		review.Rating = rating
		review.Comment = comment
		return &review, nil
	}

	review = models.Review{
		ID:        uuid.New(),
		StudentID: student.ID,
		ListingID: listingID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.db.Create(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &review, nil
}

func (s *ListingService) AddComment(userID, listingID uuid.UUID, parentID *uuid.UUID, body string) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.New("comment body is required")
	}
	if _, err := s.GetListing(listingID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        uuid.New(),
		ListingID: listingID,
		AuthorID:  userID,
		ParentID:  parentID,
		Body:      body,
	}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

func (s *ListingService) ListComments(listingID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Where("listing_id = ?", listingID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (s *ListingService) landlordOf(userID uuid.UUID) (*models.LandlordProfile, error) {
	var landlord models.LandlordProfile
	if err := s.db.First(&landlord, "user_id = ?", userID).Error; err != nil {
		return nil, ErrNotALandlord
	}
	return &landlord, nil
}

func (s *ListingService) studentOf(userID uuid.UUID) (*models.StudentProfile, error) {
	var student models.StudentProfile
	if err := s.db.First(&student, "user_id = ?", userID).Error; err != nil {
		return nil, ErrNotAStudent
	}
	return &student, nil
}

func (s *ListingService) ownedListing(userID, listingID uuid.UUID) (*models.Listing, error) {
	landlord, err := s.landlordOf(userID)
	if err != nil {
		return nil, err
	}
	listing, err := s.GetListing(listingID)
	if err != nil {
		return nil, err
	}
	if listing.LandlordID != landlord.ID {
		return nil, ErrNotListingOwner
	}
	return listing, nil
}
