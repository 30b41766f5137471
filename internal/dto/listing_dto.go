package dto

import "github.com/google/uuid"

type CreateListingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Address     string `json:"address"`
	MonthlyRent int    `json:"monthly_rent"`
}

type AddPhotoRequest struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
}

type AddReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type AddCommentRequest struct {
	Body     string     `json:"body"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

type PublishRequest struct {
	Published bool `json:"published"`
}
