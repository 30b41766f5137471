package handlers

import (
	"errors"

	"github.com/AlexBKG/Umigo/internal/dto"
	"github.com/AlexBKG/Umigo/internal/middleware"
	"github.com/AlexBKG/Umigo/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ListingHandler struct {
	listingService *services.ListingService
}

func NewListingHandler(listingService *services.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateListingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	listing, err := h.listingService.CreateListing(userID, req.Title, req.Description, req.Address, req.MonthlyRent)
	if err != nil {
		if errors.Is(err, services.ErrNotALandlord) {
			return forbidden(c, err.Error())
		}
		return badRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(listing)
}

func (h *ListingHandler) Get(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid listing ID")
	}

	listing, err := h.listingService.GetListing(listingID)
	if err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			return notFound(c, err.Error())
		}
		return internalError(c, "Failed to fetch listing")
	}

	return c.JSON(listing)
}

func (h *ListingHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit > 100 {
		limit = 100
	}

	listings, total, err := h.listingService.ListPublished(limit, offset)
	if err != nil {
		return internalError(c, "Failed to fetch listings")
	}

	return c.JSON(fiber.Map{
		"listings": listings,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *ListingHandler) SetPublished(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	listingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid listing ID")
	}

	var req dto.PublishRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.listingService.SetPublished(userID, listingID, req.Published); err != nil {
		return listingError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Listing updated"})
}

func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	listingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid listing ID")
	}

	if err := h.listingService.DeleteListing(userID, listingID); err != nil {
		return listingError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Listing deleted"})
}

func (h *ListingHandler) AddPhoto(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	listingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid listing ID")
	}

	var req dto.AddPhotoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	photo, err := h.listingService.AddPhoto(userID, listingID, req.URL, req.Position)
	if err != nil {
		return listingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(photo)
}

func (h *ListingHandler) Favorite(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	listingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid listing ID")
	}

	if err := h.listingService.Favorite(userID, listingID); err != nil {
		if errors.Is(err, services.ErrAlreadyFavorited) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return listingError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Listing favorited"})
}

func (h *ListingHandler) Unfavorite(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	listingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid listing ID")
	}

	if err := h.listingService.Unfavorite(userID, listingID); err != nil {
		return listingError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Favorite removed"})
}

func (h *ListingHandler) AddReview(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	listingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid listing ID")
	}

	var req dto.AddReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	review, err := h.listingService.AddReview(userID, listingID, req.Rating, req.Comment)
	if err != nil {
		return listingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *ListingHandler) AddComment(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	listingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid listing ID")
	}

	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	comment, err := h.listingService.AddComment(userID, listingID, req.ParentID, req.Body)
	if err != nil {
		return listingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *ListingHandler) ListComments(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid listing ID")
	}

	comments, err := h.listingService.ListComments(listingID)
	if err != nil {
		return internalError(c, "Failed to fetch comments")
	}
	return c.JSON(fiber.Map{"comments": comments})
}

func listingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrListingNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, services.ErrNotALandlord),
		errors.Is(err, services.ErrNotAStudent),
		errors.Is(err, services.ErrNotListingOwner):
		return forbidden(c, err.Error())
	}
	return badRequest(c, err.Error())
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func forbidden(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func internalError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: msg})
}
