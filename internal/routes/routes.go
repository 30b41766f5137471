package routes

import (
	"time"

	"github.com/AlexBKG/Umigo/internal/config"
	"github.com/AlexBKG/Umigo/internal/handlers"
	"github.com/AlexBKG/Umigo/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	listingHandler *handlers.ListingHandler,
	reportHandler *handlers.ReportHandler,
	moderationHandler *handlers.ModerationHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth is public with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Listings: browsing is public, everything else requires JWT
	api.Get("/listings", listingHandler.List)
	api.Get("/listings/:id", listingHandler.Get)
	api.Get("/listings/:id/comments", listingHandler.ListComments)

	api.Post("/listings", middleware.JWTProtected(cfg), listingHandler.Create)
	api.Put("/listings/:id/publish", middleware.JWTProtected(cfg), listingHandler.SetPublished)
	api.Delete("/listings/:id", middleware.JWTProtected(cfg), listingHandler.Delete)
	api.Post("/listings/:id/photos", middleware.JWTProtected(cfg), listingHandler.AddPhoto)
	api.Post("/listings/:id/favorite", middleware.JWTProtected(cfg), listingHandler.Favorite)
	api.Delete("/listings/:id/favorite", middleware.JWTProtected(cfg), listingHandler.Unfavorite)
	api.Post("/listings/:id/reviews", middleware.JWTProtected(cfg), listingHandler.AddReview)
	api.Post("/listings/:id/comments", middleware.JWTProtected(cfg), listingHandler.AddComment)

	// Reports, user endpoints (protected)
	api.Post("/reports", middleware.JWTProtected(cfg), reportHandler.CreateReport)
	api.Get("/reports/preflight", middleware.JWTProtected(cfg), reportHandler.CanReport)
	api.Get("/reports/recent-count", middleware.JWTProtected(cfg), reportHandler.RecentCount)

	// Moderation panel (protected + staff required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.StaffRequired(db))
	admin.Get("/moderation/reports", moderationHandler.ListReports)
	admin.Get("/moderation/reports/:id", moderationHandler.GetReport)
	admin.Put("/moderation/reports/:id", moderationHandler.TransitionReport)
}
