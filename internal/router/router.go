package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lastresort-api/internal/config"
	"github.com/noah-isme/lastresort-api/internal/handler"
	"github.com/noah-isme/lastresort-api/internal/middleware"
	"github.com/noah-isme/lastresort-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CompetitionHandler  *handler.CompetitionHandler
	RegistrationHandler *handler.RegistrationHandler
	SubmissionHandler   *handler.SubmissionHandler
	ReviewHandler       *handler.ReviewHandler
	LeaderboardHandler  *handler.LeaderboardHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	authed := api.Group("", jwtMiddleware, middleware.RequireUser())

	if deps.CompetitionHandler != nil {
		competitions := authed.Group("/competitions")
		deps.CompetitionHandler.Register(competitions)
	}

	if deps.RegistrationHandler != nil {
		registrations := authed.Group("/registrations")
		deps.RegistrationHandler.Register(registrations)
	}

	if deps.SubmissionHandler != nil {
		submissions := authed.Group("/submissions")
		deps.SubmissionHandler.Register(submissions)
	}

	if deps.LeaderboardHandler != nil {
		leaderboard := authed.Group("/leaderboard")
		deps.LeaderboardHandler.Register(leaderboard)
	}

	// Admin surface. Authorization beyond authentication lives in the
	// services, which check the admin flag per operation.
	admin := authed.Group("/admin")

	if deps.ReviewHandler != nil {
		deps.ReviewHandler.Register(admin)
	}

	if deps.CompetitionHandler != nil {
		adminCompetitions := admin.Group("/competitions")
		deps.CompetitionHandler.RegisterAdmin(adminCompetitions)
	}
}
