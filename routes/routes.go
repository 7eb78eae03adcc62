package routes

import (
	"github.com/gofiber/fiber/v2"

	"survivor-backend/controllers"
	"survivor-backend/middleware"
)

func RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Accounts
	api.Post("/register", controllers.Register)
	api.Get("/verify-email", controllers.VerifyEmail)
	api.Post("/resend-verification", controllers.ResendVerification)
	api.Post("/login", controllers.Login)
	api.Post("/login-link", controllers.RequestLoginLink)
	api.Get("/login-link/redeem", controllers.RedeemLoginLink)
	api.Get("/me", middleware.RequireAuth, controllers.GetMe)
	api.Get("/users", controllers.ListUsers)

	// Picks
	api.Get("/teams", controllers.GetTeamsForDay)
	api.Post("/picks", middleware.RequireAuth, controllers.SubmitPick)
	api.Get("/picks/board", middleware.OptionalAuth, controllers.GetBoard)
	api.Get("/standings", middleware.RequireAuth, controllers.GetStandings)

	// Comment board
	api.Get("/comments", controllers.ListComments)
	api.Post("/comments", middleware.RequireAuth, controllers.AddComment)
	api.Delete("/comments/:id", middleware.RequireAuth, controllers.DeleteComment)

	// Games
	api.Get("/games", controllers.ListGames)
	api.Post("/admin/update-games", middleware.RequireAuth, controllers.TriggerGameUpdate)

	// Contact
	api.Post("/contact", middleware.RequireAuth, controllers.ContactHandler)
}
