package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/item-lending/internal/api/http/handlers"
	"github.com/spec-kit/item-lending/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Items          *handlers.ItemsHandler
	Loans          *handlers.LoansHandler
	Listing        *handlers.ListingHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Get("/items", cfg.Listing.ListItems)

	app.Post("/users", cfg.Users.Register)

	user := app.Group("/users/:name/:phone")
	user.Get("", cfg.Users.Get)
	user.Get("/items/:item", cfg.Items.GetItem)
	user.Get("/items/:item/attributes/:attr", cfg.Items.GetAttribute)
	user.Get("/items/:item/loans", cfg.Items.LoanHistory)
	user.Get("/items/:item/loan", cfg.Items.OpenLoan)

	authn, self := cfg.AuthMiddleware.Handle, auth.RequireSelf()
	user.Patch("", authn, self, cfg.Users.UpdateEmail)
	user.Delete("", authn, self, cfg.Users.Delete)
	user.Post("/items", authn, self, cfg.Items.CreateItem)
	user.Put("/items/:item/attributes/:attr", authn, self, cfg.Items.UpdateAttribute)
	user.Delete("/items/:item", authn, self, cfg.Items.DeleteItem)
	user.Post("/items/:item/lost-pieces", authn, self, cfg.Items.AddLostPiece)
	user.Post("/items/:item/episodes", authn, self, cfg.Items.AddEpisode)

	app.Post("/loans", authn, cfg.Loans.RegisterLoan)
	app.Post("/loans/return", authn, cfg.Loans.ReturnItem)
}
