package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/event-ticketing/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/event-ticketing/internal/middleware" // import middleware for token authentication
	"github.com/iliyamo/event-ticketing/internal/token"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check. This
// endpoint can be used by load balancers or monitoring systems to verify
// that the service is up and running.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes. Register and
// login live under /v1/auth and need no token; status and logout require a
// valid one. The rate limiter wraps all of them so credential guessing
// stays expensive.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens *token.Service, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limit)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := middleware.TokenAuth(tokens)
	g.GET("/status", a.Status, auth)
	g.POST("/logout", a.Logout, auth)
}

// RegisterEvents registers the event and ticket routes. Event management
// requires an authenticated caller whose identity becomes the author of
// created rows. Redemption is deliberately unauthenticated: the ticket
// identifier is the capability, so only the rate limiter guards it.
func RegisterEvents(e *echo.Echo, ev *handler.EventHandler, tk *handler.TicketHandler, tokens *token.Service, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/events", middleware.TokenAuth(tokens))
	g.POST("", ev.Create)
	g.GET("/:id/status", ev.Status)
	g.POST("/:id/tickets", ev.AddTickets)
	g.GET("/:id/download", ev.Download)

	e.POST("/v1/tickets/:id/redeem", tk.Redeem, limit)
}
