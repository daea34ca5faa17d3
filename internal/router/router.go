package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/tour-booking-api/internal/config"     // limiter configuration
	"github.com/iliyamo/tour-booking-api/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/tour-booking-api/internal/middleware" // request defense pipeline and auth middleware
	"github.com/iliyamo/tour-booking-api/internal/model"
	"github.com/iliyamo/tour-booking-api/internal/repository"
)

// Register wires every route and the defense pipeline onto the Echo
// instance. The pipeline order is fixed and significant: security
// headers run globally on everything; the rate limiter fronts the /api
// prefix; the body size cap rejects oversized payloads before the
// sanitizers spend any work on them; the sanitizers normalize input
// before the parameter-pollution pass collapses duplicates. Only then
// does a request reach a handler.
func Register(e *echo.Echo, cfg config.Config, rlCfg config.RateLimitConfig, rdb *redis.Client,
	a *handler.AuthHandler, u *handler.UserHandler, t *handler.TourHandler, users *repository.UserRepo) {

	e.HTTPErrorHandler = handler.HTTPErrorHandler

	// Headers apply to every response, health checks included.
	e.Use(middleware.SecurityHeaders())

	// Liveness check outside the rate-limited prefix.
	e.GET("/healthz", handler.Health)

	// Everything under /api traverses the full pipeline in order.
	api := e.Group("/api",
		middleware.RateLimit(rlCfg, rdb),
		middleware.BodyLimit(),
		middleware.SanitizeOperators(),
		middleware.SanitizeMarkup(),
		middleware.NormalizeParams(),
	)

	// Unauthenticated credential flows.
	usersGroup := api.Group("/v1/users")
	usersGroup.POST("/signup", a.Signup)
	usersGroup.POST("/login", a.Login)
	usersGroup.POST("/forgot-password", a.ForgotPassword)
	usersGroup.PATCH("/reset-password/:token", a.ResetPassword)

	// Protected credential and profile flows. Protect validates the
	// bearer, consults the credential store and rejects tokens minted
	// before the last password change.
	me := api.Group("/v1/users", middleware.Protect(cfg.JWTSecret, users))
	me.PATCH("/update-password", a.UpdatePassword)
	me.GET("/me", u.Me)
	me.PATCH("/me", u.UpdateMe)
	me.DELETE("/me", u.DeactivateMe)

	// Admin-only user listing, gated on the role recorded by Protect.
	admin := api.Group("/v1/users", middleware.Protect(cfg.JWTSecret, users),
		middleware.RequireRole(model.RoleAdmin))
	admin.GET("", u.List)

	// Public tour listing; exercises the filter allow-list of the
	// parameter-pollution stage.
	api.GET("/v1/tours", t.List)
}
