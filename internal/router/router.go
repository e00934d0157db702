package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/emoji-explainer/internal/handler"
	"github.com/iliyamo/emoji-explainer/internal/middleware"
	"github.com/iliyamo/emoji-explainer/internal/model"
	"github.com/iliyamo/emoji-explainer/internal/repository"
)

// RegisterHealth registers the probe endpoint.  It lives outside any group
// so load balancers can reach it without auth or throttling.
func RegisterHealth(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/health", h.Health)
}

// RegisterEmoji registers the emoji endpoints.  The rate limiter wraps only
// these routes: they are the ones that can fan out to the LLM provider.
func RegisterEmoji(e *echo.Echo, h *handler.EmojiHandler, limiter echo.MiddlewareFunc) {
	e.POST("/emoji/explain", h.Explain, limiter)
	e.POST("/api/emoji/receive", h.Receive, limiter)
	e.GET("/api/emoji/status", h.Status)
}

// RegisterUsers registers the identity endpoints.  Role update is the only
// privileged operation: it requires an active ADMIN session, enforced by
// SessionAuth followed by the role guard.
func RegisterUsers(e *echo.Echo, a *handler.AuthHandler, sessions *repository.SessionRepo, users *repository.UserRepo) {
	g := e.Group("/users")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
	g.GET("/session/verify", a.Verify)
	g.PUT("/role/update", a.UpdateRole,
		middleware.SessionAuth(sessions, users),
		middleware.RequireRole(model.RoleAdmin),
	)
}

// RegisterServer registers the server-management endpoints used by service
// managers for monitoring and resource adjustment.
func RegisterServer(e *echo.Echo, h *handler.ServerHandler) {
	g := e.Group("/api/server")
	g.GET("/status", h.Status)
	g.GET("/allocations", h.Allocations)
	g.PATCH("/update", h.UpdateResources)
	g.DELETE("/resource", h.DeleteResource)
}
