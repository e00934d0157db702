package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler answers liveness probes.  It pings the database so a lost
// storage connection surfaces in monitoring before requests start failing.
type HealthHandler struct {
	DB *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler { return &HealthHandler{DB: db} }

type healthResp struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

// Health handles GET /health, used by load balancers and monitoring systems
// to verify that the service is running and its store is reachable.
func (h *HealthHandler) Health(c echo.Context) error {
	now := time.Now().UTC().Format(time.RFC3339)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, healthResp{
			Status:    "ERROR",
			Timestamp: now,
			Message:   "Service check failed: " + err.Error(),
		})
	}
	return c.JSON(http.StatusOK, healthResp{
		Status:    "OK",
		Timestamp: now,
		Message:   "Service is up and running.",
	})
}
