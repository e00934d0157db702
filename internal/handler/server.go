package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/iliyamo/emoji-explainer/internal/service"
)

const bytesPerGB = 1024 * 1024 * 1024

// ServerHandler bundles dependencies for the server-management endpoints
// used by service managers: live resource sampling, allocation adjustments
// and freeing cached explanation resources.
type ServerHandler struct {
	Resources *service.ResourceManager
	Explainer *service.Explainer
}

func NewServerHandler(rm *service.ResourceManager, explainer *service.Explainer) *ServerHandler {
	return &ServerHandler{Resources: rm, Explainer: explainer}
}

type serverStatusResp struct {
	CPUUtilization     float64   `json:"cpu_utilization"`
	MemoryUtilization  float64   `json:"memory_utilization"`
	DiskSpaceRemaining float64   `json:"disk_space_remaining"`
	NetworkStatus      string    `json:"network_status"`
	LastUpdateTime     time.Time `json:"last_update_time"`
}

type resourceUpdateReq struct {
	CPUAllocationIncrement       float64 `json:"cpu_allocation_increment"`
	RAMAllocationIncrement       float64 `json:"ram_allocation_increment"`
	DiskSpaceAllocationIncrement float64 `json:"disk_space_allocation_increment"`
}

type resourceUpdateResp struct {
	CPUUpdatedAllocation       float64 `json:"cpu_updated_allocation"`
	RAMUpdatedAllocation       float64 `json:"ram_updated_allocation"`
	DiskSpaceUpdatedAllocation float64 `json:"disk_space_updated_allocation"`
	Message                    string  `json:"message"`
}

// Status handles GET /api/server/status: point-in-time OS samples with no
// derived state beyond byte-to-gigabyte conversion.  The CPU sample spans
// one second, so this endpoint deliberately takes about that long.
func (h *ServerHandler) Status(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cpuPercents, err := cpu.PercentWithContext(ctx, time.Second, false)
	if err != nil || len(cpuPercents) == 0 {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cpu sample failed"})
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "memory sample failed"})
	}
	du, err := disk.UsageWithContext(ctx, "/")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "disk sample failed"})
	}

	return c.JSON(http.StatusOK, serverStatusResp{
		CPUUtilization:     cpuPercents[0],
		MemoryUtilization:  float64(vm.Used) / bytesPerGB,
		DiskSpaceRemaining: float64(du.Free) / bytesPerGB,
		NetworkStatus:      "healthy",
		LastUpdateTime:     time.Now().UTC(),
	})
}

type allocationsResp struct {
	CPUAllocation       float64   `json:"cpu_allocation"`
	RAMAllocation       float64   `json:"ram_allocation"`
	DiskSpaceAllocation float64   `json:"disk_space_allocation"`
	LastUpdateTime      time.Time `json:"last_update_time"`
}

// Allocations handles GET /api/server/allocations: report the current
// resource allocations without sampling the OS.
func (h *ServerHandler) Allocations(c echo.Context) error {
	a := h.Resources.Snapshot()
	return c.JSON(http.StatusOK, allocationsResp{
		CPUAllocation:       a.CPUPercent,
		RAMAllocation:       a.RAMGB,
		DiskSpaceAllocation: a.DiskGB,
		LastUpdateTime:      a.UpdatedAt,
	})
}

// UpdateResources handles PATCH /api/server/update: apply allocation
// increments to the in-process resource state and confirm the new totals.
func (h *ServerHandler) UpdateResources(c echo.Context) error {
	var req resourceUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	alloc := h.Resources.Apply(
		req.CPUAllocationIncrement,
		req.RAMAllocationIncrement,
		req.DiskSpaceAllocationIncrement,
	)

	return c.JSON(http.StatusOK, resourceUpdateResp{
		CPUUpdatedAllocation:       alloc.CPUPercent,
		RAMUpdatedAllocation:       alloc.RAMGB,
		DiskSpaceUpdatedAllocation: alloc.DiskGB,
		Message:                    "Server resources successfully updated.",
	})
}

// DeleteResource handles DELETE /api/server/resource: remove a stored
// explanation by id, freeing the cached resource.  The explanation service
// also drops the redis entry for the symbol, so the next lookup for that
// emoji goes back to the provider.
func (h *ServerHandler) DeleteResource(c echo.Context) error {
	idStr := strings.TrimSpace(c.QueryParam("resource_id"))
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "resource_id must be a positive integer"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	deleted, err := h.Explainer.Delete(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "resource allocation not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Resource allocation deleted successfully."})
}
