package service

import (
	"sync"
	"time"
)

// Allocations is a snapshot of the server resource allocations managed
// through the PATCH /api/server/update endpoint.
type Allocations struct {
	CPUPercent float64 // allocated CPU, in percentage points
	RAMGB      float64 // allocated RAM, in gigabytes
	DiskGB     float64 // allocated disk space, in gigabytes
	UpdatedAt  time.Time
}

// ResourceManager tracks resource allocations as explicit in-process shared
// state.  Baselines follow the service's provisioning defaults; increments
// may be negative.  A mutex guards concurrent PATCH requests.
type ResourceManager struct {
	mu  sync.Mutex
	cur Allocations
}

func NewResourceManager() *ResourceManager {
	return &ResourceManager{cur: Allocations{
		CPUPercent: 100,
		RAMGB:      40,
		DiskGB:     200,
		UpdatedAt:  time.Now().UTC(),
	}}
}

// Apply adjusts the allocations by the given increments and returns the new
// state.
func (m *ResourceManager) Apply(cpuInc, ramInc, diskInc float64) Allocations {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur.CPUPercent += cpuInc
	m.cur.RAMGB += ramInc
	m.cur.DiskGB += diskInc
	m.cur.UpdatedAt = time.Now().UTC()
	return m.cur
}

// Snapshot returns the current allocations without modifying them.
func (m *ResourceManager) Snapshot() Allocations {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur
}
