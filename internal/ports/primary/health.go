package primary

import (
	"context"
	"time"
)

// Health statuses, best to worst.
const (
	HealthHealthy   = "healthy"
	HealthDegraded  = "degraded"
	HealthUnhealthy = "unhealthy"
)

// HealthService defines the primary port for the health check.
type HealthService interface {
	Check(ctx context.Context) *HealthReport
}

// ComponentHealth is the result of one check.
type ComponentHealth struct {
	Name    string
	Status  string
	Message string
	Details map[string]string
}

// HealthReport aggregates every component check.
type HealthReport struct {
	Status      string
	Environment string
	Model       string
	Components  []ComponentHealth
	CheckedAt   time.Time
}
