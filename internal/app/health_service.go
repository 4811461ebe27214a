package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/factkeeper/internal/core/oracle"
	"github.com/example/factkeeper/internal/defaults"
	"github.com/example/factkeeper/internal/ports/primary"
	"github.com/example/factkeeper/internal/ports/secondary"
)

// Component names reported by the health check.
const (
	ComponentConfig  = "configuration"
	ComponentOracle  = "oracle"
	ComponentStore   = "store"
	ComponentBuiltin = "builtin_data"
)

// HealthServiceImpl implements the HealthService interface.
type HealthServiceImpl struct {
	environment    string
	configProblems []string
	oracle         secondary.Oracle
	model          string
	factRepo       secondary.FactRepository
	timeout        time.Duration
	logger         *zap.Logger
	now            func() time.Time
}

// NewHealthService creates a new HealthService. configProblems is the
// output of config validation; oracleClient and factRepo may be nil.
func NewHealthService(
	environment string,
	configProblems []string,
	oracleClient secondary.Oracle,
	model string,
	factRepo secondary.FactRepository,
	logger *zap.Logger,
) *HealthServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthServiceImpl{
		environment:    environment,
		configProblems: configProblems,
		oracle:         oracleClient,
		model:          model,
		factRepo:       factRepo,
		timeout:        30 * time.Second,
		logger:         logger,
		now:            time.Now,
	}
}

// Check runs every component check concurrently.
//
// Overall status is unhealthy when configuration or the oracle fails,
// degraded when any other check fails, healthy otherwise.
func (s *HealthServiceImpl) Check(ctx context.Context) *primary.HealthReport {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	checks := []func(context.Context) primary.ComponentHealth{
		s.checkConfig,
		s.checkOracle,
		s.checkStore,
		s.checkBuiltin,
	}
	components := make([]primary.ComponentHealth, len(checks))

	g, gctx := errgroup.WithContext(ctx)
	for i, check := range checks {
		g.Go(func() error {
			components[i] = check(gctx)
			return nil
		})
	}
	_ = g.Wait()

	report := &primary.HealthReport{
		Status:      primary.HealthHealthy,
		Environment: s.environment,
		Model:       s.model,
		Components:  components,
		CheckedAt:   s.now().UTC(),
	}
	for _, c := range components {
		switch {
		case c.Status == primary.HealthUnhealthy:
			report.Status = primary.HealthUnhealthy
		case c.Status == primary.HealthDegraded && report.Status == primary.HealthHealthy:
			report.Status = primary.HealthDegraded
		}
	}

	s.logger.Info("Health check complete", zap.String("status", report.Status))
	return report
}

func (s *HealthServiceImpl) checkConfig(ctx context.Context) primary.ComponentHealth {
	c := primary.ComponentHealth{Name: ComponentConfig, Status: primary.HealthHealthy, Message: "configuration valid"}
	if len(s.configProblems) > 0 {
		c.Status = primary.HealthUnhealthy
		c.Message = strings.Join(s.configProblems, "; ")
	}
	return c
}

func (s *HealthServiceImpl) checkOracle(ctx context.Context) primary.ComponentHealth {
	c := primary.ComponentHealth{
		Name:    ComponentOracle,
		Details: map[string]string{"model": s.model},
	}
	if s.oracle == nil {
		c.Status = primary.HealthUnhealthy
		c.Message = "oracle not configured"
		return c
	}

	shape := oracle.ShapeFor(s.model)
	c.Details["shape"] = shape.Name()

	resp, err := s.oracle.Generate(ctx, shape.Probe(s.model))
	if err != nil {
		c.Status = primary.HealthUnhealthy
		c.Message = fmt.Sprintf("connection test failed: %v", err)
		return c
	}
	if !oracle.ProbeSucceeded(resp.Text) {
		c.Status = primary.HealthUnhealthy
		c.Message = fmt.Sprintf("unexpected probe reply: %q", resp.Text)
		return c
	}

	c.Status = primary.HealthHealthy
	c.Message = "connection successful"
	return c
}

func (s *HealthServiceImpl) checkStore(ctx context.Context) primary.ComponentHealth {
	c := primary.ComponentHealth{Name: ComponentStore}
	if s.factRepo == nil {
		c.Status = primary.HealthDegraded
		c.Message = "remote store not configured; using local and built-in data"
		return c
	}

	n, err := s.factRepo.Count(ctx)
	if err != nil {
		c.Status = primary.HealthDegraded
		c.Message = fmt.Sprintf("store unreachable: %v", err)
		return c
	}

	c.Status = primary.HealthHealthy
	c.Message = fmt.Sprintf("%d facts stored", n)
	c.Details = map[string]string{"facts": fmt.Sprint(n)}
	return c
}

func (s *HealthServiceImpl) checkBuiltin(ctx context.Context) primary.ComponentHealth {
	c := primary.ComponentHealth{Name: ComponentBuiltin, Status: primary.HealthHealthy}
	kb := defaults.KnowledgeBase()
	switch {
	case kb.IsEmpty():
		c.Status = primary.HealthDegraded
		c.Message = "built-in knowledge base is empty"
	case strings.TrimSpace(defaults.Guidelines) == "":
		c.Status = primary.HealthDegraded
		c.Message = "built-in guidelines are empty"
	default:
		c.Message = fmt.Sprintf("%d built-in facts available", len(kb.Facts))
	}
	return c
}

var _ primary.HealthService = (*HealthServiceImpl)(nil)
