package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/example/factkeeper/internal/ports/primary"
)

// HealthAdapter renders HealthService reports.
type HealthAdapter struct {
	service primary.HealthService
	out     io.Writer
}

// NewHealthAdapter creates a new HealthAdapter.
func NewHealthAdapter(service primary.HealthService, out io.Writer) *HealthAdapter {
	return &HealthAdapter{service: service, out: out}
}

// Check runs the health check. Unhealthy reports return an error so the
// command exits non-zero; degraded ones do not.
func (a *HealthAdapter) Check(ctx context.Context, quiet bool) error {
	report := a.service.Check(ctx)

	if !quiet {
		fmt.Fprintln(a.out)
		fmt.Fprintf(a.out, "Environment: %s   Model: %s\n\n", report.Environment, report.Model)
		fmt.Fprintln(a.out, "Check              Status")
		fmt.Fprintln(a.out, "─────────────────────────")
		for _, c := range report.Components {
			fmt.Fprintf(a.out, "%-18s %s %s\n", c.Name, healthMark(c.Status), c.Message)
			keys := make([]string, 0, len(c.Details))
			for k := range c.Details {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(a.out, "%-18s   %s\n", "", dim(k+": "+c.Details[k]))
			}
		}
		fmt.Fprintln(a.out)
		fmt.Fprintf(a.out, "Overall: %s %s\n", healthMark(report.Status), bold(report.Status))
	}

	if report.Status == primary.HealthUnhealthy {
		return failed("health check failed")
	}
	return nil
}

func healthMark(status string) string {
	switch status {
	case primary.HealthHealthy:
		return okMark
	case primary.HealthDegraded:
		return warnMark
	default:
		return failMark
	}
}
