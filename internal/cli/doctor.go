package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/factkeeper/internal/wire"
)

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, oracle connection and store",
		Long: `Run the health check.

Validates:
- Configuration (provider, API key, model)
- Oracle connection (one short probe request)
- Store reachability
- Built-in fallback data

Examples:
  factkeeper doctor              # Run full health check
  factkeeper doctor --quiet      # Exit code only (0=healthy or degraded, 1=unhealthy)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.HealthAdapter().Check(context.Background(), quiet)
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}
