package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/factkeeper/internal/version"
	"github.com/example/factkeeper/internal/wire"
)

// Execute runs the root command. The logger is flushed and the store
// closed whether or not the command succeeds.
func Execute() error {
	return run(RootCmd(), wire.Sync)
}

func run(root *cobra.Command, finish func()) error {
	defer finish()
	return root.Execute()
}

// RootCmd returns the factkeeper root command with every subcommand.
func RootCmd() *cobra.Command {
	var opts wire.Options

	root := &cobra.Command{
		Use:     "factkeeper",
		Short:   "Keep a numbered fact knowledge base in step with incoming evidence",
		Version: version.String(),
		Long: `factkeeper maintains a knowledge base of numbered, dated facts.

Each reconciliation sends the current facts, the guidelines and one piece of
evidence to a text-generation oracle, parses the revised table it returns
and, on success, saves it to the store. Maintenance tasks can be generated,
classified and executed the same way.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			wire.Configure(opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Config file (default: ./.factkeeper/config.yaml, then ~/.factkeeper/config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Debug logging")
	root.PersistentFlags().BoolVar(&opts.ShowLog, "show-log", false, "Print the processing log after each run")

	root.AddCommand(ReconcileCmd())
	root.AddCommand(DemoCmd())
	root.AddCommand(FactsCmd())
	root.AddCommand(GuidelinesCmd())
	root.AddCommand(TaskCmd())
	root.AddCommand(HistoryCmd())
	root.AddCommand(DoctorCmd())
	root.AddCommand(VersionCmd())

	return root
}

// VersionCmd returns the version command.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version.String())
		},
	}
}
