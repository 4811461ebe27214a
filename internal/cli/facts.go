package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/factkeeper/internal/adapters/cli"
	"github.com/example/factkeeper/internal/wire"
)

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Inspect and maintain the stored knowledge base",
}

var factsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current knowledge base and where it was loaded from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.KnowledgeAdapter().ShowFacts(context.Background())
	},
}

var factsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the current knowledge base as markdown or CSV",
	Long: `Write the current knowledge base to stdout or a file.

Examples:
  factkeeper facts export > facts.md
  factkeeper facts export --format csv --output facts.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		w := cmd.OutOrStdout()
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return wire.KnowledgeAdapter().ExportFacts(context.Background(), w, format)
	},
}

var factsReplaceCmd = &cobra.Command{
	Use:   "replace <file.csv>",
	Short: "Replace every stored fact with the rows of a CSV file",
	Long: `Replace the stored fact table with the rows of a CSV file in one transaction.

The CSV needs the columns '#', 'Fact' and 'Time Last Validated'
(or 'number', 'description', 'last_validated').`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")
		return wire.KnowledgeAdapter().ReplaceFacts(context.Background(), args[0], strict)
	},
}

var factsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill an empty store with the built-in facts and guidelines",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.KnowledgeAdapter().Seed(context.Background())
	},
}

func init() {
	factsExportCmd.Flags().String("format", cliadapter.FormatMarkdown, "Output format (markdown, csv)")
	factsExportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	factsReplaceCmd.Flags().Bool("strict", false, "Abort if any row is rejected")

	factsCmd.AddCommand(factsShowCmd)
	factsCmd.AddCommand(factsExportCmd)
	factsCmd.AddCommand(factsReplaceCmd)
	factsCmd.AddCommand(factsSeedCmd)
}

// FactsCmd returns the facts command
func FactsCmd() *cobra.Command {
	return factsCmd
}

var guidelinesCmd = &cobra.Command{
	Use:   "guidelines",
	Short: "Inspect and update the knowledge management guidelines",
}

var guidelinesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current guidelines and where they were loaded from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.KnowledgeAdapter().ShowGuidelines(context.Background())
	},
}

var guidelinesSetCmd = &cobra.Command{
	Use:   "set <file.md>",
	Short: "Store the content of a markdown file as the guidelines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.KnowledgeAdapter().SetGuidelines(context.Background(), args[0])
	},
}

func init() {
	guidelinesCmd.AddCommand(guidelinesShowCmd)
	guidelinesCmd.AddCommand(guidelinesSetCmd)
}

// GuidelinesCmd returns the guidelines command
func GuidelinesCmd() *cobra.Command {
	return guidelinesCmd
}
