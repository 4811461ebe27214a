package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/factkeeper/internal/adapters/snapshot"
	"github.com/example/factkeeper/internal/models"
	"github.com/example/factkeeper/internal/ports/primary"
	"github.com/example/factkeeper/internal/wire"
)

// evidenceFlags collects the flags describing one piece of evidence.
type evidenceFlags struct {
	file      string
	channel   string
	author    string
	timestamp string
}

// ReconcileCmd returns the reconcile command.
func ReconcileCmd() *cobra.Command {
	var (
		ev             evidenceFlags
		factsFile      string
		guidelinesFile string
		noSave         bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile [evidence]",
		Short: "Update the knowledge base from one piece of evidence",
		Long: `Send the current knowledge base, the guidelines and one piece of evidence to
the oracle and print the revised knowledge base.

Evidence is taken from the argument, from --file, or from stdin with --file -.
Facts and guidelines come from the store, then the local snapshot, then the
built-in data, unless --facts-file or --guidelines-file supply them.

Examples:
  factkeeper reconcile "Test coverage is now 65%" --channel "#metrics" --author qa-lead
  factkeeper reconcile --file standup-notes.txt --no-save
  slack-export | factkeeper reconcile --file -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			evidence, err := ev.evidence(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			req := primary.ReconcileRequest{Evidence: evidence, Persist: !noSave}
			if factsFile != "" {
				sheet, err := snapshot.ReadFactsFile(factsFile)
				if err != nil {
					return err
				}
				for _, r := range sheet.Rejected {
					fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %s line %d rejected: %s\n", factsFile, r.Line, r.Reason)
				}
				current := models.KnowledgeBase{Title: models.DefaultTitle, Facts: sheet.Facts}
				req.Current = &current
			}
			if guidelinesFile != "" {
				guidelines, err := snapshot.ReadGuidelinesFile(guidelinesFile)
				if err != nil {
					return err
				}
				req.Guidelines = &guidelines
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return wire.ReconcileAdapter().Reconcile(ctx, req)
		},
	}

	cmd.Flags().StringVarP(&ev.file, "file", "f", "", "Read evidence from a file ('-' for stdin)")
	cmd.Flags().StringVar(&ev.channel, "channel", "", "Channel the evidence was posted in")
	cmd.Flags().StringVar(&ev.author, "author", "", "Author of the evidence")
	cmd.Flags().StringVar(&ev.timestamp, "timestamp", "", "When the evidence was posted (RFC3339 or YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&factsFile, "facts-file", "", "Use facts from this CSV instead of resolving them")
	cmd.Flags().StringVar(&guidelinesFile, "guidelines-file", "", "Use guidelines from this markdown file instead of resolving them")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Print the result without saving it to the store")

	return cmd
}

// DemoCmd returns the demo command.
func DemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in sample evidence against the built-in knowledge base",
		Long: `Run one reconciliation with the built-in facts, guidelines and sample
evidence. Nothing is read from or saved to the store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return wire.ReconcileAdapter().Demo(ctx)
		},
	}
}

// evidence builds the evidence from the positional argument or --file.
func (f evidenceFlags) evidence(args []string, stdin io.Reader) (models.Evidence, error) {
	var content string
	switch {
	case len(args) > 0 && f.file != "":
		return models.Evidence{}, fmt.Errorf("give evidence as an argument or with --file, not both")
	case len(args) > 0:
		content = args[0]
	case f.file == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return models.Evidence{}, fmt.Errorf("failed to read evidence from stdin: %w", err)
		}
		content = string(data)
	case f.file != "":
		data, err := os.ReadFile(f.file)
		if err != nil {
			return models.Evidence{}, fmt.Errorf("failed to read evidence file: %w", err)
		}
		content = string(data)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return models.Evidence{}, fmt.Errorf("evidence is empty")
	}

	ev := models.Evidence{Content: content, Channel: f.channel, Author: f.author}
	if f.timestamp != "" {
		ts, err := parseTimestamp(f.timestamp)
		if err != nil {
			return models.Evidence{}, err
		}
		ev.Timestamp = ts
	}
	return ev, nil
}

var timestampLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q (want RFC3339 or YYYY-MM-DD HH:MM)", s)
}
