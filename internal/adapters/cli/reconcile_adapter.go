package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/example/factkeeper/internal/core/kb"
	"github.com/example/factkeeper/internal/ports/primary"
)

// ReconcileAdapter translates CLI operations to ReconcileService calls.
type ReconcileAdapter struct {
	service primary.ReconcileService
	out     io.Writer
	showLog bool
}

// NewReconcileAdapter creates a new ReconcileAdapter. When showLog is set
// every result is followed by its processing log.
func NewReconcileAdapter(service primary.ReconcileService, out io.Writer, showLog bool) *ReconcileAdapter {
	return &ReconcileAdapter{service: service, out: out, showLog: showLog}
}

// Reconcile runs one reconciliation and prints the revised knowledge base.
func (a *ReconcileAdapter) Reconcile(ctx context.Context, req primary.ReconcileRequest) error {
	return a.render(a.service.Reconcile(ctx, req))
}

// Demo runs the built-in sample.
func (a *ReconcileAdapter) Demo(ctx context.Context) error {
	fmt.Fprintln(a.out, cyan("Running demo with built-in facts, guidelines and sample evidence"))
	return a.render(a.service.ReconcileDemo(ctx))
}

func (a *ReconcileAdapter) render(res *primary.ReconcileResult) error {
	fmt.Fprintln(a.out)
	if res.Success {
		fmt.Fprintf(a.out, "%s Knowledge base updated (%d facts)\n", okMark, len(res.KnowledgeBase.Facts))
	} else {
		fmt.Fprintf(a.out, "%s Reconciliation failed: %s\n", failMark, res.ErrorMessage)
	}
	fmt.Fprintf(a.out, "  Run:        %s\n", res.RunID)
	fmt.Fprintf(a.out, "  Phase:      %s\n", res.Phase)
	fmt.Fprintf(a.out, "  Facts from: %s, guidelines from: %s\n", res.FactsSource, res.GuidelinesSource)
	fmt.Fprintf(a.out, "  Tokens:     %d (prompt %d, completion %d)\n",
		res.Usage.TotalTokens, res.Usage.PromptTokens, res.Usage.CompletionTokens)
	fmt.Fprintf(a.out, "  Saved:      %s\n", yesNo(res.Persisted))
	fmt.Fprintf(a.out, "  Duration:   %s\n", res.Duration.Round(time.Millisecond))

	for _, s := range res.Skipped {
		fmt.Fprintf(a.out, "%s skipped line %d (%s): %s\n", warnMark, s.Line, s.Reason, s.Text)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(a.out, "%s %s\n", warnMark, yellow(w))
	}

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, kb.Encode(res.KnowledgeBase))
	fmt.Fprintln(a.out)

	if a.showLog {
		printLog(a.out, res.ProcessingLog)
	}
	if !res.Success {
		return failed("reconciliation failed")
	}
	return nil
}

// Execute runs the task executor in per-task or batch mode.
func (a *ReconcileAdapter) Execute(ctx context.Context, batch bool) error {
	var summary *primary.ExecutionSummary
	if batch {
		summary = a.service.ExecuteTaskBatch(ctx)
	} else {
		summary = a.service.ExecuteTasks(ctx)
	}

	if !summary.Success {
		fmt.Fprintf(a.out, "%s Task execution failed: %s\n", failMark, summary.ErrorMessage)
	} else {
		fmt.Fprintf(a.out, "%s %s\n", okMark, summary.Message)
	}

	for _, t := range summary.Tasks {
		switch {
		case t.Deleted:
			fmt.Fprintf(a.out, "  %s #%d %s\n", okMark, t.TaskID, t.Title)
		case t.Success:
			fmt.Fprintf(a.out, "  %s #%d %s %s\n", warnMark, t.TaskID, t.Title, dim("(applied; task not removed)"))
		default:
			fmt.Fprintf(a.out, "  %s #%d %s: %s\n", failMark, t.TaskID, t.Title, t.ErrorMessage)
		}
	}
	if summary.Usage.TotalTokens > 0 {
		fmt.Fprintf(a.out, "  Tokens: %d\n", summary.Usage.TotalTokens)
	}

	if a.showLog {
		printLog(a.out, summary.ProcessingLog)
	}
	if !summary.Success {
		return failed("task execution failed")
	}
	return nil
}

// History lists recorded runs.
func (a *ReconcileAdapter) History(ctx context.Context, limit int) error {
	runs, err := a.service.History(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(a.out, "No runs recorded")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-20s %-10s %-10s %-7s %-7s %-7s %s\n", "CREATED", "KIND", "PHASE", "FACTS", "TOKENS", "SAVED", "RUN")
	fmt.Fprintln(a.out, rule)
	for _, r := range runs {
		phase := fmt.Sprintf("%-10s", r.Phase)
		if !r.Success {
			phase = yellow(phase)
		}
		fmt.Fprintf(a.out, "%-20s %-10s %s %-7s %-7d %-7s %s\n",
			r.CreatedAt, r.Kind, phase,
			fmt.Sprintf("%d→%d", r.FactsBefore, r.FactsAfter),
			r.TotalTokens, yesNo(r.Persisted), r.ID)
		if r.ErrorMessage != "" {
			fmt.Fprintf(a.out, "  %s\n", dim(r.ErrorMessage))
		}
	}
	fmt.Fprintln(a.out)
	return nil
}
