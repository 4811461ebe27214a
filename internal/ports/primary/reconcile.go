// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives factkeeper.
package primary

import (
	"context"
	"time"

	"github.com/example/factkeeper/internal/models"
)

// ReconcileService defines the primary port for knowledge base reconciliation.
// Operations never return errors; failures are reported on the result.
type ReconcileService interface {
	// Reconcile revises the knowledge base from one piece of evidence.
	Reconcile(ctx context.Context, req ReconcileRequest) *ReconcileResult

	// ReconcileDemo runs the built-in sample evidence against the built-in
	// knowledge base. Nothing is persisted.
	ReconcileDemo(ctx context.Context) *ReconcileResult

	// ExecuteTasks runs one reconciliation per pending automatable task.
	ExecuteTasks(ctx context.Context) *ExecutionSummary

	// ExecuteTaskBatch runs one reconciliation covering every pending
	// automatable task.
	ExecuteTaskBatch(ctx context.Context) *ExecutionSummary

	// History returns recorded runs, newest first.
	History(ctx context.Context, limit int) ([]*Run, error)
}

// ReconcileRequest contains parameters for one reconciliation.
// Current and Guidelines are resolved through the fallback chain when nil.
type ReconcileRequest struct {
	Evidence   models.Evidence
	Current    *models.KnowledgeBase
	Guidelines *string
	Persist    bool
}

// SkippedRow is a reply row the parser dropped.
type SkippedRow struct {
	Line   int
	Text   string
	Reason string
}

// ReconcileResult is the outcome of one reconciliation.
// On failure KnowledgeBase is the input knowledge base, unchanged.
type ReconcileResult struct {
	RunID            string
	Success          bool
	ErrorMessage     string
	KnowledgeBase    models.KnowledgeBase
	ProcessingLog    string
	Phase            string
	Trace            []string
	Skipped          []SkippedRow
	Warnings         []string
	Usage            models.TokenUsage
	Persisted        bool
	FactsSource      string
	GuidelinesSource string
	Duration         time.Duration
}

// TaskExecution reports one task handled by an executor.
type TaskExecution struct {
	TaskID       int64
	Title        string
	RunID        string
	Success      bool
	Deleted      bool
	ErrorMessage string
}

// ExecutionSummary is the outcome of an executor run.
type ExecutionSummary struct {
	Mode          string // per_task or batch
	Success       bool
	ErrorMessage  string
	Message       string
	Considered    int
	Completed     int
	Tasks         []TaskExecution
	Usage         models.TokenUsage
	ProcessingLog string
}

// Run is a recorded reconciliation.
type Run struct {
	ID           string
	Kind         string
	Success      bool
	Phase        string
	ErrorMessage string
	FactsBefore  int
	FactsAfter   int
	SkippedRows  int
	TotalTokens  int
	Persisted    bool
	CreatedAt    string
}
