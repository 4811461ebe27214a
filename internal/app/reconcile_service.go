package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/factkeeper/internal/core/kb"
	"github.com/example/factkeeper/internal/core/oracle"
	"github.com/example/factkeeper/internal/core/prompt"
	"github.com/example/factkeeper/internal/core/reconcile"
	"github.com/example/factkeeper/internal/ctxutil"
	"github.com/example/factkeeper/internal/defaults"
	"github.com/example/factkeeper/internal/logging"
	"github.com/example/factkeeper/internal/models"
	"github.com/example/factkeeper/internal/ports/primary"
	"github.com/example/factkeeper/internal/ports/secondary"
)

// Run kinds recorded in the run history.
const (
	RunKindEvidence  = "evidence"
	RunKindDemo      = "demo"
	RunKindTask      = "task"
	RunKindTaskBatch = "task_batch"
)

// Executor modes.
const (
	ModePerTask = "per_task"
	ModeBatch   = "batch"
)

const validationDateLayout = "2006-01-02"

// ReconcileServiceImpl implements the ReconcileService interface.
// Calls are independent and unlocked: concurrent calls against the same
// store resolve as last write wins.
type ReconcileServiceImpl struct {
	resolver *Resolver
	oracle   secondary.Oracle
	taskRepo secondary.TaskRepository
	runRepo  secondary.RunRepository
	model    string
	logger   *zap.Logger
	now      func() time.Time
	newRunID func() string
}

// NewReconcileService creates a new ReconcileService with injected dependencies.
// taskRepo and runRepo may be nil when no store is configured.
func NewReconcileService(
	resolver *Resolver,
	oracleClient secondary.Oracle,
	taskRepo secondary.TaskRepository,
	runRepo secondary.RunRepository,
	model string,
	logger *zap.Logger,
) *ReconcileServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileServiceImpl{
		resolver: resolver,
		oracle:   oracleClient,
		taskRepo: taskRepo,
		runRepo:  runRepo,
		model:    model,
		logger:   logger,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
}

// call is the input of one pass through the phase machine.
type call struct {
	kind       string
	evidence   *models.Evidence
	tasks      []string
	current    *models.KnowledgeBase
	guidelines *string
	persist    bool
}

// Reconcile revises the knowledge base from one piece of evidence.
func (s *ReconcileServiceImpl) Reconcile(ctx context.Context, req primary.ReconcileRequest) *primary.ReconcileResult {
	evidence := req.Evidence
	return s.run(ctx, call{
		kind:       RunKindEvidence,
		evidence:   &evidence,
		current:    req.Current,
		guidelines: req.Guidelines,
		persist:    req.Persist,
	})
}

// ReconcileDemo runs the built-in sample evidence against the built-in
// knowledge base and guidelines without persisting.
func (s *ReconcileServiceImpl) ReconcileDemo(ctx context.Context) *primary.ReconcileResult {
	evidence := defaults.SampleEvidence()
	current := defaults.KnowledgeBase()
	guidelines := defaults.Guidelines
	return s.run(ctx, call{
		kind:       RunKindDemo,
		evidence:   &evidence,
		current:    &current,
		guidelines: &guidelines,
	})
}

// callState is the per-call bookkeeping shared by the phase steps.
type callState struct {
	kind        string
	m           *reconcile.Machine
	logger      *zap.Logger
	rec         *logging.Recorder
	result      *primary.ReconcileResult
	start       time.Time
	factsBefore int
}

// run drives one reconciliation through the phase machine.
func (s *ReconcileServiceImpl) run(ctx context.Context, c call) *primary.ReconcileResult {
	runID := s.newRunID()
	ctx = ctxutil.WithRunID(ctx, runID)
	logger, rec := logging.Tee(s.logger.With(zap.String("run_id", runID), zap.String("kind", c.kind)))
	st := &callState{
		kind:   c.kind,
		m:      reconcile.NewMachine(),
		logger: logger,
		rec:    rec,
		result: &primary.ReconcileResult{RunID: runID},
		start:  s.now(),
	}
	result := st.result
	resolver := s.resolver.WithLogger(logger)

	// LOADING_INPUTS
	var original models.KnowledgeBase
	if c.current != nil {
		original = c.current.Clone()
		result.FactsSource = SourceCaller
	} else {
		res := resolver.ResolveKnowledgeBase(ctx)
		original = res.Value
		result.FactsSource = res.Source
	}
	result.KnowledgeBase = original.Clone()
	st.factsBefore = len(original.Facts)

	var guidelines string
	if c.guidelines != nil {
		guidelines = *c.guidelines
		result.GuidelinesSource = SourceCaller
	} else {
		res := resolver.ResolveGuidelines(ctx)
		guidelines = res.Value
		result.GuidelinesSource = res.Source
	}
	logger.Info("Inputs loaded",
		zap.Int("facts", len(original.Facts)),
		zap.String("facts_source", result.FactsSource),
		zap.String("guidelines_source", result.GuidelinesSource),
	)

	if err := ctx.Err(); err != nil {
		return s.fail(ctx, st, fmt.Sprintf("load inputs: %v", err))
	}
	if s.oracle == nil {
		return s.fail(ctx, st, "oracle not configured")
	}

	// AWAITING_ORACLE
	edit := prompt.EditRequest{
		Current:        original,
		Evidence:       c.evidence,
		Tasks:          c.tasks,
		Guidelines:     guidelines,
		ValidationDate: s.now().Format(validationDateLayout),
	}
	shape := oracle.ShapeFor(s.model)
	oreq := shape.Build(s.model, edit.SystemInstruction(), prompt.BuildEditRequest(edit), oracle.EditMaxTokens)

	_ = st.m.Advance(reconcile.PhaseAwaitingOracle)
	logger.Info("Calling oracle", zap.String("model", s.model), zap.String("shape", shape.Name()))
	logger.Debug("Oracle request", zap.String("prompt", oreq.Messages[len(oreq.Messages)-1].Content))

	resp, err := s.oracle.Generate(ctx, oreq)
	if err != nil {
		return s.fail(ctx, st, fmt.Sprintf("oracle call failed: %v", err))
	}
	result.Usage = resp.Usage
	logger.Info("Oracle replied",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	logger.Debug("Oracle reply", zap.String("text", resp.Text))

	// PARSING, VALIDATING
	candidate, skipped, err := reconcile.Evaluate(st.m, resp.Text)
	result.Skipped = skippedRows(skipped)
	for _, row := range skipped {
		logger.Warn("Skipped malformed row", zap.Int("line", row.Line), zap.String("reason", row.Reason))
	}
	if err != nil {
		return s.fail(ctx, st, st.m.Reason())
	}
	for _, w := range candidate.Warnings {
		logger.Warn(w)
	}
	result.Warnings = candidate.Warnings

	// COMMITTED
	if c.persist {
		result.Persisted = resolver.SaveKnowledgeBase(ctx, candidate.KnowledgeBase)
		switch {
		case result.Persisted:
		case !resolver.StoreConfigured():
			result.Warnings = append(result.Warnings, "remote store not configured; knowledge base was not saved")
		default:
			result.Warnings = append(result.Warnings, "knowledge base was not saved to the remote store")
		}
	}
	_ = st.m.Advance(reconcile.PhaseCommitted)
	logger.Info("Knowledge base updated",
		zap.Int("facts_before", st.factsBefore),
		zap.Int("facts_after", len(candidate.KnowledgeBase.Facts)),
		zap.Bool("persisted", result.Persisted),
	)

	result.Success = true
	result.KnowledgeBase = candidate.KnowledgeBase
	return s.finish(ctx, st)
}

// fail moves the machine to FAILED. The result keeps the original
// knowledge base.
func (s *ReconcileServiceImpl) fail(ctx context.Context, st *callState, reason string) *primary.ReconcileResult {
	if st.m.Phase() != reconcile.PhaseFailed {
		_ = st.m.Fail(reason)
	}
	st.logger.Error("Reconciliation failed", zap.String("phase", string(st.m.Phase())), zap.String("reason", reason))
	st.result.Success = false
	st.result.ErrorMessage = reason
	return s.finish(ctx, st)
}

func (s *ReconcileServiceImpl) finish(ctx context.Context, st *callState) *primary.ReconcileResult {
	result := st.result
	result.Phase = string(st.m.Phase())
	for _, p := range st.m.Trace() {
		result.Trace = append(result.Trace, string(p))
	}
	result.Duration = s.now().Sub(st.start)

	s.recordRun(ctx, st)
	result.ProcessingLog = st.rec.Summary()
	return result
}

func (s *ReconcileServiceImpl) recordRun(ctx context.Context, st *callState) {
	if s.runRepo == nil {
		return
	}
	result := st.result
	run := &secondary.RunRecord{
		ID:           result.RunID,
		Kind:         st.kind,
		Success:      result.Success,
		Phase:        result.Phase,
		ErrorMessage: result.ErrorMessage,
		FactsBefore:  st.factsBefore,
		FactsAfter:   len(result.KnowledgeBase.Facts),
		SkippedRows:  len(result.Skipped),
		TotalTokens:  result.Usage.TotalTokens,
		Persisted:    result.Persisted,
	}
	// a canceled call is still recorded
	if err := s.runRepo.Create(context.WithoutCancel(ctx), run); err != nil {
		st.logger.Warn("Failed to record run", zap.Error(err))
	}
}

// History returns recorded runs, newest first.
func (s *ReconcileServiceImpl) History(ctx context.Context, limit int) ([]*primary.Run, error) {
	if s.runRepo == nil {
		return []*primary.Run{}, nil
	}
	records, err := s.runRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*primary.Run, len(records))
	for i, r := range records {
		runs[i] = &primary.Run{
			ID:           r.ID,
			Kind:         r.Kind,
			Success:      r.Success,
			Phase:        r.Phase,
			ErrorMessage: r.ErrorMessage,
			FactsBefore:  r.FactsBefore,
			FactsAfter:   r.FactsAfter,
			SkippedRows:  r.SkippedRows,
			TotalTokens:  r.TotalTokens,
			Persisted:    r.Persisted,
			CreatedAt:    r.CreatedAt,
		}
	}
	return runs, nil
}

func skippedRows(rows []kb.RowError) []primary.SkippedRow {
	if len(rows) == 0 {
		return nil
	}
	out := make([]primary.SkippedRow, len(rows))
	for i, r := range rows {
		out[i] = primary.SkippedRow{Line: r.Line, Text: r.Text, Reason: r.Reason}
	}
	return out
}

var _ primary.ReconcileService = (*ReconcileServiceImpl)(nil)
