package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/factkeeper/internal/defaults"
	"github.com/example/factkeeper/internal/models"
	"github.com/example/factkeeper/internal/ports/secondary"
)

// Fallback tier names, in resolution order.
const (
	SourceRemote  = "remote"
	SourceLocal   = "local"
	SourceDefault = "default"
	SourceMarker  = "marker"

	// SourceCaller marks inputs supplied with the request.
	SourceCaller = "caller"
)

var (
	errMissingBackend = errors.New("backend not configured")
	errEmpty          = errors.New("empty result")
)

// TierAttempt records why a tier was passed over.
type TierAttempt struct {
	Source string
	Err    error
}

// Resolution is the value a fallback chain settled on.
type Resolution[T any] struct {
	Value    T
	Source   string
	Attempts []TierAttempt
}

type tier[T any] struct {
	name string
	load func(ctx context.Context) (T, error)
}

// resolve tries tiers in order; the first non-empty value wins.
func resolve[T any](ctx context.Context, tiers []tier[T], empty func(T) bool, marker T, logger *zap.Logger, what string) Resolution[T] {
	var res Resolution[T]
	for _, t := range tiers {
		v, err := t.load(ctx)
		if err == nil && empty(v) {
			err = errEmpty
		}
		if err != nil {
			res.Attempts = append(res.Attempts, TierAttempt{Source: t.name, Err: err})
			logger.Warn(fmt.Sprintf("%s unavailable from %s tier", what, t.name), zap.Error(err))
			continue
		}
		res.Value = v
		res.Source = t.name
		logger.Debug(fmt.Sprintf("%s loaded", what), zap.String("source", t.name))
		return res
	}

	logger.Error(fmt.Sprintf("every %s source failed; using marker", what))
	res.Value = marker
	res.Source = SourceMarker
	return res
}

// Resolver loads facts and guidelines through remote, local and built-in
// tiers, and saves facts to the remote store only.
// A nil repository or snapshot counts as a missing backend.
type Resolver struct {
	factRepo      secondary.FactRepository
	guidelineRepo secondary.GuidelineRepository
	factSnap      secondary.FactSnapshot
	guidelineSnap secondary.GuidelineSnapshot
	logger        *zap.Logger

	factTiers      []tier[models.KnowledgeBase]
	guidelineTiers []tier[string]
}

// NewResolver creates a Resolver. The tier order is fixed here.
func NewResolver(
	factRepo secondary.FactRepository,
	guidelineRepo secondary.GuidelineRepository,
	factSnap secondary.FactSnapshot,
	guidelineSnap secondary.GuidelineSnapshot,
	logger *zap.Logger,
) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Resolver{
		factRepo:      factRepo,
		guidelineRepo: guidelineRepo,
		factSnap:      factSnap,
		guidelineSnap: guidelineSnap,
		logger:        logger,
	}

	r.factTiers = []tier[models.KnowledgeBase]{
		{name: SourceRemote, load: r.remoteFacts},
		{name: SourceLocal, load: r.localFacts},
		{name: SourceDefault, load: func(context.Context) (models.KnowledgeBase, error) {
			return defaults.KnowledgeBase(), nil
		}},
	}
	r.guidelineTiers = []tier[string]{
		{name: SourceRemote, load: r.remoteGuidelines},
		{name: SourceLocal, load: r.localGuidelines},
		{name: SourceDefault, load: func(context.Context) (string, error) {
			return defaults.Guidelines, nil
		}},
	}
	return r
}

// WithLogger returns a copy of r logging to logger.
func (r *Resolver) WithLogger(logger *zap.Logger) *Resolver {
	cp := *r
	cp.logger = logger
	return &cp
}

// StoreConfigured reports whether a remote fact store is wired.
func (r *Resolver) StoreConfigured() bool {
	return r.factRepo != nil
}

// ResolveKnowledgeBase returns the current knowledge base. It never fails:
// when every tier is empty the marker knowledge base is returned.
func (r *Resolver) ResolveKnowledgeBase(ctx context.Context) Resolution[models.KnowledgeBase] {
	return resolve(ctx, r.factTiers, models.KnowledgeBase.IsEmpty, defaults.MarkerKnowledgeBase(), r.logger, "knowledge base")
}

// ResolveGuidelines returns the current guidelines. It never fails.
func (r *Resolver) ResolveGuidelines(ctx context.Context) Resolution[string] {
	blank := func(s string) bool { return strings.TrimSpace(s) == "" }
	return resolve(ctx, r.guidelineTiers, blank, defaults.MarkerGuidelines, r.logger, "guidelines")
}

// SaveKnowledgeBase upserts facts to the remote store. It reports false on
// any failure or when no store is configured; nothing is retried and nothing
// is written locally.
func (r *Resolver) SaveKnowledgeBase(ctx context.Context, kb models.KnowledgeBase) bool {
	if r.factRepo == nil {
		r.logger.Warn("knowledge base not saved", zap.Error(errMissingBackend))
		return false
	}

	rows := make([]*secondary.FactRecord, len(kb.Facts))
	for i, f := range kb.Facts {
		rows[i] = &secondary.FactRecord{
			Number:        f.Number,
			Description:   f.Description,
			LastValidated: f.LastValidated,
		}
	}

	if err := r.factRepo.Upsert(ctx, rows); err != nil {
		r.logger.Error("failed to save knowledge base", zap.Error(err))
		return false
	}

	r.logger.Info("knowledge base saved", zap.Int("facts", len(rows)))
	return true
}

func (r *Resolver) remoteFacts(ctx context.Context) (models.KnowledgeBase, error) {
	if r.factRepo == nil {
		return models.KnowledgeBase{}, errMissingBackend
	}
	records, err := r.factRepo.List(ctx)
	if err != nil {
		return models.KnowledgeBase{}, err
	}
	kb := models.KnowledgeBase{Title: models.DefaultTitle, Facts: make([]models.Fact, 0, len(records))}
	for _, rec := range records {
		kb.Facts = append(kb.Facts, models.Fact{
			Number:        rec.Number,
			Description:   rec.Description,
			LastValidated: rec.LastValidated,
		})
	}
	return kb, nil
}

func (r *Resolver) localFacts(ctx context.Context) (models.KnowledgeBase, error) {
	if r.factSnap == nil {
		return models.KnowledgeBase{}, errMissingBackend
	}
	facts, err := r.factSnap.LoadFacts(ctx)
	if err != nil {
		return models.KnowledgeBase{}, err
	}
	return models.KnowledgeBase{Title: models.DefaultTitle, Facts: facts}, nil
}

func (r *Resolver) remoteGuidelines(ctx context.Context) (string, error) {
	if r.guidelineRepo == nil {
		return "", errMissingBackend
	}
	return r.guidelineRepo.Get(ctx)
}

func (r *Resolver) localGuidelines(ctx context.Context) (string, error) {
	if r.guidelineSnap == nil {
		return "", errMissingBackend
	}
	return r.guidelineSnap.LoadGuidelines(ctx)
}
