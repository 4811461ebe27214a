package reconcile

import (
	"errors"
	"fmt"

	"github.com/example/factkeeper/internal/core/kb"
	"github.com/example/factkeeper/internal/models"
)

// Candidate is a parsed reply that passed structural validation.
type Candidate struct {
	KnowledgeBase models.KnowledgeBase
	Skipped       []kb.RowError
	// Warnings are non-fatal observations, such as duplicate numbers.
	Warnings []string
}

// Evaluate runs the PARSING and VALIDATING phases over reply.
// On success the machine is left in PhaseValidating; the caller commits.
// On failure the machine is in PhaseFailed and the returned error explains why.
// Skipped rows are returned in both cases.
func Evaluate(m *Machine, reply string) (*Candidate, []kb.RowError, error) {
	if err := m.Advance(PhaseParsing); err != nil {
		return nil, nil, err
	}

	res, err := kb.Parse(reply)
	var skipped []kb.RowError
	if res != nil {
		skipped = res.Skipped
	}
	if err != nil {
		reason := fmt.Sprintf("parse oracle reply: %v", err)
		if errors.Is(err, kb.ErrNoFacts) && len(skipped) > 0 {
			reason = fmt.Sprintf("parse oracle reply: %v (%d malformed rows skipped)", err, len(skipped))
		}
		_ = m.Fail(reason)
		return nil, skipped, fmt.Errorf("parse oracle reply: %w", err)
	}

	if err := m.Advance(PhaseValidating); err != nil {
		return nil, skipped, err
	}

	// Structure only: the oracle is trusted for content, count and numbering.
	c := &Candidate{KnowledgeBase: res.KnowledgeBase, Skipped: skipped}
	if dups := res.KnowledgeBase.DuplicateNumbers(); len(dups) > 0 {
		c.Warnings = append(c.Warnings, fmt.Sprintf("duplicate fact numbers in reply: %v", dups))
	}
	return c, skipped, nil
}
