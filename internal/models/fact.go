// Package models contains domain types for factkeeper entities.
// SQL persistence lives in internal/adapters/sqlite/*.go
package models

import "time"

// DefaultTitle is the knowledge base title used when none is known.
const DefaultTitle = "Current RN Project Facts"

// Fact is a single numbered, dated statement in the knowledge base.
// Number is the identity key within a KnowledgeBase; gaps are allowed and
// record deleted facts.
type Fact struct {
	Number        int    `json:"number"`
	Description   string `json:"description"`
	LastValidated string `json:"last_validated"` // YYYY-MM-DD, not strictly validated
}

// KnowledgeBase is a titled, ordered collection of facts.
// Order is preserved exactly as produced; it is not required to be sorted.
type KnowledgeBase struct {
	Title string `json:"title"`
	Facts []Fact `json:"facts"`
}

// Clone returns a deep copy so callers never share the facts slice.
func (kb KnowledgeBase) Clone() KnowledgeBase {
	out := KnowledgeBase{Title: kb.Title}
	if kb.Facts != nil {
		out.Facts = make([]Fact, len(kb.Facts))
		copy(out.Facts, kb.Facts)
	}
	return out
}

// IsEmpty reports whether the knowledge base holds no facts.
func (kb KnowledgeBase) IsEmpty() bool {
	return len(kb.Facts) == 0
}

// Numbers returns the fact numbers in sequence order.
func (kb KnowledgeBase) Numbers() []int {
	nums := make([]int, len(kb.Facts))
	for i, f := range kb.Facts {
		nums[i] = f.Number
	}
	return nums
}

// DuplicateNumbers returns every number that appears more than once.
// The parser does not deduplicate; callers use this for diagnostics.
func (kb KnowledgeBase) DuplicateNumbers() []int {
	seen := make(map[int]int, len(kb.Facts))
	var dups []int
	for _, f := range kb.Facts {
		seen[f.Number]++
		if seen[f.Number] == 2 {
			dups = append(dups, f.Number)
		}
	}
	return dups
}

// Evidence is the unstructured message that drives one reconciliation.
// Empty Channel/Author and a zero Timestamp mean "absent".
type Evidence struct {
	Content   string    `json:"content"`
	Channel   string    `json:"channel,omitempty"`
	Author    string    `json:"author,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}
