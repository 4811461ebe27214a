package defaults

import (
	"strings"
	"testing"

	"github.com/example/factkeeper/internal/core/kb"
)

func TestKnowledgeBase_IsCopy(t *testing.T) {
	a := KnowledgeBase()
	a.Facts[0].Description = "mutated"

	b := KnowledgeBase()
	if b.Facts[0].Description == "mutated" {
		t.Error("built-in facts were mutated through a returned copy")
	}
}

func TestKnowledgeBase_WellFormed(t *testing.T) {
	base := KnowledgeBase()
	if len(base.Facts) != 10 {
		t.Fatalf("expected 10 built-in facts, got %d", len(base.Facts))
	}
	if dups := base.DuplicateNumbers(); len(dups) != 0 {
		t.Errorf("duplicate numbers in built-in facts: %v", dups)
	}

	decoded, err := kb.Decode(kb.Encode(base))
	if err != nil {
		t.Fatalf("built-in facts do not round-trip: %v", err)
	}
	if len(decoded.Facts) != len(base.Facts) {
		t.Errorf("round trip lost facts: %d != %d", len(decoded.Facts), len(base.Facts))
	}
}

func TestGuidelines(t *testing.T) {
	if !strings.HasPrefix(Guidelines, "# Knowledge Management Guidelines") {
		t.Error("guidelines should start with their heading")
	}
	if MarkerGuidelines == "" || MarkerFact.Number <= 0 || MarkerFact.Description == "" {
		t.Error("markers must be non-empty")
	}
	if len(MarkerKnowledgeBase().Facts) != 1 {
		t.Error("marker knowledge base should hold exactly one fact")
	}
}

func TestSampleEvidence(t *testing.T) {
	ev := SampleEvidence()
	if ev.Channel != "#atlas-updates" || ev.Author != "project-manager" {
		t.Errorf("unexpected metadata: %+v", ev)
	}
	if !strings.Contains(ev.Content, "ARR: $8.7M") {
		t.Error("sample content missing ARR line")
	}
}
