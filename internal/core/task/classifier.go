package task

import "strings"

// Classification rule names.
const (
	RuleHumanKeyword     = "human_keyword"
	RuleAutomatedKeyword = "automated_keyword"
	RuleDefaultHuman     = "default_human"
)

// HumanKeywords mark a task as needing human judgment. They are checked
// first and override everything else.
var HumanKeywords = []string{
	"clarify", "confirm", "verify with", "ask", "check with",
	"review with", "validate with", "coordinate with",
	"decision", "approve", "priority", "stakeholder",
	"external", "contact", "reach out", "interview",
	"survey", "gather feedback", "meeting", "discussion",
	"strategic", "business judgment", "policy",
	"manual review", "human verification",
}

// AutomatedKeywords mark work the oracle can do against existing data,
// provided the task also names one of DataIndicators.
var AutomatedKeywords = []string{
	"update", "merge", "consolidate", "audit", "scan",
	"refresh", "revise", "archive", "validate dates",
	"check existing", "review facts", "update validation",
	"remove duplicate", "fix", "correct", "standardize",
}

// DataIndicators confine automation to the knowledge base itself.
var DataIndicators = []string{"facts", "knowledge base", "validation", "data"}

// Classification is the outcome of Classify.
type Classification struct {
	RequiresHuman bool
	Rule          string
	Keyword       string // keyword that fired; empty for the default rule
}

// Classify decides whether a task needs a human.
//
// Order matters: any human keyword wins, then an automated keyword
// combined with a data indicator makes the task automatable, and anything
// else requires a human.
func Classify(text string) Classification {
	lower := strings.ToLower(text)

	if kw, ok := firstMatch(lower, HumanKeywords); ok {
		return Classification{RequiresHuman: true, Rule: RuleHumanKeyword, Keyword: kw}
	}

	if kw, ok := firstMatch(lower, AutomatedKeywords); ok {
		if _, data := firstMatch(lower, DataIndicators); data {
			return Classification{RequiresHuman: false, Rule: RuleAutomatedKeyword, Keyword: kw}
		}
	}

	return Classification{RequiresHuman: true, Rule: RuleDefaultHuman}
}

func firstMatch(text string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return kw, true
		}
	}
	return "", false
}
