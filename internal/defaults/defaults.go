// Package defaults holds the built-in knowledge base, guidelines and sample
// evidence. Values are read-only; accessors hand out copies.
package defaults

import (
	"github.com/example/factkeeper/internal/models"
)

// MarkerFact is returned when every fact source, including the built-in
// one, comes back empty.
var MarkerFact = models.Fact{
	Number:        1,
	Description:   "No facts are available; the knowledge base could not be loaded from any source.",
	LastValidated: "1970-01-01",
}

// MarkerGuidelines is returned when every guidelines source comes back empty.
const MarkerGuidelines = "# Knowledge Management Guidelines\n\nNo guidelines are available. Keep facts objective, dated and self-contained."

var builtinFacts = []models.Fact{
	{
		Number:        1,
		Description:   "Rewards Network (RN) is a network of ~18 000 local restaurants whose receipts earn a %-back reward and will be ingested as regular Fetch offers.",
		LastValidated: "2025-04-15",
	},
	{
		Number:        2,
		Description:   "RN integration currently has ~11,287 live offers (scaled from initial 140), with location matching and credit card capture issues having limited the rollout from the planned 14 400.",
		LastValidated: "2025-06-11",
	},
	{
		Number:        6,
		Description:   "Key results include generating $10.6 M ARR by EOQ2 2025 and $11.6 M revenue in FY25. Current ARR is $8.7M as of June 2025.",
		LastValidated: "2025-06-11",
	},
	{
		Number:        7,
		Description:   "Target is 90% of restaurants in-app by end of year. Current coverage is 62.0%.",
		LastValidated: "2025-06-11",
	},
	{
		Number:        8,
		Description:   "Card-info capture goals rise to 65% of receipts in H1 and 80% in H2. Current capture rate is 53.8%.",
		LastValidated: "2025-06-11",
	},
	{
		Number:        22,
		Description:   "Payment capture feature tooling code is complete but not yet released; will reduce support lift once deployed.",
		LastValidated: "2025-06-11",
	},
	{
		Number:        31,
		Description:   "Payment capture feature has two components: rescan prompt (backend in review, mobile complete) and manual card input with cross-referencing validation (postponed while ChatGPT API improvements are in progress).",
		LastValidated: "2025-06-11",
	},
	{
		Number:        51,
		Description:   "Current RN restaurant coverage is 62.0% with 11,287 active offers out of 18,000 possible restaurants in the network.",
		LastValidated: "2025-06-11",
	},
	{
		Number:        55,
		Description:   "Payment capture feature was approved in March 2025 following a stakeholder presentation that addressed feature-risk concerns; a comprehensive risk analysis projected very low error rates for most users.",
		LastValidated: "2025-06-11",
	},
	{
		Number:        57,
		Description:   "RN deactivates and activates offers daily based on restaurant participation. Offer reactivation functionality has not yet been implemented.",
		LastValidated: "2025-06-11",
	},
}

// KnowledgeBase returns a fresh copy of the built-in knowledge base.
func KnowledgeBase() models.KnowledgeBase {
	kb := models.KnowledgeBase{Title: models.DefaultTitle, Facts: builtinFacts}
	return kb.Clone()
}

// MarkerKnowledgeBase returns a knowledge base holding only MarkerFact.
func MarkerKnowledgeBase() models.KnowledgeBase {
	return models.KnowledgeBase{Title: models.DefaultTitle, Facts: []models.Fact{MarkerFact}}
}

// SampleEvidence returns the built-in weekly update message used by the demo flow.
func SampleEvidence() models.Evidence {
	return models.Evidence{
		Content: `Here's this week's Atlas update:
- 11,156 offers live (last: 11,287)
- Restaurant coverage: 62.0% (last: 62.7%)
- Card capture rate: 53.8% (last: 54.1%)
- ARR: $8.7M (last: $8.5M)

Additional context: The slight decrease in offers is due to some restaurants temporarily opting out during the holiday season. We expect this to recover in the new year. The ARR increase is strong despite the slight dip in other metrics.`,
		Channel: "#atlas-updates",
		Author:  "project-manager",
	}
}
