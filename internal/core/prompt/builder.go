// Package prompt composes the instruction text sent to the oracle.
// Every builder here is a pure function of its inputs: no clock reads,
// no randomness, no I/O.
package prompt

import (
	"fmt"
	"strings"

	"github.com/example/factkeeper/internal/core/kb"
	"github.com/example/factkeeper/internal/models"
)

// System instructions paired with each request kind.
const (
	EditSystemInstruction      = "You are a precise fact-based knowledge management system. Follow instructions exactly."
	TaskSystemInstruction      = "You are a precise fact-based knowledge management system. Execute the task exactly as specified."
	GeneratorSystemInstruction = "You are a knowledge management task generator. Follow instructions exactly."
)

const unknown = "Unknown"

// EditRequest holds the inputs of one edit prompt.
// When Tasks is non-empty the prompt runs in task mode and Evidence is ignored.
type EditRequest struct {
	Current        models.KnowledgeBase
	Evidence       *models.Evidence
	Tasks          []string
	Guidelines     string
	ValidationDate string // YYYY-MM-DD stamped on modified facts
}

// TaskMode reports whether the request embeds a task list instead of evidence.
func (r EditRequest) TaskMode() bool {
	return len(r.Tasks) > 0
}

// SystemInstruction returns the system text matching the request mode.
func (r EditRequest) SystemInstruction() string {
	if r.TaskMode() {
		return TaskSystemInstruction
	}
	return EditSystemInstruction
}

// BuildEditRequest renders the edit prompt for evidence or task mode.
func BuildEditRequest(req EditRequest) string {
	if req.TaskMode() {
		return buildTaskPrompt(req)
	}
	return buildEvidencePrompt(req)
}

func buildEvidencePrompt(req EditRequest) string {
	var ev models.Evidence
	if req.Evidence != nil {
		ev = *req.Evidence
	}

	var b strings.Builder
	b.WriteString("You are a fact-based knowledge management system. Your task is to update a knowledge base based on new information from a message, following specific guidelines.\n\n")
	b.WriteString("## INPUT INFORMATION\n\n")
	writeSection(&b, "### Current Knowledge Base", kb.Encode(req.Current))
	b.WriteString("### New Information\n")
	fmt.Fprintf(&b, "Channel: %s\n", orUnknown(ev.Channel))
	fmt.Fprintf(&b, "User: %s\n", orUnknown(ev.Author))
	if !ev.Timestamp.IsZero() {
		fmt.Fprintf(&b, "Posted: %s\n", ev.Timestamp.UTC().Format("2006-01-02 15:04 MST"))
	}
	b.WriteString("Message:\n")
	b.WriteString(ev.Content)
	b.WriteString("\n\n")
	writeSection(&b, "### Knowledge Management Guidelines", req.Guidelines)

	b.WriteString("## YOUR TASK\n\n")
	b.WriteString("Analyze the message and update the knowledge base according to the guidelines. You should:\n\n")
	b.WriteString("1. **Update existing facts** with new data where applicable (especially metrics and current status)\n")
	b.WriteString("2. **Add new facts** if the message contains information not covered in existing facts\n")
	fmt.Fprintf(&b, "3. **Update validation dates** to today's date (%s) for any facts you modify or confirm\n", req.ValidationDate)
	b.WriteString("4. **Maintain fact numbering** - use existing numbers for updated facts, assign new numbers for new facts\n")
	b.WriteString("5. **Follow all guidelines** especially regarding objectivity, temporal clarity, and fact completeness\n\n")

	writeOutputContract(&b, req.Current.Title)
	return b.String()
}

func buildTaskPrompt(req EditRequest) string {
	var b strings.Builder
	b.WriteString("You are a fact-based knowledge management system. Your task is to execute specific knowledge management tasks by updating the knowledge base according to the guidelines.\n\n")
	b.WriteString("## INPUT INFORMATION\n\n")
	writeSection(&b, "### Current Knowledge Base", kb.Encode(req.Current))
	writeSection(&b, "### Knowledge Management Guidelines", req.Guidelines)
	writeSection(&b, "### Tasks to Execute", bulleted(req.Tasks))

	b.WriteString("## YOUR TASK\n\n")
	b.WriteString("Execute the above tasks by updating the knowledge base accordingly:\n\n")
	b.WriteString("1. **Analyze what each task requires** - understand what changes need to be made\n")
	b.WriteString("2. **Apply the changes** - update existing facts, merge duplicates, refresh data, fix issues, etc.\n")
	b.WriteString("3. **Follow all guidelines** especially regarding objectivity, temporal clarity, and fact completeness\n")
	fmt.Fprintf(&b, "4. **Update validation dates** to today's date (%s) for any facts you modify or confirm\n", req.ValidationDate)
	b.WriteString("5. **Maintain fact numbering** - use existing numbers for updated facts, reuse numbers when merging facts\n\n")

	b.WriteString("## EXECUTION GUIDELINES\n\n")
	b.WriteString("- **For consolidation tasks**: Merge duplicate facts into the most comprehensive version, retire redundant ones\n")
	b.WriteString("- **For validation tasks**: Update validation dates for facts that are confirmed as current\n")
	b.WriteString("- **For refresh tasks**: Update metrics and data with the most recent available information\n")
	b.WriteString("- **For audit tasks**: Review and fix language, formatting, or compliance issues\n")
	b.WriteString("- **For organization tasks**: Improve structure while maintaining content integrity\n\n")

	writeOutputContract(&b, req.Current.Title)
	return b.String()
}

// writeOutputContract appends the ONLY-the-table reply contract with a
// two-row template of the canonical layout.
func writeOutputContract(b *strings.Builder, title string) {
	if title == "" {
		title = models.DefaultTitle
	}
	b.WriteString("## OUTPUT FORMAT\n\n")
	b.WriteString("Respond with ONLY a properly formatted markdown table of the updated knowledge base, following this exact format:\n\n")
	fmt.Fprintf(b, "# %s\n\n", title)
	b.WriteString(kb.TableHeader + "\n")
	b.WriteString(kb.TableSeparator + "\n")
	b.WriteString("| **1** | [Fact description] | [YYYY-MM-DD] |\n")
	b.WriteString("| **2** | [Fact description] | [YYYY-MM-DD] |\n\n")
	b.WriteString("Do not include any explanation, analysis, or additional text. Only return the updated knowledge base table.")
}

func writeSection(b *strings.Builder, heading, body string) {
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n\n")
}

func bulleted(items []string) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "- " + strings.TrimSpace(it)
	}
	return strings.Join(lines, "\n")
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknown
	}
	return s
}
