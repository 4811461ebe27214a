package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/example/factkeeper/internal/core/kb"
	"github.com/example/factkeeper/internal/models"
)

// ErrNotTaskList is returned when a generator reply is not a JSON array.
var ErrNotTaskList = errors.New("reply is not a JSON array of tasks")

// BuildTaskGenerationRequest renders the prompt asking the oracle for
// 3-5 new maintenance tasks. Existing task titles are listed so the
// oracle can avoid duplicates.
func BuildTaskGenerationRequest(current models.KnowledgeBase, guidelines string, existing []string) string {
	existingText := "No existing tasks"
	if len(existing) > 0 {
		existingText = bulleted(existing)
	}

	var b strings.Builder
	b.WriteString("You are a knowledge management task generator. Your job is to analyze a fact-based knowledge base and generate actionable tasks to improve and maintain it.\n\n")
	b.WriteString("## INPUT INFORMATION\n\n")
	writeSection(&b, "### Current Knowledge Base", kb.Encode(current))
	writeSection(&b, "### Knowledge Management Guidelines", guidelines)
	writeSection(&b, "### Existing Tasks", existingText)

	b.WriteString("## YOUR TASK\n\n")
	b.WriteString("Based on the knowledge base and guidelines, generate 3-5 specific, actionable tasks that would improve the knowledge base. Focus on:\n\n")
	b.WriteString("1. **Data Quality Issues**: Missing validation dates, outdated information, inconsistent terminology\n")
	b.WriteString("2. **Information Gaps**: Areas where more detail would be valuable\n")
	b.WriteString("3. **Organizational Improvements**: Better categorization, consolidation opportunities\n")
	b.WriteString("4. **Content Updates**: Facts that may need verification or updating\n")
	b.WriteString("5. **Compliance**: Ensuring facts follow the guidelines properly\n\n")

	b.WriteString("## REQUIREMENTS\n\n")
	b.WriteString("- Each task should be specific and actionable\n")
	b.WriteString("- Don't duplicate existing tasks\n")
	b.WriteString("- Focus on high-impact improvements\n")
	b.WriteString("- Tasks should be doable within a reasonable timeframe\n")
	b.WriteString("- Prioritize operational utility and information currency\n\n")

	b.WriteString("## OUTPUT FORMAT\n\n")
	b.WriteString("Respond with ONLY a JSON array of task strings. No additional text, explanations, or formatting.\n\n")
	b.WriteString("Example format:\n")
	b.WriteString(`["Task 1 description", "Task 2 description", "Task 3 description"]`)
	b.WriteString("\n\nDo not include any explanation or additional text outside the JSON array.")
	return b.String()
}

// ParseTaskList decodes a generator reply into trimmed task titles.
// Surrounding code fences are stripped; blank or non-string entries are dropped.
func ParseTaskList(reply string) ([]string, error) {
	cleaned := strings.TrimSpace(reply)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		// drop an info string such as "json"
		if nl := strings.IndexByte(cleaned, '\n'); nl >= 0 {
			cleaned = cleaned[nl+1:]
		} else {
			cleaned = strings.TrimPrefix(cleaned, "json")
		}
	}
	cleaned = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(cleaned), "```"))

	var raw []any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotTaskList, err)
	}

	tasks := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			tasks = append(tasks, s)
		}
	}
	return tasks, nil
}
