// Package kb contains the canonical table codec for knowledge bases.
// Encode and Parse are pure functions; the table layout is a wire contract
// shared with the oracle, so the delimiters below must not change.
package kb

import (
	"fmt"
	"strings"

	"github.com/example/factkeeper/internal/models"
)

// Table layout constants.
const (
	TableHeader    = "| **#** | **Fact** | **Time Last Validated** |"
	TableSeparator = "| ----- | -------- | ----------------------- |"
)

// FormatRow renders one fact as a table row.
func FormatRow(f models.Fact) string {
	return fmt.Sprintf("| **%d** | %s | %s |", f.Number, f.Description, f.LastValidated)
}

// Encode renders a knowledge base as the canonical markdown table:
// a level-1 title, a blank line, header and separator rows, then one row per
// fact in sequence order. No trailing newline follows the last row.
func Encode(base models.KnowledgeBase) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(base.Title)
	b.WriteString("\n\n")
	b.WriteString(TableHeader)
	b.WriteString("\n")
	b.WriteString(TableSeparator)
	b.WriteString("\n")

	rows := make([]string, len(base.Facts))
	for i, f := range base.Facts {
		rows[i] = FormatRow(f)
	}
	b.WriteString(strings.Join(rows, "\n"))

	return b.String()
}

// Decode parses table text back into a knowledge base.
// Whitespace around the title and every cell is normalised away, so Decode
// is the left inverse of Encode only for titles and descriptions without
// leading or trailing whitespace and without pipe characters. Malformed rows
// are skipped; see Parse for details.
func Decode(text string) (models.KnowledgeBase, error) {
	res, err := Parse(text)
	if err != nil {
		return models.KnowledgeBase{}, err
	}
	return res.KnowledgeBase, nil
}
