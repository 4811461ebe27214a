package kb

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/factkeeper/internal/models"
)

// ErrNoFacts is returned when a reply yields zero valid fact rows.
// It cannot be told apart from an oracle that intentionally emptied the
// knowledge base; both are treated as failure.
var ErrNoFacts = errors.New("no valid fact rows found")

// State is a parser state.
type State int

// Parser states, in the order a well-formed reply visits them.
const (
	StateSeekingTitle State = iota
	StateSeekingTableHeader
	StateInTable
)

func (s State) String() string {
	switch s {
	case StateSeekingTitle:
		return "seeking_title"
	case StateSeekingTableHeader:
		return "seeking_table_header"
	case StateInTable:
		return "in_table"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// RowError describes a candidate row that was skipped.
type RowError struct {
	Line   int // 1-based line number in the reply
	Text   string
	Reason string
}

func (e RowError) String() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// ParseResult is the outcome of parsing a reply.
type ParseResult struct {
	KnowledgeBase models.KnowledgeBase
	Skipped       []RowError
	TitleFound    bool
	FinalState    State
}

// Parse runs the line-oriented state machine over an oracle reply.
//
// The title is the first line starting with a single '#', with surrounding
// whitespace trimmed; it may appear in any state and defaults to
// models.DefaultTitle. A header or separator row
// moves the machine into StateInTable, after which every non-blank line is a
// candidate fact row. Rows that fail validation are recorded in Skipped and
// never abort the parse. Numbering is taken verbatim (no dedup, no renumbering).
//
// When zero facts are found Parse returns the partial result together with
// ErrNoFacts so callers can still report the skipped rows.
func Parse(text string) (*ParseResult, error) {
	p := &parser{
		state: StateSeekingTitle,
		res: &ParseResult{
			KnowledgeBase: models.KnowledgeBase{Title: models.DefaultTitle},
		},
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, raw := range lines {
		p.step(i+1, strings.TrimSpace(raw))
	}

	p.res.FinalState = p.state
	if len(p.res.KnowledgeBase.Facts) == 0 {
		return p.res, ErrNoFacts
	}
	return p.res, nil
}

type parser struct {
	state State
	res   *ParseResult
}

func (p *parser) step(lineNo int, line string) {
	if line == "" || isFence(line) {
		return
	}

	if !p.res.TitleFound && isTitle(line) {
		p.res.KnowledgeBase.Title = strings.TrimSpace(strings.TrimPrefix(line, "#"))
		p.res.TitleFound = true
		if p.state == StateSeekingTitle {
			p.state = StateSeekingTableHeader
		}
		return
	}

	if isHeaderOrSeparator(line) {
		p.state = StateInTable
		return
	}

	if p.state != StateInTable {
		return
	}

	fact, reason := parseRow(line)
	if reason != "" {
		p.res.Skipped = append(p.res.Skipped, RowError{Line: lineNo, Text: line, Reason: reason})
		return
	}
	p.res.KnowledgeBase.Facts = append(p.res.KnowledgeBase.Facts, fact)
}

func isTitle(line string) bool {
	return strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "##")
}

func isFence(line string) bool {
	return strings.HasPrefix(line, "```")
}

// cells splits a pipe-delimited row into trimmed interior cells.
// ok is false when the leading or trailing delimiter is missing.
func cells(line string) (parts []string, ok bool) {
	if len(line) < 2 || !strings.HasPrefix(line, "|") || !strings.HasSuffix(line, "|") {
		return nil, false
	}
	inner := line[1 : len(line)-1]
	parts = strings.Split(inner, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, true
}

func stripBold(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "*", ""))
}

func isHeaderOrSeparator(line string) bool {
	parts, ok := cells(line)
	if !ok || len(parts) == 0 {
		return false
	}
	if stripBold(parts[0]) == "#" {
		return true
	}
	for _, c := range parts {
		if c == "" || strings.Trim(c, "-: ") != "" {
			return false
		}
	}
	return true
}

func parseRow(line string) (models.Fact, string) {
	parts, ok := cells(line)
	if !ok {
		return models.Fact{}, "missing leading or trailing pipe"
	}
	if len(parts) < 3 {
		return models.Fact{}, fmt.Sprintf("expected at least 3 fields, got %d", len(parts))
	}

	number, err := strconv.Atoi(stripBold(parts[0]))
	if err != nil {
		return models.Fact{}, "fact number is not an integer"
	}
	if number <= 0 {
		return models.Fact{}, "fact number must be positive"
	}
	if parts[1] == "" {
		return models.Fact{}, "empty description"
	}

	return models.Fact{
		Number:        number,
		Description:   parts[1],
		LastValidated: parts[2],
	}, ""
}
