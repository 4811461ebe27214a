// Package snapshot reads and writes the local copies of the fact table and
// the guidelines document.
package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/example/factkeeper/internal/models"
)

// ErrMissingColumn is returned when a required CSV column is absent.
var ErrMissingColumn = errors.New("csv missing required columns")

const dateLayout = "2006-01-02"

// Canonical column names, written by WriteFacts.
const (
	ColumnNumber        = "#"
	ColumnDescription   = "Fact"
	ColumnLastValidated = "Time Last Validated"
)

var headerAliases = map[string]string{
	"#":                   "number",
	"number":              "number",
	"Fact":                "description",
	"description":         "description",
	"Time Last Validated": "last_validated",
	"last_validated":      "last_validated",
}

var requiredColumns = []string{"number", "description", "last_validated"}

// Rejection describes a CSV row that could not be loaded.
type Rejection struct {
	Line   int
	Reason string
}

// FactSheet is the result of loading a fact CSV.
type FactSheet struct {
	Facts    []models.Fact
	Rejected []Rejection
}

// LoadFacts reads facts from CSV. Rows with a non-positive or non-integer
// number, an empty description, a date that is not YYYY-MM-DD, or a number
// already seen on an earlier row are rejected individually. A missing
// required column fails the whole sheet.
func LoadFacts(r io.Reader) (*FactSheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(requiredColumns, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	index := map[string]int{}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if key, ok := headerAliases[name]; ok {
			if _, dup := index[key]; !dup {
				index[key] = i
			}
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	sheet := &FactSheet{Facts: []models.Fact{}}
	seen := map[int]int{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)

		fact, reason := factFromRecord(record, index)
		if reason != "" {
			sheet.Rejected = append(sheet.Rejected, Rejection{Line: line, Reason: reason})
			continue
		}
		if first, dup := seen[fact.Number]; dup {
			sheet.Rejected = append(sheet.Rejected, Rejection{
				Line:   line,
				Reason: fmt.Sprintf("duplicate number %d (first on line %d)", fact.Number, first),
			})
			continue
		}
		seen[fact.Number] = line
		sheet.Facts = append(sheet.Facts, fact)
	}

	return sheet, nil
}

func factFromRecord(record []string, index map[string]int) (models.Fact, string) {
	field := func(col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	raw := field("number")
	number, err := strconv.Atoi(raw)
	if err != nil {
		return models.Fact{}, fmt.Sprintf("invalid number value: %q", raw)
	}
	if number <= 0 {
		return models.Fact{}, fmt.Sprintf("number must be positive: %d", number)
	}

	description := field("description")
	if description == "" {
		return models.Fact{}, fmt.Sprintf("empty description for number %d", number)
	}

	date := field("last_validated")
	if _, err := time.Parse(dateLayout, date); err != nil {
		return models.Fact{}, fmt.Sprintf("invalid date for number %d: %q (expected YYYY-MM-DD)", number, date)
	}

	return models.Fact{
		Number:        number,
		Description:   description,
		LastValidated: date,
	}, ""
}

// ReadFactsFile loads a fact CSV from disk.
func ReadFactsFile(path string) (*FactSheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open facts file: %w", err)
	}
	defer f.Close()

	return LoadFacts(f)
}

// WriteFacts writes facts as CSV with the canonical column names.
func WriteFacts(w io.Writer, facts []models.Fact) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{ColumnNumber, ColumnDescription, ColumnLastValidated}); err != nil {
		return err
	}
	for _, f := range facts {
		if err := writer.Write([]string{strconv.Itoa(f.Number), f.Description, f.LastValidated}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
