package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/example/factkeeper/internal/models"
	"github.com/example/factkeeper/internal/ports/secondary"
)

// ErrNoPath is returned when a snapshot has no configured location.
var ErrNoPath = errors.New("snapshot path not configured")

// ReadGuidelinesFile returns the guidelines document at path verbatim.
func ReadGuidelinesFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read guidelines file: %w", err)
	}
	return string(data), nil
}

// FactFile is the local fact snapshot backed by a CSV file.
type FactFile struct {
	Path string
}

// NewFactFile creates a fact snapshot for path. An empty path yields a
// snapshot that always fails.
func NewFactFile(path string) *FactFile {
	return &FactFile{Path: path}
}

// LoadFacts reads the CSV. Rejected rows are dropped.
func (f *FactFile) LoadFacts(ctx context.Context) ([]models.Fact, error) {
	if f.Path == "" {
		return nil, ErrNoPath
	}
	sheet, err := ReadFactsFile(f.Path)
	if err != nil {
		return nil, err
	}
	return sheet.Facts, nil
}

// GuidelineFile is the local guidelines snapshot backed by a markdown file.
type GuidelineFile struct {
	Path string
}

// NewGuidelineFile creates a guidelines snapshot for path.
func NewGuidelineFile(path string) *GuidelineFile {
	return &GuidelineFile{Path: path}
}

// LoadGuidelines reads the markdown document.
func (g *GuidelineFile) LoadGuidelines(ctx context.Context) (string, error) {
	if g.Path == "" {
		return "", ErrNoPath
	}
	return ReadGuidelinesFile(g.Path)
}

var (
	_ secondary.FactSnapshot      = (*FactFile)(nil)
	_ secondary.GuidelineSnapshot = (*GuidelineFile)(nil)
)
