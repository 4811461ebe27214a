package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/factkeeper/internal/adapters/snapshot"
	"github.com/example/factkeeper/internal/core/kb"
	"github.com/example/factkeeper/internal/ports/primary"
)

// Export formats.
const (
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// KnowledgeAdapter translates CLI operations to KnowledgeService calls.
type KnowledgeAdapter struct {
	service primary.KnowledgeService
	out     io.Writer
}

// NewKnowledgeAdapter creates a new KnowledgeAdapter.
func NewKnowledgeAdapter(service primary.KnowledgeService, out io.Writer) *KnowledgeAdapter {
	return &KnowledgeAdapter{service: service, out: out}
}

// ShowFacts prints the resolved knowledge base and its source.
func (a *KnowledgeAdapter) ShowFacts(ctx context.Context) error {
	view := a.service.KnowledgeBase(ctx)
	fmt.Fprintf(a.out, "Source: %s (%d facts)\n", cyan(view.Source), len(view.KnowledgeBase.Facts))
	for _, s := range view.Skipped {
		fmt.Fprintf(a.out, "  %s %s\n", warnMark, dim(s))
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, kb.Encode(view.KnowledgeBase))
	return nil
}

// ExportFacts writes the resolved knowledge base to w without decoration.
func (a *KnowledgeAdapter) ExportFacts(ctx context.Context, w io.Writer, format string) error {
	view := a.service.KnowledgeBase(ctx)
	switch format {
	case FormatMarkdown, "":
		_, err := fmt.Fprintln(w, kb.Encode(view.KnowledgeBase))
		return err
	case FormatCSV:
		return snapshot.WriteFacts(w, view.KnowledgeBase.Facts)
	default:
		return fmt.Errorf("unknown export format %q (want %s or %s)", format, FormatMarkdown, FormatCSV)
	}
}

// ReplaceFacts loads a CSV file and swaps the stored fact table for it.
// Rejected rows are reported; with strict set any rejection aborts.
func (a *KnowledgeAdapter) ReplaceFacts(ctx context.Context, path string, strict bool) error {
	sheet, err := snapshot.ReadFactsFile(path)
	if err != nil {
		return err
	}
	for _, r := range sheet.Rejected {
		fmt.Fprintf(a.out, "%s line %d rejected: %s\n", warnMark, r.Line, r.Reason)
	}
	if strict && len(sheet.Rejected) > 0 {
		return fmt.Errorf("%d rows rejected; nothing replaced", len(sheet.Rejected))
	}

	n, err := a.service.ReplaceFacts(ctx, sheet.Facts)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Replaced stored facts with %d rows from %s\n", okMark, n, path)
	return nil
}

// Seed fills an empty store with built-in data.
func (a *KnowledgeAdapter) Seed(ctx context.Context) error {
	res, err := a.service.Seed(ctx)
	if err != nil {
		return err
	}
	if res.Facts == 0 && !res.Guidelines {
		fmt.Fprintln(a.out, "Store already populated; nothing seeded")
		return nil
	}
	fmt.Fprintf(a.out, "%s Seeded %d facts", okMark, res.Facts)
	if res.Guidelines {
		fmt.Fprint(a.out, " and the guidelines")
	}
	fmt.Fprintln(a.out)
	return nil
}

// ShowGuidelines prints the resolved guidelines and their source.
func (a *KnowledgeAdapter) ShowGuidelines(ctx context.Context) error {
	view := a.service.Guidelines(ctx)
	fmt.Fprintf(a.out, "Source: %s\n", cyan(view.Source))
	for _, s := range view.Skipped {
		fmt.Fprintf(a.out, "  %s %s\n", warnMark, dim(s))
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, view.Content)
	return nil
}

// SetGuidelines stores the content of a markdown file as the guidelines.
func (a *KnowledgeAdapter) SetGuidelines(ctx context.Context, path string) error {
	content, err := snapshot.ReadGuidelinesFile(path)
	if err != nil {
		return err
	}
	if err := a.service.SetGuidelines(ctx, content); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Guidelines updated from %s\n", okMark, path)
	return nil
}
