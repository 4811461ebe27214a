package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/factkeeper/internal/models"
	"github.com/example/factkeeper/internal/ports/primary"
)

func sampleView() *primary.KnowledgeView {
	return &primary.KnowledgeView{
		KnowledgeBase: models.KnowledgeBase{
			Title: models.DefaultTitle,
			Facts: []models.Fact{
				{Number: 1, Description: "Coverage is 60%", LastValidated: "2025-01-01"},
				{Number: 4, Description: "Launch, then review", LastValidated: "2025-02-01"},
			},
		},
		Source:  "local",
		Skipped: []string{"remote: backend not configured"},
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestKnowledgeAdapter_ShowFacts(t *testing.T) {
	var out bytes.Buffer
	adapter := NewKnowledgeAdapter(&mockKnowledgeService{view: sampleView()}, &out)

	if err := adapter.ShowFacts(context.Background()); err != nil {
		t.Fatal(err)
	}
	output := out.String()
	for _, want := range []string{"local", "2 facts", "remote: backend not configured", "| **4** | Launch, then review | 2025-02-01 |"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestKnowledgeAdapter_ExportFacts(t *testing.T) {
	adapter := NewKnowledgeAdapter(&mockKnowledgeService{view: sampleView()}, &bytes.Buffer{})
	ctx := context.Background()

	var csvOut bytes.Buffer
	if err := adapter.ExportFacts(ctx, &csvOut, FormatCSV); err != nil {
		t.Fatal(err)
	}
	want := "#,Fact,Time Last Validated\n1,Coverage is 60%,2025-01-01\n4,\"Launch, then review\",2025-02-01\n"
	if csvOut.String() != want {
		t.Errorf("csv export = %q, want %q", csvOut.String(), want)
	}

	var mdOut bytes.Buffer
	if err := adapter.ExportFacts(ctx, &mdOut, FormatMarkdown); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(mdOut.String(), "# "+models.DefaultTitle) {
		t.Errorf("markdown export missing title: %q", mdOut.String())
	}

	if err := adapter.ExportFacts(ctx, &bytes.Buffer{}, "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestKnowledgeAdapter_ReplaceFacts(t *testing.T) {
	path := writeTemp(t, "facts.csv", "#,Fact,Time Last Validated\n1,one,2025-01-01\nx,bad,2025-01-01\n3,three,2025-01-03\n")

	t.Run("lenient", func(t *testing.T) {
		svc := &mockKnowledgeService{}
		var out bytes.Buffer
		adapter := NewKnowledgeAdapter(svc, &out)

		if err := adapter.ReplaceFacts(context.Background(), path, false); err != nil {
			t.Fatal(err)
		}
		if len(svc.replaced) != 2 {
			t.Errorf("expected 2 facts replaced, got %d", len(svc.replaced))
		}
		if !strings.Contains(out.String(), "line 3 rejected") {
			t.Errorf("expected rejection report:\n%s", out.String())
		}
	})

	t.Run("strict", func(t *testing.T) {
		svc := &mockKnowledgeService{}
		adapter := NewKnowledgeAdapter(svc, &bytes.Buffer{})

		if err := adapter.ReplaceFacts(context.Background(), path, true); err == nil {
			t.Fatal("expected strict mode to fail")
		}
		if svc.replaced != nil {
			t.Error("nothing should be replaced in strict mode")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		adapter := NewKnowledgeAdapter(&mockKnowledgeService{}, &bytes.Buffer{})
		if err := adapter.ReplaceFacts(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), false); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestKnowledgeAdapter_Guidelines(t *testing.T) {
	svc := &mockKnowledgeService{guidelines: &primary.GuidelinesView{Content: "Keep facts short.", Source: "remote"}}
	var out bytes.Buffer
	adapter := NewKnowledgeAdapter(svc, &out)
	ctx := context.Background()

	if err := adapter.ShowGuidelines(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Keep facts short.") {
		t.Errorf("guidelines not printed:\n%s", out.String())
	}

	path := writeTemp(t, "guidelines.md", "# Rules\n\nDate every fact.\n")
	if err := adapter.SetGuidelines(ctx, path); err != nil {
		t.Fatal(err)
	}
	if svc.setTo != "# Rules\n\nDate every fact.\n" {
		t.Errorf("SetGuidelines got %q", svc.setTo)
	}
}

func TestKnowledgeAdapter_Seed(t *testing.T) {
	tests := []struct {
		name string
		seed *primary.SeedResult
		want string
	}{
		{"fresh store", &primary.SeedResult{Facts: 10, Guidelines: true}, "Seeded 10 facts and the guidelines"},
		{"populated store", &primary.SeedResult{}, "nothing seeded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			adapter := NewKnowledgeAdapter(&mockKnowledgeService{seed: tt.seed}, &out)
			if err := adapter.Seed(context.Background()); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("expected %q, got %q", tt.want, out.String())
			}
		})
	}
}
