package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/babilon/dedup-domains/pipeline"
)

func TestRenderWritesHTML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.html")

	result := pipeline.Result{
		Files: []pipeline.FileResult{
			{InputPath: "a.fat", Survivors: 3, Dominated: 1, CarriedOver: 2},
			{InputPath: "b.fat", Survivors: 5, Dominated: 0, CarriedOver: 0},
		},
	}

	if err := Render(result, path); err != nil {
		t.Fatalf("Render: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(b) == 0 {
		t.Fatalf("expected non-empty HTML output")
	}
}
