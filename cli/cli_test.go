package cli

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"
)

func flagSetWithInputDir(t *testing.T, dir, ext string) *flag.FlagSet {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.String("input-dir", "", "")
	fs.String("input-ext", "", "")
	if err := fs.Set("input-dir", dir); err != nil {
		t.Fatalf("Set input-dir: %v", err)
	}
	if err := fs.Set("input-ext", ext); err != nil {
		t.Fatalf("Set input-ext: %v", err)
	}
	return fs
}

func TestCollectInputsFromDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.fat", "b.fat", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	set := flagSetWithInputDir(t, dir, ".fat")
	ctx := cli.NewContext(App, set, nil)

	inputs, err := collectInputs(ctx)
	if err != nil {
		t.Fatalf("collectInputs: %v", err)
	}
	if len(inputs) != 2 {
		t.Fatalf("got %d inputs, want 2: %v", len(inputs), inputs)
	}
}

func TestValidateConfigModeFlagsRejectsDisallowed(t *testing.T) {
	set := flagSetWithInputDir(t, "/tmp", ".fat")
	ctx := cli.NewContext(App, set, nil)

	if err := validateConfigModeFlags(ctx, []string{"report", "tui"}); err == nil {
		t.Fatalf("expected error: --input-dir is not allowed alongside --config")
	}
}
