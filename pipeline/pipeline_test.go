package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/babilon/dedup-domains/testutil"
)

func writeCSV(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func readOut(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	return string(b)
}

// Scenario 1: a FULL parent dominates a FULL child within one file.
func TestRunDominanceScenario(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "a.fat", []string{
		"x,abc.www.somedomain.com,x,x,x,x,1",
		"x,somedomain.com,x,x,x,x,1",
	})

	res, err := Run(Options{Inputs: []string{path}}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Files) != 1 {
		t.Fatalf("got %d file results, want 1", len(res.Files))
	}
	out := readOut(t, res.Files[0].OutputPath)
	want := "x,somedomain.com,x,x,x,x,1\n"
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
	if res.Files[0].Dominated != 1 || res.Files[0].Survivors != 1 {
		t.Fatalf("counts = %+v", res.Files[0])
	}
}

// Scenario 4: REGEX lines pass through verbatim among survivors.
func TestRunRegexPassthrough(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "b.fat", []string{
		"x,weak.one.com,x,x,x,x,0",    // line 1, survives (WEAK)
		"x,weak.two.com,x,x,x,x,0",    // line 2, survives (WEAK)
		"x,^regex-one$,x,x,x,x,2",     // line 3, REGEX passthrough
		"x,weak.three.com,x,x,x,x,0",  // line 4, survives
		"x,weak.four.com,x,x,x,x,0",   // line 5, survives
		"x,weak.five.com,x,x,x,x,0",   // line 6, survives
		"x,^regex-two$,x,x,x,x,2",     // line 7, REGEX passthrough
	})

	res, err := Run(Options{Inputs: []string{path}}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := readOut(t, res.Files[0].OutputPath)
	want := "x,weak.one.com,x,x,x,x,0\nx,weak.two.com,x,x,x,x,0\nx,^regex-one$,x,x,x,x,2\nx,weak.three.com,x,x,x,x,0\nx,weak.four.com,x,x,x,x,0\nx,weak.five.com,x,x,x,x,0\nx,^regex-two$,x,x,x,x,2\n"
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
	if res.Files[0].CarriedOver != 2 {
		t.Fatalf("CarriedOver = %d, want 2", res.Files[0].CarriedOver)
	}
}

// Scenario 5: cross-file dominance — file B's WEAK sub-domain is
// dominated by file A's FULL parent.
func TestRunCrossFileDominance(t *testing.T) {
	dir := t.TempDir()
	pathA := writeCSV(t, dir, "fileA.fat", []string{
		"x,irrelevant.one,x,x,x,x,0",
		"x,irrelevant.two,x,x,x,x,0",
		"x,irrelevant.three,x,x,x,x,0",
		"x,example.org,x,x,x,x,1",
	})
	pathB := make([]string, 9)
	for i := range pathB {
		pathB[i] = "x,filler" + string(rune('a'+i)) + ".net,x,x,x,x,0"
	}
	pathB = append(pathB, "x,sub.example.org,x,x,x,x,0")
	fileB := writeCSV(t, dir, "fileB.fat", pathB)

	res, err := Run(Options{Inputs: []string{pathA, fileB}}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	outA := readOut(t, res.Files[0].OutputPath)
	if outA != "x,irrelevant.one,x,x,x,x,0\nx,irrelevant.two,x,x,x,x,0\nx,irrelevant.three,x,x,x,x,0\nx,example.org,x,x,x,x,1\n" {
		t.Fatalf("outA = %q", outA)
	}
	outB := readOut(t, res.Files[1].OutputPath)
	for _, l := range []string{"sub.example.org"} {
		if contains(outB, l) {
			t.Fatalf("outB should not contain dominated line %q: %q", l, outB)
		}
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && (func() bool {
		for i := 0; i+len(needle) <= len(haystack); i++ {
			if haystack[i:i+len(needle)] == needle {
				return true
			}
		}
		return false
	})()
}

func TestRunEmptyFileInBatch(t *testing.T) {
	dir := t.TempDir()
	nonEmptyA := writeCSV(t, dir, "a.fat", []string{"x,one.com,x,x,x,x,1"})
	empty := writeCSV(t, dir, "empty.fat", nil)
	nonEmptyB := writeCSV(t, dir, "b.fat", []string{"x,two.com,x,x,x,x,1"})

	res, err := Run(Options{Inputs: []string{nonEmptyA, empty, nonEmptyB}}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Files) != 3 {
		t.Fatalf("got %d results, want 3", len(res.Files))
	}
	if got := readOut(t, res.Files[1].OutputPath); got != "" {
		t.Fatalf("empty file output = %q, want empty", got)
	}
	if got := readOut(t, res.Files[0].OutputPath); got != "x,one.com,x,x,x,x,1\n" {
		t.Fatalf("file a output = %q", got)
	}
	if got := readOut(t, res.Files[2].OutputPath); got != "x,two.com,x,x,x,x,1\n" {
		t.Fatalf("file b output = %q", got)
	}
}

func TestRunProgressChannel(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "c.fat", []string{"x,one.com,x,x,x,x,1"})

	progress := make(chan Progress, 8)
	if _, err := Run(Options{Inputs: []string{path}}, progress); err != nil {
		t.Fatalf("Run: %v", err)
	}
	var last Progress
	count := 0
	for p := range progress {
		last = p
		count++
	}
	if count == 0 {
		t.Fatalf("expected at least one progress update")
	}
	if !last.Done {
		t.Fatalf("last progress update should be Done: %+v", last)
	}
}

func TestRunOnGeneratedFixture(t *testing.T) {
	path, cleanup := testutil.GenerateTestBlocklistFile(t, 500)
	defer cleanup()

	res, err := Run(Options{Inputs: []string{path}}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Files[0].LinesRead != 500 {
		t.Fatalf("LinesRead = %d, want 500", res.Files[0].LinesRead)
	}
	if res.Files[0].Survivors == 0 {
		t.Fatalf("expected some survivors")
	}
}
