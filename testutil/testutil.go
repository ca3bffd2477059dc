// Package testutil holds fixture helpers shared across package tests.
package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

// GenerateTestBlocklistFile creates a temporary CSV block-list file with
// numLines fictional entries (values below 100 are raised to 100),
// cycling through a small set of domains at
// a mix of match strengths. Returns the file path and a cleanup function.
func GenerateTestBlocklistFile(t *testing.T, numLines int) (string, func()) {
	t.Helper()

	if numLines < 100 {
		numLines = 100
	}

	tmpFile, err := os.CreateTemp("", "test_blocklist_*.fat")
	if err != nil {
		t.Fatalf("Failed to create temp blocklist file: %v", err)
	}

	sampleDomains := []string{"ads.example.com", "tracker.example.net", "sub.ads.example.com", "bad.example.org", "www.malware.example.com"}
	strengths := []byte{'0', '1', '0', '1', '0'}

	var content strings.Builder
	for i := 0; i < numLines; i++ {
		idx := i % len(sampleDomains)
		fmt.Fprintf(&content, "x,%s,x,x,x,x,%c\n", sampleDomains[idx], strengths[idx])
	}

	if _, err := tmpFile.WriteString(content.String()); err != nil {
		t.Fatalf("Failed to write to temp blocklist file: %v", err)
	}
	tmpFile.Close()

	cleanup := func() {
		os.Remove(tmpFile.Name())
	}

	return tmpFile.Name(), cleanup
}

// TempFilePath returns a cross-platform temporary file path
// with the given pattern. Does not create the file.
func TempFilePath(t *testing.T, pattern string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	path := tmpFile.Name()
	tmpFile.Close()
	os.Remove(path)

	return path
}

// TempDirPath returns a cross-platform temporary directory path
func TempDirPath(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}
