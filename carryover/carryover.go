// Package carryover tracks, per input file, the REGEX (passthrough)
// line numbers encountered during ingest. These bypass the trie
// entirely and are merged back into the surviving-line set at
// consolidation time.
package carryover

// Set is an ordered list of line numbers for one input file's REGEX
// lines, preserving encounter order (spec: "preserving encounter
// order").
type Set struct {
	lines []uint64
}

// Add records one REGEX line number. line must be non-zero.
func (s *Set) Add(line uint64) {
	s.lines = append(s.lines, line)
}

// Lines returns the recorded line numbers in encounter order.
func (s *Set) Lines() []uint64 {
	return s.lines
}

// Len returns the number of carried-over lines.
func (s *Set) Len() int {
	return len(s.lines)
}
