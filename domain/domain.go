// Package domain defines the core value types shared by the trie,
// consolidator, and file context: match strength and the terminal
// record payload a trie node carries.
package domain

import "fmt"

// MatchStrength classifies a CSV record and controls trie dominance.
// Values are total-ordered for WEAK/FULL/NOTSET; REGEX and BOGUS sit
// outside the dominance lattice entirely (REGEX bypasses the trie,
// BOGUS is never inserted).
type MatchStrength int8

const (
	Bogus  MatchStrength = -2 // malformed strength column; never inserted
	NotSet MatchStrength = -1 // strength field absent/unresolved
	Weak   MatchStrength = 0  // '0' — never dominates descendants
	Full   MatchStrength = 1  // '1' — dominates everything below it
	Regex  MatchStrength = 2  // '2' — passthrough, bypasses the trie
)

func (m MatchStrength) String() string {
	switch m {
	case Bogus:
		return "BOGUS"
	case NotSet:
		return "NOTSET"
	case Weak:
		return "WEAK"
	case Full:
		return "FULL"
	case Regex:
		return "REGEX"
	default:
		return fmt.Sprintf("MatchStrength(%d)", int8(m))
	}
}

// ParseStrength maps the single ASCII digit found in CSV field 6 to a
// MatchStrength. absent reports whether the field was missing entirely
// (fewer than 7 columns), in which case the caller should default to
// Weak per spec: missing implies WEAK, malformed implies BOGUS.
func ParseStrength(field []byte, absent bool) MatchStrength {
	if absent {
		return Weak
	}
	if len(field) != 1 {
		return Bogus
	}
	switch field[0] {
	case '0':
		return Weak
	case '1':
		return Full
	case '2':
		return Regex
	default:
		return Bogus
	}
}

// Record is the terminal payload installed at a trie node: the owned
// domain bytes, its source file index, its 1-based source line, and
// its resolved strength. Invariant: Strength is Weak or Full; Line>0.
type Record struct {
	Domain  []byte
	File    int
	Line    uint64
	Strength MatchStrength
}

// Len returns the number of bytes in the owned domain.
func (r *Record) Len() int {
	return len(r.Domain)
}
