// Package diag is the write-only diagnostics sink the rest of the
// pipeline logs warnings through. It mirrors the teacher's plain
// fmt.Fprintf(os.Stderr, ...) warning style (see jail.ReadBanFile) and
// the original C driver's per-kind diagnostic counters, with an
// optional lumberjack forwarder for shipping the same events to a
// remote collector.
package diag

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	cl2 "github.com/elastic/go-lumber/client/v2"
)

// Kind enumerates the diagnostic categories the pipeline can raise.
// MalformedInput, DomainRejected, TrieRejection, IoError, and
// OutOfMemory come from spec §7; TruncatedLine and LongLabel are the
// two textual warnings the reader and label splitter raise on their
// own soft-ceiling breaches.
type Kind int

const (
	MalformedInput Kind = iota
	DomainRejected
	TrieRejection
	IoError
	OutOfMemory
	TruncatedLine
	LongLabel
	numKinds
)

func (k Kind) String() string {
	switch k {
	case MalformedInput:
		return "malformed-input"
	case DomainRejected:
		return "domain-rejected"
	case TrieRejection:
		return "trie-rejection"
	case IoError:
		return "io-error"
	case OutOfMemory:
		return "out-of-memory"
	case TruncatedLine:
		return "truncated-line"
	case LongLabel:
		return "long-label"
	default:
		return "unknown"
	}
}

// Log is a write-only diagnostics sink: counts occurrences per Kind
// and writes a formatted line to its destination (stderr by default,
// or a file when configured, matching the original's silent_mode /
// LOG_IFARGS gate). Safe for concurrent use — the future-parallel
// emission surface (spec §5) may warn from multiple file workers.
type Log struct {
	dest    io.Writer
	silent  bool
	counts  [int(numKinds)]int64
	mu      sync.Mutex // serializes writes to dest; counts use atomics
	forward *cl2.SyncClient
}

// New creates a Log writing to dest. If silent is true, Warn still
// counts occurrences but writes nothing.
func New(dest io.Writer, silent bool) *Log {
	if dest == nil {
		dest = os.Stderr
	}
	return &Log{dest: dest, silent: silent}
}

// AttachForwarder wires an elastic/go-lumber v2 client so every Warn
// is additionally shipped as a lumberjack batch event to addr. This
// supplements, never replaces, the local sink. Mirrors the teacher's
// use of go-lumber for the reverse direction (ingestor.TCPIngestor
// receives batches; here the pipeline sends them).
func (l *Log) AttachForwarder(addr string) error {
	c, err := cl2.SyncDial(addr)
	if err != nil {
		return fmt.Errorf("diag: dial lumberjack forwarder %s: %w", addr, err)
	}
	l.forward = c
	return nil
}

// Close releases the optional forwarder connection.
func (l *Log) Close() error {
	if l.forward != nil {
		return l.forward.Close()
	}
	return nil
}

// Warn records one occurrence of kind and, unless silenced, writes a
// formatted diagnostic line. It never returns an error: a failed
// write to the log destination is itself just dropped, since logging
// failures must never abort the pipeline (spec §7: warnings are
// non-fatal by construction).
func (l *Log) Warn(kind Kind, format string, args ...any) {
	atomic.AddInt64(&l.counts[int(kind)], 1)

	msg := fmt.Sprintf(format, args...)
	if !l.silent {
		l.mu.Lock()
		fmt.Fprintf(l.dest, "%s: %s\n", kind, msg)
		l.mu.Unlock()
	}

	if l.forward != nil {
		// Best-effort: a forwarding failure never affects the local
		// sink or the pipeline's correctness.
		_, _ = l.forward.Send([]interface{}{
			map[string]interface{}{"kind": kind.String(), "message": msg},
		})
	}
}

// Count returns the number of Warn calls recorded for kind so far.
func (l *Log) Count(kind Kind) int64 {
	return atomic.LoadInt64(&l.counts[int(kind)])
}

// Total returns the sum of all Warn calls across every kind.
func (l *Log) Total() int64 {
	var sum int64
	for i := range l.counts {
		sum += atomic.LoadInt64(&l.counts[i])
	}
	return sum
}
