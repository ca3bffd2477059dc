// Package reader streams logical lines out of an input file, tolerant
// of mixed CR/LF/CRLF runs, with a page buffer refilled from the file
// and a line-assembly buffer that truncates (with a warning) past a
// configured ceiling. It supports two modes: reading every line
// ("ingest") and a selective mode that skips all but a caller-chosen
// line cheaply, without copying skipped bytes ("emission").
//
// Grounded on logparser/parser.go's zero-copy scanning style and the
// original C driver's read_pfb_line/load_LineData next-line protocol.
package reader

import (
	"fmt"
	"io"
	"os"

	"github.com/babilon/dedup-domains/diag"
)

// DefaultPageSize and DefaultLineCeiling match the original's
// READ_BUFFER_SIZE and half of it respectively.
const (
	DefaultPageSize    = 4096
	DefaultLineCeiling = 2048
)

// Result distinguishes why a Read* call returned.
type Result int

const (
	EOF      Result = iota // input exhausted
	Stopped                // callback requested stop (ReadAll) or set next-line to 0 (ReadSelective)
)

// Callback is invoked once per logical line of interest. line is free
// of CR/LF terminators and valid only until the callback returns — the
// reader reuses its assembly buffer on the next line. lineNumber is
// 1-based.
//
// In ReadAll mode, nextLine is ignored; returning stop=true halts
// reading early ("callback requested stop").
//
// In ReadSelective mode, the callback must return the next line number
// it wants to see (which must be > lineNumber, the "monotonically
// increasing next line of interest" the spec describes); returning
// nextLine=0 terminates reading.
type Callback func(line []byte, lineNumber uint64) (nextLine uint64, stop bool)

type mode int

const (
	modeAll mode = iota
	modeSelective
)

// Reader streams logical lines from a single open file.
type Reader struct {
	f           *os.File
	pageSize    int
	lineCeiling int
	warn        *diag.Log

	page    []byte
	pageLen int
	pagePos int

	assembly []byte
}

// Option configures a Reader at construction time.
type Option func(*Reader)

// WithPageSize overrides the default 4096-byte refill page.
func WithPageSize(n int) Option {
	return func(r *Reader) { r.pageSize = n }
}

// WithLineCeiling overrides the default 2048-byte line-assembly ceiling.
func WithLineCeiling(n int) Option {
	return func(r *Reader) { r.lineCeiling = n }
}

// WithWarn attaches a diagnostics sink; truncation warnings are sent
// there. Without it, truncation happens silently.
func WithWarn(l *diag.Log) Option {
	return func(r *Reader) { r.warn = l }
}

// New wraps an already-open file for line-oriented reading.
func New(f *os.File, opts ...Option) *Reader {
	r := &Reader{
		f:           f,
		pageSize:    DefaultPageSize,
		lineCeiling: DefaultLineCeiling,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.page = make([]byte, r.pageSize)
	r.assembly = make([]byte, 0, r.lineCeiling)
	return r
}

// Rewind seeks the underlying file back to its start and resets the
// reader's internal buffers, so the same Reader can drive a second
// pass (e.g. ingest, then selective emission) over one file.
func (r *Reader) Rewind() error {
	if _, err := r.f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("reader: rewind: %w", err)
	}
	r.pageLen = 0
	r.pagePos = 0
	r.assembly = r.assembly[:0]
	return nil
}

func (r *Reader) warnf(kind diag.Kind, format string, args ...any) {
	if r.warn != nil {
		r.warn.Warn(kind, format, args...)
	}
}

// ReadAll invokes cb once per logical line in the file, in order,
// starting at line 1.
func (r *Reader) ReadAll(cb Callback) (Result, error) {
	return r.run(modeAll, 1, cb)
}

// ReadSelective invokes cb only on lines whose number matches the
// caller's running "next line of interest", starting at start. If
// start is 0, nothing is read.
func (r *Reader) ReadSelective(start uint64, cb Callback) (Result, error) {
	if start == 0 {
		return Stopped, nil
	}
	return r.run(modeSelective, start, cb)
}

func (r *Reader) run(m mode, target uint64, cb Callback) (Result, error) {
	var lineNumber uint64
	truncated := false
	sawByte := false // true once this line has seen any non-terminator byte, even if skipped uncaptured
	capturing := m == modeAll || target == 1
	r.assembly = r.assembly[:0]

	flush := func() (Result, error, bool) {
		lineNumber++
		if truncated {
			r.warnf(diag.TruncatedLine, "line %d truncated to %d bytes", lineNumber, r.lineCeiling)
		}
		if capturing {
			nextLine, stop := cb(r.assembly, lineNumber)
			if stop {
				return Stopped, nil, true
			}
			if m == modeSelective {
				if nextLine == 0 {
					return Stopped, nil, true
				}
				target = nextLine
			}
		}
		r.assembly = r.assembly[:0]
		truncated = false
		sawByte = false
		if m == modeSelective {
			capturing = lineNumber+1 == target
		}
		return EOF, nil, false
	}

	for {
		if r.pagePos >= r.pageLen {
			n, err := r.f.Read(r.page)
			if n == 0 {
				if err == nil || err == io.EOF {
					if sawByte || truncated {
						if res, ferr, done := flush(); done {
							return res, ferr
						}
					}
					return EOF, nil
				}
				return EOF, fmt.Errorf("reader: read: %w", err)
			}
			r.pageLen = n
			r.pagePos = 0
			if err != nil && err != io.EOF {
				return EOF, fmt.Errorf("reader: read: %w", err)
			}
		}

		b := r.page[r.pagePos]
		r.pagePos++

		if b == '\r' || b == '\n' {
			if !sawByte && !truncated {
				continue // run of blank terminators: collapse, do not count
			}
			if res, ferr, done := flush(); done {
				return res, ferr
			}
			continue
		}

		sawByte = true

		if m == modeSelective && !capturing {
			continue // cheap skip: no copy, no allocation
		}

		if len(r.assembly) >= r.lineCeiling {
			truncated = true
			continue // discard remainder until next terminator
		}
		r.assembly = append(r.assembly, b)
	}
}
