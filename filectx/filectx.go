// Package filectx owns one input/output file pair across the
// pipeline's lifetime: the input handle, the derived output path and
// handle, and the per-file carry-over set of REGEX line numbers.
//
// Grounded on the original C driver's pfb_context.c
// (pfb_open_context/pfb_close_context) and the teacher's jail/io.go
// file-handling conventions (os.Create/os.Open, explicit defer Close).
package filectx

import (
	"fmt"
	"os"
	"strings"

	"github.com/babilon/dedup-domains/carryover"
	"github.com/babilon/dedup-domains/reader"
)

// State is the monotonic lifecycle a Context moves through. Reopening
// after Close is rejected.
type State int

const (
	Unopened State = iota
	Opened
	Closed
)

// Context owns one input file and its derived output file.
type Context struct {
	InputPath  string
	OutputPath string
	FileIndex  int
	Carry      carryover.Set

	state  State
	input  *os.File
	output *os.File
	reader *reader.Reader
}

// DeriveOutputPath replaces inputPath's trailing extension (the
// substring from the last '.' found by a full left-to-right scan)
// with outputExt (which should include its own leading dot, e.g.
// ".txt"). If inputPath has no '.' at all, outputExt is appended
// rather than replacing anything.
func DeriveOutputPath(inputPath, outputExt string) string {
	idx := strings.LastIndexByte(inputPath, '.')
	if idx < 0 {
		return inputPath + outputExt
	}
	return inputPath[:idx] + outputExt
}

// New builds a Context for one input file, deriving its output path.
func New(inputPath, outputExt string, fileIndex int) *Context {
	return &Context{
		InputPath:  inputPath,
		OutputPath: DeriveOutputPath(inputPath, outputExt),
		FileIndex:  fileIndex,
	}
}

// Open opens the input file, binary-mode in both directions (Go does
// not distinguish text/binary on the platforms this runs on, unlike
// the source's fopen("rb") calls, but the data is treated as an
// uninterpreted byte stream either way). Reopening an already-opened
// or closed Context is rejected.
func (c *Context) Open() error {
	if c.state != Unopened {
		return fmt.Errorf("filectx: reopen rejected for %s (state=%d)", c.InputPath, c.state)
	}
	f, err := os.Open(c.InputPath)
	if err != nil {
		return fmt.Errorf("filectx: open input %s: %w", c.InputPath, err)
	}
	c.input = f
	c.state = Opened
	return nil
}

// Reader returns the reader.Reader bound to this context's input
// handle, constructing it (with opts applied) on first use.
func (c *Context) Reader(opts ...reader.Option) (*reader.Reader, error) {
	if c.state != Opened {
		return nil, fmt.Errorf("filectx: %s is not open (state=%d)", c.InputPath, c.state)
	}
	if c.reader == nil {
		c.reader = reader.New(c.input, opts...)
	}
	return c.reader, nil
}

// OpenOutput creates (truncating) the output file for writing. Called
// once, at emission time — per design, ingest never writes output
// (see spec's resolution of the source's inconsistent REGEX-write
// timing: emission writes the merged, sorted survivors in one pass).
func (c *Context) OpenOutput() (*os.File, error) {
	f, err := os.Create(c.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("filectx: create output %s: %w", c.OutputPath, err)
	}
	c.output = f
	return f, nil
}

// Close closes whichever of the input/output handles are open and
// marks the context closed. Reclosing is rejected.
func (c *Context) Close() error {
	if c.state == Closed {
		return fmt.Errorf("filectx: double close rejected for %s", c.InputPath)
	}
	var firstErr error
	if c.input != nil {
		if err := c.input.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("filectx: close input %s: %w", c.InputPath, err)
		}
	}
	if c.output != nil {
		if err := c.output.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("filectx: close output %s: %w", c.OutputPath, err)
		}
	}
	c.state = Closed
	return firstErr
}

// State reports the context's current lifecycle state.
func (c *Context) State() State {
	return c.state
}
