// Package consolidate implements the trie-draining consolidation step
// and the per-file selective-read emission pass.
//
// Grounded on the original C driver's pfb_prune.c
// (pfb_consolidate/collect_DomainInfo/pfb_write_csv).
package consolidate

import (
	"fmt"

	"github.com/babilon/dedup-domains/carryover"
	"github.com/babilon/dedup-domains/domain"
	"github.com/babilon/dedup-domains/filectx"
	"github.com/babilon/dedup-domains/linevec"
	"github.com/babilon/dedup-domains/reader"
	"github.com/babilon/dedup-domains/trie"
)

// Run drains tr depth-first, appending each surviving record's line
// number to the PerFileLineVector named by its File index, then
// merges each file's carry-over (REGEX) line numbers in and sorts
// every vector ascending. After Run returns, tr is empty and every
// vector in vectors is sorted with no duplicates (trie survivors and
// carry-over lines are disjoint by construction — REGEX lines never
// reach the trie). onSurvivor, if non-nil, is called once per drained
// record before it is appended — callers use it to tally per-file
// survivor counts without re-walking the trie themselves.
func Run(tr *trie.Trie, vectors []*linevec.Vector, carry []*carryover.Set, onSurvivor func(file int, line uint64)) {
	tr.Drain(func(rec *domain.Record) {
		if rec.File < 0 || rec.File >= len(vectors) {
			return
		}
		if onSurvivor != nil {
			onSurvivor(rec.File, rec.Line)
		}
		vectors[rec.File].Append(rec.Line)
	})
	for i, v := range vectors {
		if i < len(carry) && carry[i] != nil {
			v.Merge(carry[i].Lines())
		}
		v.Sort()
	}
}

// Emit writes ctx's output file: one selective-mode re-read of the
// input, copying exactly the lines named by vector (already sorted
// ascending) plus a trailing '\n' each, in original line-number order.
// ctx's input must already be open; Emit rewinds it for the re-read.
func Emit(ctx *filectx.Context, vector *linevec.Vector, opts ...reader.Option) error {
	rdr, err := ctx.Reader(opts...)
	if err != nil {
		return err
	}
	if err := rdr.Rewind(); err != nil {
		return fmt.Errorf("consolidate: rewind %s: %w", ctx.InputPath, err)
	}

	out, err := ctx.OpenOutput()
	if err != nil {
		return err
	}

	lines := vector.Lines()
	if len(lines) == 0 {
		return nil
	}

	idx := 0
	var writeErr error
	_, err = rdr.ReadSelective(lines[0], func(line []byte, lineNumber uint64) (uint64, bool) {
		if _, werr := out.Write(line); werr != nil {
			writeErr = fmt.Errorf("consolidate: write %s: %w", ctx.OutputPath, werr)
			return 0, true
		}
		if _, werr := out.Write([]byte{'\n'}); werr != nil {
			writeErr = fmt.Errorf("consolidate: write %s: %w", ctx.OutputPath, werr)
			return 0, true
		}
		idx++
		if idx >= len(lines) {
			return 0, false
		}
		return lines[idx], false
	})
	if writeErr != nil {
		return writeErr
	}
	if err != nil {
		return fmt.Errorf("consolidate: selective read %s: %w", ctx.InputPath, err)
	}
	return nil
}
