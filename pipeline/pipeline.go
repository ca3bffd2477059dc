// Package pipeline is the orchestrator: it owns the single shared
// trie, one filectx.Context per input file, and drives ingest,
// consolidation, and emission in order. This is the language-neutral
// expression of spec's "pipeline is the trie's single owner" design
// note and of the original driver's pfb_contexts_t/main.c loop.
package pipeline

import (
	"fmt"

	"github.com/babilon/dedup-domains/carryover"
	"github.com/babilon/dedup-domains/consolidate"
	"github.com/babilon/dedup-domains/csvfield"
	"github.com/babilon/dedup-domains/diag"
	"github.com/babilon/dedup-domains/domain"
	"github.com/babilon/dedup-domains/filectx"
	"github.com/babilon/dedup-domains/label"
	"github.com/babilon/dedup-domains/linevec"
	"github.com/babilon/dedup-domains/reader"
	"github.com/babilon/dedup-domains/trie"
)

// Options gathers everything the CLI/config layer resolves on behalf
// of the core (spec §6: "the core is handed (a) the ordered list of
// input file paths, (b) the output-extension string, (c) two
// buffer-size overrides, (d) a shared assembly buffer flag").
type Options struct {
	Inputs                []string
	OutputExt             string
	InitialVectorCapacity int
	VectorGrowth          int
	SharedBuffer          bool // not read by Run: every file gets its own reader and assembly buffer
	PageSize              int
	LineCeiling           int
	Diag                  *diag.Log
}

func (o *Options) fillDefaults() {
	if o.OutputExt == "" {
		o.OutputExt = ".txt"
	}
	if o.InitialVectorCapacity <= 0 {
		o.InitialVectorCapacity = linevec.DefaultInitialCapacity
	}
	if o.VectorGrowth <= 0 {
		o.VectorGrowth = linevec.DefaultGrowth
	}
	if o.PageSize <= 0 {
		o.PageSize = reader.DefaultPageSize
	}
	if o.LineCeiling <= 0 {
		o.LineCeiling = reader.DefaultLineCeiling
	}
	if o.Diag == nil {
		o.Diag = diag.New(nil, false)
	}
}

// FileResult summarizes one input file's run.
type FileResult struct {
	InputPath   string
	OutputPath  string
	LinesRead   uint64
	Inserted    int
	Replaced    int
	Dominated   int
	Survivors   int
	CarriedOver int
}

// Result summarizes an entire run.
type Result struct {
	Files         []FileResult
	TotalWarnings int64
}

// Progress is an optional, purely additive progress snapshot sent to
// statstui as the run advances.
type Progress struct {
	FilesTotal       int
	FilesIngested    int
	DomainsInserted  int
	DomainsDominated int
	Done             bool
}

// Run executes the full pipeline: ingest every input file into the
// shared trie (and each file's carry-over set), consolidate, then
// emit every output file. progress may be nil; if non-nil it receives
// a snapshot after each file's ingest and once more when done, and is
// closed by Run before returning.
func Run(opts Options, progress chan<- Progress) (Result, error) {
	if progress != nil {
		defer close(progress)
	}
	opts.fillDefaults()
	if len(opts.Inputs) == 0 {
		return Result{}, fmt.Errorf("pipeline: no input files")
	}

	n := len(opts.Inputs)
	contexts := make([]*filectx.Context, n)
	carrySets := make([]*carryover.Set, n)
	vectors := make([]*linevec.Vector, n)
	results := make([]FileResult, n)

	for i, path := range opts.Inputs {
		contexts[i] = filectx.New(path, opts.OutputExt, i)
		carrySets[i] = &carryover.Set{}
		vectors[i] = linevec.New(opts.InitialVectorCapacity, opts.VectorGrowth)
		results[i] = FileResult{InputPath: path, OutputPath: contexts[i].OutputPath}
	}

	tr := trie.New()

	for i, ctx := range contexts {
		if err := ctx.Open(); err != nil {
			return Result{}, err
		}
		rdr, err := ctx.Reader(reader.WithPageSize(opts.PageSize), reader.WithLineCeiling(opts.LineCeiling), reader.WithWarn(opts.Diag))
		if err != nil {
			return Result{}, err
		}

		var fields csvfield.View
		var lbl label.View
		fr := &results[i]

		_, err = rdr.ReadAll(func(line []byte, lineNumber uint64) (uint64, bool) {
			fr.LinesRead = lineNumber
			ingestLine(tr, carrySets[i], i, line, lineNumber, &fields, &lbl, opts.Diag, fr)
			return 0, false
		})
		if err != nil {
			opts.Diag.Warn(diag.IoError, "aborting %s: %v", ctx.InputPath, err)
			return Result{}, fmt.Errorf("pipeline: ingest %s: %w", ctx.InputPath, err)
		}

		if progress != nil {
			dominated := 0
			for k := 0; k <= i; k++ {
				dominated += results[k].Dominated
			}
			progress <- Progress{
				FilesTotal:       n,
				FilesIngested:    i + 1,
				DomainsInserted:  tr.Size(),
				DomainsDominated: dominated,
			}
		}
	}

	consolidate.Run(tr, vectors, carrySets, func(file int, _ uint64) {
		results[file].Survivors++
	})
	for i := range results {
		results[i].CarriedOver = carrySets[i].Len()
		// Records this file installed (new or upgraded) that did not
		// survive the drain were released by a FULL record at or above
		// them, so they count as dominated alongside the lines Insert
		// skipped outright.
		results[i].Dominated += results[i].Inserted + results[i].Replaced - results[i].Survivors
	}

	for i, ctx := range contexts {
		if err := consolidate.Emit(ctx, vectors[i]); err != nil {
			opts.Diag.Warn(diag.IoError, "emit %s: %v", ctx.InputPath, err)
			return Result{}, fmt.Errorf("pipeline: emit %s: %w", ctx.InputPath, err)
		}
	}

	for _, ctx := range contexts {
		if err := ctx.Close(); err != nil {
			opts.Diag.Warn(diag.IoError, "close %s: %v", ctx.InputPath, err)
		}
	}

	if progress != nil {
		progress <- Progress{FilesTotal: n, FilesIngested: n, Done: true}
	}

	return Result{Files: results, TotalWarnings: opts.Diag.Total()}, nil
}

// ingestLine resolves one CSV line into either a carry-over (REGEX)
// entry or a trie insertion, tallying fr's per-outcome counters.
func ingestLine(tr *trie.Trie, carry *carryover.Set, fileIndex int, line []byte, lineNumber uint64, fields *csvfield.View, lbl *label.View, logger *diag.Log, fr *FileResult) {
	csvfield.Split(line, fields)

	domainField, ok := fields.Field(csvfield.DomainField)
	if !ok || domainField.Length == 0 {
		logger.Warn(diag.DomainRejected, "empty domain at line %d", lineNumber)
		return
	}

	strengthField, present := fields.Field(csvfield.StrengthField)
	var strengthBytes []byte
	if present {
		strengthBytes = strengthField.Bytes(line)
	}
	strength := domain.ParseStrength(strengthBytes, !present)

	if strength == domain.Regex {
		carry.Add(lineNumber)
		return
	}
	if strength == domain.Bogus {
		logger.Warn(diag.MalformedInput, "malformed match-strength at line %d", lineNumber)
		return
	}

	domainBytes := append([]byte(nil), domainField.Bytes(line)...)
	ok, warn, err := label.Split(domainBytes, lbl)
	if err != nil {
		logger.Warn(diag.DomainRejected, "line %d: %v", lineNumber, err)
		return
	}
	if !ok {
		logger.Warn(diag.DomainRejected, "empty domain at line %d", lineNumber)
		return
	}
	if warn {
		logger.Warn(diag.LongLabel, "line %d: label exceeds 63 bytes", lineNumber)
	}

	rec := &domain.Record{
		Domain:   domainBytes,
		File:     fileIndex,
		Line:     lineNumber,
		Strength: strength,
	}
	outcome, err := tr.Insert(rec, lbl.Labels())
	if err != nil {
		logger.Warn(diag.TrieRejection, "line %d: %v", lineNumber, err)
		return
	}
	switch outcome {
	case trie.Inserted:
		fr.Inserted++
	case trie.Replaced:
		fr.Replaced++
	case trie.SkippedDominated:
		fr.Dominated++
	}
}
