// Package cli wires the prune command, grounded on the teacher's
// urfave/cli/v2 App/flag/Action structure: shared flag vars, a
// validateConfigModeFlags-style mutual-exclusion check between --config
// and the discrete flags, and a single handler that dispatches to a
// config-driven or flag-driven path.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/babilon/dedup-domains/config"
	"github.com/babilon/dedup-domains/diag"
	"github.com/babilon/dedup-domains/pipeline"
	"github.com/babilon/dedup-domains/report"
	"github.com/babilon/dedup-domains/statstui"
	"github.com/babilon/dedup-domains/version"
	cli "github.com/urfave/cli/v2"
)

// parseDate attempts to parse the build date
func parseDate(d string) time.Time {
	t, err := time.Parse(time.RFC3339, d)
	if err != nil {
		return time.Now()
	}
	return t
}

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to a TOML configuration file (mutually exclusive with the flags below)",
	}
	inputDirFlag = &cli.StringFlag{
		Name:  "input-dir",
		Usage: "Directory to scan for input files (used with --input-ext)",
	}
	inputExtFlag = &cli.StringFlag{
		Name:  "input-ext",
		Usage: "Extension of input files to scan for when using --input-dir",
		Value: ".fat",
	}
	outputExtFlag = &cli.StringFlag{
		Name:  "output-ext",
		Usage: "Extension appended to each input's base name to form its output path",
		Value: ".txt",
	}
	initialBufferSizeFlag = &cli.IntFlag{
		Name:  "initial-buffer-size",
		Usage: "Initial capacity of each per-file survivor line vector",
	}
	bufferGrowthFlag = &cli.IntFlag{
		Name:  "buffer-growth",
		Usage: "Growth increment for the survivor line vector once it fills",
	}
	sharedBufferFlag = &cli.BoolFlag{
		Name:  "shared-buffer",
		Usage: "Recorded in the run options; the pipeline does not read it and gives every file its own assembly buffer",
	}
	reportFlag = &cli.StringFlag{
		Name:  "report",
		Usage: "Path to write an HTML chart summarizing survivors/dominated/carried-over per file",
	}
	tuiFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Show a live progress dashboard while the run proceeds",
	}
	logFlag = &cli.StringFlag{
		Name:  "log",
		Usage: "Path to write diagnostic warnings (defaults to stderr)",
	}
	silentFlag = &cli.BoolFlag{
		Name:  "silent",
		Usage: "Suppress diagnostic warnings on stderr (counts are still kept)",
	}
)

func validateConfigModeFlags(c *cli.Context, allowedFlags []string) error {
	allowed := make(map[string]bool)
	for _, f := range allowedFlags {
		allowed[f] = true
	}
	flagsToCheck := []string{
		"input-dir", "input-ext", "output-ext", "initial-buffer-size",
		"buffer-growth", "shared-buffer", "log", "silent",
	}
	for _, f := range flagsToCheck {
		if c.IsSet(f) && !allowed[f] {
			return fmt.Errorf("when using --config, only %v flags are allowed", allowedFlags)
		}
	}
	return nil
}

// collectInputs resolves the args/--input-dir combination into an
// ordered file list, or uses an explicit list as-is.
func collectInputs(c *cli.Context) ([]string, error) {
	if dir := c.String("input-dir"); dir != "" {
		ext := c.String("input-ext")
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("reading input dir %s: %w", dir, err)
		}
		var files []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if strings.HasSuffix(e.Name(), ext) {
				files = append(files, filepath.Join(dir, e.Name()))
			}
		}
		return files, nil
	}
	return c.Args().Slice(), nil
}

func handlePruneCommand(c *cli.Context) error {
	configPath := c.String("config")
	if configPath != "" {
		return handlePruneConfigMode(c, configPath)
	}
	return handlePruneFlagsMode(c)
}

func handlePruneConfigMode(c *cli.Context, configPath string) error {
	if err := validateConfigModeFlags(c, []string{"report", "tui"}); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputs := cfg.Run.Inputs
	if len(inputs) == 0 && cfg.Run.InputDir != "" {
		ext := cfg.Run.InputExt
		if ext == "" {
			ext = ".fat"
		}
		entries, err := os.ReadDir(cfg.Run.InputDir)
		if err != nil {
			return fmt.Errorf("reading input dir %s: %w", cfg.Run.InputDir, err)
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ext) {
				inputs = append(inputs, filepath.Join(cfg.Run.InputDir, e.Name()))
			}
		}
	}

	logger, closeLog, err := buildLogger(cfg.Log.File, cfg.Log.Silent)
	if err != nil {
		return err
	}
	defer closeLog()
	if cfg.Lumberjack.Enabled && cfg.Lumberjack.Address != "" {
		if err := logger.AttachForwarder(cfg.Lumberjack.Address); err != nil {
			return fmt.Errorf("attaching lumberjack forwarder: %w", err)
		}
	}

	opts := pipeline.Options{
		Inputs:                inputs,
		OutputExt:             cfg.Run.OutputExt,
		InitialVectorCapacity: cfg.Run.InitialBufferSize,
		VectorGrowth:          cfg.Run.BufferGrowth,
		SharedBuffer:          cfg.Run.SharedBuffer,
		PageSize:              cfg.Run.PageSize,
		LineCeiling:           cfg.Run.LineCeiling,
		Diag:                  logger,
	}

	return runPipeline(opts, c.Bool("tui"), c.String("report"))
}

func handlePruneFlagsMode(c *cli.Context) error {
	inputs, err := collectInputs(c)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no input files: pass paths as arguments or set --input-dir")
	}

	logger, closeLog, err := buildLogger(c.String("log"), c.Bool("silent"))
	if err != nil {
		return err
	}
	defer closeLog()

	opts := pipeline.Options{
		Inputs:                inputs,
		OutputExt:             c.String("output-ext"),
		InitialVectorCapacity: c.Int("initial-buffer-size"),
		VectorGrowth:          c.Int("buffer-growth"),
		SharedBuffer:          c.Bool("shared-buffer"),
	}
	opts.Diag = logger

	return runPipeline(opts, c.Bool("tui"), c.String("report"))
}

func buildLogger(path string, silent bool) (*diag.Log, func(), error) {
	if path == "" {
		return diag.New(nil, silent), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	return diag.New(f, silent), func() { f.Close() }, nil
}

func runPipeline(opts pipeline.Options, tui bool, reportPath string) error {
	if tui {
		progress := make(chan pipeline.Progress, 8)
		var result pipeline.Result
		var runErr error
		done := make(chan struct{})
		go func() {
			result, runErr = pipeline.Run(opts, progress)
			close(done)
		}()
		if err := statstui.Run(progress); err != nil {
			return err
		}
		<-done
		if runErr != nil {
			return runErr
		}
		return writeReport(result, reportPath)
	}

	result, err := pipeline.Run(opts, nil)
	if err != nil {
		return err
	}
	fmt.Printf("processed %d files, %d total warnings\n", len(result.Files), result.TotalWarnings)
	for _, fr := range result.Files {
		fmt.Printf("  %s -> %s: %d survivors, %d dominated, %d carried over\n",
			fr.InputPath, fr.OutputPath, fr.Survivors, fr.Dominated, fr.CarriedOver)
	}
	return writeReport(result, reportPath)
}

func writeReport(result pipeline.Result, path string) error {
	if path == "" {
		return nil
	}
	return report.Render(result, path)
}

var App = &cli.App{
	Name:     "dedup-domains",
	Usage:    "Deduplicate DNS block-list domains across one or more files",
	Version:  version.Version,
	Compiled: parseDate(version.Date),
	Commands: []*cli.Command{
		{
			Name:      "prune",
			Usage:     "Consolidate and emit deduplicated block lists",
			ArgsUsage: "[input files...]",
			Flags: []cli.Flag{
				configFlag,
				inputDirFlag,
				inputExtFlag,
				outputExtFlag,
				initialBufferSizeFlag,
				bufferGrowthFlag,
				sharedBufferFlag,
				reportFlag,
				tuiFlag,
				logFlag,
				silentFlag,
			},
			Action: handlePruneCommand,
		},
	},
}
