// Package config loads a TOML run description for dedup-domains,
// mirroring pipeline.Options so a run can be driven by a config file
// instead of CLI flags.
//
// Grounded on the teacher's config.LoadConfig: decode once into a raw
// map[string]any, then a second typed pass pulls out each section —
// kept here because the original two-pass approach tolerates a config
// file missing whole sections (global/static/live in the teacher;
// run/log/lumberjack here) without needing every field to be present.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// RunConfig mirrors pipeline.Options: the fields the core pipeline
// consumes, sourced from the `[run]` table.
type RunConfig struct {
	Inputs            []string `toml:"inputs"`
	InputDir          string   `toml:"inputDir"`
	InputExt          string   `toml:"inputExt"`
	OutputExt         string   `toml:"outputExt"`
	InitialBufferSize int      `toml:"initialBufferSize"`
	BufferGrowth      int      `toml:"bufferGrowth"`
	SharedBuffer      bool     `toml:"sharedBuffer"`
	PageSize          int      `toml:"pageSize"`
	LineCeiling       int      `toml:"lineCeiling"`
}

// LogConfig mirrors diag.Log's construction options, sourced from the
// `[log]` table.
type LogConfig struct {
	File   string `toml:"file"`
	Silent bool   `toml:"silent"`
}

// LumberjackConfig optionally enables diag's remote forwarder,
// sourced from the `[lumberjack]` table.
type LumberjackConfig struct {
	Address string `toml:"address"`
	Enabled bool   `toml:"enabled"`
}

// Config is the root TOML document.
type Config struct {
	Run        *RunConfig        `toml:"run"`
	Log        *LogConfig        `toml:"log"`
	Lumberjack *LumberjackConfig `toml:"lumberjack"`
}

// LoadConfig reads and decodes the TOML file at path. Absent sections
// default to zero-valued (but non-nil) structs so callers never need a
// nil check before reading a field.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg := &Config{}
	if m, ok := raw["run"].(map[string]any); ok {
		cfg.Run = parseRunConfig(m)
	} else {
		cfg.Run = &RunConfig{}
	}
	if m, ok := raw["log"].(map[string]any); ok {
		cfg.Log = parseLogConfig(m)
	} else {
		cfg.Log = &LogConfig{}
	}
	if m, ok := raw["lumberjack"].(map[string]any); ok {
		cfg.Lumberjack = parseLumberjackConfig(m)
	} else {
		cfg.Lumberjack = &LumberjackConfig{}
	}

	return cfg, nil
}

func parseRunConfig(m map[string]any) *RunConfig {
	rc := &RunConfig{}
	if v, ok := m["inputDir"].(string); ok {
		rc.InputDir = v
	}
	if v, ok := m["inputExt"].(string); ok {
		rc.InputExt = v
	}
	if v, ok := m["outputExt"].(string); ok {
		rc.OutputExt = v
	}
	if v, ok := m["sharedBuffer"].(bool); ok {
		rc.SharedBuffer = v
	}
	if v, ok := m["initialBufferSize"].(int64); ok {
		rc.InitialBufferSize = int(v)
	}
	if v, ok := m["bufferGrowth"].(int64); ok {
		rc.BufferGrowth = int(v)
	}
	if v, ok := m["pageSize"].(int64); ok {
		rc.PageSize = int(v)
	}
	if v, ok := m["lineCeiling"].(int64); ok {
		rc.LineCeiling = int(v)
	}
	if v, ok := m["inputs"].([]any); ok {
		for _, item := range v {
			if s, ok := item.(string); ok {
				rc.Inputs = append(rc.Inputs, s)
			}
		}
	}
	return rc
}

func parseLogConfig(m map[string]any) *LogConfig {
	lc := &LogConfig{}
	if v, ok := m["file"].(string); ok {
		lc.File = v
	}
	if v, ok := m["silent"].(bool); ok {
		lc.Silent = v
	}
	return lc
}

func parseLumberjackConfig(m map[string]any) *LumberjackConfig {
	lj := &LumberjackConfig{}
	if v, ok := m["address"].(string); ok {
		lj.Address = v
	}
	if v, ok := m["enabled"].(bool); ok {
		lj.Enabled = v
	}
	return lj
}

// Validate reports whether the loaded config is sufficient to run the
// pipeline: [run] must set either an explicit input list or an input
// directory. An empty output extension is accepted; the pipeline
// defaults it to ".txt".
func (c *Config) Validate() error {
	if c.Run == nil {
		return fmt.Errorf("config: missing [run] section")
	}
	if len(c.Run.Inputs) == 0 && c.Run.InputDir == "" {
		return fmt.Errorf("config: [run] must set either inputs or inputDir")
	}
	return nil
}
