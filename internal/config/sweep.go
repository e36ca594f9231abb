// Package config loads sweep plans from JSON files. A plan names the bridge
// to talk to, the variables to sweep and how to combine them, the analysis
// passes to run, and where the report goes.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/banshee-data/cavity.report/internal/hfss/sweep"
	"github.com/banshee-data/cavity.report/internal/hfss/variables"
	"github.com/banshee-data/cavity.report/internal/units"
)

// VariableSpec declares one swept variable. Values may be given explicitly
// or as a "min:max:step" range; explicit values win when both appear.
type VariableSpec struct {
	Name   string    `json:"name"`
	Unit   string    `json:"unit,omitempty"`
	Values []float64 `json:"values,omitempty"`
	Range  *string   `json:"range,omitempty"`
}

// SweepConfig is the root configuration for one sweep run. Optional fields
// are pointers so a partial config file can be distinguished from explicit
// zero values.
type SweepConfig struct {
	// Bridge connection
	BridgeURL *string `json:"bridge_url,omitempty"`

	// Expected solver-side identity. When set, the sweep verifies the
	// bridge has this project/design/setup open before the first solve.
	ProjectName *string `json:"project_name,omitempty"`
	DesignName  *string `json:"design_name,omitempty"`
	SetupName   *string `json:"setup_name,omitempty"`

	// Sweep definition
	Strategy  *string        `json:"strategy,omitempty"` // "product" or "zip"
	Variables []VariableSpec `json:"variables"`

	// Analysis passes
	Modes      []int             `json:"modes,omitempty"`       // solver mode numbers to analyze
	ModeLabels map[string]string `json:"mode_labels,omitempty"` // mode number -> physical name
	Quantum    *bool             `json:"quantum,omitempty"`     // run the quantum pass too

	// Outputs
	OutputCSV    *string `json:"output_csv,omitempty"`
	DatabasePath *string `json:"database_path,omitempty"`

	// Analyze deadline per solve, duration string like "45m". Empty means
	// no deadline.
	AnalyzeTimeout *string `json:"analyze_timeout,omitempty"`
}

// Defaults applied when the config file omits a field.
const (
	DefaultBridgeURL = "http://localhost:8090"
	DefaultStrategy  = "product"
)

// Load reads a SweepConfig from a JSON file. The file must have a .json
// extension and be under the max file size. Fields omitted from the JSON
// retain their defaults, so partial configs are safe.
func Load(path string) (*SweepConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg SweepConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config for contradictions before a sweep starts;
// failing here is much cheaper than failing after the first solve.
func (c *SweepConfig) Validate() error {
	if len(c.Variables) == 0 {
		return fmt.Errorf("config declares no swept variables")
	}
	seen := make(map[string]bool, len(c.Variables))
	for i, v := range c.Variables {
		if v.Name == "" {
			return fmt.Errorf("variable %d has no name", i)
		}
		if seen[v.Name] {
			return fmt.Errorf("variable %q declared twice", v.Name)
		}
		seen[v.Name] = true
		if !units.IsValid(v.Unit) {
			return fmt.Errorf("variable %q has invalid unit %q (valid: %s)", v.Name, v.Unit, units.GetValidUnitsString())
		}
		if len(v.Values) == 0 && v.Range == nil {
			return fmt.Errorf("variable %q has neither values nor a range", v.Name)
		}
	}

	if c.Strategy != nil {
		if _, err := sweep.ParseStrategy(*c.Strategy); err != nil {
			return err
		}
	}
	if c.AnalyzeTimeout != nil && *c.AnalyzeTimeout != "" {
		if _, err := time.ParseDuration(*c.AnalyzeTimeout); err != nil {
			return fmt.Errorf("invalid analyze_timeout: %w", err)
		}
	}
	for key := range c.ModeLabels {
		if _, err := strconv.Atoi(key); err != nil {
			return fmt.Errorf("mode_labels key %q is not a mode number", key)
		}
	}
	return nil
}

// BridgeAddr returns the configured bridge URL or the default.
func (c *SweepConfig) BridgeAddr() string {
	if c.BridgeURL != nil {
		return *c.BridgeURL
	}
	return DefaultBridgeURL
}

// SweepStrategy returns the configured strategy or the default.
func (c *SweepConfig) SweepStrategy() sweep.Strategy {
	if c.Strategy == nil {
		return sweep.StrategyProduct
	}
	s, _ := sweep.ParseStrategy(*c.Strategy)
	return s
}

// SweepVariables expands the variable specs into concrete swept variables.
func (c *SweepConfig) SweepVariables() ([]variables.Variable, error) {
	out := make([]variables.Variable, len(c.Variables))
	for i, spec := range c.Variables {
		values := spec.Values
		if len(values) == 0 {
			r, err := sweep.ParseRangeSpec(*spec.Range)
			if err != nil {
				return nil, fmt.Errorf("variable %q: %w", spec.Name, err)
			}
			values = r.Values()
		}
		out[i] = variables.Variable{Name: spec.Name, Unit: spec.Unit, Values: values}
	}
	return out, nil
}

// Labels converts the string-keyed mode_labels mapping into mode-number
// keys. Validate has already checked the keys parse.
func (c *SweepConfig) Labels() map[int]string {
	out := make(map[int]string, len(c.ModeLabels))
	for key, label := range c.ModeLabels {
		mode, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		out[mode] = label
	}
	return out
}

// AnalyzeDeadline returns the per-solve timeout, or zero for none.
func (c *SweepConfig) AnalyzeDeadline() time.Duration {
	if c.AnalyzeTimeout == nil || *c.AnalyzeTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(*c.AnalyzeTimeout)
	if err != nil {
		return 0
	}
	return d
}
