// Package config holds the JSON tunables shared by the command line tools.
// Values in a file override the built-in defaults and flags set explicitly
// on the command line override the file.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Noofbiz/humob/baseline"
	"github.com/Noofbiz/humob/datasets"
	"github.com/Noofbiz/humob/evaluate"
	"github.com/Noofbiz/humob/geobleu"
)

// Model and scorer names accepted by the evaluate tool.
const (
	ModelMarkov    = "markov"
	ModelFrequency = "frequency"
	ScorerNative   = "native"
	ScorerExec     = "exec"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full tunables file, one section per tool.
type Config struct {
	Preprocess Preprocess `json:"preprocess"`
	Evaluate   Evaluate   `json:"evaluate"`
	GeoBLEU    GeoBLEU    `json:"geobleu"`
}

// Preprocess configures the preprocess command.
type Preprocess struct {
	Input      string `json:"input"`
	SQLDriver  string `json:"sql_driver"`
	SQLDSN     string `json:"sql_dsn"`
	SQLTable   string `json:"sql_table"`
	Output     string `json:"output"`
	InputDays  int    `json:"input_days"`
	TargetDays int    `json:"target_days"`
	Preview    int    `json:"preview"`
}

// Evaluate configures the evaluate command.
type Evaluate struct {
	Samples       string `json:"samples"`
	Model         string `json:"model"`
	Limit         int    `json:"limit"`
	ProgressEvery int    `json:"progress_every"`
	RecentFromDay int    `json:"recent_from_day"`
	Scorer        string `json:"scorer"`
	SaveReport    bool   `json:"save_report"`
	Report        string `json:"report"`
	CSV           string `json:"csv"`
	Plot          string `json:"plot"`
	Verbose       bool   `json:"verbose"`
}

// GeoBLEU configures the native and external scorers.
type GeoBLEU struct {
	Beta    float64  `json:"beta"`
	MaxN    int      `json:"max_n"`
	Command string   `json:"command"`
	Args    []string `json:"args"`
	// TimeoutMillis bounds one external scorer call; 0 means no limit.
	TimeoutMillis int `json:"timeout_ms"`
}

// Default returns the built-in configuration.
func Default() Config {
	ev := evaluate.DefaultConfig()
	return Config{
		Preprocess: Preprocess{
			Input:      "data/city_A.csv",
			SQLTable:   "trajectories",
			Output:     "data/samples_city_A.gob",
			InputDays:  datasets.DefaultWindow.InputDays,
			TargetDays: datasets.DefaultWindow.TargetDays,
		},
		Evaluate: Evaluate{
			Samples:       "data/samples_city_A.gob",
			Model:         ModelMarkov,
			Limit:         ev.Limit,
			ProgressEvery: ev.ProgressEvery,
			RecentFromDay: baseline.DefaultRecentFromDay,
			Scorer:        ScorerNative,
			Report:        "output/evaluation_results.txt",
		},
		GeoBLEU: GeoBLEU{
			Beta:          geobleu.DefaultBeta,
			MaxN:          geobleu.DefaultMaxN,
			Command:       "python3",
			Args:          []string{"scripts/geobleu_score.py"},
			TimeoutMillis: 60000,
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// WriteDefault writes the default configuration to path.
func WriteDefault(path string) error {
	data, err := json.MarshalIndent(Default(), "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Window returns the preprocessing window.
func (p Preprocess) Window() datasets.Window {
	return datasets.Window{InputDays: p.InputDays, TargetDays: p.TargetDays}
}

// RunConfig returns the evaluation loop settings.
func (e Evaluate) RunConfig() evaluate.Config {
	return evaluate.Config{Limit: e.Limit, ProgressEvery: e.ProgressEvery, Verbose: e.Verbose}
}

// Timeout returns the external scorer timeout.
func (g GeoBLEU) Timeout() time.Duration {
	return time.Duration(g.TimeoutMillis) * time.Millisecond
}

// SetTimeout stores d at millisecond resolution. Positive durations below
// one millisecond round up so they never turn into "no limit".
func (g *GeoBLEU) SetTimeout(d time.Duration) {
	switch {
	case d <= 0:
		g.TimeoutMillis = 0
	case d < time.Millisecond:
		g.TimeoutMillis = 1
	default:
		g.TimeoutMillis = int(d / time.Millisecond)
	}
}

// Validate checks the values the tools cannot run without.
func (c Config) Validate() error {
	if err := c.Preprocess.Window().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch c.Evaluate.Model {
	case ModelMarkov, ModelFrequency:
	default:
		return fmt.Errorf("%w: unknown model %q", ErrInvalid, c.Evaluate.Model)
	}
	switch c.Evaluate.Scorer {
	case ScorerNative:
		if c.GeoBLEU.Beta <= 0 || c.GeoBLEU.MaxN <= 0 {
			return fmt.Errorf("%w: geobleu beta and max_n must be positive", ErrInvalid)
		}
	case ScorerExec:
		if c.GeoBLEU.Command == "" {
			return fmt.Errorf("%w: exec scorer needs a command", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown scorer %q", ErrInvalid, c.Evaluate.Scorer)
	}
	if c.GeoBLEU.TimeoutMillis < 0 {
		return fmt.Errorf("%w: timeout_ms must not be negative", ErrInvalid)
	}
	if c.Evaluate.Limit < 0 || c.Evaluate.ProgressEvery < 0 {
		return fmt.Errorf("%w: limit and progress_every must not be negative", ErrInvalid)
	}
	return nil
}

// Explicit returns the names of the flags set on the command line.
func Explicit(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}
