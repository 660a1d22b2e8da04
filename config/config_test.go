package config

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "humob.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Evaluate.Limit != 400 || cfg.Evaluate.ProgressEvery != 100 {
		t.Fatalf("unexpected evaluation defaults %+v", cfg.Evaluate)
	}
	if w := cfg.Preprocess.Window(); w.InputDays != 60 || w.TargetDays != 15 {
		t.Fatalf("unexpected window %+v", w)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `{
  "evaluate": {"model": "frequency", "limit": 50},
  "geobleu": {"beta": 0.25}
}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Evaluate.Model != ModelFrequency || cfg.Evaluate.Limit != 50 {
		t.Fatalf("file values not applied: %+v", cfg.Evaluate)
	}
	if cfg.Evaluate.ProgressEvery != 100 || cfg.GeoBLEU.MaxN != 3 {
		t.Fatalf("defaults lost for missing keys: %+v %+v", cfg.Evaluate, cfg.GeoBLEU)
	}
	if cfg.GeoBLEU.Beta != 0.25 {
		t.Fatalf("expected beta 0.25, got %v", cfg.GeoBLEU.Beta)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
	if _, err := Load(writeConfig(t, `{"evaluate": `)); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "humob.json")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault error: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Evaluate != Default().Evaluate || cfg.Preprocess != Default().Preprocess {
		t.Fatalf("round trip changed config: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"model":   func(c *Config) { c.Evaluate.Model = "lstm" },
		"scorer":  func(c *Config) { c.Evaluate.Scorer = "bleu" },
		"window":  func(c *Config) { c.Preprocess.InputDays = 0 },
		"beta":    func(c *Config) { c.GeoBLEU.Beta = 0 },
		"command": func(c *Config) { c.Evaluate.Scorer = ScorerExec; c.GeoBLEU.Command = "" },
		"limit":   func(c *Config) { c.Evaluate.Limit = -1 },
		"timeout": func(c *Config) { c.GeoBLEU.TimeoutMillis = -1 },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}

func TestScorerTimeoutResolution(t *testing.T) {
	var g GeoBLEU
	for _, tc := range []struct {
		in, want time.Duration
	}{
		{500 * time.Millisecond, 500 * time.Millisecond},
		{1500 * time.Millisecond, 1500 * time.Millisecond},
		{2 * time.Minute, 2 * time.Minute},
		{time.Microsecond, time.Millisecond},
		{0, 0},
		{-time.Second, 0},
	} {
		g.SetTimeout(tc.in)
		if got := g.Timeout(); got != tc.want {
			t.Fatalf("SetTimeout(%v): Timeout() = %v, want %v", tc.in, got, tc.want)
		}
	}

	cfg, err := Load(writeConfig(t, `{"geobleu": {"timeout_ms": 250}}`))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := cfg.GeoBLEU.Timeout(); got != 250*time.Millisecond {
		t.Fatalf("expected 250ms from file, got %v", got)
	}
	if got := Default().GeoBLEU.Timeout(); got != time.Minute {
		t.Fatalf("expected default of one minute, got %v", got)
	}
}

func TestExplicit(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Int("n", 400, "")
	fs.String("model", "markov", "")
	if err := fs.Parse([]string{"-n", "400"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	set := Explicit(fs)
	if !set["n"] || set["model"] {
		t.Fatalf("unexpected explicit set %v", set)
	}
}
