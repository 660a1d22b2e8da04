// Command preprocess turns a raw per-user location log into the sample file
// read by the evaluate command.
//
// Usage:
//
//	preprocess -in data/city_A.csv -out data/samples_city_A.gob
//	preprocess -sql-driver sqlite -sql-dsn data/tracks.db -sql-table trajectories
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/Noofbiz/humob/config"
	"github.com/Noofbiz/humob/datasets"
	"github.com/dustin/go-humanize"
)

func main() {
	def := config.Default()
	configPath := flag.String("config", "", "path to JSON tunables file (optional); explicit flags override it")
	in := flag.String("in", def.Preprocess.Input, "CSV log (or glob of CSV files) with at least uid,d,t,x,y columns")
	sqlDriver := flag.String("sql-driver", def.Preprocess.SQLDriver, "read the log from SQL instead of CSV: 'sqlite' or 'postgres'")
	sqlDSN := flag.String("sql-dsn", def.Preprocess.SQLDSN, "SQL data source name (sqlite file path or postgres URL)")
	sqlTable := flag.String("sql-table", def.Preprocess.SQLTable, "SQL table holding the log")
	out := flag.String("out", def.Preprocess.Output, "output gob sample file")
	inputDays := flag.Int("input-days", def.Preprocess.InputDays, "distinct days in the input window")
	targetDays := flag.Int("target-days", def.Preprocess.TargetDays, "distinct days in the target window")
	preview := flag.Int("preview", def.Preprocess.Preview, "convert the first N samples to tensors and print their shapes (0 = off)")
	writeConfig := flag.String("write-config", "", "write the default JSON configuration to this path and exit")
	flag.Parse()

	if *writeConfig != "" {
		if err := config.WriteDefault(*writeConfig); err != nil {
			log.Fatalf("failed to write default config: %v", err)
		}
		log.Printf("Wrote default config to %s", *writeConfig)
		return
	}

	cfg := def
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		log.Printf("Loaded config from %s", *configPath)
	}
	p := &cfg.Preprocess
	set := config.Explicit(flag.CommandLine)
	override := func(name string, apply func()) {
		if set[name] {
			apply()
		}
	}
	override("in", func() { p.Input = *in })
	override("sql-driver", func() { p.SQLDriver = *sqlDriver })
	override("sql-dsn", func() { p.SQLDSN = *sqlDSN })
	override("sql-table", func() { p.SQLTable = *sqlTable })
	override("out", func() { p.Output = *out })
	override("input-days", func() { p.InputDays = *inputDays })
	override("target-days", func() { p.TargetDays = *targetDays })
	override("preview", func() { p.Preview = *preview })

	window := p.Window()
	if err := window.Validate(); err != nil {
		log.Fatalf("invalid window: %v", err)
	}

	start := time.Now()
	records, source, err := loadRecords(*p)
	if errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("input file not found: %s", source)
	}
	if err != nil {
		log.Fatalf("failed to load log from %s: %v", source, err)
	}
	log.Printf("[Preprocess] loaded %s records from %s in %s", humanize.Comma(int64(len(records))), source, time.Since(start).Round(time.Millisecond))

	samples, stats, err := datasets.BuildSamples(records, window)
	if err != nil {
		log.Fatalf("failed to build samples: %v", err)
	}
	log.Printf("[Preprocess] users=%s kept=%s short_history=%s empty_window=%s (window %d+%d days)",
		humanize.Comma(int64(stats.Users)), humanize.Comma(int64(stats.Kept)),
		humanize.Comma(int64(stats.ShortHistory)), humanize.Comma(int64(stats.EmptyWindow)),
		window.InputDays, window.TargetDays)
	if len(samples) == 0 {
		log.Printf("[Preprocess] warning: no user has %d distinct days; writing an empty sample file", window.MinDays())
	}

	if err := datasets.SaveSamples(p.Output, window, samples); err != nil {
		log.Fatalf("failed to save samples: %v", err)
	}
	fmt.Printf("Saved %s samples to %s\n", humanize.Comma(int64(len(samples))), p.Output)

	if p.Preview > 0 && len(samples) > 0 {
		if err := printPreview(samples, p.Preview); err != nil {
			log.Fatalf("preview failed: %v", err)
		}
	}
}

// loadRecords reads the log from SQL when a driver is configured, from CSV
// otherwise. source names where it was read from.
func loadRecords(p config.Preprocess) (records []datasets.Record, source string, err error) {
	if p.SQLDriver != "" {
		source = fmt.Sprintf("%s table %s", p.SQLDriver, p.SQLTable)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		records, err = datasets.LoadEventsSQL(ctx, p.SQLDriver, p.SQLDSN, p.SQLTable)
		return records, source, err
	}
	records, err = datasets.LoadEvents(p.Input)
	return records, p.Input, err
}

// printPreview yields the first n samples as one tensor batch and prints
// the tensor shapes and the first sample's head.
func printPreview(samples []datasets.Sample, n int) error {
	n = min(n, len(samples))
	ds, err := datasets.NewSampleDataset(samples[:n], n)
	if err != nil {
		return err
	}
	_, inputs, labels, err := ds.Yield()
	if err != nil {
		return fmt.Errorf("yield preview batch: %w", err)
	}
	fmt.Printf("%s batch of %d: X=%s X_len=%s Y=%s Y_len=%s\n", ds.Name(), n,
		inputs[0].Shape(), inputs[1].Shape(), labels[0].Shape(), labels[1].Shape())

	first := samples[0]
	fmt.Printf("First sample uid=%d: %d input events over %d days, %d target events over %d days\n",
		first.UID, len(first.X), len(datasets.Days(first.X)), len(first.Y), len(datasets.Days(first.Y)))
	for i := 0; i < min(5, len(first.X)); i++ {
		fmt.Printf("  X[%d] = %v\n", i, first.X[i].Tuple())
	}
	for i := 0; i < min(5, len(first.Y)); i++ {
		fmt.Printf("  Y[%d] = %v\n", i, first.Y[i].Tuple())
	}
	return nil
}
