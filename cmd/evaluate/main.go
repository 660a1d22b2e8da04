// Command evaluate builds a baseline predictor from a sample file, predicts
// every sample's target window and scores the predictions with GEO-BLEU.
//
// Usage:
//
//	evaluate -samples data/samples_city_A.gob -model markov -n 400 -verbose
//	evaluate -model frequency -scorer exec -scorer-cmd "python3 scripts/geobleu_score.py"
package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Noofbiz/humob/baseline"
	"github.com/Noofbiz/humob/config"
	"github.com/Noofbiz/humob/datasets"
	"github.com/Noofbiz/humob/evaluate"
	"github.com/Noofbiz/humob/geobleu"
	"github.com/Noofbiz/humob/markov"
	"github.com/dustin/go-humanize"
)

func main() {
	def := config.Default()
	configPath := flag.String("config", "", "path to JSON tunables file (optional); explicit flags override it")
	samplesPath := flag.String("samples", def.Evaluate.Samples, "gob sample file written by preprocess")
	model := flag.String("model", def.Evaluate.Model, "predictor: 'markov' or 'frequency'")
	limit := flag.Int("n", def.Evaluate.Limit, "number of samples to evaluate (0 = all)")
	progress := flag.Int("progress", def.Evaluate.ProgressEvery, "log running statistics every N samples (0 = off)")
	recent := flag.Int("recent-from-day", def.Evaluate.RecentFromDay, "first input day counted by the frequency baseline")
	scorerName := flag.String("scorer", def.Evaluate.Scorer, "scorer: 'native' or 'exec'")
	scorerCmd := flag.String("scorer-cmd", "", "external scorer command line, e.g. 'python3 scripts/geobleu_score.py' (implies -scorer exec)")
	scorerTimeout := flag.Duration("scorer-timeout", def.GeoBLEU.Timeout(), "timeout for one external scorer call")
	beta := flag.Float64("beta", def.GeoBLEU.Beta, "GEO-BLEU distance decay of the native scorer")
	maxN := flag.Int("max-n", def.GeoBLEU.MaxN, "longest n-gram of the native scorer")
	saveReport := flag.Bool("save-report", def.Evaluate.SaveReport, "write the per-sample text report to -report")
	reportPath := flag.String("report", def.Evaluate.Report, "text report path used with -save-report")
	csvPath := flag.String("csv", def.Evaluate.CSV, "if set, write per-sample results as CSV to this path")
	plotPath := flag.String("plot", def.Evaluate.Plot, "if set, write a PNG with the score curve and histogram to this path")
	verbose := flag.Bool("verbose", def.Evaluate.Verbose, "print one table row per sample")
	flag.Parse()

	cfg := def
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		log.Printf("Loaded config from %s", *configPath)
	}
	e, g := &cfg.Evaluate, &cfg.GeoBLEU
	set := config.Explicit(flag.CommandLine)
	override := func(name string, apply func()) {
		if set[name] {
			apply()
		}
	}
	override("samples", func() { e.Samples = *samplesPath })
	override("model", func() { e.Model = *model })
	override("n", func() { e.Limit = *limit })
	override("progress", func() { e.ProgressEvery = *progress })
	override("recent-from-day", func() { e.RecentFromDay = *recent })
	override("scorer", func() { e.Scorer = *scorerName })
	override("scorer-cmd", func() {
		fields := strings.Fields(*scorerCmd)
		if len(fields) > 0 {
			g.Command, g.Args = fields[0], fields[1:]
			if !set["scorer"] {
				e.Scorer = config.ScorerExec
			}
		}
	})
	override("scorer-timeout", func() { g.SetTimeout(*scorerTimeout) })
	override("beta", func() { g.Beta = *beta })
	override("max-n", func() { g.MaxN = *maxN })
	override("save-report", func() { e.SaveReport = *saveReport })
	override("report", func() { e.Report = *reportPath })
	override("csv", func() { e.CSV = *csvPath })
	override("plot", func() { e.Plot = *plotPath })
	override("verbose", func() { e.Verbose = *verbose })

	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	window, samples, err := datasets.LoadSamples(e.Samples)
	if errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("sample file not found: %s (run preprocess first)", e.Samples)
	}
	if err != nil {
		log.Fatalf("failed to load samples: %v", err)
	}
	log.Printf("Loaded %s samples from %s (window %d+%d days)", humanize.Comma(int64(len(samples))), e.Samples, window.InputDays, window.TargetDays)

	predictor := buildPredictor(e, samples)
	scorer := buildScorer(e.Scorer, g)

	start := time.Now()
	rep, err := evaluate.Evaluate(samples, predictor, scorer, e.RunConfig())
	log.Printf("[Evaluate] %s finished in %s", predictor.Name(), time.Since(start).Round(time.Millisecond))
	rep.PrintSummary(os.Stdout)
	if errors.Is(err, evaluate.ErrNoResults) {
		os.Exit(1)
	}

	if e.SaveReport {
		if err := rep.WriteText(e.Report); err != nil {
			log.Fatalf("failed to write report: %v", err)
		}
		log.Printf("Report written to %s", e.Report)
	}
	if e.CSV != "" {
		if err := rep.WriteCSV(e.CSV); err != nil {
			log.Fatalf("failed to write csv: %v", err)
		}
		log.Printf("Results written to %s", e.CSV)
	}
	if e.Plot != "" {
		if err := rep.WritePlots(e.Plot); err != nil {
			log.Fatalf("failed to generate plot: %v", err)
		}
		log.Printf("Score plots written to %s", e.Plot)
	}
}

func buildPredictor(e *config.Evaluate, samples []datasets.Sample) evaluate.Predictor {
	switch e.Model {
	case config.ModelFrequency:
		return &baseline.MostFrequent{RecentFromDay: e.RecentFromDay}
	default:
		start := time.Now()
		p := markov.NewPredictor(samples)
		st := p.Table.Stats()
		log.Printf("[Markov] transition table: %s origins, %s edges from %s pairs, self-transitions %.1f%%, mean entropy %.2f bits (%s)",
			humanize.Comma(int64(st.Origins)), humanize.Comma(int64(st.Edges)), humanize.Comma(int64(st.Pairs)),
			st.SelfShare*100, st.MeanEntropy, time.Since(start).Round(time.Millisecond))
		return p
	}
}

func buildScorer(name string, g *config.GeoBLEU) evaluate.Scorer {
	if name == config.ScorerExec {
		log.Printf("[GeoBLEU] using external scorer: %s %s", g.Command, strings.Join(g.Args, " "))
		return &geobleu.Exec{Command: g.Command, Args: g.Args, Timeout: g.Timeout()}
	}
	return &geobleu.Native{Beta: g.Beta, MaxN: g.MaxN}
}
