// Package evaluate runs a predictor over samples, scores every prediction
// against the sample's target window and aggregates the results.
package evaluate

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Noofbiz/humob/datasets"
	"github.com/Noofbiz/humob/stats"
	"github.com/dustin/go-humanize"
)

// Predictor forecasts the target window of a sample. Implementations return
// an error wrapping ErrSkip when a sample cannot be predicted but should not
// count as a failure.
type Predictor interface {
	Name() string
	Predict(s datasets.Sample) ([]datasets.Event, error)
}

// Scorer rates a predicted trajectory against the ground truth.
type Scorer interface {
	Score(pred, truth []datasets.Event) (float64, error)
}

var (
	// ErrSkip marks a sample the predictor declined.
	ErrSkip = errors.New("sample skipped")
	// ErrNoResults is returned when no sample was scored successfully.
	ErrNoResults = errors.New("no successful scores")
)

// Config controls an evaluation run.
type Config struct {
	// Limit caps the number of samples considered; 0 means all.
	Limit int
	// ProgressEvery logs running statistics every N samples; 0 disables.
	ProgressEvery int
	// Verbose writes one table row per sample to Out.
	Verbose bool
	// Out receives verbose rows. Defaults to os.Stdout.
	Out io.Writer
}

// DefaultConfig returns the settings of the reference evaluation.
func DefaultConfig() Config {
	return Config{Limit: 400, ProgressEvery: 100}
}

// Status is the outcome of one sample.
type Status int

const (
	StatusSuccess Status = iota // predicted and scored
	StatusFailed                // predictor or scorer error
	StatusSkipped               // predictor returned ErrSkip
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Result is the outcome of one sample.
type Result struct {
	Index  int
	UID    int64
	Length int
	Score  float64
	Status Status
	Err    string
}

// Report holds every per-sample result of a run and its summary.
type Report struct {
	Model   string
	Results []Result
	Summary Summary
}

// Scores returns the successful scores in sample order.
func (r *Report) Scores() []float64 {
	out := make([]float64, 0, r.Summary.Succeeded)
	for _, res := range r.Results {
		if res.Status == StatusSuccess {
			out = append(out, res.Score)
		}
	}
	return out
}

// Evaluate predicts and scores up to cfg.Limit samples in order. Predictor
// errors wrapping ErrSkip mark a sample skipped; any other predictor or
// scorer error marks it failed and the run continues. The report is always
// returned; the error is ErrNoResults when nothing was scored.
func Evaluate(samples []datasets.Sample, p Predictor, s Scorer, cfg Config) (*Report, error) {
	n := len(samples)
	if cfg.Limit > 0 && cfg.Limit < n {
		n = cfg.Limit
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	rep := &Report{Model: p.Name(), Results: make([]Result, 0, n)}
	if cfg.Verbose {
		writeTableHeader(out)
	}

	var sum float64
	succeeded, attempted := 0, 0
	for i := 0; i < n; i++ {
		sample := samples[i]
		res := Result{Index: i, UID: sample.UID, Length: len(sample.Y)}

		pred, err := p.Predict(sample)
		switch {
		case errors.Is(err, ErrSkip):
			res.Status = StatusSkipped
			res.Err = err.Error()
		case err != nil:
			attempted++
			res.Status = StatusFailed
			res.Err = fmt.Sprintf("predict: %v", err)
		default:
			attempted++
			score, err := s.Score(pred, sample.Y)
			if err != nil {
				res.Status = StatusFailed
				res.Err = fmt.Sprintf("score: %v", err)
			} else {
				res.Score = score
				res.Status = StatusSuccess
				sum += score
				succeeded++
			}
		}
		rep.Results = append(rep.Results, res)
		if cfg.Verbose {
			writeTableRow(out, res)
		}

		if cfg.ProgressEvery > 0 && (i+1)%cfg.ProgressEvery == 0 {
			mean, rate := 0.0, 0.0
			if succeeded > 0 {
				mean = sum / float64(succeeded)
			}
			if attempted > 0 {
				rate = float64(succeeded) / float64(attempted) * 100
			}
			log.Printf("[Evaluate] %s: %s/%s processed, mean=%.6f, success=%.1f%% (%s/%s)",
				rep.Model, humanize.Comma(int64(i+1)), humanize.Comma(int64(n)), mean, rate,
				humanize.Comma(int64(succeeded)), humanize.Comma(int64(attempted)))
		}
	}

	rep.Summary = Summarize(rep.Results)
	if rep.Summary.Succeeded == 0 {
		return rep, ErrNoResults
	}
	return rep, nil
}

// HistogramBuckets is the number of equal-width score buckets over [0, 1).
const HistogramBuckets = 10

// Summary aggregates a run. Mean, Min and Max cover successful samples only.
type Summary struct {
	Considered  int
	Attempted   int
	Succeeded   int
	Failed      int
	Skipped     int
	SuccessRate float64 // percent of attempted samples that were scored
	Mean        float64
	Min         float64
	Max         float64
	// Histogram[k] counts scores in [k/10, (k+1)/10). A score of exactly 1
	// falls outside every bucket.
	Histogram [HistogramBuckets]int
}

// Summarize aggregates per-sample results.
func Summarize(results []Result) Summary {
	s := Summary{Considered: len(results)}
	scores := make([]float64, 0, len(results))
	for _, r := range results {
		switch r.Status {
		case StatusSuccess:
			s.Attempted++
			s.Succeeded++
			scores = append(scores, r.Score)
		case StatusFailed:
			s.Attempted++
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		}
	}
	if s.Attempted > 0 {
		s.SuccessRate = float64(s.Succeeded) / float64(s.Attempted) * 100
	}
	if len(scores) == 0 {
		return s
	}
	s.Mean = stats.Mean(scores)
	s.Min, s.Max = stats.MinMax(scores)

	edges := make([]float64, HistogramBuckets+1)
	for k := range edges {
		edges[k] = float64(k) / HistogramBuckets
	}
	copy(s.Histogram[:], stats.Histogram(scores, edges))
	return s
}
