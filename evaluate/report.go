package evaluate

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

const rule = "================================================================================"

func writeTableHeader(w io.Writer) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-8s %-15s %-8s %-12s %s\n", "sample", "uid", "length", "score", "status")
	fmt.Fprintln(w, rule)
}

func writeTableRow(w io.Writer, r Result) {
	switch r.Status {
	case StatusSuccess:
		fmt.Fprintf(w, "%-8d %-15d %-8d %-12.6f %s\n", r.Index, r.UID, r.Length, r.Score, r.Status)
	default:
		fmt.Fprintf(w, "%-8d %-15d %-8d %-12s %s: %s\n", r.Index, r.UID, r.Length, "N/A", r.Status, truncate(r.Err, 30))
	}
}

// truncate keeps the first n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// PrintSummary writes the final statistics block. With no successful
// scores it writes a single "no results" line.
func (r *Report) PrintSummary(w io.Writer) {
	s := r.Summary
	if s.Succeeded == 0 {
		fmt.Fprintf(w, "%s: no results (%s considered, %s skipped, %s failed)\n", r.Model,
			humanize.Comma(int64(s.Considered)), humanize.Comma(int64(s.Skipped)), humanize.Comma(int64(s.Failed)))
		return
	}
	fmt.Fprintf(w, "Final statistics (%s):\n", r.Model)
	fmt.Fprintf(w, "  samples considered: %s\n", humanize.Comma(int64(s.Considered)))
	fmt.Fprintf(w, "  attempted:          %s\n", humanize.Comma(int64(s.Attempted)))
	fmt.Fprintf(w, "  succeeded:          %s\n", humanize.Comma(int64(s.Succeeded)))
	fmt.Fprintf(w, "  failed:             %s\n", humanize.Comma(int64(s.Failed)))
	fmt.Fprintf(w, "  skipped:            %s\n", humanize.Comma(int64(s.Skipped)))
	fmt.Fprintf(w, "  success rate:       %.1f%%\n", s.SuccessRate)
	fmt.Fprintf(w, "  mean score:         %.6f\n", s.Mean)
	fmt.Fprintf(w, "  max score:          %.6f\n", s.Max)
	fmt.Fprintf(w, "  min score:          %.6f\n", s.Min)
	fmt.Fprintln(w, "Score distribution:")
	for k, c := range s.Histogram {
		if c == 0 {
			continue
		}
		lo, hi := float64(k)/HistogramBuckets, float64(k+1)/HistogramBuckets
		fmt.Fprintf(w, "  [%.1f, %.1f): %d samples (%.1f%%)\n", lo, hi, c, float64(c)/float64(s.Succeeded)*100)
	}
}

// WriteText writes the per-sample listing followed by the summary.
func (r *Report) WriteText(path string) error {
	f, err := create(path)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s evaluation results\n", r.Model)
	fmt.Fprintln(&b, strings.Repeat("=", 50))
	fmt.Fprintln(&b)
	for _, res := range r.Results {
		fmt.Fprintf(&b, "sample %03d: uid=%d, length=%d, ", res.Index, res.UID, res.Length)
		if res.Status == StatusSuccess {
			fmt.Fprintf(&b, "score=%.6f\n", res.Score)
		} else {
			fmt.Fprintf(&b, "status=%s: %s\n", res.Status, res.Err)
		}
	}
	fmt.Fprintln(&b)
	r.PrintSummary(&b)

	if _, err := io.WriteString(f, b.String()); err != nil {
		f.Close()
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return f.Close()
}

// WriteCSV writes one row per considered sample.
func (r *Report) WriteCSV(path string) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	_ = w.Write([]string{"sample", "uid", "length", "status", "score", "error"})
	for _, res := range r.Results {
		score := ""
		if res.Status == StatusSuccess {
			score = strconv.FormatFloat(res.Score, 'f', 6, 64)
		}
		_ = w.Write([]string{
			strconv.Itoa(res.Index),
			strconv.FormatInt(res.UID, 10),
			strconv.Itoa(res.Length),
			res.Status.String(),
			score,
			res.Err,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write csv %s: %w", path, err)
	}
	return f.Close()
}

// create opens path for writing, creating parent directories.
func create(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("empty output path")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}
