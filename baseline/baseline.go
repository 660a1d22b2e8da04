// Package baseline holds naive predictors used as reference points for the
// transition model.
package baseline

import (
	"fmt"

	"github.com/Noofbiz/humob/datasets"
	"github.com/Noofbiz/humob/evaluate"
)

// DefaultRecentFromDay is the first day of the recent window.
const DefaultRecentFromDay = 57

// MostFrequent predicts the cell a user visited most often during the last
// days of the input window, repeated for every target label.
type MostFrequent struct {
	// RecentFromDay is the first input day that counts as recent.
	RecentFromDay int
}

// NewMostFrequent returns a MostFrequent predictor with the default window.
func NewMostFrequent() *MostFrequent {
	return &MostFrequent{RecentFromDay: DefaultRecentFromDay}
}

// Name identifies the predictor in reports.
func (m *MostFrequent) Name() string { return "frequency" }

type cell struct{ x, y int }

// Predict returns the most common recent cell with the day and timestep of
// each target event. Ties go to the cell seen first. A sample with no recent
// input is skipped.
func (m *MostFrequent) Predict(s datasets.Sample) ([]datasets.Event, error) {
	counts := make(map[cell]int)
	var order []cell
	for _, e := range s.X {
		if e.Day < m.RecentFromDay {
			continue
		}
		c := cell{e.X, e.Y}
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("uid %d: no input events on or after day %d: %w", s.UID, m.RecentFromDay, evaluate.ErrSkip)
	}

	best := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}

	pred := make([]datasets.Event, len(s.Y))
	for i, target := range s.Y {
		pred[i] = datasets.Event{Day: target.Day, Timestep: target.Timestep, X: best.x, Y: best.y}
	}
	return pred, nil
}
