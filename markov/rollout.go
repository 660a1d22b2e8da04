package markov

import (
	"fmt"

	"github.com/Noofbiz/humob/datasets"
)

// Rollout walks the table greedily from start. For every target label it
// moves to the most probable successor of the current cell, or stays put when
// the current cell has no entry, and emits the cell with the target's day and
// timestep. Targets are only used for their labels. The result always has
// len(targets) events.
func (t *Table) Rollout(start datasets.Event, targets []datasets.Event) []datasets.Event {
	predicted := make([]datasets.Event, len(targets))
	current := CellOf(start)
	for i, target := range targets {
		if next, ok := t.Next(current); ok {
			current = next
		}
		predicted[i] = datasets.Event{
			Day:      target.Day,
			Timestep: target.Timestep,
			X:        current.X,
			Y:        current.Y,
		}
	}
	return predicted
}

// Predictor adapts a Table to the evaluation loop: it rolls out from the
// last input event of a sample over the sample's target labels.
type Predictor struct {
	Table *Table
}

// NewPredictor builds the transition table from samples and wraps it.
func NewPredictor(samples []datasets.Sample) *Predictor {
	return &Predictor{Table: Build(samples)}
}

// Name identifies the predictor in reports.
func (p *Predictor) Name() string { return "markov" }

// Predict returns the rollout for s.
func (p *Predictor) Predict(s datasets.Sample) ([]datasets.Event, error) {
	if len(s.X) == 0 {
		return nil, fmt.Errorf("uid %d: %w", s.UID, ErrEmptyInput)
	}
	return p.Table.Rollout(s.X[len(s.X)-1], s.Y), nil
}
