package markov

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Noofbiz/humob/datasets"
)

func targets(day, n int) []datasets.Event {
	out := make([]datasets.Event, n)
	for i := range out {
		out[i] = datasets.Event{Day: day, Timestep: i, X: -1, Y: -1}
	}
	return out
}

func TestRolloutFollowsArgmax(t *testing.T) {
	table := BuildFromSequences([][]datasets.Event{
		track(0, Cell{0, 0}, Cell{1, 0}, Cell{2, 0}, Cell{2, 0}),
	})
	got := table.Rollout(datasets.Event{X: 0, Y: 0}, targets(60, 4))
	want := []Cell{{1, 0}, {2, 0}, {2, 0}, {2, 0}}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(got))
	}
	for i, e := range got {
		if CellOf(e) != want[i] {
			t.Fatalf("step %d: got %v want %v", i, CellOf(e), want[i])
		}
		if e.Day != 60 || e.Timestep != i {
			t.Fatalf("step %d: labels not copied from target: %+v", i, e)
		}
	}
}

func TestRolloutHoldsOnUnknownCell(t *testing.T) {
	table := BuildFromSequences([][]datasets.Event{track(0, Cell{0, 0}, Cell{1, 1})})
	got := table.Rollout(datasets.Event{X: 9, Y: 9}, targets(61, 3))
	for i, e := range got {
		if CellOf(e) != (Cell{9, 9}) {
			t.Fatalf("step %d: expected to hold at (9,9), got %v", i, CellOf(e))
		}
	}
}

func TestRolloutStopsAtDeadEnd(t *testing.T) {
	// (1,1) is never an origin
	table := BuildFromSequences([][]datasets.Event{track(0, Cell{0, 0}, Cell{1, 1})})
	got := table.Rollout(datasets.Event{X: 0, Y: 0}, targets(61, 3))
	for i, e := range got {
		if CellOf(e) != (Cell{1, 1}) {
			t.Fatalf("step %d: expected (1,1), got %v", i, CellOf(e))
		}
	}
}

func TestRolloutEmptyTargets(t *testing.T) {
	table := BuildFromSequences(nil)
	if got := table.Rollout(datasets.Event{}, nil); len(got) != 0 {
		t.Fatalf("expected empty rollout, got %v", got)
	}
}

func TestPredictDeterministic(t *testing.T) {
	samples := []datasets.Sample{
		{UID: 1, X: track(0, Cell{0, 0}, Cell{0, 1}, Cell{0, 2}, Cell{0, 0}), Y: targets(60, 5)},
		{UID: 2, X: track(0, Cell{0, 1}, Cell{0, 0}, Cell{0, 1}), Y: targets(60, 7)},
	}
	p := NewPredictor(samples)
	if p.Name() != "markov" {
		t.Fatalf("unexpected name %q", p.Name())
	}
	for _, s := range samples {
		first, err := p.Predict(s)
		if err != nil {
			t.Fatalf("Predict error: %v", err)
		}
		if len(first) != len(s.Y) {
			t.Fatalf("uid %d: expected %d events, got %d", s.UID, len(s.Y), len(first))
		}
		for i := 0; i < 5; i++ {
			again, _ := p.Predict(s)
			if !reflect.DeepEqual(first, again) {
				t.Fatalf("uid %d: rollout not deterministic", s.UID)
			}
		}
	}
}

func TestPredictEmptyInput(t *testing.T) {
	p := NewPredictor(nil)
	_, err := p.Predict(datasets.Sample{UID: 3, Y: targets(60, 2)})
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}
