// Package markov builds a first-order next-cell transition model from
// trajectories and rolls it forward greedily to forecast a trajectory.
package markov

import (
	"errors"
	"math"
	"sort"

	"github.com/Noofbiz/humob/datasets"
)

// Cell is a discretized grid location.
type Cell struct {
	X int
	Y int
}

// CellOf returns the cell an event was observed at.
func CellOf(e datasets.Event) Cell {
	return Cell{X: e.X, Y: e.Y}
}

// Less orders cells lexicographically by (X, Y).
func (c Cell) Less(o Cell) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	return c.Y < o.Y
}

// ErrEmptyInput is returned when a sample has no input events to start a
// rollout from.
var ErrEmptyInput = errors.New("sample has no input events")

// Table is a first-order transition model over cells. It maps every cell
// observed as the origin of a transition to a probability distribution over
// the cells visited next. Cells never seen as an origin have no entry.
//
// A Table is built once by Build and is read-only afterwards.
type Table struct {
	probs map[Cell]map[Cell]float64
	// best caches the argmax successor of each origin cell.
	best  map[Cell]Cell
	pairs int
	self  int
}

// Build counts every consecutive pair of events inside each sample's X
// window (never across samples) and normalizes the counts per origin cell.
// The counts are pooled across all users. The result does not depend on the
// order of samples.
func Build(samples []datasets.Sample) *Table {
	seqs := make([][]datasets.Event, len(samples))
	for i, s := range samples {
		seqs[i] = s.X
	}
	return BuildFromSequences(seqs)
}

// BuildFromSequences is Build for bare event sequences.
func BuildFromSequences(seqs [][]datasets.Event) *Table {
	counts := make(map[Cell]map[Cell]int)
	t := &Table{}
	for _, seq := range seqs {
		for i := 0; i+1 < len(seq); i++ {
			from, to := CellOf(seq[i]), CellOf(seq[i+1])
			row, ok := counts[from]
			if !ok {
				row = make(map[Cell]int)
				counts[from] = row
			}
			row[to]++
			t.pairs++
			if from == to {
				t.self++
			}
		}
	}

	t.probs = make(map[Cell]map[Cell]float64, len(counts))
	t.best = make(map[Cell]Cell, len(counts))
	for from, row := range counts {
		total := 0
		for _, n := range row {
			total += n
		}
		dist := make(map[Cell]float64, len(row))
		for to, n := range row {
			dist[to] = float64(n) / float64(total)
		}
		t.probs[from] = dist
		t.best[from] = argmax(row)
	}
	return t
}

// argmax picks the successor with the highest count. Equal counts resolve to
// the lowest cell, independent of map iteration order.
func argmax(row map[Cell]int) Cell {
	var best Cell
	bestN := -1
	for to, n := range row {
		if n > bestN || (n == bestN && to.Less(best)) {
			best, bestN = to, n
		}
	}
	return best
}

// Len returns the number of origin cells in the table.
func (t *Table) Len() int { return len(t.probs) }

// Successors returns a copy of the next-cell distribution of from.
func (t *Table) Successors(from Cell) (map[Cell]float64, bool) {
	row, ok := t.probs[from]
	if !ok {
		return nil, false
	}
	out := make(map[Cell]float64, len(row))
	for c, p := range row {
		out[c] = p
	}
	return out, true
}

// Prob returns P(to | from); 0 if the transition was never observed.
func (t *Table) Prob(from, to Cell) float64 {
	return t.probs[from][to]
}

// Next returns the most probable successor of from. ok is false when from
// was never observed as an origin.
func (t *Table) Next(from Cell) (next Cell, ok bool) {
	next, ok = t.best[from]
	return next, ok
}

// Origins returns the origin cells in lexicographic order.
func (t *Table) Origins() []Cell {
	cells := make([]Cell, 0, len(t.probs))
	for c := range t.probs {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })
	return cells
}

// Stats summarizes a table.
type Stats struct {
	Origins     int     // cells with at least one outgoing transition
	Edges       int     // distinct (from, to) pairs
	Pairs       int     // observed consecutive event pairs
	SelfShare   float64 // share of pairs that stay in the same cell
	MeanEntropy float64 // mean Shannon entropy (bits) of successor distributions
}

// Stats returns counts and entropy figures for the table.
func (t *Table) Stats() Stats {
	s := Stats{Origins: len(t.probs), Pairs: t.pairs}
	if t.pairs > 0 {
		s.SelfShare = float64(t.self) / float64(t.pairs)
	}
	var entropy float64
	for _, row := range t.probs {
		s.Edges += len(row)
		for _, p := range row {
			if p > 0 {
				entropy -= p * math.Log2(p)
			}
		}
	}
	if len(t.probs) > 0 {
		s.MeanEntropy = entropy / float64(len(t.probs))
	}
	return s
}
