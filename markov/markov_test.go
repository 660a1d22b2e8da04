package markov

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/Noofbiz/humob/datasets"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// track builds an input sequence visiting cells in order, one per timestep.
func track(day int, cells ...Cell) []datasets.Event {
	out := make([]datasets.Event, len(cells))
	for i, c := range cells {
		out[i] = datasets.Event{Day: day, Timestep: i, X: c.X, Y: c.Y}
	}
	return out
}

func sampleOf(uid int64, x []datasets.Event) datasets.Sample {
	return datasets.Sample{UID: uid, X: x, Y: []datasets.Event{{Day: 99, Timestep: 0}}}
}

func randomSamples(rng *rand.Rand, n int) []datasets.Sample {
	samples := make([]datasets.Sample, n)
	for i := range samples {
		cells := make([]Cell, 5+rng.Intn(20))
		for j := range cells {
			cells[j] = Cell{X: rng.Intn(4), Y: rng.Intn(3)}
		}
		samples[i] = sampleOf(int64(i), track(0, cells...))
	}
	return samples
}

func TestBuildProbabilitiesSumToOne(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	table := Build(randomSamples(rng, 30))
	if table.Len() == 0 {
		t.Fatalf("expected a non-empty table")
	}
	for _, from := range table.Origins() {
		row, ok := table.Successors(from)
		if !ok {
			t.Fatalf("origin %v has no successors", from)
		}
		var sum float64
		for _, p := range row {
			sum += p
		}
		if !approxEqual(sum, 1.0, 1e-9) {
			t.Fatalf("probabilities for %v sum to %v", from, sum)
		}
	}
}

func TestBuildOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	samples := randomSamples(rng, 25)

	a := Build(samples)
	shuffled := make([]datasets.Sample, len(samples))
	copy(shuffled, samples)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	b := Build(shuffled)

	if !reflect.DeepEqual(a.probs, b.probs) {
		t.Fatalf("permuting samples changed the table")
	}
	if !reflect.DeepEqual(a.best, b.best) {
		t.Fatalf("permuting samples changed the argmax cache")
	}
}

func TestBuildDoesNotCrossSamples(t *testing.T) {
	table := Build([]datasets.Sample{
		sampleOf(1, track(0, Cell{0, 0}, Cell{1, 0})),
		sampleOf(2, track(0, Cell{5, 5}, Cell{6, 6})),
	})
	if p := table.Prob(Cell{1, 0}, Cell{5, 5}); p != 0 {
		t.Fatalf("transition across samples recorded with p=%v", p)
	}
	if _, ok := table.Successors(Cell{1, 0}); ok {
		t.Fatalf("last cell of a sample must not be an origin")
	}
	if _, ok := table.Successors(Cell{6, 6}); ok {
		t.Fatalf("cell never seen as origin must be absent")
	}
}

func TestBuildUsesOnlyInputWindow(t *testing.T) {
	s := sampleOf(1, track(0, Cell{0, 0}, Cell{0, 1}))
	s.Y = track(1, Cell{9, 9}, Cell{8, 8})
	table := Build([]datasets.Sample{s})
	if _, ok := table.Successors(Cell{9, 9}); ok {
		t.Fatalf("Y events leaked into the table")
	}
}

func TestStayIsMostProbable(t *testing.T) {
	// day1: (0,0)->(1,0), day2: (1,0)->(1,0), day3: (1,0)->(2,0), repeated
	var x []datasets.Event
	for rep := 0; rep < 25; rep++ {
		x = append(x, track(rep*3, Cell{0, 0}, Cell{1, 0})...)
		x = append(x, track(rep*3+1, Cell{1, 0}, Cell{1, 0})...)
		x = append(x, track(rep*3+2, Cell{1, 0}, Cell{2, 0})...)
	}
	table := Build([]datasets.Sample{sampleOf(1, x)})

	next, ok := table.Next(Cell{1, 0})
	if !ok {
		t.Fatalf("(1,0) missing from table")
	}
	if next != (Cell{1, 0}) {
		t.Fatalf("expected stay at (1,0), got %v", next)
	}
	row, _ := table.Successors(Cell{1, 0})
	for c, p := range row {
		if c != next && p >= row[next] {
			t.Fatalf("successor %v has p=%v >= stay p=%v", c, p, row[next])
		}
	}
}

func TestNextTieBreakLowestCell(t *testing.T) {
	// (0,0) goes to (3,1), (2,5) and (2,4) once each
	table := BuildFromSequences([][]datasets.Event{
		track(0, Cell{0, 0}, Cell{3, 1}),
		track(0, Cell{0, 0}, Cell{2, 5}),
		track(0, Cell{0, 0}, Cell{2, 4}),
	})
	for i := 0; i < 20; i++ {
		next, _ := table.Next(Cell{0, 0})
		if next != (Cell{2, 4}) {
			t.Fatalf("expected lowest cell (2,4), got %v", next)
		}
	}
}

func TestStats(t *testing.T) {
	table := BuildFromSequences([][]datasets.Event{
		track(0, Cell{0, 0}, Cell{0, 0}, Cell{1, 1}),
	})
	s := table.Stats()
	if s.Origins != 1 || s.Edges != 2 || s.Pairs != 2 {
		t.Fatalf("unexpected stats %+v", s)
	}
	if !approxEqual(s.SelfShare, 0.5, 1e-12) || !approxEqual(s.MeanEntropy, 1.0, 1e-12) {
		t.Fatalf("unexpected stats %+v", s)
	}
}
