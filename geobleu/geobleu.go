// Package geobleu scores predicted trajectories against ground truth with
// GEO-BLEU, a BLEU variant where n-grams of grid cells match partially
// according to their spatial distance.
package geobleu

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Noofbiz/humob/datasets"
	"github.com/golang/geo/r2"
)

// Reference GEO-BLEU parameters.
const (
	DefaultBeta = 0.5 // distance decay of point similarity
	DefaultMaxN = 3   // longest n-gram
)

var (
	// ErrLengthMismatch is returned when prediction and truth differ in length.
	ErrLengthMismatch = errors.New("prediction and truth lengths differ")
	// ErrLabelMismatch is returned when a predicted event's (day, timestep)
	// differs from the truth event at the same position.
	ErrLabelMismatch = errors.New("prediction and truth labels differ")
)

// Native computes GEO-BLEU in process.
type Native struct {
	// Beta is the decay of point similarity with distance.
	Beta float64
	// MaxN is the longest n-gram considered.
	MaxN int
}

// NewNative returns a Native scorer with the reference parameters.
func NewNative() *Native {
	return &Native{Beta: DefaultBeta, MaxN: DefaultMaxN}
}

// Score validates that pred and truth share labels position by position,
// scores every day separately and returns the mean over days.
func (n *Native) Score(pred, truth []datasets.Event) (float64, error) {
	if len(pred) != len(truth) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(pred), len(truth))
	}
	if len(truth) == 0 {
		return 0, fmt.Errorf("%w: empty sequences", ErrLengthMismatch)
	}
	for i := range truth {
		if !pred[i].SameLabel(truth[i]) {
			return 0, fmt.Errorf("%w at %d: (%d,%d) vs (%d,%d)", ErrLabelMismatch, i,
				pred[i].Day, pred[i].Timestep, truth[i].Day, truth[i].Timestep)
		}
	}

	var total float64
	days := 0
	for start := 0; start < len(truth); {
		end := start + 1
		for end < len(truth) && truth[end].Day == truth[start].Day {
			end++
		}
		total += n.scoreDay(points(pred[start:end]), points(truth[start:end]))
		days++
		start = end
	}
	return total / float64(days), nil
}

func points(events []datasets.Event) []r2.Point {
	out := make([]r2.Point, len(events))
	for i, e := range events {
		out[i] = r2.Point{X: float64(e.X), Y: float64(e.Y)}
	}
	return out
}

// scoreDay is the GEO-BLEU of one day: the geometric mean of the n-gram
// precisions times the brevity penalty.
func (n *Native) scoreDay(sys, ref []r2.Point) float64 {
	maxN := n.MaxN
	if maxN > len(sys) {
		maxN = len(sys)
	}
	if maxN > len(ref) {
		maxN = len(ref)
	}
	if maxN <= 0 {
		return 0
	}

	var logSum float64
	for k := 1; k <= maxN; k++ {
		p := n.precision(sys, ref, k)
		if p <= 0 {
			return 0
		}
		logSum += math.Log(p) / float64(maxN)
	}
	return brevityPenalty(len(sys), len(ref)) * math.Exp(logSum)
}

func brevityPenalty(c, r int) float64 {
	if c > r {
		return 1
	}
	return math.Exp(1 - float64(r)/float64(c))
}

type candidate struct {
	sim      float64
	sys, ref int
}

// precision matches k-grams one to one, greedily by descending similarity,
// and returns the matched similarity mass over the number of system k-grams.
func (n *Native) precision(sys, ref []r2.Point, k int) float64 {
	ns, nr := len(sys)-k+1, len(ref)-k+1
	cands := make([]candidate, 0, ns*nr)
	for i := 0; i < ns; i++ {
		for j := 0; j < nr; j++ {
			var dist float64
			for o := 0; o < k; o++ {
				dist += sys[i+o].Sub(ref[j+o]).Norm()
			}
			// product of exp(-beta*d) over the k points
			cands = append(cands, candidate{sim: math.Exp(-n.Beta * dist), sys: i, ref: j})
		}
	}
	sort.SliceStable(cands, func(a, b int) bool { return cands[a].sim > cands[b].sim })

	usedSys := make([]bool, ns)
	usedRef := make([]bool, nr)
	var matched float64
	left := ns
	if nr < left {
		left = nr
	}
	for _, c := range cands {
		if left == 0 {
			break
		}
		if usedSys[c.sys] || usedRef[c.ref] {
			continue
		}
		usedSys[c.sys], usedRef[c.ref] = true, true
		matched += c.sim
		left--
	}
	return matched / float64(ns)
}
