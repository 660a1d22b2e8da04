package datasets

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// SampleDataset yields batches of samples as gomlx tensors, one epoch at a
// time, following the gomlx train.Dataset conventions: Yield returns io.EOF
// at the end of an epoch and Reset starts the next one.
//
// Inputs are the X sequence and its lengths, labels the Y sequence and its
// lengths, each padded per batch as in MakeSampleBatchFlat.
type SampleDataset struct {
	// BatchSize is the number of samples per batch; the last batch of an
	// epoch may be smaller.
	BatchSize int

	samples []Sample
	order   []int
	next    int
}

// NewSampleDataset wraps samples. The slice is not copied and must not be
// modified while the dataset is in use.
func NewSampleDataset(samples []Sample, batchSize int) (*SampleDataset, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("batch size must be >= 1, got %d", batchSize)
	}
	order := make([]int, len(samples))
	for i := range order {
		order[i] = i
	}
	return &SampleDataset{BatchSize: batchSize, samples: samples, order: order}, nil
}

// Name returns the name of the dataset.
func (d *SampleDataset) Name() string { return "SampleDataset" }

// Len returns the number of samples.
func (d *SampleDataset) Len() int { return len(d.samples) }

// Shuffle permutes the sample order with the given seed and restarts the
// epoch.
func (d *SampleDataset) Shuffle(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(d.order), func(i, j int) { d.order[i], d.order[j] = d.order[j], d.order[i] })
	d.next = 0
}

// NextBatch returns the samples of the next batch, or io.EOF when the epoch
// is exhausted.
func (d *SampleDataset) NextBatch() ([]Sample, error) {
	if d.next >= len(d.order) {
		return nil, io.EOF
	}
	end := min(d.next+d.BatchSize, len(d.order))
	batch := make([]Sample, 0, end-d.next)
	for _, idx := range d.order[d.next:end] {
		batch = append(batch, d.samples[idx])
	}
	d.next = end
	return batch, nil
}

// Yield returns the next batch as tensors: inputs are [X, X lengths] and
// labels are [Y, Y lengths].
func (d *SampleDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	batch, err := d.NextBatch()
	if err != nil {
		return nil, nil, nil, err
	}
	xFlat, err := MakeSampleBatchFlat(batch, false)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("flatten X: %w", err)
	}
	yFlat, err := MakeSampleBatchFlat(batch, true)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("flatten Y: %w", err)
	}
	xSeq, xLen, err := xFlat.ToGomlxTensors()
	if err != nil {
		return nil, nil, nil, err
	}
	ySeq, yLen, err := yFlat.ToGomlxTensors()
	if err != nil {
		return nil, nil, nil, err
	}
	return nil, []*tensors.Tensor{xSeq, xLen}, []*tensors.Tensor{ySeq, yLen}, nil
}

// Reset starts a new epoch in the current order.
func (d *SampleDataset) Reset() {
	d.next = 0
}
