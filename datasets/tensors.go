package datasets

import (
	"fmt"

	"github.com/gomlx/gomlx/pkg/core/shapes"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"
)

// padValue fills the tail of sequences shorter than the batch's longest one.
const padValue = -1

// SampleBatchFlat stores a batch of event sequences in one contiguous buffer
// of shape [Batch, Time, 4] where the last axis is (day, timestep, x, y).
// Sequences shorter than Time are padded with -1; Lengths keeps the real
// length of each sequence.
type SampleBatchFlat struct {
	Buf     []int32
	Lengths []int32
	Batch   int
	Time    int
}

// MakeSampleBatchFlat flattens the X windows of samples (or the Y windows when
// useY is set) into a padded contiguous buffer.
func MakeSampleBatchFlat(samples []Sample, useY bool) (*SampleBatchFlat, error) {
	if len(samples) == 0 {
		return &SampleBatchFlat{}, nil
	}

	seqs := make([][]Event, len(samples))
	timeSteps := 0
	for i, s := range samples {
		seq := s.X
		if useY {
			seq = s.Y
		}
		if len(seq) == 0 {
			return nil, fmt.Errorf("sample %d (uid %d) has an empty sequence", i, s.UID)
		}
		seqs[i] = seq
		timeSteps = max(timeSteps, len(seq))
	}

	batchSize := len(samples)
	flat := make([]int32, batchSize*timeSteps*4)
	for i := range flat {
		flat[i] = padValue
	}
	lengths := make([]int32, batchSize)
	for i, seq := range seqs {
		lengths[i] = int32(len(seq))
		base := i * timeSteps * 4
		for j, e := range seq {
			off := base + j*4
			flat[off] = int32(e.Day)
			flat[off+1] = int32(e.Timestep)
			flat[off+2] = int32(e.X)
			flat[off+3] = int32(e.Y)
		}
	}

	return &SampleBatchFlat{
		Buf:     flat,
		Lengths: lengths,
		Batch:   batchSize,
		Time:    timeSteps,
	}, nil
}

// ToGomlxTensors converts the batch into an int32 tensor of shape
// [Batch, Time, 4] and an int32 lengths tensor of shape [Batch].
func (b *SampleBatchFlat) ToGomlxTensors() (seq *tensors.Tensor, lengths *tensors.Tensor, err error) {
	if b.Batch == 0 || b.Time == 0 {
		// empty nested slices carry no inner dimensions, so build from shapes
		return tensors.FromShape(shapes.Make(dtypes.Int32, b.Batch, b.Time, 4)),
			tensors.FromShape(shapes.Make(dtypes.Int32, b.Batch)), nil
	}
	data := make([][][]int32, b.Batch)
	idx := 0
	for i := 0; i < b.Batch; i++ {
		data[i] = make([][]int32, b.Time)
		for j := 0; j < b.Time; j++ {
			data[i][j] = b.Buf[idx : idx+4]
			idx += 4
		}
	}
	return tensors.FromAnyValue(data), tensors.FromAnyValue(b.Lengths), nil
}
