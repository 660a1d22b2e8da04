package datasets

import (
	"errors"
	"io"
	"testing"
)

func batchSamples(n int) []Sample {
	out := make([]Sample, n)
	for i := range out {
		x := make([]Event, i+1)
		for j := range x {
			x[j] = Event{Day: 0, Timestep: j, X: i, Y: j}
		}
		out[i] = Sample{UID: int64(100 + i), X: x, Y: []Event{{Day: 1, Timestep: 0, X: i, Y: 0}}}
	}
	return out
}

func TestSampleDataset_Epoch(t *testing.T) {
	ds, err := NewSampleDataset(batchSamples(5), 2)
	if err != nil {
		t.Fatalf("NewSampleDataset error: %v", err)
	}
	if ds.Len() != 5 || ds.Name() != "SampleDataset" {
		t.Fatalf("unexpected dataset %s len=%d", ds.Name(), ds.Len())
	}

	sizes := []int{}
	for {
		_, inputs, labels, err := ds.Yield()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Yield error: %v", err)
		}
		if len(inputs) != 2 || len(labels) != 2 {
			t.Fatalf("expected sequence and length tensors, got %d inputs %d labels", len(inputs), len(labels))
		}
		sizes = append(sizes, inputs[1].Shape().Dimensions[0])
	}
	if len(sizes) != 3 || sizes[0] != 2 || sizes[2] != 1 {
		t.Fatalf("unexpected batch sizes %v", sizes)
	}

	ds.Reset()
	batch, err := ds.NextBatch()
	if err != nil || batch[0].UID != 100 {
		t.Fatalf("Reset did not restart the epoch: %v err=%v", batch, err)
	}
}

func TestSampleDataset_ShuffleDeterministic(t *testing.T) {
	order := func(seed int64) []int64 {
		ds, _ := NewSampleDataset(batchSamples(20), 20)
		ds.Shuffle(seed)
		batch, err := ds.NextBatch()
		if err != nil {
			t.Fatalf("NextBatch error: %v", err)
		}
		uids := make([]int64, len(batch))
		for i, s := range batch {
			uids[i] = s.UID
		}
		return uids
	}
	a, b := order(11), order(11)
	seen := make(map[int64]bool)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed gave different orders: %v vs %v", a, b)
		}
		seen[a[i]] = true
	}
	if len(seen) != 20 {
		t.Fatalf("shuffle lost samples: %v", a)
	}
}

func TestNewSampleDataset_BadBatchSize(t *testing.T) {
	if _, err := NewSampleDataset(batchSamples(1), 0); err == nil {
		t.Fatalf("expected error for batch size 0")
	}
}
