package datasets

import (
	"testing"
)

func TestMakeSampleBatchFlat(t *testing.T) {
	samples := []Sample{
		{UID: 1, X: []Event{{0, 0, 1, 2}, {0, 1, 3, 4}}, Y: []Event{{1, 0, 5, 6}}},
		{UID: 2, X: []Event{{0, 5, 7, 8}}, Y: []Event{{1, 0, 9, 9}}},
	}

	b, err := MakeSampleBatchFlat(samples, false)
	if err != nil {
		t.Fatalf("MakeSampleBatchFlat failed: %v", err)
	}
	if b.Batch != 2 || b.Time != 2 {
		t.Fatalf("unexpected dims: %+v", b)
	}
	if len(b.Buf) != 2*2*4 {
		t.Fatalf("unexpected buffer length %d", len(b.Buf))
	}
	if b.Lengths[0] != 2 || b.Lengths[1] != 1 {
		t.Fatalf("unexpected lengths %v", b.Lengths)
	}
	// second sample, first step
	if got := b.Buf[8:12]; got[0] != 0 || got[1] != 5 || got[2] != 7 || got[3] != 8 {
		t.Fatalf("unexpected values %v", got)
	}
	// second sample, padded step
	for _, v := range b.Buf[12:16] {
		if v != padValue {
			t.Fatalf("expected padding, got %v", b.Buf[12:16])
		}
	}

	seqT, lenT, err := b.ToGomlxTensors()
	if err != nil {
		t.Fatalf("ToGomlxTensors error: %v", err)
	}
	if seqT == nil || lenT == nil {
		t.Fatalf("ToGomlxTensors returned nil tensor(s)")
	}
	dims := seqT.Shape().Dimensions
	if len(dims) != 3 || dims[0] != 2 || dims[1] != 2 || dims[2] != 4 {
		t.Fatalf("unexpected tensor shape %v", dims)
	}
}

func TestMakeSampleBatchFlat_UsesY(t *testing.T) {
	samples := []Sample{{UID: 1, X: []Event{{0, 0, 1, 2}}, Y: []Event{{1, 0, 5, 6}, {1, 1, 5, 6}, {1, 2, 5, 6}}}}

	b, err := MakeSampleBatchFlat(samples, true)
	if err != nil {
		t.Fatalf("MakeSampleBatchFlat failed: %v", err)
	}
	if b.Time != 3 || b.Buf[0] != 1 {
		t.Fatalf("expected Y window to be used, got %+v", b)
	}
}

func TestMakeSampleBatchFlat_EmptySequence(t *testing.T) {
	if _, err := MakeSampleBatchFlat([]Sample{{UID: 1}}, false); err == nil {
		t.Fatalf("expected error for empty sequence")
	}
}

func TestMakeSampleBatchFlat_EmptyBatchTensors(t *testing.T) {
	b, err := MakeSampleBatchFlat(nil, false)
	if err != nil {
		t.Fatalf("MakeSampleBatchFlat failed: %v", err)
	}
	seqT, lenT, err := b.ToGomlxTensors()
	if err != nil {
		t.Fatalf("ToGomlxTensors error: %v", err)
	}
	dims := seqT.Shape().Dimensions
	if len(dims) != 3 || dims[0] != 0 || dims[2] != 4 {
		t.Fatalf("unexpected empty tensor shape %v", dims)
	}
	if ld := lenT.Shape().Dimensions; len(ld) != 1 || ld[0] != 0 {
		t.Fatalf("unexpected empty lengths shape %v", ld)
	}
}
