package momentum

import (
	"errors"
	"math"
	"testing"
)

func TestIngestRejectsNonFinite(t *testing.T) {
	tr := NewTracker(12, 5, 0.5)
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := tr.Ingest(bad); !errors.Is(err, ErrInvalidSample) {
			t.Fatalf("expected ErrInvalidSample for %v, got %v", bad, err)
		}
	}
	if tr.Len() != 0 {
		t.Fatalf("rejected sample must not mutate state, len=%d", tr.Len())
	}
}

func TestWindowCaps(t *testing.T) {
	tr := NewTracker(12, 5, 0.5)
	for i := 0; i < 100; i++ {
		if err := tr.Ingest(float64(100 + i)); err != nil {
			t.Fatalf("ingest: %v", err)
		}
	}
	if got := len(tr.Prices()); got != 12 {
		t.Fatalf("price window len = %d, want 12", got)
	}
	if got := len(tr.Deltas()); got != 5 {
		t.Fatalf("delta window len = %d, want 5", got)
	}
}

func TestFirstSampleProducesNoDelta(t *testing.T) {
	tr := NewTracker(12, 5, 0.5)
	if err := tr.Ingest(100); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if got := len(tr.Deltas()); got != 0 {
		t.Fatalf("delta window len after first sample = %d, want 0", got)
	}
}

func TestMomentumSumIsExact(t *testing.T) {
	tr := NewTracker(12, 5, 0.5)
	prices := []float64{100, 101.5, 101, 103, 102.25, 104}
	for _, p := range prices {
		if err := tr.Ingest(p); err != nil {
			t.Fatalf("ingest: %v", err)
		}
	}
	var want float64
	for i := 1; i < len(prices); i++ {
		want += prices[i] - prices[i-1]
	}
	if got := tr.Momentum().Sum; got != want {
		t.Fatalf("momentum sum = %v, want %v", got, want)
	}
}

func TestBiasBoundaries(t *testing.T) {
	cases := []struct {
		name  string
		delta float64
		bias  int
	}{
		{"above threshold", 0.51, 1},
		{"at threshold", 0.5, 0},
		{"below negative threshold", -0.51, -1},
		{"at negative threshold", -0.5, 0},
		{"zero", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewTracker(12, 5, 0.5)
			if err := tr.Ingest(100); err != nil {
				t.Fatalf("ingest: %v", err)
			}
			if err := tr.Ingest(100 + tc.delta); err != nil {
				t.Fatalf("ingest: %v", err)
			}
			if got := tr.Momentum().Bias; got != tc.bias {
				t.Fatalf("bias = %d, want %d", got, tc.bias)
			}
		})
	}
}

func TestEmptyWindowMomentumIsZero(t *testing.T) {
	tr := NewTracker(12, 5, 0.5)
	m := tr.Momentum()
	if m.Sum != 0 || m.Bias != 0 {
		t.Fatalf("empty tracker momentum = %+v, want zero", m)
	}
}
