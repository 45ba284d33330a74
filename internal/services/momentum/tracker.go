package momentum

import (
	"errors"
	"fmt"
	"math"

	"TapeReader/internal/domain/models"
)

// ErrInvalidSample is returned when a caller feeds a non-finite price.
var ErrInvalidSample = errors.New("invalid price sample")

// Tracker maintains bounded windows of recent prices and price deltas and
// derives the momentum sum and bias from them. It has no knowledge of time;
// one Ingest call is one decision cycle sample.
type Tracker struct {
	priceCap  int
	deltaCap  int
	threshold float64

	prices  []float64
	deltas  []float64
	last    float64
	hasLast bool
}

func NewTracker(priceCap, deltaCap int, threshold float64) *Tracker {
	return &Tracker{
		priceCap:  priceCap,
		deltaCap:  deltaCap,
		threshold: threshold,
		prices:    make([]float64, 0, priceCap),
		deltas:    make([]float64, 0, deltaCap),
	}
}

// Ingest appends a price sample. The very first sample produces no delta;
// every later one appends price-minus-previous to the delta window. Both
// windows evict their oldest element on overflow.
func (t *Tracker) Ingest(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSample, price)
	}

	if t.hasLast {
		t.deltas = append(t.deltas, price-t.last)
		if len(t.deltas) > t.deltaCap {
			t.deltas = t.deltas[1:]
		}
	}

	t.prices = append(t.prices, price)
	if len(t.prices) > t.priceCap {
		t.prices = t.prices[1:]
	}

	t.last = price
	t.hasLast = true
	return nil
}

// Momentum sums the current delta window and discretizes it against the
// threshold. Deterministic over current state.
func (t *Tracker) Momentum() models.Momentum {
	var sum float64
	for _, d := range t.deltas {
		sum += d
	}

	bias := 0
	switch {
	case sum > t.threshold:
		bias = 1
	case sum < -t.threshold:
		bias = -1
	}
	return models.Momentum{Sum: sum, Bias: bias}
}

// Prices returns a copy of the current price window, oldest first.
func (t *Tracker) Prices() []float64 {
	out := make([]float64, len(t.prices))
	copy(out, t.prices)
	return out
}

// Deltas returns a copy of the current delta window, oldest first.
func (t *Tracker) Deltas() []float64 {
	out := make([]float64, len(t.deltas))
	copy(out, t.deltas)
	return out
}

func (t *Tracker) Len() int { return len(t.prices) }
