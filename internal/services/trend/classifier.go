package trend

import (
	"TapeReader/internal/domain/models"
)

// Descriptive texts carried by the classifier output. Display-only; nothing
// downstream branches on them.
const (
	macdBull    = "BULLISH Crossover & Below Zero Line Confirmed"
	macdBear    = "BEARISH Crossover & Above Zero Line Confirmed"
	macdFlat    = "CONSOLIDATION ZONE"
	rsiBull     = "RSI > 45 AND RISING (BULLISH ENTRY)"
	rsiBear     = "RSI < 55 AND FALLING (BEARISH ENTRY)"
	rsiFlat     = "MID-RANGE CONSOLIDATION"
	displayBull = "BUY"
	displayBear = "SELL"
	displayFlat = "WAITING FOR M15 SETUP"
)

// Initial is the state reported before the first full classification.
func Initial() models.TrendState {
	return models.TrendState{
		Signal:   models.Neutral,
		MACDText: "AWAITING INITIAL FETCH",
		RSIText:  "AWAITING INITIAL FETCH",
		Display:  displayFlat,
	}
}

// Classifier turns momentum bias and a rolling price average into a discrete
// trend state. The rolling average of the full window acts as a simulated
// MACD zero line.
type Classifier struct {
	window int // samples required before a non-neutral classification
}

func NewClassifier(window int) *Classifier {
	return &Classifier{window: window}
}

// Classify returns the trend for the current cycle. With fewer than the
// required samples it returns prev unchanged, so the displayed setup does not
// flicker back to neutral during warm-up.
func (c *Classifier) Classify(prev models.TrendState, price float64, m models.Momentum, prices []float64) models.TrendState {
	if len(prices) < c.window {
		return prev
	}

	var sum float64
	for _, p := range prices {
		sum += p
	}
	avg := sum / float64(len(prices))

	switch {
	case m.Bias == 1 && price < avg:
		return models.TrendState{Signal: models.Buy, MACDText: macdBull, RSIText: rsiBull, Display: displayBull}
	case m.Bias == -1 && price > avg:
		return models.TrendState{Signal: models.Sell, MACDText: macdBear, RSIText: rsiBear, Display: displayBear}
	default:
		return models.TrendState{Signal: models.Neutral, MACDText: macdFlat, RSIText: rsiFlat, Display: displayFlat}
	}
}
