package tape

import (
	"TapeReader/internal/domain/models"
)

// Rand supplies one uniform draw in [0,1) per call. *math/rand.Rand satisfies
// it; tests inject fixed sequences. The engine never owns a default generator.
type Rand interface {
	Float64() float64
}

type channel struct {
	label   string
	bullish bool
	hold    int // cycles left before the channel reverts to idle
}

// Engine simulates the four tape confirmation triggers with hold persistence.
// Tick must run exactly once per decision cycle: the hold timers decay once
// per invocation, so a faster caller shortens the effective hold.
type Engine struct {
	triggerProb float64 // draw probability when the trend matches the group
	noiseProb   float64 // background probability otherwise
	holdCycles  int
	rng         Rand
	channels    []*channel
}

// Result is the per-cycle outcome of the confirmation engine.
type Result struct {
	Channels     []models.ChannelState
	BullConfirms int
	BearConfirms int
}

func NewEngine(triggerProb, noiseProb float64, holdCycles int, rng Rand) *Engine {
	if rng == nil {
		panic("tape: nil random source")
	}
	return &Engine{
		triggerProb: triggerProb,
		noiseProb:   noiseProb,
		holdCycles:  holdCycles,
		rng:         rng,
		channels: []*channel{
			{label: "ABSORPTION (BUY)", bullish: true},
			{label: "ZTP UP (BUY)", bullish: true},
			{label: "RETAIL EXHAUSTION (SELL)", bullish: false},
			{label: "CASCADING CANCELS (SELL)", bullish: false},
		},
	}
}

// Tick advances all four channels by one decision cycle. Timers decay first,
// then each channel draws one independent trial; a successful draw re-arms the
// hold timer to the full duration. A channel is active if it newly triggered
// or a prior hold is still running.
func (e *Engine) Tick(trend models.Direction) Result {
	bullProb := e.noiseProb
	if trend == models.Buy {
		bullProb = e.triggerProb
	}
	bearProb := e.noiseProb
	if trend == models.Sell {
		bearProb = e.triggerProb
	}

	for _, ch := range e.channels {
		if ch.hold > 0 {
			ch.hold--
		}
	}

	res := Result{Channels: make([]models.ChannelState, 0, len(e.channels))}
	for _, ch := range e.channels {
		prob := bearProb
		if ch.bullish {
			prob = bullProb
		}
		triggered := e.rng.Float64() < prob
		held := ch.hold > 0

		state := models.ChannelState{Label: ch.label, State: models.Neutral}
		if triggered || held {
			state.Active = true
			if triggered {
				ch.hold = e.holdCycles
			}
			if ch.bullish {
				state.State = models.Buy
				res.BullConfirms++
			} else {
				state.State = models.Sell
				res.BearConfirms++
			}
		}
		res.Channels = append(res.Channels, state)
	}
	return res
}

// Idle returns the channel states before any cycle has run.
func (e *Engine) Idle() []models.ChannelState {
	out := make([]models.ChannelState, 0, len(e.channels))
	for _, ch := range e.channels {
		out = append(out, models.ChannelState{Label: ch.label, State: models.Neutral})
	}
	return out
}
