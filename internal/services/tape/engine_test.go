package tape

import (
	"testing"

	"TapeReader/internal/domain/models"
)

// seqRand replays a fixed sequence of draws, one per channel per tick.
type seqRand struct {
	draws []float64
	i     int
}

func (r *seqRand) Float64() float64 {
	if r.i >= len(r.draws) {
		return 0.99 // past the script: never trigger
	}
	v := r.draws[r.i]
	r.i++
	return v
}

// never is a draw that fails both 0.40 and 0.05.
const never = 0.99

// always is a draw below any configured probability.
const always = 0.0

func tickAll(e *Engine, trend models.Direction, n int) Result {
	var res Result
	for i := 0; i < n; i++ {
		res = e.Tick(trend)
	}
	return res
}

func TestNilRandPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for nil rand source")
		}
	}()
	NewEngine(0.4, 0.05, 4, nil)
}

func TestTriggerActivatesChannel(t *testing.T) {
	rng := &seqRand{draws: []float64{always, never, never, never}}
	e := NewEngine(0.4, 0.05, 4, rng)

	res := e.Tick(models.Buy)
	if !res.Channels[0].Active || res.Channels[0].State != models.Buy {
		t.Fatalf("channel 0 = %+v, want active buy", res.Channels[0])
	}
	if res.BullConfirms != 1 || res.BearConfirms != 0 {
		t.Fatalf("confirms = %d/%d, want 1/0", res.BullConfirms, res.BearConfirms)
	}
}

func TestHoldDecaysToIdleAfterFourTicks(t *testing.T) {
	draws := []float64{always, never, never, never}
	for i := 0; i < 4; i++ {
		draws = append(draws, never, never, never, never)
	}
	e := NewEngine(0.4, 0.05, 4, &seqRand{draws: draws})

	e.Tick(models.Buy) // trigger, hold = 4

	for i := 0; i < 3; i++ {
		res := e.Tick(models.Neutral)
		if !res.Channels[0].Active {
			t.Fatalf("tick %d after trigger: channel inactive, hold should persist", i+1)
		}
	}
	res := e.Tick(models.Neutral)
	if res.Channels[0].Active {
		t.Fatalf("4th tick after trigger: channel still active, want idle")
	}
	if res.Channels[0].State != models.Neutral {
		t.Fatalf("idle channel state = %s, want neutral", res.Channels[0].State)
	}
}

func TestRetriggerReArmsWithoutAccumulating(t *testing.T) {
	// trigger on tick 1, trigger again on tick 3: hold resets to 4, so the
	// channel stays active for ticks 4-6 and goes idle on tick 7.
	draws := []float64{always, never, never, never} // tick 1
	draws = append(draws, never, never, never, never)
	draws = append(draws, always, never, never, never) // tick 3: re-arm
	for i := 0; i < 4; i++ {
		draws = append(draws, never, never, never, never)
	}
	e := NewEngine(0.4, 0.05, 4, &seqRand{draws: draws})

	for i := 0; i < 6; i++ {
		res := e.Tick(models.Buy)
		if !res.Channels[0].Active {
			t.Fatalf("tick %d: channel inactive, want active", i+1)
		}
	}
	res := e.Tick(models.Neutral)
	if res.Channels[0].Active {
		t.Fatalf("tick 7: channel active, want idle after re-armed hold expired")
	}
}

func TestGroupProbabilitiesFollowTrend(t *testing.T) {
	// A draw of 0.2 passes the 0.40 matched probability but fails the 0.05
	// noise probability, so only the matching group may fire.
	e := NewEngine(0.4, 0.05, 4, &seqRand{draws: []float64{0.2, 0.2, 0.2, 0.2}})
	res := e.Tick(models.Buy)
	if res.BullConfirms != 2 {
		t.Fatalf("bull confirms = %d, want 2", res.BullConfirms)
	}
	if res.BearConfirms != 0 {
		t.Fatalf("bear confirms = %d, want 0 for opposing group", res.BearConfirms)
	}

	e = NewEngine(0.4, 0.05, 4, &seqRand{draws: []float64{0.2, 0.2, 0.2, 0.2}})
	res = e.Tick(models.Sell)
	if res.BullConfirms != 0 || res.BearConfirms != 2 {
		t.Fatalf("confirms = %d/%d, want 0/2", res.BullConfirms, res.BearConfirms)
	}

	// Neutral trend leaves both groups at noise probability.
	e = NewEngine(0.4, 0.05, 4, &seqRand{draws: []float64{0.2, 0.2, 0.2, 0.2}})
	res = e.Tick(models.Neutral)
	if res.BullConfirms != 0 || res.BearConfirms != 0 {
		t.Fatalf("confirms = %d/%d, want 0/0 on neutral trend", res.BullConfirms, res.BearConfirms)
	}
}

func TestNoiseCanFireAgainstTrend(t *testing.T) {
	e := NewEngine(0.4, 0.05, 4, &seqRand{draws: []float64{never, never, 0.01, never}})
	res := e.Tick(models.Buy)
	if res.BearConfirms != 1 {
		t.Fatalf("bear confirms = %d, want 1 noise trigger", res.BearConfirms)
	}
}

func TestIdleStates(t *testing.T) {
	e := NewEngine(0.4, 0.05, 4, &seqRand{})
	states := e.Idle()
	if len(states) != 4 {
		t.Fatalf("channel count = %d, want 4", len(states))
	}
	for _, s := range states {
		if s.Active || s.State != models.Neutral {
			t.Fatalf("idle state = %+v", s)
		}
	}
	labels := []string{"ABSORPTION (BUY)", "ZTP UP (BUY)", "RETAIL EXHAUSTION (SELL)", "CASCADING CANCELS (SELL)"}
	for i, want := range labels {
		if states[i].Label != want {
			t.Fatalf("channel %d label = %q, want %q", i, states[i].Label, want)
		}
	}
}

func TestHeldChannelCountsEveryCycle(t *testing.T) {
	e := NewEngine(0.4, 0.05, 4, &seqRand{draws: []float64{always, never, never, never, never, never, never, never}})
	res := tickAll(e, models.Buy, 2)
	if res.BullConfirms != 1 {
		t.Fatalf("held channel not counted, confirms = %d", res.BullConfirms)
	}
}
