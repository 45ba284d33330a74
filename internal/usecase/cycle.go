package usecase

import (
	"context"
	"sync"
	"time"

	"TapeReader/internal/domain/models"
	drepo "TapeReader/internal/domain/repository"
	"TapeReader/internal/services/history"
	"TapeReader/internal/services/momentum"
	"TapeReader/internal/services/tape"
	"TapeReader/internal/services/trend"
	applogger "TapeReader/pkg/logger"
)

// Deps carries everything the cycle orchestrator needs. Publisher and Mirror
// are optional; the rest is required.
type Deps struct {
	Source  drepo.PriceSource
	Pub     drepo.Publisher
	Mirror  drepo.SnapshotMirror
	Metrics drepo.Metrics
	Log     *applogger.Logger

	Tracker    *momentum.Tracker
	Classifier *trend.Classifier
	Tape       *tape.Engine
	History    *history.Log

	Pair          string
	FetchInterval time.Duration
}

// Cycle owns the single instance of all core state and runs one full decision
// cycle per fetch tick. All mutation happens under one mutex because the HTTP
// layer reads snapshots concurrently with the tick loop.
type Cycle struct {
	deps Deps

	mu         sync.Mutex
	price      float64
	mom        models.Momentum
	trendState models.TrendState
	channels   []models.ChannelState
	bull, bear int
	confluence models.Confluence
	lastFetch  time.Time
}

func NewCycle(deps Deps) *Cycle {
	return &Cycle{
		deps:       deps,
		trendState: trend.Initial(),
		channels:   deps.Tape.Idle(),
		confluence: models.Confluence{State: models.Neutral, Text: "INITIATING"},
		lastFetch:  time.Now(),
	}
}

// RunCycle performs one full decision cycle: fetch, momentum, trend, tape,
// confluence, history. On fetch failure only the last-fetch marker advances;
// all displayed state is retained unchanged.
func (c *Cycle) RunCycle(ctx context.Context) {
	start := time.Now()

	price, err := c.deps.Source.Fetch(ctx)
	if err != nil {
		c.mu.Lock()
		c.lastFetch = time.Now()
		c.mu.Unlock()
		c.deps.Metrics.RecordFetch("error")
		c.deps.Log.Warn("price fetch failed, skipping cycle", applogger.Error(err))
		return
	}

	c.mu.Lock()
	if err := c.deps.Tracker.Ingest(price); err != nil {
		// source contract violation: surface it, mutate nothing else
		c.lastFetch = time.Now()
		c.mu.Unlock()
		c.deps.Metrics.RecordFetch("invalid")
		c.deps.Log.Error("source produced invalid sample", applogger.Error(err), applogger.Float64("price", price))
		return
	}

	c.price = price
	c.mom = c.deps.Tracker.Momentum()
	c.trendState = c.deps.Classifier.Classify(c.trendState, price, c.mom, c.deps.Tracker.Prices())

	res := c.deps.Tape.Tick(c.trendState.Signal)
	c.channels = res.Channels
	c.bull = res.BullConfirms
	c.bear = res.BearConfirms
	c.confluence = tape.Resolve(c.trendState.Signal, res.BullConfirms, res.BearConfirms)

	entry := models.HistoryEntry{
		Timestamp: time.Now(),
		MACDText:  c.trendState.MACDText,
		RSIText:   c.trendState.RSIText,
		Final:     c.confluence.Text,
	}
	c.deps.History.Record(entry)
	c.lastFetch = time.Now()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.deps.Metrics.RecordFetch("ok")
	c.deps.Metrics.RecordLastPrice(price)
	c.deps.Metrics.RecordMomentum(snap.Momentum.Sum)
	c.deps.Metrics.RecordConfirms(snap.BullConfirms, snap.BearConfirms)
	c.deps.Metrics.RecordDecision(string(snap.Confluence.State))
	c.deps.Metrics.RecordCycleDuration(time.Since(start).Seconds())

	if c.deps.Pub != nil {
		if err := c.deps.Pub.PublishDecision(ctx, entry); err != nil {
			c.deps.Log.Warn("decision publish failed", applogger.Error(err))
		}
	}
	if c.deps.Mirror != nil {
		if err := c.deps.Mirror.Store(ctx, snap); err != nil {
			c.deps.Log.Warn("snapshot mirror failed", applogger.Error(err))
		}
	}

	c.deps.Log.Info("decision cycle",
		applogger.Float64("price", price),
		applogger.Float64("momentum_sum", snap.Momentum.Sum),
		applogger.Int("bias", snap.Momentum.Bias),
		applogger.String("trend", string(snap.Trend.Signal)),
		applogger.Int("bull_confirms", snap.BullConfirms),
		applogger.Int("bear_confirms", snap.BearConfirms),
		applogger.String("final", snap.Confluence.Text),
	)
}

// RenderTick refreshes only the displayed countdown. It is strictly read-only
// over core state; in particular it never touches the tape hold timers, which
// decay once per decision cycle only.
func (c *Cycle) RenderTick() float64 {
	c.mu.Lock()
	last := c.lastFetch
	c.mu.Unlock()

	remaining := c.deps.FetchInterval - time.Since(last)
	if remaining < 0 {
		remaining = 0
	}
	sec := remaining.Seconds()
	c.deps.Metrics.RecordCountdown(sec)
	return sec
}

// Snapshot returns the read-only view for display collaborators.
func (c *Cycle) Snapshot() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Cycle) snapshotLocked() models.Snapshot {
	remaining := c.deps.FetchInterval - time.Since(c.lastFetch)
	if remaining < 0 {
		remaining = 0
	}
	channels := make([]models.ChannelState, len(c.channels))
	copy(channels, c.channels)
	return models.Snapshot{
		Pair:          c.deps.Pair,
		Price:         c.price,
		Momentum:      c.mom,
		Trend:         c.trendState,
		Channels:      channels,
		BullConfirms:  c.bull,
		BearConfirms:  c.bear,
		Confluence:    c.confluence,
		History:       c.deps.History.Entries(),
		LastFetch:     c.lastFetch,
		NextFetchIn:   remaining.Seconds(),
		SamplesStored: c.deps.Tracker.Len(),
	}
}
