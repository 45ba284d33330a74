package models

import "time"

// Direction is the discrete signal direction shared by the trend classifier,
// the tape channels and the confluence output.
type Direction string

const (
	Neutral Direction = "neutral"
	Buy     Direction = "buy"
	Sell    Direction = "sell"
)

// Momentum is the short-horizon directional proxy derived from the delta window.
type Momentum struct {
	Sum  float64 `json:"sum"`
	Bias int     `json:"bias"` // +1, 0, -1
}

// TrendState is the gating technical setup classification. The descriptive
// texts are display-only; downstream logic keys off Signal alone.
type TrendState struct {
	Signal   Direction `json:"signal"`
	MACDText string    `json:"macd_text"`
	RSIText  string    `json:"rsi_text"`
	Display  string    `json:"display"`
}

// ChannelState is one tape confirmation channel as seen by a display collaborator.
type ChannelState struct {
	Label  string    `json:"label"`
	State  Direction `json:"state"`
	Active bool      `json:"active"`
}

// Confluence is the final decision combining trend and confirmations.
type Confluence struct {
	State Direction `json:"state"` // neutral means waiting for confluence
	Text  string    `json:"text"`
}

// HistoryEntry is an immutable snapshot of one decision cycle.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	MACDText  string    `json:"macd_text"`
	RSIText   string    `json:"rsi_text"`
	Final     string    `json:"final_signal"`
}

// Snapshot is the read-only view handed to display collaborators.
type Snapshot struct {
	Pair          string         `json:"pair"`
	Price         float64        `json:"price"`
	Momentum      Momentum       `json:"momentum"`
	Trend         TrendState     `json:"trend"`
	Channels      []ChannelState `json:"channels"`
	BullConfirms  int            `json:"bull_confirms"`
	BearConfirms  int            `json:"bear_confirms"`
	Confluence    Confluence     `json:"confluence"`
	History       []HistoryEntry `json:"history"`
	LastFetch     time.Time      `json:"last_fetch"`
	NextFetchIn   float64        `json:"next_fetch_in_seconds"`
	SamplesStored int            `json:"samples_stored"`
}
