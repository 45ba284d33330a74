package kraken

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	drepo "TapeReader/internal/domain/repository"
	applogger "TapeReader/pkg/logger"

	"github.com/gorilla/websocket"
)

// Stream is a PriceSource backed by the Kraken public WebSocket ticker feed.
// A background read loop caches the latest trade price; Fetch hands out the
// cached sample, guarded by a staleness window. The fetch tick cadence stays
// owned by the orchestrator regardless of how often the feed updates.
type Stream struct {
	url            string
	pair           string // WS pair notation, e.g. "XBT/USD"
	reconnectDelay time.Duration
	staleness      time.Duration
	log            *applogger.Logger

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	price     float64
	updatedAt time.Time
}

// NewStream creates a Kraken WebSocket ticker source.
func NewStream(url, pair string, reconnectDelay, staleness time.Duration, log *applogger.Logger) *Stream {
	return &Stream{
		url:            url,
		pair:           pair,
		reconnectDelay: reconnectDelay,
		staleness:      staleness,
		log:            log,
	}
}

// Fetch returns the most recent cached ticker price. It connects lazily on
// first use and fails when no fresh sample is available, which the
// orchestrator treats as a skipped cycle.
func (s *Stream) Fetch(ctx context.Context) (float64, error) {
	if err := s.ensureConnected(ctx); err != nil {
		return 0, fmt.Errorf("kraken stream: %w", err)
	}

	s.mu.RLock()
	price, at := s.price, s.updatedAt
	s.mu.RUnlock()

	if at.IsZero() {
		return 0, fmt.Errorf("kraken stream: no ticker received yet")
	}
	if age := time.Since(at); age > s.staleness {
		return 0, fmt.Errorf("kraken stream: last ticker stale by %s", age.Round(time.Second))
	}
	return price, nil
}

func (s *Stream) ensureConnected(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connected {
		return nil
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	sub := map[string]interface{}{
		"event":        "subscribe",
		"pair":         []string{s.pair},
		"subscription": map[string]string{"name": "ticker"},
	}
	if err := conn.WriteJSON(sub); err != nil {
		_ = conn.Close()
		return fmt.Errorf("subscribe %s: %w", s.pair, err)
	}

	s.conn = conn
	s.connected = true
	if s.log != nil {
		s.log.Info("kraken stream connected", applogger.String("pair", s.pair))
	}
	go s.readLoop(conn)
	return nil
}

type tickerPayload struct {
	Close []string `json:"c"` // [price, lot volume]
}

func (s *Stream) readLoop(conn *websocket.Conn) {
	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			s.disconnect(conn)
			if s.log != nil {
				s.log.Warn("kraken stream read error", applogger.Error(err))
			}
			time.Sleep(s.reconnectDelay)
			return
		}

		// Ticker updates arrive as [channelID, payload, "ticker", pair];
		// event frames (heartbeat, subscriptionStatus) are JSON objects.
		var frame []json.RawMessage
		if err := json.Unmarshal(b, &frame); err != nil || len(frame) < 4 {
			continue
		}
		var payload tickerPayload
		if err := json.Unmarshal(frame[1], &payload); err != nil || len(payload.Close) == 0 {
			continue
		}
		price, err := strconv.ParseFloat(payload.Close[0], 64)
		if err != nil {
			continue
		}

		s.mu.Lock()
		s.price = price
		s.updatedAt = time.Now()
		s.mu.Unlock()
	}
}

func (s *Stream) disconnect(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.connected = false
		s.conn = nil
	}
	s.mu.Unlock()
	_ = conn.Close()
}

// Close closes the WebSocket connection.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

var _ drepo.PriceSource = (*Stream)(nil)
