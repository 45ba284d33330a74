package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TapeReader/internal/services/history"
	"TapeReader/internal/services/momentum"
	"TapeReader/internal/services/tape"
	"TapeReader/internal/services/trend"
	"TapeReader/internal/usecase"
	applogger "TapeReader/pkg/logger"

	"github.com/labstack/echo/v4"
)

type fixedSource struct{ price float64 }

func (s fixedSource) Fetch(ctx context.Context) (float64, error) { return s.price, nil }
func (s fixedSource) Close() error                               { return nil }

type noopMetrics struct{}

func (noopMetrics) RecordFetch(string)          {}
func (noopMetrics) RecordLastPrice(float64)     {}
func (noopMetrics) RecordMomentum(float64)      {}
func (noopMetrics) RecordConfirms(int, int)     {}
func (noopMetrics) RecordDecision(string)       {}
func (noopMetrics) RecordCycleDuration(float64) {}
func (noopMetrics) RecordCountdown(float64)     {}

type quietRand struct{}

func (quietRand) Float64() float64 { return 0.99 }

func newCycle(t *testing.T, cycles int) (*usecase.Cycle, *applogger.Logger) {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	cycle := usecase.NewCycle(usecase.Deps{
		Source:        fixedSource{price: 100},
		Metrics:       noopMetrics{},
		Log:           l,
		Tracker:       momentum.NewTracker(12, 5, 0.5),
		Classifier:    trend.NewClassifier(12),
		Tape:          tape.NewEngine(0.4, 0.05, 4, quietRand{}),
		History:       history.NewLog(30),
		Pair:          "XBTUSD",
		FetchInterval: 60 * time.Second,
	})
	for i := 0; i < cycles; i++ {
		cycle.RunCycle(context.Background())
	}
	return cycle, l
}

func newHandler(t *testing.T, cycles int) *SnapshotEchoHandler {
	t.Helper()
	cycle, l := newCycle(t, cycles)
	return NewSnapshotEchoHandler(l, cycle, time.Hour)
}

func request(t *testing.T, h *SnapshotEchoHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSnapshotEndpoint(t *testing.T) {
	rec := request(t, newHandler(t, 3), "/api/snapshot")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Status int `json:"status"`
		Data   struct {
			Pair     string `json:"pair"`
			Channels []struct {
				Label string `json:"label"`
			} `json:"channels"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Pair != "XBTUSD" {
		t.Fatalf("pair = %q", body.Data.Pair)
	}
	if len(body.Data.Channels) != 4 {
		t.Fatalf("channels = %d, want 4", len(body.Data.Channels))
	}
}

func TestHistoryEndpointLimit(t *testing.T) {
	rec := request(t, newHandler(t, 5), "/api/history?limit=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Data struct {
			Rows  []json.RawMessage `json:"rows"`
			Total int64             `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(body.Data.Rows))
	}
	if body.Data.Total != 5 {
		t.Fatalf("total = %d, want 5", body.Data.Total)
	}
}

func TestHistoryEndpointRejectsOversizedLimit(t *testing.T) {
	rec := request(t, newHandler(t, 1), "/api/history?limit=99")
	var body struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 payload", body.Status)
	}
}

func TestHealthEndpoint(t *testing.T) {
	rec := request(t, newHandler(t, 0), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHealthEndpointReportsStalledLoop(t *testing.T) {
	cycle, l := newCycle(t, 1)
	h := NewSnapshotEchoHandler(l, cycle, time.Nanosecond)

	rec := request(t, h, "/healthz")
	var body struct {
		Status int `json:"status"`
		Data   []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 payload", body.Status)
	}
	if len(body.Data) != 1 || body.Data[0].Code != "ERR_FEED_STALLED" {
		t.Fatalf("data = %+v, want single ERR_FEED_STALLED", body.Data)
	}
}
