package api

import (
	"fmt"
	"net/http"
	"time"

	"TapeReader/internal/usecase"
	xhttp "TapeReader/pkg/http"
	xlogger "TapeReader/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SnapshotEchoHandler exposes the read-only view of the signal engine. It
// never mutates core state; rendering itself stays with the caller.
type SnapshotEchoHandler struct {
	logger     *xlogger.Logger
	cycle      *usecase.Cycle
	staleAfter time.Duration // 0 disables the stalled-feed check
}

func NewSnapshotEchoHandler(logger *xlogger.Logger, cycle *usecase.Cycle, staleAfter time.Duration) *SnapshotEchoHandler {
	return &SnapshotEchoHandler{logger: logger, cycle: cycle, staleAfter: staleAfter}
}

func (h *SnapshotEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/snapshot", h.Snapshot)
	g.GET("/history", h.History)
	e.GET("/healthz", h.Health)
}

// Snapshot returns the full current state: trend, channels, confluence,
// momentum and history.
func (h *SnapshotEchoHandler) Snapshot(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.cycle.Snapshot())
}

// HistoryRequest bounds the history page size to the log cap.
type HistoryRequest struct {
	Limit int `query:"limit" default:"30" validate:"gte=1,lte=30"`
}

// History returns the newest-first decision log, optionally truncated.
func (h *SnapshotEchoHandler) History(c echo.Context) error {
	req := &HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	entries := h.cycle.Snapshot().History
	total := int64(len(entries))
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}
	return xhttp.ListResponse(c, entries, total)
}

// Health reports liveness. The last-fetch marker advances on every attempt,
// success or not, so a stale marker means the decision loop itself stalled.
func (h *SnapshotEchoHandler) Health(c echo.Context) error {
	snap := h.cycle.Snapshot()
	age := time.Since(snap.LastFetch)

	if h.staleAfter > 0 && age > h.staleAfter {
		appErr := xhttp.NewAppError("ERR_FEED_STALLED", "", "decision loop stalled", http.StatusServiceUnavailable).
			WithError(fmt.Errorf("last fetch attempt %s ago", age.Round(time.Second)))
		h.logger.Warn("health degraded", xlogger.Error(appErr))
		return xhttp.AppErrorResponse(c, appErr)
	}

	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":         "ok",
		"pair":           snap.Pair,
		"last_fetch_age": age.Round(time.Second).String(),
		"samples":        snap.SamplesStored,
	})
}
