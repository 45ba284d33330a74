package kraken

import (
	"context"
	"fmt"
	"strconv"
	"time"

	drepo "TapeReader/internal/domain/repository"
	xhttp "TapeReader/pkg/http"
)

// Client fetches the latest traded price from the Kraken public ticker REST
// endpoint. One Fetch call makes up to attempts requests before giving up.
type Client struct {
	url      string
	pair     string
	attempts int
	http     *xhttp.Client
}

// NewClient creates a Kraken REST ticker source.
func NewClient(url, pair string, timeout time.Duration, attempts int) *Client {
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		url:      url,
		pair:     pair,
		attempts: attempts,
		http:     xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type tickerResult struct {
	Close []string `json:"c"` // [price, lot volume]
}

type tickerResponse struct {
	Error  []string                `json:"error"`
	Result map[string]tickerResult `json:"result"`
}

// Fetch returns the last traded price for the configured pair.
func (c *Client) Fetch(ctx context.Context) (float64, error) {
	var lastErr error
	for i := 0; i < c.attempts; i++ {
		price, err := c.fetchOnce(ctx)
		if err == nil {
			return price, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return 0, fmt.Errorf("kraken ticker: %w", lastErr)
}

func (c *Client) fetchOnce(ctx context.Context) (float64, error) {
	var resp tickerResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.url,
		QueryParams: map[string][]string{"pair": {c.pair}},
	}, &resp)
	if err != nil {
		return 0, err
	}
	if len(resp.Error) > 0 {
		return 0, fmt.Errorf("api error: %v", resp.Error)
	}

	// Kraken keys the result by its canonical pair name, which differs from
	// the requested one (XBTUSD -> XXBTZUSD); take the single entry.
	for _, r := range resp.Result {
		if len(r.Close) == 0 {
			return 0, fmt.Errorf("ticker has no close price")
		}
		price, err := strconv.ParseFloat(r.Close[0], 64)
		if err != nil {
			return 0, fmt.Errorf("parse close price %q: %w", r.Close[0], err)
		}
		return price, nil
	}
	return 0, fmt.Errorf("empty ticker result")
}

// Close implements PriceSource; the REST client holds no connection state.
func (c *Client) Close() error { return nil }

var _ drepo.PriceSource = (*Client)(nil)
