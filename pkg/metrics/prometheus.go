package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal   *prometheus.CounterVec
	lastPrice      prometheus.Gauge
	momentumSum    prometheus.Gauge
	confirmsActive *prometheus.GaugeVec
	decisionsTotal *prometheus.CounterVec
	cycleDuration  prometheus.Histogram
	countdown      prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tapereader_fetches_total",
				Help: "Price fetch attempts by result",
			},
			[]string{"result"},
		),
		lastPrice: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tapereader_last_price",
				Help: "Last successfully fetched price",
			},
		),
		momentumSum: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tapereader_momentum_sum",
				Help: "Sum of the current price delta window",
			},
		),
		confirmsActive: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tapereader_confirmations_active",
				Help: "Active tape confirmation channels per direction",
			},
			[]string{"direction"},
		),
		decisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tapereader_decisions_total",
				Help: "Decision cycles by final confluence signal",
			},
			[]string{"signal"},
		),
		cycleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tapereader_cycle_duration_seconds",
				Help:    "Duration of one full decision cycle",
				Buckets: prometheus.DefBuckets,
			},
		),
		countdown: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tapereader_next_fetch_seconds",
				Help: "Seconds until the next scheduled fetch tick",
			},
		),
	}
}

// RecordFetch records a price fetch attempt ("ok", "error" or "invalid").
func (r *Recorder) RecordFetch(result string) {
	r.fetchesTotal.WithLabelValues(result).Inc()
}

// RecordLastPrice records the last fetched price.
func (r *Recorder) RecordLastPrice(price float64) {
	r.lastPrice.Set(price)
}

// RecordMomentum records the current momentum sum.
func (r *Recorder) RecordMomentum(sum float64) {
	r.momentumSum.Set(sum)
}

// RecordConfirms records active confirmation counts per direction.
func (r *Recorder) RecordConfirms(bull, bear int) {
	r.confirmsActive.WithLabelValues("bull").Set(float64(bull))
	r.confirmsActive.WithLabelValues("bear").Set(float64(bear))
}

// RecordDecision records a decision cycle outcome.
func (r *Recorder) RecordDecision(signal string) {
	r.decisionsTotal.WithLabelValues(signal).Inc()
}

// RecordCycleDuration records how long a decision cycle took.
func (r *Recorder) RecordCycleDuration(seconds float64) {
	r.cycleDuration.Observe(seconds)
}

// RecordCountdown records the render-tick countdown.
func (r *Recorder) RecordCountdown(seconds float64) {
	r.countdown.Set(seconds)
}
