package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zsiec/tint/internal/filter"
)

// Command results.
const (
	ResultApplied      = "applied"
	ResultUnrecognized = "unrecognized"
)

// Frame skip reasons.
const (
	SkipMissingGeometry = "missing_geometry"
	SkipUndersized      = "undersized"
)

var (
	// Command path metrics
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tint_commands_total",
		Help: "Command tokens received, by transport and result",
	}, []string{"transport", "result"})

	filterMode = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tint_filter_mode",
		Help: "Numeric value of the active filter mode",
	})

	modeChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tint_mode_changes_total",
		Help: "Committed mode changes, by new mode",
	}, []string{"mode"})

	// Frame path metrics
	framesProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tint_frames_processed_total",
		Help: "Frames transformed, by mode",
	}, []string{"mode"})

	framesSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tint_frames_skipped_total",
		Help: "Frames passed through untouched, by reason",
	}, []string{"reason"})

	filterDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tint_filter_duration_seconds",
		Help:    "Time spent applying a filter to one frame",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 14), // 50µs to ~400ms
	}, []string{"mode"})

	overlayDrawsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tint_overlay_draws_total",
		Help: "Overlay labels drawn",
	})

	controlListenerUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tint_control_listener_up",
		Help: "Whether a command transport is accepting tokens",
	}, []string{"transport"})
)

// RecordCommand counts one received token.
func RecordCommand(transport, result string) {
	commandsTotal.WithLabelValues(transport, result).Inc()
}

// RecordModeChange tracks a committed mode.
func RecordModeChange(m filter.Mode) {
	filterMode.Set(float64(m))
	modeChangesTotal.WithLabelValues(m.Name()).Inc()
}

// RecordFrame tracks a frame transformed with mode m.
func RecordFrame(m filter.Mode, elapsed time.Duration) {
	framesProcessedTotal.WithLabelValues(m.Name()).Inc()
	filterDuration.WithLabelValues(m.Name()).Observe(elapsed.Seconds())
}

// IncrementFrameSkipped counts a frame passed through untouched.
func IncrementFrameSkipped(reason string) {
	framesSkippedTotal.WithLabelValues(reason).Inc()
}

// IncrementOverlayDraws counts one overlay render.
func IncrementOverlayDraws() {
	overlayDrawsTotal.Inc()
}

// SetListenerUp flags a command transport as running or stopped.
func SetListenerUp(transport string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	controlListenerUp.WithLabelValues(transport).Set(v)
}
