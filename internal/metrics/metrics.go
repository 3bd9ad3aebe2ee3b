package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Poll loop metrics
	pollTicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sousdeck_poll_ticks_total",
			Help: "Total poll ticks by source and outcome",
		},
		[]string{"source", "status"}, // source: "timer"/"probe", status: "success"/"error"
	)

	// Session metrics
	stepsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sousdeck_steps_completed_total",
			Help: "Total steps marked complete",
		},
	)

	deckRebuilds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sousdeck_deck_rebuilds_total",
			Help: "Total deck rebuilds triggered by probe estimate changes",
		},
	)

	// Alert metrics
	timerFires = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sousdeck_timer_fires_total",
			Help: "Total timers that reached zero",
		},
	)

	probeAlerts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sousdeck_probe_alerts_total",
			Help: "Total probe state alerts by cook state",
		},
		[]string{"state"},
	)

	// Pantry metrics
	deductionFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sousdeck_pantry_deduction_failures_total",
			Help: "Total pantry deductions that failed after assignment",
		},
	)

	mealsFinalized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sousdeck_meals_finalized_total",
			Help: "Total meal finalizations by outcome",
		},
		[]string{"status"},
	)
)

// RecordPoll counts one poll tick for the given source.
func RecordPoll(source string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	pollTicks.WithLabelValues(source, status).Inc()
}

// RecordStepCompleted counts one completed step.
func RecordStepCompleted() {
	stepsCompleted.Inc()
}

// RecordDeckRebuild counts one estimate-driven rebuild.
func RecordDeckRebuild() {
	deckRebuilds.Inc()
}

// RecordTimerFire counts one timer zero-crossing.
func RecordTimerFire() {
	timerFires.Inc()
}

// RecordProbeAlert counts one cook-state alert.
func RecordProbeAlert(state string) {
	probeAlerts.WithLabelValues(state).Inc()
}

// RecordDeductionFailure counts one failed fire-and-forget deduction.
func RecordDeductionFailure() {
	deductionFailures.Inc()
}

// RecordMealFinalized counts one finalization attempt.
func RecordMealFinalized(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	mealsFinalized.WithLabelValues(status).Inc()
}

// Serve exposes /metrics on addr. It blocks, so callers run it in a
// goroutine. An empty addr disables the listener.
func Serve(addr string) error {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
