// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "churn_predictions_total",
			Help: "Total number of prediction requests by outcome",
		},
		[]string{"outcome"},
	)

	PredictionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "churn_prediction_errors_total",
			Help: "Total number of failed prediction requests by error code",
		},
		[]string{"error_code"},
	)

	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "churn_prediction_duration_seconds",
			Help: "Duration of the validate-encode-infer-compose pipeline in seconds",
		},
	)

	InferencesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "churn_inferences_in_flight",
			Help: "Number of inference executions currently running",
		},
	)

	ArtifactReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "churn_artifact_reloads_total",
			Help: "Total number of artifact reload attempts by status",
		},
		[]string{"status"},
	)

	ArtifactGeneration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "churn_artifact_generation",
			Help: "Generation number of the currently active model artifact",
		},
	)
)
