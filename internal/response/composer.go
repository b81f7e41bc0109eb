// Package response converts raw class probabilities into the service's
// output contract: verdict text, confidence and risk bucket.
package response

import (
	"time"

	"churn-predictor/internal/inference"
	"churn-predictor/internal/models"
)

// Verdict texts shown to dashboard consumers.
const (
	TextWillChurn    = "Customer will churn"
	TextWillNotChurn = "Customer will not churn"
)

// Risk buckets derived by thresholding churn probability.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Thresholds is the named risk-bucket policy. Strictly-greater semantics:
// a churn probability of exactly High lands in medium, exactly Medium
// lands in low.
type Thresholds struct {
	High   float64
	Medium float64
}

// DefaultThresholds returns the policy the dashboard shipped with.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.6, Medium: 0.3}
}

// Bucket resolves a churn probability to its risk bucket.
func (t Thresholds) Bucket(churnProbability float64) string {
	switch {
	case churnProbability > t.High:
		return RiskHigh
	case churnProbability > t.Medium:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Compose builds the outbound prediction response. The majority class
// becomes the verdict; confidence is the winning class's probability.
func Compose(probs inference.Probabilities, th Thresholds, modelVersion string, now time.Time) *models.PredictionResponse {
	prediction := 0
	text := TextWillNotChurn
	confidence := probs.NoChurn()
	if probs.Churn() > probs.NoChurn() {
		prediction = 1
		text = TextWillChurn
		confidence = probs.Churn()
	}

	return &models.PredictionResponse{
		Prediction:         prediction,
		ChurnProbability:   probs.Churn(),
		NoChurnProbability: probs.NoChurn(),
		PredictionText:     text,
		Confidence:         confidence,
		RiskBucket:         th.Bucket(probs.Churn()),
		ModelVersion:       modelVersion,
		Timestamp:          now.UTC().Format(time.RFC3339),
		Status:             "success",
	}
}
