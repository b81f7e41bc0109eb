package inference

import (
	"math"

	"churn-predictor/internal/artifact"
)

// predictLogistic computes sigmoid(w·x + b) as the churn probability.
func predictLogistic(m *artifact.Model, vec []float64) Probabilities {
	z := m.Intercept
	for i, w := range m.Coefficients {
		z += w * vec[i]
	}
	p := sigmoid(z)
	return Probabilities{1 - p, p}
}

func sigmoid(z float64) float64 {
	// Split on sign to avoid exp overflow for large |z|.
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
