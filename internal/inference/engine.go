// Package inference runs the loaded classifier on an encoded feature
// vector. Deterministic for a fixed artifact and input; no side effects.
package inference

import (
	"fmt"
	"math"

	"churn-predictor/internal/artifact"
	svcerrors "churn-predictor/internal/common/errors"
)

// probTolerance bounds the acceptable deviation of the two class
// probabilities from summing to exactly 1.
const probTolerance = 1e-6

// Probabilities holds the class probabilities for one prediction.
// Index 0 is no-churn, index 1 is churn.
type Probabilities [2]float64

func (p Probabilities) Churn() float64   { return p[1] }
func (p Probabilities) NoChurn() float64 { return p[0] }

// Predict runs inference for vec under the given bundle. The vector
// dimensionality is re-checked here even though the encoder already
// guarantees it, guarding against encoder/artifact version drift.
func Predict(b *artifact.Bundle, vec []float64) (Probabilities, error) {
	if len(vec) != len(b.Features) {
		return Probabilities{}, svcerrors.NewInferenceFailedError(fmt.Sprintf(
			"vector has %d values, classifier expects %d", len(vec), len(b.Features)))
	}

	var probs Probabilities
	switch b.Model.Type {
	case artifact.ModelLogisticRegression:
		probs = predictLogistic(&b.Model, vec)
	case artifact.ModelRandomForest:
		var err error
		probs, err = predictForest(&b.Model, vec)
		if err != nil {
			return Probabilities{}, err
		}
	default:
		return Probabilities{}, svcerrors.NewInferenceFailedError(fmt.Sprintf(
			"unsupported model type %q", b.Model.Type))
	}

	// Negated form so a NaN sum fails the check; NaN is false under
	// every ordered comparison.
	if sum := probs[0] + probs[1]; !(math.Abs(sum-1) <= probTolerance) {
		return Probabilities{}, svcerrors.NewInferenceFailedError(fmt.Sprintf(
			"class probabilities sum to %v", sum))
	}

	return probs, nil
}
