// Package encoding maps a validated customer record into the fixed-order
// numeric feature vector the classifier was trained on. Output order is
// exactly the artifact's declared feature order; a misordered vector would
// silently produce wrong predictions with no crash, so every lookup is
// driven by the artifact schema rather than positional convention.
package encoding

import (
	"fmt"
	"math"
	"time"

	"churn-predictor/internal/artifact"
	svcerrors "churn-predictor/internal/common/errors"
	"churn-predictor/internal/models"
)

// Encode produces the scaled feature vector for rec against the bundle's
// schema. ref is the reference time for derived tenure features: callers
// pass the request receive time, tests pass a fixed instant. Identical
// records encoded with identical reference times always yield identical
// vectors.
func Encode(rec *models.CustomerRecord, b *artifact.Bundle, ref time.Time) ([]float64, error) {
	vec := make([]float64, len(b.Features))

	for i, spec := range b.Features {
		var raw float64

		switch spec.Kind {
		case artifact.FeatureCategorical:
			value, err := categoricalValue(rec, spec.Source)
			if err != nil {
				return nil, err
			}
			idx := b.VocabularyIndex(spec.Source, value)
			if idx < 0 {
				switch b.UnknownPolicy {
				case artifact.PolicyBucket:
					idx = b.VocabularyIndex(spec.Source, artifact.UnknownClass)
				default:
					return nil, svcerrors.NewUnseenCategoryError(spec.Source, value)
				}
			}
			raw = float64(idx)

		case artifact.FeatureNumeric:
			value, err := numericValue(rec, spec.Source)
			if err != nil {
				return nil, err
			}
			raw = value

		case artifact.FeatureTenureDays:
			raw = tenureDays(rec.DateOfRegistration, ref)

		default:
			return nil, svcerrors.NewArtifactMismatchError(fmt.Sprintf(
				"feature %q has unsupported kind %q", spec.Name, spec.Kind))
		}

		vec[i] = (raw - b.Scaler.Mean[i]) / b.Scaler.Scale[i]
	}

	return vec, nil
}

// tenureDays is the whole number of days between registration and the
// reference time.
func tenureDays(registered, ref time.Time) float64 {
	return math.Floor(ref.Sub(registered).Hours() / 24)
}

func categoricalValue(rec *models.CustomerRecord, source string) (string, error) {
	switch source {
	case models.FieldTelecomPartner:
		return rec.TelecomPartner, nil
	case models.FieldGender:
		return rec.Gender, nil
	case models.FieldState:
		return rec.State, nil
	case models.FieldCity:
		return rec.City, nil
	default:
		return "", svcerrors.NewArtifactMismatchError(fmt.Sprintf(
			"schema references unknown categorical field %q", source))
	}
}

func numericValue(rec *models.CustomerRecord, source string) (float64, error) {
	switch source {
	case models.FieldAge:
		return float64(rec.Age), nil
	case models.FieldPincode:
		return float64(rec.Pincode), nil
	case models.FieldNumDependents:
		return float64(rec.NumDependents), nil
	case models.FieldEstimatedSalary:
		return rec.EstimatedSalary, nil
	case models.FieldCallsMade:
		return float64(rec.CallsMade), nil
	case models.FieldSMSSent:
		return float64(rec.SMSSent), nil
	case models.FieldDataUsed:
		return rec.DataUsed, nil
	default:
		return 0, svcerrors.NewArtifactMismatchError(fmt.Sprintf(
			"schema references unknown numeric field %q", source))
	}
}
