// Package artifact defines the versioned model bundle: trained classifier
// parameters together with the encoding metadata frozen at training time.
// A bundle is a single atomic unit; classifier and schema are never split
// across separately versioned files.
package artifact

import (
	"fmt"

	svcerrors "churn-predictor/internal/common/errors"
)

// FeatureKind classifies how a feature is derived from the customer record.
type FeatureKind string

const (
	FeatureCategorical FeatureKind = "categorical"
	FeatureNumeric     FeatureKind = "numeric"
	// FeatureTenureDays is derived from date_of_registration relative to
	// the request's reference time. Two identical payloads sent a year
	// apart yield different values for this feature.
	FeatureTenureDays FeatureKind = "tenure_days"
)

// UnknownClass is the vocabulary entry reserved at training time for the
// "bucket" unknown-category policy.
const UnknownClass = "__unknown__"

// Unknown-category policies. Declared in the artifact so serving and
// training cannot disagree.
const (
	PolicyReject = "reject"
	PolicyBucket = "bucket"
)

// Model types.
const (
	ModelLogisticRegression = "logistic_regression"
	ModelRandomForest       = "random_forest"
)

// FeatureSpec describes one entry of the trained feature vector. Name is
// the feature's name in the trained schema; Source is the request field it
// is computed from.
type FeatureSpec struct {
	Name   string      `json:"name"`
	Source string      `json:"source"`
	Kind   FeatureKind `json:"kind"`
}

// Scaler holds standardization parameters fitted at training time, aligned
// with the bundle's feature order. Serving never recomputes them.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// TreeNode is one node of a decision tree. Leaf nodes carry the class
// distribution observed at training time; internal nodes route on
// vec[Feature] <= Threshold.
type TreeNode struct {
	Feature   int        `json:"feature"`
	Threshold float64    `json:"threshold"`
	Left      int        `json:"left"`
	Right     int        `json:"right"`
	Leaf      bool       `json:"leaf"`
	Value     [2]float64 `json:"value"`
}

// Tree is a single decision tree, nodes indexed from the root at 0.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// Model holds the trained classifier parameters for one of the supported
// model types.
type Model struct {
	Type         string    `json:"type"`
	Coefficients []float64 `json:"coefficients,omitempty"`
	Intercept    float64   `json:"intercept,omitempty"`
	Trees        []Tree    `json:"trees,omitempty"`
}

// Bundle is one immutable, internally consistent (classifier + schema)
// snapshot. Shared read-only across all concurrent requests; no request
// may mutate it.
type Bundle struct {
	SchemaVersion int                 `json:"schema_version"`
	ModelID       string              `json:"model_id"`
	ModelVersion  string              `json:"model_version"`
	TrainedAt     string              `json:"trained_at"`
	Features      []FeatureSpec       `json:"features"`
	Vocabularies  map[string][]string `json:"vocabularies"`
	Scaler        Scaler              `json:"scaler"`
	Model         Model               `json:"model"`
	UnknownPolicy string              `json:"unknown_policy"`
}

// Validate verifies the classifier's expected input dimensionality matches
// the schema's feature count and that every piece of encoding metadata is
// present and consistent. A failure here is fatal, never per-request
// recoverable.
func (b *Bundle) Validate() error {
	n := len(b.Features)
	if n == 0 {
		return svcerrors.NewArtifactMismatchError("bundle declares no features")
	}

	switch b.Model.Type {
	case ModelLogisticRegression:
		if len(b.Model.Coefficients) != n {
			return svcerrors.NewArtifactMismatchError(fmt.Sprintf(
				"classifier expects %d inputs, schema declares %d features",
				len(b.Model.Coefficients), n))
		}
	case ModelRandomForest:
		if len(b.Model.Trees) == 0 {
			return svcerrors.NewArtifactMismatchError("random forest has no trees")
		}
		for ti, tree := range b.Model.Trees {
			if len(tree.Nodes) == 0 {
				return svcerrors.NewArtifactMismatchError(fmt.Sprintf("tree %d has no nodes", ti))
			}
			for ni, node := range tree.Nodes {
				if node.Leaf {
					continue
				}
				if node.Feature < 0 || node.Feature >= n {
					return svcerrors.NewArtifactMismatchError(fmt.Sprintf(
						"tree %d node %d routes on feature %d, schema declares %d features",
						ti, ni, node.Feature, n))
				}
				if node.Left < 0 || node.Left >= len(tree.Nodes) ||
					node.Right < 0 || node.Right >= len(tree.Nodes) {
					return svcerrors.NewArtifactMismatchError(fmt.Sprintf(
						"tree %d node %d has out-of-range children", ti, ni))
				}
			}
		}
	default:
		return svcerrors.NewArtifactMismatchError(fmt.Sprintf("unsupported model type %q", b.Model.Type))
	}

	if len(b.Scaler.Mean) != n || len(b.Scaler.Scale) != n {
		return svcerrors.NewArtifactMismatchError(fmt.Sprintf(
			"scaler covers %d/%d values, schema declares %d features",
			len(b.Scaler.Mean), len(b.Scaler.Scale), n))
	}
	for i, s := range b.Scaler.Scale {
		if s == 0 {
			return svcerrors.NewArtifactMismatchError(fmt.Sprintf(
				"scaler has zero scale for feature %q", b.Features[i].Name))
		}
	}

	if b.UnknownPolicy != PolicyReject && b.UnknownPolicy != PolicyBucket {
		return svcerrors.NewArtifactMismatchError(fmt.Sprintf(
			"unknown_policy must be %q or %q, got %q", PolicyReject, PolicyBucket, b.UnknownPolicy))
	}

	for _, spec := range b.Features {
		switch spec.Kind {
		case FeatureCategorical:
			vocab, ok := b.Vocabularies[spec.Source]
			if !ok || len(vocab) == 0 {
				return svcerrors.NewArtifactMismatchError(fmt.Sprintf(
					"categorical feature %q has no vocabulary", spec.Name))
			}
			if b.UnknownPolicy == PolicyBucket && !contains(vocab, UnknownClass) {
				return svcerrors.NewArtifactMismatchError(fmt.Sprintf(
					"bucket policy requires a %q class in the %q vocabulary", UnknownClass, spec.Source))
			}
		case FeatureNumeric, FeatureTenureDays:
			// no vocabulary
		default:
			return svcerrors.NewArtifactMismatchError(fmt.Sprintf(
				"feature %q has unsupported kind %q", spec.Name, spec.Kind))
		}
	}

	return nil
}

// FeatureNames returns the ordered feature names the model was trained on.
func (b *Bundle) FeatureNames() []string {
	names := make([]string, len(b.Features))
	for i, f := range b.Features {
		names[i] = f.Name
	}
	return names
}

// CategoricalColumns returns the source fields encoded through a
// vocabulary, in feature order.
func (b *Bundle) CategoricalColumns() []string {
	cols := make([]string, 0, len(b.Features))
	for _, f := range b.Features {
		if f.Kind == FeatureCategorical {
			cols = append(cols, f.Source)
		}
	}
	return cols
}

// VocabularyIndex returns the trained index of value within field's
// vocabulary, or -1 when the value was never seen during training.
func (b *Bundle) VocabularyIndex(field, value string) int {
	for i, class := range b.Vocabularies[field] {
		if class == value {
			return i
		}
	}
	return -1
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
