package artifact

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	svcerrors "churn-predictor/internal/common/errors"
)

// bundleSchema describes the self-describing bundle document. Raw payloads
// are checked against it before decoding so a malformed bundle fails fast
// instead of half-decoding into a zero-valued struct.
const bundleSchema = `{
  "type": "object",
  "required": ["schema_version", "model_version", "features", "vocabularies", "scaler", "model", "unknown_policy"],
  "properties": {
    "schema_version": {"type": "integer", "minimum": 1},
    "model_id": {"type": "string"},
    "model_version": {"type": "string", "minLength": 1},
    "trained_at": {"type": "string"},
    "features": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "source", "kind"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "source": {"type": "string", "minLength": 1},
          "kind": {"enum": ["categorical", "numeric", "tenure_days"]}
        }
      }
    },
    "vocabularies": {
      "type": "object",
      "additionalProperties": {"type": "array", "items": {"type": "string"}}
    },
    "scaler": {
      "type": "object",
      "required": ["mean", "scale"],
      "properties": {
        "mean": {"type": "array", "items": {"type": "number"}},
        "scale": {"type": "array", "items": {"type": "number"}}
      }
    },
    "model": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {"enum": ["logistic_regression", "random_forest"]}
      }
    },
    "unknown_policy": {"enum": ["reject", "bucket"]}
  }
}`

// SupportedSchemaVersion is the bundle layout this build understands.
const SupportedSchemaVersion = 1

// Decode validates a raw bundle document and unmarshals it. The returned
// bundle has passed both the structural schema check and the classifier /
// metadata compatibility checks.
func Decode(raw []byte) (*Bundle, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(bundleSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, svcerrors.NewArtifactLoadFailedError(fmt.Errorf("bundle is not valid JSON: %w", err))
	}
	if !result.Valid() {
		details := ""
		for _, desc := range result.Errors() {
			if details != "" {
				details += "; "
			}
			details += desc.String()
		}
		return nil, svcerrors.NewArtifactLoadFailedError(fmt.Errorf("bundle failed schema check: %s", details))
	}

	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, svcerrors.NewArtifactLoadFailedError(fmt.Errorf("decode bundle: %w", err))
	}

	if b.SchemaVersion != SupportedSchemaVersion {
		return nil, svcerrors.NewArtifactLoadFailedError(fmt.Errorf(
			"bundle schema version %d is not supported (want %d)", b.SchemaVersion, SupportedSchemaVersion))
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}

	return &b, nil
}
