// bundle-packer stamps a draft model bundle with identity metadata and
// verifies it passes the same decode and consistency checks the serving
// process applies. Run it as the last step of a training export.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"churn-predictor/internal/artifact"
)

func main() {
	var (
		in           = flag.String("in", "", "path to the draft bundle JSON")
		out          = flag.String("out", "", "path to write the stamped bundle")
		modelVersion = flag.String("model-version", "", "model version to stamp, e.g. v1.4.0")
	)
	flag.Parse()

	if *in == "" || *out == "" || *modelVersion == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := pack(*in, *out, *modelVersion); err != nil {
		fmt.Fprintf(os.Stderr, "bundle-packer: %v\n", err)
		os.Exit(1)
	}
}

func pack(in, out, modelVersion string) error {
	raw, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("read draft: %w", err)
	}

	// Stamp through a generic map so unknown draft fields survive untouched.
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("draft is not valid JSON: %w", err)
	}

	doc["schema_version"] = artifact.SupportedSchemaVersion
	doc["model_id"] = uuid.New().String()
	doc["model_version"] = modelVersion
	doc["trained_at"] = time.Now().UTC().Format(time.RFC3339)

	stamped, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal stamped bundle: %w", err)
	}

	// Reject here anything the server would reject at load time.
	bundle, err := artifact.Decode(stamped)
	if err != nil {
		return fmt.Errorf("stamped bundle failed verification: %w", err)
	}

	if err := os.WriteFile(out, stamped, 0o644); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}

	fmt.Printf("packed %s\n  model_id:      %s\n  model_version: %s\n  model_type:    %s\n  features:      %d\n",
		out, bundle.ModelID, bundle.ModelVersion, bundle.Model.Type, len(bundle.Features))
	return nil
}
