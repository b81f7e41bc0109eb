package models

// PredictionResponse is the outbound contract for a successful prediction.
type PredictionResponse struct {
	Prediction         int     `json:"prediction"`
	ChurnProbability   float64 `json:"churn_probability"`
	NoChurnProbability float64 `json:"no_churn_probability"`
	PredictionText     string  `json:"prediction_text"`
	Confidence         float64 `json:"confidence"`
	RiskBucket         string  `json:"risk_bucket"`
	ModelVersion       string  `json:"model_version"`
	Timestamp          string  `json:"timestamp"`
	Status             string  `json:"status"`
}

// HealthResponse reports process liveness and artifact state.
type HealthResponse struct {
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
	ModelLoaded  bool   `json:"model_loaded"`
	Generation   uint64 `json:"generation,omitempty"`
	ModelVersion string `json:"model_version,omitempty"`
}

// ModelInfoResponse exposes the active artifact's feature schema and
// version. A thin read over the loader's state, no business logic.
type ModelInfoResponse struct {
	ModelType          string   `json:"model_type"`
	ModelVersion       string   `json:"model_version"`
	Generation         uint64   `json:"generation"`
	SelectedFeatures   []string `json:"selected_features"`
	FeatureCount       int      `json:"feature_count"`
	CategoricalColumns []string `json:"categorical_columns"`
	UnknownPolicy      string   `json:"unknown_policy"`
	Status             string   `json:"status"`
}

// ReloadResponse reports the outcome of an explicit artifact reload.
type ReloadResponse struct {
	Status       string `json:"status"`
	Generation   uint64 `json:"generation"`
	ModelVersion string `json:"model_version"`
	Timestamp    string `json:"timestamp"`
}
