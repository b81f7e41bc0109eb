// Package predictor ties the serving pipeline together: validate the raw
// record, encode it against the active artifact, run inference and compose
// the response. One snapshot is resolved per request, so a concurrent
// reload never mixes generations inside a single prediction.
package predictor

import (
	"context"
	"errors"
	"time"

	"churn-predictor/internal/artifact"
	svcerrors "churn-predictor/internal/common/errors"
	"churn-predictor/internal/common/logger"
	"churn-predictor/internal/common/metrics"
	"churn-predictor/internal/encoding"
	"churn-predictor/internal/inference"
	"churn-predictor/internal/models"
	"churn-predictor/internal/response"
	"churn-predictor/internal/validation"
)

type Service struct {
	artifacts  *artifact.Manager
	pool       *Pool
	thresholds response.Thresholds
	log        logger.Logger
}

func NewService(m *artifact.Manager, pool *Pool, th response.Thresholds, log logger.Logger) *Service {
	return &Service{
		artifacts:  m,
		pool:       pool,
		thresholds: th,
		log:        log.WithFields(map[string]interface{}{"component": "predictor"}),
	}
}

// Predict runs the full pipeline for one raw customer record. now is the
// request receive time and anchors both tenure derivation and the response
// timestamp. Failures return a ServiceError and never a fabricated
// prediction.
func (s *Service) Predict(ctx context.Context, input map[string]interface{}, now time.Time) (*models.PredictionResponse, error) {
	start := time.Now()
	resp, err := s.predict(ctx, input, now)
	metrics.PredictionDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.PredictionsTotal.WithLabelValues("failure").Inc()
		if svcErr, ok := svcerrors.AsServiceError(err); ok {
			metrics.PredictionErrors.WithLabelValues(string(svcErr.Code)).Inc()
		}
		return nil, err
	}

	metrics.PredictionsTotal.WithLabelValues("success").Inc()
	return resp, nil
}

func (s *Service) predict(ctx context.Context, input map[string]interface{}, now time.Time) (*models.PredictionResponse, error) {
	snap, ok := s.artifacts.Current()
	if !ok {
		return nil, errNoArtifact()
	}

	record, violations := validation.ValidateRecord(input, now)
	if len(violations) > 0 {
		return nil, svcerrors.NewValidationFailedError(violations)
	}

	vec, err := encoding.Encode(record, snap.Bundle, now)
	if err != nil {
		return nil, err
	}

	var probs inference.Probabilities
	if err := s.pool.Do(ctx, func() error {
		var inferErr error
		probs, inferErr = inference.Predict(snap.Bundle, vec)
		return inferErr
	}); err != nil {
		if ctx.Err() != nil {
			return nil, svcerrors.NewInferenceFailedError("request cancelled while waiting for an inference slot")
		}
		return nil, err
	}

	resp := response.Compose(probs, s.thresholds, snap.Bundle.ModelVersion, now)

	s.log.Debug("prediction served", map[string]interface{}{
		"generation": snap.Generation,
		"prediction": resp.Prediction,
		"riskBucket": resp.RiskBucket,
	})

	return resp, nil
}

// ModelInfo describes the active artifact without exposing weights.
func (s *Service) ModelInfo() (*models.ModelInfoResponse, error) {
	snap, ok := s.artifacts.Current()
	if !ok {
		return nil, errNoArtifact()
	}

	b := snap.Bundle
	return &models.ModelInfoResponse{
		ModelType:          string(b.Model.Type),
		ModelVersion:       b.ModelVersion,
		Generation:         snap.Generation,
		SelectedFeatures:   b.FeatureNames(),
		FeatureCount:       len(b.Features),
		CategoricalColumns: b.CategoricalColumns(),
		UnknownPolicy:      string(b.UnknownPolicy),
		Status:             "success",
	}, nil
}

// Reload swaps in a freshly loaded artifact and reports the new generation.
func (s *Service) Reload(ctx context.Context) (*models.ReloadResponse, error) {
	snap, err := s.artifacts.Reload(ctx)
	if err != nil {
		return nil, err
	}
	return &models.ReloadResponse{
		Status:       "success",
		Generation:   snap.Generation,
		ModelVersion: snap.Bundle.ModelVersion,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func errNoArtifact() error {
	return svcerrors.NewArtifactLoadFailedError(errors.New("no artifact loaded"))
}

// Ready reports whether an artifact is loaded and serving.
func (s *Service) Ready() bool {
	_, ok := s.artifacts.Current()
	return ok
}
