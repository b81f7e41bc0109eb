package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	svcerrors "churn-predictor/internal/common/errors"
	"churn-predictor/internal/models"
)

// maxBodyBytes caps the accepted request body. Customer records are tiny;
// anything near this limit is abuse.
const maxBodyBytes = 1 << 20

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": s.cfg.App.Name,
		"version": s.cfg.App.Version,
		"status":  "running",
		"endpoints": []string{
			"GET /health",
			"POST /api/predict",
			"GET /api/model_info",
			"GET /api/sample_input",
			"POST /api/reload",
			"GET /metrics",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := &models.HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		ModelLoaded: false,
	}

	snap, ok := s.artifacts.Current()
	if ok {
		resp.ModelLoaded = true
		resp.Generation = snap.Generation
		resp.ModelVersion = snap.Bundle.ModelVersion
	} else {
		resp.Status = "degraded"
	}

	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, resp)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.respondError(w, r, svcerrors.NewValidationFailedError([]svcerrors.FieldViolation{
			{Field: "body", Reason: "request body could not be read"},
		}))
		return
	}

	var input map[string]interface{}
	if err := json.Unmarshal(body, &input); err != nil {
		s.respondError(w, r, svcerrors.NewValidationFailedError([]svcerrors.FieldViolation{
			{Field: "body", Reason: "request body is not a JSON object"},
		}))
		return
	}

	resp, err := s.service.Predict(r.Context(), input, now)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.ModelInfo()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSampleInput(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sample_input": models.SampleRecord(),
		"status":       "success",
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.Reload(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// errorEnvelope is the uniform error body. Fields is populated for
// validation and vocabulary failures so callers can self-correct.
type errorEnvelope struct {
	Error  string                     `json:"error"`
	Code   svcerrors.ErrorCode        `json:"code"`
	Status string                     `json:"status"`
	Fields []svcerrors.FieldViolation `json:"fields,omitempty"`
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	svcErr, ok := svcerrors.AsServiceError(err)
	if !ok {
		svcErr = svcerrors.NewInferenceFailedError(err.Error())
	}

	status := svcerrors.HTTPStatus(svcErr.Code)
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed", map[string]interface{}{
			"path":      r.URL.Path,
			"code":      svcErr.Code,
			"requestId": middleware.GetReqID(r.Context()),
		})
	}

	msg := svcErr.Message
	if svcErr.Details != "" && svcerrors.IsClientError(svcErr.Code) {
		msg = svcErr.Message + ": " + svcErr.Details
	}

	respondJSON(w, status, &errorEnvelope{
		Error:  msg,
		Code:   svcErr.Code,
		Status: "error",
		Fields: svcErr.Fields,
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
