package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brightwave/imagegen/generator"
	"github.com/brightwave/imagegen/pipeline"
)

// maxBodyBytes bounds request bodies; prompts are text, so 1 MiB is plenty.
const maxBodyBytes = 1 << 20

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.svc.Generate(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type batchRequest struct {
	Requests []pipeline.Request `json:"requests"`
}

type batchItemResponse struct {
	Index  int              `json:"index"`
	Result *pipeline.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

func (s *Server) handleGenerateBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !s.decode(w, r, &req) {
		return
	}

	items, err := s.svc.GenerateBatch(r.Context(), req.Requests)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out := make([]batchItemResponse, len(items))
	for i, item := range items {
		out[i] = batchItemResponse{Index: item.Index, Result: item.Result}
		if item.Err != nil {
			out[i].Error = item.Err.Error()
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, into any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// writeServiceError maps pipeline failures onto status codes. Bad input is
// the caller's fault; upstream exhaustion without a cached fallback is a 503
// so clients know to retry later.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var noFallback *pipeline.NoFallbackAvailableError
	if errors.As(err, &noFallback) {
		s.log.Error("request failed with no fallback", err, nil)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"success":              false,
			"message":              noFallback.Error(),
			"generators_attempted": noFallback.GeneratorsAttempted,
		})
		return
	}

	var pe *generator.ProviderError
	if errors.As(err, &pe) && pe.Kind == generator.KindValidation {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if errors.Is(err, pipeline.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		writeError(w, http.StatusGatewayTimeout, "request timed out")
		return
	}

	s.log.Error("request failed", err, nil)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}
