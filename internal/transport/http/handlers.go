package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"shipgate/internal/compliance"
	"shipgate/internal/pipeline"
	"shipgate/pkg/domain"
)

// Pipeline is the processing facade the transport delegates to.
type Pipeline interface {
	ConvertToStandardFormat(ctx context.Context, input pipeline.RawInputData) compliance.FormattedData
	ValidateCompliance(ctx context.Context, fd compliance.FormattedData) []compliance.Result
	ProcessInputToCompliance(ctx context.Context, input pipeline.RawInputData) (compliance.FormattedData, []compliance.Result)
	RefreshRules(ctx context.Context) error
}

// HealthChecker reports dependency health for /healthz.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler is the thin HTTP layer. It delegates to the pipeline service and
// keeps transport concerns out of domain code.
type Handler struct {
	pipeline Pipeline
	health   []HealthChecker
	logger   *slog.Logger
}

func NewHandler(p Pipeline, logger *slog.Logger, health ...HealthChecker) *Handler {
	return &Handler{pipeline: p, health: health, logger: logger}
}

type processRequest struct {
	Source   string            `json:"source"`
	Text     string            `json:"text,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (pipeline.RawInputData, bool) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return pipeline.RawInputData{}, false
	}
	if req.Text == "" && len(req.Fields) == 0 {
		writeError(w, http.StatusBadRequest, "either text or fields must be provided")
		return pipeline.RawInputData{}, false
	}
	if req.Source == "" {
		if len(req.Fields) > 0 {
			req.Source = domain.SourceManual.String()
		} else {
			req.Source = domain.SourceVision.String()
		}
	}
	source, err := domain.ParseSource(req.Source)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return pipeline.RawInputData{}, false
	}
	return pipeline.RawInputData{
		Source:   source,
		Text:     req.Text,
		Fields:   req.Fields,
		Metadata: req.Metadata,
	}, true
}

// handleProcess runs the one-shot path: convert then validate.
func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	fd, results := h.pipeline.ProcessInputToCompliance(r.Context(), input)
	writeJSON(w, http.StatusOK, map[string]any{
		"data":    fd,
		"results": results,
	})
}

// handleConvert returns the formatted data without validating it.
func (h *Handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	fd := h.pipeline.ConvertToStandardFormat(r.Context(), input)
	writeJSON(w, http.StatusOK, fd)
}

// handleValidate validates already-formatted data.
func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var fd compliance.FormattedData
	if err := json.NewDecoder(r.Body).Decode(&fd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fd.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	results := h.pipeline.ValidateCompliance(r.Context(), fd)
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// handleRefreshRules re-pulls the rule catalog. On failure the previous
// catalog stays active, so the error is reported but service continues.
func (h *Handler) handleRefreshRules(w http.ResponseWriter, r *http.Request) {
	if err := h.pipeline.RefreshRules(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "rule refresh failed",
			"error", err,
			"request_id", GetRequestID(r.Context()),
		)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "failed",
			"error":  "rule refresh failed; previous rules remain active",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	for _, hc := range h.health {
		if hc == nil {
			continue
		}
		if err := hc.Health(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
