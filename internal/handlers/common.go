package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/esoccer-insights/stats-api/internal/logic"
	"github.com/esoccer-insights/stats-api/internal/models"
)

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := make(map[string]bool, len(h.checks))
	allHealthy := true
	for name, check := range h.checks {
		err := check(ctx)
		checks[name] = err == nil
		if err != nil {
			allHealthy = false
			h.logger.Warnw("Readiness check failed", "dependency", name, "error", err)
		}
	}

	status := http.StatusOK
	if !allHealthy {
		status = http.StatusServiceUnavailable
	}

	body := map[string]interface{}{
		"ready":  allHealthy,
		"checks": checks,
	}
	if h.pool != nil {
		body["queueDepth"] = h.pool.QueueDepth()
	}
	if h.hub != nil {
		body["liveClients"] = h.hub.ClientCount()
	}
	h.jsonResponse(w, status, body)
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Debugw("Failed to write response", "error", err)
	}
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}

// serviceError maps analysis errors onto HTTP statuses
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, logic.ErrNoData):
		h.errorResponse(w, http.StatusNotFound, "No matches found")
	case errors.Is(err, logic.ErrSourceUnavailable):
		h.logger.Warnw("Match source failed", "path", r.URL.Path, "error", err)
		h.errorResponse(w, http.StatusBadGateway, "Match source unavailable")
	case errors.Is(err, r.Context().Err()):
		// client went away
		h.logger.Debugw("Request cancelled", "path", r.URL.Path)
	default:
		h.logger.Errorw("Analysis failed", "path", r.URL.Path, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}

// windowParam reads ?window=, falling back to the configured default
func (h *Handler) windowParam(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("window"))
	if raw == "" {
		return h.defaultWindow, nil
	}
	window, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("window must be an integer")
	}
	if err := h.validateStruct(models.WindowQuery{Window: window}); err != nil {
		return 0, err
	}
	return window, nil
}

// validateStruct runs the validator and flattens its errors into one message
func (h *Handler) validateStruct(s interface{}) error {
	err := h.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "nefield":
		return field + " must differ from " + strings.ToLower(fe.Param())
	default:
		return field + " is invalid"
	}
}
