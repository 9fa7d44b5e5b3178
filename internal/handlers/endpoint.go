package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"elecnet/internal/middleware"
	"elecnet/internal/registry"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EndpointHandler exposes the dynamic endpoint registry over HTTP.
type EndpointHandler struct {
	registry *registry.Registry
	metrics  *middleware.Metrics
	logr     *zap.Logger
}

func NewEndpointHandler(reg *registry.Registry, metrics *middleware.Metrics, logr *zap.Logger) *EndpointHandler {
	return &EndpointHandler{registry: reg, metrics: metrics, logr: logr}
}

// CreateEndpointRequest is the registration body
type CreateEndpointRequest struct {
	Name string `json:"name"`
	SQL  string `json:"sql"`
}

// CreateEndpoint handles POST {prefix}/create-endpoint/
func (h *EndpointHandler) CreateEndpoint(w http.ResponseWriter, r *http.Request) {
	var req CreateEndpointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logr.Error("failed to decode request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "invalid request body",
		})
		return
	}

	path, err := h.registry.Register(r.Context(), req.Name, req.SQL)
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrEndpointExists):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"error":   "endpoint already exists",
			})
		case errors.Is(err, registry.ErrEmptyName),
			errors.Is(err, registry.ErrInvalidName),
			errors.Is(err, registry.ErrNotReadOnly):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"error":   err.Error(),
			})
		default:
			h.logr.Error("failed to register endpoint",
				zap.String("name", req.Name),
				zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"success": false,
				"error":   "failed to register endpoint",
			})
		}
		return
	}

	h.metrics.EndpointsRegistered.Set(float64(h.registry.Len()))
	h.logr.Info("dynamic endpoint registered",
		zap.String("name", req.Name),
		zap.String("path", path))

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Dynamic GET endpoint created at " + path,
		"path":    path,
	})
}

// RunEndpoint handles GET {prefix}/custom/{name}. Every query
// parameter is offered to the template as a named binding; the result
// is a plain JSON array of row objects in database order.
func (h *EndpointHandler) RunEndpoint(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	params := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	rows, err := h.registry.Execute(r.Context(), name, params)
	if err != nil {
		if errors.Is(err, registry.ErrEndpointNotFound) {
			h.metrics.DynamicQueriesTotal.WithLabelValues(name, "not_found").Inc()
			writeJSON(w, http.StatusNotFound, map[string]any{
				"success": false,
				"error":   "endpoint not found",
			})
			return
		}
		h.metrics.DynamicQueriesTotal.WithLabelValues(name, "error").Inc()
		h.logr.Error("dynamic endpoint execution failed",
			zap.String("name", name),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	h.metrics.DynamicQueriesTotal.WithLabelValues(name, "ok").Inc()
	writeJSON(w, http.StatusOK, rows)
}

// ListEndpoints handles GET {prefix}/endpoints
func (h *EndpointHandler) ListEndpoints(w http.ResponseWriter, r *http.Request) {
	endpoints, err := h.registry.List(r.Context())
	if err != nil {
		h.logr.Error("failed to list endpoints", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "failed to list endpoints",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    endpoints,
		"count":   len(endpoints),
	})
}
