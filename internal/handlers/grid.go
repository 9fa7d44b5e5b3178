package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"elecnet/internal/models"
	"elecnet/internal/services"
	"elecnet/internal/utils"

	"go.uber.org/zap"
)

// GridHandler handles HTTP requests for the network backbone entities.
type GridHandler struct {
	service *services.GridService
	logr    *zap.Logger
}

func NewGridHandler(svc *services.GridService, logr *zap.Logger) *GridHandler {
	return &GridHandler{service: svc, logr: logr}
}

// CreateSubstation handles POST /substations/
func (h *GridHandler) CreateSubstation(w http.ResponseWriter, r *http.Request) {
	var sub models.Substation
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
		return
	}
	if strings.TrimSpace(sub.SubstationName) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "substation_name is required"})
		return
	}
	if sub.VoltageLevelKV <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "voltage_level_kv is required"})
		return
	}
	if !validGeoJSON(sub.Geom) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "geom must be valid GeoJSON"})
		return
	}

	if err := h.service.CreateSubstation(r.Context(), &sub); err != nil {
		h.logr.Error("failed to create substation", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to create substation"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": sub})
}

// ListSubstations handles GET /substations/
func (h *GridHandler) ListSubstations(w http.ResponseWriter, r *http.Request) {
	statuses := utils.ParseQueryList(r.URL.Query(), "status")

	subs, err := h.service.ListSubstations(r.Context(), statuses)
	if err != nil {
		h.logr.Error("failed to fetch substations", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to retrieve substations"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": subs, "total": len(subs)})
}

// CreateFeeder handles POST /feeders/
func (h *GridHandler) CreateFeeder(w http.ResponseWriter, r *http.Request) {
	var fdr models.Feeder
	if err := json.NewDecoder(r.Body).Decode(&fdr); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
		return
	}
	if strings.TrimSpace(fdr.FeederName) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "feeder_name is required"})
		return
	}
	if fdr.SubstationID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "substation_id is required"})
		return
	}
	if !validGeoJSON(fdr.Geom) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "geom must be valid GeoJSON"})
		return
	}

	if err := h.service.CreateFeeder(r.Context(), &fdr); err != nil {
		h.logr.Error("failed to create feeder", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to create feeder"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": fdr})
}

// ListFeeders handles GET /feeders/
func (h *GridHandler) ListFeeders(w http.ResponseWriter, r *http.Request) {
	substationIDs := utils.ParseIDList(r.URL.Query(), "substationId")

	feeders, err := h.service.ListFeeders(r.Context(), substationIDs)
	if err != nil {
		h.logr.Error("failed to fetch feeders", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to retrieve feeders"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": feeders, "total": len(feeders)})
}

// CreateTransformer handles POST /transformers/
func (h *GridHandler) CreateTransformer(w http.ResponseWriter, r *http.Request) {
	var trf models.Transformer
	if err := json.NewDecoder(r.Body).Decode(&trf); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
		return
	}
	if strings.TrimSpace(trf.TransformerName) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "transformer_name is required"})
		return
	}
	if trf.FeederID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "feeder_id is required"})
		return
	}
	if trf.CapacityKVA <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "capacity_kva is required"})
		return
	}
	if !validGeoJSON(trf.Geom) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "geom must be valid GeoJSON"})
		return
	}

	if err := h.service.CreateTransformer(r.Context(), &trf); err != nil {
		h.logr.Error("failed to create transformer", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to create transformer"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": trf})
}

// ListTransformers handles GET /transformers/
func (h *GridHandler) ListTransformers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	feederIDs := utils.ParseIDList(q, "feederId")
	statuses := utils.ParseQueryList(q, "status")

	trfs, err := h.service.ListTransformers(r.Context(), feederIDs, statuses)
	if err != nil {
		h.logr.Error("failed to fetch transformers", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to retrieve transformers"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": trfs, "total": len(trfs)})
}

// CreatePole handles POST /poles/
func (h *GridHandler) CreatePole(w http.ResponseWriter, r *http.Request) {
	var pol models.Pole
	if err := json.NewDecoder(r.Body).Decode(&pol); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
		return
	}
	if !validGeoJSON(pol.Geom) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "geom must be valid GeoJSON"})
		return
	}

	if err := h.service.CreatePole(r.Context(), &pol); err != nil {
		h.logr.Error("failed to create pole", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to create pole"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": pol})
}

// ListPoles handles GET /poles/
func (h *GridHandler) ListPoles(w http.ResponseWriter, r *http.Request) {
	transformerIDs := utils.ParseIDList(r.URL.Query(), "transformerId")

	poles, err := h.service.ListPoles(r.Context(), transformerIDs)
	if err != nil {
		h.logr.Error("failed to fetch poles", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to retrieve poles"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": poles, "total": len(poles)})
}

// CreateConductor handles POST /conductors/
func (h *GridHandler) CreateConductor(w http.ResponseWriter, r *http.Request) {
	var cnd models.Conductor
	if err := json.NewDecoder(r.Body).Decode(&cnd); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
		return
	}
	if !validGeoJSON(cnd.Geom) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "geom must be valid GeoJSON"})
		return
	}

	if err := h.service.CreateConductor(r.Context(), &cnd); err != nil {
		h.logr.Error("failed to create conductor", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to create conductor"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": cnd})
}

// ListConductors handles GET /conductors/
func (h *GridHandler) ListConductors(w http.ResponseWriter, r *http.Request) {
	poleIDs := utils.ParseIDList(r.URL.Query(), "poleId")

	cnds, err := h.service.ListConductors(r.Context(), poleIDs)
	if err != nil {
		h.logr.Error("failed to fetch conductors", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to retrieve conductors"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": cnds, "total": len(cnds)})
}
