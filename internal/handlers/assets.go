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

// AssetHandler handles HTTP requests for downstream assets.
type AssetHandler struct {
	service *services.AssetService
	logr    *zap.Logger
}

func NewAssetHandler(svc *services.AssetService, logr *zap.Logger) *AssetHandler {
	return &AssetHandler{service: svc, logr: logr}
}

// CreateSwitch handles POST /switches/
func (h *AssetHandler) CreateSwitch(w http.ResponseWriter, r *http.Request) {
	var swt models.Switch
	if err := json.NewDecoder(r.Body).Decode(&swt); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
		return
	}
	if !validGeoJSON(swt.Geom) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "geom must be valid GeoJSON"})
		return
	}

	if err := h.service.CreateSwitch(r.Context(), &swt); err != nil {
		h.logr.Error("failed to create switch", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to create switch"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": swt})
}

// ListSwitches handles GET /switches/
func (h *AssetHandler) ListSwitches(w http.ResponseWriter, r *http.Request) {
	conductorIDs := utils.ParseIDList(r.URL.Query(), "conductorId")

	switches, err := h.service.ListSwitches(r.Context(), conductorIDs)
	if err != nil {
		h.logr.Error("failed to fetch switches", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to retrieve switches"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": switches, "total": len(switches)})
}

// CreateFuse handles POST /fuses/
func (h *AssetHandler) CreateFuse(w http.ResponseWriter, r *http.Request) {
	var fus models.Fuse
	if err := json.NewDecoder(r.Body).Decode(&fus); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
		return
	}
	if !validGeoJSON(fus.Geom) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "geom must be valid GeoJSON"})
		return
	}

	if err := h.service.CreateFuse(r.Context(), &fus); err != nil {
		h.logr.Error("failed to create fuse", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to create fuse"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": fus})
}

// ListFuses handles GET /fuses/
func (h *AssetHandler) ListFuses(w http.ResponseWriter, r *http.Request) {
	conductorIDs := utils.ParseIDList(r.URL.Query(), "conductorId")

	fuses, err := h.service.ListFuses(r.Context(), conductorIDs)
	if err != nil {
		h.logr.Error("failed to fetch fuses", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to retrieve fuses"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": fuses, "total": len(fuses)})
}

// CreateMeter handles POST /meters/
func (h *AssetHandler) CreateMeter(w http.ResponseWriter, r *http.Request) {
	var mtr models.Meter
	if err := json.NewDecoder(r.Body).Decode(&mtr); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
		return
	}
	if strings.TrimSpace(mtr.MeterNumber) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "meter_number is required"})
		return
	}
	if !validGeoJSON(mtr.Geom) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "geom must be valid GeoJSON"})
		return
	}

	if err := h.service.CreateMeter(r.Context(), &mtr); err != nil {
		h.logr.Error("failed to create meter", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to create meter"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": mtr})
}

// ListMeters handles GET /meters/
func (h *AssetHandler) ListMeters(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	poleIDs := utils.ParseIDList(q, "poleId")
	meterNumbers := utils.ParseQueryList(q, "meterNumber")

	meters, err := h.service.ListMeters(r.Context(), poleIDs, meterNumbers)
	if err != nil {
		h.logr.Error("failed to fetch meters", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to retrieve meters"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": meters, "total": len(meters)})
}

// CreateCustomer handles POST /customers/
func (h *AssetHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var cst models.Customer
	if err := json.NewDecoder(r.Body).Decode(&cst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
		return
	}
	if strings.TrimSpace(cst.CustomerName) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "customer_name is required"})
		return
	}

	if err := h.service.CreateCustomer(r.Context(), &cst); err != nil {
		h.logr.Error("failed to create customer", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to create customer"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": cst})
}

// ListCustomers handles GET /customers/
func (h *AssetHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	meterIDs := utils.ParseIDList(r.URL.Query(), "meterId")

	customers, err := h.service.ListCustomers(r.Context(), meterIDs)
	if err != nil {
		h.logr.Error("failed to fetch customers", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to retrieve customers"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": customers, "total": len(customers)})
}

// CreateServicePoint handles POST /service-points/
func (h *AssetHandler) CreateServicePoint(w http.ResponseWriter, r *http.Request) {
	var spt models.ServicePoint
	if err := json.NewDecoder(r.Body).Decode(&spt); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
		return
	}
	if !validGeoJSON(spt.Geom) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "geom must be valid GeoJSON"})
		return
	}

	if err := h.service.CreateServicePoint(r.Context(), &spt); err != nil {
		h.logr.Error("failed to create service point", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to create service point"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": spt})
}

// ListServicePoints handles GET /service-points/
func (h *AssetHandler) ListServicePoints(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	meterIDs := utils.ParseIDList(q, "meterId")
	statuses := utils.ParseQueryList(q, "status")

	points, err := h.service.ListServicePoints(r.Context(), meterIDs, statuses)
	if err != nil {
		h.logr.Error("failed to fetch service points", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to retrieve service points"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": points, "total": len(points)})
}
