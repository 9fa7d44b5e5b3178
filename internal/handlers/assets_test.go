package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"elecnet/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAssetRouter(t *testing.T) (chi.Router, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newTestDB(t)
	h := NewAssetHandler(services.NewAssetService(db), zap.NewNop())

	r := chi.NewRouter()
	r.Post("/api/meters/", h.CreateMeter)
	r.Get("/api/meters/", h.ListMeters)
	r.Post("/api/customers/", h.CreateCustomer)
	r.Get("/api/service-points/", h.ListServicePoints)
	return r, mock
}

func TestCreateMeter(t *testing.T) {
	r, mock := newAssetRouter(t)

	mock.ExpectQuery(`INSERT INTO (.+)meters`).
		WillReturnRows(sqlmock.NewRows([]string{"meter_id"}).AddRow(42))

	body := `{"meter_number":"M-001","pole_id":3,"geom":` + pointGeoJSON + `}`
	req := httptest.NewRequest(http.MethodPost, "/api/meters/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data struct {
			MeterID int `json:"meter_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 42, resp.Data.MeterID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMeterValidation(t *testing.T) {
	r, _ := newAssetRouter(t)

	// meter_number is required
	body := `{"pole_id":3,"geom":` + pointGeoJSON + `}`
	req := httptest.NewRequest(http.MethodPost, "/api/meters/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "meter_number")
}

func TestListMetersFilters(t *testing.T) {
	r, mock := newAssetRouter(t)

	rows := sqlmock.NewRows([]string{"meter_id", "meter_number", "pole_id", "created_at", "geom"}).
		AddRow(1, "M-001", 3, testTime(), pointGeoJSON).
		AddRow(2, "M-002", 3, testTime(), pointGeoJSON)
	mock.ExpectQuery(`SELECT (.+) FROM (.+)meters`).WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/api/meters/?poleId=3&meterNumber=M-001,M-002", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCustomer(t *testing.T) {
	r, mock := newAssetRouter(t)

	mock.ExpectQuery(`INSERT INTO (.+)customers`).
		WillReturnRows(sqlmock.NewRows([]string{"customer_id"}).AddRow(9))

	body := `{"customer_name":"Ama Mensah","address":"12 Ring Rd","meter_id":42}`
	req := httptest.NewRequest(http.MethodPost, "/api/customers/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCustomerRequiresName(t *testing.T) {
	r, _ := newAssetRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/customers/", strings.NewReader(`{"address":"x"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListServicePoints(t *testing.T) {
	r, mock := newAssetRouter(t)

	rows := sqlmock.NewRows([]string{"service_point_id", "meter_id", "service_status", "created_at", "geom"}).
		AddRow(1, 42, "Active", testTime(), pointGeoJSON)
	mock.ExpectQuery(`SELECT (.+) FROM (.+)service_points`).WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/api/service-points/?status=Active", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []struct {
			ServiceStatus string `json:"service_status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Active", resp.Data[0].ServiceStatus)
}
