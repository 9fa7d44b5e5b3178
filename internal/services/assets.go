package services

import (
	"context"
	"fmt"
	"time"

	"elecnet/internal/models"

	"github.com/uptrace/bun"
)

// AssetService handles downstream assets: switches, fuses, meters,
// customers and service points.
type AssetService struct {
	db *bun.DB
}

func NewAssetService(db *bun.DB) *AssetService {
	return &AssetService{db: db}
}

func (s *AssetService) CreateSwitch(ctx context.Context, swt *models.Switch) error {
	now := time.Now()
	swt.CreatedAt = &now
	if swt.OperationalStatus == "" {
		swt.OperationalStatus = "Closed"
	}

	_, err := s.db.NewInsert().
		Model(swt).
		Value("geom", "ST_GeomFromGeoJSON(?)", string(swt.Geom)).
		Returning("switch_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create switch: %w", err)
	}
	return nil
}

func (s *AssetService) ListSwitches(ctx context.Context, conductorIDs []int) ([]models.Switch, error) {
	var switches []models.Switch
	q := geoJSONColumns(s.db.NewSelect().Model(&switches))
	if len(conductorIDs) > 0 {
		q = q.Where("conductor_id IN (?)", bun.In(conductorIDs))
	}
	if err := q.Order("switch_id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query switches: %w", err)
	}
	return switches, nil
}

func (s *AssetService) CreateFuse(ctx context.Context, fus *models.Fuse) error {
	now := time.Now()
	fus.CreatedAt = &now
	if fus.OperationalStatus == "" {
		fus.OperationalStatus = "Operational"
	}

	_, err := s.db.NewInsert().
		Model(fus).
		Value("geom", "ST_GeomFromGeoJSON(?)", string(fus.Geom)).
		Returning("fuse_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create fuse: %w", err)
	}
	return nil
}

func (s *AssetService) ListFuses(ctx context.Context, conductorIDs []int) ([]models.Fuse, error) {
	var fuses []models.Fuse
	q := geoJSONColumns(s.db.NewSelect().Model(&fuses))
	if len(conductorIDs) > 0 {
		q = q.Where("conductor_id IN (?)", bun.In(conductorIDs))
	}
	if err := q.Order("fuse_id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query fuses: %w", err)
	}
	return fuses, nil
}

func (s *AssetService) CreateMeter(ctx context.Context, mtr *models.Meter) error {
	now := time.Now()
	mtr.CreatedAt = &now

	_, err := s.db.NewInsert().
		Model(mtr).
		Value("geom", "ST_GeomFromGeoJSON(?)", string(mtr.Geom)).
		Returning("meter_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create meter: %w", err)
	}
	return nil
}

func (s *AssetService) ListMeters(ctx context.Context, poleIDs []int, meterNumbers []string) ([]models.Meter, error) {
	var meters []models.Meter
	q := geoJSONColumns(s.db.NewSelect().Model(&meters))
	if len(poleIDs) > 0 {
		q = q.Where("pole_id IN (?)", bun.In(poleIDs))
	}
	if len(meterNumbers) > 0 {
		q = q.Where("meter_number IN (?)", bun.In(meterNumbers))
	}
	if err := q.Order("meter_id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query meters: %w", err)
	}
	return meters, nil
}

func (s *AssetService) CreateCustomer(ctx context.Context, cst *models.Customer) error {
	now := time.Now()
	cst.CreatedAt = &now

	// customers carry no geometry of their own
	_, err := s.db.NewInsert().
		Model(cst).
		Returning("customer_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (s *AssetService) ListCustomers(ctx context.Context, meterIDs []int) ([]models.Customer, error) {
	var customers []models.Customer
	q := s.db.NewSelect().Model(&customers)
	if len(meterIDs) > 0 {
		q = q.Where("meter_id IN (?)", bun.In(meterIDs))
	}
	if err := q.Order("customer_id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	return customers, nil
}

func (s *AssetService) CreateServicePoint(ctx context.Context, spt *models.ServicePoint) error {
	now := time.Now()
	spt.CreatedAt = &now
	if spt.ServiceStatus == "" {
		spt.ServiceStatus = "Active"
	}

	_, err := s.db.NewInsert().
		Model(spt).
		Value("geom", "ST_GeomFromGeoJSON(?)", string(spt.Geom)).
		Returning("service_point_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create service point: %w", err)
	}
	return nil
}

func (s *AssetService) ListServicePoints(ctx context.Context, meterIDs []int, statuses []string) ([]models.ServicePoint, error) {
	var points []models.ServicePoint
	q := geoJSONColumns(s.db.NewSelect().Model(&points))
	if len(meterIDs) > 0 {
		q = q.Where("meter_id IN (?)", bun.In(meterIDs))
	}
	if len(statuses) > 0 {
		q = q.Where("service_status IN (?)", bun.In(statuses))
	}
	if err := q.Order("service_point_id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query service points: %w", err)
	}
	return points, nil
}
