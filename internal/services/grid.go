package services

import (
	"context"
	"fmt"
	"time"

	"elecnet/internal/models"

	"github.com/uptrace/bun"
)

// GridService handles the network backbone: substations, feeders,
// transformers, poles and conductors.
type GridService struct {
	db *bun.DB
}

func NewGridService(db *bun.DB) *GridService {
	return &GridService{db: db}
}

// geoJSONColumns selects all model columns with geom rendered as GeoJSON.
func geoJSONColumns(q *bun.SelectQuery) *bun.SelectQuery {
	return q.
		ExcludeColumn("geom").
		ColumnExpr("ST_AsGeoJSON(geom) AS geom")
}

func (s *GridService) CreateSubstation(ctx context.Context, sub *models.Substation) error {
	now := time.Now()
	sub.CreatedAt = &now
	if sub.Status == "" {
		sub.Status = "Active"
	}

	_, err := s.db.NewInsert().
		Model(sub).
		Value("geom", "ST_GeomFromGeoJSON(?)", string(sub.Geom)).
		Returning("substation_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create substation: %w", err)
	}
	return nil
}

func (s *GridService) ListSubstations(ctx context.Context, statuses []string) ([]models.Substation, error) {
	var subs []models.Substation
	q := geoJSONColumns(s.db.NewSelect().Model(&subs))
	if len(statuses) > 0 {
		q = q.Where("status IN (?)", bun.In(statuses))
	}
	if err := q.Order("substation_id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query substations: %w", err)
	}
	return subs, nil
}

func (s *GridService) CreateFeeder(ctx context.Context, fdr *models.Feeder) error {
	now := time.Now()
	fdr.CreatedAt = &now

	_, err := s.db.NewInsert().
		Model(fdr).
		Value("geom", "ST_GeomFromGeoJSON(?)", string(fdr.Geom)).
		Returning("feeder_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create feeder: %w", err)
	}
	return nil
}

func (s *GridService) ListFeeders(ctx context.Context, substationIDs []int) ([]models.Feeder, error) {
	var feeders []models.Feeder
	q := geoJSONColumns(s.db.NewSelect().Model(&feeders))
	if len(substationIDs) > 0 {
		q = q.Where("substation_id IN (?)", bun.In(substationIDs))
	}
	if err := q.Order("feeder_id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query feeders: %w", err)
	}
	return feeders, nil
}

func (s *GridService) CreateTransformer(ctx context.Context, trf *models.Transformer) error {
	now := time.Now()
	trf.CreatedAt = &now
	if trf.Status == "" {
		trf.Status = "Active"
	}

	_, err := s.db.NewInsert().
		Model(trf).
		Value("geom", "ST_GeomFromGeoJSON(?)", string(trf.Geom)).
		Returning("transformer_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create transformer: %w", err)
	}
	return nil
}

func (s *GridService) ListTransformers(ctx context.Context, feederIDs []int, statuses []string) ([]models.Transformer, error) {
	var trfs []models.Transformer
	q := geoJSONColumns(s.db.NewSelect().Model(&trfs))
	if len(feederIDs) > 0 {
		q = q.Where("feeder_id IN (?)", bun.In(feederIDs))
	}
	if len(statuses) > 0 {
		q = q.Where("status IN (?)", bun.In(statuses))
	}
	if err := q.Order("transformer_id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query transformers: %w", err)
	}
	return trfs, nil
}

func (s *GridService) CreatePole(ctx context.Context, pol *models.Pole) error {
	now := time.Now()
	pol.CreatedAt = &now

	_, err := s.db.NewInsert().
		Model(pol).
		Value("geom", "ST_GeomFromGeoJSON(?)", string(pol.Geom)).
		Returning("pole_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create pole: %w", err)
	}
	return nil
}

func (s *GridService) ListPoles(ctx context.Context, transformerIDs []int) ([]models.Pole, error) {
	var poles []models.Pole
	q := geoJSONColumns(s.db.NewSelect().Model(&poles))
	if len(transformerIDs) > 0 {
		q = q.Where("transformer_id IN (?)", bun.In(transformerIDs))
	}
	if err := q.Order("pole_id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query poles: %w", err)
	}
	return poles, nil
}

func (s *GridService) CreateConductor(ctx context.Context, cnd *models.Conductor) error {
	now := time.Now()
	cnd.CreatedAt = &now

	_, err := s.db.NewInsert().
		Model(cnd).
		Value("geom", "ST_GeomFromGeoJSON(?)", string(cnd.Geom)).
		Returning("conductor_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create conductor: %w", err)
	}
	return nil
}

func (s *GridService) ListConductors(ctx context.Context, poleIDs []int) ([]models.Conductor, error) {
	var cnds []models.Conductor
	q := geoJSONColumns(s.db.NewSelect().Model(&cnds))
	if len(poleIDs) > 0 {
		q = q.Where("start_pole_id IN (?) OR end_pole_id IN (?)", bun.In(poleIDs), bun.In(poleIDs))
	}
	if err := q.Order("conductor_id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query conductors: %w", err)
	}
	return cnds, nil
}
