package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// Backbone entities of the distribution network. Geometry travels as
// GeoJSON in the API; the services convert to and from PostGIS geometry
// with ST_GeomFromGeoJSON / ST_AsGeoJSON.

type Substation struct {
	bun.BaseModel `bun:"table:network.substations,alias:sub"`

	SubstationID   int             `bun:"substation_id,pk,autoincrement" json:"substation_id"`
	SubstationName string          `bun:"substation_name,notnull" json:"substation_name"`
	VoltageLevelKV float64         `bun:"voltage_level_kv,notnull" json:"voltage_level_kv"`
	Status         string          `bun:"status,default:'Active'" json:"status"`
	Geom           json.RawMessage `bun:"geom" json:"geom"`
	CreatedAt      *time.Time      `bun:"created_at" json:"created_at,omitempty"`
}

type Feeder struct {
	bun.BaseModel `bun:"table:network.feeders,alias:fdr"`

	FeederID       int             `bun:"feeder_id,pk,autoincrement" json:"feeder_id"`
	FeederName     string          `bun:"feeder_name,notnull" json:"feeder_name"`
	SubstationID   int             `bun:"substation_id,notnull" json:"substation_id"`
	VoltageLevelKV *float64        `bun:"voltage_level_kv" json:"voltage_level_kv,omitempty"`
	Geom           json.RawMessage `bun:"geom" json:"geom"`
	CreatedAt      *time.Time      `bun:"created_at" json:"created_at,omitempty"`
}

type Transformer struct {
	bun.BaseModel `bun:"table:network.transformers,alias:trf"`

	TransformerID   int             `bun:"transformer_id,pk,autoincrement" json:"transformer_id"`
	TransformerName string          `bun:"transformer_name,notnull" json:"transformer_name"`
	FeederID        int             `bun:"feeder_id,notnull" json:"feeder_id"`
	CapacityKVA     float64         `bun:"capacity_kva,notnull" json:"capacity_kva"`
	Status          string          `bun:"status,default:'Active'" json:"status"`
	Geom            json.RawMessage `bun:"geom" json:"geom"`
	CreatedAt       *time.Time      `bun:"created_at" json:"created_at,omitempty"`
}

type Pole struct {
	bun.BaseModel `bun:"table:network.poles,alias:pol"`

	PoleID           int             `bun:"pole_id,pk,autoincrement" json:"pole_id"`
	TransformerID    *int            `bun:"transformer_id" json:"transformer_id,omitempty"`
	MaterialType     *string         `bun:"material_type" json:"material_type,omitempty"`
	HeightMeters     *float64        `bun:"height_meters" json:"height_meters,omitempty"`
	InstallationYear *int            `bun:"installation_year" json:"installation_year,omitempty"`
	Geom             json.RawMessage `bun:"geom" json:"geom"`
	CreatedAt        *time.Time      `bun:"created_at" json:"created_at,omitempty"`
}

type Conductor struct {
	bun.BaseModel `bun:"table:network.conductors,alias:cnd"`

	ConductorID     int             `bun:"conductor_id,pk,autoincrement" json:"conductor_id"`
	StartPoleID     *int            `bun:"start_pole_id" json:"start_pole_id,omitempty"`
	EndPoleID       *int            `bun:"end_pole_id" json:"end_pole_id,omitempty"`
	ConductorType   *string         `bun:"conductor_type" json:"conductor_type,omitempty"`
	VoltageRatingKV *float64        `bun:"voltage_rating_kv" json:"voltage_rating_kv,omitempty"`
	Geom            json.RawMessage `bun:"geom" json:"geom"`
	CreatedAt       *time.Time      `bun:"created_at" json:"created_at,omitempty"`
}
