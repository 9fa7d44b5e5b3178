package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// Downstream assets hanging off conductors, poles and meters.

type Switch struct {
	bun.BaseModel `bun:"table:network.switches,alias:swt"`

	SwitchID          int             `bun:"switch_id,pk,autoincrement" json:"switch_id"`
	ConductorID       *int            `bun:"conductor_id" json:"conductor_id,omitempty"`
	SwitchType        *string         `bun:"switch_type" json:"switch_type,omitempty"`
	OperationalStatus string          `bun:"operational_status,default:'Closed'" json:"operational_status"`
	Geom              json.RawMessage `bun:"geom" json:"geom"`
	CreatedAt         *time.Time      `bun:"created_at" json:"created_at,omitempty"`
}

type Fuse struct {
	bun.BaseModel `bun:"table:network.fuses,alias:fus"`

	FuseID            int             `bun:"fuse_id,pk,autoincrement" json:"fuse_id"`
	ConductorID       *int            `bun:"conductor_id" json:"conductor_id,omitempty"`
	FuseRatingAmps    *int            `bun:"fuse_rating_amps" json:"fuse_rating_amps,omitempty"`
	OperationalStatus string          `bun:"operational_status,default:'Operational'" json:"operational_status"`
	Geom              json.RawMessage `bun:"geom" json:"geom"`
	CreatedAt         *time.Time      `bun:"created_at" json:"created_at,omitempty"`
}

type Meter struct {
	bun.BaseModel `bun:"table:network.meters,alias:mtr"`

	MeterID          int             `bun:"meter_id,pk,autoincrement" json:"meter_id"`
	PoleID           *int            `bun:"pole_id" json:"pole_id,omitempty"`
	MeterNumber      string          `bun:"meter_number,notnull,unique" json:"meter_number"`
	InstallationDate *time.Time      `bun:"installation_date" json:"installation_date,omitempty"`
	Geom             json.RawMessage `bun:"geom" json:"geom"`
	CreatedAt        *time.Time      `bun:"created_at" json:"created_at,omitempty"`
}

// Customer is the one entity without a geometry of its own; it is
// located through its meter.
type Customer struct {
	bun.BaseModel `bun:"table:network.customers,alias:cst"`

	CustomerID    int        `bun:"customer_id,pk,autoincrement" json:"customer_id"`
	CustomerName  string     `bun:"customer_name,notnull" json:"customer_name"`
	Address       *string    `bun:"address" json:"address,omitempty"`
	ContactNumber *string    `bun:"contact_number" json:"contact_number,omitempty"`
	MeterID       *int       `bun:"meter_id" json:"meter_id,omitempty"`
	CreatedAt     *time.Time `bun:"created_at" json:"created_at,omitempty"`
}

type ServicePoint struct {
	bun.BaseModel `bun:"table:network.service_points,alias:spt"`

	ServicePointID int             `bun:"service_point_id,pk,autoincrement" json:"service_point_id"`
	MeterID        *int            `bun:"meter_id" json:"meter_id,omitempty"`
	ServiceStatus  string          `bun:"service_status,default:'Active'" json:"service_status"`
	Geom           json.RawMessage `bun:"geom" json:"geom"`
	CreatedAt      *time.Time      `bun:"created_at" json:"created_at,omitempty"`
}
