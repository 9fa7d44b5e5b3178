package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// schemaDDL creates the network schema in dependency order. Cascade
// behaviour differs per edge: structural children (feeders, transformers,
// conductors, switches, fuses, service points) go down with their parent,
// while poles, meters and customers survive with a nulled reference.
var schemaDDL = []string{
	`CREATE SCHEMA IF NOT EXISTS network`,
	`CREATE EXTENSION IF NOT EXISTS postgis`,

	`CREATE TABLE IF NOT EXISTS network.substations (
		substation_id    SERIAL PRIMARY KEY,
		substation_name  VARCHAR(255) NOT NULL,
		voltage_level_kv NUMERIC NOT NULL,
		status           VARCHAR(50) DEFAULT 'Active',
		geom             geometry(Point, 4326) NOT NULL,
		created_at       TIMESTAMP DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS network.feeders (
		feeder_id        SERIAL PRIMARY KEY,
		feeder_name      VARCHAR(255) NOT NULL,
		substation_id    INTEGER NOT NULL REFERENCES network.substations (substation_id) ON DELETE CASCADE,
		voltage_level_kv NUMERIC,
		geom             geometry(LineString, 4326) NOT NULL,
		created_at       TIMESTAMP DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS network.transformers (
		transformer_id   SERIAL PRIMARY KEY,
		transformer_name VARCHAR(255) NOT NULL,
		feeder_id        INTEGER NOT NULL REFERENCES network.feeders (feeder_id) ON DELETE CASCADE,
		capacity_kva     NUMERIC NOT NULL,
		status           VARCHAR(50) DEFAULT 'Active',
		geom             geometry(Point, 4326) NOT NULL,
		created_at       TIMESTAMP DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS network.poles (
		pole_id           SERIAL PRIMARY KEY,
		transformer_id    INTEGER REFERENCES network.transformers (transformer_id) ON DELETE SET NULL,
		material_type     VARCHAR(100),
		height_meters     NUMERIC,
		installation_year INTEGER,
		geom              geometry(Point, 4326) NOT NULL,
		created_at        TIMESTAMP DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS network.conductors (
		conductor_id      SERIAL PRIMARY KEY,
		start_pole_id     INTEGER REFERENCES network.poles (pole_id) ON DELETE CASCADE,
		end_pole_id       INTEGER REFERENCES network.poles (pole_id) ON DELETE CASCADE,
		conductor_type    VARCHAR(100),
		voltage_rating_kv NUMERIC,
		geom              geometry(LineString, 4326) NOT NULL,
		created_at        TIMESTAMP DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS network.switches (
		switch_id          SERIAL PRIMARY KEY,
		conductor_id       INTEGER REFERENCES network.conductors (conductor_id) ON DELETE CASCADE,
		switch_type        VARCHAR(100),
		operational_status VARCHAR(50) DEFAULT 'Closed',
		geom               geometry(Point, 4326) NOT NULL,
		created_at         TIMESTAMP DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS network.fuses (
		fuse_id            SERIAL PRIMARY KEY,
		conductor_id       INTEGER REFERENCES network.conductors (conductor_id) ON DELETE CASCADE,
		fuse_rating_amps   INTEGER,
		operational_status VARCHAR(50) DEFAULT 'Operational',
		geom               geometry(Point, 4326) NOT NULL,
		created_at         TIMESTAMP DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS network.meters (
		meter_id          SERIAL PRIMARY KEY,
		pole_id           INTEGER REFERENCES network.poles (pole_id) ON DELETE SET NULL,
		meter_number      VARCHAR(255) UNIQUE NOT NULL,
		installation_date DATE,
		geom              geometry(Point, 4326) NOT NULL,
		created_at        TIMESTAMP DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS network.customers (
		customer_id    SERIAL PRIMARY KEY,
		customer_name  VARCHAR(255) NOT NULL,
		address        TEXT,
		contact_number VARCHAR(20),
		meter_id       INTEGER REFERENCES network.meters (meter_id) ON DELETE SET NULL,
		created_at     TIMESTAMP DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS network.service_points (
		service_point_id SERIAL PRIMARY KEY,
		meter_id         INTEGER REFERENCES network.meters (meter_id) ON DELETE CASCADE,
		service_status   VARCHAR(50) DEFAULT 'Active',
		geom             geometry(Point, 4326) NOT NULL,
		created_at       TIMESTAMP DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS network.registered_endpoints (
		name         VARCHAR(255) PRIMARY KEY,
		sql_template TEXT NOT NULL,
		path         TEXT NOT NULL,
		created_at   TIMESTAMP DEFAULT now()
	)`,
}

// CreateSchema bootstraps all network tables. Every statement is
// idempotent, so running it on an already-provisioned database is a no-op.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to bootstrap schema: %w", err)
		}
	}
	return nil
}
