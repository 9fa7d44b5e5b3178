package models

import (
	"time"

	"github.com/uptrace/bun"
)

// RegisteredEndpoint is a durable record of a dynamic query endpoint.
// The name doubles as the registry key and the final path segment; the
// bound SQL template never changes after registration.
type RegisteredEndpoint struct {
	bun.BaseModel `bun:"table:network.registered_endpoints,alias:rep"`

	Name        string    `bun:"name,pk" json:"name"`
	SQLTemplate string    `bun:"sql_template,notnull" json:"sql"`
	Path        string    `bun:"path,notnull" json:"path"`
	CreatedAt   time.Time `bun:"created_at,notnull,nullzero,default:current_timestamp" json:"created_at"`
}
