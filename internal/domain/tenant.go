package domain

import "time"

// Tenant is an isolated institution whose financial data lives in its own
// PostgreSQL schema.
type Tenant struct {
	ID         string
	SchemaName string
	Name       string
	IsActive   bool
	CreatedAt  time.Time
}
