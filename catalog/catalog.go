// Package catalog provides read-only access to the hackathon event catalog.
// The catalog of record is an organizer-maintained Google Sheet; this service
// never writes to it.
package catalog

import (
	"context"

	"scanner-backend/models"
)

// Catalog is the external event source consumed by the attendance ledger and
// the events endpoint.
type Catalog interface {
	// Events returns every event in the catalog.
	Events(ctx context.Context) ([]models.HackerEvent, error)

	// EventValue returns the net-worth contribution of a single event.
	// Returns models.ErrUnknownEvent when the catalog has no such row.
	EventValue(ctx context.Context, eventID int64) (float64, error)
}
