package catalog

import (
	"context"

	"scanner-backend/models"
)

// MemoryCatalog serves a fixed slice of events. Used in tests and as the
// fallback when no sheet is configured (local development without
// credentials).
type MemoryCatalog struct {
	events []models.HackerEvent
}

// NewMemoryCatalog builds a catalog over the given events.
func NewMemoryCatalog(events []models.HackerEvent) *MemoryCatalog {
	return &MemoryCatalog{events: events}
}

func (c *MemoryCatalog) Events(ctx context.Context) ([]models.HackerEvent, error) {
	return c.events, nil
}

func (c *MemoryCatalog) EventValue(ctx context.Context, eventID int64) (float64, error) {
	for _, ev := range c.events {
		if ev.ID == eventID {
			return ev.Value, nil
		}
	}
	return 0, models.ErrUnknownEvent
}
