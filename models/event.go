package models

import "time"

// HackerEvent is one row of the external event catalog. The catalog is
// read-only from this service's perspective; rows are owned by the organizers'
// spreadsheet.
type HackerEvent struct {
	ID            int64     `json:"id"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Name          string    `json:"name"`
	EventType     string    `json:"eventType"`
	Location      string    `json:"location"`
	Details       string    `json:"details"`
	NeedsScanning bool      `json:"needsScanning"`
	Value         float64   `json:"value"`
}
