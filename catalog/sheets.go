package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"scanner-backend/config"
	"scanner-backend/models"
)

// SheetsCatalog reads the event catalog from a Google Sheet. Columns A-I are
// id, start, end, name, type, location, details, needsScanning, value.
type SheetsCatalog struct {
	svc       *sheets.Service
	sheetID   string
	readRange string
}

// NewSheetsCatalog builds a read-only Sheets client from service-account
// credentials in the config.
func NewSheetsCatalog(ctx context.Context, cfg config.Config) (*SheetsCatalog, error) {
	creds, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   cfg.GoogleProjectID,
		"client_email": cfg.GoogleClientEmail,
		"private_key":  cfg.GooglePrivateKey,
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal sheets credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsCatalog{
		svc:       svc,
		sheetID:   cfg.SheetID,
		readRange: cfg.SheetRange,
	}, nil
}

// Events fetches and parses every catalog row.
func (c *SheetsCatalog) Events(ctx context.Context) ([]models.HackerEvent, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.sheetID, c.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch sheet values: %w", err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}

	events := make([]models.HackerEvent, 0, len(resp.Values))
	for _, row := range resp.Values {
		ev, ok := parseRow(row)
		if !ok {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// EventValue looks up one event's value by id.
func (c *SheetsCatalog) EventValue(ctx context.Context, eventID int64) (float64, error) {
	events, err := c.Events(ctx)
	if err != nil {
		return 0, err
	}
	for _, ev := range events {
		if ev.ID == eventID {
			return ev.Value, nil
		}
	}
	return 0, models.ErrUnknownEvent
}

// parseRow converts one sheet row into an event. Rows without a numeric id
// are skipped (header leftovers, blank padding rows). Missing trailing cells
// default to zero values, matching how the sheet is actually filled in.
func parseRow(row []interface{}) (models.HackerEvent, bool) {
	id, err := strconv.ParseInt(cell(row, 0), 10, 64)
	if err != nil {
		return models.HackerEvent{}, false
	}

	value, _ := strconv.ParseFloat(cell(row, 8), 64)

	return models.HackerEvent{
		ID:            id,
		StartTime:     parseSheetTime(cell(row, 1)),
		EndTime:       parseSheetTime(cell(row, 2)),
		Name:          cell(row, 3),
		EventType:     cell(row, 4),
		Location:      cell(row, 5),
		Details:       cell(row, 6),
		NeedsScanning: cell(row, 7) == "TRUE",
		Value:         value,
	}, true
}

func cell(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	s, _ := row[i].(string)
	return s
}

var sheetTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

func parseSheetTime(s string) time.Time {
	for _, layout := range sheetTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
