package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/sheets/v4"
)

// ErrSheetNotFound is returned when the target registration tab does not
// exist. Creating it is the organizer's job; the attendee path surfaces this
// as an error instead of silently writing to the wrong period's roster.
var ErrSheetNotFound = errors.New("registration sheet not found")

const (
	configRange  = "Config!A:B"
	configAnchor = "Config!A1"
	configClear  = "Config!A:Z"
)

// SheetsClient wraps the master spreadsheet: the Config tab (key-value
// configuration) and the per-period registration tabs.
type SheetsClient struct {
	service       *sheets.Service
	spreadsheetID string
	logger        *slog.Logger
}

// NewSheetsClient creates a Sheets client authenticated with a service
// account key file.
func NewSheetsClient(ctx context.Context, logger *slog.Logger, credentialsFile, spreadsheetID string) (*SheetsClient, error) {
	opt, err := credentialOptions(ctx, credentialsFile, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, err
	}
	service, err := sheets.NewService(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &SheetsClient{service: service, spreadsheetID: spreadsheetID, logger: logger}, nil
}

// LoadConfig reads the Config tab wholesale into a string mapping.
func (c *SheetsClient) LoadConfig(ctx context.Context) (map[string]string, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, configRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read config sheet: %w", err)
	}
	kv := kvFromRows(resp.Values)
	c.logger.Debug("Loaded config sheet", "keys", len(kv))
	return kv, nil
}

// kvFromRows converts raw KEY/VALUE rows into a map, skipping the header row
// and rows without a value column.
func kvFromRows(rows [][]interface{}) map[string]string {
	kv := make(map[string]string, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		key := fmt.Sprint(row[0])
		if key == "" || key == "KEY" {
			continue
		}
		kv[key] = fmt.Sprint(row[1])
	}
	return kv
}

// WriteConfig overwrites the Config tab with a full snapshot: clear first,
// then write all rows. There is no partial update path.
func (c *SheetsClient) WriteConfig(ctx context.Context, rows [][]string) error {
	_, err := c.service.Spreadsheets.Values.Clear(c.spreadsheetID, configClear, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear config sheet: %w", err)
	}

	vr := &sheets.ValueRange{Values: toValues(rows)}
	_, err = c.service.Spreadsheets.Values.Update(c.spreadsheetID, configAnchor, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write config sheet: %w", err)
	}

	c.logger.Info("Config sheet overwritten", "rows", len(rows))
	return nil
}

// SheetExists reports whether a tab with the given title exists in the
// master spreadsheet.
func (c *SheetsClient) SheetExists(ctx context.Context, title string) (bool, error) {
	ss, err := c.service.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("failed to list sheets: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return true, nil
		}
	}
	return false, nil
}

// EnsureSheet creates the tab with a header row if it does not exist yet.
// It reports whether a new tab was created.
func (c *SheetsClient) EnsureSheet(ctx context.Context, title string, header []string) (bool, error) {
	exists, err := c.SheetExists(ctx, title)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: title,
					GridProperties: &sheets.GridProperties{
						RowCount:    100,
						ColumnCount: 6,
					},
				},
			},
		}},
	}
	if _, err := c.service.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return false, fmt.Errorf("failed to create sheet %q: %w", title, err)
	}

	if err := c.appendRow(ctx, title, header); err != nil {
		return true, fmt.Errorf("failed to write header row: %w", err)
	}

	c.logger.Info("Created registration sheet", "title", title)
	return true, nil
}

// AppendRegistration appends exactly one row to the named registration tab.
// The tab must already exist; a missing tab yields ErrSheetNotFound before
// anything is written. Transport errors are retried once.
func (c *SheetsClient) AppendRegistration(ctx context.Context, sheetName string, row []string) error {
	exists, err := c.SheetExists(ctx, sheetName)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %q", ErrSheetNotFound, sheetName)
	}

	err = withRetry(func() error { return c.appendRow(ctx, sheetName, row) })
	if err != nil {
		return fmt.Errorf("failed to append registration: %w", err)
	}

	c.logger.Info("Registration appended", "sheet", sheetName)
	return nil
}

func (c *SheetsClient) appendRow(ctx context.Context, sheetName string, row []string) error {
	vr := &sheets.ValueRange{Values: toValues([][]string{row})}
	_, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, appendRange(sheetName), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	return err
}

// appendRange quotes the tab title so names with underscores or spaces work.
func appendRange(sheetName string) string {
	return "'" + sheetName + "'!A:E"
}

func toValues(rows [][]string) [][]interface{} {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}
	return values
}

// withRetry runs fn and retries once after a short pause. Appends are not
// idempotent, so a single retry is the agreed ceiling.
func withRetry(fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	time.Sleep(500 * time.Millisecond)
	return fn()
}
