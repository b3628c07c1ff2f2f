// Package google mirrors the expense list into a Google Sheets tab using a
// service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"expenses/internal/core"
	"expenses/internal/log"
	"expenses/internal/sheets"
)

const columns = "A:F"

type Config struct {
	SpreadsheetID string
	// SheetName is the tab that receives the list; it is cleared on every
	// replace.
	SheetName string
	// CredentialsJSON takes precedence over CredentialsFile. When both are
	// empty GOOGLE_APPLICATION_CREDENTIALS is tried.
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

// Ensure interface conformance
var (
	_ sheets.Mirror = (*Client)(nil)
	_ sheets.Lister = (*Client)(nil)
)

func New(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentSheets)

	creds, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(creds),
		"scope", gsheet.SpreadsheetsScope)

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return newClient(svc, cfg.SpreadsheetID, cfg.SheetName, logger), nil
}

func newClient(svc *gsheet.Service, spreadsheetID, sheetName string, logger *log.Logger) *Client {
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Expenses"
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName, logger: logger}
}

func loadCredentials(cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.CredentialsJSON)
	file := strings.TrimSpace(cfg.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// rangeFor quotes the tab name so names with spaces resolve.
func (c *Client) rangeFor(cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(c.sheetName, "'", "''"), cells)
}

// ReplaceAll clears the tab and writes the header plus one row per expense.
func (c *Client) ReplaceAll(ctx context.Context, expenses []core.Expense) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := c.rangeFor(columns)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", clearRange, err)
	}

	writeRange := c.rangeFor("A1")
	vr := &gsheet.ValueRange{Values: toRows(expenses)}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write %s: %w", writeRange, err)
	}

	c.logger.InfoContext(ctx, "Replaced sheet contents",
		log.FieldOperation, log.OpSync,
		log.FieldCount, len(expenses),
		"sheet", c.sheetName)
	return nil
}

// ListExpenses reads the tab back. Rows that do not parse are skipped.
func (c *Client) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	rng := c.rangeFor(columns)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	out, skipped := parseRows(resp.Values)
	if skipped > 0 {
		c.logger.WarnContext(ctx, "Skipped unreadable sheet rows", "skipped", skipped, "sheet", c.sheetName)
	}
	return out, nil
}
