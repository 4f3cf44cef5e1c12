// Package sheets appends exported transactions to a Google Spreadsheet.
// The target is optional: without a spreadsheet ID in the configuration
// the export action simply isn't offered.
package sheets

import (
	"context"
	"fmt"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/Soham2411/flowtrack/internal/core"
)

type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// Enabled reports whether the sheets target is configured at all.
func (c Config) Enabled() bool { return c.SpreadsheetID != "" }

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// New creates a Sheets client from service-account credentials. With
// neither JSON nor a file configured, application default credentials
// apply.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("sheets export not configured: missing spreadsheet id")
	}

	opts := []goption.ClientOption{goption.WithScopes(gsheet.SpreadsheetsScope)}
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, goption.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, goption.WithCredentialsFile(cfg.CredentialsFile))
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	sheetName := cfg.SheetName
	if sheetName == "" {
		sheetName = "Transactions"
	}
	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID, sheetName: sheetName}, nil
}

// Append adds one row per transaction to the configured sheet and returns
// the number of rows written.
func (c *Client) Append(ctx context.Context, txs []core.Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	rows := make([][]interface{}, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, []interface{}{
			tx.Date.Format("2006-01-02"),
			tx.Description,
			tx.CategoryName,
			tx.Type.Title(),
			tx.Amount.StringFixed(2),
		})
	}

	vr := &gsheet.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheetName, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("append to sheet %q: %w", c.sheetName, err)
	}
	return len(rows), nil
}
