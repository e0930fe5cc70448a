package ingest

import (
	"context"
	"fmt"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"spendy/internal/core"
)

// SheetReader pulls spending rows from a Google Sheets range. The sheet is
// expected to follow the same column conventions as CSV exports: a header
// row naming Item/항목, Total Spent/금액 and optionally Category/카테고리.
type SheetReader struct {
	svc           *gsheet.Service
	spreadsheetID string
	readRange     string
}

// SheetConfig holds the spreadsheet coordinates and credentials.
type SheetConfig struct {
	SpreadsheetID   string
	ReadRange       string // e.g. "Transactions!A:C"
	CredentialsJSON []byte // service account key; ADC is used when empty
}

func NewSheetReader(ctx context.Context, cfg SheetConfig) (*SheetReader, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	readRange := cfg.ReadRange
	if readRange == "" {
		readRange = "A:C"
	}

	opts := []goption.ClientOption{goption.WithScopes(gsheet.SpreadsheetsReadonlyScope)}
	if len(cfg.CredentialsJSON) > 0 {
		opts = append(opts, goption.WithCredentialsJSON(cfg.CredentialsJSON))
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetReader{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		readRange:     readRange,
	}, nil
}

// Fetch reads the configured range and converts it to raw transactions,
// dropping rows that violate the transaction contract.
func (r *SheetReader) Fetch(ctx context.Context) ([]core.Transaction, error) {
	resp, err := r.svc.Spreadsheets.Values.Get(r.spreadsheetID, r.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", r.readRange, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}

	header := make([]string, len(resp.Values[0]))
	for i, cell := range resp.Values[0] {
		header[i] = fmt.Sprint(cell)
	}
	descIdx := columnIndex(header, descriptionHeaders)
	amountIdx := columnIndex(header, amountHeaders)
	categoryIdx := columnIndex(header, categoryHeaders)
	if descIdx < 0 || amountIdx < 0 {
		return nil, fmt.Errorf("missing required columns in sheet header %v", header)
	}

	var txs []core.Transaction
	for _, row := range resp.Values[1:] {
		if descIdx >= len(row) || amountIdx >= len(row) {
			continue
		}
		description := strings.TrimSpace(fmt.Sprint(row[descIdx]))
		amount, amountErr := core.ParseAmount(fmt.Sprint(row[amountIdx]))
		hint := ""
		if categoryIdx >= 0 && categoryIdx < len(row) {
			hint = strings.TrimSpace(fmt.Sprint(row[categoryIdx]))
		}
		if hint == "" {
			hint = string(core.CategoryUnknown)
		}

		tx := core.Transaction{Description: description, Amount: amount, Hint: hint}
		if amountErr != nil || tx.Validate() != nil {
			continue
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
