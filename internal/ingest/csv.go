// Package ingest turns external inputs (uploaded files, pasted text, AI
// vision output, spreadsheet ranges) into raw transactions. Every adapter
// enforces the handoff contract: amounts are absolute values, and rows with
// an empty description or non-positive amount are discarded here, before the
// classifier ever sees them.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"spendy/internal/core"
)

// Recognized header names for exported spending spreadsheets, in both the
// English and Korean conventions.
var (
	descriptionHeaders = []string{"item", "항목"}
	amountHeaders      = []string{"total spent", "금액"}
	categoryHeaders    = []string{"category", "카테고리"}
)

// ReadCSV parses a CSV or TXT export with a header row. Unknown columns are
// ignored; rows that do not satisfy the transaction contract are dropped.
func ReadCSV(r io.Reader) ([]core.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	descIdx := columnIndex(header, descriptionHeaders)
	amountIdx := columnIndex(header, amountHeaders)
	categoryIdx := columnIndex(header, categoryHeaders)
	if descIdx < 0 || amountIdx < 0 {
		return nil, fmt.Errorf("missing required columns (item/항목 and total spent/금액), got %v", header)
	}

	var txs []core.Transaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		if descIdx >= len(record) || amountIdx >= len(record) {
			continue
		}
		description := strings.TrimSpace(record[descIdx])
		amount, amountErr := core.ParseAmount(record[amountIdx])
		hint := ""
		if categoryIdx >= 0 && categoryIdx < len(record) {
			hint = strings.TrimSpace(record[categoryIdx])
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

func columnIndex(header []string, names []string) int {
	for i, h := range header {
		normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
		for _, name := range names {
			if normalized == name {
				return i
			}
		}
	}
	return -1
}
