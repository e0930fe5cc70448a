package ingest

import (
	"strings"

	"spendy/internal/core"
)

// ParseText parses pasted free-form text: one transaction per line, where
// the last whitespace-separated field is the amount and everything before it
// is the description. Thousands-separator commas in the amount are
// tolerated. Lines that do not yield a positive amount and a description are
// skipped.
func ParseText(text string) []core.Transaction {
	var txs []core.Transaction
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		amount, err := core.ParseAmount(fields[len(fields)-1])
		if err != nil {
			continue
		}

		tx := core.Transaction{
			Description: strings.Join(fields[:len(fields)-1], " "),
			Amount:      amount,
			Hint:        string(core.CategoryUnknown),
		}
		if tx.Validate() != nil {
			continue
		}
		txs = append(txs, tx)
	}
	return txs
}
