package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/aclindsa/ofxgo"

	"spendy/internal/core"
)

// ReadOFX parses an OFX/QFX bank or credit-card statement export. The
// transaction NAME (or MEMO when NAME is empty) becomes the description and
// TRNAMT the absolute amount; OFX carries no category, so the hint is left
// to the classifier's fallback.
func ReadOFX(r io.Reader) ([]core.Transaction, error) {
	resp, err := ofxgo.ParseResponse(r)
	if err != nil {
		return nil, fmt.Errorf("parse ofx: %w", err)
	}

	var txs []core.Transaction
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			txs = append(txs, convertOFX(stmt.BankTranList.Transactions)...)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			txs = append(txs, convertOFX(stmt.BankTranList.Transactions)...)
		}
	}
	return txs, nil
}

func convertOFX(ofxTxs []ofxgo.Transaction) []core.Transaction {
	var txs []core.Transaction
	for _, ofxTx := range ofxTxs {
		description := strings.TrimSpace(string(ofxTx.Name))
		if description == "" {
			description = strings.TrimSpace(string(ofxTx.Memo))
		}

		// OFX uses negative amounts for debits; spending records are
		// normalized to absolute values.
		amountFloat, _ := ofxTx.TrnAmt.Float64()
		if amountFloat < 0 {
			amountFloat = -amountFloat
		}
		amount := int64(amountFloat + 0.5)

		tx := core.Transaction{
			Description: description,
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
