package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"spendy/internal/core"
	"spendy/internal/genai"
)

// ErrNotFinancial signals that an uploaded image is not a financial record.
// The whole batch is rejected; partial results from earlier images are
// discarded.
var ErrNotFinancial = errors.New("image is not a financial record")

// Image is one uploaded image awaiting vision analysis.
type Image struct {
	Data     []byte
	MimeType string
}

// AnalyzeImages runs the vision pipeline over the uploaded images in order,
// failing fast on the first image the model rejects as non-financial and
// otherwise accumulating the extracted transactions. The vision model's own
// category guess is kept as the hint; the classifier still has the final
// word.
func AnalyzeImages(ctx context.Context, client genai.Client, images []Image) ([]core.Transaction, error) {
	var txs []core.Transaction
	for i, img := range images {
		analysis, err := client.AnalyzeTransactionImage(ctx, img.Data, img.MimeType)
		if err != nil {
			return nil, fmt.Errorf("analyze image %d: %w", i+1, err)
		}
		if !analysis.IsFinancial {
			slog.WarnContext(ctx, "Image rejected as non-financial", "index", i+1)
			return nil, ErrNotFinancial
		}

		for _, ext := range analysis.Transactions {
			amount := ext.Amount
			if amount < 0 {
				amount = -amount
			}
			tx := core.Transaction{
				Description: ext.Item,
				Amount:      int64(amount + 0.5),
				Hint:        ext.Category,
			}
			if tx.Validate() != nil {
				continue
			}
			txs = append(txs, tx)
		}
	}
	return txs, nil
}
