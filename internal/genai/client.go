// Package genai wraps the external generative AI services: transaction
// extraction from photographed receipts and icon image generation. Both are
// opaque remote calls; nothing in here makes classification decisions.
package genai

import "context"

// ExtractedTransaction is one spending record read out of an image by the
// vision model. Category is a free-text hint, resolved later by the
// classifier.
type ExtractedTransaction struct {
	Item     string  `json:"item"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

// VisionAnalysis is the vision model's verdict on a single image.
// IsFinancial false means the image is not a financial record at all, which
// invalidates the whole upload batch.
type VisionAnalysis struct {
	IsFinancial  bool                   `json:"isFinancial"`
	Transactions []ExtractedTransaction `json:"transactions"`
}

// Client is the interface to the generative AI provider.
type Client interface {
	// AnalyzeTransactionImage extracts spending records from a photographed
	// receipt or transaction list.
	AnalyzeTransactionImage(ctx context.Context, image []byte, mimeType string) (VisionAnalysis, error)

	// GenerateIcon renders a persona icon for the given concept description
	// and returns the encoded image bytes.
	GenerateIcon(ctx context.Context, prompt string) ([]byte, error)
}
