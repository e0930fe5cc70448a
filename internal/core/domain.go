package core

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidCategory  = errors.New("invalid category")
)

// Transaction is a single spending record. Ingestion adapters produce it
// with Description, Amount and Hint filled in; the classifier sets
// Reclassified exactly once and the record is never mutated afterwards.
type Transaction struct {
	Description  string   `json:"item"`
	Amount       int64    `json:"totalSpent"`
	Hint         string   `json:"category"`
	Reclassified Category `json:"reclassified"`
}

// Validate checks the ingestion-adapter contract: non-empty description and
// a strictly positive amount. Adapters must discard rows that fail this
// before handing them to the classifier.
func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if t.Reclassified != "" && !t.Reclassified.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// ParseAmount converts a textual amount to whole currency units. It
// tolerates thousands-separator commas and a leading sign, takes the
// absolute value, and rounds half-up on the fractional part. Zero amounts
// are invalid: a spending record with nothing spent carries no signal.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "+")
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return 0, ErrInvalidAmount
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if len(fracPart) > 0 && fracPart[0] >= '5' && units < math.MaxInt64 {
		units++
	}
	if units <= 0 {
		return 0, ErrInvalidAmount
	}
	return units, nil
}
