package core

import "sort"

// Analysis is the derived view of a classified transaction list: per-category
// sums plus the dominant category. Persona is empty when the input list was
// empty, which callers must surface as an explicit "insufficient data" state.
type Analysis struct {
	Persona Category           `json:"persona,omitempty"`
	Totals  map[Category]int64 `json:"totals"`
}

// HasPersona reports whether the analysis covered at least one transaction.
func (a Analysis) HasPersona() bool {
	return a.Persona != ""
}

// Aggregate recomputes totals and persona for the full transaction list. It
// is pure: callers invoke it on the complete accumulated list after every
// append rather than patching totals incrementally.
//
// Only categories actually present in the input appear in Totals. The
// persona is the category with the largest sum; when two categories tie,
// the one whose first transaction appeared earlier in the input wins. The
// sort is stable and keyed on the total alone, so resolution is
// deterministic for a given input ordering.
func Aggregate(transactions []Transaction) Analysis {
	if len(transactions) == 0 {
		return Analysis{Totals: map[Category]int64{}}
	}

	totals := make(map[Category]int64)
	var order []Category
	for _, t := range transactions {
		if _, seen := totals[t.Reclassified]; !seen {
			order = append(order, t.Reclassified)
		}
		totals[t.Reclassified] += t.Amount
	}

	ranked := make([]Category, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return totals[ranked[i]] > totals[ranked[j]]
	})

	return Analysis{Persona: ranked[0], Totals: totals}
}

// InvalidAnalysis is the forced result for a batch the ingestion layer
// rejected as non-financial input: the reserved invalid persona with a
// single placeholder total under Unknown.
func InvalidAnalysis() Analysis {
	return Analysis{
		Persona: CategoryInvalid,
		Totals:  map[Category]int64{CategoryUnknown: 1},
	}
}
