package diff

import "github.com/canonical/awsmp/internal/models"

// SkippedPriceChange is the advisory record for a pricing change the guard
// withheld. It is informational: the caller decides whether to warn or abort.
type SkippedPriceChange struct {
	Section  models.Section `json:"section"`
	Name     string         `json:"name"`
	OldValue any            `json:"old_value"`
	NewValue any            `json:"new_value"`
}

// FilterPricingChanges guards against unintended price drift. When
// priceChangeAllowed is false, every Changed entry in a pricing section is
// withheld from the returned sequence and reported as an advisory instead.
//
// Added and Removed pricing entries always pass through: they describe new or
// discontinued dimensions, not price changes on existing ones. The function is
// deterministic and preserves entry order.
func FilterPricingChanges(entries []models.DiffEntry, priceChangeAllowed bool) ([]models.DiffEntry, []SkippedPriceChange) {
	if priceChangeAllowed {
		return entries, nil
	}

	kept := make([]models.DiffEntry, 0, len(entries))
	var skipped []SkippedPriceChange
	for _, entry := range entries {
		if entry.Kind == models.DiffChanged && entry.Section.IsPricing() {
			skipped = append(skipped, SkippedPriceChange{
				Section:  entry.Section,
				Name:     entry.Name,
				OldValue: entry.OldValue,
				NewValue: entry.NewValue,
			})
			continue
		}
		kept = append(kept, entry)
	}
	return kept, skipped
}
