package models

// PricingTerms assembles the offer pricing terms for a set of priced instance
// types. The hourly term is always present; free listings keep their 0.00
// dimensions on it. An upfront (annual) term is added only when at least one
// instance type carries an annual price.
func PricingTerms(instanceTypes []InstanceTypePricing, free bool) []Term {
	var hourly, annual []RateCard
	for _, it := range instanceTypes {
		if !it.Hourly.IsZero() || free {
			hourly = append(hourly, RateCard{DimensionKey: it.Name, Price: it.HourlyPrice()})
		}
		if it.Annual != nil && !it.Annual.IsZero() {
			annual = append(annual, RateCard{DimensionKey: it.Name, Price: it.AnnualPrice()})
		}
	}

	terms := []Term{{
		Type:         TermTypeHourlyPricing,
		CurrencyCode: "USD",
		RateCards:    []RateCardGroup{{RateCard: hourly}},
	}}
	if len(annual) > 0 {
		terms = append(terms, Term{
			Type:         TermTypeAnnualPricing,
			CurrencyCode: "USD",
			RateCards: []RateCardGroup{{
				Selector: &Selector{Type: "Duration", Value: "P365D"},
				Constraints: &Constraints{
					MultipleDimensionSelection: "Allowed",
					QuantityConfiguration:      "Allowed",
				},
				RateCard: annual,
			}},
		})
	}
	return terms
}
