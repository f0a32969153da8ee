package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// maxPriceScale is the number of decimal places the catalog accepts on a price.
const maxPriceScale = 3

// InstanceTypePricing prices a single instance type dimension. Hourly is
// always present; Annual is nil for offers without upfront pricing.
type InstanceTypePricing struct {
	Name   string
	Hourly decimal.Decimal
	Annual *decimal.Decimal
}

// Validate checks the invariants the catalog enforces on dimension pricing:
// a family.size instance type name and non-negative prices with at most three
// decimal places.
func (p InstanceTypePricing) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("instance type name is empty")
	}
	if !strings.Contains(p.Name, ".") {
		return fmt.Errorf("instance type %q is not a valid family.size name", p.Name)
	}
	if err := validatePrice("hourly", p.Hourly); err != nil {
		return err
	}
	if p.Annual != nil {
		if err := validatePrice("annual", *p.Annual); err != nil {
			return err
		}
	}
	return nil
}

// HourlyPrice returns the hourly price as the catalog's decimal-string form.
func (p InstanceTypePricing) HourlyPrice() string {
	return p.Hourly.String()
}

// AnnualPrice returns the annual price string, or "" when absent.
func (p InstanceTypePricing) AnnualPrice() string {
	if p.Annual == nil {
		return ""
	}
	return p.Annual.String()
}

func validatePrice(field string, price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%s price must not be negative, got %s", field, price)
	}
	if price.Exponent() < -maxPriceScale {
		return fmt.Errorf("%s price must have at most %d decimal places, got %s", field, maxPriceScale, price)
	}
	return nil
}
