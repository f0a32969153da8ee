package config

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/canonical/awsmp/internal/models"
)

// LoadPricingCSV reads a headerless pricing file with one row per instance
// type: name, hourly price, optional annual price. Every row must carry the
// annual column or none may, because an offer either has upfront pricing for
// all its dimensions or for none.
func LoadPricingCSV(r io.Reader) ([]models.InstanceTypePricing, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse pricing file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("pricing file is empty")
	}

	var pricing []models.InstanceTypePricing
	annualRows := 0
	for i, record := range records {
		if len(record) < 2 || len(record) > 3 {
			return nil, fmt.Errorf("pricing row %d must have 2 or 3 columns, got %d", i+1, len(record))
		}

		entry := models.InstanceTypePricing{Name: record[0]}
		entry.Hourly, err = decimal.NewFromString(record[1])
		if err != nil {
			return nil, fmt.Errorf("pricing row %d: invalid hourly price %q: %w", i+1, record[1], err)
		}
		if len(record) == 3 && record[2] != "" {
			annual, err := decimal.NewFromString(record[2])
			if err != nil {
				return nil, fmt.Errorf("pricing row %d: invalid annual price %q: %w", i+1, record[2], err)
			}
			entry.Annual = &annual
			annualRows++
		}

		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("pricing row %d: %w", i+1, err)
		}
		pricing = append(pricing, entry)
	}

	if annualRows != 0 && annualRows != len(pricing) {
		return nil, fmt.Errorf("annual prices must be set for all instance types or none, got %d of %d",
			annualRows, len(pricing))
	}

	return models.SortInstanceTypes(pricing)
}

// WritePricingCSV writes pricing rows in the format LoadPricingCSV reads.
// The annual column is omitted entirely when no entry carries one.
func WritePricingCSV(w io.Writer, pricing []models.InstanceTypePricing) error {
	withAnnual := false
	for _, entry := range pricing {
		if entry.Annual != nil {
			withAnnual = true
			break
		}
	}

	writer := csv.NewWriter(w)
	for _, entry := range pricing {
		record := []string{entry.Name, entry.HourlyPrice()}
		if withAnnual {
			record = append(record, entry.AnnualPrice())
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write pricing row for %s: %w", entry.Name, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
