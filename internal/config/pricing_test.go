package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/awsmp/internal/models"
)

func TestLoadPricingCSV(t *testing.T) {
	input := strings.NewReader("m5.xlarge,0.20,200.00\nc5.large,0.10,100.00\nm5.large,0.15,150.00\n")

	pricing, err := LoadPricingCSV(input)
	require.NoError(t, err)

	// family-grouped, size-sorted
	names := make([]string, len(pricing))
	for i, entry := range pricing {
		names[i] = entry.Name
	}
	assert.Equal(t, []string{"c5.large", "m5.large", "m5.xlarge"}, names)

	assert.Equal(t, "0.2", pricing[2].Hourly.String())
	require.NotNil(t, pricing[2].Annual)
	assert.Equal(t, "200", pricing[2].Annual.String())
}

func TestLoadPricingCSV_HourlyOnly(t *testing.T) {
	pricing, err := LoadPricingCSV(strings.NewReader("c5.large,0.10\nm5.large,0.15\n"))
	require.NoError(t, err)
	require.Len(t, pricing, 2)
	assert.Nil(t, pricing[0].Annual)
}

func TestLoadPricingCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "empty file",
			input:   "",
			wantErr: "pricing file is empty",
		},
		{
			name:    "too few columns",
			input:   "c5.large\n",
			wantErr: "must have 2 or 3 columns",
		},
		{
			name:    "bad hourly price",
			input:   "c5.large,cheap\n",
			wantErr: "invalid hourly price",
		},
		{
			name:    "negative price",
			input:   "c5.large,-0.10\n",
			wantErr: "must not be negative",
		},
		{
			name:    "too many decimal places",
			input:   "c5.large,0.1234\n",
			wantErr: "at most 3 decimal places",
		},
		{
			name:    "mixed annual coverage",
			input:   "c5.large,0.10,100.00\nm5.large,0.15\n",
			wantErr: "all instance types or none",
		},
		{
			name:    "bad instance type name",
			input:   "c5large,0.10\n",
			wantErr: "not a valid family.size name",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadPricingCSV(strings.NewReader(tc.input))
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestWritePricingCSV(t *testing.T) {
	annual := decimal.NewFromInt(100)
	pricing := []models.InstanceTypePricing{
		{Name: "c5.large", Hourly: decimal.NewFromFloat(0.10), Annual: &annual},
		{Name: "m5.large", Hourly: decimal.NewFromFloat(0.15), Annual: &annual},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePricingCSV(&buf, pricing))
	assert.Equal(t, "c5.large,0.1,100\nm5.large,0.15,100\n", buf.String())

	// without annual prices the column is dropped
	buf.Reset()
	require.NoError(t, WritePricingCSV(&buf, []models.InstanceTypePricing{
		{Name: "c5.large", Hourly: decimal.NewFromFloat(0.10)},
	}))
	assert.Equal(t, "c5.large,0.1\n", buf.String())
}
