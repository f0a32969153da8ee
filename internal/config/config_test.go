package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/awsmp/internal/models"
)

func validDescription() *DescriptionConfig {
	return &DescriptionConfig{
		ProductTitle:       "Ubuntu Pro 24.04 LTS",
		ShortDescription:   "Security-maintained Ubuntu image",
		LongDescription:    "Ubuntu Pro with ten years of security maintenance.",
		LogoURL:            "https://example.com/logo.png",
		Highlights:         []string{"Kernel Livepatch"},
		Categories:         []string{"Operating Systems"},
		SearchKeywords:     []string{"ubuntu", "linux"},
		SupportDescription: "Community and commercial support available.",
		AdditionalResources: []map[string]string{
			{"Documentation": "https://example.com/docs"},
		},
	}
}

func validVersion() *VersionConfig {
	return &VersionConfig{
		VersionTitle:            "24.04 LTS 20260815",
		ReleaseNotes:            "Routine security updates.",
		AmiID:                   "ami-0123456789abcdef0",
		AccessRoleArn:           "arn:aws:iam::123456789012:role/marketplace",
		OSUserName:              "ubuntu",
		OSSystemName:            "ubuntu",
		OSSystemVersion:         "24.04",
		ScanningPort:            22,
		UsageInstructions:       "Launch and connect over SSH.",
		RecommendedInstanceType: "m5.large",
		IPProtocol:              "tcp",
		IPRanges:                []string{"0.0.0.0/0"},
		FromPort:                22,
		ToPort:                  22,
	}
}

func TestLoad(t *testing.T) {
	content := `
description:
  product_title: Ubuntu Pro 24.04 LTS
  short_description: Security-maintained Ubuntu image
  long_description: Ubuntu Pro with ten years of security maintenance.
  logourl: https://example.com/logo.png
  highlights:
    - Kernel Livepatch
  categories:
    - Operating Systems
  search_keywords:
    - ubuntu
  support_description: Community support.
region:
  commercial_regions:
    - us-east-1
    - eu-west-1
  future_region_support: true
offer:
  refund_policy: No refunds.
  monthly_subscription_fee: 10.5
`
	path := filepath.Join(t.TempDir(), "listing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Description)
	assert.Equal(t, "Ubuntu Pro 24.04 LTS", cfg.Description.ProductTitle)
	require.NotNil(t, cfg.Region)
	assert.True(t, cfg.Region.FutureRegionSupport)
	require.NotNil(t, cfg.Offer)
	assert.Equal(t, "10.5", cfg.Offer.MonthlySubscriptionFee.String())
	assert.Nil(t, cfg.Version)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to read configuration file")
}

func TestLoad_InvalidConfig(t *testing.T) {
	content := `
description:
  product_title: ` + strings.Repeat("x", 80) + `
  highlights: [one]
  categories: [Operating Systems]
  search_keywords: [ubuntu]
`
	path := filepath.Join(t.TempDir(), "listing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := NewLoader().Load(path)
	assert.ErrorContains(t, err, "product_title must be at most 72 characters")
}

func TestDescriptionValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*DescriptionConfig)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(d *DescriptionConfig) {},
		},
		{
			name:    "too many highlights",
			mutate:  func(d *DescriptionConfig) { d.Highlights = []string{"a", "b", "c", "d"} },
			wantErr: "highlights must have between 1 and 3",
		},
		{
			name:    "no highlights",
			mutate:  func(d *DescriptionConfig) { d.Highlights = nil },
			wantErr: "highlights must have between 1 and 3",
		},
		{
			name:    "highlight too long",
			mutate:  func(d *DescriptionConfig) { d.Highlights = []string{strings.Repeat("x", 501)} },
			wantErr: "highlights entry must be at most 500",
		},
		{
			name:    "unknown category",
			mutate:  func(d *DescriptionConfig) { d.Categories = []string{"Quantum Nonsense"} },
			wantErr: "not a valid marketplace category",
		},
		{
			name:    "keywords too long combined",
			mutate:  func(d *DescriptionConfig) { d.SearchKeywords = []string{strings.Repeat("k", 251)} },
			wantErr: "search_keywords combined length",
		},
		{
			name:    "no keywords",
			mutate:  func(d *DescriptionConfig) { d.SearchKeywords = nil },
			wantErr: "at least one entry",
		},
		{
			name:    "too many videos",
			mutate:  func(d *DescriptionConfig) { d.VideoURLs = []string{"https://a", "https://b"} },
			wantErr: "video_urls must have at most 1",
		},
		{
			name: "too many additional resources",
			mutate: func(d *DescriptionConfig) {
				d.AdditionalResources = []map[string]string{
					{"a": "https://a"}, {"b": "https://b"}, {"c": "https://c"}, {"d": "https://d"},
				}
			},
			wantErr: "additional_resources must have at most 3",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			desc := validDescription()
			tc.mutate(desc)
			err := desc.validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestVersionValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*VersionConfig)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(v *VersionConfig) {},
		},
		{
			name:    "bad ami id",
			mutate:  func(v *VersionConfig) { v.AmiID = "img-123" },
			wantErr: "must start with ami-",
		},
		{
			name:    "bad role arn",
			mutate:  func(v *VersionConfig) { v.AccessRoleArn = "arn:aws:s3:::bucket" },
			wantErr: "must start with arn:aws:iam::",
		},
		{
			name:    "bad protocol",
			mutate:  func(v *VersionConfig) { v.IPProtocol = "icmp" },
			wantErr: "ip_protocol must be tcp or udp",
		},
		{
			name:    "scanning port too low",
			mutate:  func(v *VersionConfig) { v.ScanningPort = 1 },
			wantErr: "scanning_port must be between 2 and 65535",
		},
		{
			name:    "to port too high",
			mutate:  func(v *VersionConfig) { v.ToPort = 70000 },
			wantErr: "to_port must be between 2 and 65535",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			version := validVersion()
			tc.mutate(version)
			err := version.validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestOfferValidation(t *testing.T) {
	fee := decimal.NewFromFloat(10.1234)
	offer := &OfferConfig{RefundPolicy: "No refunds.", MonthlySubscriptionFee: &fee}
	assert.ErrorContains(t, offer.validate(), "at most 3 decimal places")

	assert.ErrorContains(t, (&OfferConfig{}).validate(), "refund_policy is required")
}

func TestToListingDocument(t *testing.T) {
	annual := decimal.NewFromInt(200)
	cfg := &ListingConfig{
		Description: validDescription(),
		Region: &RegionConfig{
			CommercialRegions:   []string{"us-east-1"},
			FutureRegionSupport: false,
		},
		Version: validVersion(),
		Offer:   &OfferConfig{RefundPolicy: "No refunds."},
	}
	pricing := []models.InstanceTypePricing{
		{Name: "m5.large", Hourly: decimal.NewFromFloat(0.10), Annual: &annual},
	}

	doc, err := cfg.ToListingDocument(pricing)
	require.NoError(t, err)

	assert.Equal(t, "Ubuntu Pro 24.04 LTS", doc.Description.ProductTitle)
	assert.Equal(t, []models.Resource{{Text: "Documentation", URL: "https://example.com/docs"}},
		doc.PromotionalResources.AdditionalResources)
	assert.Equal(t, "None", doc.RegionAvailability.FutureRegionSupport)
	assert.Equal(t, "UBUNTU", doc.Version.OSName)

	support := doc.Term(models.TermTypeSupport)
	require.NotNil(t, support)
	assert.Equal(t, "No refunds.", support.RefundPolicy)

	legal := doc.Term(models.TermTypeLegal)
	require.NotNil(t, legal)
	assert.Equal(t, "StandardEula", legal.Documents[0].Type)

	hourly := doc.Term(models.TermTypeHourlyPricing)
	require.NotNil(t, hourly)
	assert.Equal(t, "0.1", hourly.RateCardIndex()["m5.large"].Price)

	require.NotNil(t, doc.Term(models.TermTypeAnnualPricing))
	assert.Nil(t, doc.Term(models.TermTypeMonthlyFee))
}
