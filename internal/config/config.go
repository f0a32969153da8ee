package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/shopspring/decimal"

	"github.com/canonical/awsmp/internal/models"
	"github.com/canonical/awsmp/pkg/logging"
)

// Field limits the catalog enforces on listing configurations. Submitting a
// value past these gets the whole change set rejected, so they are checked
// locally first.
const (
	maxProductTitleLength     = 72
	maxShortDescriptionLength = 1000
	maxLongDescriptionLength  = 5000
	maxHighlightLength        = 500
	maxHighlights             = 3
	maxCategories             = 3
	maxCombinedKeywordLength  = 250
	maxSupportDescLength      = 2000
	maxSkuLength              = 100
	maxVideoURLs              = 1
	maxAdditionalResources    = 3
	maxVersionTitleLength     = 36
	maxReleaseNotesLength     = 30000
	maxAmiIDLength            = 21
	maxAccessRoleArnLength    = 150
	maxOSUserNameLength       = 100
	maxOSVersionLength        = 100
	maxUsageInstructionsLen   = 2000
	maxRecommendedTypeLength  = 27
	maxIPRanges               = 5
	maxRefundPolicyLength     = 500
	minPort                   = 2
	maxPort                   = 65535
)

// ListingConfig is the YAML representation of a desired listing. The section
// keys mirror the configuration files operators already maintain.
type ListingConfig struct {
	Description *DescriptionConfig `yaml:"description"`
	Region      *RegionConfig      `yaml:"region"`
	Version     *VersionConfig     `yaml:"version"`
	Offer       *OfferConfig       `yaml:"offer"`
}

// DescriptionConfig carries the description and promotional fields.
type DescriptionConfig struct {
	ProductTitle        string              `yaml:"product_title"`
	ShortDescription    string              `yaml:"short_description"`
	LongDescription     string              `yaml:"long_description"`
	LogoURL             string              `yaml:"logourl"`
	Highlights          []string            `yaml:"highlights"`
	Categories          []string            `yaml:"categories"`
	SearchKeywords      []string            `yaml:"search_keywords"`
	SupportDescription  string              `yaml:"support_description"`
	SupportResources    []string            `yaml:"support_resources"`
	Sku                 string              `yaml:"sku"`
	VideoURLs           []string            `yaml:"video_urls"`
	AdditionalResources []map[string]string `yaml:"additional_resources"`
}

// RegionConfig lists the regions the product should be available in.
// "all" as the only entry means every commercial region; expansion happens
// in the EC2 provider, not here.
type RegionConfig struct {
	CommercialRegions   []string `yaml:"commercial_regions"`
	FutureRegionSupport bool     `yaml:"future_region_support"`
}

// VersionConfig describes the AMI delivery option of a version update.
type VersionConfig struct {
	VersionTitle            string   `yaml:"version_title"`
	ReleaseNotes            string   `yaml:"release_notes"`
	AmiID                   string   `yaml:"ami_id"`
	AccessRoleArn           string   `yaml:"access_role_arn"`
	OSUserName              string   `yaml:"os_user_name"`
	OSSystemName            string   `yaml:"os_system_name"`
	OSSystemVersion         string   `yaml:"os_system_version"`
	ScanningPort            int      `yaml:"scanning_port"`
	UsageInstructions       string   `yaml:"usage_instructions"`
	RecommendedInstanceType string   `yaml:"recommended_instance_type"`
	IPProtocol              string   `yaml:"ip_protocol"`
	IPRanges                []string `yaml:"ip_ranges"`
	FromPort                int      `yaml:"from_port"`
	ToPort                  int      `yaml:"to_port"`
}

// OfferConfig carries the offer-level terms of the listing.
type OfferConfig struct {
	EulaURL                string           `yaml:"eula_url"`
	RefundPolicy           string           `yaml:"refund_policy"`
	MonthlySubscriptionFee *decimal.Decimal `yaml:"monthly_subscription_fee"`
}

// Loader reads and validates listing configuration files.
type Loader struct {
	logger logging.Logger
}

// NewLoader creates a new Loader with the default logger
func NewLoader() *Loader {
	return NewLoaderWithLogger(logging.NewDefaultLogger())
}

// NewLoaderWithLogger creates a new Loader with a specific logger
func NewLoaderWithLogger(logger logging.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// Load parses a listing configuration file and validates every section it
// contains. Sections absent from the file stay nil: a config may carry only
// the sections an operation needs.
func (l *Loader) Load(configPath string) (*ListingConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", configPath, err)
	}

	var cfg ListingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	l.logger.Debug("Loaded configuration from %s", configPath)
	return &cfg, nil
}

// Validate checks every present section against the catalog's field limits.
func (c *ListingConfig) Validate() error {
	if c.Description != nil {
		if err := c.Description.validate(); err != nil {
			return err
		}
	}
	if c.Region != nil {
		if err := c.Region.validate(); err != nil {
			return err
		}
	}
	if c.Version != nil {
		if err := c.Version.validate(); err != nil {
			return err
		}
	}
	if c.Offer != nil {
		if err := c.Offer.validate(); err != nil {
			return err
		}
	}
	return nil
}

// ToListingDocument assembles the desired document from the configured
// sections and the priced instance types. Missing sections stay nil so the
// comparison only covers what the configuration manages.
func (c *ListingConfig) ToListingDocument(pricing []models.InstanceTypePricing) (*models.ListingDocument, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	doc := &models.ListingDocument{}

	if c.Description != nil {
		doc.Description = &models.Description{
			ProductTitle:     c.Description.ProductTitle,
			ShortDescription: c.Description.ShortDescription,
			LongDescription:  c.Description.LongDescription,
			Sku:              c.Description.Sku,
			Highlights:       c.Description.Highlights,
			SearchKeywords:   c.Description.SearchKeywords,
			Categories:       c.Description.Categories,
		}
		doc.PromotionalResources = &models.PromotionalResources{
			LogoURL:             c.Description.LogoURL,
			Videos:              c.Description.VideoURLs,
			AdditionalResources: additionalResources(c.Description.AdditionalResources),
		}
		doc.SupportInformation = &models.SupportInformation{
			Description: c.Description.SupportDescription,
			Resources:   c.Description.SupportResources,
		}
	}

	if c.Region != nil {
		support := "None"
		if c.Region.FutureRegionSupport {
			support = "All"
		}
		doc.RegionAvailability = &models.RegionAvailability{
			Regions:             c.Region.CommercialRegions,
			FutureRegionSupport: support,
		}
	}

	if c.Version != nil {
		doc.Version = &models.Version{
			VersionTitle:            c.Version.VersionTitle,
			ReleaseNotes:            c.Version.ReleaseNotes,
			AmiID:                   c.Version.AmiID,
			AccessRoleArn:           c.Version.AccessRoleArn,
			OSUserName:              c.Version.OSUserName,
			OSName:                  strings.ToUpper(c.Version.OSSystemName),
			OSVersion:               c.Version.OSSystemVersion,
			ScanningPort:            c.Version.ScanningPort,
			UsageInstructions:       c.Version.UsageInstructions,
			RecommendedInstanceType: c.Version.RecommendedInstanceType,
			IPProtocol:              c.Version.IPProtocol,
			IPRanges:                c.Version.IPRanges,
			FromPort:                c.Version.FromPort,
			ToPort:                  c.Version.ToPort,
		}
	}

	if c.Offer != nil {
		for _, p := range pricing {
			if err := p.Validate(); err != nil {
				return nil, err
			}
		}
		doc.Terms = []models.Term{
			{
				Type:         models.TermTypeSupport,
				RefundPolicy: c.Offer.RefundPolicy,
			},
			{
				Type:      models.TermTypeLegal,
				Documents: []models.EulaDocument{eulaDocument(c.Offer.EulaURL)},
			},
		}
		doc.Terms = append(doc.Terms, models.PricingTerms(pricing, false)...)
		if c.Offer.MonthlySubscriptionFee != nil {
			doc.Terms = append(doc.Terms, models.Term{
				Type:         models.TermTypeMonthlyFee,
				CurrencyCode: "USD",
				Price:        c.Offer.MonthlySubscriptionFee.String(),
			})
		}
	}

	return doc, nil
}

func (d *DescriptionConfig) validate() error {
	if err := maxLength("description.product_title", d.ProductTitle, maxProductTitleLength); err != nil {
		return err
	}
	if err := maxLength("description.short_description", d.ShortDescription, maxShortDescriptionLength); err != nil {
		return err
	}
	if err := maxLength("description.long_description", d.LongDescription, maxLongDescriptionLength); err != nil {
		return err
	}
	if err := maxLength("description.sku", d.Sku, maxSkuLength); err != nil {
		return err
	}

	if len(d.Highlights) < 1 || len(d.Highlights) > maxHighlights {
		return fmt.Errorf("description.highlights must have between 1 and %d entries, got %d", maxHighlights, len(d.Highlights))
	}
	for _, highlight := range d.Highlights {
		if err := maxLength("description.highlights entry", highlight, maxHighlightLength); err != nil {
			return err
		}
	}

	if len(d.Categories) < 1 || len(d.Categories) > maxCategories {
		return fmt.Errorf("description.categories must have between 1 and %d entries, got %d", maxCategories, len(d.Categories))
	}
	for _, category := range d.Categories {
		if !knownCategories[category] {
			return fmt.Errorf("description.categories entry %q is not a valid marketplace category", category)
		}
	}

	if len(d.SearchKeywords) < 1 {
		return fmt.Errorf("description.search_keywords must have at least one entry")
	}
	if combined := len(strings.Join(d.SearchKeywords, "")); combined > maxCombinedKeywordLength {
		return fmt.Errorf("description.search_keywords combined length must be at most %d characters, got %d",
			maxCombinedKeywordLength, combined)
	}

	if err := maxLength("description.support_description", d.SupportDescription, maxSupportDescLength); err != nil {
		return err
	}
	if len(d.VideoURLs) > maxVideoURLs {
		return fmt.Errorf("description.video_urls must have at most %d entry, got %d", maxVideoURLs, len(d.VideoURLs))
	}
	if len(d.AdditionalResources) > maxAdditionalResources {
		return fmt.Errorf("description.additional_resources must have at most %d entries, got %d",
			maxAdditionalResources, len(d.AdditionalResources))
	}
	return nil
}

func (r *RegionConfig) validate() error {
	if len(r.CommercialRegions) < 1 {
		return fmt.Errorf("region.commercial_regions must have at least one entry")
	}
	return nil
}

func (v *VersionConfig) validate() error {
	if err := maxLength("version.version_title", v.VersionTitle, maxVersionTitleLength); err != nil {
		return err
	}
	if err := maxLength("version.release_notes", v.ReleaseNotes, maxReleaseNotesLength); err != nil {
		return err
	}
	if err := maxLength("version.ami_id", v.AmiID, maxAmiIDLength); err != nil {
		return err
	}
	if !strings.HasPrefix(v.AmiID, "ami-") {
		return fmt.Errorf("version.ami_id %q must start with ami-", v.AmiID)
	}
	if err := maxLength("version.access_role_arn", v.AccessRoleArn, maxAccessRoleArnLength); err != nil {
		return err
	}
	if !strings.HasPrefix(v.AccessRoleArn, "arn:aws:iam::") {
		return fmt.Errorf("version.access_role_arn %q must start with arn:aws:iam::", v.AccessRoleArn)
	}
	if err := maxLength("version.os_user_name", v.OSUserName, maxOSUserNameLength); err != nil {
		return err
	}
	if err := maxLength("version.os_system_version", v.OSSystemVersion, maxOSVersionLength); err != nil {
		return err
	}
	if err := maxLength("version.usage_instructions", v.UsageInstructions, maxUsageInstructionsLen); err != nil {
		return err
	}
	if err := maxLength("version.recommended_instance_type", v.RecommendedInstanceType, maxRecommendedTypeLength); err != nil {
		return err
	}
	if v.IPProtocol != "tcp" && v.IPProtocol != "udp" {
		return fmt.Errorf("version.ip_protocol must be tcp or udp, got %q", v.IPProtocol)
	}
	if len(v.IPRanges) > maxIPRanges {
		return fmt.Errorf("version.ip_ranges must have at most %d entries, got %d", maxIPRanges, len(v.IPRanges))
	}
	for _, port := range []struct {
		name  string
		value int
	}{
		{"version.scanning_port", v.ScanningPort},
		{"version.from_port", v.FromPort},
		{"version.to_port", v.ToPort},
	} {
		if port.value < minPort || port.value > maxPort {
			return fmt.Errorf("%s must be between %d and %d, got %d", port.name, minPort, maxPort, port.value)
		}
	}
	return nil
}

func (o *OfferConfig) validate() error {
	if err := maxLength("offer.refund_policy", o.RefundPolicy, maxRefundPolicyLength); err != nil {
		return err
	}
	if o.RefundPolicy == "" {
		return fmt.Errorf("offer.refund_policy is required")
	}
	if o.MonthlySubscriptionFee != nil {
		if o.MonthlySubscriptionFee.IsNegative() {
			return fmt.Errorf("offer.monthly_subscription_fee must not be negative, got %s", o.MonthlySubscriptionFee)
		}
		if o.MonthlySubscriptionFee.Exponent() < -3 {
			return fmt.Errorf("offer.monthly_subscription_fee must have at most 3 decimal places, got %s",
				o.MonthlySubscriptionFee)
		}
	}
	return nil
}

func maxLength(field, value string, limit int) error {
	if len(value) > limit {
		return fmt.Errorf("%s must be at most %d characters, got %d", field, limit, len(value))
	}
	return nil
}

// additionalResources converts the YAML's single-key {text: url} entries into
// the API's Text/Url pairs.
func additionalResources(entries []map[string]string) []models.Resource {
	var resources []models.Resource
	for _, entry := range entries {
		for text, url := range entry {
			resources = append(resources, models.Resource{Text: text, URL: url})
		}
	}
	return resources
}

func eulaDocument(eulaURL string) models.EulaDocument {
	if eulaURL != "" {
		return models.EulaDocument{Type: "CustomEula", URL: eulaURL}
	}
	return models.EulaDocument{Type: "StandardEula", Version: "2022-07-14"}
}
