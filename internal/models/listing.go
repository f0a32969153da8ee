package models

// Entity type identifiers used by the Marketplace Catalog API.
const (
	EntityTypeAmiProduct = "AmiProduct@1.0"
	EntityTypeOffer      = "Offer@1.0"
)

// Term type identifiers as they appear in entity details documents.
const (
	TermTypeSupport       = "SupportTerm"
	TermTypeLegal         = "LegalTerm"
	TermTypeValidity      = "ValidityTerm"
	TermTypeHourlyPricing = "UsageBasedPricingTerm"
	TermTypeAnnualPricing = "ConfigurableUpfrontPricingTerm"
	TermTypeMonthlyFee    = "RecurringPaymentTerm"
)

// Section identifies a top-level portion of a listing document. Diff entries
// are tagged with the section they originate from so the price guard and the
// operation builder can route them without re-inspecting field names.
type Section string

const (
	SectionDescription          Section = "Description"
	SectionPromotionalResources Section = "PromotionalResources"
	SectionSupportInformation   Section = "SupportInformation"
	SectionRegionAvailability   Section = "RegionAvailability"
	SectionVersion              Section = "Version"
	SectionSupportTerms         Section = "SupportTerm"
	SectionLegalTerms           Section = "LegalTerm"
	SectionHourlyPricing        Section = "HourlyPricing"
	SectionAnnualPricing        Section = "AnnualPricing"
	SectionMonthlyFee           Section = "MonthlyFee"
)

// IsPricing reports whether the section carries pricing values, which is what
// the price guard protects against unintended changes.
func (s Section) IsPricing() bool {
	switch s {
	case SectionHourlyPricing, SectionAnnualPricing, SectionMonthlyFee:
		return true
	}
	return false
}

// ListingDocument is the typed view of a marketplace listing, shared by both
// sides of a comparison: the desired state assembled from local configuration
// and the remote state parsed from a DescribeEntity details document.
// Sections that the remote API returns but this tool does not manage are kept
// in Extra for display purposes only.
type ListingDocument struct {
	Description          *Description          `json:"Description,omitempty"`
	PromotionalResources *PromotionalResources `json:"PromotionalResources,omitempty"`
	SupportInformation   *SupportInformation   `json:"SupportInformation,omitempty"`
	RegionAvailability   *RegionAvailability   `json:"RegionAvailability,omitempty"`
	Version              *Version              `json:"Version,omitempty"`
	Terms                []Term                `json:"Terms,omitempty"`

	Extra map[string]any `json:"-"`
}

// Description holds the product description fields of an AMI listing.
type Description struct {
	ProductTitle     string   `json:"ProductTitle"`
	ShortDescription string   `json:"ShortDescription"`
	LongDescription  string   `json:"LongDescription"`
	Sku              string   `json:"Sku,omitempty"`
	Highlights       []string `json:"Highlights"`
	SearchKeywords   []string `json:"SearchKeywords"`
	Categories       []string `json:"Categories"`
}

// Resource is a titled link shown in the listing's additional resources.
type Resource struct {
	Text string `json:"Text"`
	URL  string `json:"Url"`
}

// PromotionalResources holds logo, video and additional resource links.
type PromotionalResources struct {
	LogoURL             string     `json:"LogoUrl"`
	Videos              []string   `json:"Videos"`
	AdditionalResources []Resource `json:"AdditionalResources"`
}

// SupportInformation holds the support description and resource links.
type SupportInformation struct {
	Description string   `json:"Description"`
	Resources   []string `json:"Resources"`
}

// RegionAvailability lists the commercial regions the product is available in
// and whether future regions are supported ("All" or "None").
type RegionAvailability struct {
	Regions             []string `json:"Regions"`
	FutureRegionSupport string   `json:"FutureRegionSupport"`
}

// Version describes one AMI delivery option. Only the desired document carries
// a version section; the remote API exposes released versions separately.
type Version struct {
	VersionTitle            string   `json:"VersionTitle"`
	ReleaseNotes            string   `json:"ReleaseNotes"`
	AmiID                   string   `json:"AmiId"`
	AccessRoleArn           string   `json:"AccessRoleArn"`
	OSUserName              string   `json:"UserName"`
	OSName                  string   `json:"OperatingSystemName"`
	OSVersion               string   `json:"OperatingSystemVersion"`
	ScanningPort            int      `json:"ScanningPort"`
	UsageInstructions       string   `json:"UsageInstructions"`
	RecommendedInstanceType string   `json:"RecommendedInstanceType"`
	IPProtocol              string   `json:"IpProtocol"`
	IPRanges                []string `json:"IpRanges"`
	FromPort                int      `json:"FromPort"`
	ToPort                  int      `json:"ToPort"`
}

// EulaDocument references either the AWS standard EULA by version or a custom
// EULA by URL.
type EulaDocument struct {
	Type    string `json:"Type"`
	Version string `json:"Version,omitempty"`
	URL     string `json:"Url,omitempty"`
}

// RateCard prices one dimension. Prices travel as decimal strings, exactly as
// the remote API represents them.
type RateCard struct {
	DimensionKey string `json:"DimensionKey"`
	Price        string `json:"Price"`
}

// Selector narrows a rate card group, e.g. an annual card's P365D duration.
type Selector struct {
	Type  string `json:"Type"`
	Value string `json:"Value"`
}

// Constraints describe purchase options on an upfront pricing rate card.
type Constraints struct {
	MultipleDimensionSelection string `json:"MultipleDimensionSelection"`
	QuantityConfiguration      string `json:"QuantityConfiguration"`
}

// RateCardGroup is one entry of a pricing term's RateCards list.
type RateCardGroup struct {
	Selector    *Selector    `json:"Selector,omitempty"`
	Constraints *Constraints `json:"Constraints,omitempty"`
	RateCard    []RateCard   `json:"RateCard"`
}

// Term is one entry of a listing's Terms list. The populated fields depend on
// Type; unknown term types fail schema validation before comparison.
type Term struct {
	Type         string          `json:"Type"`
	RefundPolicy string          `json:"RefundPolicy,omitempty"`
	Documents    []EulaDocument  `json:"Documents,omitempty"`
	CurrencyCode string          `json:"CurrencyCode,omitempty"`
	RateCards    []RateCardGroup `json:"RateCards,omitempty"`
	Price        string          `json:"Price,omitempty"`
}

// Term returns the first term of the given type, or nil.
func (d *ListingDocument) Term(termType string) *Term {
	for i := range d.Terms {
		if d.Terms[i].Type == termType {
			return &d.Terms[i]
		}
	}
	return nil
}

// RateCardIndex flattens the term's rate card groups into a map keyed by
// dimension. The last group wins, matching how the remote API nests the
// effective card last.
func (t *Term) RateCardIndex() map[string]RateCard {
	if t == nil || len(t.RateCards) == 0 {
		return map[string]RateCard{}
	}
	index := make(map[string]RateCard)
	for _, card := range t.RateCards[len(t.RateCards)-1].RateCard {
		index[card.DimensionKey] = card
	}
	return index
}
