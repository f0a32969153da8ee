package diff

import (
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"

	"github.com/canonical/awsmp/internal/models"
)

// fieldComparison pairs one field's remote and desired values. The unordered
// flag marks fields whose sequence values carry no ordering meaning and are
// compared as sets.
type fieldComparison struct {
	section   models.Section
	name      string
	remote    any
	desired   any
	unordered bool
}

// Compare computes the differences between the remote listing state and the
// locally desired state. Entries come out in the traversal order of the
// desired document's sections, stable across calls on the same inputs.
//
// The desired document is schema-validated before any comparison happens;
// a malformed document yields an ErrSchemaMismatch error and no entries.
// Compare performs no I/O and is safe for concurrent use.
func Compare(desired, remote *models.ListingDocument) ([]models.DiffEntry, error) {
	if desired == nil {
		return nil, NewError(ErrInvalidInput, "desired listing document is nil", "", nil)
	}
	if remote == nil {
		return nil, NewError(ErrInvalidInput, "remote listing document is nil", "", nil)
	}
	if err := validateSchema(desired); err != nil {
		return nil, err
	}

	var entries []models.DiffEntry
	for _, fc := range sectionComparisons(desired, remote) {
		if entry, ok := compareField(fc); ok {
			entries = append(entries, entry)
		}
	}
	entries = append(entries, compareTerms(desired, remote)...)
	return entries, nil
}

// sectionComparisons lists every non-term field of the document in its
// declared order. Sections missing on one side compare against zero values,
// which yields Added/Removed entries field by field.
func sectionComparisons(desired, remote *models.ListingDocument) []fieldComparison {
	dd, rd := descriptionOrZero(desired), descriptionOrZero(remote)
	dp, rp := promotionalOrZero(desired), promotionalOrZero(remote)
	ds, rs := supportOrZero(desired), supportOrZero(remote)
	dr, rr := regionOrZero(desired), regionOrZero(remote)

	comparisons := []fieldComparison{
		{section: models.SectionDescription, name: "ProductTitle", remote: rd.ProductTitle, desired: dd.ProductTitle},
		{section: models.SectionDescription, name: "ShortDescription", remote: rd.ShortDescription, desired: dd.ShortDescription},
		{section: models.SectionDescription, name: "LongDescription", remote: rd.LongDescription, desired: dd.LongDescription},
		{section: models.SectionDescription, name: "Sku", remote: rd.Sku, desired: dd.Sku},
		{section: models.SectionDescription, name: "Highlights", remote: rd.Highlights, desired: dd.Highlights},
		{section: models.SectionDescription, name: "SearchKeywords", remote: rd.SearchKeywords, desired: dd.SearchKeywords},
		{section: models.SectionDescription, name: "Categories", remote: rd.Categories, desired: dd.Categories},
		{section: models.SectionPromotionalResources, name: "LogoUrl", remote: rp.LogoURL, desired: dp.LogoURL},
		{section: models.SectionPromotionalResources, name: "Videos", remote: rp.Videos, desired: dp.Videos},
		{section: models.SectionPromotionalResources, name: "AdditionalResources", remote: rp.AdditionalResources, desired: dp.AdditionalResources},
		{section: models.SectionSupportInformation, name: "Description", remote: rs.Description, desired: ds.Description},
		{section: models.SectionSupportInformation, name: "Resources", remote: rs.Resources, desired: ds.Resources},
		// region ordering carries no meaning for the listing
		{section: models.SectionRegionAvailability, name: "Regions", remote: rr.Regions, desired: dr.Regions, unordered: true},
		{section: models.SectionRegionAvailability, name: "FutureRegionSupport", remote: rr.FutureRegionSupport, desired: dr.FutureRegionSupport},
	}

	if desired.Version != nil || remote.Version != nil {
		comparisons = append(comparisons, fieldComparison{
			section: models.SectionVersion,
			name:    "Version",
			remote:  versionOrNil(remote),
			desired: versionOrNil(desired),
		})
	}
	return comparisons
}

// compareField classifies one field as Added, Removed or Changed. Fields that
// are empty on both sides, or equal, produce no entry.
func compareField(fc fieldComparison) (models.DiffEntry, bool) {
	remoteEmpty, desiredEmpty := isEmptyValue(fc.remote), isEmptyValue(fc.desired)
	switch {
	case remoteEmpty && !desiredEmpty:
		return models.Added(fc.section, fc.name, fc.desired), true
	case !remoteEmpty && desiredEmpty:
		return models.Removed(fc.section, fc.name, fc.remote), true
	case !remoteEmpty && !desiredEmpty && !equalValues(fc.remote, fc.desired, fc.unordered):
		return models.Changed(fc.section, fc.name, fc.remote, fc.desired), true
	}
	return models.DiffEntry{}, false
}

// compareTerms walks the desired document's terms. Non-pricing terms compare
// as whole values; pricing terms compare rate cards per dimension so that the
// builder can translate each dimension independently.
func compareTerms(desired, remote *models.ListingDocument) []models.DiffEntry {
	var entries []models.DiffEntry
	for i := range desired.Terms {
		dt := &desired.Terms[i]
		rt := remote.Term(dt.Type)
		switch dt.Type {
		case models.TermTypeSupport:
			if entry, ok := compareField(fieldComparison{
				section: models.SectionSupportTerms,
				name:    "RefundPolicy",
				remote:  refundPolicyOrEmpty(rt),
				desired: dt.RefundPolicy,
			}); ok {
				entries = append(entries, entry)
			}
		case models.TermTypeLegal:
			if entry, ok := compareField(fieldComparison{
				section: models.SectionLegalTerms,
				name:    "Documents",
				remote:  documentsOrNil(rt),
				desired: dt.Documents,
			}); ok {
				entries = append(entries, entry)
			}
		case models.TermTypeHourlyPricing:
			entries = append(entries, comparePricingTerm(models.SectionHourlyPricing, rt, dt)...)
		case models.TermTypeAnnualPricing:
			entries = append(entries, comparePricingTerm(models.SectionAnnualPricing, rt, dt)...)
		case models.TermTypeMonthlyFee:
			if entry, ok := compareField(fieldComparison{
				section: models.SectionMonthlyFee,
				name:    "Price",
				remote:  priceOrEmpty(rt),
				desired: dt.Price,
			}); ok {
				entries = append(entries, entry)
			}
		}
	}
	return entries
}

func comparePricingTerm(section models.Section, remoteTerm, desiredTerm *models.Term) []models.DiffEntry {
	var entries []models.DiffEntry

	if remoteTerm != nil && remoteTerm.CurrencyCode != desiredTerm.CurrencyCode {
		entries = append(entries, models.Changed(section, "CurrencyCode", remoteTerm.CurrencyCode, desiredTerm.CurrencyCode))
	}
	entries = append(entries, compareRateCards(section, remoteTerm, desiredTerm)...)
	return entries
}

// compareRateCards diffs the effective rate card of a pricing term per
// dimension key. Dimensions priced only on the desired side are Added, only
// on the remote side Removed, and priced on both sides with a different price
// Changed. Order follows the desired card, then the remote card for removals.
func compareRateCards(section models.Section, remoteTerm, desiredTerm *models.Term) []models.DiffEntry {
	remoteIndex := remoteTerm.RateCardIndex()
	desiredIndex := desiredTerm.RateCardIndex()

	var entries []models.DiffEntry
	for _, card := range effectiveRateCard(desiredTerm) {
		remoteCard, ok := remoteIndex[card.DimensionKey]
		switch {
		case !ok:
			entries = append(entries, models.Added(section, card.DimensionKey, card))
		case remoteCard != card:
			entries = append(entries, models.Changed(section, card.DimensionKey, remoteCard, card))
		}
	}
	for _, card := range effectiveRateCard(remoteTerm) {
		if _, ok := desiredIndex[card.DimensionKey]; !ok {
			entries = append(entries, models.Removed(section, card.DimensionKey, card))
		}
	}
	return entries
}

// validateSchema rejects desired documents whose terms do not fit the
// declared listing schema. It runs to completion before any comparison.
func validateSchema(doc *models.ListingDocument) error {
	seen := make(map[string]bool)
	for i := range doc.Terms {
		t := doc.Terms[i]
		if seen[t.Type] {
			return NewError(ErrSchemaMismatch, "duplicate term", t.Type, nil)
		}
		seen[t.Type] = true

		switch t.Type {
		case models.TermTypeSupport:
			if t.RefundPolicy == "" {
				return NewError(ErrSchemaMismatch, "support term requires a refund policy", t.Type, nil)
			}
		case models.TermTypeLegal:
			for _, d := range t.Documents {
				if err := validateEulaDocument(d); err != nil {
					return err
				}
			}
		case models.TermTypeHourlyPricing, models.TermTypeAnnualPricing:
			for _, group := range t.RateCards {
				for _, card := range group.RateCard {
					if _, err := decimal.NewFromString(card.Price); err != nil {
						return NewError(ErrSchemaMismatch,
							fmt.Sprintf("price %q is not a decimal value", card.Price), card.DimensionKey, err)
					}
				}
			}
		case models.TermTypeMonthlyFee:
			if _, err := decimal.NewFromString(t.Price); err != nil {
				return NewError(ErrSchemaMismatch,
					fmt.Sprintf("price %q is not a decimal value", t.Price), t.Type, err)
			}
		case models.TermTypeValidity:
			// validity terms only appear on offer creation, nothing to diff
		default:
			return NewError(ErrSchemaMismatch, "unknown term type", t.Type, nil)
		}
	}
	return nil
}

func validateEulaDocument(d models.EulaDocument) error {
	switch d.Type {
	case "CustomEula":
		if d.Version != "" {
			return NewError(ErrSchemaMismatch, "custom EULA cannot declare a standard document version", d.Type, nil)
		}
		if d.URL == "" {
			return NewError(ErrSchemaMismatch, "custom EULA requires a document URL", d.Type, nil)
		}
	case "StandardEula":
		if d.URL != "" {
			return NewError(ErrSchemaMismatch, "standard EULA cannot carry a custom document URL", d.Type, nil)
		}
		if d.Version == "" {
			return NewError(ErrSchemaMismatch, "standard EULA requires a version", d.Type, nil)
		}
	default:
		return NewError(ErrSchemaMismatch, "unknown EULA document type", d.Type, nil)
	}
	return nil
}

func equalValues(remote, desired any, unordered bool) bool {
	if unordered {
		remoteSet, okRemote := stringSet(remote)
		desiredSet, okDesired := stringSet(desired)
		if okRemote && okDesired {
			return reflect.DeepEqual(remoteSet, desiredSet)
		}
	}
	return reflect.DeepEqual(remote, desired)
}

func stringSet(v any) (map[string]bool, bool) {
	values, ok := v.([]string)
	if !ok {
		return nil, false
	}
	set := make(map[string]bool, len(values))
	for _, s := range values {
		set[s] = true
	}
	return set, true
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func effectiveRateCard(t *models.Term) []models.RateCard {
	if t == nil || len(t.RateCards) == 0 {
		return nil
	}
	return t.RateCards[len(t.RateCards)-1].RateCard
}

func descriptionOrZero(doc *models.ListingDocument) models.Description {
	if doc.Description == nil {
		return models.Description{}
	}
	return *doc.Description
}

func promotionalOrZero(doc *models.ListingDocument) models.PromotionalResources {
	if doc.PromotionalResources == nil {
		return models.PromotionalResources{}
	}
	return *doc.PromotionalResources
}

func supportOrZero(doc *models.ListingDocument) models.SupportInformation {
	if doc.SupportInformation == nil {
		return models.SupportInformation{}
	}
	return *doc.SupportInformation
}

func regionOrZero(doc *models.ListingDocument) models.RegionAvailability {
	if doc.RegionAvailability == nil {
		return models.RegionAvailability{}
	}
	return *doc.RegionAvailability
}

func versionOrNil(doc *models.ListingDocument) any {
	if doc.Version == nil {
		return nil
	}
	return *doc.Version
}

func refundPolicyOrEmpty(t *models.Term) string {
	if t == nil {
		return ""
	}
	return t.RefundPolicy
}

func documentsOrNil(t *models.Term) []models.EulaDocument {
	if t == nil {
		return nil
	}
	return t.Documents
}

func priceOrEmpty(t *models.Term) string {
	if t == nil {
		return ""
	}
	return t.Price
}
