package changeset

import (
	"fmt"

	"github.com/canonical/awsmp/internal/models"
)

// defaultDimensionUnit is the billing unit used for metered AMI dimensions.
const defaultDimensionUnit = "Hrs"

// dimensionChange accumulates the diff kinds observed for one instance type
// dimension across the hourly and annual rate cards.
type dimensionChange struct {
	added   bool
	changed bool
	removed bool
}

// Build translates a diff into the minimal ordered sequence of change
// operations. Entries for the same operation kind are merged, because the
// remote API accepts one change document per kind per change set. The desired
// document supplies the full section payloads aggregated operations carry.
//
// Pricing diffs expand per dimension: a new dimension becomes one
// AddInstanceType; a changed or removed dimension becomes a
// RestrictInstanceType, followed by an AddInstanceType with the new pricing
// when the dimension is still desired. The restrict always precedes its add —
// priced dimensions are immutable remotely, so a price update only exists as
// restrict-then-readd.
//
// Build is a pure transformation: same inputs, same plan.
func Build(desired *models.ListingDocument, entries []models.DiffEntry, ids TargetIDs) ([]ChangeOperation, error) {
	if desired == nil {
		return nil, NewError(ErrInvalidInput, "desired listing document is nil", "", nil)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	var order []string
	seen := make(map[string]bool)
	dimensions := make(map[string]*dimensionChange)

	for _, entry := range entries {
		key, err := groupKey(entry, dimensions)
		if err != nil {
			return nil, err
		}
		if !seen[key] {
			seen[key] = true
			order = append(order, key)
		}
	}

	hourlyIndex := desired.Term(models.TermTypeHourlyPricing).RateCardIndex()
	annualIndex := desired.Term(models.TermTypeAnnualPricing).RateCardIndex()

	var operations []ChangeOperation
	for _, key := range order {
		switch key {
		case "description":
			if err := requireProductID(ids, OpUpdateDescription); err != nil {
				return nil, err
			}
			operations = append(operations, ChangeOperation{
				Kind:     OpUpdateDescription,
				EntityID: ids.ProductID,
				Payload: DescriptionPayload{
					Description:          desired.Description,
					PromotionalResources: desired.PromotionalResources,
					SupportInformation:   desired.SupportInformation,
				},
			})
		case "region":
			if err := requireProductID(ids, OpUpdateRegion); err != nil {
				return nil, err
			}
			region := desired.RegionAvailability
			if region == nil {
				return nil, NewError(ErrInvalidInput, "region diff without a desired region section", "Regions", nil)
			}
			operations = append(operations, ChangeOperation{
				Kind:     OpUpdateRegion,
				EntityID: ids.ProductID,
				Payload: RegionPayload{
					Regions:             region.Regions,
					FutureRegionSupport: region.FutureRegionSupport,
				},
			})
		case "version":
			if err := requireProductID(ids, OpUpdateVersion); err != nil {
				return nil, err
			}
			if desired.Version == nil {
				return nil, NewError(ErrInvalidInput, "version diff without a desired version section", "Version", nil)
			}
			operations = append(operations, ChangeOperation{
				Kind:     OpUpdateVersion,
				EntityID: ids.ProductID,
				Payload:  desired.Version,
			})
		case "legal":
			if ids.OfferID == "" {
				return nil, NewError(ErrMissingTargetID, "legal terms update requires an offer id", string(OpUpdateLegalTerms), nil)
			}
			term := desired.Term(models.TermTypeLegal)
			if term == nil {
				return nil, NewError(ErrInvalidInput, "legal terms diff without a desired legal term", "Documents", nil)
			}
			operations = append(operations, ChangeOperation{
				Kind:     OpUpdateLegalTerms,
				EntityID: ids.OfferID,
				Payload:  LegalTermsPayload{Documents: term.Documents},
			})
		case "support":
			if ids.OfferID == "" {
				return nil, NewError(ErrMissingTargetID, "support terms update requires an offer id", string(OpUpdateSupportTerms), nil)
			}
			term := desired.Term(models.TermTypeSupport)
			if term == nil {
				return nil, NewError(ErrInvalidInput, "support terms diff without a desired support term", "RefundPolicy", nil)
			}
			operations = append(operations, ChangeOperation{
				Kind:     OpUpdateSupportTerms,
				EntityID: ids.OfferID,
				Payload:  SupportTermsPayload{RefundPolicy: term.RefundPolicy},
			})
		default:
			dimension := key[len("dimension:"):]
			ops, err := dimensionOperations(dimension, dimensions[dimension], hourlyIndex, annualIndex, ids)
			if err != nil {
				return nil, err
			}
			operations = append(operations, ops...)
		}
	}
	return operations, nil
}

// groupKey maps a diff entry to the operation group it belongs to, recording
// per-dimension diff kinds for pricing entries along the way.
func groupKey(entry models.DiffEntry, dimensions map[string]*dimensionChange) (string, error) {
	switch entry.Section {
	case models.SectionDescription, models.SectionPromotionalResources, models.SectionSupportInformation:
		return "description", nil
	case models.SectionRegionAvailability:
		return "region", nil
	case models.SectionVersion:
		return "version", nil
	case models.SectionLegalTerms:
		return "legal", nil
	case models.SectionSupportTerms:
		return "support", nil
	case models.SectionHourlyPricing, models.SectionAnnualPricing:
		if !isRateCardEntry(entry) {
			return "", NewError(ErrUnsupportedChange,
				fmt.Sprintf("pricing term field %q cannot be changed through a change set", entry.Name), entry.Name, nil)
		}
		dc := dimensions[entry.Name]
		if dc == nil {
			dc = &dimensionChange{}
			dimensions[entry.Name] = dc
		}
		switch entry.Kind {
		case models.DiffAdded:
			dc.added = true
		case models.DiffChanged:
			dc.changed = true
		case models.DiffRemoved:
			dc.removed = true
		}
		return "dimension:" + entry.Name, nil
	case models.SectionMonthlyFee:
		return "", NewError(ErrUnsupportedChange,
			"monthly subscription fee cannot be changed through a listing change set", entry.Name, nil)
	}
	return "", NewError(ErrUnsupportedChange,
		fmt.Sprintf("no change operation exists for section %q", entry.Section), entry.Name, nil)
}

// dimensionOperations expands one dimension's accumulated diff kinds into its
// restrict/add operations. The restrict index always precedes the add index.
func dimensionOperations(
	dimension string,
	change *dimensionChange,
	hourlyIndex, annualIndex map[string]models.RateCard,
	ids TargetIDs,
) ([]ChangeOperation, error) {
	if err := requireProductID(ids, OpAddInstanceType); err != nil {
		return nil, err
	}

	var operations []ChangeOperation
	if change.changed || change.removed {
		operations = append(operations, ChangeOperation{
			Kind:     OpRestrictInstanceType,
			EntityID: ids.ProductID,
			OfferID:  ids.OfferID,
			Payload:  RestrictPayload{InstanceType: dimension},
		})
	}

	hourlyCard, hasHourly := hourlyIndex[dimension]
	annualCard, hasAnnual := annualIndex[dimension]
	if !hasHourly && !hasAnnual {
		// removed dimension, restrict is all there is to do
		return operations, nil
	}

	if hasAnnual && ids.OfferID == "" {
		return nil, NewError(ErrMissingTargetID,
			fmt.Sprintf("annual pricing for %s requires an offer id", dimension), dimension, nil)
	}

	payload := InstanceTypePayload{
		InstanceType:  dimension,
		HourlyPrice:   hourlyCard.Price,
		DimensionUnit: defaultDimensionUnit,
	}
	if hasAnnual {
		payload.AnnualPrice = annualCard.Price
	}
	operations = append(operations, ChangeOperation{
		Kind:     OpAddInstanceType,
		EntityID: ids.ProductID,
		OfferID:  ids.OfferID,
		Payload:  payload,
	})
	return operations, nil
}

func requireProductID(ids TargetIDs, kind OperationKind) error {
	if ids.ProductID == "" {
		return NewError(ErrMissingTargetID,
			fmt.Sprintf("%s requires a product id", kind), string(kind), nil)
	}
	return nil
}

func isRateCardEntry(entry models.DiffEntry) bool {
	switch entry.Kind {
	case models.DiffChanged:
		_, ok := entry.NewValue.(models.RateCard)
		return ok
	default:
		_, ok := entry.Value.(models.RateCard)
		return ok
	}
}
