package changeset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/awsmp/internal/diff"
	"github.com/canonical/awsmp/internal/models"
)

// Applying a built plan to the remote document must converge it onto the
// desired one: re-diffing afterwards yields nothing. The apply helpers below
// mirror what the remote API does with each change document.

func applyPlan(t *testing.T, remote *models.ListingDocument, operations []ChangeOperation) {
	t.Helper()
	for _, op := range operations {
		switch op.Kind {
		case OpUpdateDescription:
			payload := op.Payload.(DescriptionPayload)
			remote.Description = payload.Description
			remote.PromotionalResources = payload.PromotionalResources
			remote.SupportInformation = payload.SupportInformation
		case OpUpdateRegion:
			payload := op.Payload.(RegionPayload)
			remote.RegionAvailability = &models.RegionAvailability{
				Regions:             payload.Regions,
				FutureRegionSupport: payload.FutureRegionSupport,
			}
		case OpUpdateVersion:
			remote.Version = op.Payload.(*models.Version)
		case OpUpdateLegalTerms:
			payload := op.Payload.(LegalTermsPayload)
			remote.Term(models.TermTypeLegal).Documents = payload.Documents
		case OpUpdateSupportTerms:
			payload := op.Payload.(SupportTermsPayload)
			remote.Term(models.TermTypeSupport).RefundPolicy = payload.RefundPolicy
		case OpRestrictInstanceType:
			payload := op.Payload.(RestrictPayload)
			removeDimensionCard(remote.Term(models.TermTypeHourlyPricing), payload.InstanceType)
			removeDimensionCard(remote.Term(models.TermTypeAnnualPricing), payload.InstanceType)
		case OpAddInstanceType:
			payload := op.Payload.(InstanceTypePayload)
			addDimensionCard(remote.Term(models.TermTypeHourlyPricing), payload.InstanceType, payload.HourlyPrice)
			if payload.AnnualPrice != "" {
				addDimensionCard(remote.Term(models.TermTypeAnnualPricing), payload.InstanceType, payload.AnnualPrice)
			}
		default:
			t.Fatalf("unexpected operation kind %s", op.Kind)
		}
	}
}

// removeDimensionCard drops a dimension from the term's effective rate card.
func removeDimensionCard(term *models.Term, dimension string) {
	if term == nil || len(term.RateCards) == 0 {
		return
	}
	group := &term.RateCards[len(term.RateCards)-1]
	cards := group.RateCard[:0]
	for _, card := range group.RateCard {
		if card.DimensionKey != dimension {
			cards = append(cards, card)
		}
	}
	group.RateCard = cards
}

// addDimensionCard appends a dimension to the term's effective rate card.
func addDimensionCard(term *models.Term, dimension, price string) {
	if term == nil || len(term.RateCards) == 0 {
		return
	}
	group := &term.RateCards[len(term.RateCards)-1]
	group.RateCard = append(group.RateCard, models.RateCard{DimensionKey: dimension, Price: price})
}

func TestPlanAppliedToRemoteConverges(t *testing.T) {
	desired := &models.ListingDocument{
		Description: &models.Description{
			ProductTitle:     "Ubuntu Pro 24.04",
			ShortDescription: "Short",
			LongDescription:  "Long",
			Highlights:       []string{"A", "B"},
		},
		PromotionalResources: &models.PromotionalResources{LogoURL: "https://example.com/logo-v2.png"},
		SupportInformation:   &models.SupportInformation{Description: "New support"},
		RegionAvailability: &models.RegionAvailability{
			Regions:             []string{"us-east-1", "us-west-2"},
			FutureRegionSupport: "All",
		},
		Version: &models.Version{VersionTitle: "24.04.1", AmiID: "ami-0123456789abcdef1", OSName: "ubuntu"},
		Terms: []models.Term{
			{Type: models.TermTypeSupport, RefundPolicy: "No refunds."},
			{
				Type:      models.TermTypeLegal,
				Documents: []models.EulaDocument{{Type: "CustomEula", URL: "https://example.com/eula.pdf"}},
			},
			{
				Type:         models.TermTypeHourlyPricing,
				CurrencyCode: "USD",
				RateCards: []models.RateCardGroup{{RateCard: []models.RateCard{
					{DimensionKey: "c3.large", Price: "0.12"},
					{DimensionKey: "t2.nano", Price: "0.05"},
				}}},
			},
		},
	}
	remote := &models.ListingDocument{
		Description: &models.Description{
			ProductTitle:     "Ubuntu Pro",
			ShortDescription: "Short",
			LongDescription:  "Long",
			Highlights:       []string{"A"},
		},
		PromotionalResources: &models.PromotionalResources{LogoURL: "https://example.com/logo.png"},
		SupportInformation:   &models.SupportInformation{Description: "Old support"},
		RegionAvailability: &models.RegionAvailability{
			Regions:             []string{"us-east-1"},
			FutureRegionSupport: "None",
		},
		Version: &models.Version{VersionTitle: "24.04.0", AmiID: "ami-0123456789abcdef0", OSName: "UBUNTU"},
		Terms: []models.Term{
			{Type: models.TermTypeSupport, RefundPolicy: "Refunds within 30 days."},
			{
				Type:      models.TermTypeLegal,
				Documents: []models.EulaDocument{{Type: "StandardEula", Version: "2022-07-14"}},
			},
			{
				Type:         models.TermTypeHourlyPricing,
				CurrencyCode: "USD",
				RateCards: []models.RateCardGroup{{RateCard: []models.RateCard{
					{DimensionKey: "c3.large", Price: "0.10"},
					{DimensionKey: "m5.large", Price: "0.20"},
				}}},
			},
		},
	}

	entries, err := diff.Compare(diff.Normalize(desired), diff.Normalize(remote))
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	kept, skipped := diff.FilterPricingChanges(entries, true)
	require.Empty(t, skipped)

	operations, err := Build(desired, kept, testIDs)
	require.NoError(t, err)
	require.NotEmpty(t, operations)

	applyPlan(t, remote, operations)

	converged, err := diff.Compare(desired, remote)
	require.NoError(t, err)
	assert.Empty(t, converged)
}
