package changeset

import (
	"fmt"
	"time"

	"github.com/canonical/awsmp/internal/models"
)

// Forward references resolve to entities created earlier in the same change
// set, as the catalog API defines them.
const (
	refCreatedOffer   = "$CreateOfferChange.Entity.Identifier"
	refCreatedProduct = "$CreateProductChange.Entity.Identifier"
)

// ChangeRequest is one entry of a StartChangeSet request, kept free of SDK
// types so the planning layers never depend on the transport. Details is
// JSON-serialized by the gateway.
type ChangeRequest struct {
	ChangeType string
	ChangeName string
	EntityType string
	EntityID   string
	Details    any
}

// Render translates built operations into the change documents the catalog
// API accepts. Instance-type operations collapse into one change per change
// type (restricts, dimensions, instance types) plus a single offer pricing
// update carrying pricingTerms, which must be the complete effective rate
// cards of the offer — UpdatePricingTerms replaces them wholesale.
func Render(operations []ChangeOperation, pricingTerms []models.Term) ([]ChangeRequest, error) {
	var requests []ChangeRequest

	var restricted, added []string
	var addPayloads []InstanceTypePayload
	var pricingProductID, pricingOfferID string

	for _, op := range operations {
		switch op.Kind {
		case OpUpdateDescription:
			payload, err := payloadAs[DescriptionPayload](op)
			if err != nil {
				return nil, err
			}
			requests = append(requests, ChangeRequest{
				ChangeType: "UpdateInformation",
				EntityType: models.EntityTypeAmiProduct,
				EntityID:   op.EntityID,
				Details:    descriptionDetails(payload),
			})
		case OpUpdateRegion:
			payload, err := payloadAs[RegionPayload](op)
			if err != nil {
				return nil, err
			}
			requests = append(requests,
				ChangeRequest{
					ChangeType: "AddRegions",
					EntityType: models.EntityTypeAmiProduct,
					EntityID:   op.EntityID,
					Details:    map[string]any{"Regions": payload.Regions},
				},
				ChangeRequest{
					ChangeType: "UpdateFutureRegionSupport",
					EntityType: models.EntityTypeAmiProduct,
					EntityID:   op.EntityID,
					Details: map[string]any{
						"FutureRegionSupport": map[string]any{
							"SupportedRegions": []string{payload.FutureRegionSupport},
						},
					},
				})
		case OpUpdateVersion:
			payload, err := payloadAs[*models.Version](op)
			if err != nil {
				return nil, err
			}
			requests = append(requests, ChangeRequest{
				ChangeType: "AddDeliveryOptions",
				EntityType: models.EntityTypeAmiProduct,
				EntityID:   op.EntityID,
				Details:    versionDetails(payload),
			})
		case OpUpdateLegalTerms:
			payload, err := payloadAs[LegalTermsPayload](op)
			if err != nil {
				return nil, err
			}
			requests = append(requests, ChangeRequest{
				ChangeType: "UpdateLegalTerms",
				EntityType: models.EntityTypeOffer,
				EntityID:   op.EntityID,
				Details: map[string]any{
					"Terms": []any{map[string]any{
						"Type":      "LegalTerm",
						"Documents": payload.Documents,
					}},
				},
			})
		case OpUpdateSupportTerms:
			payload, err := payloadAs[SupportTermsPayload](op)
			if err != nil {
				return nil, err
			}
			requests = append(requests, ChangeRequest{
				ChangeType: "UpdateSupportTerms",
				EntityType: models.EntityTypeOffer,
				EntityID:   op.EntityID,
				Details: map[string]any{
					"Terms": []any{map[string]any{
						"Type":         "SupportTerm",
						"RefundPolicy": payload.RefundPolicy,
					}},
				},
			})
		case OpRestrictInstanceType:
			payload, err := payloadAs[RestrictPayload](op)
			if err != nil {
				return nil, err
			}
			restricted = append(restricted, payload.InstanceType)
			pricingProductID = op.EntityID
			if op.OfferID != "" {
				pricingOfferID = op.OfferID
			}
		case OpAddInstanceType:
			payload, err := payloadAs[InstanceTypePayload](op)
			if err != nil {
				return nil, err
			}
			added = append(added, payload.InstanceType)
			addPayloads = append(addPayloads, payload)
			pricingProductID = op.EntityID
			if op.OfferID != "" {
				pricingOfferID = op.OfferID
			}
		default:
			return nil, NewError(ErrInvalidInput,
				fmt.Sprintf("unknown operation kind %q", op.Kind), string(op.Kind), nil)
		}
	}

	if len(restricted) > 0 {
		requests = append(requests, ChangeRequest{
			ChangeType: "RestrictInstanceTypes",
			EntityType: models.EntityTypeAmiProduct,
			EntityID:   pricingProductID,
			Details:    map[string]any{"InstanceTypes": restricted},
		})
	}
	if len(added) > 0 {
		dimensions := make([]any, len(addPayloads))
		for i, payload := range addPayloads {
			dimensions[i] = meteredDimension(payload.InstanceType, payload.DimensionUnit)
		}
		requests = append(requests,
			ChangeRequest{
				ChangeType: "AddDimensions",
				EntityType: models.EntityTypeAmiProduct,
				EntityID:   pricingProductID,
				Details:    dimensions,
			},
			ChangeRequest{
				ChangeType: "AddInstanceTypes",
				EntityType: models.EntityTypeAmiProduct,
				EntityID:   pricingProductID,
				Details:    map[string]any{"InstanceTypes": added},
			})
	}
	if (len(restricted) > 0 || len(added) > 0) && pricingOfferID != "" {
		if len(pricingTerms) == 0 {
			return nil, NewError(ErrInvalidInput,
				"pricing operations require the offer's effective pricing terms", "", nil)
		}
		requests = append(requests, updatePricingTermsRequest(pricingOfferID, pricingTerms))
	}

	return requests, nil
}

// OfferCreationParams describes a new private offer.
type OfferCreationParams struct {
	ProductID        string
	OfferName        string
	BuyerAccounts    []string
	Pricing          []models.InstanceTypePricing
	AvailableForDays int
	ValidForDays     int
	// EulaURL selects a custom EULA; empty means the AWS standard EULA.
	EulaURL string
}

// OfferCreationRequests builds the full change sequence that creates,
// configures and releases a private offer in one change set. Later changes
// reference the created offer through the catalog's forward-reference syntax.
func OfferCreationRequests(p OfferCreationParams) []ChangeRequest {
	availabilityEnd := time.Now().AddDate(0, 0, p.AvailableForDays).Format("2006-01-02")
	return []ChangeRequest{
		{
			ChangeType: "CreateOffer",
			ChangeName: "CreateOfferChange",
			EntityType: models.EntityTypeOffer,
			Details:    map[string]any{"ProductId": p.ProductID},
		},
		{
			ChangeType: "UpdateInformation",
			EntityType: models.EntityTypeOffer,
			EntityID:   refCreatedOffer,
			Details: map[string]any{
				"Name":        p.OfferName,
				"Description": fmt.Sprintf("Private offer for product %s", p.ProductID),
			},
		},
		{
			ChangeType: "UpdateTargeting",
			EntityType: models.EntityTypeOffer,
			EntityID:   refCreatedOffer,
			Details: map[string]any{
				"PositiveTargeting": map[string]any{"BuyerAccounts": p.BuyerAccounts},
			},
		},
		updatePricingTermsRequest(refCreatedOffer, models.PricingTerms(p.Pricing, false)),
		{
			ChangeType: "UpdateAvailability",
			EntityType: models.EntityTypeOffer,
			EntityID:   refCreatedOffer,
			Details:    map[string]any{"AvailabilityEndDate": availabilityEnd},
		},
		{
			ChangeType: "UpdateLegalTerms",
			EntityType: models.EntityTypeOffer,
			EntityID:   refCreatedOffer,
			Details: map[string]any{
				"Terms": []any{map[string]any{
					"Type":      "LegalTerm",
					"Documents": []models.EulaDocument{eulaDocument(p.EulaURL)},
				}},
			},
		},
		{
			ChangeType: "UpdateValidityTerms",
			EntityType: models.EntityTypeOffer,
			EntityID:   refCreatedOffer,
			Details: map[string]any{
				"Terms": []any{map[string]any{
					"Type":              "ValidityTerm",
					"AgreementDuration": fmt.Sprintf("P%dD", p.ValidForDays),
				}},
			},
		},
		{
			ChangeType: "ReleaseOffer",
			EntityType: models.EntityTypeOffer,
			EntityID:   refCreatedOffer,
			Details:    map[string]any{},
		},
	}
}

// ProductCreationRequests builds the change sequence that creates a new AMI
// product together with its public offer.
func ProductCreationRequests() []ChangeRequest {
	return []ChangeRequest{
		{
			ChangeType: "CreateProduct",
			ChangeName: "CreateProductChange",
			EntityType: models.EntityTypeAmiProduct,
			Details:    map[string]any{},
		},
		{
			ChangeType: "CreateOffer",
			ChangeName: "CreateOfferChange",
			EntityType: models.EntityTypeOffer,
			Details:    map[string]any{"ProductId": refCreatedProduct},
		},
	}
}

// ProductReleaseRequests builds the change sequence that publishes a product
// and its public offer as limited.
func ProductReleaseRequests(productID, offerID string) []ChangeRequest {
	return []ChangeRequest{
		{
			ChangeType: "ReleaseProduct",
			EntityType: models.EntityTypeAmiProduct,
			EntityID:   productID,
			Details:    map[string]any{},
		},
		{
			ChangeType: "UpdateInformation",
			EntityType: models.EntityTypeOffer,
			EntityID:   offerID,
			Details: map[string]any{
				"Name": fmt.Sprintf("Product id %s public offer", productID),
			},
		},
		{
			ChangeType: "ReleaseOffer",
			EntityType: models.EntityTypeOffer,
			EntityID:   offerID,
			Details:    map[string]any{},
		},
	}
}

func updatePricingTermsRequest(offerID string, terms []models.Term) ChangeRequest {
	return ChangeRequest{
		ChangeType: "UpdatePricingTerms",
		EntityType: models.EntityTypeOffer,
		EntityID:   offerID,
		Details: map[string]any{
			"PricingModel": "Usage",
			"Terms":        terms,
		},
	}
}

func descriptionDetails(payload DescriptionPayload) map[string]any {
	details := make(map[string]any)
	if payload.Description != nil {
		details["ProductTitle"] = payload.Description.ProductTitle
		details["ShortDescription"] = payload.Description.ShortDescription
		details["LongDescription"] = payload.Description.LongDescription
		details["Highlights"] = payload.Description.Highlights
		details["SearchKeywords"] = payload.Description.SearchKeywords
		details["Categories"] = payload.Description.Categories
		details["Sku"] = payload.Description.Sku
	}
	if payload.PromotionalResources != nil {
		details["LogoUrl"] = payload.PromotionalResources.LogoURL
		details["VideoUrls"] = payload.PromotionalResources.Videos
		details["AdditionalResources"] = payload.PromotionalResources.AdditionalResources
	}
	if payload.SupportInformation != nil {
		details["SupportDescription"] = payload.SupportInformation.Description
	}
	return details
}

func versionDetails(v *models.Version) map[string]any {
	return map[string]any{
		"Version": map[string]any{
			"VersionTitle": v.VersionTitle,
			"ReleaseNotes": v.ReleaseNotes,
		},
		"DeliveryOptions": []any{map[string]any{
			"Details": map[string]any{
				"AmiDeliveryOptionDetails": map[string]any{
					"AmiSource": map[string]any{
						"AmiId":                  v.AmiID,
						"AccessRoleArn":          v.AccessRoleArn,
						"UserName":               v.OSUserName,
						"OperatingSystemName":    v.OSName,
						"OperatingSystemVersion": v.OSVersion,
						"ScanningPort":           v.ScanningPort,
					},
					"UsageInstructions":       v.UsageInstructions,
					"RecommendedInstanceType": v.RecommendedInstanceType,
					"SecurityGroups": []any{map[string]any{
						"IpProtocol": v.IPProtocol,
						"IpRanges":   v.IPRanges,
						"FromPort":   v.FromPort,
						"ToPort":     v.ToPort,
					}},
				},
			},
		}},
	}
}

func meteredDimension(instanceType, unit string) map[string]any {
	if unit == "" {
		unit = defaultDimensionUnit
	}
	return map[string]any{
		"Description": instanceType,
		"Key":         instanceType,
		"Name":        instanceType,
		"Types":       []string{"Metered"},
		"Unit":        unit,
	}
}

func eulaDocument(eulaURL string) models.EulaDocument {
	if eulaURL != "" {
		return models.EulaDocument{Type: "CustomEula", URL: eulaURL}
	}
	return models.EulaDocument{Type: "StandardEula", Version: "2022-07-14"}
}

func payloadAs[T any](op ChangeOperation) (T, error) {
	payload, ok := op.Payload.(T)
	if !ok {
		var zero T
		return zero, NewError(ErrInvalidInput,
			fmt.Sprintf("operation %s carries a %T payload", op.Kind, op.Payload), string(op.Kind), nil)
	}
	return payload, nil
}
