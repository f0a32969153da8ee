package changeset

import "github.com/canonical/awsmp/internal/models"

// OperationKind is the closed set of change operations the builder emits.
type OperationKind string

const (
	OpUpdateDescription    OperationKind = "UpdateDescription"
	OpUpdateRegion         OperationKind = "UpdateRegion"
	OpAddInstanceType      OperationKind = "AddInstanceType"
	OpRestrictInstanceType OperationKind = "RestrictInstanceType"
	OpUpdateVersion        OperationKind = "UpdateVersion"
	OpUpdateLegalTerms     OperationKind = "UpdateLegalTerms"
	OpUpdateSupportTerms   OperationKind = "UpdateSupportTerms"
)

// TargetIDs carries the remote entity identifiers operations are built
// against. OfferID may be empty when no offer-scoped operation is needed.
type TargetIDs struct {
	ProductID string
	OfferID   string
}

// ChangeOperation is one planned mutation of the remote listing. Operations
// are immutable once built and owned by the orchestrator until submitted.
type ChangeOperation struct {
	Kind     OperationKind
	EntityID string
	// OfferID is set on pricing operations whose rate cards also live on the
	// public offer.
	OfferID string
	Payload any
}

// DescriptionPayload aggregates every description-section change into the one
// information update the remote API accepts per change set.
type DescriptionPayload struct {
	Description          *models.Description
	PromotionalResources *models.PromotionalResources
	SupportInformation   *models.SupportInformation
}

// RegionPayload carries the full desired region availability.
type RegionPayload struct {
	Regions             []string
	FutureRegionSupport string
}

// InstanceTypePayload prices one instance type dimension to add. AnnualPrice
// is empty for offers without upfront pricing.
type InstanceTypePayload struct {
	InstanceType string
	HourlyPrice  string
	AnnualPrice  string
	// DimensionUnit is the billing unit of the metered dimension, "Hrs"
	// unless the product meters in units.
	DimensionUnit string
}

// RestrictPayload names the instance type dimension to restrict.
type RestrictPayload struct {
	InstanceType string
}

// LegalTermsPayload carries the desired EULA documents.
type LegalTermsPayload struct {
	Documents []models.EulaDocument
}

// SupportTermsPayload carries the desired refund policy.
type SupportTermsPayload struct {
	RefundPolicy string
}
