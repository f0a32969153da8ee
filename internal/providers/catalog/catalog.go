package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/marketplacecatalog"
	"github.com/aws/aws-sdk-go-v2/service/marketplacecatalog/types"

	"github.com/canonical/awsmp/internal/changeset"
	"github.com/canonical/awsmp/internal/models"
)

// catalogName is the only catalog the Marketplace Catalog API serves.
const catalogName = "AWSMarketplace"

// changeSetNameMaxLength is the API limit on change set names.
const changeSetNameMaxLength = 100

// ChangeSetDetails is the gateway's view of a DescribeChangeSet response.
// Status carries the raw API value (PREPARING, APPLYING, SUCCEEDED, CANCELLED,
// FAILED); mapping it onto the reconciliation lifecycle is the caller's job.
type ChangeSetDetails struct {
	ID                 string
	Name               string
	Status             string
	FailureCode        string
	FailureDescription string
	ErrorDetails       []string
}

// Gateway handles interactions with the AWS Marketplace Catalog API
type Gateway struct {
	client CatalogClientAPI
}

// NewGatewayWithDefaultConfig creates a new Gateway with the default AWS SDK configuration
func NewGatewayWithDefaultConfig(ctx context.Context) (*Gateway, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return NewGatewayWithClient(marketplacecatalog.NewFromConfig(cfg)), nil
}

// NewGatewayWithClient creates a new Gateway with a provided client
func NewGatewayWithClient(client CatalogClientAPI) *Gateway {
	return &Gateway{
		client: client,
	}
}

// DescribeListing retrieves a product entity and parses its details document
// into the typed listing sections. Top-level sections the tool does not manage
// are preserved in Extra.
func (g *Gateway) DescribeListing(ctx context.Context, productID string) (*models.ListingDocument, error) {
	details, err := g.describeEntityDetails(ctx, models.EntityTypeAmiProduct, productID)
	if err != nil {
		return nil, err
	}

	doc := &models.ListingDocument{}
	if err := json.Unmarshal(details, doc); err != nil {
		return nil, NewCatalogError(ErrInternalError, models.EntityTypeAmiProduct, productID,
			"Malformed entity details document", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(details, &raw); err == nil {
		for _, section := range []string{
			"Description", "PromotionalResources", "SupportInformation",
			"RegionAvailability", "Version", "Terms",
		} {
			delete(raw, section)
		}
		if len(raw) > 0 {
			doc.Extra = raw
		}
	}

	return doc, nil
}

// DescribeOfferTerms retrieves an offer entity and returns its terms list.
func (g *Gateway) DescribeOfferTerms(ctx context.Context, offerID string) ([]models.Term, error) {
	details, err := g.describeEntityDetails(ctx, models.EntityTypeOffer, offerID)
	if err != nil {
		return nil, err
	}

	var offer struct {
		Terms []models.Term `json:"Terms"`
	}
	if err := json.Unmarshal(details, &offer); err != nil {
		return nil, NewCatalogError(ErrInternalError, models.EntityTypeOffer, offerID,
			"Malformed entity details document", err)
	}

	return offer.Terms, nil
}

// ListProducts returns a summary of every AMI product the account owns.
func (g *Gateway) ListProducts(ctx context.Context) ([]models.EntitySummary, error) {
	return g.listEntities(ctx, models.EntityTypeAmiProduct, nil)
}

// ListOffers returns a summary of every offer the account owns.
func (g *Gateway) ListOffers(ctx context.Context) ([]models.EntitySummary, error) {
	return g.listEntities(ctx, models.EntityTypeOffer, nil)
}

// PublicOfferID resolves the single public (non-targeted) offer of a product.
func (g *Gateway) PublicOfferID(ctx context.Context, productID string) (string, error) {
	offers, err := g.listEntities(ctx, models.EntityTypeOffer, []types.Filter{
		{Name: aws.String("ProductId"), ValueList: []string{productID}},
		{Name: aws.String("Targeting"), ValueList: []string{"None"}},
	})
	if err != nil {
		return "", err
	}

	switch len(offers) {
	case 1:
		return offers[0].ID, nil
	case 0:
		return "", NewCatalogError(ErrResourceNotFound, models.EntityTypeOffer, "",
			fmt.Sprintf("No public offer found for product %s", productID), nil)
	default:
		return "", NewCatalogError(ErrInternalError, models.EntityTypeOffer, "",
			fmt.Sprintf("Expected one public offer for product %s, found %d", productID, len(offers)), nil)
	}
}

// StartChangeSet submits the change requests as one change set and returns its
// id. The name is sanitized to satisfy the API's character restrictions.
func (g *Gateway) StartChangeSet(ctx context.Context, name string, requests []changeset.ChangeRequest) (string, error) {
	if len(requests) == 0 {
		return "", NewCatalogError(ErrInvalidInput, "", "",
			"A change set requires at least one change", nil)
	}

	changes := make([]types.Change, 0, len(requests))
	for _, req := range requests {
		details, err := json.Marshal(req.Details)
		if err != nil {
			return "", NewCatalogError(ErrInternalError, req.EntityType, req.EntityID,
				fmt.Sprintf("Cannot serialize %s change details", req.ChangeType), err)
		}

		change := types.Change{
			ChangeType: aws.String(req.ChangeType),
			Entity:     &types.Entity{Type: aws.String(req.EntityType)},
			Details:    aws.String(string(details)),
		}
		if req.EntityID != "" {
			change.Entity.Identifier = aws.String(req.EntityID)
		}
		if req.ChangeName != "" {
			change.ChangeName = aws.String(req.ChangeName)
		}
		changes = append(changes, change)
	}

	out, err := g.client.StartChangeSet(ctx, &marketplacecatalog.StartChangeSetInput{
		Catalog:       aws.String(catalogName),
		ChangeSet:     changes,
		ChangeSetName: aws.String(SanitizeChangeSetName(name)),
	})
	if err != nil {
		return "", ClassifyCatalogError(err, "", "")
	}

	return aws.ToString(out.ChangeSetId), nil
}

// DescribeChangeSet retrieves the current state of a change set, including
// per-change error details when it failed.
func (g *Gateway) DescribeChangeSet(ctx context.Context, changeSetID string) (*ChangeSetDetails, error) {
	out, err := g.client.DescribeChangeSet(ctx, &marketplacecatalog.DescribeChangeSetInput{
		Catalog:     aws.String(catalogName),
		ChangeSetId: aws.String(changeSetID),
	})
	if err != nil {
		return nil, ClassifyCatalogError(err, "", changeSetID)
	}

	details := &ChangeSetDetails{
		ID:                 aws.ToString(out.ChangeSetId),
		Name:               aws.ToString(out.ChangeSetName),
		Status:             string(out.Status),
		FailureCode:        string(out.FailureCode),
		FailureDescription: aws.ToString(out.FailureDescription),
	}
	for _, change := range out.ChangeSet {
		for _, detail := range change.ErrorDetailList {
			details.ErrorDetails = append(details.ErrorDetails,
				fmt.Sprintf("%s: %s", aws.ToString(detail.ErrorCode), aws.ToString(detail.ErrorMessage)))
		}
	}

	return details, nil
}

// CancelChangeSet cancels a change set that has not been applied yet.
func (g *Gateway) CancelChangeSet(ctx context.Context, changeSetID string) error {
	_, err := g.client.CancelChangeSet(ctx, &marketplacecatalog.CancelChangeSetInput{
		Catalog:     aws.String(catalogName),
		ChangeSetId: aws.String(changeSetID),
	})
	if err != nil {
		return ClassifyCatalogError(err, "", changeSetID)
	}
	return nil
}

// SanitizeChangeSetName removes the characters the API rejects and trims the
// name to the allowed length.
func SanitizeChangeSetName(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case ',', '(', ')':
			return -1
		}
		return r
	}, name)
	if len(sanitized) > changeSetNameMaxLength {
		sanitized = sanitized[:changeSetNameMaxLength]
	}
	return sanitized
}

func (g *Gateway) describeEntityDetails(ctx context.Context, entityType, entityID string) ([]byte, error) {
	out, err := g.client.DescribeEntity(ctx, &marketplacecatalog.DescribeEntityInput{
		Catalog:  aws.String(catalogName),
		EntityId: aws.String(entityID),
	})
	if err != nil {
		return nil, ClassifyCatalogError(err, entityType, entityID)
	}
	if out.Details == nil {
		return nil, NewCatalogError(ErrInternalError, entityType, entityID,
			"Entity has no details document", nil)
	}
	return []byte(aws.ToString(out.Details)), nil
}

func (g *Gateway) listEntities(ctx context.Context, entityType string, filters []types.Filter) ([]models.EntitySummary, error) {
	var summaries []models.EntitySummary
	var nextToken *string

	for {
		out, err := g.client.ListEntities(ctx, &marketplacecatalog.ListEntitiesInput{
			Catalog:    aws.String(catalogName),
			EntityType: aws.String(strings.SplitN(entityType, "@", 2)[0]),
			FilterList: filters,
			NextToken:  nextToken,
		})
		if err != nil {
			return nil, ClassifyCatalogError(err, entityType, "")
		}

		for _, entity := range out.EntitySummaryList {
			summaries = append(summaries, models.EntitySummary{
				ID:            aws.ToString(entity.EntityId),
				Name:          aws.ToString(entity.Name),
				Visibility:    aws.ToString(entity.Visibility),
				LastChangedAt: aws.ToString(entity.LastModifiedDate),
			})
		}

		if out.NextToken == nil || aws.ToString(out.NextToken) == "" {
			return summaries, nil
		}
		nextToken = out.NextToken
	}
}
