package catalog

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/marketplacecatalog"

	"github.com/canonical/awsmp/internal/changeset"
	"github.com/canonical/awsmp/internal/models"
)

// CatalogClientAPI defines the interface for Marketplace Catalog operations we need to mock
//
//go:generate mockery --name=CatalogClientAPI --output=./mocks
type CatalogClientAPI interface {
	StartChangeSet(ctx context.Context, params *marketplacecatalog.StartChangeSetInput, optFns ...func(*marketplacecatalog.Options)) (*marketplacecatalog.StartChangeSetOutput, error)
	DescribeChangeSet(ctx context.Context, params *marketplacecatalog.DescribeChangeSetInput, optFns ...func(*marketplacecatalog.Options)) (*marketplacecatalog.DescribeChangeSetOutput, error)
	CancelChangeSet(ctx context.Context, params *marketplacecatalog.CancelChangeSetInput, optFns ...func(*marketplacecatalog.Options)) (*marketplacecatalog.CancelChangeSetOutput, error)
	DescribeEntity(ctx context.Context, params *marketplacecatalog.DescribeEntityInput, optFns ...func(*marketplacecatalog.Options)) (*marketplacecatalog.DescribeEntityOutput, error)
	ListEntities(ctx context.Context, params *marketplacecatalog.ListEntitiesInput, optFns ...func(*marketplacecatalog.Options)) (*marketplacecatalog.ListEntitiesOutput, error)
}

// GatewayAPI defines the interface for catalog gateway operations
//
//go:generate mockery --name=GatewayAPI --output=./mocks
type GatewayAPI interface {
	DescribeListing(ctx context.Context, productID string) (*models.ListingDocument, error)
	DescribeOfferTerms(ctx context.Context, offerID string) ([]models.Term, error)
	ListProducts(ctx context.Context) ([]models.EntitySummary, error)
	ListOffers(ctx context.Context) ([]models.EntitySummary, error)
	PublicOfferID(ctx context.Context, productID string) (string, error)
	StartChangeSet(ctx context.Context, name string, requests []changeset.ChangeRequest) (string, error)
	DescribeChangeSet(ctx context.Context, changeSetID string) (*ChangeSetDetails, error)
	CancelChangeSet(ctx context.Context, changeSetID string) error
}
