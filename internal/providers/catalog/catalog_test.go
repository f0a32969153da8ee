package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/marketplacecatalog"
	"github.com/aws/aws-sdk-go-v2/service/marketplacecatalog/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/canonical/awsmp/internal/changeset"
	"github.com/canonical/awsmp/internal/models"
)

type mockCatalogClient struct {
	mock.Mock
}

func (m *mockCatalogClient) StartChangeSet(ctx context.Context, params *marketplacecatalog.StartChangeSetInput, optFns ...func(*marketplacecatalog.Options)) (*marketplacecatalog.StartChangeSetOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*marketplacecatalog.StartChangeSetOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalogClient) DescribeChangeSet(ctx context.Context, params *marketplacecatalog.DescribeChangeSetInput, optFns ...func(*marketplacecatalog.Options)) (*marketplacecatalog.DescribeChangeSetOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*marketplacecatalog.DescribeChangeSetOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalogClient) CancelChangeSet(ctx context.Context, params *marketplacecatalog.CancelChangeSetInput, optFns ...func(*marketplacecatalog.Options)) (*marketplacecatalog.CancelChangeSetOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*marketplacecatalog.CancelChangeSetOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalogClient) DescribeEntity(ctx context.Context, params *marketplacecatalog.DescribeEntityInput, optFns ...func(*marketplacecatalog.Options)) (*marketplacecatalog.DescribeEntityOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*marketplacecatalog.DescribeEntityOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalogClient) ListEntities(ctx context.Context, params *marketplacecatalog.ListEntitiesInput, optFns ...func(*marketplacecatalog.Options)) (*marketplacecatalog.ListEntitiesOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*marketplacecatalog.ListEntitiesOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestDescribeListing_Success(t *testing.T) {
	mockClient := &mockCatalogClient{}

	details := `{
		"Description": {"ProductTitle": "Ubuntu Pro", "Highlights": ["Security patching"]},
		"RegionAvailability": {"Regions": ["us-east-1"], "FutureRegionSupport": "All"},
		"Repositories": [{"Name": "unmanaged"}]
	}`
	mockClient.On("DescribeEntity",
		mock.Anything,
		mock.MatchedBy(func(input *marketplacecatalog.DescribeEntityInput) bool {
			return aws.ToString(input.Catalog) == "AWSMarketplace" &&
				aws.ToString(input.EntityId) == "prod-1234"
		}),
	).Return(&marketplacecatalog.DescribeEntityOutput{Details: aws.String(details)}, nil)

	gateway := NewGatewayWithClient(mockClient)
	doc, err := gateway.DescribeListing(context.Background(), "prod-1234")

	require.NoError(t, err)
	require.NotNil(t, doc.Description)
	assert.Equal(t, "Ubuntu Pro", doc.Description.ProductTitle)
	assert.Equal(t, []string{"us-east-1"}, doc.RegionAvailability.Regions)
	assert.Contains(t, doc.Extra, "Repositories")
	assert.NotContains(t, doc.Extra, "Description")
}

func TestDescribeListing_NotFound(t *testing.T) {
	mockClient := &mockCatalogClient{}
	mockClient.On("DescribeEntity", mock.Anything, mock.Anything).
		Return(nil, errors.New("ResourceNotFoundException: entity prod-missing not found"))

	gateway := NewGatewayWithClient(mockClient)
	_, err := gateway.DescribeListing(context.Background(), "prod-missing")

	assert.True(t, IsErrorCategory(err, ErrResourceNotFound))
}

func TestDescribeOfferTerms(t *testing.T) {
	mockClient := &mockCatalogClient{}

	details := `{
		"Terms": [
			{"Type": "SupportTerm", "RefundPolicy": "No refunds"},
			{"Type": "UsageBasedPricingTerm", "CurrencyCode": "USD",
			 "RateCards": [{"RateCard": [{"DimensionKey": "c3.large", "Price": "0.10"}]}]}
		]
	}`
	mockClient.On("DescribeEntity", mock.Anything, mock.Anything).
		Return(&marketplacecatalog.DescribeEntityOutput{Details: aws.String(details)}, nil)

	gateway := NewGatewayWithClient(mockClient)
	terms, err := gateway.DescribeOfferTerms(context.Background(), "offer-5678")

	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, models.TermTypeSupport, terms[0].Type)
	assert.Equal(t, "0.10", terms[1].RateCards[0].RateCard[0].Price)
}

func TestListProducts_Paginates(t *testing.T) {
	mockClient := &mockCatalogClient{}

	firstPage := &marketplacecatalog.ListEntitiesOutput{
		EntitySummaryList: []types.EntitySummary{{
			EntityId:         aws.String("prod-1"),
			Name:             aws.String("Listing one"),
			Visibility:       aws.String("Public"),
			LastModifiedDate: aws.String("2026-01-01T00:00:00Z"),
		}},
		NextToken: aws.String("page-2"),
	}
	secondPage := &marketplacecatalog.ListEntitiesOutput{
		EntitySummaryList: []types.EntitySummary{{
			EntityId: aws.String("prod-2"),
			Name:     aws.String("Listing two"),
		}},
	}

	mockClient.On("ListEntities",
		mock.Anything,
		mock.MatchedBy(func(input *marketplacecatalog.ListEntitiesInput) bool {
			return aws.ToString(input.EntityType) == "AmiProduct" && input.NextToken == nil
		}),
	).Return(firstPage, nil).Once()
	mockClient.On("ListEntities",
		mock.Anything,
		mock.MatchedBy(func(input *marketplacecatalog.ListEntitiesInput) bool {
			return aws.ToString(input.NextToken) == "page-2"
		}),
	).Return(secondPage, nil).Once()

	gateway := NewGatewayWithClient(mockClient)
	products, err := gateway.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "prod-1", products[0].ID)
	assert.Equal(t, "prod-2", products[1].ID)
	mockClient.AssertExpectations(t)
}

func TestPublicOfferID(t *testing.T) {
	tests := []struct {
		name         string
		offers       []types.EntitySummary
		wantID       string
		wantCategory ErrorCategory
	}{
		{
			name:   "single offer",
			offers: []types.EntitySummary{{EntityId: aws.String("offer-5678")}},
			wantID: "offer-5678",
		},
		{
			name:         "no offers",
			wantCategory: ErrResourceNotFound,
		},
		{
			name: "multiple offers",
			offers: []types.EntitySummary{
				{EntityId: aws.String("offer-1")},
				{EntityId: aws.String("offer-2")},
			},
			wantCategory: ErrInternalError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockClient := &mockCatalogClient{}
			mockClient.On("ListEntities",
				mock.Anything,
				mock.MatchedBy(func(input *marketplacecatalog.ListEntitiesInput) bool {
					if aws.ToString(input.EntityType) != "Offer" || len(input.FilterList) != 2 {
						return false
					}
					return aws.ToString(input.FilterList[0].Name) == "ProductId" &&
						aws.ToString(input.FilterList[1].Name) == "Targeting"
				}),
			).Return(&marketplacecatalog.ListEntitiesOutput{EntitySummaryList: tc.offers}, nil)

			gateway := NewGatewayWithClient(mockClient)
			id, err := gateway.PublicOfferID(context.Background(), "prod-1234")

			if tc.wantCategory != "" {
				assert.True(t, IsErrorCategory(err, tc.wantCategory))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, id)
		})
	}
}

func TestStartChangeSet(t *testing.T) {
	mockClient := &mockCatalogClient{}

	mockClient.On("StartChangeSet",
		mock.Anything,
		mock.MatchedBy(func(input *marketplacecatalog.StartChangeSetInput) bool {
			if aws.ToString(input.ChangeSetName) != "Update description for Ubuntu Pro retry" {
				return false
			}
			if len(input.ChangeSet) != 1 {
				return false
			}
			change := input.ChangeSet[0]
			return aws.ToString(change.ChangeType) == "UpdateInformation" &&
				aws.ToString(change.Entity.Type) == models.EntityTypeAmiProduct &&
				aws.ToString(change.Entity.Identifier) == "prod-1234" &&
				aws.ToString(change.Details) == `{"ProductTitle":"Ubuntu Pro"}`
		}),
	).Return(&marketplacecatalog.StartChangeSetOutput{ChangeSetId: aws.String("cs-1")}, nil)

	gateway := NewGatewayWithClient(mockClient)
	id, err := gateway.StartChangeSet(context.Background(),
		"Update description for Ubuntu Pro, (retry)",
		[]changeset.ChangeRequest{{
			ChangeType: "UpdateInformation",
			EntityType: models.EntityTypeAmiProduct,
			EntityID:   "prod-1234",
			Details:    map[string]any{"ProductTitle": "Ubuntu Pro"},
		}})

	require.NoError(t, err)
	assert.Equal(t, "cs-1", id)
}

func TestStartChangeSet_Empty(t *testing.T) {
	gateway := NewGatewayWithClient(&mockCatalogClient{})
	_, err := gateway.StartChangeSet(context.Background(), "empty", nil)
	assert.True(t, IsErrorCategory(err, ErrInvalidInput))
}

func TestDescribeChangeSet_CollectsErrorDetails(t *testing.T) {
	mockClient := &mockCatalogClient{}

	mockClient.On("DescribeChangeSet",
		mock.Anything,
		mock.MatchedBy(func(input *marketplacecatalog.DescribeChangeSetInput) bool {
			return aws.ToString(input.ChangeSetId) == "cs-1"
		}),
	).Return(&marketplacecatalog.DescribeChangeSetOutput{
		ChangeSetId:        aws.String("cs-1"),
		ChangeSetName:      aws.String("Update description"),
		Status:             types.ChangeStatusFailed,
		FailureCode:        types.FailureCodeClientError,
		FailureDescription: aws.String("One change failed"),
		ChangeSet: []types.ChangeSummary{{
			ErrorDetailList: []types.ErrorDetail{{
				ErrorCode:    aws.String("MALFORMED_ENTITY"),
				ErrorMessage: aws.String("ProductTitle exceeds the maximum length"),
			}},
		}},
	}, nil)

	gateway := NewGatewayWithClient(mockClient)
	details, err := gateway.DescribeChangeSet(context.Background(), "cs-1")

	require.NoError(t, err)
	assert.Equal(t, "FAILED", details.Status)
	assert.Equal(t, "CLIENT_ERROR", details.FailureCode)
	require.Len(t, details.ErrorDetails, 1)
	assert.Contains(t, details.ErrorDetails[0], "MALFORMED_ENTITY")
}

func TestCancelChangeSet_Throttled(t *testing.T) {
	mockClient := &mockCatalogClient{}
	mockClient.On("CancelChangeSet", mock.Anything, mock.Anything).
		Return(nil, errors.New("ThrottlingException: rate exceeded"))

	gateway := NewGatewayWithClient(mockClient)
	err := gateway.CancelChangeSet(context.Background(), "cs-1")

	assert.True(t, IsErrorCategory(err, ErrThrottling))
}

func TestSanitizeChangeSetName(t *testing.T) {
	assert.Equal(t, "Update description for Ubuntu Pro retry",
		SanitizeChangeSetName("Update description for Ubuntu Pro, (retry)"))

	long := SanitizeChangeSetName(strings.Repeat("a", 150))
	assert.Len(t, long, 100)
}
