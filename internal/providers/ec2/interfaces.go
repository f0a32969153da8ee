package ec2

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

// EC2ClientAPI defines the interface for EC2 operations we need to mock
//
//go:generate mockery --name=EC2ClientAPI --output=./mocks
type EC2ClientAPI interface {
	DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
	GetInstanceTypesFromInstanceRequirements(ctx context.Context, params *ec2.GetInstanceTypesFromInstanceRequirementsInput, optFns ...func(*ec2.Options)) (*ec2.GetInstanceTypesFromInstanceRequirementsOutput, error)
}

// RegionServiceAPI defines the interface for region and instance type lookups
//
//go:generate mockery --name=RegionServiceAPI --output=./mocks
type RegionServiceAPI interface {
	ListCommercialRegions(ctx context.Context) ([]string, error)
	ExpandRegions(ctx context.Context, requested []string) ([]string, error)
	InstanceTypeCandidates(ctx context.Context, architectures, virtualizationTypes []string) ([]string, error)
}
