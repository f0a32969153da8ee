package ec2

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/canonical/awsmp/internal/models"
)

// RegionAll is the shorthand that expands to every commercial region.
const RegionAll = "all"

// RegionService answers region and instance type questions a listing
// configuration raises: which regions exist, what does "all" mean, and which
// instance types can run a given AMI.
type RegionService struct {
	client EC2ClientAPI
}

// NewRegionServiceWithDefaultConfig creates a new RegionService with the default AWS SDK configuration
func NewRegionServiceWithDefaultConfig(ctx context.Context) (*RegionService, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return NewRegionServiceWithClient(ec2.NewFromConfig(cfg)), nil
}

// NewRegionServiceWithClient creates a new RegionService with a provided client
func NewRegionServiceWithClient(client EC2ClientAPI) *RegionService {
	return &RegionService{
		client: client,
	}
}

// ListCommercialRegions returns every commercial region name, opt-in regions
// included, sorted alphabetically.
func (s *RegionService) ListCommercialRegions(ctx context.Context) ([]string, error) {
	resp, err := s.client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{
		AllRegions: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe regions: %w", err)
	}

	regions := make([]string, 0, len(resp.Regions))
	for _, region := range resp.Regions {
		regions = append(regions, aws.ToString(region.RegionName))
	}
	sort.Strings(regions)

	return regions, nil
}

// ExpandRegions resolves a configured region list against the commercial
// regions. The single entry "all" expands to every commercial region; any
// unknown region name is rejected.
func (s *RegionService) ExpandRegions(ctx context.Context, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return nil, fmt.Errorf("at least one region is required")
	}

	commercial, err := s.ListCommercialRegions(ctx)
	if err != nil {
		return nil, err
	}

	if len(requested) == 1 && strings.EqualFold(requested[0], RegionAll) {
		return commercial, nil
	}

	known := make(map[string]bool, len(commercial))
	for _, region := range commercial {
		known[region] = true
	}

	var invalid []string
	for _, region := range requested {
		if !known[region] {
			invalid = append(invalid, region)
		}
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("unknown regions: %s", strings.Join(invalid, ", "))
	}

	return requested, nil
}

// InstanceTypeCandidates returns every instance type compatible with the
// given architectures and virtualization types, in family and size order.
func (s *RegionService) InstanceTypeCandidates(ctx context.Context, architectures, virtualizationTypes []string) ([]string, error) {
	archTypes := make([]types.ArchitectureType, len(architectures))
	for i, arch := range architectures {
		archTypes[i] = types.ArchitectureType(arch)
	}
	virtTypes := make([]types.VirtualizationType, len(virtualizationTypes))
	for i, virt := range virtualizationTypes {
		virtTypes[i] = types.VirtualizationType(virt)
	}

	input := &ec2.GetInstanceTypesFromInstanceRequirementsInput{
		ArchitectureTypes:   archTypes,
		VirtualizationTypes: virtTypes,
		// No lower bound: every size of every matching family qualifies.
		InstanceRequirements: &types.InstanceRequirementsRequest{
			VCpuCount: &types.VCpuCountRangeRequest{Min: aws.Int32(0)},
			MemoryMiB: &types.MemoryMiBRequest{Min: aws.Int32(0)},
		},
	}

	var candidates []models.InstanceTypePricing
	for {
		resp, err := s.client.GetInstanceTypesFromInstanceRequirements(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list instance types: %w", err)
		}
		for _, it := range resp.InstanceTypes {
			candidates = append(candidates, models.InstanceTypePricing{Name: aws.ToString(it.InstanceType)})
		}
		if resp.NextToken == nil || aws.ToString(resp.NextToken) == "" {
			break
		}
		input.NextToken = resp.NextToken
	}

	sorted, err := models.SortInstanceTypes(candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to sort instance types: %w", err)
	}

	instanceTypes := make([]string, len(sorted))
	for i, it := range sorted {
		instanceTypes[i] = it.Name
	}
	return instanceTypes, nil
}
