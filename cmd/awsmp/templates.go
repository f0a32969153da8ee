package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/canonical/awsmp/internal/config"
	"github.com/canonical/awsmp/internal/models"
	"github.com/canonical/awsmp/internal/providers/catalog"
	"github.com/canonical/awsmp/internal/providers/ec2"
)

func newInstanceTypeTemplateCmd() *cobra.Command {
	var architectures, virtualizationTypes []string
	var out string

	cmd := &cobra.Command{
		Use:   "instance-type-template",
		Short: "Write a pricing csv skeleton with every compatible instance type",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ec2.NewRegionServiceWithDefaultConfig(cmd.Context())
			if err != nil {
				return err
			}
			candidates, err := service.InstanceTypeCandidates(cmd.Context(), architectures, virtualizationTypes)
			if err != nil {
				return err
			}

			pricing := make([]models.InstanceTypePricing, len(candidates))
			for i, name := range candidates {
				pricing[i] = models.InstanceTypePricing{Name: name}
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer f.Close()
			if err := config.WritePricingCSV(f, pricing); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d instance types to %s\n", len(pricing), out)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&architectures, "architecture", []string{"x86_64"}, "AMI architectures")
	cmd.Flags().StringSliceVar(&virtualizationTypes, "virtualization-type", []string{"hvm"}, "AMI virtualization types")
	cmd.Flags().StringVar(&out, "pricing", "instance_type.csv", "Output csv path")

	return cmd
}

func newPricingTemplateCmd() *cobra.Command {
	var offerID, out string
	var free bool

	cmd := &cobra.Command{
		Use:   "pricing-template",
		Short: "Write a pricing csv from an existing offer's rate cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := catalog.NewGatewayWithDefaultConfig(cmd.Context())
			if err != nil {
				return err
			}
			terms, err := gateway.DescribeOfferTerms(cmd.Context(), offerID)
			if err != nil {
				return err
			}

			pricing, err := pricingFromTerms(terms, free)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer f.Close()
			if err := config.WritePricingCSV(f, pricing); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported pricing for %d instance types to %s\n", len(pricing), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&offerID, "offer-id", "", "Offer entity id to read rate cards from")
	cmd.Flags().StringVar(&out, "pricing", "", "Output csv path")
	cmd.Flags().BoolVar(&free, "free", false, "Free listing: omit the annual column")
	_ = cmd.MarkFlagRequired("offer-id")
	_ = cmd.MarkFlagRequired("pricing")

	return cmd
}

// pricingFromTerms flattens an offer's hourly and annual rate cards into
// pricing rows. Free listings skip the annual column entirely.
func pricingFromTerms(terms []models.Term, free bool) ([]models.InstanceTypePricing, error) {
	doc := &models.ListingDocument{Terms: terms}
	hourly := doc.Term(models.TermTypeHourlyPricing)
	if hourly == nil {
		return nil, fmt.Errorf("offer has no hourly pricing term")
	}
	annualIndex := doc.Term(models.TermTypeAnnualPricing).RateCardIndex()

	var pricing []models.InstanceTypePricing
	for name, card := range hourly.RateCardIndex() {
		entry := models.InstanceTypePricing{Name: name}
		price, err := decimal.NewFromString(card.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid hourly price %q for %s: %w", card.Price, name, err)
		}
		entry.Hourly = price

		if annual, ok := annualIndex[name]; ok && !free {
			price, err := decimal.NewFromString(annual.Price)
			if err != nil {
				return nil, fmt.Errorf("invalid annual price %q for %s: %w", annual.Price, name, err)
			}
			entry.Annual = &price
		}
		pricing = append(pricing, entry)
	}

	return models.SortInstanceTypes(pricing)
}
