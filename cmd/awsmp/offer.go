package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/canonical/awsmp/internal/changeset"
	"github.com/canonical/awsmp/internal/config"
	"github.com/canonical/awsmp/internal/orchestrator"
)

func newOfferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "offer",
		Short: "Manage private offers",
	}
	cmd.AddCommand(newOfferCreateCmd())
	return cmd
}

func newOfferCreateCmd() *cobra.Command {
	var (
		productID, offerName, eulaURL, pricingPath string
		buyerAccounts                              []string
		availableForDays, validForDays             int
		pollInterval, pollTimeout                  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create and release a private offer for a product",
		Long: `Create a new private offer.

The --pricing file must be a headerless csv with one row per instance type:
name, hourly price and optionally an annual price. Every instance type the
product supports must be listed.

The --available-for-days value says how long buyers can accept the offer;
--valid-for-days says how long an accepted agreement runs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(pricingPath)
			if err != nil {
				return fmt.Errorf("failed to open pricing file %s: %w", pricingPath, err)
			}
			defer f.Close()
			pricing, err := config.LoadPricingCSV(f)
			if err != nil {
				return err
			}

			if offerName == "" {
				offerName = fmt.Sprintf("Private offer - %s - %s",
					strings.Join(buyerAccounts, ","), productID)
			}

			logger, err := newLogger()
			if err != nil {
				return err
			}
			service, err := orchestrator.NewDefaultService(cmd.Context(), orchestrator.Config{
				PollInterval: pollInterval,
				PollTimeout:  pollTimeout,
			}, logger)
			if err != nil {
				return err
			}

			requests := changeset.OfferCreationRequests(changeset.OfferCreationParams{
				ProductID:        productID,
				OfferName:        offerName,
				BuyerAccounts:    buyerAccounts,
				Pricing:          pricing,
				AvailableForDays: availableForDays,
				ValidForDays:     validForDays,
				EulaURL:          eulaURL,
			})
			cs, err := service.Submit(cmd.Context(), offerName, requests)
			if err != nil {
				return err
			}
			if err := service.AwaitCompletion(cmd.Context(), cs); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Offer created, change set %s\n", cs.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product-id", "", "Product entity id the offer is for")
	cmd.Flags().StringVar(&offerName, "offer-name", "", "Offer name (generated when empty)")
	cmd.Flags().StringVar(&eulaURL, "eula-url", "", "Custom EULA url (the AWS standard EULA when empty)")
	cmd.Flags().StringVar(&pricingPath, "pricing", "", "Path to the pricing csv file")
	cmd.Flags().StringSliceVar(&buyerAccounts, "buyer-accounts", nil, "Buyer AWS account ids")
	cmd.Flags().IntVar(&availableForDays, "available-for-days", 14, "Days the offer can be accepted")
	cmd.Flags().IntVar(&validForDays, "valid-for-days", 1095, "Days an accepted agreement runs")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 10*time.Second, "Delay between change set status checks")
	cmd.Flags().DurationVar(&pollTimeout, "poll-timeout", 30*time.Minute, "Total time to wait for the change set to settle")
	_ = cmd.MarkFlagRequired("product-id")
	_ = cmd.MarkFlagRequired("pricing")
	_ = cmd.MarkFlagRequired("buyer-accounts")

	return cmd
}
