package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/canonical/awsmp/internal/changeset"
	"github.com/canonical/awsmp/internal/orchestrator"
	"github.com/canonical/awsmp/internal/providers/catalog"
	"github.com/canonical/awsmp/internal/report"
)

func newListingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listing",
		Short: "Compare, reconcile and publish AMI product listings",
	}
	cmd.AddCommand(
		newListingDiffCmd(),
		newListingReconcileCmd(),
		newListingCreateCmd(),
		newListingReleaseCmd(),
	)
	return cmd
}

func newListingDiffCmd() *cobra.Command {
	var productID, configPath, pricingPath string

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show the differences between the remote listing and the local configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := reportFormat()
			if err != nil {
				return err
			}
			logger, err := newLogger()
			if err != nil {
				return err
			}
			desired, err := loadDesired(configPath, pricingPath, logger)
			if err != nil {
				return err
			}

			service, err := orchestrator.NewDefaultService(cmd.Context(), orchestrator.Config{}, logger)
			if err != nil {
				return err
			}
			result, err := service.Diff(cmd.Context(), productID, desired)
			if err != nil {
				return err
			}

			err = report.PrintDiff(cmd.OutOrStdout(), report.DiffReport{
				ProductID:     productID,
				Entries:       result.Diff,
				SkippedPrices: result.SkippedPrices,
			}, format)
			if err != nil {
				return err
			}

			if !result.InSync {
				os.Exit(2) // Non-zero exit code indicates differences found
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product-id", "", "Product entity id")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to the listing configuration file")
	cmd.Flags().StringVar(&pricingPath, "pricing", "", "Path to the pricing csv file")
	_ = cmd.MarkFlagRequired("product-id")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func newListingReconcileCmd() *cobra.Command {
	var (
		productID, configPath, pricingPath string
		allowPriceChange, dryRun           bool
		pollInterval, pollTimeout          time.Duration
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Apply the local configuration to the remote listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := reportFormat()
			if err != nil {
				return err
			}
			logger, err := newLogger()
			if err != nil {
				return err
			}
			desired, err := loadDesired(configPath, pricingPath, logger)
			if err != nil {
				return err
			}

			service, err := orchestrator.NewDefaultService(cmd.Context(), orchestrator.Config{
				PollInterval:     pollInterval,
				PollTimeout:      pollTimeout,
				AllowPriceChange: allowPriceChange,
				DryRun:           dryRun,
			}, logger)
			if err != nil {
				return err
			}
			result, err := service.Reconcile(cmd.Context(), productID, desired)
			if err != nil {
				return err
			}

			if result.InSync {
				fmt.Fprintln(cmd.OutOrStdout(), "Listing is in sync, nothing to do")
				return nil
			}
			if result.ChangeSet == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "All differences were withheld by the price guard")
				return nil
			}

			if dryRun {
				err := report.PrintChangeRequests(cmd.OutOrStdout(), result.ChangeSet.Requests, format)
				if err != nil {
					return err
				}
				os.Exit(2) // Non-zero exit code indicates differences found
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Change set %s: %s\n", result.ChangeSet.ID, result.ChangeSet.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product-id", "", "Product entity id")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to the listing configuration file")
	cmd.Flags().StringVar(&pricingPath, "pricing", "", "Path to the pricing csv file")
	cmd.Flags().BoolVar(&allowPriceChange, "allow-price-change", false, "Apply price changes on existing dimensions instead of withholding them")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan and print the change set without submitting it")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 10*time.Second, "Delay between change set status checks")
	cmd.Flags().DurationVar(&pollTimeout, "poll-timeout", 30*time.Minute, "Total time to wait for the change set to settle")
	_ = cmd.MarkFlagRequired("product-id")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func newListingCreateCmd() *cobra.Command {
	var pollInterval, pollTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new AMI product with its public offer",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			cs, err := service.Submit(cmd.Context(), "Create new AMI product", changeset.ProductCreationRequests())
			if err != nil {
				return err
			}
			if err := service.AwaitCompletion(cmd.Context(), cs); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Product created, change set %s\n", cs.ID)
			return nil
		},
	}

	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 10*time.Second, "Delay between change set status checks")
	cmd.Flags().DurationVar(&pollTimeout, "poll-timeout", 30*time.Minute, "Total time to wait for the change set to settle")

	return cmd
}

func newListingReleaseCmd() *cobra.Command {
	var (
		productID                 string
		pollInterval, pollTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Publish a product and its public offer as limited",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			gateway, err := catalog.NewGatewayWithDefaultConfig(cmd.Context())
			if err != nil {
				return err
			}
			offerID, err := gateway.PublicOfferID(cmd.Context(), productID)
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

			name := fmt.Sprintf("Release product %s", productID)
			cs, err := service.Submit(cmd.Context(), name, changeset.ProductReleaseRequests(productID, offerID))
			if err != nil {
				return err
			}
			if err := service.AwaitCompletion(cmd.Context(), cs); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Product %s released, change set %s\n", productID, cs.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product-id", "", "Product entity id")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 10*time.Second, "Delay between change set status checks")
	cmd.Flags().DurationVar(&pollTimeout, "poll-timeout", 30*time.Minute, "Total time to wait for the change set to settle")
	_ = cmd.MarkFlagRequired("product-id")

	return cmd
}
