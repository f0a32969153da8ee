package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canonical/awsmp/internal/models"
	"github.com/canonical/awsmp/internal/providers/catalog"
	"github.com/canonical/awsmp/internal/report"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect marketplace entities",
	}
	cmd.AddCommand(newEntityListCmd(), newEntityShowCmd())
	return cmd
}

func newEntityListCmd() *cobra.Command {
	var entityType string

	cmd := &cobra.Command{
		Use:   "entity-list",
		Short: "List the account's products or offers",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := reportFormat()
			if err != nil {
				return err
			}
			gateway, err := catalog.NewGatewayWithDefaultConfig(cmd.Context())
			if err != nil {
				return err
			}

			var entities []models.EntitySummary
			switch entityType {
			case "product":
				entities, err = gateway.ListProducts(cmd.Context())
			case "offer":
				entities, err = gateway.ListOffers(cmd.Context())
			default:
				return fmt.Errorf("unsupported entity type %q, expected product or offer", entityType)
			}
			if err != nil {
				return err
			}

			return report.PrintEntities(cmd.OutOrStdout(), entities, format)
		},
	}

	cmd.Flags().StringVar(&entityType, "type", "product", "Entity type to list: product or offer")

	return cmd
}

func newEntityShowCmd() *cobra.Command {
	var entityID string

	cmd := &cobra.Command{
		Use:   "entity-show",
		Short: "Show a product entity's details document",
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := catalog.NewGatewayWithDefaultConfig(cmd.Context())
			if err != nil {
				return err
			}
			doc, err := gateway.DescribeListing(cmd.Context(), entityID)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&entityID, "entity-id", "", "Entity id to describe")
	_ = cmd.MarkFlagRequired("entity-id")

	return cmd
}
