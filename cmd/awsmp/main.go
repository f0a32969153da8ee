package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/canonical/awsmp/internal/config"
	"github.com/canonical/awsmp/internal/models"
	"github.com/canonical/awsmp/internal/report"
	"github.com/canonical/awsmp/pkg/logging"
)

var (
	outputFormat string
	logLevel     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "awsmp",
		Short:         "Manage AWS Marketplace AMI listings from local configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "Output format: table or json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newInspectCmd(),
		newListingCmd(),
		newOfferCmd(),
		newInstanceTypeTemplateCmd(),
		newPricingTemplateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// reportFormat translates the --output flag value.
func reportFormat() (report.OutputFormatType, error) {
	switch strings.ToLower(outputFormat) {
	case "table":
		return report.OutputFormatTypeTABLE, nil
	case "json":
		return report.OutputFormatTypeJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q, expected table or json", outputFormat)
	}
}

// newLogger builds the CLI logger from the --log-level flag. Log lines go to
// stderr; stdout carries only command output.
func newLogger() (logging.Logger, error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewDefaultLogger()
	logger.SetLevel(level)
	return logger, nil
}

// loadDesired assembles the desired listing document from the configuration
// file and, when given, the pricing file.
func loadDesired(configPath, pricingPath string, logger logging.Logger) (*models.ListingDocument, error) {
	cfg, err := config.NewLoaderWithLogger(logger).Load(configPath)
	if err != nil {
		return nil, err
	}

	var pricing []models.InstanceTypePricing
	if pricingPath != "" {
		f, err := os.Open(pricingPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open pricing file %s: %w", pricingPath, err)
		}
		defer f.Close()

		pricing, err = config.LoadPricingCSV(f)
		if err != nil {
			return nil, err
		}
	}

	return cfg.ToListingDocument(pricing)
}
