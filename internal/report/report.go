package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/canonical/awsmp/internal/changeset"
	"github.com/canonical/awsmp/internal/models"
)

// OutputFormatType defines the format types for reports.
type OutputFormatType string

const (
	// OutputFormatTypeJSON represents JSON output format
	OutputFormatTypeJSON OutputFormatType = "JSON"
	// OutputFormatTypeTABLE represents table output format
	OutputFormatTypeTABLE OutputFormatType = "TABLE"
)

// PrintDiff renders a listing comparison. The table view shows one row per
// difference plus a row per guarded price change; the JSON view is the
// machine-readable report structure.
func PrintDiff(w io.Writer, report DiffReport, format OutputFormatType) error {
	switch format {
	case OutputFormatTypeJSON:
		return printJSON(w, report)
	case OutputFormatTypeTABLE:
		return printDiffTable(w, report)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// PrintEntities renders an entity listing.
func PrintEntities(w io.Writer, entities []models.EntitySummary, format OutputFormatType) error {
	switch format {
	case OutputFormatTypeJSON:
		return printJSON(w, entities)
	case OutputFormatTypeTABLE:
		table := tablewriter.NewTable(w)
		table.Header("Id", "Name", "Visibility", "Last Changed")
		for _, entity := range entities {
			if err := table.Append(entity.ID, entity.Name, entity.Visibility, entity.LastChangedAt); err != nil {
				return err
			}
		}
		return table.Render()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// PrintChangeRequests renders a planned change set, which is what a dry run
// shows instead of submitting.
func PrintChangeRequests(w io.Writer, requests []changeset.ChangeRequest, format OutputFormatType) error {
	switch format {
	case OutputFormatTypeJSON:
		return printJSON(w, requests)
	case OutputFormatTypeTABLE:
		table := tablewriter.NewTable(w)
		table.Header("Change Type", "Entity Type", "Entity Id")
		for _, req := range requests {
			if err := table.Append(req.ChangeType, req.EntityType, req.EntityID); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "\n%d changes planned\n", len(requests))
		return err
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling report to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printDiffTable(w io.Writer, report DiffReport) error {
	if _, err := fmt.Fprintf(w, "\nPRODUCT ID: %s\n\n", report.ProductID); err != nil {
		return err
	}

	table := tablewriter.NewTable(w)
	table.Header("Kind", "Section", "Field", "Remote Value", "Local Value")
	for _, entry := range report.Entries {
		var remote, local any
		switch entry.Kind {
		case models.DiffAdded:
			local = entry.Value
		case models.DiffRemoved:
			remote = entry.Value
		case models.DiffChanged:
			remote, local = entry.OldValue, entry.NewValue
		}
		err := table.Append(string(entry.Kind), string(entry.Section), entry.Name,
			formatValue(remote), formatValue(local))
		if err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nSummary: %d differences found\n", len(report.Entries)); err != nil {
		return err
	}
	for _, skip := range report.SkippedPrices {
		_, err := fmt.Fprintf(w, "Withheld price change: %s %s %v -> %v\n",
			skip.Section, skip.Name, skip.OldValue, skip.NewValue)
		if err != nil {
			return err
		}
	}
	return nil
}

// formatValue formats values for better display in the table
func formatValue(v any) string {
	if v == nil {
		return "<none>"
	}
	if s, ok := v.(string); ok && s == "" {
		return "<empty>"
	}
	return fmt.Sprintf("%v", v)
}

// DefaultPrinter is the default implementation of the report printer
type DefaultPrinter struct{}

// PrintDiff implements the printer interface
func (p DefaultPrinter) PrintDiff(w io.Writer, report DiffReport, format OutputFormatType) error {
	return PrintDiff(w, report, format)
}

// PrintEntities implements the printer interface
func (p DefaultPrinter) PrintEntities(w io.Writer, entities []models.EntitySummary, format OutputFormatType) error {
	return PrintEntities(w, entities, format)
}

// PrintChangeRequests implements the printer interface
func (p DefaultPrinter) PrintChangeRequests(w io.Writer, requests []changeset.ChangeRequest, format OutputFormatType) error {
	return PrintChangeRequests(w, requests, format)
}
