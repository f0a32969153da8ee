package report

import (
	"io"

	"github.com/canonical/awsmp/internal/changeset"
	"github.com/canonical/awsmp/internal/diff"
	"github.com/canonical/awsmp/internal/models"
)

// IPrinter is the interface for rendering reports
//
//go:generate mockery --name=IPrinter --output=./mocks
type IPrinter interface {
	PrintDiff(w io.Writer, report DiffReport, format OutputFormatType) error
	PrintEntities(w io.Writer, entities []models.EntitySummary, format OutputFormatType) error
	PrintChangeRequests(w io.Writer, requests []changeset.ChangeRequest, format OutputFormatType) error
}

// DiffReport bundles the outcome of one listing comparison.
type DiffReport struct {
	ProductID     string                    `json:"product_id"`
	Entries       []models.DiffEntry        `json:"entries"`
	SkippedPrices []diff.SkippedPriceChange `json:"skipped_prices,omitempty"`
}
