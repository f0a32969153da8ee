package diff

import (
	"strings"

	"github.com/canonical/awsmp/internal/models"
)

// Normalize canonicalizes the fields whose values the remote API rewrites on
// ingestion, so that the comparator's equality check never sees differences
// that would not survive a round trip. It must be applied to both sides of a
// comparison. The document is modified in place and returned for chaining.
//
// Normalized fields: the operating system name is upper-cased, long and
// support descriptions are whitespace-trimmed, and future region support is
// canonicalized to "All"/"None".
func Normalize(doc *models.ListingDocument) *models.ListingDocument {
	if doc == nil {
		return nil
	}
	if doc.Version != nil {
		doc.Version.OSName = strings.ToUpper(doc.Version.OSName)
	}
	if doc.Description != nil {
		doc.Description.LongDescription = strings.TrimSpace(doc.Description.LongDescription)
	}
	if doc.SupportInformation != nil {
		doc.SupportInformation.Description = strings.TrimSpace(doc.SupportInformation.Description)
	}
	if doc.RegionAvailability != nil {
		switch strings.ToLower(doc.RegionAvailability.FutureRegionSupport) {
		case "all", "true":
			doc.RegionAvailability.FutureRegionSupport = "All"
		case "none", "false", "":
			doc.RegionAvailability.FutureRegionSupport = "None"
		}
	}
	return doc
}
