package orchestrator

import (
	"time"

	"github.com/canonical/awsmp/internal/changeset"
	"github.com/canonical/awsmp/internal/diff"
	"github.com/canonical/awsmp/internal/models"
)

// Config contains all the parameters needed for a reconciliation run.
type Config struct {
	PollInterval     time.Duration // Delay between change set status queries
	PollTimeout      time.Duration // Total time to wait for a change set to settle
	AllowPriceChange bool          // Let price changes on existing dimensions through the guard
	DryRun           bool          // Plan without submitting anything
}

// Status is the lifecycle state of a tracked change set.
type Status string

const (
	// StatusPreparing: the change set is assembled locally, nothing submitted yet.
	StatusPreparing Status = "Preparing"

	// StatusSubmitted: accepted by the remote API, outcome not yet known.
	StatusSubmitted Status = "Submitted"

	// StatusSucceeded: every change was applied.
	StatusSucceeded Status = "Succeeded"

	// StatusFailed: the remote API rejected or failed to apply the changes.
	StatusFailed Status = "Failed"

	// StatusCancelled: cancelled before the remote API applied it.
	StatusCancelled Status = "Cancelled"
)

// ChangeSet tracks one submission through its lifecycle.
type ChangeSet struct {
	ID             string
	Name           string
	Requests       []changeset.ChangeRequest
	Status         Status
	FailureCode    string
	FailureMessage string
	ErrorDetails   []string
}

// ReconcileResult summarizes one reconciliation run.
type ReconcileResult struct {
	// Diff holds every difference found, guarded pricing entries included.
	Diff []models.DiffEntry

	// SkippedPrices lists the pricing changes the guard withheld.
	SkippedPrices []diff.SkippedPriceChange

	// ChangeSet is the tracked submission; nil when the listing was already
	// in sync or every difference was withheld by the guard.
	ChangeSet *ChangeSet

	// InSync is true when no differences were found at all.
	InSync bool
}
