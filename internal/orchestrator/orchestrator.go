package orchestrator

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/canonical/awsmp/internal/changeset"
	"github.com/canonical/awsmp/internal/diff"
	"github.com/canonical/awsmp/internal/models"
	"github.com/canonical/awsmp/internal/providers/catalog"
	"github.com/canonical/awsmp/pkg/logging"
)

// Service orchestrates the reconciliation of a listing: it fetches the remote
// state, diffs it against the desired document, plans a change set and tracks
// the submission until the remote API settles it.
type Service struct {
	config  Config
	gateway catalog.GatewayAPI
	logger  logging.Logger
}

// NewService creates a new orchestrator service with the given configuration.
func NewService(config Config, gateway catalog.GatewayAPI, logger logging.Logger) *Service {
	return &Service{
		config:  config,
		gateway: gateway,
		logger:  logger,
	}
}

// NewDefaultService creates a new service with a default gateway and the
// given logger
func NewDefaultService(ctx context.Context, config Config, logger logging.Logger) (*Service, error) {
	gateway, err := catalog.NewGatewayWithDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize catalog gateway: %w", err)
	}

	return NewService(config, gateway, logger), nil
}

// Reconcile drives one full run for a product: describe, diff, guard, plan,
// submit and await. A nil ChangeSet in the result means nothing was submitted,
// either because the listing was in sync or because the price guard withheld
// every difference.
func (s *Service) Reconcile(ctx context.Context, productID string, desired *models.ListingDocument) (*ReconcileResult, error) {
	result, kept, offerID, err := s.plan(ctx, productID, desired)
	if err != nil {
		return nil, err
	}
	if result.InSync {
		s.logger.Info("Listing %s is in sync, nothing to do", productID)
		return result, nil
	}
	if len(kept) == 0 {
		s.logger.Info("Every difference on listing %s was withheld by the price guard", productID)
		return result, nil
	}

	operations, err := changeset.Build(desired, kept, changeset.TargetIDs{
		ProductID: productID,
		OfferID:   offerID,
	})
	if err != nil {
		return nil, err
	}

	requests, err := changeset.Render(operations, effectivePricingTerms(desired, result.SkippedPrices))
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("Reconcile listing %s", productID)
	if s.config.DryRun {
		s.logger.Info("Dry run: %d changes planned for listing %s, not submitting", len(requests), productID)
		result.ChangeSet = &ChangeSet{
			Name:     name,
			Requests: requests,
			Status:   StatusPreparing,
		}
		return result, nil
	}

	cs, err := s.Submit(ctx, name, requests)
	if err != nil {
		return nil, err
	}
	result.ChangeSet = cs

	return result, s.AwaitCompletion(ctx, cs)
}

// Diff fetches the remote state and reports the differences without planning
// or submitting anything.
func (s *Service) Diff(ctx context.Context, productID string, desired *models.ListingDocument) (*ReconcileResult, error) {
	result, _, _, err := s.plan(ctx, productID, desired)
	return result, err
}

// plan runs the shared front half of a reconciliation: fetch, normalize,
// compare and guard. It returns the result skeleton, the diff entries that
// survived the guard and the public offer id.
func (s *Service) plan(ctx context.Context, productID string, desired *models.ListingDocument) (*ReconcileResult, []models.DiffEntry, string, error) {
	if productID == "" {
		return nil, nil, "", NewError(ErrInvalidInput, "product id is required", "", nil)
	}
	if desired == nil {
		return nil, nil, "", NewError(ErrInvalidInput, "desired listing document is required", "", nil)
	}

	remote, offerID, err := s.fetchRemoteState(ctx, productID)
	if err != nil {
		return nil, nil, "", err
	}

	entries, err := diff.Compare(diff.Normalize(desired), diff.Normalize(remote))
	if err != nil {
		return nil, nil, "", err
	}
	s.logger.Debug("Listing %s: %d differences before the price guard", productID, len(entries))

	result := &ReconcileResult{Diff: entries}
	if len(entries) == 0 {
		result.InSync = true
		return result, nil, offerID, nil
	}

	kept, skipped := diff.FilterPricingChanges(entries, s.config.AllowPriceChange)
	result.SkippedPrices = skipped
	for _, skip := range skipped {
		s.logger.Warn("Withholding price change on %s %s: %v -> %v (pass --allow-price-change to apply)",
			skip.Section, skip.Name, skip.OldValue, skip.NewValue)
	}
	return result, kept, offerID, nil
}

// Submit starts a change set and returns its tracked representation in the
// Submitted state.
func (s *Service) Submit(ctx context.Context, name string, requests []changeset.ChangeRequest) (*ChangeSet, error) {
	if len(requests) == 0 {
		return nil, NewError(ErrEmptyChangeSet, "refusing to submit an empty change set", "", nil)
	}

	id, err := s.gateway.StartChangeSet(ctx, name, requests)
	if err != nil {
		return nil, NewError(ErrSubmissionFailed, "change set submission was rejected", "", err)
	}
	s.logger.Info("Submitted change set %s (%d changes)", id, len(requests))

	return &ChangeSet{
		ID:       id,
		Name:     name,
		Requests: requests,
		Status:   StatusSubmitted,
	}, nil
}

// AwaitCompletion polls the change set until the remote API settles it, the
// poll timeout elapses or ctx is cancelled. The status is queried immediately
// and then once per poll interval. On timeout or cancellation the change set
// remains Submitted: the remote API may still apply it. Caller cancellation
// through ctx is reported as Aborted, never as a poll timeout.
func (s *Service) AwaitCompletion(ctx context.Context, cs *ChangeSet) error {
	if cs == nil || cs.ID == "" {
		return NewError(ErrInvalidInput, "change set has not been submitted", "", nil)
	}

	deadline := time.NewTimer(s.config.PollTimeout)
	defer deadline.Stop()

	for {
		details, err := s.gateway.DescribeChangeSet(ctx, cs.ID)
		if err != nil {
			return err
		}

		switch mapRemoteStatus(details.Status) {
		case StatusSucceeded:
			cs.Status = StatusSucceeded
			s.logger.Info("Change set %s succeeded", cs.ID)
			return nil
		case StatusFailed:
			cs.Status = StatusFailed
			cs.FailureCode = details.FailureCode
			cs.FailureMessage = details.FailureDescription
			cs.ErrorDetails = details.ErrorDetails
			for _, detail := range details.ErrorDetails {
				s.logger.Error("Change set %s: %s", cs.ID, detail)
			}
			return NewError(ErrRemoteFailed,
				fmt.Sprintf("change set failed: %s", details.FailureDescription), cs.ID, nil)
		case StatusCancelled:
			cs.Status = StatusCancelled
			return NewError(ErrRemoteCancelled, "change set was cancelled", cs.ID, nil)
		}

		select {
		case <-ctx.Done():
			return NewError(ErrAborted, "wait cancelled by caller", cs.ID, ctx.Err())
		case <-deadline.C:
			return NewError(ErrPollTimeout,
				fmt.Sprintf("change set did not settle within %s", s.config.PollTimeout), cs.ID, nil)
		case <-time.After(s.config.PollInterval):
		}
	}
}

// Cancel asks the remote API to cancel a submitted change set.
func (s *Service) Cancel(ctx context.Context, cs *ChangeSet) error {
	if cs == nil || cs.ID == "" {
		return NewError(ErrInvalidInput, "change set has not been submitted", "", nil)
	}

	if err := s.gateway.CancelChangeSet(ctx, cs.ID); err != nil {
		return err
	}
	cs.Status = StatusCancelled
	s.logger.Info("Cancelled change set %s", cs.ID)
	return nil
}

// fetchRemoteState assembles the remote listing document: product sections
// from the product entity, terms from its public offer. Both entities are
// described concurrently.
func (s *Service) fetchRemoteState(ctx context.Context, productID string) (*models.ListingDocument, string, error) {
	var (
		remote     *models.ListingDocument
		offerID    string
		offerTerms []models.Term
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		remote, err = s.gateway.DescribeListing(gctx, productID)
		return err
	})
	g.Go(func() error {
		var err error
		offerID, err = s.gateway.PublicOfferID(gctx, productID)
		if err != nil {
			return err
		}
		offerTerms, err = s.gateway.DescribeOfferTerms(gctx, offerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	remote.Terms = offerTerms
	return remote, offerID, nil
}

// mapRemoteStatus translates the raw catalog API status onto the lifecycle.
// In-progress states stay Submitted.
func mapRemoteStatus(raw string) Status {
	switch raw {
	case "SUCCEEDED":
		return StatusSucceeded
	case "FAILED":
		return StatusFailed
	case "CANCELLED":
		return StatusCancelled
	default:
		return StatusSubmitted
	}
}

// effectivePricingTerms returns the pricing terms UpdatePricingTerms should
// carry. It starts from the desired terms and reverts every guarded price
// back to its remote value, so a wholesale terms replacement cannot smuggle
// in a change the guard withheld.
func effectivePricingTerms(desired *models.ListingDocument, skipped []diff.SkippedPriceChange) []models.Term {
	var terms []models.Term
	for _, term := range desired.Terms {
		switch term.Type {
		case models.TermTypeHourlyPricing, models.TermTypeAnnualPricing, models.TermTypeMonthlyFee:
			terms = append(terms, cloneTerm(term))
		}
	}

	for _, skip := range skipped {
		oldPrice := advisoryPrice(skip.OldValue)
		for i := range terms {
			switch {
			case skip.Section == models.SectionHourlyPricing && terms[i].Type == models.TermTypeHourlyPricing,
				skip.Section == models.SectionAnnualPricing && terms[i].Type == models.TermTypeAnnualPricing:
				revertDimensionPrice(&terms[i], skip.Name, oldPrice)
			case skip.Section == models.SectionMonthlyFee && terms[i].Type == models.TermTypeMonthlyFee:
				terms[i].Price = oldPrice
			}
		}
	}

	return terms
}

// advisoryPrice extracts the price string from a guard advisory value. Rate
// card sections report the whole remote card; the monthly fee reports the
// price string itself.
func advisoryPrice(v any) string {
	switch value := v.(type) {
	case models.RateCard:
		return value.Price
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}

func revertDimensionPrice(term *models.Term, dimensionKey, price string) {
	for g := range term.RateCards {
		for c := range term.RateCards[g].RateCard {
			if term.RateCards[g].RateCard[c].DimensionKey == dimensionKey {
				term.RateCards[g].RateCard[c].Price = price
			}
		}
	}
}

func cloneTerm(term models.Term) models.Term {
	clone := term
	clone.RateCards = make([]models.RateCardGroup, len(term.RateCards))
	for i, group := range term.RateCards {
		cloned := group
		cloned.RateCard = append([]models.RateCard(nil), group.RateCard...)
		clone.RateCards[i] = cloned
	}
	return clone
}
