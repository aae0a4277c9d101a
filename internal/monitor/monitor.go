package monitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/fastspring-bridge/internal/domain"
	"github.com/samvad-hq/fastspring-bridge/internal/logger"
	"github.com/samvad-hq/fastspring-bridge/pkg/fastspring"
	"github.com/samvad-hq/fastspring-bridge/pkg/publishers"
	"github.com/samvad-hq/fastspring-bridge/pkg/watch"
)

// SubscriptionFetcher is the slice of the API client the monitor needs.
type SubscriptionFetcher interface {
	GetSubscription(ctx context.Context, reference string) (fastspring.Document, error)
}

// SubscriptionRenewer issues renewal attempts for watches that request a
// dry run. *fastspring.Client satisfies it.
type SubscriptionRenewer interface {
	RenewSubscription(ctx context.Context, reference, simulate string) (fastspring.RenewResult, error)
}

// EventPublisher fans observed events out to downstream sinks.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Service polls watched subscriptions and publishes their observed state.
// No state is kept between passes; every pass publishes a fresh snapshot.
type Service struct {
	client  SubscriptionFetcher
	renewer SubscriptionRenewer
	fanout  EventPublisher
	log     logger.Logger
}

// NewService wires a monitor with the API client and event fan-out. When the
// client can also renew subscriptions, watches carrying a simulate value get
// a renewal pass.
func NewService(client SubscriptionFetcher, fanout EventPublisher, log logger.Logger) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	s := &Service{
		client: client,
		fanout: fanout,
		log:    log,
	}
	if r, ok := client.(SubscriptionRenewer); ok {
		s.renewer = r
	}
	return s
}

// Run executes one poll pass across all watched subscriptions.
func (s *Service) Run(ctx context.Context, watches []watch.Watch) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("monitor service is not initialized")
	}

	if len(watches) == 0 {
		return fmt.Errorf("no watches configured for polling")
	}

	errs := s.runAll(ctx, watches)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func (s *Service) runAll(ctx context.Context, watches []watch.Watch) []error {
	errs := make([]error, 0, len(watches))

	for _, w := range watches {
		if err := s.runWatch(ctx, w); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("watch poll failed", "watch_error", map[string]any{
				"watch_id": w.ID,
				"error":    err.Error(),
			})
		}
	}

	return errs
}

func (s *Service) runWatch(ctx context.Context, w watch.Watch) error {
	doc, err := s.client.GetSubscription(ctx, w.Reference)
	if err != nil {
		// API-level failures still produce a downstream event so consumers
		// can alert on subscriptions that stopped resolving.
		if _, ok := fastspring.IsAPIError(err); ok && s.fanout != nil {
			evt := publishers.NewErrorEvent(w.ID, w.Reference, err)
			if _, pubErr := s.fanout.Publish(ctx, evt); pubErr != nil {
				return errors.Join(fmt.Errorf("fetch subscription %s: %w", w.Reference, err), pubErr)
			}
		}
		return fmt.Errorf("fetch subscription %s: %w", w.Reference, err)
	}

	evt := publishers.NewEvent(w.ID, w.Reference, Summarize(doc))
	published := 0
	if s.fanout != nil {
		published, err = s.fanout.Publish(ctx, evt)
		if err != nil {
			return fmt.Errorf("publish snapshot for %s: %w", w.Reference, err)
		}
	}

	s.log.InfoObj("watch poll completed", "watch_result", map[string]any{
		"watch_id":  w.ID,
		"status":    evt.Subscription.Status,
		"published": published,
	})

	if w.Simulate != "" {
		return s.runRenewal(ctx, w)
	}
	return nil
}

// runRenewal issues a renewal attempt for the watch and publishes the
// outcome. A declined renewal is published, not treated as a failure.
func (s *Service) runRenewal(ctx context.Context, w watch.Watch) error {
	if s.renewer == nil {
		return fmt.Errorf("watch %s requests a renewal but the client cannot renew", w.ID)
	}

	res, err := s.renewer.RenewSubscription(ctx, w.Reference, w.Simulate)
	if err != nil {
		return fmt.Errorf("renew subscription %s: %w", w.Reference, err)
	}

	evt := publishers.NewRenewalEvent(w.ID, w.Reference, publishers.RenewalOutcome{
		OK:       res.OK,
		Status:   res.Status,
		Reason:   res.Reason,
		Simulate: w.Simulate,
	})
	published := 0
	if s.fanout != nil {
		if published, err = s.fanout.Publish(ctx, evt); err != nil {
			return fmt.Errorf("publish renewal outcome for %s: %w", w.Reference, err)
		}
	}

	s.log.InfoObj("renewal attempt completed", "renewal_result", map[string]any{
		"watch_id":  w.ID,
		"ok":        res.OK,
		"status":    res.Status,
		"reason":    res.Reason,
		"published": published,
	})
	return nil
}

// Summarize extracts the well-known subscription fields from a response
// document. Missing tags yield empty fields.
func Summarize(doc fastspring.Document) domain.Subscription {
	return domain.Subscription{
		Reference:      doc.StringAt("subscription.reference"),
		Status:         doc.StringAt("subscription.status"),
		ProductName:    doc.StringAt("subscription.productName"),
		CustomerEmail:  doc.StringAt("subscription.customer.email"),
		NextPeriodDate: doc.StringAt("subscription.nextPeriodDate"),
	}
}
