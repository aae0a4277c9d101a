package publishers

import (
	"time"

	"github.com/samvad-hq/fastspring-bridge/internal/domain"
)

// Event kinds published downstream.
const (
	KindSubscriptionSnapshot = "subscription_snapshot"
	KindSubscriptionError    = "subscription_error"
	KindRenewalOutcome       = "renewal_outcome"
)

// RenewalOutcome records the result of a renewal attempt for a watched
// subscription. A declined renewal is a valid outcome, not an error.
type RenewalOutcome struct {
	OK       bool   `json:"ok"`
	Status   int    `json:"status"`
	Reason   string `json:"reason,omitempty"`
	Simulate string `json:"simulate,omitempty"`
}

// Event represents the payload published downstream for one observed
// subscription state.
type Event struct {
	WatchID         string              `json:"watch_id"`
	SubscriptionRef string              `json:"subscription_ref"`
	Kind            string              `json:"kind"`
	Subscription    domain.Subscription `json:"subscription"`
	Renewal         *RenewalOutcome     `json:"renewal,omitempty"`
	Error           string              `json:"error,omitempty"`
	ObservedAt      time.Time           `json:"observed_at"`
}

// NewEvent constructs a snapshot Event for the given watch + subscription.
func NewEvent(watchID, subscriptionRef string, sub domain.Subscription) Event {
	return Event{
		WatchID:         watchID,
		SubscriptionRef: subscriptionRef,
		Kind:            KindSubscriptionSnapshot,
		Subscription:    sub,
		ObservedAt:      time.Now().UTC(),
	}
}

// NewRenewalEvent constructs an Event reporting the outcome of a renewal
// attempt for the given watch + subscription.
func NewRenewalEvent(watchID, subscriptionRef string, outcome RenewalOutcome) Event {
	return Event{
		WatchID:         watchID,
		SubscriptionRef: subscriptionRef,
		Kind:            KindRenewalOutcome,
		Renewal:         &outcome,
		ObservedAt:      time.Now().UTC(),
	}
}

// NewErrorEvent constructs an Event reporting a failed poll.
func NewErrorEvent(watchID, subscriptionRef string, err error) Event {
	evt := Event{
		WatchID:         watchID,
		SubscriptionRef: subscriptionRef,
		Kind:            KindSubscriptionError,
		ObservedAt:      time.Now().UTC(),
	}
	if err != nil {
		evt.Error = err.Error()
	}
	return evt
}
