package publishers

import (
	"context"
	"errors"
	"fmt"
)

// Fanout dispatches each billing event to every configured sink. A sink
// failure never blocks delivery to the remaining sinks; all failures are
// joined into the returned error.
type Fanout struct {
	publishers []Publisher
	log        Logger
}

// NewFanout builds a dispatcher over the given sinks, skipping nils.
func NewFanout(pubs []Publisher, log Logger) *Fanout {
	cp := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p == nil {
			continue
		}
		cp = append(cp, p)
	}
	return &Fanout{publishers: cp, log: ensureLogger(log)}
}

// Publish forwards the billing event to every registered sink and returns
// the number of sinks that accepted it.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil || len(f.publishers) == 0 {
		return 0, nil
	}

	var errs []error
	successful := 0
	for _, p := range f.publishers {
		if err := p.Publish(ctx, evt); err != nil {
			f.log.WarnObj("event delivery failed", "delivery", map[string]any{
				"publisher_id":     p.ID(),
				"publisher_type":   p.Type(),
				"subscription_ref": evt.SubscriptionRef,
				"kind":             evt.Kind,
				"error":            err.Error(),
			})
			errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err))
			continue
		}
		successful++
	}

	f.log.DebugObj("event fanned out", "delivery", map[string]any{
		"subscription_ref": evt.SubscriptionRef,
		"kind":             evt.Kind,
		"successful":       successful,
		"sinks":            len(f.publishers),
	})
	return successful, errors.Join(errs...)
}

// Size returns the number of active sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}
