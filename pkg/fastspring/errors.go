package fastspring

import (
	"errors"
	"fmt"
)

// One sentinel per failing operation so callers can branch with errors.Is.
var (
	ErrOrderFetch         = errors.New("fastspring: could not get order information")
	ErrCouponGenerate     = errors.New("fastspring: could not generate coupon")
	ErrSubscriptionFetch  = errors.New("fastspring: could not get subscription information")
	ErrSubscriptionUpdate = errors.New("fastspring: could not update subscription")
	ErrSubscriptionCancel = errors.New("fastspring: could not cancel subscription")
)

// APIError reports a remote call whose success condition was not met. It
// carries the HTTP status and reason phrase of the failing response. Message
// is the protocol-level status message; the transport exposes none, so it is
// always empty.
type APIError struct {
	Detail  string
	Status  int
	Message string
	Reason  string

	kind error
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s (status %d %s)", e.Detail, e.Status, e.Reason)
	}
	return fmt.Sprintf("%s (status %d)", e.Detail, e.Status)
}

func (e *APIError) Unwrap() error { return e.kind }

func newAPIError(kind error, detail string, status int, message, reason string) *APIError {
	return &APIError{
		Detail:  detail,
		Status:  status,
		Message: message,
		Reason:  reason,
		kind:    kind,
	}
}

// IsAPIError unwraps err into an *APIError when one is present.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
