// Package fastspring is a client binding for the FastSpring orders, coupons,
// and subscriptions API. Each method maps onto a single documented endpoint;
// data is entered and returned as a Document.
package fastspring

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samvad-hq/fastspring-bridge/pkg/httpclient"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.fastspring.com"

const defaultTimeout = 15 * time.Second

// Client issues calls against a single FastSpring account. Configuration is
// fixed at construction and never mutated, so a Client is safe for concurrent
// use.
type Client struct {
	username string
	password string
	company  string

	rawBaseURL string
	baseURL    *url.URL
	timeout    time.Duration
	http       httpclient.Client
	log        Logger
}

// New builds a Client for the given account credentials and company name.
func New(username, password, company string, opts ...Option) (*Client, error) {
	c := &Client{
		username:   strings.TrimSpace(username),
		password:   password,
		company:    strings.TrimSpace(company),
		rawBaseURL: DefaultBaseURL,
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.username == "" {
		return nil, errors.New("fastspring: username is required")
	}
	if c.password == "" {
		return nil, errors.New("fastspring: password is required")
	}
	if c.company == "" {
		return nil, errors.New("fastspring: company is required")
	}

	base, err := url.Parse(strings.TrimSpace(c.rawBaseURL))
	if err != nil {
		return nil, fmt.Errorf("fastspring: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("fastspring: base url %q must be absolute", c.rawBaseURL)
	}
	c.baseURL = base

	if c.http == nil {
		c.http = httpclient.NewRestyClient(c.timeout, httpclient.WithBasicAuth(c.username, c.password))
	}
	c.log = ensureLogger(c.log)

	return c, nil
}

// Company returns the account/tenant namespace all requests are scoped under.
func (c *Client) Company() string { return c.company }

// GetOrder retrieves an order by its reference ID.
func (c *Client) GetOrder(ctx context.Context, reference string) (Document, error) {
	res, err := c.request(ctx, http.MethodGet, "order/"+reference, nil)
	if err != nil {
		return nil, err
	}
	if len(res.body) == 0 {
		return nil, newAPIError(ErrOrderFetch, "could not get order information", res.status, res.message, res.reason)
	}
	return ParseDocument(res.body)
}

// GenerateCoupon generates a coupon code derived from the given prefix.
func (c *Client) GenerateCoupon(ctx context.Context, prefix string) (Document, error) {
	res, err := c.request(ctx, http.MethodPost, "coupon/"+prefix+"/generate", nil)
	if err != nil {
		return nil, err
	}
	if len(res.body) == 0 {
		return nil, newAPIError(ErrCouponGenerate, "could not generate coupon", res.status, res.message, res.reason)
	}
	return ParseDocument(res.body)
}

// GetSubscription retrieves subscription information by reference ID. An
// empty response body is reported as an APIError, consistent with the other
// read operations.
func (c *Client) GetSubscription(ctx context.Context, reference string) (Document, error) {
	res, err := c.request(ctx, http.MethodGet, "subscription/"+reference, nil)
	if err != nil {
		return nil, err
	}
	if len(res.body) == 0 {
		return nil, newAPIError(ErrSubscriptionFetch, "could not get subscription information", res.status, res.message, res.reason)
	}
	return ParseDocument(res.body)
}

// UpdateSubscription applies the given fields to a subscription. Any non-200
// status is an APIError carrying that status and reason.
func (c *Client) UpdateSubscription(ctx context.Context, reference string, data Document) (Document, error) {
	body, err := Document{"subscription": map[string]any(data)}.XMLBytes()
	if err != nil {
		return nil, err
	}

	res, err := c.request(ctx, http.MethodPut, "subscription/"+reference, body)
	if err != nil {
		return nil, err
	}
	if res.status != http.StatusOK {
		return nil, newAPIError(ErrSubscriptionUpdate, "could not update subscription", res.status, res.message, res.reason)
	}
	return ParseDocument(res.body)
}

// CancelSubscription cancels a subscription by reference ID. It returns the
// subscription information when the API sends any, or (nil, nil) when the API
// answers 200 with an empty body.
func (c *Client) CancelSubscription(ctx context.Context, reference string) (Document, error) {
	res, err := c.request(ctx, http.MethodDelete, "subscription/"+reference, nil)
	if err != nil {
		return nil, err
	}
	if len(res.body) > 0 {
		return ParseDocument(res.body)
	}
	if res.status != http.StatusOK {
		return nil, newAPIError(ErrSubscriptionCancel, "could not cancel subscription", res.status, res.message, res.reason)
	}
	return nil, nil
}

// RenewResult reports the outcome of a renewal attempt.
type RenewResult struct {
	OK      bool
	Status  int
	Message string
	Reason  string
}

// RenewSubscription attempts to renew a subscription. Pass a non-empty
// simulate value to request a dry run instead of an actual charge.
//
// Unlike the other operations it never reports HTTP failure through an
// APIError: callers must branch on RenewResult.OK. The error return is
// reserved for transport-level failures.
func (c *Client) RenewSubscription(ctx context.Context, reference, simulate string) (RenewResult, error) {
	// The renewal body is a literal query-style string, not an XML document.
	var body []byte
	if simulate != "" {
		body = []byte("simulate=" + simulate)
	}

	res, err := c.request(ctx, http.MethodPost, "subscription/"+reference+"/renew", body)
	if err != nil {
		return RenewResult{}, err
	}
	return RenewResult{
		OK:      res.status == http.StatusOK,
		Status:  res.status,
		Message: res.message,
		Reason:  res.reason,
	}, nil
}

// response is the outcome of a single round trip. message mirrors the remote
// protocol's status message slot, which the transport does not expose, so it
// stays empty.
type response struct {
	body    []byte
	status  int
	message string
	reason  string
}

// request issues one call against /company/{company}/{path}. The path always
// replaces the base URL path wholesale, so trailing slashes or path segments
// on the base never double up.
func (c *Client) request(ctx context.Context, method, path string, body []byte) (*response, error) {
	requestPath := "/company/" + c.company + "/" + path
	u := c.baseURL.ResolveReference(&url.URL{Path: requestPath})

	c.log.DebugObj("fastspring request", "request_meta", map[string]any{
		"method": method,
		"url":    u.String(),
		"body":   string(body),
	})

	headers := map[string]string{"Content-type": "application/xml"}
	resp, err := c.http.Do(ctx, method, u.String(), headers, body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, u.Path, err)
	}

	return &response{
		body:   resp.Body(),
		status: resp.StatusCode(),
		reason: reasonPhrase(resp),
	}, nil
}

// reasonPhrase extracts the reason phrase from a status line like "200 OK".
func reasonPhrase(resp httpclient.Response) string {
	status := strings.TrimSpace(resp.Status())
	code := strconv.Itoa(resp.StatusCode())
	if rest, ok := strings.CutPrefix(status, code); ok {
		return strings.TrimSpace(rest)
	}
	return http.StatusText(resp.StatusCode())
}
