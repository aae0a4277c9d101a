package fastspring

import (
	"time"

	"github.com/samvad-hq/fastspring-bridge/pkg/httpclient"
)

// Option customizes a Client at construction time.
type Option func(*Client)

// WithBaseURL overrides the production endpoint, e.g. for a sandbox.
func WithBaseURL(rawURL string) Option {
	return func(c *Client) {
		c.rawBaseURL = rawURL
	}
}

// WithHTTPClient injects a transport. The caller owns authentication when
// supplying one; the default transport applies basic auth from the account
// credentials.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger injects a logger for request tracing.
func WithLogger(log Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithTimeout sets the per-request timeout of the default transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}
