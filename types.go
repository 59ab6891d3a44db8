package antrean

import "net/http"

// Middleware wraps a request on its way to the underlying transport. Chains
// run in registration order: the first registered middleware sees the request
// first and the response last. A middleware that returns an error
// short-circuits the rest of the chain.
type Middleware func(req *http.Request, next RoundTripper) (*http.Response, error)

// RoundTripper is the HTTP transport interface middleware composes over.
type RoundTripper interface {
	RoundTrip(*http.Request) (*http.Response, error)
}

// RoundTripperFunc adapts a function to RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// TokenStore supplies the bearer token attached to outbound requests.
// Token reports the persisted token and whether one is present.
type TokenStore interface {
	Token() (string, bool)
}

// RetryCondition determines whether a transport-level attempt should be retried.
type RetryCondition func(resp *http.Response, err error) bool

// DefaultRetryCondition retries network failures and 5xx responses.
func DefaultRetryCondition(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp.StatusCode >= 500
}

// Option configures a Client.
type Option func(*Client)
