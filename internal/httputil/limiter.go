// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// LimitedTransport is an http.RoundTripper that waits on a token bucket
// before each request. A cancelled wait fails the request.
type LimitedTransport struct {
	Base    http.RoundTripper
	Limiter *rate.Limiter
}

// NewLimitedTransport wraps base (http.DefaultTransport when nil) with a
// limiter allowing perSecond sustained requests and the given burst. A
// non-positive perSecond disables limiting.
func NewLimitedTransport(base http.RoundTripper, perSecond float64, burst int) *LimitedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &LimitedTransport{Base: base, Limiter: rate.NewLimiter(limit, burst)}
}

// RoundTrip implements http.RoundTripper.
func (t *LimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.Limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return t.Base.RoundTrip(req)
}

// NewClient returns an http.Client with the given timeout whose transport
// is rate limited to perSecond requests.
func NewClient(timeout time.Duration, perSecond float64) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewLimitedTransport(nil, perSecond, 1),
	}
}
