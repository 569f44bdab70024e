package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/BryceLarsen/Requestwave-sub001/client/internal/types"
)

// errRT is an http.RoundTripper that always returns an error (simulates network failure).
type errRT struct{}

func (e *errRT) RoundTrip(*http.Request) (*http.Response, error) { return nil, fmt.Errorf("boom") }

// httpDoer is the minimal Doer used by endpoint tests.
type httpDoer struct {
	base string
	hc   *http.Client
}

func (d httpDoer) Do(ctx context.Context, req types.Request) (*http.Response, error) {
	httpReq, err := NewHTTPRequest(ctx, d.base, req)
	if err != nil {
		return nil, err
	}
	return d.hc.Do(httpReq)
}
