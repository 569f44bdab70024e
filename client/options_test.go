package client

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestWithHTTPTimeout(t *testing.T) {
	c := &Client{http: &http.Client{}}
	if err := WithHTTPTimeout(5 * time.Second)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.http.Timeout != 5*time.Second {
		t.Fatalf("http timeout not set")
	}
	if err := WithHTTPTimeout(0)(c); err == nil {
		t.Fatal("expected error for zero timeout")
	}
}

func TestWithRetry_RejectsNegative(t *testing.T) {
	if _, err := New("http://example.com", WithRetry(-1)); err == nil {
		t.Fatal("expected error")
	}
}

func TestWithHTTPClient_DoesNotMutateCaller(t *testing.T) {
	base := &http.Client{}
	c, err := New("http://example.com", WithHTTPClient(base))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if base.Transport != nil {
		t.Fatal("caller's http.Client transport was replaced")
	}
	if _, ok := c.http.Transport.(*bearerTransport); !ok {
		t.Fatalf("expected bearerTransport on outermost layer, got %T", c.http.Transport)
	}
}

func TestWithDebugLogging_BaseTransportInvoked(t *testing.T) {
	var called bool
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return &http.Response{StatusCode: 200, Body: http.NoBody, Header: make(http.Header), Request: r}, nil
	})
	c, err := New("http://example.com", WithHTTPClient(&http.Client{Transport: rt}), WithDebugLogging(true), WithUserAgent("qa-test"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := c.Get(context.Background(), "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	_ = resp.Body.Close()
	if !called {
		t.Fatalf("base transport not invoked")
	}
}

func TestNew_AutoEnableDebugViaEnv(t *testing.T) {
	t.Setenv("REQUESTQA_DEBUG", "true")
	c, err := New("http://example.com")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	bt, ok := c.http.Transport.(*bearerTransport)
	if !ok {
		t.Fatalf("expected bearerTransport, got %T", c.http.Transport)
	}
	if _, ok := bt.base.(*debugTransport); !ok {
		t.Fatalf("expected debugTransport under bearer wrapper when REQUESTQA_DEBUG=true")
	}
}

func TestDebugTransport_ErrorPath(t *testing.T) {
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, context.DeadlineExceeded
	})
	c, _ := New("http://example.com", WithHTTPClient(&http.Client{Transport: rt}), WithDebugLogging(true))
	if _, err := c.Get(context.Background(), "/"); err == nil {
		t.Fatalf("expected error from underlying transport")
	}
}
