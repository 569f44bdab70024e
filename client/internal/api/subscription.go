package api

import (
	"context"
	"net/http"

	"github.com/BryceLarsen/Requestwave-sub001/client/internal/types"
)

// SubscriptionStatus returns the musician's plan and request allowance.
func SubscriptionStatus(ctx context.Context, d Doer) (*types.Subscription, error) {
	var out types.Subscription
	if err := call(ctx, d, "subscription status", types.Request{Method: http.MethodGet, Path: "/api/subscription/status"}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Checkout opens a payment session for plan.
func Checkout(ctx context.Context, d Doer, in types.CheckoutRequest) (*types.CheckoutResponse, error) {
	var out types.CheckoutResponse
	r := types.Request{Method: http.MethodPost, Path: "/api/subscription/checkout", JSON: in}
	if err := call(ctx, d, "checkout", r, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelSubscription schedules cancellation at period end.
func CancelSubscription(ctx context.Context, d Doer) (*types.MessageResponse, error) {
	var out types.MessageResponse
	if err := call(ctx, d, "cancel subscription", types.Request{Method: http.MethodPost, Path: "/api/billing/cancel"}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DebugBillingState returns the backend's diagnostic billing dump.
func DebugBillingState(ctx context.Context, d Doer) (types.BillingState, error) {
	out := types.BillingState{}
	if err := call(ctx, d, "debug billing state", types.Request{Method: http.MethodGet, Path: "/api/debug/billing-state"}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}
