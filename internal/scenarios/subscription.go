package scenarios

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/BryceLarsen/Requestwave-sub001/client"
	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
	"github.com/BryceLarsen/Requestwave-sub001/internal/webhook"
)

func subscriptionScenarios() []harness.Scenario {
	return []harness.Scenario{
		{Group: GroupSubscription, Name: "subscription status", Run: authed(subscriptionStatus)},
		{Group: GroupSubscription, Name: "checkout", Run: authed(checkout)},
		{Group: GroupSubscription, Name: "cancel", Run: authed(cancelSubscription)},
		{Group: GroupSubscription, Name: "webhook", Run: stripeWebhook},
		{Group: GroupSubscription, Name: "billing state", Run: authed(billingState)},
	}
}

func subscriptionStatus(ctx context.Context, s *harness.Session) error {
	sub, err := s.Client.SubscriptionStatus(ctx)
	if !s.ExpectCall("subscription status", err) {
		return nil
	}
	s.Check("subscription has plan", sub.Plan != "", "plan %q", sub.Plan)
	return nil
}

func checkout(ctx context.Context, s *harness.Session) error {
	base := s.Client.BaseURL()
	res, err := s.Client.Checkout(ctx, client.CheckoutRequest{
		Plan:       "monthly",
		SuccessURL: base + "/dashboard?checkout=success",
		CancelURL:  base + "/dashboard?checkout=cancel",
	})
	if !s.ExpectCall("start checkout", err, http.StatusBadRequest) || err != nil {
		return nil
	}
	s.Check("checkout returns url", res.URL != "", "url %q", res.URL)
	return nil
}

func cancelSubscription(ctx context.Context, s *harness.Session) error {
	_, err := s.Client.CancelSubscription(ctx)
	s.ExpectCall("cancel subscription", err, http.StatusBadRequest)
	return nil
}

func stripeWebhook(ctx context.Context, s *harness.Session) error {
	musicianID, _ := s.Get(keyMusicianID)
	ev := webhook.NewEvent("invoice.paid", map[string]any{
		"id":       "in_qa_" + uniqueSuffix(),
		"object":   "invoice",
		"customer": "cus_qa",
		"metadata": map[string]string{"musician_id": musicianID},
	})
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	sender := webhook.NewSender(s.Client.BaseURL(), s.Params.WebhookSecret, 30*time.Second)
	res, err := sender.SendUnsigned(ctx, payload)
	if s.ExpectNoError("unsigned webhook rejected", err) {
		s.Check("unsigned webhook rejected", res.StatusCode == http.StatusBadRequest,
			"expected 400, got HTTP %d", res.StatusCode)
	}

	if s.Params.WebhookSecret == "" {
		s.Log.Info().Msg("no webhook secret configured; signed delivery not checked")
		return nil
	}
	res, err = sender.Send(ctx, ev)
	if s.ExpectNoError("signed webhook accepted", err) {
		s.Check("signed webhook accepted", res.StatusCode == http.StatusOK,
			"expected 200, got HTTP %d", res.StatusCode)
	}
	return nil
}

func billingState(ctx context.Context, s *harness.Session) error {
	_, err := s.Client.DebugBillingState(ctx)
	s.ExpectCall("debug billing state", err, http.StatusNotFound)
	return nil
}
