package fakeapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BryceLarsen/Requestwave-sub001/client"
	"github.com/BryceLarsen/Requestwave-sub001/internal/fakeapi/respond"
	"github.com/BryceLarsen/Requestwave-sub001/internal/webhook"
)

var checkoutPlans = map[string]bool{"monthly": true, "annual": true}

func (a *account) activelySubscribed() bool {
	return a.plan == "pro" && a.subStatus == "active" && !a.cancelAtPeriodEnd
}

func (s *Server) handleSubscriptionStatus(w http.ResponseWriter, r *http.Request, musicianID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	used := len(s.st.requestsOf(musicianID))
	respond.WriteJSON(w, http.StatusOK, s.st.accounts[musicianID].subscription(used))
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request, musicianID string) {
	var in client.CheckoutRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if !checkoutPlans[in.Plan] {
		respond.WriteBadRequest(w, "unknown plan "+in.Plan)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.st.accounts[musicianID]
	if acct.activelySubscribed() {
		respond.WriteBadRequest(w, "already subscribed")
		return
	}
	session := "cs_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	acct.checkoutSessions[session] = in.Plan
	respond.WriteJSON(w, http.StatusOK, client.CheckoutResponse{
		URL:       "https://checkout.stripe.test/c/pay/" + session,
		SessionID: session,
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request, musicianID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.st.accounts[musicianID]
	if !acct.activelySubscribed() {
		respond.WriteBadRequest(w, "no active subscription to cancel")
		return
	}
	acct.cancelAtPeriodEnd = true
	respond.WriteMessage(w, "subscription will cancel at period end")
}

func (s *Server) handleBillingState(w http.ResponseWriter, r *http.Request, musicianID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.st.accounts[musicianID]
	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"musician_id":          musicianID,
		"plan":                 acct.plan,
		"status":               acct.subStatus,
		"cancel_at_period_end": acct.cancelAtPeriodEnd,
		"stripe_customer_id":   acct.customerID,
		"pending_sessions":     len(acct.checkoutSessions),
	})
}

type webhookObject struct {
	ID                string            `json:"id"`
	Customer          string            `json:"customer"`
	ClientReferenceID string            `json:"client_reference_id"`
	Metadata          map[string]string `json:"metadata"`
}

func (o webhookObject) musicianID() string {
	if o.ClientReferenceID != "" {
		return o.ClientReferenceID
	}
	return o.Metadata["musician_id"]
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxUpload))
	if err != nil {
		respond.WriteBadRequest(w, "unreadable body")
		return
	}
	if err := webhook.Verify(r.Header.Get(webhook.SignatureHeader), payload, s.opts.WebhookSecret, webhook.DefaultTolerance, time.Now()); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	var ev struct {
		Type string `json:"type"`
		Data struct {
			Object webhookObject `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &ev); err != nil {
		respond.WriteBadRequest(w, "invalid event payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	obj := ev.Data.Object
	acct := s.st.accounts[obj.musicianID()]
	switch ev.Type {
	case "checkout.session.completed":
		if acct != nil {
			acct.plan, acct.subStatus, acct.cancelAtPeriodEnd = "pro", "active", false
			acct.customerID = obj.Customer
			delete(acct.checkoutSessions, obj.ID)
		}
	case "customer.subscription.deleted":
		if acct != nil {
			acct.plan, acct.subStatus, acct.cancelAtPeriodEnd = "free", "canceled", false
		}
	default:
		s.log.Debug().Str("type", ev.Type).Msg("ignoring webhook event")
	}
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}
