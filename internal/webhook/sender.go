// Package webhook simulates billing-provider webhook deliveries.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Path is where the API accepts billing webhooks.
const Path = "/api/stripe/webhook"

// Event is a Stripe-shaped webhook event.
type Event struct {
	ID      string    `json:"id"`
	Object  string    `json:"object"`
	Type    string    `json:"type"`
	Created int64     `json:"created"`
	Data    EventData `json:"data"`
}

// EventData wraps the event's subject object.
type EventData struct {
	Object map[string]any `json:"object"`
}

// NewEvent builds an event of eventType around object.
func NewEvent(eventType string, object map[string]any) Event {
	return Event{
		ID:      "evt_" + uuid.NewString(),
		Object:  "event",
		Type:    eventType,
		Created: time.Now().Unix(),
		Data:    EventData{Object: object},
	}
}

// Result is the API's answer to a delivery.
type Result struct {
	StatusCode int
	Body       string
}

// Sender posts events to a deployment.
type Sender struct {
	client *resty.Client
	secret string
	now    func() time.Time
}

// NewSender returns a Sender for baseURL signing with secret.
func NewSender(baseURL, secret string, timeout time.Duration) *Sender {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &Sender{client: c, secret: secret, now: time.Now}
}

// Send delivers ev with a valid signature.
func (s *Sender) Send(ctx context.Context, ev Event) (*Result, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return s.post(ctx, payload, Sign(s.secret, payload, s.now()))
}

// SendUnsigned delivers payload with no signature header.
func (s *Sender) SendUnsigned(ctx context.Context, payload []byte) (*Result, error) {
	return s.post(ctx, payload, "")
}

// SendRaw delivers payload with an arbitrary signature header value.
func (s *Sender) SendRaw(ctx context.Context, payload []byte, signature string) (*Result, error) {
	return s.post(ctx, payload, signature)
}

func (s *Sender) post(ctx context.Context, payload []byte, signature string) (*Result, error) {
	req := s.client.R().SetContext(ctx).SetBody(payload)
	if signature != "" {
		req.SetHeader(SignatureHeader, signature)
	}
	resp, err := req.Post(Path)
	if err != nil {
		return nil, fmt.Errorf("webhook request: %w", err)
	}
	return &Result{StatusCode: resp.StatusCode(), Body: resp.String()}, nil
}
