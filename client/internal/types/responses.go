package types

import "encoding/json"

// ------------------------------
// Response Types
// ------------------------------

// LoginResponse is returned by the login and register endpoints.
type LoginResponse struct {
	Token       string   `json:"token"`
	AccessToken string   `json:"access_token,omitempty"`
	Musician    Musician `json:"musician"`
}

// BearerToken returns whichever token field the server populated.
func (r LoginResponse) BearerToken() string {
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}

// MessageResponse is the generic {"message": ...} acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
	Success *bool  `json:"success,omitempty"`
}

// CSVPreviewResponse is returned by POST /api/songs/csv/preview.
type CSVPreviewResponse struct {
	Preview   []SongInput `json:"preview"`
	TotalRows int         `json:"total_rows"`
	Errors    []string    `json:"errors,omitempty"`
}

// GroupedRequests is returned by GET /api/requests/grouped.
type GroupedRequests struct {
	Show        *Show         `json:"show,omitempty"`
	CurrentShow []SongRequest `json:"current_show"`
	Today       []SongRequest `json:"today"`
	Older       []SongRequest `json:"older"`
}

// CurrentShowResponse is returned by GET /api/shows/current.
type CurrentShowResponse struct {
	Active bool  `json:"active"`
	Show   *Show `json:"show,omitempty"`
}

// CheckoutResponse is returned by POST /api/subscription/checkout.
type CheckoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id,omitempty"`
}

// QRCodeResponse is returned by GET /api/qr-code.
type QRCodeResponse struct {
	QRCode      string `json:"qr_code"`
	AudienceURL string `json:"audience_url"`
}

// BillingState is returned by GET /api/debug/billing-state. The shape is
// diagnostic and varies by deployment, so it stays raw.
type BillingState map[string]json.RawMessage
