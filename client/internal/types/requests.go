package types

import (
	"io"
	"net/http"
	"net/url"
)

// ------------------------------
// Transport Request
// ------------------------------

// File is a multipart file payload.
type File struct {
	Field    string // form field name, "file" when empty
	Name     string // file name reported to the server
	Content  io.Reader
	MIMEType string
	Fields   map[string]string // extra form fields sent with the file
}

// Request describes one call against the API. Path is appended to the base URL.
type Request struct {
	Method string
	Path   string
	JSON   any
	Query  url.Values
	File   *File
	Header http.Header
}

// ------------------------------
// Endpoint Payloads
// ------------------------------

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest is the body of POST /api/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the body of POST /api/auth/reset-password.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	ResetCode   string `json:"reset_code"`
	NewPassword string `json:"new_password"`
}

// ProfileUpdate is the body of PUT /api/profile. Nil fields are left alone.
type ProfileUpdate struct {
	Name       *string `json:"name,omitempty"`
	Bio        *string `json:"bio,omitempty"`
	Website    *string `json:"website,omitempty"`
	VenmoLink  *string `json:"venmo_link,omitempty"`
	PaypalLink *string `json:"paypal_link,omitempty"`
}

// SongInput is the body of POST/PUT /api/songs.
type SongInput struct {
	Title  string   `json:"title"`
	Artist string   `json:"artist"`
	Genres []string `json:"genres,omitempty"`
	Moods  []string `json:"moods,omitempty"`
	Year   int      `json:"year,omitempty"`
	Notes  string   `json:"notes,omitempty"`
}

// RequestInput is the body of POST /api/requests.
type RequestInput struct {
	MusicianID     string  `json:"musician_id"`
	SongID         string  `json:"song_id"`
	RequesterName  string  `json:"requester_name"`
	RequesterEmail string  `json:"requester_email"`
	Dedication     string  `json:"dedication,omitempty"`
	TipAmount      float64 `json:"tip_amount,omitempty"`
}

// StatusUpdate is the body of status-changing PUT endpoints.
type StatusUpdate struct {
	Status string `json:"status"`
}

// ClickInput is the body of POST /api/requests/{id}/track-click.
type ClickInput struct {
	Type     string `json:"type"`
	Platform string `json:"platform"`
}

// PlaylistInput is the body of POST /api/playlists.
type PlaylistInput struct {
	Name    string   `json:"name"`
	SongIDs []string `json:"song_ids"`
}

// PlaylistName is the body of PUT /api/playlists/{id}/name.
type PlaylistName struct {
	Name string `json:"name"`
}

// PlaylistVisibility is the body of PUT /api/playlists/{id}/visibility.
type PlaylistVisibility struct {
	IsPublic bool `json:"is_public"`
}

// ShowInput is the body of POST /api/shows/start.
type ShowInput struct {
	Name  string `json:"name"`
	Venue string `json:"venue,omitempty"`
}

// CheckoutRequest is the body of POST /api/subscription/checkout.
type CheckoutRequest struct {
	Plan       string `json:"plan"`
	SuccessURL string `json:"success_url,omitempty"`
	CancelURL  string `json:"cancel_url,omitempty"`
}

// SuggestionInput is the body of POST /api/song-suggestions.
type SuggestionInput struct {
	MusicianSlug   string `json:"musician_slug"`
	Title          string `json:"suggested_title"`
	Artist         string `json:"suggested_artist"`
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
}
