package types

import "time"

// ------------------------------
// Core Domain Entities
// ------------------------------

// Musician is the authenticated account and its public profile.
type Musician struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Slug        string `json:"slug"`
	Bio         string `json:"bio,omitempty"`
	Website     string `json:"website,omitempty"`
	VenmoLink   string `json:"venmo_link,omitempty"`
	PaypalLink  string `json:"paypal_link,omitempty"`
	AudienceURL string `json:"audience_url,omitempty"`
}

// Song is an entry in a musician's repertoire.
type Song struct {
	ID         string    `json:"id"`
	MusicianID string    `json:"musician_id,omitempty"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	Genres     []string  `json:"genres,omitempty"`
	Moods      []string  `json:"moods,omitempty"`
	Year       int       `json:"year,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Hidden     bool      `json:"hidden,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// Playlist groups songs for audience display.
type Playlist struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	SongIDs   []string `json:"song_ids"`
	SongCount int      `json:"song_count,omitempty"`
	IsPublic  bool     `json:"is_public"`
	IsActive  bool     `json:"is_active,omitempty"`
}

// Request statuses accepted by PUT /api/requests/{id}/status.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestPlayed   = "played"
	RequestRejected = "rejected"
)

// SongRequest is an audience song request.
type SongRequest struct {
	ID             string    `json:"id"`
	MusicianID     string    `json:"musician_id"`
	SongID         string    `json:"song_id"`
	SongTitle      string    `json:"song_title,omitempty"`
	SongArtist     string    `json:"song_artist,omitempty"`
	RequesterName  string    `json:"requester_name"`
	RequesterEmail string    `json:"requester_email"`
	Dedication     string    `json:"dedication,omitempty"`
	TipAmount      float64   `json:"tip_amount,omitempty"`
	Status         string    `json:"status"`
	ShowID         string    `json:"show_id,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// Show is a live performance session that requests attach to.
type Show struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Venue     string    `json:"venue,omitempty"`
	Status    string    `json:"status,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty"`
}

// Subscription is the billing state of a musician.
type Subscription struct {
	Plan              string     `json:"plan"`
	Status            string     `json:"status,omitempty"`
	CanMakeRequest    bool       `json:"can_make_request"`
	RequestsUsed      int        `json:"requests_used,omitempty"`
	RequestsLimit     *int       `json:"requests_limit,omitempty"`
	TrialEndsAt       *time.Time `json:"trial_ends_at,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancel_at_period_end,omitempty"`
}

// DesignSettings controls the audience page look and features.
type DesignSettings struct {
	ColorScheme          string `json:"color_scheme"`
	LayoutMode           string `json:"layout_mode"`
	ArtistPhoto          string `json:"artist_photo,omitempty"`
	ShowYear             bool   `json:"show_year"`
	ShowNotes            bool   `json:"show_notes"`
	AllowSongSuggestions bool   `json:"allow_song_suggestions"`
}

// SongSuggestion is an audience proposal for a song not in the repertoire.
type SongSuggestion struct {
	ID           string `json:"id"`
	MusicianSlug string `json:"musician_slug,omitempty"`
	SuggestedBy  string `json:"suggested_by"`
	Title        string `json:"suggested_title"`
	Artist       string `json:"suggested_artist"`
	Status       string `json:"status"`
}
