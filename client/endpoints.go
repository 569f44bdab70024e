package client

import (
	"context"

	"github.com/BryceLarsen/Requestwave-sub001/client/internal/api"
)

// --------------------------------------------------------------------
// Auth - delegated to internal/api
// --------------------------------------------------------------------

// Login exchanges credentials for a token and, on success, stores the token
// and the musician's id and slug on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	resp, err := api.Login(ctx, c, LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	c.setSession(resp.BearerToken(), Identity{MusicianID: resp.Musician.ID, Slug: resp.Musician.Slug})
	return resp, nil
}

// Register creates a musician account. The session is left untouched.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	return api.Register(ctx, c, req)
}

// ForgotPassword requests a reset code for email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	return api.ForgotPassword(ctx, c, email)
}

// ResetPassword sets a new password using a reset code.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error) {
	return api.ResetPassword(ctx, c, req)
}

// Me returns the musician behind the current token.
func (c *Client) Me(ctx context.Context) (*Musician, error) {
	if c.Token() == "" {
		return nil, ErrNotAuthenticated
	}
	return api.Me(ctx, c)
}

// --------------------------------------------------------------------
// Profile
// --------------------------------------------------------------------

// GetProfile returns the logged-in musician's profile.
func (c *Client) GetProfile(ctx context.Context) (*Musician, error) {
	return api.GetProfile(ctx, c)
}

// UpdateProfile applies the non-nil fields of upd.
func (c *Client) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*Musician, error) {
	return api.UpdateProfile(ctx, c, upd)
}

// --------------------------------------------------------------------
// Songs
// --------------------------------------------------------------------

// ListSongs returns the musician's song library.
func (c *Client) ListSongs(ctx context.Context) ([]Song, error) {
	return api.ListSongs(ctx, c)
}

// CreateSong adds a song to the library.
func (c *Client) CreateSong(ctx context.Context, in SongInput) (*Song, error) {
	return api.CreateSong(ctx, c, in)
}

// UpdateSong replaces a song's fields.
func (c *Client) UpdateSong(ctx context.Context, songID string, in SongInput) (*Song, error) {
	return api.UpdateSong(ctx, c, songID, in)
}

// DeleteSong removes a song.
func (c *Client) DeleteSong(ctx context.Context, songID string) error {
	return api.DeleteSong(ctx, c, songID)
}

// PreviewSongsCSV uploads a CSV file and returns the parsed preview.
func (c *Client) PreviewSongsCSV(ctx context.Context, file File) (*CSVPreviewResponse, error) {
	return api.PreviewSongsCSV(ctx, c, file)
}

// --------------------------------------------------------------------
// Public musician pages (no token needed)
// --------------------------------------------------------------------

// GetMusician fetches a musician by slug.
func (c *Client) GetMusician(ctx context.Context, slug string) (*Musician, error) {
	return api.GetMusician(ctx, c, slug)
}

// ListPublicSongs lists a musician's visible songs.
func (c *Client) ListPublicSongs(ctx context.Context, slug string) ([]Song, error) {
	return api.ListPublicSongs(ctx, c, slug)
}

// ListPublicPlaylists lists a musician's public playlists.
func (c *Client) ListPublicPlaylists(ctx context.Context, slug string) ([]Playlist, error) {
	return api.ListPublicPlaylists(ctx, c, slug)
}

// --------------------------------------------------------------------
// Requests
// --------------------------------------------------------------------

// CreateRequest submits an audience request.
func (c *Client) CreateRequest(ctx context.Context, in RequestInput) (*SongRequest, error) {
	return api.CreateRequest(ctx, c, in)
}

// ListMusicianRequests lists requests for musicianID. An empty id means the
// logged-in musician.
func (c *Client) ListMusicianRequests(ctx context.Context, musicianID string) ([]SongRequest, error) {
	if musicianID == "" {
		musicianID = c.Identity().MusicianID
		if musicianID == "" {
			return nil, ErrNotAuthenticated
		}
	}
	return api.ListMusicianRequests(ctx, c, musicianID)
}

// UpdateRequestStatus sets a request's status (see the Request* constants).
func (c *Client) UpdateRequestStatus(ctx context.Context, requestID, status string) error {
	return api.UpdateRequestStatus(ctx, c, requestID, status)
}

// DeleteRequest removes a request.
func (c *Client) DeleteRequest(ctx context.Context, requestID string) error {
	return api.DeleteRequest(ctx, c, requestID)
}

// TrackClick records a tip/payment link click on a request.
func (c *Client) TrackClick(ctx context.Context, requestID string, in ClickInput) error {
	return api.TrackClick(ctx, c, requestID, in)
}

// GroupedRequests returns requests bucketed by show and age.
func (c *Client) GroupedRequests(ctx context.Context) (*GroupedRequests, error) {
	return api.GroupedRequests(ctx, c)
}

// --------------------------------------------------------------------
// Playlists
// --------------------------------------------------------------------

// ListPlaylists returns the musician's playlists.
func (c *Client) ListPlaylists(ctx context.Context) ([]Playlist, error) {
	return api.ListPlaylists(ctx, c)
}

// CreatePlaylist creates a playlist.
func (c *Client) CreatePlaylist(ctx context.Context, in PlaylistInput) (*Playlist, error) {
	return api.CreatePlaylist(ctx, c, in)
}

// RenamePlaylist renames a playlist.
func (c *Client) RenamePlaylist(ctx context.Context, playlistID, name string) error {
	return api.RenamePlaylist(ctx, c, playlistID, name)
}

// SetPlaylistVisibility toggles whether the audience can see a playlist.
func (c *Client) SetPlaylistVisibility(ctx context.Context, playlistID string, public bool) error {
	return api.SetPlaylistVisibility(ctx, c, playlistID, public)
}

// DeletePlaylist removes a playlist.
func (c *Client) DeletePlaylist(ctx context.Context, playlistID string) error {
	return api.DeletePlaylist(ctx, c, playlistID)
}

// --------------------------------------------------------------------
// Shows
// --------------------------------------------------------------------

// StartShow opens a live show.
func (c *Client) StartShow(ctx context.Context, in ShowInput) (*Show, error) {
	return api.StartShow(ctx, c, in)
}

// StopShow closes the live show.
func (c *Client) StopShow(ctx context.Context) error {
	return api.StopShow(ctx, c)
}

// CurrentShow reports the live show, if any.
func (c *Client) CurrentShow(ctx context.Context) (*CurrentShowResponse, error) {
	return api.CurrentShow(ctx, c)
}

// --------------------------------------------------------------------
// Subscription
// --------------------------------------------------------------------

// SubscriptionStatus returns the musician's plan and limits.
func (c *Client) SubscriptionStatus(ctx context.Context) (*Subscription, error) {
	return api.SubscriptionStatus(ctx, c)
}

// Checkout starts a checkout session for a plan.
func (c *Client) Checkout(ctx context.Context, in CheckoutRequest) (*CheckoutResponse, error) {
	return api.Checkout(ctx, c, in)
}

// CancelSubscription schedules cancellation at period end.
func (c *Client) CancelSubscription(ctx context.Context) (*MessageResponse, error) {
	return api.CancelSubscription(ctx, c)
}

// DebugBillingState dumps the backend's billing record for the musician.
func (c *Client) DebugBillingState(ctx context.Context) (BillingState, error) {
	return api.DebugBillingState(ctx, c)
}

// --------------------------------------------------------------------
// Misc
// --------------------------------------------------------------------

// QRCode returns the audience QR code.
func (c *Client) QRCode(ctx context.Context) (*QRCodeResponse, error) {
	return api.QRCode(ctx, c)
}

// DemoCSV downloads the sample song CSV and its content type.
func (c *Client) DemoCSV(ctx context.Context) ([]byte, string, error) {
	return api.DemoCSV(ctx, c)
}

// DesignSettings returns the audience page design.
func (c *Client) DesignSettings(ctx context.Context) (*DesignSettings, error) {
	return api.DesignSettings(ctx, c)
}

// UpdateDesignSettings saves the audience page design.
func (c *Client) UpdateDesignSettings(ctx context.Context, in DesignSettings) error {
	return api.UpdateDesignSettings(ctx, c, in)
}

// SuggestSong files an audience song suggestion.
func (c *Client) SuggestSong(ctx context.Context, in SuggestionInput) (*SongSuggestion, error) {
	return api.SuggestSong(ctx, c, in)
}

// ListSuggestions returns suggestions addressed to the musician.
func (c *Client) ListSuggestions(ctx context.Context) ([]SongSuggestion, error) {
	return api.ListSuggestions(ctx, c)
}

// UpdateSuggestionStatus approves or rejects a suggestion.
func (c *Client) UpdateSuggestionStatus(ctx context.Context, suggestionID, status string) error {
	return api.UpdateSuggestionStatus(ctx, c, suggestionID, status)
}
