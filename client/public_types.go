package client

import "github.com/BryceLarsen/Requestwave-sub001/client/internal/types"

// Public type aliases so callers can import only the client package.
type (
	// Raw request description
	Request = types.Request
	File    = types.File

	// Requests
	LoginRequest         = types.LoginRequest
	RegisterRequest      = types.RegisterRequest
	ResetPasswordRequest = types.ResetPasswordRequest
	ProfileUpdate        = types.ProfileUpdate
	SongInput            = types.SongInput
	RequestInput         = types.RequestInput
	ClickInput           = types.ClickInput
	PlaylistInput        = types.PlaylistInput
	ShowInput            = types.ShowInput
	CheckoutRequest      = types.CheckoutRequest
	SuggestionInput      = types.SuggestionInput

	// Domain entities
	Musician       = types.Musician
	Song           = types.Song
	Playlist       = types.Playlist
	SongRequest    = types.SongRequest
	Show           = types.Show
	Subscription   = types.Subscription
	DesignSettings = types.DesignSettings
	SongSuggestion = types.SongSuggestion

	// Responses
	LoginResponse       = types.LoginResponse
	MessageResponse     = types.MessageResponse
	CSVPreviewResponse  = types.CSVPreviewResponse
	GroupedRequests     = types.GroupedRequests
	CurrentShowResponse = types.CurrentShowResponse
	CheckoutResponse    = types.CheckoutResponse
	QRCodeResponse      = types.QRCodeResponse
	BillingState        = types.BillingState
)

// Song request statuses.
const (
	RequestPending  = types.RequestPending
	RequestAccepted = types.RequestAccepted
	RequestPlayed   = types.RequestPlayed
	RequestRejected = types.RequestRejected
)
