// Package scenarios holds the named checks run against a Requestwave
// deployment, grouped by product area.
package scenarios

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/BryceLarsen/Requestwave-sub001/client"
	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
)

// Scenario groups in run order.
const (
	GroupAuth         = "auth"
	GroupProfile      = "profile"
	GroupSongs        = "songs"
	GroupAudience     = "audience"
	GroupRequests     = "requests"
	GroupPlaylists    = "playlists"
	GroupShows        = "shows"
	GroupSubscription = "subscription"
	GroupQRCode       = "qrcode"
	GroupDemoCSV      = "democsv"
	GroupSuggestions  = "suggestions"
	GroupDesign       = "design"
	GroupPages        = "pages"
)

// Session state keys shared between scenarios.
const (
	keyMusicianID   = "musician_id"
	keySlug         = "slug"
	keySongID       = "song_id"
	keyReqSongID    = "request_song_id"
	keyRequestID    = "request_id"
	keyPlaylistID   = "playlist_id"
	keyShowID       = "show_id"
	keySuggestionID = "suggestion_id"
)

// Catalogue returns every scenario in its fixed order.
func Catalogue() *harness.Suite {
	s := harness.NewSuite()
	s.Add(authScenarios()...)
	s.Add(profileScenarios()...)
	s.Add(songScenarios()...)
	s.Add(audienceScenarios()...)
	s.Add(requestScenarios()...)
	s.Add(playlistScenarios()...)
	s.Add(showScenarios()...)
	s.Add(subscriptionScenarios()...)
	s.Add(qrcodeScenarios()...)
	s.Add(demoCSVScenarios()...)
	s.Add(suggestionScenarios()...)
	s.Add(designScenarios()...)
	s.Add(pageScenarios()...)
	return s
}

// ------------------------- helpers -------------------------

// requireLogin fails the scenario when the login scenario did not succeed.
func requireLogin(s *harness.Session) error {
	if s.Client.Token() == "" {
		return client.ErrNotAuthenticated
	}
	return nil
}

// authed wraps fn so it only runs with a session token.
func authed(fn harness.ScenarioFunc) harness.ScenarioFunc {
	return func(ctx context.Context, s *harness.Session) error {
		if err := requireLogin(s); err != nil {
			return err
		}
		return fn(ctx, s)
	}
}

// expectRejected records a pass when err carries one of codes.
func expectRejected(s *harness.Session, name string, err error, codes ...int) bool {
	if err == nil {
		return s.Check(name, false, "expected HTTP %s, call succeeded", codeList(codes))
	}
	got := client.StatusOf(err)
	for _, c := range codes {
		if got == c {
			return s.Check(name, true, "HTTP %d", got)
		}
	}
	return s.Check(name, false, "expected HTTP %s, got %v", codeList(codes), err)
}

func codeList(codes []int) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = fmt.Sprint(c)
	}
	return strings.Join(parts, "/")
}

// uniqueName tags a created resource so parallel runs never collide.
func uniqueName(prefix string) string {
	return prefix + " " + uniqueSuffix()
}

func uniqueSuffix() string {
	return uuid.NewString()[:8]
}

func containsID[T any](items []T, id string, idOf func(T) string) bool {
	for _, it := range items {
		if idOf(it) == id {
			return true
		}
	}
	return false
}

func songID(s client.Song) string           { return s.ID }
func requestID(r client.SongRequest) string { return r.ID }
func playlistID(p client.Playlist) string   { return p.ID }

func suggestionID(s client.SongSuggestion) string { return s.ID }

// statusOrOK reports the HTTP status of a typed call result.
func statusOrOK(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return client.StatusOf(err)
}
