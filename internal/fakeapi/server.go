// Package fakeapi is an in-memory stand-in for the Requestwave API. It
// answers every endpoint the scenario catalogue exercises with the same
// status semantics, and supports fault injection so harness behaviour under
// errors and timeouts can be tested without a deployment.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/BryceLarsen/Requestwave-sub001/internal/fakeapi/recovery"
	"github.com/BryceLarsen/Requestwave-sub001/internal/fakeapi/respond"
)

// Seeded account available after New.
const (
	SeedEmail    = "musician@example.com"
	SeedPassword = "password123"
	SeedName     = "Demo Musician"
	SeedSlug     = "demo-musician"

	DefaultWebhookSecret = "whsec_fake"
)

// Options tune the fake deployment.
type Options struct {
	// AudienceDomain is the host used in audience URLs. Empty means the
	// request's own host.
	AudienceDomain string
	// WebhookSecret signs billing webhooks. Defaults to DefaultWebhookSecret.
	WebhookSecret string
	// AllowSuggestions seeds the design flag allow_song_suggestions.
	AllowSuggestions bool
	// Logger receives request-level events and recovered panics. Nil uses
	// the global logger.
	Logger *zerolog.Logger
}

// Server is the fake backend. Its zero value is not usable; call New.
type Server struct {
	opts    Options
	handler http.Handler
	log     zerolog.Logger

	mu sync.Mutex
	st *store

	faultMu sync.Mutex
	fails   map[string]int
	delays  map[string]time.Duration
	hits    map[string]int
}

// New returns a Server seeded with one musician account.
func New(opts Options) *Server {
	if opts.WebhookSecret == "" {
		opts.WebhookSecret = DefaultWebhookSecret
	}
	s := &Server{
		opts:   opts,
		st:     newStore(),
		fails:  make(map[string]int),
		delays: make(map[string]time.Duration),
		hits:   make(map[string]int),
	}
	if opts.Logger != nil {
		s.log = *opts.Logger
	} else {
		s.log = log.Logger.With().Str("component", "fakeapi").Logger()
	}
	s.st.seed(opts)
	s.handler = s.routes()
	return s
}

// Handler returns the HTTP handler serving the API and static pages.
func (s *Server) Handler() http.Handler { return s.handler }

// WebhookSecret returns the secret webhooks must be signed with.
func (s *Server) WebhookSecret() string { return s.opts.WebhookSecret }

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()

	// Global middlewares
	r.Use(recovery.New(s.log))
	r.Use(s.faultMiddleware)

	r.NotFoundHandler = s.faultMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.WriteNotFound(w, "no route for "+r.URL.Path)
	}))

	// Auth
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/forgot-password", s.handleForgotPassword).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/reset-password", s.handleResetPassword).Methods(http.MethodPost)
	r.HandleFunc("/api/me", s.authed(s.handleMe)).Methods(http.MethodGet)

	// Profile
	r.HandleFunc("/api/profile", s.authed(s.handleGetProfile)).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", s.authed(s.handleUpdateProfile)).Methods(http.MethodPut)

	// Songs
	r.HandleFunc("/api/songs", s.authed(s.handleListSongs)).Methods(http.MethodGet)
	r.HandleFunc("/api/songs", s.authed(s.handleCreateSong)).Methods(http.MethodPost)
	r.HandleFunc("/api/songs/csv/preview", s.authed(s.handlePreviewCSV)).Methods(http.MethodPost)
	r.HandleFunc("/api/songs/{id}", s.authed(s.handleUpdateSong)).Methods(http.MethodPut)
	r.HandleFunc("/api/songs/{id}", s.authed(s.handleDeleteSong)).Methods(http.MethodDelete)

	// Public musician pages
	r.HandleFunc("/api/musicians/{slug}", s.handleGetMusician).Methods(http.MethodGet)
	r.HandleFunc("/api/musicians/{slug}/songs", s.handlePublicSongs).Methods(http.MethodGet)
	r.HandleFunc("/api/musicians/{slug}/playlists", s.handlePublicPlaylists).Methods(http.MethodGet)

	// Requests
	r.HandleFunc("/api/requests", s.handleCreateRequest).Methods(http.MethodPost)
	r.HandleFunc("/api/requests/grouped", s.authed(s.handleGroupedRequests)).Methods(http.MethodGet)
	r.HandleFunc("/api/requests/musician/{id}", s.authed(s.handleListRequests)).Methods(http.MethodGet)
	r.HandleFunc("/api/requests/{id}/status", s.authed(s.handleRequestStatus)).Methods(http.MethodPut)
	r.HandleFunc("/api/requests/{id}/track-click", s.handleTrackClick).Methods(http.MethodPost)
	r.HandleFunc("/api/requests/{id}", s.authed(s.handleDeleteRequest)).Methods(http.MethodDelete)

	// Playlists
	r.HandleFunc("/api/playlists", s.authed(s.handleListPlaylists)).Methods(http.MethodGet)
	r.HandleFunc("/api/playlists", s.authed(s.handleCreatePlaylist)).Methods(http.MethodPost)
	r.HandleFunc("/api/playlists/{id}/name", s.authed(s.handleRenamePlaylist)).Methods(http.MethodPut)
	r.HandleFunc("/api/playlists/{id}/visibility", s.authed(s.handlePlaylistVisibility)).Methods(http.MethodPut)
	r.HandleFunc("/api/playlists/{id}", s.authed(s.handleDeletePlaylist)).Methods(http.MethodDelete)

	// Shows
	r.HandleFunc("/api/shows/start", s.authed(s.handleStartShow)).Methods(http.MethodPost)
	r.HandleFunc("/api/shows/stop", s.authed(s.handleStopShow)).Methods(http.MethodPost)
	r.HandleFunc("/api/shows/current", s.authed(s.handleCurrentShow)).Methods(http.MethodGet)

	// Billing
	r.HandleFunc("/api/subscription/status", s.authed(s.handleSubscriptionStatus)).Methods(http.MethodGet)
	r.HandleFunc("/api/subscription/checkout", s.authed(s.handleCheckout)).Methods(http.MethodPost)
	r.HandleFunc("/api/billing/cancel", s.authed(s.handleCancel)).Methods(http.MethodPost)
	r.HandleFunc("/api/stripe/webhook", s.handleWebhook).Methods(http.MethodPost)
	r.HandleFunc("/api/debug/billing-state", s.authed(s.handleBillingState)).Methods(http.MethodGet)

	// Misc
	r.HandleFunc("/api/qr-code", s.authed(s.handleQRCode)).Methods(http.MethodGet)
	r.HandleFunc("/api/demo-csv", s.handleDemoCSV).Methods(http.MethodGet)
	r.HandleFunc("/api/design/settings", s.authed(s.handleGetDesign)).Methods(http.MethodGet)
	r.HandleFunc("/api/design/settings", s.authed(s.handleUpdateDesign)).Methods(http.MethodPut)
	r.HandleFunc("/api/song-suggestions", s.handleSuggestSong).Methods(http.MethodPost)
	r.HandleFunc("/api/song-suggestions", s.authed(s.handleListSuggestions)).Methods(http.MethodGet)
	r.HandleFunc("/api/song-suggestions/{id}/status", s.authed(s.handleSuggestionStatus)).Methods(http.MethodPut)

	// Static pages
	for path, page := range staticPages {
		r.Handle(path, page).Methods(http.MethodGet)
	}

	return r
}

type authedHandler func(w http.ResponseWriter, r *http.Request, musicianID string)

// authed resolves the bearer token to a musician id or answers 401.
func (s *Server) authed(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || tok == "" {
			respond.WriteUnauthorized(w, "missing bearer token")
			return
		}
		s.mu.Lock()
		id, known := s.st.tokens[tok]
		s.mu.Unlock()
		if !known {
			respond.WriteUnauthorized(w, "invalid token")
			return
		}
		h(w, r, id)
	}
}

// decodeJSON decodes the request body into v or answers 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return false
	}
	return true
}

// ------------------------- fault injection -------------------------

// Fail makes method+path answer status until ClearFaults. An empty method
// matches every method.
func (s *Server) Fail(method, path string, status int) {
	s.faultMu.Lock()
	s.fails[strings.ToUpper(method)+" "+path] = status
	s.faultMu.Unlock()
}

// Delay holds every request to path for d before handling it.
func (s *Server) Delay(path string, d time.Duration) {
	s.faultMu.Lock()
	s.delays[path] = d
	s.faultMu.Unlock()
}

// ClearFaults removes every injected failure and delay.
func (s *Server) ClearFaults() {
	s.faultMu.Lock()
	s.fails = make(map[string]int)
	s.delays = make(map[string]time.Duration)
	s.faultMu.Unlock()
}

// Hits reports how many requests reached method+path.
func (s *Server) Hits(method, path string) int {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	return s.hits[strings.ToUpper(method)+" "+path]
}

func (s *Server) faultMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		s.faultMu.Lock()
		s.hits[r.Method+" "+path]++
		delay := s.delays[path]
		status, fail := s.fails[r.Method+" "+path]
		if !fail {
			status, fail = s.fails[" "+path]
		}
		s.faultMu.Unlock()

		if delay > 0 {
			t := time.NewTimer(delay)
			select {
			case <-t.C:
			case <-r.Context().Done():
				t.Stop()
				return
			}
		}
		if fail {
			s.log.Debug().Str("method", r.Method).Str("path", path).Int("status", status).Msg("injected failure")
			respond.WriteError(w, status, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}
