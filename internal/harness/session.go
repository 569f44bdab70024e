package harness

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/BryceLarsen/Requestwave-sub001/client"
)

// ErrMissingState is wrapped by MustGet when a key was never set, usually
// because the scenario that produces it failed.
var ErrMissingState = errors.New("missing session state")

const bodySnippetLen = 200

// Params are the run inputs scenarios may need.
type Params struct {
	BaseURL        string
	Email          string
	Password       string
	AudienceDomain string
	WebhookSecret  string
}

// Session carries the client and cross-scenario state through a run.
type Session struct {
	Client *client.Client
	Params Params
	Log    zerolog.Logger

	rec *Recorder

	mu    sync.RWMutex
	state map[string]string
}

// NewSession builds a Session recording into rec.
func NewSession(c *client.Client, p Params, log zerolog.Logger, rec *Recorder) *Session {
	return &Session{
		Client: c,
		Params: p,
		Log:    log,
		rec:    rec,
		state:  make(map[string]string),
	}
}

// Recorder returns the session's recorder.
func (s *Session) Recorder() *Recorder { return s.rec }

// Set stores a value for later scenarios.
func (s *Session) Set(key, value string) {
	s.mu.Lock()
	s.state[key] = value
	s.mu.Unlock()
}

// Get returns the value for key and whether it was set.
func (s *Session) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.state[key]
	return v, ok && v != ""
}

// MustGet returns the value for key or an error wrapping ErrMissingState.
func (s *Session) MustGet(key string) (string, error) {
	v, ok := s.Get(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingState, key)
	}
	return v, nil
}

// Delete forgets key.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	delete(s.state, key)
	s.mu.Unlock()
}

// LogResult records a check on the session's recorder.
func (s *Session) LogResult(name string, success bool, message string) {
	s.rec.LogResult(name, success, message)
}

// Check records ok under name. The message is formatted from format/args.
func (s *Session) Check(name string, ok bool, format string, args ...any) bool {
	s.rec.LogResult(name, ok, fmt.Sprintf(format, args...))
	return ok
}

// ExpectNoError records a failure carrying err's text when err is non-nil.
// Nothing is recorded on success.
func (s *Session) ExpectNoError(name string, err error) bool {
	if err != nil {
		s.rec.LogResult(name, false, err.Error())
		return false
	}
	return true
}

// ExpectStatus reads and closes resp's body and records whether its status
// is one of want. The body is returned for further checks.
func (s *Session) ExpectStatus(name string, resp *http.Response, want ...int) ([]byte, bool) {
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	for _, w := range want {
		if resp.StatusCode == w {
			s.rec.LogResult(name, true, fmt.Sprintf("HTTP %d", resp.StatusCode))
			return body, true
		}
	}
	s.rec.LogResult(name, false, fmt.Sprintf("expected %s, got HTTP %d: %s", statusList(want), resp.StatusCode, snippet(body)))
	return body, false
}

// ExpectResponse combines ExpectNoError and ExpectStatus for a call result.
func (s *Session) ExpectResponse(name string, resp *http.Response, err error, want ...int) ([]byte, bool) {
	if !s.ExpectNoError(name, err) {
		return nil, false
	}
	return s.ExpectStatus(name, resp, want...)
}

// ExpectCall records the outcome of a typed client call. A non-nil error is
// a failure unless its HTTP status is one of allowed.
func (s *Session) ExpectCall(name string, err error, allowed ...int) bool {
	if err == nil {
		s.rec.LogResult(name, true, "ok")
		return true
	}
	status := client.StatusOf(err)
	for _, a := range allowed {
		if status == a {
			s.rec.LogResult(name, true, fmt.Sprintf("HTTP %d", status))
			return true
		}
	}
	s.rec.LogResult(name, false, err.Error())
	return false
}

func statusList(want []int) string {
	parts := make([]string, len(want))
	for i, w := range want {
		parts[i] = fmt.Sprint(w)
	}
	return strings.Join(parts, "/")
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > bodySnippetLen {
		s = s[:bodySnippetLen] + "..."
	}
	return s
}
