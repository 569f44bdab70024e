package harness

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BryceLarsen/Requestwave-sub001/client"
)

func newTestSession(t *testing.T, baseURL string, opts ...client.Option) *Session {
	t.Helper()
	c, err := client.New(baseURL, opts...)
	require.NoError(t, err)
	return NewSession(c, Params{BaseURL: baseURL}, zerolog.Nop(), NewRecorder(zerolog.Nop()))
}

func TestLogResult_Accounting(t *testing.T) {
	t.Parallel()
	rec := NewRecorder(zerolog.Nop())

	rec.LogResult("a", true, "fine")
	assert.Equal(t, 1, rec.Passed())
	assert.Equal(t, 0, rec.Failed())
	assert.Empty(t, rec.Errors())

	rec.LogResult("b", false, "HTTP 500")
	assert.Equal(t, 1, rec.Passed())
	assert.Equal(t, 1, rec.Failed())
	assert.Equal(t, []string{"b: HTTP 500"}, rec.Errors())

	rec.LogResult("c", true, "")
	s := rec.Summary()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, s.Total, s.Passed+s.Failed)
	assert.InDelta(t, 66.67, s.SuccessRate, 0.01)
	assert.Len(t, s.Results, 3)
}

func TestLogResult_Concurrent(t *testing.T) {
	t.Parallel()
	rec := NewRecorder(zerolog.Nop())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec.LogResult(fmt.Sprintf("check-%d", i), i%5 != 0, "x")
		}(i)
	}
	wg.Wait()
	s := rec.Summary()
	assert.Equal(t, 50, s.Total)
	assert.Equal(t, 10, s.Failed)
	assert.Len(t, s.Errors, 10)
}

func TestSummary_EmptyRun(t *testing.T) {
	t.Parallel()
	s := NewRecorder(zerolog.Nop()).Summary()
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0.0, s.SuccessRate)
	assert.Equal(t, 0, ExitCode(s))
}

func TestExitCode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, ExitCode(Summary{Passed: 3}))
	assert.Equal(t, 1, ExitCode(Summary{Passed: 3, Failed: 1}))
}

// Login succeeds, a protected endpoint answers 403 and a slow endpoint times
// out: one pass, two fails.
func TestRunAll_LoginForbiddenTimeout(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			_, _ = w.Write([]byte(`{"token":"tok","musician":{"id":"m1","slug":"band"}}`))
		case "/api/profile":
			http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
		case "/api/songs":
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}
	}))
	defer srv.Close()

	sess := newTestSession(t, srv.URL, client.WithHTTPTimeout(100*time.Millisecond))
	suite := NewSuite(
		Scenario{Group: "auth", Name: "login", Run: func(ctx context.Context, s *Session) error {
			_, err := s.Client.Login(ctx, "m@example.com", "pw")
			s.ExpectCall("login", err)
			return nil
		}},
		Scenario{Group: "profile", Name: "profile", Run: func(ctx context.Context, s *Session) error {
			resp, err := s.Client.Get(ctx, "/api/profile")
			s.ExpectResponse("get profile", resp, err, http.StatusOK)
			return nil
		}},
		Scenario{Group: "songs", Name: "songs", Run: func(ctx context.Context, s *Session) error {
			resp, err := s.Client.Get(ctx, "/api/songs")
			s.ExpectResponse("list songs", resp, err, http.StatusOK)
			return nil
		}},
	)

	sum := suite.RunAll(context.Background(), sess)
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 1, sum.Passed)
	assert.Equal(t, 2, sum.Failed)
	require.Len(t, sum.Errors, 2)
	assert.Contains(t, sum.Errors[0], "get profile: ")
	assert.Contains(t, sum.Errors[0], "403")
	assert.Contains(t, sum.Errors[1], "list songs: ")
	assert.Contains(t, strings.ToLower(sum.Errors[1]), "timeout")
	assert.Equal(t, []string{"profile", "songs"}, sum.FailedGroups())
	assert.Equal(t, 1, ExitCode(sum))
}

func TestRunAll_ErrorsAndPanicsBecomeFailures(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t, "http://127.0.0.1:1")
	var order []string
	suite := NewSuite(
		Scenario{Group: "g", Name: "returns error", Run: func(ctx context.Context, s *Session) error {
			order = append(order, "1")
			return errors.New("boom")
		}},
		Scenario{Group: "g", Name: "panics", Run: func(ctx context.Context, s *Session) error {
			order = append(order, "2")
			panic("kaboom")
		}},
		Scenario{Group: "g", Name: "needs state", Run: func(ctx context.Context, s *Session) error {
			order = append(order, "3")
			_, err := s.MustGet("song_id")
			return err
		}},
		Scenario{Group: "g", Name: "nil body"},
		Scenario{Group: "h", Name: "passes", Run: func(ctx context.Context, s *Session) error {
			order = append(order, "4")
			s.Check("ok", true, "fine")
			return nil
		}},
	)

	sum := suite.RunAll(context.Background(), sess)
	assert.Equal(t, []string{"1", "2", "3", "4"}, order)
	assert.Equal(t, 5, sum.Total)
	assert.Equal(t, 1, sum.Passed)
	assert.Equal(t, 4, sum.Failed)
	assert.Equal(t, "returns error: boom", sum.Errors[0])
	assert.Equal(t, "panics: panic: kaboom", sum.Errors[1])
	assert.Contains(t, sum.Errors[2], "missing session state: song_id")
	assert.Len(t, sum.FailuresByGroup["g"], 4)
}

func TestRunAll_CanceledContextSkipsRemaining(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t, "http://127.0.0.1:1")
	ctx, cancel := context.WithCancel(context.Background())
	ran := 0
	suite := NewSuite(
		Scenario{Group: "g", Name: "first", Run: func(ctx context.Context, s *Session) error {
			ran++
			cancel()
			s.Check("first", true, "")
			return nil
		}},
		Scenario{Group: "g", Name: "second", Run: func(ctx context.Context, s *Session) error {
			ran++
			return nil
		}},
	)
	sum := suite.RunAll(ctx, sess)
	assert.Equal(t, 1, ran)
	assert.Equal(t, 1, sum.Failed)
	assert.Contains(t, sum.Errors[0], "second: not run")
}

func TestSuite_Filter(t *testing.T) {
	t.Parallel()
	noop := func(context.Context, *Session) error { return nil }
	suite := NewSuite(
		Scenario{Group: "auth", Name: "a1", Run: noop},
		Scenario{Group: "songs", Name: "s1", Run: noop},
		Scenario{Group: "auth", Name: "a2", Run: noop},
		Scenario{Group: "pages", Name: "p1", Run: noop},
	)
	assert.Equal(t, []string{"auth", "songs", "pages"}, suite.Groups())

	f, err := suite.Filter("pages", "auth")
	require.NoError(t, err)
	var names []string
	for _, sc := range f.Scenarios() {
		names = append(names, sc.Name)
	}
	assert.Equal(t, []string{"a1", "a2", "p1"}, names)

	all, err := suite.Filter()
	require.NoError(t, err)
	assert.Len(t, all.Scenarios(), 4)

	_, err = suite.Filter("nope")
	assert.Error(t, err)
}

func TestSession_ExpectHelpers(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" || strings.HasPrefix(r.URL.Path, "/api/musicians/") {
			http.Error(w, "not here", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	sess := newTestSession(t, srv.URL)
	ctx := context.Background()

	resp, err := sess.Client.Get(ctx, "/ok")
	require.NoError(t, err)
	body, ok := sess.ExpectStatus("ok", resp, http.StatusOK)
	assert.True(t, ok)
	assert.JSONEq(t, `{"ok":true}`, string(body))

	resp, err = sess.Client.Get(ctx, "/missing")
	require.NoError(t, err)
	_, ok = sess.ExpectStatus("missing", resp, http.StatusOK, http.StatusNoContent)
	assert.False(t, ok)

	_, err = sess.Client.GetMusician(ctx, "ghost")
	assert.True(t, sess.ExpectCall("404 allowed", err, http.StatusNotFound))

	rec := sess.Recorder()
	assert.Equal(t, 2, rec.Passed())
	require.Equal(t, 1, rec.Failed())
	assert.Equal(t, "missing: expected 200/204, got HTTP 404: not here", rec.Errors()[0])
}

func TestSession_State(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t, "http://127.0.0.1:1")
	_, ok := sess.Get("k")
	assert.False(t, ok)
	sess.Set("k", "v")
	v, err := sess.MustGet("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
	sess.Delete("k")
	_, err = sess.MustGet("k")
	assert.ErrorIs(t, err, ErrMissingState)
}
