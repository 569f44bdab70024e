package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestNew_EmptyBaseURL(t *testing.T) {
	t.Parallel()
	if _, err := New("  "); err == nil {
		t.Fatal("expected error for empty baseURL")
	}
}

func TestBearerHeader_OnlyWhenTokenSet(t *testing.T) {
	t.Parallel()
	var (
		mu   sync.Mutex
		seen []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	for _, tok := range []string{"", "tok-1", ""} {
		if tok == "" {
			c.ClearToken()
		} else {
			c.SetToken(tok)
		}
		resp, err := c.Get(ctx, "/api/songs")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		_ = resp.Body.Close()
	}
	want := []string{"", "Bearer tok-1", ""}
	mu.Lock()
	defer mu.Unlock()
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("request %d: Authorization=%q want %q", i, seen[i], want[i])
		}
	}
}

func TestDo_AuthorizationOverrideIgnored(t *testing.T) {
	t.Parallel()
	var (
		mu   sync.Mutex
		seen []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	override := http.Header{"Authorization": {"Bearer forged"}}
	for _, tok := range []string{"", "tok-1"} {
		c.SetToken(tok)
		resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/songs", Header: override})
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
		_ = resp.Body.Close()
	}
	want := []string{"", "Bearer tok-1"}
	mu.Lock()
	defer mu.Unlock()
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("request %d: Authorization=%q want %q", i, seen[i], want[i])
		}
	}
}

func TestAnonymous_NeverSendsToken(t *testing.T) {
	t.Parallel()
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithToken("tok-1"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	anon := c.Anonymous()
	resp, err := anon.Get(context.Background(), "/api/songs")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	_ = resp.Body.Close()
	if h := got.Load().(string); h != "" {
		t.Fatalf("anonymous client sent Authorization=%q", h)
	}
	if c.Token() != "tok-1" {
		t.Fatalf("parent token changed: %q", c.Token())
	}
}

func TestLogin_StoresTokenAndIdentity(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			if r.Header.Get("Authorization") != "" {
				t.Errorf("login must go out without Authorization")
			}
			var body LoginRequest
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Email != "m@example.com" || body.Password != "pw" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"token":    "jwt-abc",
				"musician": map[string]string{"id": "mus-1", "slug": "the-band", "name": "The Band"},
			})
		case "/api/me":
			if r.Header.Get("Authorization") != "Bearer jwt-abc" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "mus-1", "slug": "the-band"})
		}
	}))
	defer srv.Close()

	c, _ := New(srv.URL)
	if _, err := c.Me(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated before login, got %v", err)
	}
	if _, err := c.Login(context.Background(), "m@example.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if c.Token() != "jwt-abc" {
		t.Fatalf("token = %q", c.Token())
	}
	if id := c.Identity(); id.MusicianID != "mus-1" || id.Slug != "the-band" {
		t.Fatalf("identity = %+v", id)
	}
	me, err := c.Me(context.Background())
	if err != nil || me.ID != "mus-1" {
		t.Fatalf("Me: %v %+v", err, me)
	}
}

func TestLogin_FailureLeavesSessionEmpty(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, _ := New(srv.URL)
	_, err := c.Login(context.Background(), "x", "y")
	if StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 classified error, got %v", err)
	}
	if IsRetryable(err) {
		t.Fatal("401 must not be retryable")
	}
	if c.Token() != "" {
		t.Fatal("token set after failed login")
	}
}

func TestUpload_SingleMultipartContentType(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Values("Content-Type"); len(got) != 1 {
			t.Errorf("expected one Content-Type, got %v", got)
		}
		mt, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mt != "multipart/form-data" || params["boundary"] == "" {
			t.Errorf("bad content type %q", r.Header.Get("Content-Type"))
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		b, _ := io.ReadAll(f)
		if hdr.Filename != "songs.csv" || !strings.HasPrefix(string(b), "title,artist") {
			t.Errorf("unexpected upload %q %q", hdr.Filename, b)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := New(srv.URL, WithToken("t"))
	resp, err := c.Upload(context.Background(), "/api/songs/csv/preview", File{
		Name:     "songs.csv",
		Content:  strings.NewReader("title,artist\nWonderwall,Oasis\n"),
		MIMEType: "text/csv",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestDo_NetworkErrorIsRetryable(t *testing.T) {
	t.Parallel()
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	c, _ := New("http://example.invalid", WithHTTPClient(&http.Client{Transport: rt}))
	_, err := c.Get(context.Background(), "/api/songs")
	if err == nil || !IsRetryable(err) {
		t.Fatalf("expected retryable network error, got %v", err)
	}
}

func TestDo_RetryOnlyIdempotent(t *testing.T) {
	t.Parallel()
	var gets, posts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if atomic.AddInt32(&gets, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		case http.MethodPost:
			atomic.AddInt32(&posts, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	c, _ := New(srv.URL, WithRetry(3))
	resp, err := c.Get(context.Background(), "/api/songs")
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("GET after retries: %v %v", err, resp)
	}
	_ = resp.Body.Close()
	if atomic.LoadInt32(&gets) != 3 {
		t.Fatalf("expected 3 GET attempts, got %d", gets)
	}

	resp, err = c.PostJSON(context.Background(), "/api/songs", SongInput{Title: "x"})
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	_ = resp.Body.Close()
	if atomic.LoadInt32(&posts) != 1 {
		t.Fatalf("POST must not be retried, got %d attempts", posts)
	}
}

func TestDo_NoRetryByDefault(t *testing.T) {
	t.Parallel()
	var n int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&n, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := New(srv.URL)
	resp, err := c.Get(context.Background(), "/")
	if err != nil || resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("unexpected %v %v", err, resp)
	}
	_ = resp.Body.Close()
	if atomic.LoadInt32(&n) != 1 {
		t.Fatalf("expected a single attempt, got %d", n)
	}
}

func TestDo_ContextTimeout(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c, _ := New(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.Get(ctx, "/slow"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestListMusicianRequests_DefaultsToIdentity(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/requests/musician/mus-9" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`[{"id":"r1","status":"pending"}]`))
	}))
	defer srv.Close()

	c, _ := New(srv.URL)
	if _, err := c.ListMusicianRequests(context.Background(), ""); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	c.setSession("tok", Identity{MusicianID: "mus-9"})
	reqs, err := c.ListMusicianRequests(context.Background(), "")
	if err != nil || len(reqs) != 1 || reqs[0].Status != RequestPending {
		t.Fatalf("unexpected %v %+v", err, reqs)
	}
}

func TestDecodeJSONAndReadBody(t *testing.T) {
	t.Parallel()
	resp := &http.Response{Body: io.NopCloser(strings.NewReader(`{"message":"ok"}`))}
	var m MessageResponse
	if err := DecodeJSON(resp, &m); err != nil || m.Message != "ok" {
		t.Fatalf("DecodeJSON: %v %+v", err, m)
	}
	resp = &http.Response{Body: io.NopCloser(strings.NewReader("plain"))}
	if s, err := ReadBody(resp); err != nil || s != "plain" {
		t.Fatalf("ReadBody: %v %q", err, s)
	}
}

func TestClose_Idempotent(t *testing.T) {
	t.Parallel()
	c, _ := New("http://example.com")
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
}
