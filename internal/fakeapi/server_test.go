package fakeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BryceLarsen/Requestwave-sub001/client"
	"github.com/BryceLarsen/Requestwave-sub001/internal/webhook"
)

func newTestServer(t *testing.T, opts Options) (*Server, *httptest.Server, *client.Client) {
	t.Helper()
	fake := New(opts)
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	c, err := client.New(srv.URL)
	require.NoError(t, err)
	return fake, srv, c
}

func login(t *testing.T, c *client.Client) {
	t.Helper()
	_, err := c.Login(context.Background(), SeedEmail, SeedPassword)
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	t.Parallel()
	_, _, c := newTestServer(t, Options{})
	ctx := context.Background()

	_, err := c.Login(ctx, SeedEmail, "wrong")
	assert.Equal(t, http.StatusUnauthorized, client.StatusOf(err))

	resp, err := c.Login(ctx, SeedEmail, SeedPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, SeedSlug, c.Identity().Slug)
	assert.NotEmpty(t, c.Identity().MusicianID)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	t.Parallel()
	_, _, c := newTestServer(t, Options{})
	resp, err := c.Get(context.Background(), "/api/songs")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	c.SetToken("forged")
	resp, err = c.Get(context.Background(), "/api/songs")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSongLifecycle(t *testing.T) {
	t.Parallel()
	_, _, c := newTestServer(t, Options{})
	login(t, c)
	ctx := context.Background()

	songs, err := c.ListSongs(ctx)
	require.NoError(t, err)
	assert.Len(t, songs, 3)

	_, err = c.CreateSong(ctx, client.SongInput{Title: "", Artist: "x"})
	assert.Equal(t, http.StatusBadRequest, client.StatusOf(err))

	song, err := c.CreateSong(ctx, client.SongInput{Title: "Hallelujah", Artist: "Leonard Cohen"})
	require.NoError(t, err)
	updated, err := c.UpdateSong(ctx, song.ID, client.SongInput{Title: "Hallelujah", Artist: "Jeff Buckley"})
	require.NoError(t, err)
	assert.Equal(t, "Jeff Buckley", updated.Artist)

	require.NoError(t, c.DeleteSong(ctx, song.ID))
	err = c.DeleteSong(ctx, song.ID)
	assert.Equal(t, http.StatusNotFound, client.StatusOf(err))
}

func TestPreviewCSV(t *testing.T) {
	t.Parallel()
	_, _, c := newTestServer(t, Options{})
	login(t, c)

	out, err := c.PreviewSongsCSV(context.Background(), client.File{
		Name:     "songs.csv",
		MIMEType: "text/csv",
		Content:  strings.NewReader("Title,Artist,Year\nSong A,Band A,2001\n,Missing,1999\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalRows)
	require.Len(t, out.Preview, 1)
	assert.Equal(t, 2001, out.Preview[0].Year)
	assert.Len(t, out.Errors, 1)

	_, err = c.PreviewSongsCSV(context.Background(), client.File{Name: "bad.csv", Content: strings.NewReader("foo,bar\n1,2\n")})
	assert.Equal(t, http.StatusBadRequest, client.StatusOf(err))

	resp, err := c.PostJSON(context.Background(), "/api/songs/csv/preview", map[string]string{"csv": "x"})
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRequestsAndShows(t *testing.T) {
	t.Parallel()
	_, _, c := newTestServer(t, Options{})
	login(t, c)
	ctx := context.Background()
	id := c.Identity()

	songs, err := c.ListPublicSongs(ctx, id.Slug)
	require.NoError(t, err)
	require.NotEmpty(t, songs)

	show, err := c.StartShow(ctx, client.ShowInput{Name: "Friday"})
	require.NoError(t, err)
	_, err = c.StartShow(ctx, client.ShowInput{Name: "again"})
	assert.Equal(t, http.StatusConflict, client.StatusOf(err))

	req, err := c.CreateRequest(ctx, client.RequestInput{MusicianID: id.MusicianID, SongID: songs[0].ID, RequesterName: "Sam"})
	require.NoError(t, err)
	assert.Equal(t, show.ID, req.ShowID)

	grouped, err := c.GroupedRequests(ctx)
	require.NoError(t, err)
	assert.Len(t, grouped.CurrentShow, 1)

	require.NoError(t, c.UpdateRequestStatus(ctx, req.ID, client.RequestPlayed))
	assert.Equal(t, http.StatusBadRequest, client.StatusOf(c.UpdateRequestStatus(ctx, req.ID, "bogus")))
	require.NoError(t, c.TrackClick(ctx, req.ID, client.ClickInput{Type: "tip", Platform: "venmo"}))

	_, err = c.ListMusicianRequests(ctx, "someone-else")
	assert.Equal(t, http.StatusForbidden, client.StatusOf(err))

	require.NoError(t, c.DeleteRequest(ctx, req.ID))
	list, err := c.ListMusicianRequests(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, c.StopShow(ctx))
	cur, err := c.CurrentShow(ctx)
	require.NoError(t, err)
	assert.False(t, cur.Active)
}

func TestBillingFlowWithWebhook(t *testing.T) {
	t.Parallel()
	fake, srv, c := newTestServer(t, Options{})
	login(t, c)
	ctx := context.Background()

	_, err := c.CancelSubscription(ctx)
	assert.Equal(t, http.StatusBadRequest, client.StatusOf(err))

	co, err := c.Checkout(ctx, client.CheckoutRequest{Plan: "monthly"})
	require.NoError(t, err)
	assert.Contains(t, co.URL, co.SessionID)

	sender := webhook.NewSender(srv.URL, fake.WebhookSecret(), time.Second)
	res, err := sender.SendUnsigned(ctx, []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, err = sender.Send(ctx, webhook.NewEvent("checkout.session.completed", map[string]any{
		"id":                  co.SessionID,
		"customer":            "cus_123",
		"client_reference_id": c.Identity().MusicianID,
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	sub, err := c.SubscriptionStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pro", sub.Plan)

	_, err = c.Checkout(ctx, client.CheckoutRequest{Plan: "monthly"})
	assert.Equal(t, http.StatusBadRequest, client.StatusOf(err))

	_, err = c.CancelSubscription(ctx)
	require.NoError(t, err)

	state, err := c.DebugBillingState(ctx)
	require.NoError(t, err)
	var cancel bool
	require.NoError(t, json.Unmarshal(state["cancel_at_period_end"], &cancel))
	assert.True(t, cancel)
}

func TestSuggestionsFollowDesignFlag(t *testing.T) {
	t.Parallel()
	_, _, c := newTestServer(t, Options{})
	login(t, c)
	ctx := context.Background()
	in := client.SuggestionInput{MusicianSlug: SeedSlug, Title: "Creep", Artist: "Radiohead", RequesterName: "Ana"}

	_, err := c.SuggestSong(ctx, in)
	assert.Equal(t, http.StatusForbidden, client.StatusOf(err))

	d, err := c.DesignSettings(ctx)
	require.NoError(t, err)
	d.AllowSongSuggestions = true
	require.NoError(t, c.UpdateDesignSettings(ctx, *d))

	sug, err := c.SuggestSong(ctx, in)
	require.NoError(t, err)
	require.NoError(t, c.UpdateSuggestionStatus(ctx, sug.ID, "approved"))
	list, err := c.ListSuggestions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "approved", list[0].Status)
}

func TestQRCodeAudienceDomain(t *testing.T) {
	t.Parallel()
	_, _, c := newTestServer(t, Options{AudienceDomain: "requests.example.com"})
	login(t, c)
	qr, err := c.QRCode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://requests.example.com/"+SeedSlug, qr.AudienceURL)
	assert.True(t, strings.HasPrefix(qr.QRCode, "data:image/png;base64,"))
}

func TestFaultInjection(t *testing.T) {
	t.Parallel()
	fake, _, c := newTestServer(t, Options{})
	ctx := context.Background()

	fake.Fail(http.MethodPost, "/api/auth/login", http.StatusServiceUnavailable)
	_, err := c.Login(ctx, SeedEmail, SeedPassword)
	assert.Equal(t, http.StatusServiceUnavailable, client.StatusOf(err))
	assert.True(t, client.IsRetryable(err))
	assert.Equal(t, 1, fake.Hits(http.MethodPost, "/api/auth/login"))

	fake.ClearFaults()
	login(t, c)

	fake.Delay("/api/songs", 200*time.Millisecond)
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = c.ListSongs(short)
	assert.Error(t, err)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	t.Parallel()
	_, _, c := newTestServer(t, Options{})
	resp, err := c.Get(context.Background(), "/api/nope")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestStaticPages(t *testing.T) {
	t.Parallel()
	_, _, c := newTestServer(t, Options{})
	for _, p := range []string{"/login.html", "/signup.html", "/reset-password.html"} {
		resp, err := c.Get(context.Background(), p)
		require.NoError(t, err)
		body, _ := client.ReadBody(resp)
		assert.Equal(t, http.StatusOK, resp.StatusCode, p)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		assert.Contains(t, body, `type="password"`)
	}
}
