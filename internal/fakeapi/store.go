package fakeapi

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BryceLarsen/Requestwave-sub001/client"
)

const trialDays = 14

type account struct {
	musician client.Musician
	password string
	design   client.DesignSettings
	created  time.Time

	plan              string // trial, pro, free
	subStatus         string // trialing, active, canceled
	cancelAtPeriodEnd bool
	customerID        string
	checkoutSessions  map[string]string // session id -> plan

	show      *client.Show
	resetCode string
}

type songRec struct {
	seq  int64
	song client.Song
}

type requestRec struct {
	seq    int64
	req    client.SongRequest
	clicks map[string]int
}

type playlistRec struct {
	seq        int64
	musicianID string
	playlist   client.Playlist
}

type suggestionRec struct {
	seq        int64
	musicianID string
	suggestion client.SongSuggestion
}

// store is guarded by Server.mu.
type store struct {
	seq         int64
	accounts    map[string]*account // by musician id
	byEmail     map[string]string
	bySlug      map[string]string
	tokens      map[string]string // token -> musician id
	songs       map[string]*songRec
	requests    map[string]*requestRec
	playlists   map[string]*playlistRec
	suggestions map[string]*suggestionRec
}

func newStore() *store {
	return &store{
		accounts:    make(map[string]*account),
		byEmail:     make(map[string]string),
		bySlug:      make(map[string]string),
		tokens:      make(map[string]string),
		songs:       make(map[string]*songRec),
		requests:    make(map[string]*requestRec),
		playlists:   make(map[string]*playlistRec),
		suggestions: make(map[string]*suggestionRec),
	}
}

func (st *store) next() int64 {
	st.seq++
	return st.seq
}

func (st *store) seed(opts Options) {
	acct := st.addAccount(SeedName, SeedEmail, SeedPassword)
	acct.design.AllowSongSuggestions = opts.AllowSuggestions
	acct.musician.Bio = "Covers and originals every Friday."
	for _, in := range []client.SongInput{
		{Title: "Wonderwall", Artist: "Oasis", Genres: []string{"rock"}, Year: 1995},
		{Title: "Jolene", Artist: "Dolly Parton", Genres: []string{"country"}, Year: 1973},
		{Title: "Valerie", Artist: "Amy Winehouse", Genres: []string{"soul"}, Year: 2007},
	} {
		st.addSong(acct.musician.ID, in)
	}
}

func (st *store) addAccount(name, email, password string) *account {
	id := uuid.NewString()
	slug := st.uniqueSlug(slugify(name))
	acct := &account{
		musician: client.Musician{
			ID:    id,
			Name:  name,
			Email: strings.ToLower(email),
			Slug:  slug,
		},
		password: password,
		design: client.DesignSettings{
			ColorScheme: "dark",
			LayoutMode:  "grid",
			ShowYear:    true,
		},
		created:          time.Now().UTC(),
		plan:             "trial",
		subStatus:        "trialing",
		checkoutSessions: make(map[string]string),
	}
	st.accounts[id] = acct
	st.byEmail[acct.musician.Email] = id
	st.bySlug[slug] = id
	return acct
}

func (st *store) issueToken(musicianID string) string {
	tok := "fake_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	st.tokens[tok] = musicianID
	return tok
}

func (st *store) addSong(musicianID string, in client.SongInput) client.Song {
	song := client.Song{
		ID:         uuid.NewString(),
		MusicianID: musicianID,
		Title:      strings.TrimSpace(in.Title),
		Artist:     strings.TrimSpace(in.Artist),
		Genres:     in.Genres,
		Moods:      in.Moods,
		Year:       in.Year,
		Notes:      in.Notes,
		CreatedAt:  time.Now().UTC(),
	}
	st.songs[song.ID] = &songRec{seq: st.next(), song: song}
	return song
}

func (st *store) songsOf(musicianID string, includeHidden bool) []client.Song {
	var recs []*songRec
	for _, r := range st.songs {
		if r.song.MusicianID == musicianID && (includeHidden || !r.song.Hidden) {
			recs = append(recs, r)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })
	out := make([]client.Song, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.song)
	}
	return out
}

func (st *store) requestsOf(musicianID string) []client.SongRequest {
	var recs []*requestRec
	for _, r := range st.requests {
		if r.req.MusicianID == musicianID {
			recs = append(recs, r)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })
	out := make([]client.SongRequest, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.req)
	}
	return out
}

func (st *store) playlistsOf(musicianID string, publicOnly bool) []client.Playlist {
	var recs []*playlistRec
	for _, r := range st.playlists {
		if r.musicianID == musicianID && (!publicOnly || r.playlist.IsPublic) {
			recs = append(recs, r)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })
	out := make([]client.Playlist, 0, len(recs))
	for _, r := range recs {
		p := r.playlist
		p.SongIDs = append([]string{}, p.SongIDs...)
		p.SongCount = len(p.SongIDs)
		out = append(out, p)
	}
	return out
}

func (st *store) suggestionsOf(musicianID string) []client.SongSuggestion {
	var recs []*suggestionRec
	for _, r := range st.suggestions {
		if r.musicianID == musicianID {
			recs = append(recs, r)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })
	out := make([]client.SongSuggestion, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.suggestion)
	}
	return out
}

func (a *account) subscription(requestsUsed int) client.Subscription {
	sub := client.Subscription{
		Plan:              a.plan,
		Status:            a.subStatus,
		CanMakeRequest:    a.subStatus != "canceled",
		RequestsUsed:      requestsUsed,
		CancelAtPeriodEnd: a.cancelAtPeriodEnd,
	}
	if a.plan == "trial" {
		end := a.created.Add(trialDays * 24 * time.Hour)
		sub.TrialEndsAt = &end
	}
	if a.plan == "free" {
		limit := 0
		sub.RequestsLimit = &limit
	}
	return sub
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	s := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if s == "" {
		s = "musician"
	}
	return s
}

func (st *store) uniqueSlug(base string) string {
	slug := base
	for i := 2; ; i++ {
		if _, taken := st.bySlug[slug]; !taken {
			return slug
		}
		slug = base + "-" + strconv.Itoa(i)
	}
}
