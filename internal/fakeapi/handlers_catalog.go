package fakeapi

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/BryceLarsen/Requestwave-sub001/client"
	"github.com/BryceLarsen/Requestwave-sub001/internal/fakeapi/respond"
)

const maxUpload = 1 << 20

func validateSong(in client.SongInput) error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Artist) == "" {
		return errors.New("title and artist are required")
	}
	if in.Year < 0 || in.Year > 3000 {
		return errors.New("year out of range")
	}
	return nil
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request, musicianID string) {
	s.mu.Lock()
	songs := s.st.songsOf(musicianID, true)
	s.mu.Unlock()
	respond.WriteJSON(w, http.StatusOK, songs)
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request, musicianID string) {
	var in client.SongInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := validateSong(in); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	s.mu.Lock()
	song := s.st.addSong(musicianID, in)
	s.mu.Unlock()
	respond.WriteJSON(w, http.StatusCreated, song)
}

func (s *Server) handleUpdateSong(w http.ResponseWriter, r *http.Request, musicianID string) {
	var in client.SongInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := validateSong(in); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.st.songs[mux.Vars(r)["id"]]
	if !ok || rec.song.MusicianID != musicianID {
		respond.WriteNotFound(w, "song not found")
		return
	}
	rec.song.Title = strings.TrimSpace(in.Title)
	rec.song.Artist = strings.TrimSpace(in.Artist)
	rec.song.Genres = in.Genres
	rec.song.Moods = in.Moods
	rec.song.Year = in.Year
	rec.song.Notes = in.Notes
	respond.WriteJSON(w, http.StatusOK, rec.song)
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request, musicianID string) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.st.songs[id]
	if !ok || rec.song.MusicianID != musicianID {
		respond.WriteNotFound(w, "song not found")
		return
	}
	delete(s.st.songs, id)
	for _, p := range s.st.playlists {
		p.playlist.SongIDs = without(p.playlist.SongIDs, id)
	}
	respond.WriteMessage(w, "song deleted")
}

func (s *Server) handlePreviewCSV(w http.ResponseWriter, r *http.Request, musicianID string) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		respond.WriteBadRequest(w, "expected multipart/form-data upload")
		return
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		respond.WriteBadRequest(w, "missing file field")
		return
	}
	defer func() { _ = f.Close() }()

	preview, err := parseSongCSV(f)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, preview)
}

func parseSongCSV(r io.Reader) (*client.CSVPreviewResponse, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.New("empty CSV")
	}
	col := make(map[string]int)
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	ti, okT := col["title"]
	ai, okA := col["artist"]
	if !okT || !okA {
		return nil, errors.New("CSV header must include title and artist")
	}

	out := &client.CSVPreviewResponse{Preview: []client.SongInput{}}
	field := func(rec []string, name string) string {
		if i, ok := col[name]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %v", row, err)
		}
		out.TotalRows++
		in := client.SongInput{Notes: field(rec, "notes")}
		if ti < len(rec) {
			in.Title = strings.TrimSpace(rec[ti])
		}
		if ai < len(rec) {
			in.Artist = strings.TrimSpace(rec[ai])
		}
		if g := field(rec, "genres"); g != "" {
			in.Genres = splitList(g)
		}
		if m := field(rec, "moods"); m != "" {
			in.Moods = splitList(m)
		}
		if y := field(rec, "year"); y != "" {
			in.Year, _ = strconv.Atoi(y)
		}
		if err := validateSong(in); err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("row %d: %v", row, err))
			continue
		}
		out.Preview = append(out.Preview, in)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '|' }) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// ------------------------- public musician pages -------------------------

func (s *Server) musicianBySlug(w http.ResponseWriter, r *http.Request) (*account, bool) {
	id, ok := s.st.bySlug[mux.Vars(r)["slug"]]
	if !ok {
		respond.WriteNotFound(w, "musician not found")
		return nil, false
	}
	return s.st.accounts[id], true
}

func (s *Server) handleGetMusician(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.musicianBySlug(w, r)
	if !ok {
		return
	}
	m := acct.musician
	m.Email = ""
	respond.WriteJSON(w, http.StatusOK, m)
}

func (s *Server) handlePublicSongs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.musicianBySlug(w, r)
	if !ok {
		return
	}
	respond.WriteJSON(w, http.StatusOK, s.st.songsOf(acct.musician.ID, false))
}

func (s *Server) handlePublicPlaylists(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.musicianBySlug(w, r)
	if !ok {
		return
	}
	respond.WriteJSON(w, http.StatusOK, s.st.playlistsOf(acct.musician.ID, true))
}

// ------------------------- playlists -------------------------

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request, musicianID string) {
	s.mu.Lock()
	out := s.st.playlistsOf(musicianID, false)
	s.mu.Unlock()
	respond.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request, musicianID string) {
	var in client.PlaylistInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		respond.WriteBadRequest(w, "name is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := []string{}
	for _, id := range in.SongIDs {
		rec, ok := s.st.songs[id]
		if !ok || rec.song.MusicianID != musicianID {
			respond.WriteBadRequest(w, "unknown song id "+id)
			return
		}
		ids = append(ids, id)
	}
	p := client.Playlist{ID: uuid.NewString(), Name: strings.TrimSpace(in.Name), SongIDs: ids}
	s.st.playlists[p.ID] = &playlistRec{seq: s.st.next(), musicianID: musicianID, playlist: p}
	p.SongCount = len(ids)
	respond.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) ownedPlaylist(w http.ResponseWriter, r *http.Request, musicianID string) (*playlistRec, bool) {
	rec, ok := s.st.playlists[mux.Vars(r)["id"]]
	if !ok || rec.musicianID != musicianID {
		respond.WriteNotFound(w, "playlist not found")
		return nil, false
	}
	return rec, true
}

func (s *Server) handleRenamePlaylist(w http.ResponseWriter, r *http.Request, musicianID string) {
	var in struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		respond.WriteBadRequest(w, "name is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.ownedPlaylist(w, r, musicianID)
	if !ok {
		return
	}
	rec.playlist.Name = strings.TrimSpace(in.Name)
	respond.WriteJSON(w, http.StatusOK, rec.playlist)
}

func (s *Server) handlePlaylistVisibility(w http.ResponseWriter, r *http.Request, musicianID string) {
	var in struct {
		IsPublic *bool `json:"is_public"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.IsPublic == nil {
		respond.WriteBadRequest(w, "is_public is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.ownedPlaylist(w, r, musicianID)
	if !ok {
		return
	}
	rec.playlist.IsPublic = *in.IsPublic
	respond.WriteJSON(w, http.StatusOK, rec.playlist)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request, musicianID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.ownedPlaylist(w, r, musicianID)
	if !ok {
		return
	}
	delete(s.st.playlists, rec.playlist.ID)
	respond.WriteMessage(w, "playlist deleted")
}
