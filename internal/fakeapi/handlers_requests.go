package fakeapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/BryceLarsen/Requestwave-sub001/client"
	"github.com/BryceLarsen/Requestwave-sub001/internal/fakeapi/respond"
)

var requestStatuses = map[string]bool{
	client.RequestPending:  true,
	client.RequestAccepted: true,
	client.RequestPlayed:   true,
	client.RequestRejected: true,
}

var clickTypes = map[string]bool{"tip": true, "venmo": true, "paypal": true, "payment": true}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var in client.RequestInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.RequesterName) == "" || in.SongID == "" || in.MusicianID == "" {
		respond.WriteBadRequest(w, "musician_id, song_id and requester_name are required")
		return
	}
	if in.TipAmount < 0 {
		respond.WriteBadRequest(w, "tip_amount cannot be negative")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.st.accounts[in.MusicianID]
	if !ok {
		respond.WriteNotFound(w, "musician not found")
		return
	}
	if !acct.subscription(0).CanMakeRequest {
		respond.WriteForbidden(w, "musician is not accepting requests")
		return
	}
	song, ok := s.st.songs[in.SongID]
	if !ok || song.song.MusicianID != in.MusicianID {
		respond.WriteBadRequest(w, "unknown song")
		return
	}
	req := client.SongRequest{
		ID:             uuid.NewString(),
		MusicianID:     in.MusicianID,
		SongID:         in.SongID,
		SongTitle:      song.song.Title,
		SongArtist:     song.song.Artist,
		RequesterName:  strings.TrimSpace(in.RequesterName),
		RequesterEmail: in.RequesterEmail,
		Dedication:     in.Dedication,
		TipAmount:      in.TipAmount,
		Status:         client.RequestPending,
		CreatedAt:      time.Now().UTC(),
	}
	if acct.show != nil {
		req.ShowID = acct.show.ID
	}
	s.st.requests[req.ID] = &requestRec{seq: s.st.next(), req: req, clicks: make(map[string]int)}
	respond.WriteJSON(w, http.StatusCreated, req)
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request, musicianID string) {
	if mux.Vars(r)["id"] != musicianID {
		respond.WriteForbidden(w, "cannot list another musician's requests")
		return
	}
	s.mu.Lock()
	out := s.st.requestsOf(musicianID)
	s.mu.Unlock()
	respond.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) ownedRequest(w http.ResponseWriter, r *http.Request, musicianID string) (*requestRec, bool) {
	rec, ok := s.st.requests[mux.Vars(r)["id"]]
	if !ok || rec.req.MusicianID != musicianID {
		respond.WriteNotFound(w, "request not found")
		return nil, false
	}
	return rec, true
}

func (s *Server) handleRequestStatus(w http.ResponseWriter, r *http.Request, musicianID string) {
	var in struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if !requestStatuses[in.Status] {
		respond.WriteBadRequest(w, "invalid status "+in.Status)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.ownedRequest(w, r, musicianID)
	if !ok {
		return
	}
	rec.req.Status = in.Status
	respond.WriteJSON(w, http.StatusOK, rec.req)
}

func (s *Server) handleTrackClick(w http.ResponseWriter, r *http.Request) {
	var in client.ClickInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if !clickTypes[strings.ToLower(in.Type)] {
		respond.WriteBadRequest(w, "unknown click type "+in.Type)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.st.requests[mux.Vars(r)["id"]]
	if !ok {
		respond.WriteNotFound(w, "request not found")
		return
	}
	rec.clicks[strings.ToLower(in.Type)]++
	respond.WriteMessage(w, "click recorded")
}

func (s *Server) handleDeleteRequest(w http.ResponseWriter, r *http.Request, musicianID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.ownedRequest(w, r, musicianID)
	if !ok {
		return
	}
	delete(s.st.requests, rec.req.ID)
	respond.WriteMessage(w, "request deleted")
}

func (s *Server) handleGroupedRequests(w http.ResponseWriter, r *http.Request, musicianID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.st.accounts[musicianID]
	out := client.GroupedRequests{
		Show:        acct.show,
		CurrentShow: []client.SongRequest{},
		Today:       []client.SongRequest{},
		Older:       []client.SongRequest{},
	}
	y, m, d := time.Now().UTC().Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	for _, req := range s.st.requestsOf(musicianID) {
		switch {
		case acct.show != nil && req.ShowID == acct.show.ID:
			out.CurrentShow = append(out.CurrentShow, req)
		case !req.CreatedAt.Before(midnight):
			out.Today = append(out.Today, req)
		default:
			out.Older = append(out.Older, req)
		}
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// ------------------------- shows -------------------------

func (s *Server) handleStartShow(w http.ResponseWriter, r *http.Request, musicianID string) {
	var in client.ShowInput
	if r.ContentLength != 0 && !decodeJSON(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		in.Name = "Live show"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.st.accounts[musicianID]
	if acct.show != nil {
		respond.WriteError(w, http.StatusConflict, "a show is already active")
		return
	}
	acct.show = &client.Show{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Venue:     in.Venue,
		Status:    "active",
		StartedAt: time.Now().UTC(),
	}
	respond.WriteJSON(w, http.StatusCreated, acct.show)
}

func (s *Server) handleStopShow(w http.ResponseWriter, r *http.Request, musicianID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.st.accounts[musicianID]
	if acct.show == nil {
		respond.WriteBadRequest(w, "no active show")
		return
	}
	acct.show = nil
	respond.WriteMessage(w, "show stopped")
}

func (s *Server) handleCurrentShow(w http.ResponseWriter, r *http.Request, musicianID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	show := s.st.accounts[musicianID].show
	respond.WriteJSON(w, http.StatusOK, client.CurrentShowResponse{Active: show != nil, Show: show})
}
