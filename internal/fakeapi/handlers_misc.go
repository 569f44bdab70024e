package fakeapi

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/BryceLarsen/Requestwave-sub001/client"
	"github.com/BryceLarsen/Requestwave-sub001/internal/fakeapi/respond"
)

// 1x1 transparent PNG.
const qrPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

const demoCSV = `title,artist,genres,moods,year,notes
Wonderwall,Oasis,rock,nostalgic,1995,
Jolene,Dolly Parton,country,dramatic,1973,Capo 4
Valerie,Amy Winehouse,soul;pop,upbeat,2007,
`

var layoutModes = map[string]bool{"grid": true, "list": true}

var suggestionStatuses = map[string]bool{"pending": true, "approved": true, "rejected": true, "added": true}

func (s *Server) audienceURL(r *http.Request, slug string) string {
	if s.opts.AudienceDomain != "" {
		host := s.opts.AudienceDomain
		if !strings.Contains(host, "://") {
			host = "https://" + host
		}
		return strings.TrimRight(host, "/") + "/" + slug
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/" + slug
}

func (s *Server) handleQRCode(w http.ResponseWriter, r *http.Request, musicianID string) {
	s.mu.Lock()
	slug := s.st.accounts[musicianID].musician.Slug
	s.mu.Unlock()
	respond.WriteJSON(w, http.StatusOK, client.QRCodeResponse{
		QRCode:      qrPNG,
		AudienceURL: s.audienceURL(r, slug),
	})
}

func (s *Server) handleDemoCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="requestwave-demo.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(demoCSV))
}

func (s *Server) handleGetDesign(w http.ResponseWriter, r *http.Request, musicianID string) {
	s.mu.Lock()
	d := s.st.accounts[musicianID].design
	s.mu.Unlock()
	respond.WriteJSON(w, http.StatusOK, d)
}

func (s *Server) handleUpdateDesign(w http.ResponseWriter, r *http.Request, musicianID string) {
	var in client.DesignSettings
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.ColorScheme == "" || !layoutModes[in.LayoutMode] {
		respond.WriteBadRequest(w, "color_scheme and a layout_mode of grid or list are required")
		return
	}
	s.mu.Lock()
	s.st.accounts[musicianID].design = in
	s.mu.Unlock()
	respond.WriteJSON(w, http.StatusOK, in)
}

func (s *Server) handleSuggestSong(w http.ResponseWriter, r *http.Request) {
	var in client.SuggestionInput
	if !decodeJSON(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.st.bySlug[in.MusicianSlug]
	if !ok {
		respond.WriteNotFound(w, "musician not found")
		return
	}
	if !s.st.accounts[id].design.AllowSongSuggestions {
		respond.WriteForbidden(w, "song suggestions are disabled")
		return
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Artist) == "" {
		respond.WriteBadRequest(w, "suggested_title and suggested_artist are required")
		return
	}
	sug := client.SongSuggestion{
		ID:           uuid.NewString(),
		MusicianSlug: in.MusicianSlug,
		SuggestedBy:  in.RequesterName,
		Title:        strings.TrimSpace(in.Title),
		Artist:       strings.TrimSpace(in.Artist),
		Status:       "pending",
	}
	s.st.suggestions[sug.ID] = &suggestionRec{seq: s.st.next(), musicianID: id, suggestion: sug}
	respond.WriteJSON(w, http.StatusCreated, sug)
}

func (s *Server) handleListSuggestions(w http.ResponseWriter, r *http.Request, musicianID string) {
	s.mu.Lock()
	out := s.st.suggestionsOf(musicianID)
	s.mu.Unlock()
	respond.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleSuggestionStatus(w http.ResponseWriter, r *http.Request, musicianID string) {
	var in struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if !suggestionStatuses[in.Status] {
		respond.WriteBadRequest(w, "invalid status "+in.Status)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.st.suggestions[mux.Vars(r)["id"]]
	if !ok || rec.musicianID != musicianID {
		respond.WriteNotFound(w, "suggestion not found")
		return
	}
	rec.suggestion.Status = in.Status
	respond.WriteJSON(w, http.StatusOK, rec.suggestion)
}
