package fakeapi

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/BryceLarsen/Requestwave-sub001/client"
	"github.com/BryceLarsen/Requestwave-sub001/internal/fakeapi/respond"
)

const minPasswordLen = 8

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in client.LoginRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.st.byEmail[strings.ToLower(strings.TrimSpace(in.Email))]
	if !ok || s.st.accounts[id].password != in.Password {
		respond.WriteUnauthorized(w, "invalid email or password")
		return
	}
	acct := s.st.accounts[id]
	respond.WriteJSON(w, http.StatusOK, client.LoginResponse{
		Token:    s.st.issueToken(id),
		Musician: acct.musician,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in client.RegisterRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if strings.TrimSpace(in.Name) == "" || !strings.Contains(in.Email, "@") {
		respond.WriteBadRequest(w, "name and a valid email are required")
		return
	}
	if len(in.Password) < minPasswordLen {
		respond.WriteBadRequest(w, "password must be at least 8 characters")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.st.byEmail[in.Email]; exists {
		respond.WriteError(w, http.StatusConflict, "email already registered")
		return
	}
	acct := s.st.addAccount(strings.TrimSpace(in.Name), in.Email, in.Password)
	acct.design.AllowSongSuggestions = s.opts.AllowSuggestions
	respond.WriteJSON(w, http.StatusCreated, client.LoginResponse{
		Token:    s.st.issueToken(acct.musician.ID),
		Musician: acct.musician,
	})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	s.mu.Lock()
	if id, ok := s.st.byEmail[strings.ToLower(strings.TrimSpace(in.Email))]; ok {
		s.st.accounts[id].resetCode = strings.ToUpper(uuid.NewString()[:8])
	}
	s.mu.Unlock()
	// Same answer whether or not the account exists.
	respond.WriteMessage(w, "If that email is registered, a reset code has been sent")
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var in client.ResetPasswordRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.st.byEmail[strings.ToLower(strings.TrimSpace(in.Email))]
	if !ok || s.st.accounts[id].resetCode == "" || s.st.accounts[id].resetCode != in.ResetCode {
		respond.WriteBadRequest(w, "invalid or expired reset code")
		return
	}
	if len(in.NewPassword) < minPasswordLen {
		respond.WriteBadRequest(w, "password must be at least 8 characters")
		return
	}
	acct := s.st.accounts[id]
	acct.password = in.NewPassword
	acct.resetCode = ""
	respond.WriteMessage(w, "password updated")
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, musicianID string) {
	s.mu.Lock()
	m := s.st.accounts[musicianID].musician
	s.mu.Unlock()
	respond.WriteJSON(w, http.StatusOK, m)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request, musicianID string) {
	s.handleMe(w, r, musicianID)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, musicianID string) {
	var in client.ProfileUpdate
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		respond.WriteBadRequest(w, "name cannot be empty")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &s.st.accounts[musicianID].musician
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Bio != nil {
		m.Bio = *in.Bio
	}
	if in.Website != nil {
		m.Website = *in.Website
	}
	if in.VenmoLink != nil {
		m.VenmoLink = *in.VenmoLink
	}
	if in.PaypalLink != nil {
		m.PaypalLink = *in.PaypalLink
	}
	respond.WriteJSON(w, http.StatusOK, *m)
}
