package scenarios

import (
	"context"
	"net/http"

	"github.com/BryceLarsen/Requestwave-sub001/client"
	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
)

func authScenarios() []harness.Scenario {
	return []harness.Scenario{
		{Group: GroupAuth, Name: "bad password", Run: loginBadPassword},
		{Group: GroupAuth, Name: "anonymous access", Run: anonymousAccess},
		{Group: GroupAuth, Name: "login", Run: login},
		{Group: GroupAuth, Name: "me", Run: authed(me)},
		{Group: GroupAuth, Name: "duplicate registration", Run: duplicateRegistration},
		{Group: GroupAuth, Name: "forgot password", Run: forgotPassword},
		{Group: GroupAuth, Name: "reset password", Run: resetPasswordBadCode},
	}
}

func loginBadPassword(ctx context.Context, s *harness.Session) error {
	// A throwaway client keeps a surprise success from leaking a session.
	_, err := s.Client.Anonymous().Login(ctx, s.Params.Email, s.Params.Password+"-wrong")
	expectRejected(s, "login with bad password returns 401", err, http.StatusUnauthorized)
	return nil
}

func anonymousAccess(ctx context.Context, s *harness.Session) error {
	_, err := s.Client.Anonymous().ListSongs(ctx)
	expectRejected(s, "songs without token rejected", err, http.StatusUnauthorized, http.StatusForbidden)
	return nil
}

func login(ctx context.Context, s *harness.Session) error {
	resp, err := s.Client.Login(ctx, s.Params.Email, s.Params.Password)
	if !s.ExpectCall("login", err) {
		return nil
	}
	s.Check("login returns token", resp.BearerToken() != "", "token present")
	id := s.Client.Identity()
	if s.Check("login returns musician", id.MusicianID != "", "musician id %q", id.MusicianID) {
		s.Set(keyMusicianID, id.MusicianID)
		s.Set(keySlug, id.Slug)
	}
	return nil
}

func me(ctx context.Context, s *harness.Session) error {
	m, err := s.Client.Me(ctx)
	if !s.ExpectCall("get me", err) {
		return nil
	}
	want, _ := s.Get(keyMusicianID)
	s.Check("me matches login", m.ID == want, "got id %q, want %q", m.ID, want)
	return nil
}

func duplicateRegistration(ctx context.Context, s *harness.Session) error {
	_, err := s.Client.Register(ctx, client.RegisterRequest{
		Name:     uniqueName("QA Duplicate"),
		Email:    s.Params.Email,
		Password: s.Params.Password,
	})
	expectRejected(s, "duplicate registration rejected", err, http.StatusBadRequest, http.StatusConflict)
	return nil
}

func forgotPassword(ctx context.Context, s *harness.Session) error {
	_, err := s.Client.ForgotPassword(ctx, s.Params.Email)
	s.ExpectCall("forgot password", err)
	return nil
}

func resetPasswordBadCode(ctx context.Context, s *harness.Session) error {
	_, err := s.Client.ResetPassword(ctx, client.ResetPasswordRequest{
		Email:       s.Params.Email,
		ResetCode:   "000000-invalid",
		NewPassword: s.Params.Password,
	})
	expectRejected(s, "reset with bad code rejected", err, http.StatusBadRequest)
	return nil
}
