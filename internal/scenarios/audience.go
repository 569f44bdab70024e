package scenarios

import (
	"context"
	"net/http"

	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
)

func audienceScenarios() []harness.Scenario {
	return []harness.Scenario{
		{Group: GroupAudience, Name: "musician page", Run: authed(musicianPage)},
		{Group: GroupAudience, Name: "public songs", Run: authed(publicSongs)},
		{Group: GroupAudience, Name: "public playlists", Run: authed(publicPlaylists)},
		{Group: GroupAudience, Name: "unknown musician", Run: unknownMusician},
	}
}

func musicianPage(ctx context.Context, s *harness.Session) error {
	slug, err := s.MustGet(keySlug)
	if err != nil {
		return err
	}
	m, err := s.Client.GetMusician(ctx, slug)
	if !s.ExpectCall("get musician by slug", err) {
		return nil
	}
	s.Check("musician slug matches", m.Slug == slug, "slug %q, want %q", m.Slug, slug)
	return nil
}

func publicSongs(ctx context.Context, s *harness.Session) error {
	slug, err := s.MustGet(keySlug)
	if err != nil {
		return err
	}
	_, err = s.Client.ListPublicSongs(ctx, slug)
	s.ExpectCall("list public songs", err)
	return nil
}

func publicPlaylists(ctx context.Context, s *harness.Session) error {
	slug, err := s.MustGet(keySlug)
	if err != nil {
		return err
	}
	_, err = s.Client.ListPublicPlaylists(ctx, slug)
	s.ExpectCall("list public playlists", err)
	return nil
}

func unknownMusician(ctx context.Context, s *harness.Session) error {
	_, err := s.Client.GetMusician(ctx, "qa-missing-"+uniqueSuffix())
	expectRejected(s, "unknown musician returns 404", err, http.StatusNotFound)
	return nil
}
