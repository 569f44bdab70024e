package scenarios

import (
	"context"

	"github.com/BryceLarsen/Requestwave-sub001/client"
	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
)

func profileScenarios() []harness.Scenario {
	return []harness.Scenario{
		{Group: GroupProfile, Name: "get profile", Run: authed(getProfile)},
		{Group: GroupProfile, Name: "update profile", Run: authed(updateProfile)},
	}
}

func getProfile(ctx context.Context, s *harness.Session) error {
	p, err := s.Client.GetProfile(ctx)
	if !s.ExpectCall("get profile", err) {
		return nil
	}
	s.Check("profile has id and slug", p.ID != "" && p.Slug != "", "id %q slug %q", p.ID, p.Slug)
	return nil
}

func updateProfile(ctx context.Context, s *harness.Session) error {
	before, err := s.Client.GetProfile(ctx)
	if !s.ExpectNoError("update profile", err) {
		return nil
	}
	bio := uniqueName("QA bio")
	_, err = s.Client.UpdateProfile(ctx, client.ProfileUpdate{Bio: &bio})
	if !s.ExpectCall("update profile", err) {
		return nil
	}
	after, err := s.Client.GetProfile(ctx)
	if s.ExpectNoError("profile update persisted", err) {
		s.Check("profile update persisted", after.Bio == bio, "bio %q, want %q", after.Bio, bio)
	}

	orig := before.Bio
	_, err = s.Client.UpdateProfile(ctx, client.ProfileUpdate{Bio: &orig})
	s.ExpectCall("restore profile", err)
	return nil
}
