package scenarios

import (
	"context"

	"github.com/BryceLarsen/Requestwave-sub001/client"
	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
)

func playlistScenarios() []harness.Scenario {
	return []harness.Scenario{
		{Group: GroupPlaylists, Name: "create playlist", Run: authed(createPlaylist)},
		{Group: GroupPlaylists, Name: "rename playlist", Run: authed(renamePlaylist)},
		{Group: GroupPlaylists, Name: "playlist visibility", Run: authed(playlistVisibility)},
		{Group: GroupPlaylists, Name: "delete playlist", Run: authed(deletePlaylist)},
	}
}

func createPlaylist(ctx context.Context, s *harness.Session) error {
	songs, err := s.Client.ListSongs(ctx)
	if !s.ExpectNoError("create playlist", err) {
		return nil
	}
	in := client.PlaylistInput{Name: uniqueName("QA Playlist"), SongIDs: []string{}}
	if len(songs) > 0 {
		in.SongIDs = append(in.SongIDs, songs[0].ID)
	}
	p, err := s.Client.CreatePlaylist(ctx, in)
	if !s.ExpectCall("create playlist", err) {
		return nil
	}
	s.Set(keyPlaylistID, p.ID)

	all, err := s.Client.ListPlaylists(ctx)
	if s.ExpectCall("list playlists", err) {
		s.Check("list contains playlist", containsID(all, p.ID, playlistID), "playlist %s in %d playlists", p.ID, len(all))
	}
	return nil
}

func renamePlaylist(ctx context.Context, s *harness.Session) error {
	id, err := s.MustGet(keyPlaylistID)
	if err != nil {
		return err
	}
	name := uniqueName("QA Playlist Renamed")
	if !s.ExpectCall("rename playlist", s.Client.RenamePlaylist(ctx, id, name)) {
		return nil
	}
	all, err := s.Client.ListPlaylists(ctx)
	if !s.ExpectNoError("playlist rename persisted", err) {
		return nil
	}
	got := ""
	for _, p := range all {
		if p.ID == id {
			got = p.Name
		}
	}
	s.Check("playlist rename persisted", got == name, "name %q, want %q", got, name)
	return nil
}

func playlistVisibility(ctx context.Context, s *harness.Session) error {
	id, err := s.MustGet(keyPlaylistID)
	if err != nil {
		return err
	}
	slug, err := s.MustGet(keySlug)
	if err != nil {
		return err
	}
	for _, public := range []bool{true, false} {
		label := "private"
		if public {
			label = "public"
		}
		if !s.ExpectCall("make playlist "+label, s.Client.SetPlaylistVisibility(ctx, id, public)) {
			return nil
		}
		listed, err := s.Client.ListPublicPlaylists(ctx, slug)
		if !s.ExpectNoError("public list reflects "+label, err) {
			return nil
		}
		s.Check("public list reflects "+label, containsID(listed, id, playlistID) == public,
			"playlist %s listed=%t", id, !public)
	}
	return nil
}

func deletePlaylist(ctx context.Context, s *harness.Session) error {
	id, err := s.MustGet(keyPlaylistID)
	if err != nil {
		return err
	}
	if !s.ExpectCall("delete playlist", s.Client.DeletePlaylist(ctx, id)) {
		return nil
	}
	s.Delete(keyPlaylistID)
	all, err := s.Client.ListPlaylists(ctx)
	if s.ExpectNoError("deleted playlist absent", err) {
		s.Check("deleted playlist absent", !containsID(all, id, playlistID), "playlist %s still listed", id)
	}
	return nil
}
