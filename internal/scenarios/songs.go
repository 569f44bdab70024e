package scenarios

import (
	"context"
	"net/http"
	"strings"

	"github.com/BryceLarsen/Requestwave-sub001/client"
	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
)

const previewCSV = "title,artist,genres,year\n" +
	"QA Preview One,QA Band,rock,1999\n" +
	"QA Preview Two,QA Band,pop,2004\n"

func songScenarios() []harness.Scenario {
	return []harness.Scenario{
		{Group: GroupSongs, Name: "create song", Run: authed(createSong)},
		{Group: GroupSongs, Name: "list songs", Run: authed(listSongs)},
		{Group: GroupSongs, Name: "update song", Run: authed(updateSong)},
		{Group: GroupSongs, Name: "song validation", Run: authed(songValidation)},
		{Group: GroupSongs, Name: "csv preview", Run: authed(csvPreview)},
		{Group: GroupSongs, Name: "delete song", Run: authed(deleteSong)},
	}
}

func createSong(ctx context.Context, s *harness.Session) error {
	in := client.SongInput{
		Title:  uniqueName("QA Song"),
		Artist: "QA Artist",
		Genres: []string{"rock"},
		Year:   2001,
	}
	song, err := s.Client.CreateSong(ctx, in)
	if !s.ExpectCall("create song", err) {
		return nil
	}
	if s.Check("created song has id", song.ID != "", "id %q", song.ID) {
		s.Set(keySongID, song.ID)
	}
	s.Check("created song echoes title", song.Title == in.Title, "title %q, want %q", song.Title, in.Title)
	return nil
}

func listSongs(ctx context.Context, s *harness.Session) error {
	id, err := s.MustGet(keySongID)
	if err != nil {
		return err
	}
	songs, err := s.Client.ListSongs(ctx)
	if !s.ExpectCall("list songs", err) {
		return nil
	}
	s.Check("list contains created song", containsID(songs, id, songID), "song %s in %d songs", id, len(songs))
	return nil
}

func updateSong(ctx context.Context, s *harness.Session) error {
	id, err := s.MustGet(keySongID)
	if err != nil {
		return err
	}
	in := client.SongInput{Title: uniqueName("QA Song Renamed"), Artist: "QA Artist", Notes: "capo 2"}
	song, err := s.Client.UpdateSong(ctx, id, in)
	if !s.ExpectCall("update song", err) {
		return nil
	}
	s.Check("update song echoes fields", song.Title == in.Title && song.Notes == in.Notes,
		"title %q notes %q", song.Title, song.Notes)
	return nil
}

func songValidation(ctx context.Context, s *harness.Session) error {
	_, err := s.Client.CreateSong(ctx, client.SongInput{Artist: "QA Artist"})
	expectRejected(s, "song without title rejected", err, http.StatusBadRequest, http.StatusUnprocessableEntity)
	return nil
}

func csvPreview(ctx context.Context, s *harness.Session) error {
	res, err := s.Client.PreviewSongsCSV(ctx, client.File{
		Name:     "qa-songs.csv",
		Content:  strings.NewReader(previewCSV),
		MIMEType: "text/csv",
	})
	if !s.ExpectCall("csv preview", err) {
		return nil
	}
	s.Check("csv preview parses rows", len(res.Preview) == 2, "%d preview rows, want 2", len(res.Preview))
	return nil
}

func deleteSong(ctx context.Context, s *harness.Session) error {
	id, err := s.MustGet(keySongID)
	if err != nil {
		return err
	}
	if !s.ExpectCall("delete song", s.Client.DeleteSong(ctx, id)) {
		return nil
	}
	s.Delete(keySongID)

	songs, err := s.Client.ListSongs(ctx)
	if s.ExpectNoError("deleted song absent", err) {
		s.Check("deleted song absent", !containsID(songs, id, songID), "song %s still listed", id)
	}
	expectRejected(s, "delete missing song returns 404", s.Client.DeleteSong(ctx, id), http.StatusNotFound)
	return nil
}
