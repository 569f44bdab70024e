package scenarios

import (
	"context"
	"net/http"

	"github.com/BryceLarsen/Requestwave-sub001/client"
	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
)

func requestScenarios() []harness.Scenario {
	return []harness.Scenario{
		{Group: GroupRequests, Name: "create request", Run: authed(createRequest)},
		{Group: GroupRequests, Name: "list requests", Run: authed(listRequests)},
		{Group: GroupRequests, Name: "update request status", Run: authed(updateRequestStatus)},
		{Group: GroupRequests, Name: "invalid request status", Run: authed(invalidRequestStatus)},
		{Group: GroupRequests, Name: "track click", Run: authed(trackClick)},
		{Group: GroupRequests, Name: "delete request", Run: authed(deleteRequest)},
	}
}

// newRequestSong creates a throwaway song for an audience request.
func newRequestSong(ctx context.Context, s *harness.Session, name string) (string, bool) {
	song, err := s.Client.CreateSong(ctx, client.SongInput{Title: uniqueName("QA Request Song"), Artist: "QA Artist"})
	if !s.ExpectNoError(name, err) {
		return "", false
	}
	return song.ID, true
}

// submitRequest posts an audience request for songID without credentials.
func submitRequest(ctx context.Context, s *harness.Session, songID string) (*client.SongRequest, error) {
	musicianID, err := s.MustGet(keyMusicianID)
	if err != nil {
		return nil, err
	}
	return s.Client.Anonymous().CreateRequest(ctx, client.RequestInput{
		MusicianID:     musicianID,
		SongID:         songID,
		RequesterName:  uniqueName("QA Fan"),
		RequesterEmail: "qa-fan@example.com",
		Dedication:     "for the QA team",
	})
}

func createRequest(ctx context.Context, s *harness.Session) error {
	sid, ok := newRequestSong(ctx, s, "create request")
	if !ok {
		return nil
	}
	s.Set(keyReqSongID, sid)

	req, err := submitRequest(ctx, s, sid)
	if !s.ExpectCall("create request", err) {
		return nil
	}
	s.Set(keyRequestID, req.ID)
	s.Check("new request is pending", req.Status == client.RequestPending, "status %q", req.Status)
	return nil
}

func listRequests(ctx context.Context, s *harness.Session) error {
	id, err := s.MustGet(keyRequestID)
	if err != nil {
		return err
	}
	reqs, err := s.Client.ListMusicianRequests(ctx, "")
	if !s.ExpectCall("list musician requests", err) {
		return nil
	}
	s.Check("list contains request", containsID(reqs, id, requestID), "request %s in %d requests", id, len(reqs))
	return nil
}

func updateRequestStatus(ctx context.Context, s *harness.Session) error {
	id, err := s.MustGet(keyRequestID)
	if err != nil {
		return err
	}
	if !s.ExpectCall("accept request", s.Client.UpdateRequestStatus(ctx, id, client.RequestAccepted)) {
		return nil
	}
	reqs, err := s.Client.ListMusicianRequests(ctx, "")
	if !s.ExpectNoError("request status persisted", err) {
		return nil
	}
	status := ""
	for _, r := range reqs {
		if r.ID == id {
			status = r.Status
		}
	}
	s.Check("request status persisted", status == client.RequestAccepted, "status %q, want %q", status, client.RequestAccepted)
	return nil
}

func invalidRequestStatus(ctx context.Context, s *harness.Session) error {
	id, err := s.MustGet(keyRequestID)
	if err != nil {
		return err
	}
	err = s.Client.UpdateRequestStatus(ctx, id, "qa-bogus")
	expectRejected(s, "invalid status rejected", err, http.StatusBadRequest, http.StatusUnprocessableEntity)
	return nil
}

func trackClick(ctx context.Context, s *harness.Session) error {
	id, err := s.MustGet(keyRequestID)
	if err != nil {
		return err
	}
	err = s.Client.Anonymous().TrackClick(ctx, id, client.ClickInput{Type: "tip", Platform: "venmo"})
	s.ExpectCall("track tip click", err)
	return nil
}

func deleteRequest(ctx context.Context, s *harness.Session) error {
	if sid, ok := s.Get(keyReqSongID); ok {
		defer func() {
			s.ExpectCall("delete request song", s.Client.DeleteSong(ctx, sid))
			s.Delete(keyReqSongID)
		}()
	}
	id, err := s.MustGet(keyRequestID)
	if err != nil {
		return err
	}
	if !s.ExpectCall("delete request", s.Client.DeleteRequest(ctx, id)) {
		return nil
	}
	s.Delete(keyRequestID)

	reqs, err := s.Client.ListMusicianRequests(ctx, "")
	if s.ExpectNoError("deleted request absent", err) {
		s.Check("deleted request absent", !containsID(reqs, id, requestID), "request %s still listed", id)
	}
	expectRejected(s, "delete missing request returns 404", s.Client.DeleteRequest(ctx, id), http.StatusNotFound)
	return nil
}
