package scenarios

import (
	"context"

	"github.com/BryceLarsen/Requestwave-sub001/client"
	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
)

func showScenarios() []harness.Scenario {
	return []harness.Scenario{
		{Group: GroupShows, Name: "start show", Run: authed(startShow)},
		{Group: GroupShows, Name: "requests grouped by show", Run: authed(groupedRequests)},
		{Group: GroupShows, Name: "stop show", Run: authed(stopShow)},
	}
}

func startShow(ctx context.Context, s *harness.Session) error {
	cur, err := s.Client.CurrentShow(ctx)
	if !s.ExpectNoError("start show", err) {
		return nil
	}
	if cur.Active && !s.ExpectCall("stop running show", s.Client.StopShow(ctx)) {
		return nil
	}

	show, err := s.Client.StartShow(ctx, client.ShowInput{Name: uniqueName("QA Show"), Venue: "QA Hall"})
	if !s.ExpectCall("start show", err) {
		return nil
	}
	s.Set(keyShowID, show.ID)

	cur, err = s.Client.CurrentShow(ctx)
	if s.ExpectCall("current show", err) {
		s.Check("current show is the started one", cur.Active && cur.Show != nil && cur.Show.ID == show.ID,
			"active=%t", cur.Active)
	}
	return nil
}

func groupedRequests(ctx context.Context, s *harness.Session) error {
	if _, err := s.MustGet(keyShowID); err != nil {
		return err
	}
	sid, ok := newRequestSong(ctx, s, "grouped requests")
	if !ok {
		return nil
	}
	defer func() { s.ExpectCall("delete show song", s.Client.DeleteSong(ctx, sid)) }()

	req, err := submitRequest(ctx, s, sid)
	if !s.ExpectCall("request during show", err) {
		return nil
	}
	defer func() { s.ExpectCall("delete show request", s.Client.DeleteRequest(ctx, req.ID)) }()

	g, err := s.Client.GroupedRequests(ctx)
	if !s.ExpectCall("grouped requests", err) {
		return nil
	}
	s.Check("request grouped under current show", containsID(g.CurrentShow, req.ID, requestID),
		"request %s in %d current-show requests", req.ID, len(g.CurrentShow))
	return nil
}

func stopShow(ctx context.Context, s *harness.Session) error {
	if _, err := s.MustGet(keyShowID); err != nil {
		return err
	}
	if !s.ExpectCall("stop show", s.Client.StopShow(ctx)) {
		return nil
	}
	s.Delete(keyShowID)
	cur, err := s.Client.CurrentShow(ctx)
	if s.ExpectNoError("show inactive after stop", err) {
		s.Check("show inactive after stop", !cur.Active, "active=%t", cur.Active)
	}
	return nil
}
