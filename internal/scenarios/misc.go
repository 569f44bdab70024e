package scenarios

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/url"
	"strings"

	"github.com/BryceLarsen/Requestwave-sub001/client"
	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
	"github.com/BryceLarsen/Requestwave-sub001/internal/pages"
)

// Static pages that must serve a credential form.
var formPages = []string{"/login.html", "/signup.html", "/reset-password.html"}

func qrcodeScenarios() []harness.Scenario {
	return []harness.Scenario{{Group: GroupQRCode, Name: "qr code", Run: authed(qrCode)}}
}

func demoCSVScenarios() []harness.Scenario {
	return []harness.Scenario{{Group: GroupDemoCSV, Name: "demo csv", Run: demoCSV}}
}

func suggestionScenarios() []harness.Scenario {
	return []harness.Scenario{{Group: GroupSuggestions, Name: "song suggestions", Run: authed(songSuggestions)}}
}

func designScenarios() []harness.Scenario {
	return []harness.Scenario{{Group: GroupDesign, Name: "design settings", Run: authed(designSettings)}}
}

func pageScenarios() []harness.Scenario {
	out := make([]harness.Scenario, 0, len(formPages))
	for _, p := range formPages {
		path := p
		out = append(out, harness.Scenario{
			Group: GroupPages,
			Name:  path,
			Run:   func(ctx context.Context, s *harness.Session) error { return formPage(ctx, s, path) },
		})
	}
	return out
}

func qrCode(ctx context.Context, s *harness.Session) error {
	slug, err := s.MustGet(keySlug)
	if err != nil {
		return err
	}
	qr, err := s.Client.QRCode(ctx)
	if !s.ExpectCall("qr code", err) {
		return nil
	}
	s.Check("qr code has image", qr.QRCode != "", "%d bytes of image data", len(qr.QRCode))

	u, err := url.Parse(qr.AudienceURL)
	if !s.ExpectNoError("audience url ends with slug", err) {
		return nil
	}
	s.Check("audience url ends with slug", strings.HasSuffix(strings.TrimRight(u.Path, "/"), "/"+slug),
		"url %q, slug %q", qr.AudienceURL, slug)
	if d := s.Params.AudienceDomain; d != "" {
		want := strings.TrimRight(d, "/")
		if i := strings.Index(want, "://"); i >= 0 {
			want = want[i+3:]
		}
		s.Check("audience url host matches domain", strings.EqualFold(u.Host, want), "host %q, want %q", u.Host, want)
	}
	return nil
}

func demoCSV(ctx context.Context, s *harness.Session) error {
	body, ctype, err := s.Client.DemoCSV(ctx)
	if !s.ExpectCall("demo csv", err) {
		return nil
	}
	s.Check("demo csv content type", strings.Contains(ctype, "text/csv"), "content type %q", ctype)

	// encoding/csv rejects records whose column count differs from the header.
	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	if !s.Check("demo csv well formed", err == nil, "parse: %v", err) {
		return nil
	}
	if !s.Check("demo csv has rows", len(records) >= 2, "%d records", len(records)) {
		return nil
	}
	cols := map[string]bool{}
	for _, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = true
	}
	s.Check("demo csv header", cols["title"] && cols["artist"], "header %v", records[0])
	return nil
}

func songSuggestions(ctx context.Context, s *harness.Session) error {
	slug, err := s.MustGet(keySlug)
	if err != nil {
		return err
	}
	design, err := s.Client.DesignSettings(ctx)
	if !s.ExpectNoError("song suggestions", err) {
		return nil
	}
	sug, err := s.Client.Anonymous().SuggestSong(ctx, client.SuggestionInput{
		MusicianSlug:   slug,
		Title:          uniqueName("QA Suggestion"),
		Artist:         "QA Artist",
		RequesterName:  "QA Fan",
		RequesterEmail: "qa-fan@example.com",
	})
	if !design.AllowSongSuggestions {
		expectRejected(s, "suggestion refused while disabled", err, http.StatusForbidden)
		return nil
	}
	if !s.ExpectCall("suggest song", err) {
		return nil
	}
	listed, err := s.Client.ListSuggestions(ctx)
	if s.ExpectCall("suggestion listed", err) {
		s.Check("suggestion listed", containsID(listed, sug.ID, suggestionID), "suggestion %s in %d suggestions", sug.ID, len(listed))
	}
	s.ExpectCall("update suggestion status", s.Client.UpdateSuggestionStatus(ctx, sug.ID, "rejected"))
	return nil
}

func designSettings(ctx context.Context, s *harness.Session) error {
	orig, err := s.Client.DesignSettings(ctx)
	if !s.ExpectCall("get design settings", err) {
		return nil
	}
	next := *orig
	next.ShowNotes = !orig.ShowNotes
	switch orig.LayoutMode {
	case "grid":
		next.LayoutMode = "list"
	case "list":
		next.LayoutMode = "grid"
	}
	if !s.ExpectCall("update design settings", s.Client.UpdateDesignSettings(ctx, next)) {
		return nil
	}
	got, err := s.Client.DesignSettings(ctx)
	if s.ExpectNoError("design settings persisted", err) {
		s.Check("design settings persisted", got.ShowNotes == next.ShowNotes && got.LayoutMode == next.LayoutMode,
			"show_notes=%t layout=%q", got.ShowNotes, got.LayoutMode)
	}
	s.ExpectCall("restore design settings", s.Client.UpdateDesignSettings(ctx, *orig))
	return nil
}

func formPage(ctx context.Context, s *harness.Session, path string) error {
	page, err := pages.Inspect(ctx, s.Client.Anonymous().HTTPClient(), s.Client.BaseURL()+path)
	if !s.ExpectNoError(path+" served", err) {
		return nil
	}
	if !s.Check(path+" served", page.StatusCode == http.StatusOK && page.IsHTML(),
		"HTTP %d, content type %q", page.StatusCode, page.ContentType) {
		return nil
	}
	s.Check(path+" has password form", page.HasPasswordForm(), "%d forms", len(page.Forms))
	return nil
}
