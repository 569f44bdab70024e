// Package pages inspects the static HTML pages a deployment serves next to
// its API (login, signup, password reset).
package pages

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxPageBytes = 2 << 20

// Input is a form field.
type Input struct {
	Name     string
	Type     string
	Required bool
}

// Form is an HTML form and its fields.
type Form struct {
	ID     string
	Method string
	Action string
	Inputs []Input
}

// HasInputType reports whether the form has an input of type typ.
func (f Form) HasInputType(typ string) bool {
	for _, in := range f.Inputs {
		if strings.EqualFold(in.Type, typ) {
			return true
		}
	}
	return false
}

// Page is what Inspect extracted from a document.
type Page struct {
	URL         string
	StatusCode  int
	ContentType string
	Title       string
	Forms       []Form
	Scripts     []string
}

// IsHTML reports whether the page was served as text/html.
func (p *Page) IsHTML() bool {
	return strings.HasPrefix(strings.ToLower(p.ContentType), "text/html")
}

// HasPasswordForm reports whether any form carries a password input.
func (p *Page) HasPasswordForm() bool {
	for _, f := range p.Forms {
		if f.HasInputType("password") {
			return true
		}
	}
	return false
}

// Inspect fetches url with hc and parses the document. Non-2xx answers are
// returned as a Page with no parsed content rather than an error.
func Inspect(ctx context.Context, hc *http.Client, url string) (*Page, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	page := &Page{
		URL:         url,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return page, nil
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	parse(doc, page)
	return page, nil
}

func parse(doc *goquery.Document, page *Page) {
	page.Title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("form").Each(func(i int, s *goquery.Selection) {
		f := Form{
			ID:     s.AttrOr("id", ""),
			Method: strings.ToUpper(s.AttrOr("method", "GET")),
			Action: s.AttrOr("action", ""),
		}
		s.Find("input").Each(func(i int, in *goquery.Selection) {
			_, required := in.Attr("required")
			f.Inputs = append(f.Inputs, Input{
				Name:     in.AttrOr("name", ""),
				Type:     strings.ToLower(in.AttrOr("type", "text")),
				Required: required,
			})
		})
		page.Forms = append(page.Forms, f)
	})

	doc.Find("script[src]").Each(func(i int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			page.Scripts = append(page.Scripts, src)
		}
	})
}
