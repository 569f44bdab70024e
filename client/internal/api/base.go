package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	clienterrors "github.com/BryceLarsen/Requestwave-sub001/client/internal/errors"
	"github.com/BryceLarsen/Requestwave-sub001/client/internal/types"
)

// Doer issues a described request and returns the raw response.
// The public client satisfies it; tests use small fakes.
type Doer interface {
	Do(ctx context.Context, req types.Request) (*http.Response, error)
}

// NewHTTPRequest turns a types.Request into an *http.Request against baseURL.
//
// JSON bodies get Content-Type application/json. File payloads are encoded
// as multipart/form-data; any caller Content-Type override is dropped so the
// multipart boundary is the only content type on the wire.
func NewHTTPRequest(ctx context.Context, baseURL string, req types.Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	target := strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.File != nil:
		buf, ct, err := encodeMultipart(req.File)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case req.JSON != nil:
		b, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, req.Path, err)
		}
		body, contentType = bytes.NewReader(b), "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	for k, vs := range req.Header {
		switch textproto.CanonicalMIMEHeaderKey(k) {
		case "Authorization":
			// Only the bearer transport sets credentials.
			continue
		case "Content-Type":
			if req.File != nil {
				continue
			}
		}
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if contentType != "" && (req.File != nil || httpReq.Header.Get("Content-Type") == "") {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

func encodeMultipart(f *types.File) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range f.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	field := f.Field
	if field == "" {
		field = "file"
	}
	var content []byte
	if f.Content != nil {
		b, err := io.ReadAll(f.Content)
		if err != nil {
			return nil, "", fmt.Errorf("multipart read file: %w", err)
		}
		content = b
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, f.Name))
	h.Set("Content-Type", partContentType(f.MIMEType, content))
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("multipart create part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, "", fmt.Errorf("multipart write file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("multipart close: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

// partContentType prefers the caller's MIME type and sniffs content otherwise.
func partContentType(declared string, content []byte) string {
	if declared != "" {
		return declared
	}
	if len(content) == 0 {
		return "application/octet-stream"
	}
	return mimetype.Detect(content).String()
}

// call performs req, checks the status against want and decodes the body into out
// (when out is non-nil). Unexpected statuses become classified HTTP errors.
func call(ctx context.Context, d Doer, op string, req types.Request, out any, want ...int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	resp, err := d.Do(ctx, req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if !statusIn(resp.StatusCode, want) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return clienterrors.NewHTTPError(resp.StatusCode, strings.TrimSpace(string(body)), op)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func statusIn(code int, want []int) bool {
	if len(want) == 0 {
		return code >= 200 && code < 300
	}
	for _, w := range want {
		if code == w {
			return true
		}
	}
	return false
}

// pathf builds an API path escaping each argument as a path segment.
func pathf(format string, args ...string) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(a)
	}
	return fmt.Sprintf(format, escaped...)
}
