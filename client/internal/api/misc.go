package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	clienterrors "github.com/BryceLarsen/Requestwave-sub001/client/internal/errors"
	"github.com/BryceLarsen/Requestwave-sub001/client/internal/types"
)

// QRCode returns the audience QR code and the URL it encodes.
func QRCode(ctx context.Context, d Doer) (*types.QRCodeResponse, error) {
	var out types.QRCodeResponse
	if err := call(ctx, d, "qr code", types.Request{Method: http.MethodGet, Path: "/api/qr-code"}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DemoCSV downloads the sample song CSV. It returns the raw bytes and the
// response content type.
func DemoCSV(ctx context.Context, d Doer) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	resp, err := d.Do(ctx, types.Request{Method: http.MethodGet, Path: "/api/demo-csv"})
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("demo csv: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", clienterrors.NewHTTPError(resp.StatusCode, string(body), "demo csv")
	}
	return body, resp.Header.Get("Content-Type"), nil
}
