package api

import (
	"context"
	"net/http"

	"github.com/BryceLarsen/Requestwave-sub001/client/internal/types"
)

// StartShow opens a show; new requests attach to it until it is stopped.
func StartShow(ctx context.Context, d Doer, in types.ShowInput) (*types.Show, error) {
	var out types.Show
	r := types.Request{Method: http.MethodPost, Path: "/api/shows/start", JSON: in}
	if err := call(ctx, d, "start show", r, &out, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// StopShow closes the active show.
func StopShow(ctx context.Context, d Doer) error {
	return call(ctx, d, "stop show", types.Request{Method: http.MethodPost, Path: "/api/shows/stop"}, nil, http.StatusOK)
}

// CurrentShow reports the active show, if any.
func CurrentShow(ctx context.Context, d Doer) (*types.CurrentShowResponse, error) {
	var out types.CurrentShowResponse
	if err := call(ctx, d, "current show", types.Request{Method: http.MethodGet, Path: "/api/shows/current"}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
