package api

import (
	"context"
	"net/http"

	"github.com/BryceLarsen/Requestwave-sub001/client/internal/types"
)

// CreateRequest submits an audience song request. No token is needed.
func CreateRequest(ctx context.Context, d Doer, in types.RequestInput) (*types.SongRequest, error) {
	var out types.SongRequest
	r := types.Request{Method: http.MethodPost, Path: "/api/requests", JSON: in}
	if err := call(ctx, d, "create request", r, &out, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMusicianRequests returns every request addressed to musicianID.
func ListMusicianRequests(ctx context.Context, d Doer, musicianID string) ([]types.SongRequest, error) {
	var out []types.SongRequest
	r := types.Request{Method: http.MethodGet, Path: pathf("/api/requests/musician/%s", musicianID)}
	if err := call(ctx, d, "list requests", r, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRequestStatus moves a request to status.
func UpdateRequestStatus(ctx context.Context, d Doer, requestID, status string) error {
	r := types.Request{Method: http.MethodPut, Path: pathf("/api/requests/%s/status", requestID), JSON: types.StatusUpdate{Status: status}}
	return call(ctx, d, "update request status", r, nil, http.StatusOK)
}

// DeleteRequest removes a request.
func DeleteRequest(ctx context.Context, d Doer, requestID string) error {
	r := types.Request{Method: http.MethodDelete, Path: pathf("/api/requests/%s", requestID)}
	return call(ctx, d, "delete request", r, nil, http.StatusOK, http.StatusNoContent)
}

// TrackClick records a tip or social link click for a request.
func TrackClick(ctx context.Context, d Doer, requestID string, in types.ClickInput) error {
	r := types.Request{Method: http.MethodPost, Path: pathf("/api/requests/%s/track-click", requestID), JSON: in}
	return call(ctx, d, "track click", r, nil, http.StatusOK)
}

// GroupedRequests returns requests bucketed by current show, today and older.
func GroupedRequests(ctx context.Context, d Doer) (*types.GroupedRequests, error) {
	var out types.GroupedRequests
	if err := call(ctx, d, "grouped requests", types.Request{Method: http.MethodGet, Path: "/api/requests/grouped"}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
