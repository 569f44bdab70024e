package api

import (
	"context"
	"net/http"

	"github.com/BryceLarsen/Requestwave-sub001/client/internal/types"
)

// SuggestSong submits an audience suggestion. Fails with 403 when the
// musician has suggestions turned off.
func SuggestSong(ctx context.Context, d Doer, in types.SuggestionInput) (*types.SongSuggestion, error) {
	var out types.SongSuggestion
	r := types.Request{Method: http.MethodPost, Path: "/api/song-suggestions", JSON: in}
	if err := call(ctx, d, "suggest song", r, &out, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSuggestions returns suggestions addressed to the authenticated musician.
func ListSuggestions(ctx context.Context, d Doer) ([]types.SongSuggestion, error) {
	var out []types.SongSuggestion
	if err := call(ctx, d, "list suggestions", types.Request{Method: http.MethodGet, Path: "/api/song-suggestions"}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateSuggestionStatus marks a suggestion added or rejected.
func UpdateSuggestionStatus(ctx context.Context, d Doer, suggestionID, status string) error {
	r := types.Request{Method: http.MethodPut, Path: pathf("/api/song-suggestions/%s/status", suggestionID), JSON: types.StatusUpdate{Status: status}}
	return call(ctx, d, "update suggestion status", r, nil, http.StatusOK)
}
