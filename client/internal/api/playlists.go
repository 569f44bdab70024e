package api

import (
	"context"
	"net/http"

	"github.com/BryceLarsen/Requestwave-sub001/client/internal/types"
)

// ListPlaylists returns the authenticated musician's playlists.
func ListPlaylists(ctx context.Context, d Doer) ([]types.Playlist, error) {
	var out []types.Playlist
	if err := call(ctx, d, "list playlists", types.Request{Method: http.MethodGet, Path: "/api/playlists"}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePlaylist creates a playlist from song ids.
func CreatePlaylist(ctx context.Context, d Doer, in types.PlaylistInput) (*types.Playlist, error) {
	var out types.Playlist
	r := types.Request{Method: http.MethodPost, Path: "/api/playlists", JSON: in}
	if err := call(ctx, d, "create playlist", r, &out, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// RenamePlaylist changes a playlist's name.
func RenamePlaylist(ctx context.Context, d Doer, playlistID, name string) error {
	r := types.Request{Method: http.MethodPut, Path: pathf("/api/playlists/%s/name", playlistID), JSON: types.PlaylistName{Name: name}}
	return call(ctx, d, "rename playlist", r, nil, http.StatusOK)
}

// SetPlaylistVisibility toggles whether the audience can see a playlist.
func SetPlaylistVisibility(ctx context.Context, d Doer, playlistID string, public bool) error {
	r := types.Request{Method: http.MethodPut, Path: pathf("/api/playlists/%s/visibility", playlistID), JSON: types.PlaylistVisibility{IsPublic: public}}
	return call(ctx, d, "set playlist visibility", r, nil, http.StatusOK)
}

// DeletePlaylist removes a playlist.
func DeletePlaylist(ctx context.Context, d Doer, playlistID string) error {
	r := types.Request{Method: http.MethodDelete, Path: pathf("/api/playlists/%s", playlistID)}
	return call(ctx, d, "delete playlist", r, nil, http.StatusOK, http.StatusNoContent)
}
