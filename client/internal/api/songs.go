package api

import (
	"context"
	"net/http"

	"github.com/BryceLarsen/Requestwave-sub001/client/internal/types"
)

// ListSongs returns the authenticated musician's repertoire.
func ListSongs(ctx context.Context, d Doer) ([]types.Song, error) {
	var out []types.Song
	if err := call(ctx, d, "list songs", types.Request{Method: http.MethodGet, Path: "/api/songs"}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSong adds a song.
func CreateSong(ctx context.Context, d Doer, in types.SongInput) (*types.Song, error) {
	var out types.Song
	r := types.Request{Method: http.MethodPost, Path: "/api/songs", JSON: in}
	if err := call(ctx, d, "create song", r, &out, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSong replaces a song's editable fields.
func UpdateSong(ctx context.Context, d Doer, songID string, in types.SongInput) (*types.Song, error) {
	var out types.Song
	r := types.Request{Method: http.MethodPut, Path: pathf("/api/songs/%s", songID), JSON: in}
	if err := call(ctx, d, "update song", r, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSong removes a song.
func DeleteSong(ctx context.Context, d Doer, songID string) error {
	r := types.Request{Method: http.MethodDelete, Path: pathf("/api/songs/%s", songID)}
	return call(ctx, d, "delete song", r, nil, http.StatusOK, http.StatusNoContent)
}

// PreviewSongsCSV uploads a CSV file and returns the parsed preview without importing.
func PreviewSongsCSV(ctx context.Context, d Doer, file types.File) (*types.CSVPreviewResponse, error) {
	var out types.CSVPreviewResponse
	r := types.Request{Method: http.MethodPost, Path: "/api/songs/csv/preview", File: &file}
	if err := call(ctx, d, "preview songs csv", r, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
