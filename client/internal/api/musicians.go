package api

import (
	"context"
	"net/http"

	"github.com/BryceLarsen/Requestwave-sub001/client/internal/types"
)

// GetMusician fetches the public profile behind an audience slug.
func GetMusician(ctx context.Context, d Doer, slug string) (*types.Musician, error) {
	var out types.Musician
	r := types.Request{Method: http.MethodGet, Path: pathf("/api/musicians/%s", slug)}
	if err := call(ctx, d, "get musician", r, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPublicSongs returns the songs an audience sees for slug.
func ListPublicSongs(ctx context.Context, d Doer, slug string) ([]types.Song, error) {
	var out []types.Song
	r := types.Request{Method: http.MethodGet, Path: pathf("/api/musicians/%s/songs", slug)}
	if err := call(ctx, d, "list public songs", r, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPublicPlaylists returns the public playlists for slug.
func ListPublicPlaylists(ctx context.Context, d Doer, slug string) ([]types.Playlist, error) {
	var out []types.Playlist
	r := types.Request{Method: http.MethodGet, Path: pathf("/api/musicians/%s/playlists", slug)}
	if err := call(ctx, d, "list public playlists", r, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}
