package api

import (
	"context"
	"net/http"

	"github.com/BryceLarsen/Requestwave-sub001/client/internal/types"
)

// GetProfile fetches the authenticated musician's profile.
func GetProfile(ctx context.Context, d Doer) (*types.Musician, error) {
	var out types.Musician
	if err := call(ctx, d, "get profile", types.Request{Method: http.MethodGet, Path: "/api/profile"}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies a partial profile update.
func UpdateProfile(ctx context.Context, d Doer, upd types.ProfileUpdate) (*types.Musician, error) {
	var out types.Musician
	r := types.Request{Method: http.MethodPut, Path: "/api/profile", JSON: upd}
	if err := call(ctx, d, "update profile", r, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
