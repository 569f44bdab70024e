package api

import (
	"context"
	"net/http"

	"github.com/BryceLarsen/Requestwave-sub001/client/internal/types"
)

// DesignSettings returns the audience page design.
func DesignSettings(ctx context.Context, d Doer) (*types.DesignSettings, error) {
	var out types.DesignSettings
	if err := call(ctx, d, "get design settings", types.Request{Method: http.MethodGet, Path: "/api/design/settings"}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDesignSettings stores the audience page design.
func UpdateDesignSettings(ctx context.Context, d Doer, in types.DesignSettings) error {
	r := types.Request{Method: http.MethodPut, Path: "/api/design/settings", JSON: in}
	return call(ctx, d, "update design settings", r, nil, http.StatusOK)
}
