package api

import (
	"context"
	"net/http"

	"github.com/BryceLarsen/Requestwave-sub001/client/internal/types"
)

// Login exchanges credentials for a bearer token.
func Login(ctx context.Context, d Doer, req types.LoginRequest) (*types.LoginResponse, error) {
	var out types.LoginResponse
	r := types.Request{Method: http.MethodPost, Path: "/api/auth/login", JSON: req}
	if err := call(ctx, d, "login", r, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a musician account.
func Register(ctx context.Context, d Doer, req types.RegisterRequest) (*types.LoginResponse, error) {
	var out types.LoginResponse
	r := types.Request{Method: http.MethodPost, Path: "/api/auth/register", JSON: req}
	if err := call(ctx, d, "register", r, &out, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword asks the backend to send a reset code.
func ForgotPassword(ctx context.Context, d Doer, email string) (*types.MessageResponse, error) {
	var out types.MessageResponse
	r := types.Request{Method: http.MethodPost, Path: "/api/auth/forgot-password", JSON: types.ForgotPasswordRequest{Email: email}}
	if err := call(ctx, d, "forgot password", r, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword completes a password reset with a code.
func ResetPassword(ctx context.Context, d Doer, req types.ResetPasswordRequest) (*types.MessageResponse, error) {
	var out types.MessageResponse
	r := types.Request{Method: http.MethodPost, Path: "/api/auth/reset-password", JSON: req}
	if err := call(ctx, d, "reset password", r, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the musician behind the current token.
func Me(ctx context.Context, d Doer) (*types.Musician, error) {
	var out types.Musician
	if err := call(ctx, d, "me", types.Request{Method: http.MethodGet, Path: "/api/me"}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
