package api

import (
	"context"
	"net/http"

	"detectctl/internal/model"
)

// LoginResponse carries the issued token and the authenticated user.
type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login exchanges credentials for a token. The error is returned unmapped to
// a display string on purpose: the sign-in flow renders it itself.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var out LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile returns the user behind the current token ("whoami").
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := c.doJSON(ctx, http.MethodGet, "/users/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
