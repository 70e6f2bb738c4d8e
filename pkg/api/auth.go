package api

import (
	"context"

	"github.com/charmbracelet/log"
)

// Register creates an account. It never touches the session; the caller logs
// in afterwards.
func (c *Client) Register(ctx context.Context, data RegisterData) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(data).
		Post("/auth/register")
	if err != nil {
		return transportError(err)
	}
	if resp.IsError() {
		return serverError(resp)
	}
	return nil
}

// Login authenticates and persists the returned token and user into the
// session store, replacing whatever was there.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out LoginResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/auth/login")
	if err != nil {
		return nil, transportError(err)
	}
	if resp.IsError() {
		return nil, serverError(resp)
	}
	if err := c.session.Save(out.Token, out.User); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the token server side on a best-effort basis, then clears
// the local session unconditionally. An unreachable or failing server never
// leaves the client logged in.
func (c *Client) Logout(ctx context.Context) error {
	if _, ok := c.session.Token(); ok {
		resp, err := c.http.R().
			SetContext(ctx).
			Post("/auth/logout")
		switch {
		case err != nil:
			log.Warn("révocation du token impossible", "error", err)
		case resp.IsError():
			log.Warn("révocation du token refusée", "status", resp.StatusCode())
		}
	}
	return c.session.Clear()
}

// Me fetches the profile behind the current token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/auth/me")
	if err != nil {
		return nil, transportError(err)
	}
	if resp.IsError() {
		return nil, serverError(resp)
	}
	return &out, nil
}
