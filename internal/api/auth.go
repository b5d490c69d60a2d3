package api

import (
	"context"
	"net/http"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// LoginResult is a successful login: the identity plus the session cookies
// the backend set, which the page server relays to the browser.
type LoginResult struct {
	User    *types.SessionUser
	Cookies []*http.Cookie
	Message string
}

// CheckMe fetches the identity behind the current session cookies.
func (c *Client) CheckMe(ctx context.Context) (*types.SessionUser, error) {
	const op = "CheckMe"
	resp, err := c.do(op, c.request(ctx), http.MethodGet, pathCheckMe)
	if err != nil {
		return nil, err
	}

	var user types.SessionUser
	if err := decodeField(op, resp, "user", &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		if err := decodeData(op, resp, &user); err != nil {
			return nil, err
		}
	}
	if user.ID == "" {
		return nil, &Error{Op: op, Status: resp.StatusCode(), Kind: ErrUnauthorized}
	}
	return &user, nil
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, req types.LoginRequest) (*LoginResult, error) {
	const op = "Login"
	r := c.request(ctx).SetHeader("Content-Type", "application/json").SetBody(req)
	resp, err := c.do(op, r, http.MethodPost, pathLogin)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{
		Cookies: resp.Cookies(),
		Message: envelopeMessage(resp.Body()),
	}

	var user types.SessionUser
	if err := decodeField(op, resp, "user", &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		if err := decodeData(op, resp, &user); err != nil {
			return nil, err
		}
	}
	if user.ID != "" {
		result.User = &user
		return result, nil
	}

	// Some deployments only set the cookie; ask who we are with it.
	me, err := c.CheckMe(WithCookies(ctx, append(cookiesFrom(ctx), result.Cookies...)))
	if err != nil {
		return nil, err
	}
	result.User = me
	return result, nil
}

// Logout ends the session. The returned cookies clear it in the browser.
func (c *Client) Logout(ctx context.Context) ([]*http.Cookie, error) {
	resp, err := c.do("Logout", c.request(ctx), http.MethodPost, pathLogout)
	if err != nil {
		return nil, err
	}
	return resp.Cookies(), nil
}

// Register creates a job seeker account.
func (c *Client) Register(ctx context.Context, req types.RegistrationRequest) (string, error) {
	return c.mutate(ctx, "Register", http.MethodPost, pathRegister, req)
}

// RegisterCompany creates a company and its administrator account. The
// company stays unapproved until an admin approves it.
func (c *Client) RegisterCompany(ctx context.Context, req types.CompanyRegistrationRequest) (string, error) {
	return c.mutate(ctx, "RegisterCompany", http.MethodPost, pathRegisterCompany, req)
}

// ForgotPassword requests a reset email.
func (c *Client) ForgotPassword(ctx context.Context, req types.ForgotPasswordRequest) (string, error) {
	return c.mutate(ctx, "ForgotPassword", http.MethodPost, pathForgotPassword, req)
}

// ResetPassword sets a new password using the reset link id.
func (c *Client) ResetPassword(ctx context.Context, id string, req types.ResetPasswordRequest) (string, error) {
	const op = "ResetPassword"
	r := c.request(ctx).
		SetPathParam("id", id).
		SetHeader("Content-Type", "application/json").
		SetBody(req)
	resp, err := c.do(op, r, http.MethodPost, pathResetPassword)
	if err != nil {
		return "", err
	}
	return envelopeMessage(resp.Body()), nil
}
