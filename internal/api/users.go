package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/jask/expensetracker/internal/domain"
)

// Users is the user/auth service client.
type Users struct{ c *client }

func NewUsers(ep Endpoint, opts Options) *Users {
	return &Users{c: newClient(ep, opts, "api.users")}
}

type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Login exchanges credentials for a bearer token.
func (u *Users) Login(ctx context.Context, username, password string) (string, error) {
	const op = "login"
	data, status, err := u.c.do(ctx, request{
		op:            op,
		method:        http.MethodPost,
		path:          "/Users/login",
		body:          map[string]string{"username": username, "password": password},
		loginFallback: GenericLoginFailure,
	})
	if err != nil {
		return "", err
	}
	var resp loginResponse
	if err := json.Unmarshal(data, &resp); err != nil || strings.TrimSpace(resp.Token) == "" {
		msg := GenericLoginFailure
		if resp.Message != "" {
			msg = resp.Message
		}
		return "", &APIError{Op: op, StatusCode: status, Message: msg, Body: string(data)}
	}
	return strings.TrimSpace(resp.Token), nil
}

func (u *Users) Register(ctx context.Context, reg domain.Registration) error {
	_, _, err := u.c.do(ctx, request{op: "register", method: http.MethodPost, path: "/Users/register", body: reg})
	return err
}

func (u *Users) Profile(ctx context.Context, username string) (domain.Profile, error) {
	var p domain.Profile
	err := u.c.doJSON(ctx, request{
		op:     "profile",
		method: http.MethodGet,
		path:   "/Users/profile",
		query:  url.Values{"username": {username}},
		auth:   true,
	}, &p)
	return p, err
}

func (u *Users) UpdateProfile(ctx context.Context, p domain.Profile) error {
	_, _, err := u.c.do(ctx, request{op: "update profile", method: http.MethodPut, path: "/Users/update-profile", body: p, auth: true})
	return err
}

func (u *Users) ChangePassword(ctx context.Context, username, newPassword string) error {
	_, _, err := u.c.do(ctx, request{
		op:     "change password",
		method: http.MethodPost,
		path:   "/Users/change-password",
		body:   map[string]string{"username": username, "newPassword": newPassword},
		auth:   true,
	})
	return err
}

func (u *Users) RequestPasswordReset(ctx context.Context, username, email string) error {
	_, _, err := u.c.do(ctx, request{
		op:     "password reset",
		method: http.MethodPost,
		path:   "/Users/request-password-reset",
		body:   map[string]string{"username": username, "email": email},
	})
	return err
}
