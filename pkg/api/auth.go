package api

import (
	"context"
	"fmt"

	"github.com/yosida95/uritemplate/v3"
)

// signupTemplate builds the role-specific registration path. Manager and
// employee registration are distinct endpoints on the remote API.
var signupTemplate = uritemplate.MustNew("/api/auth/signup/{role}")

// User identifies the signed-in principal.
type User struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Company    string `json:"company,omitempty"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role,omitempty"`
}

// AuthResponse is the success shape shared by login and signup.
type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"access_token"`
	UserType    string `json:"user_type"`
}

// Registration is the signup payload.
type Registration struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Company    string `json:"company"`
	Department string `json:"department"`
	Password   string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for an authenticated session. Rejections come
// back as *AuthError with the server's reason.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.post(ctx, "/api/auth/login", loginRequest{Email: email, Password: password}, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup registers a new account against the role-specific endpoint.
// role must be "manager" or "employee".
func (c *Client) Signup(ctx context.Context, reg Registration, role string) (*AuthResponse, error) {
	path, err := signupTemplate.Expand(uritemplate.Values{
		"role": uritemplate.String(role),
	})
	if err != nil {
		return nil, fmt.Errorf("building signup path: %w", err)
	}

	var out AuthResponse
	if err := c.post(ctx, path, reg, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

type setPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type setPasswordResponse struct {
	Success bool `json:"success"`
}

// SetPassword completes an emailed password-reset link. The token here is
// the one-time reset token from the link, not the session bearer token.
func (c *Client) SetPassword(ctx context.Context, token, newPassword, confirmPassword string) error {
	var out setPasswordResponse
	if err := c.post(ctx, "/api/auth/set-password", setPasswordRequest{
		Token:           token,
		NewPassword:     newPassword,
		ConfirmPassword: confirmPassword,
	}, &out, false); err != nil {
		return err
	}
	if !out.Success {
		return &AuthError{Detail: "Failed to set password"}
	}
	return nil
}
