package api

import (
	"context"
	"errors"
	"fmt"

	"project30/internal/model"
)

type loginRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// Login authenticates and stores the session cookie issued by the server.
func (c *Client) Login(ctx context.Context, account, password string) (model.User, error) {
	var resp struct {
		User model.User `json:"user"`
	}
	err := c.doPost(ctx, "login", loginRequest{Account: account, Password: password}, &resp)
	if errors.Is(err, ErrNotFound) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("login: %w", err)
	}
	return resp.User, nil
}

// Logout ends the server session and forgets the local cookie even when the
// server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doPost(ctx, "logout", nil, nil)
	if resetErr := c.jar.Reset(); resetErr != nil {
		return resetErr
	}
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
