package dummyjson

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

var _ port.AuthClient = (*Client)(nil)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Gender      string `json:"gender"`
	Image       string `json:"image"`
	AccessToken string `json:"accessToken"`
	// Token is the field name used by older API versions.
	Token string `json:"token"`
}

type addUserRequest struct {
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Login calls POST /auth/login.
func (c *Client) Login(ctx context.Context, username, password string) (domain.Session, error) {
	var resp loginResponse
	err := c.do(ctx, "login", http.MethodPost, "/auth/login", nil, loginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return domain.Session{}, fmt.Errorf("c.do: %w", err)
	}

	token := resp.AccessToken
	if token == "" {
		token = resp.Token
	}

	return domain.Session{
		User: domain.User{
			ID:        resp.ID,
			Username:  resp.Username,
			FirstName: resp.FirstName,
			LastName:  resp.LastName,
			Email:     resp.Email,
			Gender:    resp.Gender,
			Image:     resp.Image,
		},
		Token: token,
	}, nil
}

// AddUser calls POST /users/add. The created user in the response is
// discarded; DummyJSON does not keep it.
func (c *Client) AddUser(ctx context.Context, user port.NewUser) error {
	err := c.do(ctx, "add user", http.MethodPost, "/users/add", nil, addUserRequest{
		FirstName: user.FirstName,
		Email:     user.Email,
		Password:  user.Password,
	}, nil)
	if err != nil {
		return fmt.Errorf("c.do: %w", err)
	}

	return nil
}
