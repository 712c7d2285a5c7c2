package users

import (
	"context"
	"fmt"
	"net/url"

	"github.com/bodegonapp/storefront-backend/pkg/enums"
)

const usersPath = "user"

// User is the upstream account record attached to new sales.
type User struct {
	ID       int64          `json:"id"`
	Username string         `json:"usuario"`
	Role     enums.UserRole `json:"rol"`
}

type resourceGetter interface {
	Get(ctx context.Context, path string, query url.Values, dest any) error
}

// Client resolves user records from the upstream API.
type Client struct {
	api resourceGetter
}

// NewClient builds the user resolver.
func NewClient(api resourceGetter) (*Client, error) {
	if api == nil {
		return nil, fmt.Errorf("resource client required")
	}
	return &Client{api: api}, nil
}

// GetByID fetches the full user record referenced by the session.
func (c *Client) GetByID(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := c.api.Get(ctx, fmt.Sprintf("%s/%d", usersPath, id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
