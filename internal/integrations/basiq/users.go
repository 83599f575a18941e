package basiq

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Dan9191/bank-onboarding/internal/models"
)

type listResponse[T any] struct {
	Data []T `json:"data"`
}

// AuthLinkRequest is the body for POST /users/{id}/auth_link
type AuthLinkRequest struct {
	InstitutionID string `json:"institutionId"`
	Mobile        string `json:"mobile,omitempty"`
}

// AuthLink is the aggregator's auth link resource
type AuthLink struct {
	ID    string `json:"id"`
	Links struct {
		Public string `json:"public"`
	} `json:"links"`
}

func userPath(userID string) string {
	return "/users/" + url.PathEscape(userID)
}

// CreateUser creates a remote user
func (c *Client) CreateUser(ctx context.Context, email, mobile string) (*models.User, error) {
	var user models.User
	if err := c.Request(ctx, http.MethodPost, "/users", models.UserRequest{Email: email, Mobile: mobile}, &user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// UpdateUser replaces the email and mobile of an existing remote user
func (c *Client) UpdateUser(ctx context.Context, userID, email, mobile string) (*models.User, error) {
	var user models.User
	if err := c.Request(ctx, http.MethodPost, userPath(userID), models.UserRequest{Email: email, Mobile: mobile}, &user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if user.ID == "" {
		user.ID = userID
	}
	return &user, nil
}

// GetUser fetches a remote user by id
func (c *Client) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := c.Request(ctx, http.MethodGet, userPath(userID), nil, &user); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail returns the first remote user whose email matches exactly,
// or nil when there is none. The local part of an address may be case
// sensitive, so no case folding is applied.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	endpoint := fmt.Sprintf("/users?filter=email.eq('%s')", url.QueryEscape(email))

	var users listResponse[models.User]
	if err := c.Request(ctx, http.MethodGet, endpoint, nil, &users); err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	for i := range users.Data {
		if users.Data[i].Email == email {
			return &users.Data[i], nil
		}
	}
	return nil, nil
}

// GetConnections lists the institution connections of a user
func (c *Client) GetConnections(ctx context.Context, userID string) ([]models.Connection, error) {
	var conns listResponse[models.Connection]
	if err := c.Request(ctx, http.MethodGet, userPath(userID)+"/connections", nil, &conns); err != nil {
		return nil, fmt.Errorf("failed to get connections: %w", err)
	}
	return conns.Data, nil
}

// GetAccounts lists the accounts of a user
func (c *Client) GetAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	var accounts listResponse[models.Account]
	if err := c.Request(ctx, http.MethodGet, userPath(userID)+"/accounts", nil, &accounts); err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	return accounts.Data, nil
}

// GetTransactions lists transactions for a user, scoped to one account when
// accountID is set.
func (c *Client) GetTransactions(ctx context.Context, userID, accountID string) ([]models.Transaction, error) {
	endpoint := userPath(userID) + "/transactions"
	if accountID != "" {
		endpoint = userPath(userID) + "/accounts/" + url.PathEscape(accountID) + "/transactions"
	}

	var txs listResponse[models.Transaction]
	if err := c.Request(ctx, http.MethodGet, endpoint, nil, &txs); err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return txs.Data, nil
}

// RequestAuthLink posts an auth link request and returns the raw response so
// callers can handle the payload shapes the aggregator has used over time.
func (c *Client) RequestAuthLink(ctx context.Context, userID string, body AuthLinkRequest) (*Response, error) {
	return c.Do(ctx, http.MethodPost, userPath(userID)+"/auth_link", body)
}

// CreateAuthLink creates an auth link and returns its public URL
func (c *Client) CreateAuthLink(ctx context.Context, userID, institutionID string) (string, error) {
	var link AuthLink
	endpoint := userPath(userID) + "/auth_link"
	if err := c.Request(ctx, http.MethodPost, endpoint, AuthLinkRequest{InstitutionID: institutionID}, &link); err != nil {
		return "", fmt.Errorf("failed to create auth link: %w", err)
	}
	if link.Links.Public == "" {
		return "", ErrMissingLink
	}
	return link.Links.Public, nil
}
