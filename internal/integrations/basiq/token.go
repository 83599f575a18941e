package basiq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type tokenResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	ExpiresIn   float64 `json:"expires_in"`
}

// AccessToken returns the cached bearer token while it is valid and
// exchanges the API key for a new one otherwise. The lock is held across
// the exchange so concurrent callers share a single fetch.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expiry) {
		return c.token, nil
	}

	token, expiry, err := c.fetchToken(ctx)
	if err != nil {
		return "", err
	}
	c.token = token
	c.expiry = expiry
	return token, nil
}

func (c *Client) fetchToken(ctx context.Context) (string, time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/token", strings.NewReader("scope="+tokenScope))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: failed to create token request: %w", ErrAuth, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+c.apiKey)
	req.Header.Set("basiq-version", apiVersion)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: token request failed: %w", ErrAuth, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: failed to read token response: %w", ErrAuth, err)
	}
	c.log.WithField("status", resp.StatusCode).Debug("Token response")

	var data tokenResponse
	if err := json.Unmarshal(body, &data); err != nil || data.AccessToken == "" {
		c.log.WithField("response", string(body)).Error("No access token in response")
		return "", time.Time{}, fmt.Errorf("%w: no access token in response: %s", ErrAuth, strings.TrimSpace(string(body)))
	}

	now := c.now()
	expiry := now
	if data.ExpiresIn > 0 {
		expiry = now.Add(time.Duration(data.ExpiresIn * float64(time.Second)))
	} else if exp, ok := jwtExpiry(data.AccessToken); ok {
		expiry = exp
	}

	c.log.WithField("expires_at", expiry).Info("Obtained Basiq access token")
	return data.AccessToken, expiry, nil
}

// jwtExpiry reads the exp claim without verifying the signature; the
// token is only used as an opaque credential.
func jwtExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
