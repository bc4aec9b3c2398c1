// Package naverprovider реализует клиент внешнего OAuth-провайдера Naver:
// обмен кода авторизации на access token и получение профиля пользователя.
package naverprovider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"
)

// Client клиент API Naver.
type Client struct {
	clientID     string
	clientSecret string
	authURL      string
	apiURL       string
	httpClient   *http.Client
}

// NewClient создаёт новый клиент Naver.
func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		authURL:      "https://nid.naver.com",
		apiURL:       "https://openapi.naver.com",
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// ExchangeCode обменивает код авторизации на access token.
func (c *Client) ExchangeCode(ctx context.Context, code, state string) (*TokenResponse, error) {
	params := url.Values{}
	params.Set("grant_type", "authorization_code")
	params.Set("client_id", c.clientID)
	params.Set("client_secret", c.clientSecret)
	params.Set("code", code)
	params.Set("state", state)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.authURL+"/oauth2.0/token?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, err
	}
	if tokenResp.Error != "" {
		return nil, errors.New("token exchange failed: " + tokenResp.ErrorDescription)
	}
	return &tokenResp, nil
}

// FetchProfile запрашивает профиль пользователя по access token и
// валидирует его, прежде чем вернуть типизированную запись.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/v1/nid/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var profileResp ProfileResponse
	if err := json.NewDecoder(resp.Body).Decode(&profileResp); err != nil {
		return nil, err
	}
	if profileResp.ResultCode != "00" {
		return nil, errors.New("profile request failed: " + profileResp.Message)
	}
	if err := profileResp.Response.Validate(); err != nil {
		return nil, err
	}
	return &profileResp.Response, nil
}
