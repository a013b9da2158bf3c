/*
 * Copyright (c) 2022-Present, Centrify, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package centrify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/centrify/centrify-aws-cli/internal/config"
	"github.com/centrify/centrify-aws-cli/internal/utils"
)

const (
	startAuthenticationPath   = "/Security/StartAuthentication"
	advanceAuthenticationPath = "/Security/AdvanceAuthentication"
	handleAppClickPath        = "/uprest/handleAppClick"

	startAuthenticationVersion = "1.0"
)

// Client HTTP gateway to the identity provider's REST operations. The client
// owns its endpoint host; pod rediscovery rewrites it through SetEndpoint,
// consumed exactly once by the orchestrator.
type Client struct {
	config   *config.Config
	endpoint string
}

// NewClient Client constructor; the endpoint starts at the configured tenant
// host.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		config:   cfg,
		endpoint: cfg.Tenant(),
	}
}

// Endpoint The provider host currently in use.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// SetEndpoint Rewrites the provider host after pod rediscovery.
func (c *Client) SetEndpoint(host string) {
	c.endpoint = host
}

// StartAuthentication Calls the provider's session-start operation for the
// user identity. The caller inspects Result.PodFqdn and retries once against
// the new host if it is present.
func (c *Client) StartAuthentication(user string) (*AuthResult, error) {
	body := startAuthenticationRequest{
		User:    user,
		Version: startAuthenticationVersion,
	}
	return c.postAuth(startAuthenticationPath, body)
}

// AdvanceAuthentication Advances one challenge mechanism with the given
// action, one of ActionAnswer, ActionStartOOB, or ActionPoll.
func (c *Client) AdvanceAuthentication(session *Session, action, mechanismID, answer string) (*AuthResult, error) {
	body := advanceAuthenticationRequest{
		Action:          action,
		MechanismID:     mechanismID,
		Answer:          answer,
		TenantID:        session.TenantID,
		SessionID:       session.SessionID,
		PersistentLogin: false,
	}
	return c.postAuth(advanceAuthenticationPath, body)
}

// HandleAppClick Fetches the federation application payload with the bearer
// token. The payload is an HTML form carrying the assertion; callers scan it,
// they do not parse it as a document.
func (c *Client) HandleAppClick(bearerToken string) ([]byte, error) {
	params := url.Values{"appkey": {c.config.AppKey()}}
	apiURL := fmt.Sprintf("https://%s%s?%s", c.endpoint, handleAppClickPath, params.Encode())

	req, err := http.NewRequest(http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add(utils.Accept, utils.TextHTML)
	req.Header.Add(utils.UserAgentHeader, c.config.UserAgent())
	req.Header.Add(utils.XNativeClientHeader, "true")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", bearerToken))

	resp, err := c.config.HTTPClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := NewAPIError(resp); err != nil {
		return nil, err
	}

	return io.ReadAll(resp.Body)
}

// postAuth Issues one JSON POST to a /Security operation and decodes the
// envelope. A success=false envelope is returned as an APIError carrying the
// provider's message.
func (c *Client) postAuth(path string, body any) (*AuthResult, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	apiURL := fmt.Sprintf("https://%s%s", c.endpoint, path)

	req, err := http.NewRequest(http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Add(utils.Accept, utils.ApplicationJSON)
	req.Header.Add(utils.ContentType, utils.ApplicationJSON)
	req.Header.Add(utils.UserAgentHeader, c.config.UserAgent())
	req.Header.Add(utils.XNativeClientHeader, "true")

	resp, err := c.config.HTTPClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := NewAPIError(resp); err != nil {
		return nil, err
	}

	var ar AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", path, err)
	}
	if err := NewResponseError(&ar); err != nil {
		return nil, err
	}

	return &ar.Result, nil
}
