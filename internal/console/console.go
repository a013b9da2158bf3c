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

package console

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	osexec "os/exec"
	"strings"

	"github.com/google/shlex"
	brwsr "github.com/pkg/browser"

	caws "github.com/centrify/centrify-aws-cli/internal/aws"
	"github.com/centrify/centrify-aws-cli/internal/config"
)

const (
	federationEndpoint = "https://signin.aws.amazon.com/federation"
	consoleDestination = "https://console.aws.amazon.com/"
)

type signinTokenResponse struct {
	SigninToken string `json:"SigninToken"`
}

// OpenConsole Opens the AWS Console in a web browser, signed in with the
// given temporary credentials via the AWS federation endpoint.
func OpenConsole(cfg *config.Config, cc *caws.CredentialContainer) error {
	signinURL, err := signinURL(cfg, cc)
	if err != nil {
		return err
	}

	if bCmd := cfg.OpenConsoleCommand(); bCmd != "" {
		bArgs, err := shlex.Split(bCmd)
		if err != nil {
			return fmt.Errorf("browser command %q is invalid: %w", bCmd, err)
		}
		bArgs = append(bArgs, signinURL)
		cmd := osexec.Command(bArgs[0], bArgs[1:]...)
		out, err := cmd.CombinedOutput()
		if err != nil {
			cfg.Logger.Warn("Failed to open console with given browser: %v\n", err)
			cfg.Logger.Warn("  %s\n", strings.Join(bArgs, " "))
		}
		if len(out) > 0 {
			cfg.Logger.Warn("browser output:\n%s\n", string(out))
		}
		return err
	}

	return brwsr.OpenURL(signinURL)
}

// signinURL Exchanges the credential set for a federation signin token and
// builds the login URL around it.
func signinURL(cfg *config.Config, cc *caws.CredentialContainer) (string, error) {
	creds := map[string]string{
		"sessionId":    cc.AccessKeyID,
		"sessionKey":   cc.SecretAccessKey,
		"sessionToken": cc.SessionToken,
	}
	credsJSON, err := json.Marshal(creds)
	if err != nil {
		return "", err
	}

	tokenURL := fmt.Sprintf("%s?Action=getSigninToken&Session=%s",
		federationEndpoint, url.QueryEscape(string(credsJSON)))
	resp, err := cfg.HTTPClient().Get(tokenURL)
	if err != nil {
		return "", fmt.Errorf("AWS federation API error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AWS federation API error: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var token signinTokenResponse
	if err = json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("AWS federation API error: %w", err)
	}

	return fmt.Sprintf("%s?Action=login&Issuer=%s&Destination=%s&SigninToken=%s",
		federationEndpoint,
		url.QueryEscape(cfg.Tenant()),
		url.QueryEscape(consoleDestination),
		url.QueryEscape(token.SigninToken)), nil
}
