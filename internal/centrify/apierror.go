/*
 * Copyright (c) 2023-Present, Centrify, Inc.
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
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// APIErrorMessageBase base API error message
	APIErrorMessageBase = "identity provider returned an unknown error"
	// APIErrorMessageWithMessage API error message with provider message
	APIErrorMessageWithMessage = "identity provider returned an error: %s"
	// HTTPHeaderWwwAuthenticate Www-Authenticate header
	HTTPHeaderWwwAuthenticate = "Www-Authenticate"
)

// APIError Wrapper for provider API errors. The provider's own Message is
// kept verbatim so the operator sees exactly what the provider said.
type APIError struct {
	Message          string `json:"Message"`
	Exception        string `json:"Exception"`
	ErrorID          string `json:"ErrorID"`
	ErrorCode        string `json:"ErrorCode"`
	ErrorDescription string `json:"error_description,omitempty" toml:"error_description"`
}

// Error String-ify the Error
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf(APIErrorMessageWithMessage, e.Message)
	}
	if e.ErrorDescription != "" {
		return fmt.Sprintf(APIErrorMessageWithMessage, e.ErrorDescription)
	}
	if e.Exception != "" {
		return fmt.Sprintf(APIErrorMessageWithMessage, e.Exception)
	}
	return APIErrorMessageBase
}

// NewAPIError Constructor for provider API error from an HTTP response; will
// return nil if the response is not an error.
func NewAPIError(resp *http.Response) error {
	statusCode := resp.StatusCode
	if statusCode >= http.StatusOK && statusCode < http.StatusBadRequest {
		return nil
	}
	e := APIError{}
	if (statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden) &&
		strings.Contains(resp.Header.Get(HTTPHeaderWwwAuthenticate), "Bearer") {
		for _, v := range strings.Split(resp.Header.Get(HTTPHeaderWwwAuthenticate), ", ") {
			if strings.Contains(v, "error_description") {
				_, err := toml.Decode(v, &e)
				if err != nil {
					e.Message = "unauthorized"
				}
				return &e
			}
		}
	}
	bodyBytes, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	_ = json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&e)
	if e.Message == "" {
		e.Message = resp.Status
	}
	return &e
}

// NewResponseError Constructor for provider API error from a decoded
// success=false response envelope.
func NewResponseError(ar *AuthResponse) error {
	if ar.Success {
		return nil
	}
	return &APIError{
		Message:   ar.Message,
		Exception: ar.Exception,
		ErrorID:   ar.ErrorID,
		ErrorCode: ar.ErrorCode,
	}
}
