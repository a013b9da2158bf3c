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

package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"

	"github.com/centrify/centrify-aws-cli/internal/utils"
)

const (
	// TestDomainName Fake tenant domain name for tests / recordings
	TestDomainName = "test.dne-centrify.com"
	// TestBearerToken Fake bearer token for tests / recordings
	TestBearerToken = "token-abc123"
)

// VCRCentrifyAPIRequestHook Modifies VCR recordings.
func VCRCentrifyAPIRequestHook(i *cassette.Interaction) error {
	// need to scrub real tenant strings and rewrite as test.dne-centrify.com
	// so that HTTP requests that escape VCR are bad.

	// test.dne-centrify.com
	vcrHostname := TestDomainName
	// example.my.centrify.net
	tenantHostname := os.Getenv("CENTRIFY_AWSCLI_TENANT")

	// save disk space, clean up what gets written to disk
	i.Request.Headers.Del("User-Agent")
	deleteResponseHeaders := []string{
		"Cache-Control",
		"Content-Security-Policy",
		"duration",
		"Expires",
		"Pragma",
		"Server",
		"Set-Cookie",
		"Strict-Transport-Security",
		"Vary",
	}
	for _, header := range deleteResponseHeaders {
		i.Response.Headers.Del(header)
	}
	for name := range i.Response.Headers {
		// delete all X-headers
		if strings.HasPrefix(name, "X-") {
			i.Response.Headers.Del(name)
			continue
		}
	}

	// scrub any real bearer token out of app click requests
	if i.Request.Headers.Get("Authorization") != "" {
		i.Request.Headers.Set("Authorization", "Bearer "+TestBearerToken)
	}

	// %s/example.my.centrify.net/test.dne-centrify.com/
	i.Request.Host = strings.ReplaceAll(i.Request.Host, tenantHostname, vcrHostname)
	i.Request.URL = strings.ReplaceAll(i.Request.URL, tenantHostname, vcrHostname)
	i.Request.Body = strings.ReplaceAll(i.Request.Body, tenantHostname, vcrHostname)
	i.Response.Body = strings.ReplaceAll(i.Response.Body, tenantHostname, vcrHostname)

	return nil
}

// VCRCentrifyAPIRequestMatcher Defines how VCR will match requests to
// responses.
func VCRCentrifyAPIRequestMatcher(r *http.Request, i cassette.Request) bool {
	// scrub host for lookup
	r.URL.Host = TestDomainName

	// Default matcher compares method and URL only
	if !cassette.DefaultMatcher(r, i) {
		return false
	}
	if r.Body == nil {
		return true
	}

	var b bytes.Buffer
	if _, err := b.ReadFrom(r.Body); err != nil {
		log.Printf("[DEBUG] Failed to read request body from cassette: %v", err)
		return false
	}
	r.Body = io.NopCloser(&b)
	reqBody := b.String()
	// If body matches identically, we are done
	if reqBody == i.Body {
		return true
	}

	// JSON might be the same, but reordered. Try parsing json and comparing
	contentType := r.Header.Get(utils.ContentType)
	if strings.Contains(contentType, utils.ApplicationJSON) {
		var reqJSON, cassetteJSON interface{}
		if err := json.Unmarshal([]byte(reqBody), &reqJSON); err != nil {
			log.Printf("[DEBUG] Failed to unmarshall request json: %v", err)
			return false
		}
		if err := json.Unmarshal([]byte(i.Body), &cassetteJSON); err != nil {
			log.Printf("[DEBUG] Failed to unmarshall cassette json: %v", err)
			return false
		}
		return reflect.DeepEqual(reqJSON, cassetteJSON)
	}

	return true
}

// NewVCRRecorder New VCR recording settings
func NewVCRRecorder(t *testing.T, transport http.RoundTripper) (rec *recorder.Recorder, err error) {
	dir, _ := os.Getwd()
	vcrFixturesHome := path.Join(dir, "../../test/fixtures/vcr")
	cassettesPath := path.Join(vcrFixturesHome, t.Name())
	rec, err = recorder.NewWithOptions(&recorder.Options{
		CassetteName:       cassettesPath,
		Mode:               recorder.ModeRecordOnce,
		SkipRequestLatency: true, // skip how vcr will mimic the real request latency that it can record allowing for fast playback
		RealTransport:      transport,
	})
	if err != nil {
		return
	}

	rec.SetMatcher(VCRCentrifyAPIRequestMatcher)
	rec.AddHook(VCRCentrifyAPIRequestHook, recorder.AfterCaptureHook)

	return
}

// OsSetEnvIfBlank Set env var if its blank and return a clearing function
func OsSetEnvIfBlank(key, value string) func() {
	if os.Getenv(key) != "" {
		return func() {}
	}
	_ = os.Setenv(key, value)
	return func() {
		_ = os.Unsetenv(key)
	}
}
