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

package mfaauth

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/centrify/centrify-aws-cli/internal/centrify"
	"github.com/centrify/centrify-aws-cli/internal/choice"
	"github.com/centrify/centrify-aws-cli/internal/config"
)

// apiCall records one request the flow issued against the scripted transport.
type apiCall struct {
	host   string
	path   string
	action string
}

// scriptedTransport plays back canned response bodies in order, recording
// each call. Exact call counts matter for the polling assertions.
type scriptedTransport struct {
	t         *testing.T
	responses []string
	calls     []apiCall
}

func (s *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	call := apiCall{host: req.URL.Host, path: req.URL.Path}
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		require.NoError(s.t, err)
		var body map[string]any
		if err := json.Unmarshal(b, &body); err == nil {
			if action, ok := body["Action"].(string); ok {
				call.action = action
			}
		}
	}
	s.calls = append(s.calls, call)

	require.NotEmpty(s.t, s.responses, "unexpected API call %s %s", req.Method, req.URL)
	body := s.responses[0]
	s.responses = s.responses[1:]
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

func (s *scriptedTransport) countAction(action string) int {
	n := 0
	for _, call := range s.calls {
		if call.action == action {
			n++
		}
	}
	return n
}

func newTestAuth(t *testing.T, stdin string, transport *scriptedTransport, attrs *config.Attributes) *MFAAuthentication {
	if attrs == nil {
		attrs = &config.Attributes{}
	}
	if attrs.Tenant == "" {
		attrs.Tenant = "test.dne-centrify.com"
	}
	if attrs.AppKey == "" {
		attrs.AppKey = "28fa74b2-1651-4f7b-972f-6a7f1cca1d6a"
	}
	if attrs.Username == "" {
		attrs.Username = "test.user@example.com"
	}
	cfg, err := config.NewConfig(attrs)
	require.NoError(t, err)
	cfg.HTTPClient().Transport = transport

	in := bufio.NewReader(strings.NewReader(stdin))
	return &MFAAuthentication{
		config:   cfg,
		client:   centrify.NewClient(cfg),
		selector: choice.NewSelector(in, cfg.Logger),
		stdin:    in,
	}
}

func envelope(result string) string {
	return fmt.Sprintf(`{"success":true,"Result":%s}`, result)
}

func startedEnvelope(mechanisms string) string {
	return envelope(fmt.Sprintf(
		`{"TenantId":"ABC0123","SessionId":"sess-1","Challenges":[{"Mechanisms":[%s]}],"Summary":"NewPackage"}`,
		mechanisms))
}

const (
	oobMechanism = `{"MechanismId":"m-oob","AnswerType":"Oob","Name":"OOB","PromptSelectMech":"Mobile Authenticator","PromptMechChosen":"Approve the sign in request on your device"}`

	textMechanism = `{"MechanismId":"m-text","AnswerType":"Text","Name":"UP","PromptSelectMech":"Password","PromptMechChosen":"Enter Password"}`

	oobPendingEnvelope = `{"success":true,"Result":{"Summary":"OobPending"}}`

	loginSuccessEnvelope = `{"success":true,"Result":{"Summary":"LoginSuccess","Auth":"bearer-xyz"}}`
)

func TestOobPollingStopsOnApproval(t *testing.T) {
	transport := &scriptedTransport{
		t: t,
		responses: []string{
			startedEnvelope(oobMechanism),
			oobPendingEnvelope, // StartOOB
			oobPendingEnvelope, // Poll
			oobPendingEnvelope, // Poll
			loginSuccessEnvelope,
		},
	}
	m := newTestAuth(t, "", transport, nil)

	session, result, err := m.startSession()
	require.NoError(t, err)
	require.Equal(t, "ABC0123", session.TenantID)
	require.Equal(t, "sess-1", session.SessionID)

	bearer, err := m.completeChallenges(session, result)
	require.NoError(t, err)
	require.Equal(t, "bearer-xyz", bearer)
	require.Equal(t, centrify.StateAuthenticated, session.State)

	// approval landed on the third poll, and polling stopped there
	require.Equal(t, 3, transport.countAction(centrify.ActionPoll))
	require.Equal(t, 1, transport.countAction(centrify.ActionStartOOB))
	require.Empty(t, transport.responses)
}

func TestOobPollingStopsOnProviderFailure(t *testing.T) {
	transport := &scriptedTransport{
		t: t,
		responses: []string{
			startedEnvelope(oobMechanism),
			oobPendingEnvelope,
			oobPendingEnvelope,
			`{"success":false,"Message":"Challenge expired","ErrorCode":"Centrify.Expired"}`,
		},
	}
	m := newTestAuth(t, "", transport, nil)

	session, result, err := m.startSession()
	require.NoError(t, err)

	_, err = m.completeChallenges(session, result)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Challenge expired")
	require.Equal(t, centrify.StateFailed, session.State)
	// the failure was terminal, no further polls were issued
	require.Empty(t, transport.responses)
	require.Equal(t, 2, transport.countAction(centrify.ActionPoll))
}

func TestStartSessionFollowsPodRediscovery(t *testing.T) {
	transport := &scriptedTransport{
		t: t,
		responses: []string{
			envelope(`{"PodFqdn":"pod0101.test.dne-centrify.com"}`),
			startedEnvelope(textMechanism),
		},
	}
	m := newTestAuth(t, "", transport, nil)

	session, _, err := m.startSession()
	require.NoError(t, err)
	require.Equal(t, "pod0101.test.dne-centrify.com", session.Endpoint)
	require.Len(t, transport.calls, 2)
	require.Equal(t, "test.dne-centrify.com", transport.calls[0].host)
	require.Equal(t, "pod0101.test.dne-centrify.com", transport.calls[1].host)
}

func TestStartSessionRejectsSecondRedirect(t *testing.T) {
	transport := &scriptedTransport{
		t: t,
		responses: []string{
			envelope(`{"PodFqdn":"pod0101.test.dne-centrify.com"}`),
			envelope(`{"PodFqdn":"pod0202.test.dne-centrify.com"}`),
		},
	}
	m := newTestAuth(t, "", transport, nil)

	_, _, err := m.startSession()
	require.Error(t, err)
	require.Contains(t, err.Error(), "redirected more than once")
}

func TestTextMechanismAnswer(t *testing.T) {
	transport := &scriptedTransport{
		t: t,
		responses: []string{
			startedEnvelope(textMechanism),
			loginSuccessEnvelope,
		},
	}
	m := newTestAuth(t, "hunter2\n", transport, nil)

	session, result, err := m.startSession()
	require.NoError(t, err)

	bearer, err := m.completeChallenges(session, result)
	require.NoError(t, err)
	require.Equal(t, "bearer-xyz", bearer)
	require.Equal(t, 1, transport.countAction(centrify.ActionAnswer))
	require.Equal(t, 0, transport.countAction(centrify.ActionPoll))
}

func TestStartTextOobAcceptsTypedCode(t *testing.T) {
	mech := `{"MechanismId":"m-sms","AnswerType":"StartTextOob","Name":"SMS","PromptSelectMech":"SMS to number ending in 1234"}`
	transport := &scriptedTransport{
		t: t,
		responses: []string{
			startedEnvelope(mech),
			oobPendingEnvelope, // StartOOB
			loginSuccessEnvelope,
		},
	}
	m := newTestAuth(t, "123456\n", transport, nil)

	session, result, err := m.startSession()
	require.NoError(t, err)

	bearer, err := m.completeChallenges(session, result)
	require.NoError(t, err)
	require.Equal(t, "bearer-xyz", bearer)
	// code was typed, so no poll happened
	require.Equal(t, 0, transport.countAction(centrify.ActionPoll))
	require.Equal(t, 1, transport.countAction(centrify.ActionAnswer))
}

func TestChallengeRoundsAreCapped(t *testing.T) {
	responses := []string{startedEnvelope(oobMechanism)}
	for i := 0; i < maxChallengeRounds; i++ {
		// every round hands back yet another challenge
		responses = append(responses, fmt.Sprintf(
			`{"success":true,"Result":{"Summary":"StartNextChallenge","Challenges":[{"Mechanisms":[%s]}]}}`,
			oobMechanism))
	}
	transport := &scriptedTransport{t: t, responses: responses}
	m := newTestAuth(t, "", transport, nil)

	session, result, err := m.startSession()
	require.NoError(t, err)

	_, err = m.completeChallenges(session, result)
	require.Error(t, err)
	require.Contains(t, err.Error(), "incomplete after 10 challenge rounds")
	require.Empty(t, transport.responses)
}

func TestMechanismSelectionByNumber(t *testing.T) {
	mechs := textMechanism + "," + oobMechanism
	transport := &scriptedTransport{
		t: t,
		responses: []string{
			startedEnvelope(mechs),
			loginSuccessEnvelope,
		},
	}
	// invalid entry, re-prompt, pick the password mechanism, then answer it
	m := newTestAuth(t, "9\n1\nhunter2\n", transport, nil)

	session, result, err := m.startSession()
	require.NoError(t, err)

	bearer, err := m.completeChallenges(session, result)
	require.NoError(t, err)
	require.Equal(t, "bearer-xyz", bearer)
	require.Equal(t, 1, transport.countAction(centrify.ActionAnswer))
}

func TestEstablishIAMCredentials(t *testing.T) {
	assertion := base64.StdEncoding.EncodeToString([]byte(`<saml2p:Response xmlns:saml2p="urn:oasis:names:tc:SAML:2.0:protocol">
  <saml2:Assertion xmlns:saml2="urn:oasis:names:tc:SAML:2.0:assertion">
    <saml2:AttributeStatement>
      <saml2:Attribute Name="https://aws.amazon.com/SAML/Attributes/Role">
        <saml2:AttributeValue>arn:aws:iam::123456789012:role/S3Read,arn:aws:iam::123456789012:saml-provider/Centrify</saml2:AttributeValue>
      </saml2:Attribute>
    </saml2:AttributeStatement>
  </saml2:Assertion>
</saml2p:Response>`))
	appClickPage := fmt.Sprintf(`<html><body>
<form method="POST" action="https://signin.aws.amazon.com/saml">
<input type="hidden" name="SAMLResponse" value=%q/>
</form>
</body></html>`, assertion)
	stsResponse := `<AssumeRoleWithSAMLResponse xmlns="https://sts.amazonaws.com/doc/2011-06-15/">
  <AssumeRoleWithSAMLResult>
    <Credentials>
      <AccessKeyId>ASIAUNITTEST</AccessKeyId>
      <SecretAccessKey>unit-test-secret</SecretAccessKey>
      <SessionToken>unit-test-token</SessionToken>
      <Expiration>2030-01-01T00:00:00Z</Expiration>
    </Credentials>
  </AssumeRoleWithSAMLResult>
  <ResponseMetadata><RequestId>req-1</RequestId></ResponseMetadata>
</AssumeRoleWithSAMLResponse>`

	transport := &scriptedTransport{
		t: t,
		responses: []string{
			startedEnvelope(textMechanism),
			loginSuccessEnvelope,
			appClickPage,
			stsResponse,
		},
	}
	m := newTestAuth(t, "hunter2\n", transport, &config.Attributes{
		AWSRegion: "us-east-1",
		Format:    config.NoopFormat,
	})

	err := m.EstablishIAMCredentials()
	require.NoError(t, err)
	require.Empty(t, transport.responses)

	last := transport.calls[len(transport.calls)-1]
	require.Contains(t, last.host, "sts")
	appClick := transport.calls[len(transport.calls)-2]
	require.Equal(t, "/uprest/handleAppClick", appClick.path)
}
