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

// Package mfaauth drives the interactive challenge/response authentication
// flow against the identity provider and exchanges the resulting federation
// assertion for temporary AWS IAM credentials.
//
// The flow, from the operator's point of view:
//
//   - CLI starts an authentication session at /Security/StartAuthentication,
//     following the provider's pod rediscovery at most once
//   - CLI answers challenge rounds at /Security/AdvanceAuthentication until
//     the provider reports login success
//   - out-of-band mechanisms are polled every couple of seconds until the
//     operator approves on the other channel
//   - CLI collects the federation assertion from the AWS web app payload
//   - CLI presents the assertion and the chosen role to AWS STS for
//     temporary AWS IAM creds
package mfaauth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/term"

	caws "github.com/centrify/centrify-aws-cli/internal/aws"
	boff "github.com/centrify/centrify-aws-cli/internal/backoff"
	"github.com/centrify/centrify-aws-cli/internal/centrify"
	"github.com/centrify/centrify-aws-cli/internal/choice"
	"github.com/centrify/centrify-aws-cli/internal/config"
	"github.com/centrify/centrify-aws-cli/internal/console"
	"github.com/centrify/centrify-aws-cli/internal/exec"
	"github.com/centrify/centrify-aws-cli/internal/output"
	"github.com/centrify/centrify-aws-cli/internal/saml"
)

// maxChallengeRounds upper bound on challenge rounds for one session; a
// well-behaved provider finishes in one or two.
const maxChallengeRounds = 10

var errOobPending = errors.New("out-of-band approval still pending")

// MFAAuthentication Interactive MFA authentication flow
type MFAAuthentication struct {
	config   *config.Config
	client   *centrify.Client
	selector *choice.Selector
	stdin    *bufio.Reader
}

// NewMFAAuthentication New MFA authentication constructor
func NewMFAAuthentication(cfg *config.Config) (*MFAAuthentication, error) {
	if cfg.IsProcessCredentialsFormat() {
		if cfg.AWSIAMIdP() == "" || cfg.AWSIAMRole() == "" {
			return nil, fmt.Errorf("arguments --%s and --%s must be set for %q format", config.AWSIAMIdPFlag, config.AWSIAMRoleFlag, cfg.Format())
		}
	}

	stdin := bufio.NewReader(os.Stdin)
	return &MFAAuthentication{
		config:   cfg,
		client:   centrify.NewClient(cfg),
		selector: choice.NewSelector(stdin, cfg.Logger),
		stdin:    stdin,
	}, nil
}

// EstablishIAMCredentials Runs the flow end to end: authenticate, collect the
// federation assertion, choose a role binding, exchange it at STS, and render
// the credentials in the configured output format.
func (m *MFAAuthentication) EstablishIAMCredentials() error {
	session, result, err := m.startSession()
	if err != nil {
		return fmt.Errorf("authentication error: %w", err)
	}

	bearerToken, err := m.completeChallenges(session, result)
	if err != nil {
		return fmt.Errorf("authentication error: %w", err)
	}

	payload, err := m.client.HandleAppClick(bearerToken)
	if err != nil {
		return fmt.Errorf("application error: %w", err)
	}
	assertion, err := saml.Parse(payload)
	if err != nil {
		return fmt.Errorf("application error: %w", err)
	}
	bindings, err := saml.ExtractRoles(assertion.Decoded)
	if err != nil {
		return fmt.Errorf("application error: %w", err)
	}

	binding, err := m.selectRoleBinding(bindings)
	if err != nil {
		return err
	}

	cc, err := caws.AssumeRoleWithSAML(m.config, binding.RoleARN, binding.ProviderARN, assertion.Encoded)
	if err != nil {
		return fmt.Errorf("credential exchange error: %w", err)
	}
	cc.Version = 1
	if m.config.Format() == config.AWSCredentialsFormat {
		cc.Profile = m.profileName(cc, binding)
	}

	if err = output.RenderAWSCredential(m.config, cc); err != nil {
		return err
	}

	if m.config.OpenConsole() {
		if err = console.OpenConsole(m.config, cc); err != nil {
			return err
		}
	}
	if m.config.Exec() {
		ex, err := exec.NewExec()
		if err != nil {
			return err
		}
		return ex.Run(cc)
	}

	return nil
}

// startSession Establishes the authentication session. A PodFqdn in the
// first response means the tenant is served from another pod; the start call
// is replayed against that host exactly once.
func (m *MFAAuthentication) startSession() (*centrify.Session, *centrify.AuthResult, error) {
	user := m.config.Username()
	result, err := m.client.StartAuthentication(user)
	if err != nil {
		return nil, nil, err
	}
	if result.PodFqdn != "" {
		m.client.SetEndpoint(result.PodFqdn)
		result, err = m.client.StartAuthentication(user)
		if err != nil {
			return nil, nil, err
		}
		if result.PodFqdn != "" {
			return nil, nil, fmt.Errorf("identity provider redirected more than once, last pod %q", result.PodFqdn)
		}
	}
	if result.Summary != centrify.SummaryLoginSuccess && (result.TenantID == "" || result.SessionID == "") {
		return nil, nil, fmt.Errorf("identity provider did not establish a session for %q", user)
	}

	session := &centrify.Session{
		Endpoint:  m.client.Endpoint(),
		TenantID:  result.TenantID,
		SessionID: result.SessionID,
		State:     centrify.StateStarted,
	}
	return session, result, nil
}

// completeChallenges Works challenge rounds until the provider reports login
// success, returning the bearer token for the application phase.
func (m *MFAAuthentication) completeChallenges(session *centrify.Session, result *centrify.AuthResult) (string, error) {
	ctx := context.Background()
	for round := 0; round < maxChallengeRounds; round++ {
		if result.Summary == centrify.SummaryLoginSuccess {
			session.State = centrify.StateAuthenticated
			return result.Auth, nil
		}

		session.State = centrify.StateAwaitingChallenge
		if len(result.Challenges) == 0 {
			session.State = centrify.StateFailed
			return "", fmt.Errorf("identity provider returned no challenges, summary %q", result.Summary)
		}

		var err error
		result, err = m.solveChallengeSet(ctx, session, result.Challenges)
		if err != nil {
			session.State = centrify.StateFailed
			return "", err
		}
	}

	session.State = centrify.StateFailed
	return "", fmt.Errorf("authentication incomplete after %d challenge rounds", maxChallengeRounds)
}

// solveChallengeSet Solves the challenges of one round in order. A summary of
// login success or a next challenge round supersedes whatever remains of the
// current set.
func (m *MFAAuthentication) solveChallengeSet(ctx context.Context, session *centrify.Session, challenges []centrify.Challenge) (*centrify.AuthResult, error) {
	var result *centrify.AuthResult
	for _, challenge := range challenges {
		mech, err := m.selectMechanism(challenge)
		if err != nil {
			return nil, err
		}
		result, err = m.solveMechanism(ctx, session, mech)
		if err != nil {
			return nil, err
		}
		switch result.Summary {
		case centrify.SummaryLoginSuccess, centrify.SummaryStartNextChallenge, centrify.SummaryNewPackage:
			return result, nil
		}
	}
	return result, nil
}

func (m *MFAAuthentication) selectMechanism(challenge centrify.Challenge) (centrify.Mechanism, error) {
	labels := make([]string, len(challenge.Mechanisms))
	for i, mech := range challenge.Mechanisms {
		labels[i] = mech.SelectLabel()
	}
	idx, err := m.selector.Select("Select an authentication mechanism:", labels)
	if err != nil {
		if errors.Is(err, choice.ErrNoOptions) {
			return centrify.Mechanism{}, errors.New("identity provider returned a challenge without mechanisms")
		}
		return centrify.Mechanism{}, err
	}
	return challenge.Mechanisms[idx], nil
}

// solveMechanism Runs one mechanism to its terminal result. Text mechanisms
// collect a secret answer; out-of-band mechanisms trigger the other channel
// and poll for approval, with the textual variant also accepting a typed
// code in place of the wait.
func (m *MFAAuthentication) solveMechanism(ctx context.Context, session *centrify.Session, mech centrify.Mechanism) (*centrify.AuthResult, error) {
	switch mech.Kind() {
	case centrify.AnswerText:
		answer, err := m.promptSecret(mech.Prompt())
		if err != nil {
			return nil, err
		}
		return m.client.AdvanceAuthentication(session, centrify.ActionAnswer, mech.MechanismID, answer)
	case centrify.AnswerStartTextOob:
		result, err := m.client.AdvanceAuthentication(session, centrify.ActionStartOOB, mech.MechanismID, "")
		if err != nil {
			return nil, err
		}
		if result.Summary != centrify.SummaryOobPending {
			return result, nil
		}
		m.config.Logger.Warn("%s\n", mech.Prompt())
		m.config.Logger.Warn("Enter the code, or press Enter to wait for out-of-band approval: ")
		code, err := m.readLine()
		if err != nil {
			return nil, err
		}
		if code != "" {
			return m.client.AdvanceAuthentication(session, centrify.ActionAnswer, mech.MechanismID, code)
		}
		return m.pollOob(ctx, session, mech)
	default:
		result, err := m.client.AdvanceAuthentication(session, centrify.ActionStartOOB, mech.MechanismID, "")
		if err != nil {
			return nil, err
		}
		if result.Summary != centrify.SummaryOobPending {
			return result, nil
		}
		m.config.Logger.Warn("%s\n", mech.Prompt())
		return m.pollOob(ctx, session, mech)
	}
}

// pollOob Polls the mechanism until the provider reports something other
// than pending. There is no client side deadline; the provider owns the
// challenge's lifetime and fails it when it expires.
func (m *MFAAuthentication) pollOob(ctx context.Context, session *centrify.Session, mech centrify.Mechanism) (*centrify.AuthResult, error) {
	var result *centrify.AuthResult
	poll := func() error {
		r, err := m.client.AdvanceAuthentication(session, centrify.ActionPoll, mech.MechanismID, "")
		if err != nil {
			return backoff.Permanent(err)
		}
		if r.Summary == centrify.SummaryOobPending {
			return errOobPending
		}
		result = r
		return nil
	}
	bOff := boff.NewBackoff(ctx)
	if err := backoff.Retry(poll, bOff); err != nil {
		return nil, err
	}
	return result, nil
}

// promptSecret Collects a secret answer without echo when attached to a
// terminal; piped input is read as a plain line.
func (m *MFAAuthentication) promptSecret(prompt string) (string, error) {
	m.config.Logger.Warn("%s: ", prompt)
	if m.config.Interactive() {
		answer, err := term.ReadPassword(int(os.Stdin.Fd()))
		m.config.Logger.Warn("\n")
		if err != nil {
			return "", err
		}
		return string(answer), nil
	}
	return m.readLine()
}

func (m *MFAAuthentication) readLine() (string, error) {
	line, err := m.stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// selectRoleBinding Chooses the role binding to exchange. Presets from
// --aws-iam-idp and --aws-iam-role short-circuit the prompt; otherwise the
// operator picks from the assertion's bindings, pretty printed with any
// friendly labels from $HOME/.centrify/centrify.yaml.
func (m *MFAAuthentication) selectRoleBinding(bindings []saml.RoleBinding) (saml.RoleBinding, error) {
	var zero saml.RoleBinding

	var configIDPs, configRoles map[string]string
	if yamlConfig, err := config.NewCentrifyYamlConfig(); err == nil {
		configIDPs = yamlConfig.AWSCLI.IDPS
		configRoles = yamlConfig.AWSCLI.ROLES
	}

	if idp := m.config.AWSIAMIdP(); idp != "" {
		kept := make([]saml.RoleBinding, 0, len(bindings))
		for _, b := range bindings {
			if b.ProviderARN == idp || m.choiceFriendlyLabelIDP(b.ProviderARN, b.ProviderARN, configIDPs) == idp {
				kept = append(kept, b)
			}
		}
		if len(kept) == 0 {
			return zero, fmt.Errorf("application error: no role bindings for IdP %q", idp)
		}
		bindings = kept
	}
	if role := m.config.AWSIAMRole(); role != "" {
		for _, b := range bindings {
			if b.RoleARN == role || m.choiceFriendlyLabelRole(b.RoleARN, configRoles) == role {
				return b, nil
			}
		}
		return zero, fmt.Errorf("application error: no role binding matching %q", role)
	}

	labels := make([]string, len(bindings))
	for i, b := range bindings {
		roleLabel := m.choiceFriendlyLabelRole(b.RoleARN, configRoles)
		idpLabel := m.choiceFriendlyLabelIDP(b.ProviderARN, b.ProviderARN, configIDPs)
		labels[i] = fmt.Sprintf("%s (%s)", roleLabel, idpLabel)
	}
	idx, err := m.selector.Select("Choose an AWS IAM role:", labels)
	if err != nil {
		if errors.Is(err, choice.ErrNoOptions) {
			return zero, fmt.Errorf("application error: %w", saml.ErrNoRoles)
		}
		return zero, err
	}
	return bindings[idx], nil
}

// choiceFriendlyLabelIDP returns a friendly choice for pretty printing IdP
// labels.  alternative value is the default value to return if a friendly
// determination can not be made.
func (m *MFAAuthentication) choiceFriendlyLabelIDP(alt, arn string, idps map[string]string) string {
	if idps == nil {
		return alt
	}
	if label, ok := idps[arn]; ok {
		return label
	}
	// treat ARN values as regexps
	for arnRegexp, label := range idps {
		if ok, _ := regexp.MatchString(arnRegexp, arn); ok {
			return label
		}
	}
	return alt
}

// choiceFriendlyLabelRole returns a friendly choice for pretty printing Role
// labels.  The ARN is the default value to return if a friendly
// determination can not be made.
func (m *MFAAuthentication) choiceFriendlyLabelRole(arn string, roles map[string]string) string {
	if roles == nil {
		return arn
	}
	if label, ok := roles[arn]; ok {
		return label
	}
	// reverse case when friendly role name is given
	// --aws-iam-role "S3 Read"
	for _, roleLabel := range roles {
		if arn == roleLabel {
			return roleLabel
		}
	}
	// treat ARN values as regexps
	for arnRegexp, label := range roles {
		if ok, _ := regexp.MatchString(arnRegexp, arn); ok {
			return label
		}
	}
	return arn
}

// profileName Names the credentials file profile alias-idp-role, falling
// back to "org" when the account alias can not be determined.
func (m *MFAAuthentication) profileName(cc *caws.CredentialContainer, binding saml.RoleBinding) string {
	idpName := binding.ProviderARN
	if _, after, found := strings.Cut(binding.ProviderARN, "/"); found {
		idpName = after
	}
	roleName := binding.RoleARN
	if _, after, found := strings.Cut(binding.RoleARN, "/"); found {
		roleName = after
	}

	alias, err := caws.AccountAlias(m.config, cc)
	if err != nil {
		alias = "org"
		m.config.Logger.Warn("unable to determine account alias, setting alias name to %q\n", alias)
	}
	return fmt.Sprintf("%s-%s-%s", alias, idpName, roleName)
}
