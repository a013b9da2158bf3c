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

package aws

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/iam"
	"github.com/aws/aws-sdk-go/service/sts"

	"github.com/centrify/centrify-aws-cli/internal/config"
)

// CredentialContainer denormalized struct of all the values that can be
// presented in the different credentials formats
type CredentialContainer struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Expiration      *time.Time
	Region          string
	Version         int
	Profile         string
}

// EnvVarCredential representation of an AWS credential for environment
// variables
type EnvVarCredential struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// CredsFileCredential representation of an AWS credential for the AWS
// credentials file
type CredsFileCredential struct {
	AccessKeyID     string `ini:"aws_access_key_id"`
	SecretAccessKey string `ini:"aws_secret_access_key"`
	SessionToken    string `ini:"aws_session_token"`

	profile string
}

// SetProfile sets the profile name associated with this AWS credential.
func (c *CredsFileCredential) SetProfile(p string) { c.profile = p }

// Profile returns the profile name associated with this AWS credential.
func (c CredsFileCredential) Profile() string { return c.profile }

// ProcessCredential Convenience representation of an AWS credential used for
// process credential format.
type ProcessCredential struct {
	AccessKeyID     string     `json:"AccessKeyId,omitempty"`
	SecretAccessKey string     `json:"SecretAccessKey,omitempty"`
	SessionToken    string     `json:"SessionToken,omitempty"`
	Expiration      *time.Time `json:"Expiration,omitempty"`
	Version         int        `json:"Version,omitempty"`
}

// MarshalJSON ensure Expiration date time is formatted RFC 3339 format.
func (c *ProcessCredential) MarshalJSON() ([]byte, error) {
	type Alias ProcessCredential
	var exp string
	if c.Expiration != nil {
		exp = c.Expiration.Format(time.RFC3339)
	}

	obj := &struct {
		*Alias
		Expiration string `json:"Expiration"`
	}{
		Alias: (*Alias)(c),
	}
	if exp != "" {
		obj.Expiration = exp
	}
	return json.Marshal(obj)
}

// IncompleteCredentialError the exchange response was syntactically valid but
// one or more of the four credential fields was absent; commonly the
// assertion expired while the operator was selecting a role.
type IncompleteCredentialError struct {
	Missing []string
}

func (e *IncompleteCredentialError) Error() string {
	return fmt.Sprintf("credential exchange returned an incomplete credential set, missing: %s",
		strings.Join(e.Missing, ", "))
}

// AssumeRoleWithSAML Exchanges the federation assertion and chosen role for a
// temporary credential set with an STS Assume Role With SAML API call. The
// four credential fields are validated explicitly; a partially populated set
// is a failure, not a degraded success.
func AssumeRoleWithSAML(cfg *config.Config, roleARN, principalARN, assertion string) (*CredentialContainer, error) {
	awsCfg := aws.NewConfig().WithHTTPClient(cfg.HTTPClient())
	region := cfg.AWSRegion()
	if region != "" {
		awsCfg = awsCfg.WithRegion(region)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("AWS API session error: %w", err)
	}
	svc := sts.New(sess)
	input := &sts.AssumeRoleWithSAMLInput{
		DurationSeconds: aws.Int64(cfg.AWSSessionDuration()),
		PrincipalArn:    aws.String(principalARN),
		RoleArn:         aws.String(roleARN),
		SAMLAssertion:   aws.String(assertion),
	}
	svcResp, err := svc.AssumeRoleWithSAML(input)
	if err != nil {
		return nil, fmt.Errorf("STS Assume Role With SAML API error; given idp: %q, role: %q, error: %w", principalARN, roleARN, err)
	}

	if err := checkComplete(svcResp.Credentials); err != nil {
		return nil, err
	}

	cc := &CredentialContainer{
		AccessKeyID:     *svcResp.Credentials.AccessKeyId,
		SecretAccessKey: *svcResp.Credentials.SecretAccessKey,
		SessionToken:    *svcResp.Credentials.SessionToken,
		Expiration:      svcResp.Credentials.Expiration,
		Region:          region,
	}
	return cc, nil
}

// checkComplete the exchange may partially succeed syntactically while
// omitting a field, e.g. an assertion past its validity window.
func checkComplete(creds *sts.Credentials) error {
	if creds == nil {
		return &IncompleteCredentialError{
			Missing: []string{"AccessKeyId", "SecretAccessKey", "SessionToken", "Expiration"},
		}
	}
	var missing []string
	if aws.StringValue(creds.AccessKeyId) == "" {
		missing = append(missing, "AccessKeyId")
	}
	if aws.StringValue(creds.SecretAccessKey) == "" {
		missing = append(missing, "SecretAccessKey")
	}
	if aws.StringValue(creds.SessionToken) == "" {
		missing = append(missing, "SessionToken")
	}
	if creds.Expiration == nil {
		missing = append(missing, "Expiration")
	}
	if len(missing) > 0 {
		return &IncompleteCredentialError{Missing: missing}
	}
	return nil
}

// AccountAlias Looks up the account alias with the fresh credentials; used
// for default profile naming in the credentials file format.
func AccountAlias(cfg *config.Config, cc *CredentialContainer) (string, error) {
	awsCfg := aws.NewConfig().
		WithHTTPClient(cfg.HTTPClient()).
		WithCredentials(credentials.NewStaticCredentials(cc.AccessKeyID, cc.SecretAccessKey, cc.SessionToken))
	if cc.Region != "" {
		awsCfg = awsCfg.WithRegion(cc.Region)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return "", err
	}
	svc := iam.New(sess)
	svcResp, err := svc.ListAccountAliases(&iam.ListAccountAliasesInput{})
	if err != nil {
		return "", err
	}
	if len(svcResp.AccountAliases) < 1 {
		return "", fmt.Errorf("no alias configured for account")
	}
	return *svcResp.AccountAliases[0], nil
}
