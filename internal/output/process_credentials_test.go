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

package output

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	caws "github.com/centrify/centrify-aws-cli/internal/aws"
	"github.com/centrify/centrify-aws-cli/internal/config"
)

func TestProcessCredentials(t *testing.T) {
	credsJSON := `
{
	"Version": 1,
	"AccessKeyId": "an AWS access key",
	"SecretAccessKey": "your AWS secret access key",
	"SessionToken": "the AWS session token for temporary credentials",
	"Expiration": "2009-11-10T23:00:00Z"
}`
	result := caws.ProcessCredential{}
	err := json.Unmarshal([]byte(credsJSON), &result)
	require.NoError(t, err)
	require.Equal(t, "an AWS access key", result.AccessKeyID)
	require.Equal(t, "your AWS secret access key", result.SecretAccessKey)
	require.Equal(t, "the AWS session token for temporary credentials", result.SessionToken)
	when := time.Time(time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC))
	require.Equal(t, &when, result.Expiration)
}

func TestProcessCredentialsOutput(t *testing.T) {
	cfg, err := config.NewConfig(&config.Attributes{
		Tenant:   "test.dne-centrify.com",
		AppKey:   "abc",
		Username: "test.user@example.com",
		Format:   config.ProcessCredentialsFormat,
	})
	require.NoError(t, err)

	when := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	cc := &caws.CredentialContainer{
		AccessKeyID:     "ASIAUNITTEST",
		SecretAccessKey: "unit-test-secret",
		SessionToken:    "unit-test-token",
		Expiration:      &when,
	}

	out := captureStdout(t, func() {
		require.NoError(t, NewProcessCredentials().Output(cfg, cc))
	})

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, float64(1), got["Version"])
	require.Equal(t, "ASIAUNITTEST", got["AccessKeyId"])
	require.Equal(t, "2030-01-01T00:00:00Z", got["Expiration"])
}
