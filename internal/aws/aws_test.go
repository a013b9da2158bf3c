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
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/stretchr/testify/require"
)

func TestCheckComplete(t *testing.T) {
	when := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	complete := &sts.Credentials{
		AccessKeyId:     aws.String("ASIAUNITTEST"),
		SecretAccessKey: aws.String("secret"),
		SessionToken:    aws.String("token"),
		Expiration:      &when,
	}

	tests := []struct {
		name    string
		creds   func() *sts.Credentials
		missing []string
	}{
		{
			name:  "complete",
			creds: func() *sts.Credentials { return complete },
		},
		{
			name:    "nil credentials",
			creds:   func() *sts.Credentials { return nil },
			missing: []string{"AccessKeyId", "SecretAccessKey", "SessionToken", "Expiration"},
		},
		{
			name: "missing session token",
			creds: func() *sts.Credentials {
				c := *complete
				c.SessionToken = nil
				return &c
			},
			missing: []string{"SessionToken"},
		},
		{
			name: "empty access key",
			creds: func() *sts.Credentials {
				c := *complete
				c.AccessKeyId = aws.String("")
				return &c
			},
			missing: []string{"AccessKeyId"},
		},
		{
			name: "missing expiration and secret",
			creds: func() *sts.Credentials {
				c := *complete
				c.SecretAccessKey = nil
				c.Expiration = nil
				return &c
			},
			missing: []string{"SecretAccessKey", "Expiration"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := checkComplete(test.creds())
			if test.missing == nil {
				require.NoError(t, err)
				return
			}
			var ice *IncompleteCredentialError
			require.ErrorAs(t, err, &ice)
			require.Equal(t, test.missing, ice.Missing)
			for _, field := range test.missing {
				require.Contains(t, err.Error(), field)
			}
		})
	}
}

func TestProcessCredentialExpirationRFC3339(t *testing.T) {
	when := time.Date(2030, time.January, 1, 12, 30, 0, 0, time.UTC)
	pc := &ProcessCredential{
		AccessKeyID:     "ASIAUNITTEST",
		SecretAccessKey: "secret",
		SessionToken:    "token",
		Expiration:      &when,
		Version:         1,
	}
	credJSON, err := json.Marshal(pc)
	require.NoError(t, err)
	require.Contains(t, string(credJSON), `"Expiration":"2030-01-01T12:30:00Z"`)
	require.Contains(t, string(credJSON), `"Version":1`)
}
