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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig(&Attributes{
		Tenant:   "example.my.centrify.net",
		AppKey:   "abc",
		Username: "test.user@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, EnvVarFormat, cfg.Format())
	require.Equal(t, "default", cfg.Profile())
	require.Equal(t, int64(3600), cfg.AWSSessionDuration())
	require.NotNil(t, cfg.HTTPClient())
	require.NotNil(t, cfg.Logger)
}

func TestNewConfigTenantSchemeTolerated(t *testing.T) {
	tests := []struct {
		name   string
		tenant string
		want   string
	}{
		{
			name:   "bare host",
			tenant: "example.my.centrify.net",
			want:   "example.my.centrify.net",
		},
		{
			name:   "https scheme",
			tenant: "https://example.my.centrify.net",
			want:   "example.my.centrify.net",
		},
		{
			name:   "trailing slash",
			tenant: "https://example.my.centrify.net/",
			want:   "example.my.centrify.net",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg, err := NewConfig(&Attributes{Tenant: test.tenant, AppKey: "abc", Username: "u"})
			require.NoError(t, err)
			require.Equal(t, test.want, cfg.Tenant())
		})
	}
}

func TestNewConfigWriteAWSCredentialsImpliesFormat(t *testing.T) {
	cfg, err := NewConfig(&Attributes{
		Tenant:              "example.my.centrify.net",
		AppKey:              "abc",
		Username:            "u",
		WriteAWSCredentials: true,
	})
	require.NoError(t, err)
	require.Equal(t, AWSCredentialsFormat, cfg.Format())
	require.True(t, cfg.WriteAWSCredentials())
}

func TestCheckConfig(t *testing.T) {
	tests := []struct {
		name    string
		attrs   Attributes
		wantErr string
	}{
		{
			name:  "valid",
			attrs: Attributes{Tenant: "t", AppKey: "a", Username: "u"},
		},
		{
			name:    "missing tenant",
			attrs:   Attributes{AppKey: "a", Username: "u"},
			wantErr: "tenant value is not set",
		},
		{
			name:    "missing app key",
			attrs:   Attributes{Tenant: "t", Username: "u"},
			wantErr: "application key value is not set",
		},
		{
			name:    "duration too short",
			attrs:   Attributes{Tenant: "t", AppKey: "a", Username: "u", AWSSessionDuration: 60},
			wantErr: "between 900 and 43200",
		},
		{
			name:    "duration too long",
			attrs:   Attributes{Tenant: "t", AppKey: "a", Username: "u", AWSSessionDuration: 90000},
			wantErr: "between 900 and 43200",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg, err := NewConfig(&test.attrs)
			require.NoError(t, err)
			err = cfg.CheckConfig()
			if test.wantErr == "" {
				require.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Contains(t, err.Error(), test.wantErr)
		})
	}
}

func TestNewCentrifyYamlConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	yamlBody := `---
awscli:
  idps:
    "arn:aws:iam::123456789012:saml-provider/Centrify": "Prod Centrify"
  roles:
    "arn:aws:iam::123456789012:role/S3Read": "S3 Read"
`
	require.NoError(t, os.MkdirAll(filepath.Join(home, DotCentrifyDir), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, DotCentrifyDir, CentrifyYaml), []byte(yamlBody), 0o600))

	conf, err := NewCentrifyYamlConfig()
	require.NoError(t, err)
	require.Equal(t, "Prod Centrify", conf.AWSCLI.IDPS["arn:aws:iam::123456789012:saml-provider/Centrify"])
	require.Equal(t, "S3 Read", conf.AWSCLI.ROLES["arn:aws:iam::123456789012:role/S3Read"])
}

func TestUserAgent(t *testing.T) {
	cfg, err := NewConfig(&Attributes{Tenant: "t", AppKey: "a", Username: "u"})
	require.NoError(t, err)
	require.Equal(t, "centrify-aws-cli/"+Version, cfg.UserAgent())
}
