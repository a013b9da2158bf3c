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
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"

	"github.com/centrify/centrify-aws-cli/internal/logger"
)

const (
	// Version app version
	Version = "2.1.0"

	// AWSCredentialsFormat format const
	AWSCredentialsFormat = "aws-credentials"
	// EnvVarFormat format const
	EnvVarFormat = "env-var"
	// ProcessCredentialsFormat format const
	ProcessCredentialsFormat = "process-credentials"
	// NoopFormat format const
	NoopFormat = "noop"

	// TenantFlag cli flag const
	TenantFlag = "tenant"
	// AppKeyFlag cli flag const
	AppKeyFlag = "app-key"
	// UsernameFlag cli flag const
	UsernameFlag = "username"
	// AWSIAMIdPFlag cli flag const
	AWSIAMIdPFlag = "aws-iam-idp"
	// AWSIAMRoleFlag cli flag const
	AWSIAMRoleFlag = "aws-iam-role"
	// AWSRegionFlag cli flag const
	AWSRegionFlag = "aws-region"
	// AWSCredentialsFlag cli flag const
	AWSCredentialsFlag = "aws-credentials"
	// WriteAWSCredentialsFlag cli flag const
	WriteAWSCredentialsFlag = "write-aws-credentials"
	// FormatFlag cli flag const
	FormatFlag = "format"
	// ProfileFlag cli flag const
	ProfileFlag = "profile"
	// SessionDurationFlag cli flag const
	SessionDurationFlag = "session-duration"
	// DebugAPICallsFlag cli flag const
	DebugAPICallsFlag = "debug-api-calls"
	// LegacyAWSVariablesFlag cli flag const
	LegacyAWSVariablesFlag = "legacy-aws-variables"
	// ExpiryAWSVariablesFlag cli flag const
	ExpiryAWSVariablesFlag = "expiry-aws-variables"
	// OpenConsoleFlag cli flag const
	OpenConsoleFlag = "open-console"
	// OpenConsoleCommandFlag cli flag const
	OpenConsoleCommandFlag = "open-console-command"
	// ExecFlag cli flag const
	ExecFlag = "exec"

	// TenantEnvVar env var const
	TenantEnvVar = "CENTRIFY_TENANT"
	// AppKeyEnvVar env var const
	AppKeyEnvVar = "CENTRIFY_APP_KEY"
	// UsernameEnvVar env var const
	UsernameEnvVar = "CENTRIFY_USERNAME"
	// AWSIAMIdPEnvVar env var const
	AWSIAMIdPEnvVar = "AWS_IAM_IDP"
	// AWSIAMRoleEnvVar env var const
	AWSIAMRoleEnvVar = "AWS_IAM_ROLE"
	// AWSRegionEnvVar env var const
	AWSRegionEnvVar = "AWS_REGION"
	// AWSCredentialsEnvVar env var const
	AWSCredentialsEnvVar = "AWS_CREDENTIALS"
	// AWSSessionDurationEnvVar env var const
	AWSSessionDurationEnvVar = "AWS_SESSION_DURATION"
	// WriteAWSCredentialsEnvVar env var const
	WriteAWSCredentialsEnvVar = "WRITE_AWS_CREDENTIALS"
	// FormatEnvVar env var const
	FormatEnvVar = "FORMAT"
	// ProfileEnvVar env var const
	ProfileEnvVar = "PROFILE"
	// DebugAPICallsEnvVar env var const
	DebugAPICallsEnvVar = "DEBUG_API_CALLS"
	// LegacyAWSVariablesEnvVar env var const
	LegacyAWSVariablesEnvVar = "LEGACY_AWS_VARIABLES"
	// ExpiryAWSVariablesEnvVar env var const
	ExpiryAWSVariablesEnvVar = "EXPIRY_AWS_VARIABLES"
	// OpenConsoleEnvVar env var const
	OpenConsoleEnvVar = "OPEN_CONSOLE"
	// OpenConsoleCommandEnvVar env var const
	OpenConsoleCommandEnvVar = "OPEN_CONSOLE_COMMAND"
	// ExecEnvVar env var const
	ExecEnvVar = "EXEC"

	// CentrifyYaml the optional awscli settings file in $HOME/.centrify
	CentrifyYaml = "centrify.yaml"
	// DotCentrifyDir the dot directory for Centrify apps
	DotCentrifyDir = ".centrify"
)

// Attributes config construction attributes, direct values take precedence
// over the evaluated flag/env/.env settings
type Attributes struct {
	Tenant             string
	AppKey             string
	Username           string
	AWSIAMIdP          string
	AWSIAMRole         string
	AWSRegion          string
	AWSCredentials     string
	AWSSessionDuration int64
	Format             string
	Profile            string
	DebugAPICalls      bool
	LegacyAWSVariables bool
	ExpiryAWSVariables bool
	WriteAWSCredentials bool
	OpenConsole        bool
	OpenConsoleCommand string
	Exec               bool
}

// Config A config object for the CLI
type Config struct {
	tenant              string
	appKey              string
	username            string
	awsIAMIdP           string
	awsIAMRole          string
	awsRegion           string
	awsCredentials      string
	awsSessionDuration  int64
	format              string
	profile             string
	debugAPICalls       bool
	legacyAWSVariables  bool
	expiryAWSVariables  bool
	writeAWSCredentials bool
	openConsole         bool
	openConsoleCommand  string
	exec                bool
	httpClient          *http.Client
	// Logger Logger warn/info logger
	Logger *logger.FullLogger
}

// EvaluateSettings Returns a new config gathering values in this order of
// precedence:
//  1. CLI flags
//  2. ENV variables
//  3. .env file
func EvaluateSettings() (*Config, error) {
	return NewConfig(readConfig())
}

// NewConfig create config from attributes
func NewConfig(attrs *Attributes) (*Config, error) {
	cfg := &Config{
		tenant:              attrs.Tenant,
		appKey:              attrs.AppKey,
		username:            attrs.Username,
		awsIAMIdP:           attrs.AWSIAMIdP,
		awsIAMRole:          attrs.AWSIAMRole,
		awsRegion:           attrs.AWSRegion,
		awsCredentials:      attrs.AWSCredentials,
		awsSessionDuration:  attrs.AWSSessionDuration,
		format:              attrs.Format,
		profile:             attrs.Profile,
		debugAPICalls:       attrs.DebugAPICalls,
		legacyAWSVariables:  attrs.LegacyAWSVariables,
		expiryAWSVariables:  attrs.ExpiryAWSVariables,
		writeAWSCredentials: attrs.WriteAWSCredentials,
		openConsole:         attrs.OpenConsole,
		openConsoleCommand:  attrs.OpenConsoleCommand,
		exec:                attrs.Exec,
		Logger:              &logger.FullLogger{},
	}
	if cfg.format == "" {
		cfg.format = EnvVarFormat
	}
	if cfg.profile == "" {
		cfg.profile = "default"
	}
	if cfg.awsSessionDuration == 0 {
		cfg.awsSessionDuration = 3600
	}
	if cfg.writeAWSCredentials {
		// writing aws creds option implies "aws-credentials" format
		cfg.format = AWSCredentialsFormat
	}
	if cfg.awsCredentials == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			cfg.awsCredentials = filepath.Join(homeDir, ".aws", "credentials")
		}
	}
	// tenant values are hosts, tolerate scheme'd inputs
	cfg.tenant = strings.TrimSuffix(strings.TrimPrefix(cfg.tenant, "https://"), "/")

	cfg.httpClient = &http.Client{
		Transport: newConfigTransport(cfg.debugAPICalls),
		Timeout:   time.Second * time.Duration(60),
	}

	return cfg, nil
}

func readConfig() *Attributes {
	attrs := &Attributes{
		Tenant:              viper.GetString(TenantFlag),
		AppKey:              viper.GetString(AppKeyFlag),
		Username:            viper.GetString(UsernameFlag),
		AWSIAMIdP:           viper.GetString(AWSIAMIdPFlag),
		AWSIAMRole:          viper.GetString(AWSIAMRoleFlag),
		AWSRegion:           viper.GetString(AWSRegionFlag),
		AWSCredentials:      viper.GetString(AWSCredentialsFlag),
		AWSSessionDuration:  viper.GetInt64(SessionDurationFlag),
		Format:              viper.GetString(FormatFlag),
		Profile:             viper.GetString(ProfileFlag),
		DebugAPICalls:       viper.GetBool(DebugAPICallsFlag),
		LegacyAWSVariables:  viper.GetBool(LegacyAWSVariablesFlag),
		ExpiryAWSVariables:  viper.GetBool(ExpiryAWSVariablesFlag),
		WriteAWSCredentials: viper.GetBool(WriteAWSCredentialsFlag),
		OpenConsole:         viper.GetBool(OpenConsoleFlag),
		OpenConsoleCommand:  viper.GetString(OpenConsoleCommandFlag),
		Exec:                viper.GetBool(ExecFlag),
	}

	// Viper binds ENV VARs to a lower snake version, set the attrs with them
	// if they haven't already been set by cli flag binding.
	if attrs.Tenant == "" {
		attrs.Tenant = viper.GetString(downCase(TenantEnvVar))
	}
	if attrs.AppKey == "" {
		attrs.AppKey = viper.GetString(downCase(AppKeyEnvVar))
	}
	if attrs.Username == "" {
		attrs.Username = viper.GetString(downCase(UsernameEnvVar))
	}
	if attrs.AWSIAMIdP == "" {
		attrs.AWSIAMIdP = viper.GetString(downCase(AWSIAMIdPEnvVar))
	}
	if attrs.AWSIAMRole == "" {
		attrs.AWSIAMRole = viper.GetString(downCase(AWSIAMRoleEnvVar))
	}
	if attrs.AWSRegion == "" {
		attrs.AWSRegion = viper.GetString(downCase(AWSRegionEnvVar))
	}
	if attrs.AWSCredentials == "" {
		attrs.AWSCredentials = viper.GetString(downCase(AWSCredentialsEnvVar))
	}
	// duration has a default of 3600 from CLI flags, but if the env var
	// version is not 0 then prefer it
	if duration := viper.GetInt64(downCase(AWSSessionDurationEnvVar)); duration != 0 {
		attrs.AWSSessionDuration = duration
	}
	if attrs.Format == "" {
		attrs.Format = viper.GetString(downCase(FormatEnvVar))
	}
	if attrs.Profile == "" {
		attrs.Profile = viper.GetString(downCase(ProfileEnvVar))
	}
	if !attrs.DebugAPICalls {
		attrs.DebugAPICalls = viper.GetBool(downCase(DebugAPICallsEnvVar))
	}
	if !attrs.LegacyAWSVariables {
		attrs.LegacyAWSVariables = viper.GetBool(downCase(LegacyAWSVariablesEnvVar))
	}
	if !attrs.ExpiryAWSVariables {
		attrs.ExpiryAWSVariables = viper.GetBool(downCase(ExpiryAWSVariablesEnvVar))
	}
	if !attrs.WriteAWSCredentials {
		attrs.WriteAWSCredentials = viper.GetBool(downCase(WriteAWSCredentialsEnvVar))
	}
	if !attrs.OpenConsole {
		attrs.OpenConsole = viper.GetBool(downCase(OpenConsoleEnvVar))
	}
	if attrs.OpenConsoleCommand == "" {
		attrs.OpenConsoleCommand = viper.GetString(downCase(OpenConsoleCommandEnvVar))
	}

	return attrs
}

// CheckConfig Checks that required configuration values are set.
func (c *Config) CheckConfig() error {
	var errs []string
	if c.tenant == "" {
		errs = append(errs, "  Centrify tenant value is not set")
	}
	if c.appKey == "" {
		errs = append(errs, "  Centrify application key value is not set")
	}
	if c.username == "" {
		errs = append(errs, "  Username value is not set")
	}
	if c.awsSessionDuration < 900 || c.awsSessionDuration > 43200 {
		errs = append(errs, "  AWS Session Duration must be between 900 and 43200")
	}
	if len(errs) > 0 {
		return NewValidationError("config", strings.Join(errs, "\n"))
	}

	return nil
}

// Tenant the identity provider tenant host
func (c *Config) Tenant() string {
	return c.tenant
}

// SetTenant rewrites the tenant host; the provider may signal a pod
// rediscovery exactly once, before any challenge round.
func (c *Config) SetTenant(tenant string) {
	c.tenant = tenant
}

// AppKey the AWS federation application key
func (c *Config) AppKey() string {
	return c.appKey
}

// Username the default user identity presented to the provider
func (c *Config) Username() string {
	return c.username
}

// AWSIAMIdP preset IdP ARN or friendly label
func (c *Config) AWSIAMIdP() string {
	return c.awsIAMIdP
}

// AWSIAMRole preset role ARN or friendly label
func (c *Config) AWSIAMRole() string {
	return c.awsIAMRole
}

// AWSRegion the AWS region for the STS exchange
func (c *Config) AWSRegion() string {
	return c.awsRegion
}

// AWSCredentials path to the AWS credentials file
func (c *Config) AWSCredentials() string {
	return c.awsCredentials
}

// AWSSessionDuration requested credential lifetime in seconds
func (c *Config) AWSSessionDuration() int64 {
	return c.awsSessionDuration
}

// Format the output format
func (c *Config) Format() string {
	return c.format
}

// IsProcessCredentialsFormat is output format process credentials
func (c *Config) IsProcessCredentialsFormat() bool {
	return c.format == ProcessCredentialsFormat
}

// Profile the AWS profile name
func (c *Config) Profile() string {
	return c.profile
}

// DebugAPICalls dump API requests/responses
func (c *Config) DebugAPICalls() bool {
	return c.debugAPICalls
}

// LegacyAWSVariables emit legacy AWS_SECURITY_TOKEN values
func (c *Config) LegacyAWSVariables() bool {
	return c.legacyAWSVariables
}

// ExpiryAWSVariables emit expiry values in aws-credentials format
func (c *Config) ExpiryAWSVariables() bool {
	return c.expiryAWSVariables
}

// WriteAWSCredentials write AWS credentials to file
func (c *Config) WriteAWSCredentials() bool {
	return c.writeAWSCredentials
}

// OpenConsole open the federated AWS console after the exchange
func (c *Config) OpenConsole() bool {
	return c.openConsole
}

// OpenConsoleCommand custom browser command for --open-console
func (c *Config) OpenConsoleCommand() string {
	return c.openConsoleCommand
}

// Exec run the command after the "--" CLI argument terminator with the
// credentials in its environment
func (c *Config) Exec() bool {
	return c.exec
}

// HTTPClient the shared http client
func (c *Config) HTTPClient() *http.Client {
	return c.httpClient
}

// Interactive true if stdin is attached to a terminal and prompting is
// possible
func (c *Config) Interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// UserAgent the user agent header value
func (c *Config) UserAgent() string {
	return fmt.Sprintf("centrify-aws-cli/%s", Version)
}

// downCase ToLower all alpha chars e.g. HELLO_WORLD -> hello_world
func downCase(s string) string {
	return strings.ToLower(s)
}
