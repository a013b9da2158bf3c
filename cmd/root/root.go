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

package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/centrify/centrify-aws-cli/cmd/root/debug"
	"github.com/centrify/centrify-aws-cli/internal/config"
	cliFlag "github.com/centrify/centrify-aws-cli/internal/flag"
	"github.com/centrify/centrify-aws-cli/internal/mfaauth"
)

var (
	flags = []cliFlag.Flag{
		{
			Name:   config.TenantFlag,
			Short:  "t",
			Value:  "",
			Usage:  "Centrify tenant URL or hostname",
			EnvVar: config.TenantEnvVar,
		},
		{
			Name:   config.AppKeyFlag,
			Short:  "a",
			Value:  "",
			Usage:  "AWS web app key in the Centrify app catalog",
			EnvVar: config.AppKeyEnvVar,
		},
		{
			Name:   config.UsernameFlag,
			Short:  "u",
			Value:  "",
			Usage:  "Username to authenticate as",
			EnvVar: config.UsernameEnvVar,
		},
		{
			Name:   config.AWSIAMIdPFlag,
			Short:  "i",
			Value:  "",
			Usage:  "Preset IAM Identity Provider ARN",
			EnvVar: config.AWSIAMIdPEnvVar,
		},
		{
			Name:   config.AWSIAMRoleFlag,
			Short:  "r",
			Value:  "",
			Usage:  "Preset IAM Role ARN",
			EnvVar: config.AWSIAMRoleEnvVar,
		},
		{
			Name:   config.AWSRegionFlag,
			Short:  "n",
			Value:  "",
			Usage:  "Preset AWS Region",
			EnvVar: config.AWSRegionEnvVar,
		},
		{
			Name:   config.AWSCredentialsFlag,
			Short:  "w",
			Value:  "",
			Usage:  "Path to the AWS credentials file, used with --format aws-credentials",
			EnvVar: config.AWSCredentialsEnvVar,
		},
		{
			Name:   config.WriteAWSCredentialsFlag,
			Short:  "z",
			Value:  false,
			Usage:  "Write credentials to the AWS credentials file, an alias for --format aws-credentials",
			EnvVar: config.WriteAWSCredentialsEnvVar,
		},
		{
			Name:   config.FormatFlag,
			Short:  "o",
			Value:  "",
			Usage:  "Output format. [env-var|aws-credentials|process-credentials|noop]",
			EnvVar: config.FormatEnvVar,
		},
		{
			Name:   config.ProfileFlag,
			Short:  "p",
			Value:  "",
			Usage:  "AWS profile name written with --format aws-credentials",
			EnvVar: config.ProfileEnvVar,
		},
		{
			Name:   config.SessionDurationFlag,
			Short:  "s",
			Value:  int64(0),
			Usage:  "Requested credential session duration in seconds",
			EnvVar: config.AWSSessionDurationEnvVar,
		},
		{
			Name:   config.DebugAPICallsFlag,
			Short:  "d",
			Value:  false,
			Usage:  "Verbose printing of API calls",
			EnvVar: config.DebugAPICallsEnvVar,
		},
		{
			Name:   config.LegacyAWSVariablesFlag,
			Short:  "l",
			Value:  false,
			Usage:  "Emit deprecated AWS Security Token value. [AWS_SECURITY_TOKEN]",
			EnvVar: config.LegacyAWSVariablesEnvVar,
		},
		{
			Name:   config.ExpiryAWSVariablesFlag,
			Short:  "x",
			Value:  false,
			Usage:  "Emit x_security_token_expires value in the AWS credentials file",
			EnvVar: config.ExpiryAWSVariablesEnvVar,
		},
		{
			Name:   config.OpenConsoleFlag,
			Short:  "b",
			Value:  false,
			Usage:  "Open the AWS Console in a web browser after credentials are issued",
			EnvVar: config.OpenConsoleEnvVar,
		},
		{
			Name:   config.OpenConsoleCommandFlag,
			Short:  "m",
			Value:  "",
			Usage:  "Open the AWS Console with the given web browser command",
			EnvVar: config.OpenConsoleCommandEnvVar,
		},
		{
			Name:   config.ExecFlag,
			Short:  "c",
			Value:  false,
			Usage:  "Execute any shell commands after the '--' CLI argument terminator with the fresh credentials in the environment",
			EnvVar: config.ExecEnvVar,
		},
	}
	requiredFlags = []string{config.TenantFlag, config.AppKeyFlag, config.UsernameFlag}
)

// NewRootCommand Sets up the root cobra command
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Version: config.Version,
		Use:     "centrify-aws-cli",
		Short:   "centrify-aws-cli - Centrify federated identity for AWS CLI",
		Long: `centrify-aws-cli - Centrify federated identity for AWS CLI

Centrify MFA authentication in support of AWS CLI. centrify-aws-cli handles
the challenge/response authentication to the identity provider and the SAML
token exchange with AWS STS to collect a proper IAM role for the AWS CLI
operator.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.EvaluateSettings()
			if err != nil {
				return err
			}
			if err = cliFlag.CheckRequiredFlags(requiredFlags); err != nil {
				return err
			}
			if err = cfg.CheckConfig(); err != nil {
				return err
			}

			mfa, err := mfaauth.NewMFAAuthentication(cfg)
			if err != nil {
				return err
			}
			return mfa.EstablishIAMCredentials()
		},
	}

	cliFlag.MakeFlagBindings(cmd, flags, true)
	cmd.AddCommand(debug.NewDebugCommand())

	return cmd
}

// Execute Executes the root command, exiting non-zero on any failure.
func Execute() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "centrify-aws-cli experienced the following error '%s'\n", err)
		os.Exit(1)
	}
}
