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
	"fmt"
	"os"
	"runtime"
	"strings"

	caws "github.com/centrify/centrify-aws-cli/internal/aws"
	"github.com/centrify/centrify-aws-cli/internal/config"
)

// EnvVar Environment Variable output formatter
type EnvVar struct {
	LegacyAWSVariables bool
}

// NewEnvVar Creates a new EnvVar
func NewEnvVar(legacyVars bool) *EnvVar {
	return &EnvVar{
		LegacyAWSVariables: legacyVars,
	}
}

// Output Satisfies the Outputter interface and emits the AWS credentials as a
// single eval-able shell line on STDOUT. Stale AWS_PROFILE and
// AWS_SECURITY_TOKEN values are unset first so the fresh keys win over
// whatever the calling shell had exported.
func (e *EnvVar) Output(c *config.Config, cc *caws.CredentialContainer) error {
	evc := &caws.EnvVarCredential{
		AccessKeyID:     cc.AccessKeyID,
		SecretAccessKey: cc.SecretAccessKey,
		SessionToken:    cc.SessionToken,
	}
	if os.Getenv("PSModulePath") != "" {
		// we're on powershell.
		c.Logger.Info("Remove-Item Env:AWS_PROFILE -ErrorAction SilentlyContinue; ")
		c.Logger.Info("$Env:AWS_ACCESS_KEY_ID = \"%s\"; ", evc.AccessKeyID)
		c.Logger.Info("$Env:AWS_SECRET_ACCESS_KEY = \"%s\"; ", evc.SecretAccessKey)
		c.Logger.Info("$Env:AWS_SESSION_TOKEN = \"%s\"", evc.SessionToken)
		if e.LegacyAWSVariables {
			c.Logger.Info("; $Env:AWS_SECURITY_TOKEN = \"%s\"", evc.SessionToken)
		}
		c.Logger.Info("\n")
	} else if runtime.GOOS == "windows" {
		c.Logger.Info("setx AWS_ACCESS_KEY_ID %s\n", evc.AccessKeyID)
		c.Logger.Info("setx AWS_SECRET_ACCESS_KEY %s\n", evc.SecretAccessKey)
		c.Logger.Info("setx AWS_SESSION_TOKEN %s\n", evc.SessionToken)
		if e.LegacyAWSVariables {
			c.Logger.Info("setx AWS_SECURITY_TOKEN %s\n", evc.SessionToken)
		}
	} else {
		unset := []string{"AWS_PROFILE"}
		if !e.LegacyAWSVariables {
			unset = append(unset, "AWS_SECURITY_TOKEN")
		}
		exports := []string{
			fmt.Sprintf("AWS_ACCESS_KEY_ID=%s", evc.AccessKeyID),
			fmt.Sprintf("AWS_SECRET_ACCESS_KEY=%s", evc.SecretAccessKey),
			fmt.Sprintf("AWS_SESSION_TOKEN=%s", evc.SessionToken),
		}
		if e.LegacyAWSVariables {
			exports = append(exports, fmt.Sprintf("AWS_SECURITY_TOKEN=%s", evc.SessionToken))
		}
		c.Logger.Info("unset %s; export %s\n", strings.Join(unset, " "), strings.Join(exports, " "))
	}

	return nil
}
