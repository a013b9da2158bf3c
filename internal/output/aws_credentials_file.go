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
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"

	caws "github.com/centrify/centrify-aws-cli/internal/aws"
	"github.com/centrify/centrify-aws-cli/internal/config"
)

// ensureConfigExists verify that the credentials file exists, creating it and
// any parent directories as needed
func ensureConfigExists(filename string, profile string) error {
	if _, err := os.Stat(filename); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			dir := filepath.Dir(filename)

			err = os.MkdirAll(dir, 0o700)
			if err != nil {
				return errors.Wrapf(err, "unable to create directory %q", dir)
			}

			err = os.WriteFile(filename, []byte("["+profile+"]\n"), 0o600)
			if err != nil {
				return errors.Wrapf(err, "unable to create %q", filename)
			}
			return nil
		}
		return err
	}
	return nil
}

// AWSCredentialsFile AWS credentials file output formatter
type AWSCredentialsFile struct {
	LegacyAWSVariables bool
	ExpiryAWSVariables bool
	Expiry             string
}

// NewAWSCredentialsFile Creates a new AWSCredentialsFile
func NewAWSCredentialsFile(legacyVars, expiryVars bool, expiry string) *AWSCredentialsFile {
	return &AWSCredentialsFile{
		LegacyAWSVariables: legacyVars,
		ExpiryAWSVariables: expiryVars,
		Expiry:             expiry,
	}
}

// Output Satisfies the Outputter interface and writes the AWS credentials to
// the credentials file under the chosen profile. Other profiles in the file
// are left untouched.
func (e *AWSCredentialsFile) Output(c *config.Config, cc *caws.CredentialContainer) error {
	cfc := &caws.CredsFileCredential{
		AccessKeyID:     cc.AccessKeyID,
		SecretAccessKey: cc.SecretAccessKey,
		SessionToken:    cc.SessionToken,
	}
	profile := cc.Profile
	if profile == "" {
		profile = c.Profile()
	}
	filename := c.AWSCredentials()

	if err := ensureConfigExists(filename, profile); err != nil {
		return err
	}
	if err := e.saveProfile(filename, profile, cfc); err != nil {
		return err
	}

	c.Logger.Warn("Wrote profile %q to %s\n", profile, filename)
	return nil
}

func (e *AWSCredentialsFile) saveProfile(filename, profile string, cfc *caws.CredsFileCredential) error {
	cfg, err := ini.Load(filename)
	if err != nil {
		return errors.Wrapf(err, "unable to parse %q", filename)
	}
	iniProfile, err := cfg.NewSection(profile)
	if err != nil {
		return err
	}
	err = iniProfile.ReflectFrom(cfc)
	if err != nil {
		return err
	}
	if e.LegacyAWSVariables {
		if _, err = iniProfile.NewKey("aws_security_token", cfc.SessionToken); err != nil {
			return err
		}
	}
	if e.ExpiryAWSVariables {
		if _, err = iniProfile.NewKey("x_security_token_expires", e.Expiry); err != nil {
			return err
		}
	}

	return cfg.SaveTo(filename)
}
